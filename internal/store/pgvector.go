package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/sirupsen/logrus"

	"homematch/internal/llm"
	"homematch/internal/model"
)

// Index is the pgvector-backed similarity index over listing documents.
// The same configured embedding model is used at build time and query time;
// that identity is enforced purely by the shared config.
type Index struct {
	db       *sqlx.DB
	embedder llm.Embedder
	logger   *logrus.Logger
	dim      int
}

type documentRow struct {
	Neighborhood string  `db:"neighborhood"`
	Price        int     `db:"price"`
	Bedrooms     int     `db:"bedrooms"`
	Bathrooms    int     `db:"bathrooms"`
	HouseSize    string  `db:"house_size"`
	Content      string  `db:"content"`
	Distance     float64 `db:"distance"`
}

// NewIndex connects to PostgreSQL and prepares the index.
func NewIndex(dsn string, maxConn, maxIdleConn, dimensions int, embedder llm.Embedder, logger *logrus.Logger) (*Index, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Index{db: db, embedder: embedder, logger: logger, dim: dimensions}, nil
}

// Close closes the database connection.
func (x *Index) Close() error {
	return x.db.Close()
}

// Rebuild replaces the whole index with the given documents: the table is
// truncated, every page_content is embedded, and rows are reinserted. There
// are no incremental upsert semantics.
func (x *Index) Rebuild(ctx context.Context, docs []model.Document) error {
	if err := x.ensureSchema(ctx); err != nil {
		return err
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.PageContent
	}

	embeddings, err := x.embedder.CreateEmbeddings(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed documents: %w", err)
	}
	if len(embeddings) != len(docs) {
		return fmt.Errorf("embedding count mismatch: %d documents, %d vectors", len(docs), len(embeddings))
	}

	tx, err := x.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `TRUNCATE listing_documents`); err != nil {
		return fmt.Errorf("failed to truncate index: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO listing_documents (neighborhood, price, bedrooms, bathrooms, house_size, content, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, doc := range docs {
		_, err := stmt.ExecContext(ctx,
			metaString(doc.Metadata, "neighborhood"),
			metaInt(doc.Metadata, "price"),
			metaInt(doc.Metadata, "bedrooms"),
			metaInt(doc.Metadata, "bathrooms"),
			metaString(doc.Metadata, "house_size"),
			doc.PageContent,
			pgvector.NewVector(embeddings[i]),
		)
		if err != nil {
			return fmt.Errorf("failed to insert document %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit index rebuild: %w", err)
	}

	x.logger.WithFields(logrus.Fields{
		"documents": len(docs),
	}).Info("vector index rebuilt")

	return nil
}

// Search embeds the query text and returns up to k documents ranked by
// cosine distance, most similar first. Ties break in the index's native
// order.
func (x *Index) Search(ctx context.Context, text string, k int) ([]model.Document, error) {
	embeddings, err := x.embedder.CreateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) != 1 {
		return nil, fmt.Errorf("expected one query embedding, got %d", len(embeddings))
	}

	var rows []documentRow
	err = x.db.SelectContext(ctx, &rows, `
		SELECT neighborhood, price, bedrooms, bathrooms, house_size, content,
		       embedding <=> $1 AS distance
		FROM listing_documents
		ORDER BY embedding <=> $1
		LIMIT $2
	`, pgvector.NewVector(embeddings[0]), k)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	docs := make([]model.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, model.Document{
			PageContent: row.Content,
			Metadata: map[string]any{
				"neighborhood": row.Neighborhood,
				"price":        row.Price,
				"bedrooms":     row.Bedrooms,
				"bathrooms":    row.Bathrooms,
				"house_size":   row.HouseSize,
			},
		})
	}

	return docs, nil
}

func (x *Index) ensureSchema(ctx context.Context) error {
	if _, err := x.db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS listing_documents (
			id           BIGSERIAL PRIMARY KEY,
			neighborhood TEXT NOT NULL,
			price        BIGINT NOT NULL,
			bedrooms     INT NOT NULL,
			bathrooms    INT NOT NULL,
			house_size   TEXT NOT NULL,
			content      TEXT NOT NULL,
			embedding    vector(%d) NOT NULL
		)
	`, x.dim)
	if _, err := x.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create index table: %w", err)
	}

	return nil
}

func metaString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func metaInt(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
