package model

import "strings"

// Document is the search/index unit derived from a Listing. PageContent is
// the only embedded text; Metadata carries the remaining listing fields for
// display and future filtering, never for embedding.
type Document struct {
	PageContent string         `json:"page_content"`
	Metadata    map[string]any `json:"metadata"`
}

// MatchResult is the pipeline output: a free-text recommendation plus the
// exact documents that were supplied to the language model as context.
type MatchResult struct {
	Answer  string     `json:"answer"`
	Context []Document `json:"context"`
}

// ToDocument flattens a listing into its indexable form: the two prose
// fields become the searchable text, everything else becomes metadata.
func (l *Listing) ToDocument() Document {
	text := strings.TrimSpace(l.Description) + "\n\n" + strings.TrimSpace(l.NeighborhoodDescription)

	return Document{
		PageContent: strings.TrimSpace(text),
		Metadata: map[string]any{
			"neighborhood": l.Neighborhood,
			"price":        l.Price,
			"bedrooms":     l.Bedrooms,
			"bathrooms":    l.Bathrooms,
			"house_size":   l.HouseSize,
		},
	}
}

// ToDocuments converts listings in order, one document per listing.
func ToDocuments(listings []Listing) []Document {
	docs := make([]Document, 0, len(listings))
	for i := range listings {
		docs = append(docs, listings[i].ToDocument())
	}
	return docs
}
