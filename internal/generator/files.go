package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"homematch/internal/model"
)

// SaveListings serializes raw listings to a pretty-printed JSON array.
func SaveListings(path string, listings []model.Listing) error {
	return writeJSON(path, listings)
}

// SaveDocuments serializes documents in their {page_content, metadata} form.
// The on-disk shape depends on which save function was used; callers must
// know which one they are reading back.
func SaveDocuments(path string, docs []model.Document) error {
	return writeJSON(path, docs)
}

// LoadListings reads a raw-listing JSON file back. Elements that fail schema
// validation are discarded, matching the generation-time contract.
func LoadListings(path string) ([]model.Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read listings file: %w", err)
	}

	var raw []model.Listing
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse listings file: %w", err)
	}

	listings := make([]model.Listing, 0, len(raw))
	for i := range raw {
		if err := raw[i].Validate(); err != nil {
			continue
		}
		listings = append(listings, raw[i])
	}

	return listings, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
