package model

import (
	"fmt"
	"strings"
)

// Preferences is the structured extraction of a buyer's free-text request.
// Fields the model cannot infer stay nil or empty; Query is always required
// and is the only field read downstream by retrieval.
type Preferences struct {
	Bedrooms           *int     `json:"bedrooms,omitempty"`
	Bathrooms          *int     `json:"bathrooms,omitempty"`
	HouseSize          *string  `json:"house_size,omitempty"`
	Amenities          []string `json:"amenities,omitempty"`
	Transportation     []string `json:"transportation,omitempty"`
	NeighborhoodTraits []string `json:"neighborhood_traits,omitempty"`
	PriceRange         *string  `json:"price_range,omitempty"`
	Lifestyle          *string  `json:"lifestyle,omitempty"`
	Query              string   `json:"query"`
}

// Validate enforces the cleaning schema: a non-empty search sentence and
// non-negative room counts.
func (p *Preferences) Validate() error {
	if strings.TrimSpace(p.Query) == "" {
		return fmt.Errorf("query must not be empty")
	}
	if p.Bedrooms != nil && *p.Bedrooms < 0 {
		return fmt.Errorf("bedrooms must be non-negative, got %d", *p.Bedrooms)
	}
	if p.Bathrooms != nil && *p.Bathrooms < 0 {
		return fmt.Errorf("bathrooms must be non-negative, got %d", *p.Bathrooms)
	}
	return nil
}
