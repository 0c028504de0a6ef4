package model

import (
	"fmt"
	"strings"
)

// Listing represents one synthetic real-estate property record. Every field
// is required at creation time; a listing that fails validation is discarded,
// not repaired.
type Listing struct {
	Neighborhood            string `json:"neighborhood"`
	Price                   int    `json:"price"` // whole currency units
	Bedrooms                int    `json:"bedrooms"`
	Bathrooms               int    `json:"bathrooms"`
	HouseSize               string `json:"house_size"`
	Description             string `json:"description"`
	NeighborhoodDescription string `json:"neighborhood_description"`
}

// Validate checks the listing against the generation schema rules.
func (l *Listing) Validate() error {
	if strings.TrimSpace(l.Neighborhood) == "" {
		return fmt.Errorf("neighborhood must not be empty")
	}
	if l.Price <= 0 {
		return fmt.Errorf("price must be positive, got %d", l.Price)
	}
	if l.Bedrooms < 1 || l.Bedrooms > 6 {
		return fmt.Errorf("bedrooms must be between 1 and 6, got %d", l.Bedrooms)
	}
	if l.Bathrooms < 1 || l.Bathrooms > 4 {
		return fmt.Errorf("bathrooms must be between 1 and 4, got %d", l.Bathrooms)
	}
	if strings.TrimSpace(l.HouseSize) == "" {
		return fmt.Errorf("house_size must not be empty")
	}
	if strings.TrimSpace(l.Description) == "" {
		return fmt.Errorf("description must not be empty")
	}
	if strings.TrimSpace(l.NeighborhoodDescription) == "" {
		return fmt.Errorf("neighborhood_description must not be empty")
	}
	return nil
}
