package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validListing() Listing {
	return Listing{
		Neighborhood:            "Maple Heights",
		Price:                   620000,
		Bedrooms:                3,
		Bathrooms:               2,
		HouseSize:               "2150 sqft",
		Description:             "A bright craftsman home with an open floor plan. The kitchen was renovated last year. Solar panels cover the south-facing roof. The backyard is fully fenced. A two-car garage completes the package.",
		NeighborhoodDescription: "Maple Heights is a quiet, tree-lined neighborhood. Schools are within walking distance. A light-rail stop sits three blocks away.",
	}
}

func TestListingValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Listing)
		wantErr bool
	}{
		{"valid", func(l *Listing) {}, false},
		{"empty neighborhood", func(l *Listing) { l.Neighborhood = "  " }, true},
		{"zero price", func(l *Listing) { l.Price = 0 }, true},
		{"negative price", func(l *Listing) { l.Price = -100 }, true},
		{"bedrooms too low", func(l *Listing) { l.Bedrooms = 0 }, true},
		{"bedrooms too high", func(l *Listing) { l.Bedrooms = 7 }, true},
		{"bathrooms too low", func(l *Listing) { l.Bathrooms = 0 }, true},
		{"bathrooms too high", func(l *Listing) { l.Bathrooms = 5 }, true},
		{"empty house size", func(l *Listing) { l.HouseSize = "" }, true},
		{"empty description", func(l *Listing) { l.Description = "" }, true},
		{"empty neighborhood description", func(l *Listing) { l.NeighborhoodDescription = "" }, true},
		{"boundary bedrooms", func(l *Listing) { l.Bedrooms = 6 }, false},
		{"boundary bathrooms", func(l *Listing) { l.Bathrooms = 4 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validListing()
			tt.mutate(&l)
			err := l.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPreferencesValidate(t *testing.T) {
	neg := -1
	three := 3

	tests := []struct {
		name    string
		prefs   Preferences
		wantErr bool
	}{
		{"query only", Preferences{Query: "3 bedroom home near transit"}, false},
		{"empty query", Preferences{}, true},
		{"whitespace query", Preferences{Query: "   "}, true},
		{"negative bedrooms", Preferences{Query: "a home", Bedrooms: &neg}, true},
		{"negative bathrooms", Preferences{Query: "a home", Bathrooms: &neg}, true},
		{"full", Preferences{Query: "a home", Bedrooms: &three, Amenities: []string{"backyard"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.prefs.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
