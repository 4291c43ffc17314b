package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Category is the pricing mode of a service.
type Category string

const (
	// CategoryArea prices by computed area (width x height).
	CategoryArea Category = "sqft"
	// CategoryUnit prices by a flat per-unit rate.
	CategoryUnit Category = "unit"
)

// ParseCategory accepts "sqft"/"area" and "unit" in any case.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sqft", "area":
		return CategoryArea, nil
	case "unit":
		return CategoryUnit, nil
	default:
		return "", fmt.Errorf("unknown category %q", s)
	}
}

// Service is a catalog entry. Rate changes only affect items added afterwards,
// since items snapshot the rate and name at add time.
type Service struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Rate     decimal.Decimal `json:"defaultRate"`
	Category Category        `json:"category"`
}

// DefaultServices returns the catalog a fresh install starts with.
func DefaultServices() []Service {
	return []Service{
		{ID: "1", Name: "Flex Banner", Rate: decimal.NewFromInt(12), Category: CategoryArea},
		{ID: "2", Name: "Vinyl Printing", Rate: decimal.NewFromInt(25), Category: CategoryArea},
		{ID: "3", Name: "Star Flex", Rate: decimal.NewFromInt(20), Category: CategoryArea},
		{ID: "4", Name: "Hoarding Board", Rate: decimal.NewFromInt(50), Category: CategoryArea},
		{ID: "5", Name: "Visiting Cards (1000)", Rate: decimal.NewFromInt(800), Category: CategoryUnit},
		{ID: "6", Name: "Patrika Printing", Rate: decimal.NewFromInt(5), Category: CategoryUnit},
		{ID: "7", Name: "One-Way Vision", Rate: decimal.NewFromInt(45), Category: CategoryArea},
		{ID: "8", Name: "ACP Board", Rate: decimal.NewFromInt(180), Category: CategoryArea},
		{ID: "9", Name: "Sunboard Printing", Rate: decimal.NewFromInt(60), Category: CategoryArea},
	}
}
