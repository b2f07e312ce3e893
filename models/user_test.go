package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileValidate(t *testing.T) {
	assert.Empty(t, DefaultProfile().Validate())

	full := Profile{
		DisplayName:      "Alice",
		Timezone:         "America/New_York",
		DefaultDateRange: "6m",
		ChartType:        "area",
		ShowPredictions:  true,
		Theme:            "dark",
	}
	assert.Empty(t, full.Validate())

	bad := Profile{
		DisplayName:      strings.Repeat("x", 51),
		DefaultDateRange: "2y",
		ChartType:        "pie",
		Theme:            "sparkly",
	}
	fields := bad.Validate()
	assert.Contains(t, fields, "displayName")
	assert.Contains(t, fields, "defaultDateRange")
	assert.Contains(t, fields, "chartType")
	assert.Contains(t, fields, "theme")
}

func TestHasFavorite(t *testing.T) {
	u := &User{Favorites: []string{"AAPL", "MSFT"}}
	assert.True(t, u.HasFavorite("AAPL"))
	assert.False(t, u.HasFavorite("GOOGL"))
	assert.False(t, (&User{}).HasFavorite("AAPL"))
}
