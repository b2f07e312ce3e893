package models

import "time"

// Allowed preference values for the profile enums.
var (
	DateRangeOptions = []string{"1w", "1m", "3m", "6m", "1y", "all"}
	ChartTypeOptions = []string{"line", "candlestick", "area"}
	ThemeOptions     = []string{"light", "dark"}
)

// Profile holds per-user dashboard preferences. Stored as a JSON column
// on the user row.
type Profile struct {
	DisplayName      string `json:"displayName"`
	Timezone         string `json:"timezone"`
	DefaultDateRange string `json:"defaultDateRange"`
	ChartType        string `json:"chartType"`
	ShowPredictions  bool   `json:"showPredictions"`
	Theme            string `json:"theme"`
}

// DefaultProfile returns the preferences assigned at registration.
func DefaultProfile() Profile {
	return Profile{
		DefaultDateRange: "1m",
		ChartType:        "line",
		ShowPredictions:  true,
		Theme:            "light",
	}
}

// Validate checks the enumerated preference values and length limits,
// returning per-field errors. Empty map means the profile is valid.
func (p Profile) Validate() map[string]string {
	fields := make(map[string]string)
	if len(p.DisplayName) > 50 {
		fields["displayName"] = "display name must be at most 50 characters"
	}
	if len(p.Timezone) > 64 {
		fields["timezone"] = "timezone must be at most 64 characters"
	}
	if p.DefaultDateRange != "" && !contains(DateRangeOptions, p.DefaultDateRange) {
		fields["defaultDateRange"] = "must be one of: 1w, 1m, 3m, 6m, 1y, all"
	}
	if p.ChartType != "" && !contains(ChartTypeOptions, p.ChartType) {
		fields["chartType"] = "must be one of: line, candlestick, area"
	}
	if p.Theme != "" && !contains(ThemeOptions, p.Theme) {
		fields["theme"] = "must be one of: light, dark"
	}
	return fields
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

// User is the credential and preference record. The password hash is
// never serialized outward.
type User struct {
	ID           string     `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Favorites    []string   `gorm:"serializer:json" json:"favorites"`
	Profile      Profile    `gorm:"serializer:json" json:"profile"`
	IsActive     bool       `json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin"`
	LoginCount   int        `json:"loginCount"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// HasFavorite reports whether ticker is already in the favorites set.
func (u *User) HasFavorite(ticker string) bool {
	for _, f := range u.Favorites {
		if f == ticker {
			return true
		}
	}
	return false
}
