package model

import "time"

// LearnedMapping is a user-taught association from a merchant pattern
// to a category. Repeat teaching overwrites the category (last write
// wins); mappings are never deleted automatically.
type LearnedMapping struct {
	MerchantPattern string
	Category        string
	CreatedAt       time.Time
}
