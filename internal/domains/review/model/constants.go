package model

const (
	MinRating = 1
	MaxRating = 5

	MaxTitleLength = 200

	// DetailReviewLimit caps the reviews shown on a book page.
	DetailReviewLimit = 50
)
