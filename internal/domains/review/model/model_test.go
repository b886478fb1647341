package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name       string
		sum, count int64
		want       string
	}{
		{"no ratings", 0, 0, "0"},
		{"single", 5, 1, "5"},
		{"two thirds", 2, 3, "0.67"},
		{"halves", 9, 2, "4.5"},
		{"repeating", 13, 3, "4.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mean(tt.sum, tt.count).String())
		})
	}
}

func TestRatingStats_Summary(t *testing.T) {
	s := RatingStats{Sum: 9, RatingsCount: 2, ReviewsCount: 3}.Summary()
	assert.Equal(t, RatingSummary{Average: 4.5, RatingsCount: 2, ReviewsCount: 3}, s)
}

func TestAddReviewRequest_Validate(t *testing.T) {
	valid := AddReviewRequest{Rating: 4, Content: "  Loved it "}
	valid.Normalize()
	require.NoError(t, valid.Validate())
	assert.Equal(t, "Loved it", valid.Content)
	assert.True(t, valid.Public())

	private := false
	valid.IsPublic = &private
	assert.False(t, valid.Public())

	for _, rating := range []int{0, 6, -1} {
		err := AddReviewRequest{Rating: rating, Content: "x"}.Validate()
		assert.ErrorContains(t, err, "rating", "rating %d", rating)
	}

	blank := AddReviewRequest{Rating: 3, Content: " \n"}
	blank.Normalize()
	assert.ErrorContains(t, blank.Validate(), "content")

	tooLong := AddReviewRequest{Rating: 3, Content: "x", Title: strings.Repeat("x", MaxTitleLength+1)}
	assert.ErrorContains(t, tooLong.Validate(), "title")
}
