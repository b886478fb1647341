package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// AddReviewRequest rates a book and appends a review in one step.
type AddReviewRequest struct {
	Rating   int    `json:"rating" form:"rating"`
	Title    string `json:"title" form:"title"`
	Content  string `json:"content" form:"content"`
	IsPublic *bool  `json:"is_public" form:"is_public"`
}

func (r *AddReviewRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
}

func (r AddReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating,
			validation.Required.Error("rating is required"),
			validation.Min(MinRating), validation.Max(MaxRating),
		),
		validation.Field(&r.Title, validation.RuneLength(0, MaxTitleLength)),
		validation.Field(&r.Content, validation.Required),
	)
}

// Public defaults to true when the flag was not sent.
func (r AddReviewRequest) Public() bool {
	return r.IsPublic == nil || *r.IsPublic
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type RatingSummary struct {
	Average      float64 `json:"average"`
	RatingsCount int64   `json:"ratings_count"`
	ReviewsCount int64   `json:"reviews_count"`
}

type ReviewResponse struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
}

type AddReviewResponse struct {
	Review     ReviewResponse `json:"review"`
	UserRating int            `json:"user_rating"`
	Summary    RatingSummary  `json:"summary"`
}

func ToReviewResponse(r Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		Username:  r.Username,
		Title:     r.Title,
		Content:   r.Content,
		IsPublic:  r.IsPublic,
		CreatedAt: r.CreatedAt,
	}
}

func ToReviewResponses(reviews []Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ToReviewResponse(r))
	}
	return out
}
