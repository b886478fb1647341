package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rating is a user's score for a book. At most one per (user, book); rating again overwrites it.
type Rating struct {
	ID        int64
	UserID    uuid.UUID
	BookID    int64
	Rating    int
	Review    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Review is free text attached to a book. A user may leave several.
type Review struct {
	ID        int64
	UserID    uuid.UUID
	Username  string
	BookID    int64
	Title     string
	Content   string
	IsPublic  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RatingStats are the raw aggregates read from storage.
type RatingStats struct {
	Sum          int64
	RatingsCount int64
	ReviewsCount int64
}

// Mean is sum/count rounded half-up to 2 places; zero when count is zero.
func Mean(sum, count int64) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(count), 2)
}

func (s RatingStats) Summary() RatingSummary {
	return RatingSummary{
		Average:      Mean(s.Sum, s.RatingsCount).InexactFloat64(),
		RatingsCount: s.RatingsCount,
		ReviewsCount: s.ReviewsCount,
	}
}
