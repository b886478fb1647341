package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"freewriter/internal/domains/book/model"
)

func TestBuildSearchWhere(t *testing.T) {
	tests := []struct {
		name     string
		filter   model.SearchRequest
		contains []string
		args     []interface{}
	}{
		{
			name:   "empty filter matches everything",
			filter: model.SearchRequest{},
			args:   []interface{}{},
		},
		{
			name:     "query spans title author summary",
			filter:   model.SearchRequest{Query: "walk"},
			contains: []string{"b.title ILIKE $1", "b.author ILIKE $1", "b.summary ILIKE $1"},
			args:     []interface{}{"%walk%"},
		},
		{
			name:     "all predicates are numbered in order",
			filter:   model.SearchRequest{Query: "50%", Category: "fic", Author: "o_neil"},
			contains: []string{"c.name ILIKE $2", "b.author ILIKE $3", " AND "},
			args:     []interface{}{`%50\%%`, "%fic%", `%o\_neil%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildSearchWhere(tt.filter)
			for _, s := range tt.contains {
				assert.Contains(t, where, s)
			}
			assert.Equal(t, tt.args, args)
		})
	}
}
