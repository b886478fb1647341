package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIconFor(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Fiction", "fas fa-magic"},
		{"self-help", "fas fa-heart"},
		{"Self_Help", "fas fa-heart"},
		{"Science Fiction", "fas fa-magic"},
		{"sci-fi", "fas fa-rocket"},
		{"Tech", "fas fa-microchip"},
		{"Business & Finance", "fas fa-chart-line"},
		{"Gardening", DefaultIcon},
		{"", DefaultIcon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IconFor(tt.name))
		})
	}
}

func TestToResponses(t *testing.T) {
	got := ToResponses([]Category{{ID: 1, Name: "Business", Slug: "business"}})

	assert.Equal(t, []CategoryResp{{ID: 1, Name: "Business", Slug: "business", Icon: "fas fa-chart-line"}}, got)
	assert.Equal(t, []string{"Business"}, Names([]Category{{Name: "Business"}}))
}
