package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%oliver%", ContainsPattern("oliver"))
	assert.Equal(t, `%100\%%`, ContainsPattern("100%"))
	assert.Equal(t, `%snake\_case%`, ContainsPattern("snake_case"))
	assert.Equal(t, `%a\\b%`, ContainsPattern(`a\b`))
	assert.Equal(t, "%%", ContainsPattern(""))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "a AND b", JoinWithAnd([]string{"a", "b"}))
	assert.Equal(t, "(x) OR (y)", JoinWithOr([]string{"(x)", "(y)"}))
}
