package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunk(t *testing.T) {
	var windows [][2]int
	err := Chunk(3, 7, func(start, end int) error {
		windows = append(windows, [2]int{start, end})
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, [][2]int{{0, 3}, {3, 6}, {6, 7}}, windows)

	boom := errors.New("boom")
	calls := 0
	err = Chunk(2, 6, func(start, end int) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "héé", Truncate("hééllo", 3))
}

func TestGenerateUUID(t *testing.T) {
	id := GenerateUUID()
	assert.Len(t, id, 32)
	assert.NotContains(t, id, "-")
	assert.NotEqual(t, id, GenerateUUID())
}
