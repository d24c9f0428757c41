package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID generates uuid v4
func GenerateUUID() string {
	uuidV4 := uuid.New() // panics on error
	return strings.Map(func(r rune) rune {
		if r == '-' {
			return -1
		}
		return r
	}, uuidV4.String())
}

// Chunk calls fn on consecutive [start, end) windows of at most chunkSize items.
func Chunk(chunkSize, total int, fn func(start int, end int) error) error {
	for i := 0; i < total; i += chunkSize {
		end := i + chunkSize
		if end > total {
			end = total
		}
		if err := fn(i, end); err != nil {
			return err
		}
	}
	return nil
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
