// Package slug derives URL-safe identifiers from display names and keeps
// them unique within a collection.
package slug

import (
	"context"
	"fmt"
	"math/rand/v2"

	gosimple "github.com/gosimple/slug"
)

// maxSuffix is the largest random suffix appended on collision (5 hex digits).
const maxSuffix = 0xFFFFF

// ExistsFunc reports whether a slug is already used in the target collection.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Generator produces unique slugs.
type Generator struct {
	// suffix returns a value in [1, maxSuffix].
	suffix func() uint32
}

// NewGenerator creates a Generator backed by math/rand/v2.
func NewGenerator() *Generator {
	return &Generator{
		suffix: func() uint32 { return rand.Uint32N(maxSuffix) + 1 },
	}
}

// NewGeneratorWithSource creates a Generator that draws suffixes from fn.
// fn must return values in [1, 0xFFFFF].
func NewGeneratorWithSource(fn func() uint32) *Generator {
	return &Generator{suffix: fn}
}

// Normalize returns the lowercase, hyphenated, ASCII-only form of text.
func Normalize(text string) string {
	return gosimple.Make(text)
}

// Generate returns a slug for text that exists reports as unused.
//
// The base slug is tried first. On collision a "-xxxxx" hex suffix is appended
// to the base and the check is repeated until a free slug is found. There is no
// retry bound; the loop stops early only when ctx is done or exists fails.
// The result is free at check time only: a concurrent insert may still take it.
func (g *Generator) Generate(ctx context.Context, text string, exists ExistsFunc) (string, error) {
	base := Normalize(text)

	candidate := base
	if candidate == "" {
		candidate = g.withSuffix(base)
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}

		candidate = g.withSuffix(base)
	}
}

func (g *Generator) withSuffix(base string) string {
	if base == "" {
		return fmt.Sprintf("%05x", g.suffix())
	}
	return fmt.Sprintf("%s-%05x", base, g.suffix())
}
