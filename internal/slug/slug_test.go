package slug

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "spaces", in: "Tasty meal", want: "tasty-meal"},
		{name: "punctuation", in: "Mac, Cheese!!", want: "mac-cheese"},
		{name: "diacritics", in: "Crème brûlée", want: "creme-brulee"},
		{name: "collapse", in: "  many   spaces  ", want: "many-spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestGenerator_Generate(t *testing.T) {
	suffixPattern := regexp.MustCompile(`^tasty-meal-[0-9a-f]{5}$`)

	t.Run("free base slug", func(t *testing.T) {
		g := NewGenerator()
		got, err := g.Generate(context.Background(), "Tasty meal", func(context.Context, string) (bool, error) {
			return false, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "tasty-meal", got)
	})

	t.Run("collision appends suffix", func(t *testing.T) {
		g := NewGenerator()
		taken := map[string]bool{"tasty-meal": true}
		got, err := g.Generate(context.Background(), "Tasty meal", func(_ context.Context, s string) (bool, error) {
			return taken[s], nil
		})
		require.NoError(t, err)
		assert.Regexp(t, suffixPattern, got)
	})

	t.Run("suffix retried from base", func(t *testing.T) {
		values := []uint32{1, 1, 0xFFFFF}
		g := NewGeneratorWithSource(func() uint32 {
			v := values[0]
			values = values[1:]
			return v
		})
		taken := map[string]bool{"tasty-meal": true, "tasty-meal-00001": true}
		var checked []string
		got, err := g.Generate(context.Background(), "Tasty meal", func(_ context.Context, s string) (bool, error) {
			checked = append(checked, s)
			return taken[s], nil
		})
		require.NoError(t, err)
		assert.Equal(t, "tasty-meal-fffff", got)
		assert.Equal(t, []string{"tasty-meal", "tasty-meal-00001", "tasty-meal-00001", "tasty-meal-fffff"}, checked)
	})

	t.Run("empty base", func(t *testing.T) {
		g := NewGeneratorWithSource(func() uint32 { return 0xabc })
		got, err := g.Generate(context.Background(), "!!!", func(context.Context, string) (bool, error) {
			return false, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "00abc", got)
	})

	t.Run("exists error aborts", func(t *testing.T) {
		g := NewGenerator()
		boom := errors.New("boom")
		_, err := g.Generate(context.Background(), "x", func(context.Context, string) (bool, error) {
			return false, boom
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		g := NewGenerator()
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		_, err := g.Generate(ctx, "x", func(context.Context, string) (bool, error) {
			calls++
			if calls == 3 {
				cancel()
			}
			return true, nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 3, calls)
	})
}
