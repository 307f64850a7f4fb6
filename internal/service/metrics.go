package service

import (
	"context"

	"github.com/prn-tf/recipebook/internal/slug"
)

// Outcome labels for counted operations.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Metrics receives business events.
type Metrics interface {
	Registration(result string)
	Login(result string)
	SlugCollision(entity string)
}

// NopMetrics discards every event.
type NopMetrics struct{}

func (NopMetrics) Registration(string)  {}
func (NopMetrics) Login(string)         {}
func (NopMetrics) SlugCollision(string) {}

// countCollisions reports every taken slug candidate to m.
func countCollisions(m Metrics, entity string, exists slug.ExistsFunc) slug.ExistsFunc {
	return func(ctx context.Context, s string) (bool, error) {
		taken, err := exists(ctx, s)
		if err == nil && taken {
			m.SlugCollision(entity)
		}
		return taken, err
	}
}

func metricsOrNop(m Metrics) Metrics {
	if m == nil {
		return NopMetrics{}
	}
	return m
}
