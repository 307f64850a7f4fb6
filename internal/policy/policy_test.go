package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prn-tf/recipebook/internal/domain"
)

func TestRequireSuperuser(t *testing.T) {
	tests := []struct {
		name  string
		actor *domain.User
		want  error
	}{
		{name: "anonymous", actor: nil, want: ErrUnauthenticated},
		{name: "regular user", actor: &domain.User{ID: 1}, want: ErrForbidden},
		{name: "superuser", actor: &domain.User{ID: 2, IsSuperuser: true}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireSuperuser(tt.actor)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestRequireOwnerOrSuperuser(t *testing.T) {
	recipe := &domain.Recipe{ID: 10, AuthorID: 1}

	tests := []struct {
		name   string
		actor  *domain.User
		target Owned
		want   error
	}{
		{name: "anonymous", actor: nil, target: recipe, want: ErrUnauthenticated},
		{name: "non-owner", actor: &domain.User{ID: 2}, target: recipe, want: ErrForbidden},
		{name: "owner", actor: &domain.User{ID: 1}, target: recipe},
		{name: "superuser non-owner", actor: &domain.User{ID: 3, IsSuperuser: true}, target: recipe},
		{name: "self", actor: &domain.User{ID: 5}, target: &domain.User{ID: 5}},
		{name: "other user", actor: &domain.User{ID: 5}, target: &domain.User{ID: 6}, want: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireOwnerOrSuperuser(tt.actor, tt.target)
			if tt.want == nil {
				assert.NoError(t, err)
				assert.True(t, IsOwnerOrSuperuser(tt.actor, tt.target))
			} else {
				assert.ErrorIs(t, err, tt.want)
				assert.False(t, IsOwnerOrSuperuser(tt.actor, tt.target))
			}
		})
	}
}

func TestRequireAuthenticated(t *testing.T) {
	assert.ErrorIs(t, RequireAuthenticated(nil), ErrUnauthenticated)
	assert.NoError(t, RequireAuthenticated(&domain.User{ID: 1}))
}
