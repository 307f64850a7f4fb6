package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/policy"
	"github.com/prn-tf/recipebook/internal/schema"
	"github.com/prn-tf/recipebook/internal/slug"
)

func newTagService(repo *MockRecipeTagRepository, metrics Metrics) *RecipeTagService {
	gen := slug.NewGeneratorWithSource(func() uint32 { return 0x00001 })
	return NewRecipeTagService(repo, gen, schema.NewValidator(), metrics, zerolog.Nop())
}

func TestRecipeTagService_Create(t *testing.T) {
	ctx := context.Background()
	admin := &domain.User{ID: 1, IsActive: true, IsSuperuser: true}
	regular := &domain.User{ID: 2, IsActive: true}

	tests := []struct {
		name     string
		actor    *domain.User
		input    schema.RecipeTagCreate
		wantErr  error
		wantSlug string
	}{
		{name: "superuser", actor: admin, input: schema.RecipeTagCreate{Name: "Gluten Free"}, wantSlug: "gluten-free"},
		{name: "regular user", actor: regular, input: schema.RecipeTagCreate{Name: "Vegan"}, wantErr: policy.ErrForbidden},
		{name: "anonymous", actor: nil, input: schema.RecipeTagCreate{Name: "Vegan"}, wantErr: policy.ErrUnauthenticated},
		{name: "regular user with bad payload", actor: regular, input: schema.RecipeTagCreate{}, wantErr: policy.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockRecipeTagRepository()
			svc := newTagService(repo, nil)

			tag, err := svc.Create(ctx, tt.actor, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.items)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, tag.Slug)
			assert.Equal(t, tt.input.Name, tag.Name)
		})
	}

	t.Run("empty name", func(t *testing.T) {
		svc := newTagService(NewMockRecipeTagRepository(), nil)
		_, err := svc.Create(ctx, admin, schema.RecipeTagCreate{})
		assert.Equal(t, []schema.FieldError{{Field: "name", Msg: "Field required"}}, fieldErrors(t, err))
	})

	t.Run("slug collision", func(t *testing.T) {
		repo := NewMockRecipeTagRepository()
		metrics := newRecordingMetrics()
		svc := newTagService(repo, metrics)

		_, err := svc.Create(ctx, admin, schema.RecipeTagCreate{Name: "Vegan"})
		require.NoError(t, err)
		tag, err := svc.Create(ctx, admin, schema.RecipeTagCreate{Name: "VEGAN"})
		require.NoError(t, err)
		assert.Equal(t, "vegan-00001", tag.Slug)
		assert.Equal(t, 1, metrics.collisions["recipe_tag"])
	})
}

func TestRecipeTagService_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	admin := &domain.User{ID: 1, IsActive: true, IsSuperuser: true}
	regular := &domain.User{ID: 2, IsActive: true}

	repo := NewMockRecipeTagRepository()
	svc := newTagService(repo, nil)
	tag, err := svc.Create(ctx, admin, schema.RecipeTagCreate{Name: "Vegan"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, regular, tag.ID, schema.RecipeTagUpdate{Name: strPtr("Plants")})
	assert.ErrorIs(t, err, policy.ErrForbidden)

	_, err = svc.Update(ctx, admin, 999, schema.RecipeTagUpdate{Name: strPtr("Plants")})
	assert.ErrorIs(t, err, domain.ErrRecipeTagNotFound)

	unchanged, err := svc.Update(ctx, admin, tag.ID, schema.RecipeTagUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "Vegan", unchanged.Name)

	renamed, err := svc.Update(ctx, admin, tag.ID, schema.RecipeTagUpdate{Name: strPtr("Plants")})
	require.NoError(t, err)
	assert.Equal(t, "Plants", renamed.Name)
	assert.Equal(t, "vegan", renamed.Slug)

	assert.ErrorIs(t, svc.Delete(ctx, nil, tag.ID), policy.ErrUnauthenticated)
	assert.ErrorIs(t, svc.Delete(ctx, regular, tag.ID), policy.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, admin, tag.ID))
	assert.ErrorIs(t, svc.Delete(ctx, admin, tag.ID), domain.ErrRecipeTagNotFound)

	_, err = svc.Get(ctx, tag.ID)
	assert.ErrorIs(t, err, domain.ErrRecipeTagNotFound)
}

func TestRecipeTagService_List(t *testing.T) {
	ctx := context.Background()
	admin := &domain.User{ID: 1, IsActive: true, IsSuperuser: true}
	svc := newTagService(NewMockRecipeTagRepository(), nil)

	for _, name := range []string{"Vegan", "Quick", "Spicy"} {
		_, err := svc.Create(ctx, admin, schema.RecipeTagCreate{Name: name})
		require.NoError(t, err)
	}

	result, err := svc.List(ctx, schema.Page{Number: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "spicy", result.Items[0].Slug)
}
