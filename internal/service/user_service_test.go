package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/policy"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/schema"
)

func newUserService(repo *MockUserRepository, metrics Metrics) *UserService {
	return NewUserService(repo, &fakeHasher{}, defaultPolicy(), schema.NewValidator(), metrics, zerolog.Nop())
}

func strPtr(s string) *string { return &s }

func fieldErrors(t *testing.T, err error) []schema.FieldError {
	t.Helper()
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Errors
}

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name       string
		setupRepo  func(*MockUserRepository)
		input      schema.UserCreate
		wantErrs   []schema.FieldError
		wantResult string
	}{
		{
			name: "success",
			input: schema.UserCreate{
				Name: "Jane", Email: "jane@example.com",
				Password: strongPassword, PasswordConfirm: strongPassword,
			},
			wantResult: ResultSuccess,
		},
		{
			name: "passwords differ",
			input: schema.UserCreate{
				Name: "", Email: "nope",
				Password: strongPassword, PasswordConfirm: "other",
			},
			wantErrs:   []schema.FieldError{{Msg: MsgPasswordsMismatch}},
			wantResult: ResultRejected,
		},
		{
			name: "weak password",
			input: schema.UserCreate{
				Name: "Jane", Email: "jane@example.com",
				Password: "password", PasswordConfirm: "password",
			},
			wantErrs: []schema.FieldError{{
				Field: "password",
				Msg:   MsgWeakPassword + "Uppercase(1); Numbers(1); Special(1); NonLetters(1); Strength(0.66)",
			}},
			wantResult: ResultRejected,
		},
		{
			name: "email taken by inactive user",
			setupRepo: func(r *MockUserRepository) {
				u := r.add(domain.NewUser("jane@example.com", "hashed:x", "Old Jane"))
				u.IsActive = false
			},
			input: schema.UserCreate{
				Name: "Jane", Email: "jane@example.com",
				Password: strongPassword, PasswordConfirm: strongPassword,
			},
			wantErrs:   []schema.FieldError{{Field: "email", Msg: MsgEmailTaken}},
			wantResult: ResultRejected,
		},
		{
			name: "invalid email skips lookup",
			setupRepo: func(r *MockUserRepository) {
				r.existsErr = errStorage
			},
			input: schema.UserCreate{
				Name: "Jane", Email: "not-an-email",
				Password: strongPassword, PasswordConfirm: strongPassword,
			},
			wantErrs:   []schema.FieldError{{Field: "email", Msg: "value is not a valid email address"}},
			wantResult: ResultRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockUserRepository()
			if tt.setupRepo != nil {
				tt.setupRepo(repo)
			}
			metrics := newRecordingMetrics()
			svc := newUserService(repo, metrics)

			user, err := svc.Register(context.Background(), tt.input)
			assert.Equal(t, 1, metrics.registrations[tt.wantResult])

			if tt.wantErrs != nil {
				assert.Nil(t, user)
				assert.Equal(t, tt.wantErrs, fieldErrors(t, err))
				return
			}

			require.NoError(t, err)
			assert.NotZero(t, user.ID)
			assert.True(t, user.IsActive)
			assert.False(t, user.IsSuperuser)
			assert.Equal(t, "hashed:"+strongPassword, user.PasswordHash)
		})
	}
}

func TestUserService_Register_StorageFailure(t *testing.T) {
	repo := NewMockUserRepository()
	repo.createErr = errStorage
	metrics := newRecordingMetrics()
	svc := newUserService(repo, metrics)

	_, err := svc.Register(context.Background(), schema.UserCreate{
		Name: "Jane", Email: "jane@example.com",
		Password: strongPassword, PasswordConfirm: strongPassword,
	})
	assert.ErrorIs(t, err, ErrInternalError)
	assert.Equal(t, 1, metrics.registrations[ResultError])
}

func TestUserService_Register_LostRace(t *testing.T) {
	repo := NewMockUserRepository()
	repo.createErr = domain.ErrEmailTaken
	svc := newUserService(repo, nil)

	_, err := svc.Register(context.Background(), schema.UserCreate{
		Name: "Jane", Email: "jane@example.com",
		Password: strongPassword, PasswordConfirm: strongPassword,
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Equal(t, []schema.FieldError{{Field: "email", Msg: MsgEmailTaken}}, fieldErrors(t, err))
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()

	setup := func() (*MockUserRepository, *domain.User, *domain.User, *domain.User) {
		repo := NewMockUserRepository()
		owner := repo.add(domain.NewUser("owner@example.com", "hashed:x", "Owner"))
		other := repo.add(domain.NewUser("other@example.com", "hashed:x", "Other"))
		admin := repo.add(domain.NewUser("admin@example.com", "hashed:x", "Admin"))
		admin.IsSuperuser = true
		return repo, owner, other, admin
	}

	t.Run("owner edits name and bio", func(t *testing.T) {
		repo, owner, _, _ := setup()
		svc := newUserService(repo, nil)

		got, err := svc.Update(ctx, owner, owner.ID, schema.UserEdit{Bio: strPtr("likes soup")})
		require.NoError(t, err)
		assert.Equal(t, "likes soup", got.Bio)
		assert.Equal(t, "Owner", got.Name)
		assert.Equal(t, "owner@example.com", got.Email)
	})

	t.Run("superuser edits someone else", func(t *testing.T) {
		repo, owner, _, admin := setup()
		svc := newUserService(repo, nil)

		got, err := svc.Update(ctx, admin, owner.ID, schema.UserEdit{Name: strPtr("Renamed")})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
	})

	t.Run("own email is not a conflict", func(t *testing.T) {
		repo, owner, _, _ := setup()
		svc := newUserService(repo, nil)

		_, err := svc.Update(ctx, owner, owner.ID, schema.UserEdit{Email: strPtr("owner@example.com")})
		assert.NoError(t, err)
	})

	t.Run("email of another user", func(t *testing.T) {
		repo, owner, _, _ := setup()
		svc := newUserService(repo, nil)

		_, err := svc.Update(ctx, owner, owner.ID, schema.UserEdit{Email: strPtr("other@example.com")})
		assert.Equal(t, []schema.FieldError{{Field: "email", Msg: MsgEmailTaken}}, fieldErrors(t, err))
	})

	t.Run("anonymous is rejected before validation", func(t *testing.T) {
		repo, owner, _, _ := setup()
		svc := newUserService(repo, nil)

		_, err := svc.Update(ctx, nil, owner.ID, schema.UserEdit{Email: strPtr("bad")})
		assert.ErrorIs(t, err, policy.ErrUnauthenticated)
	})

	t.Run("validation runs before existence", func(t *testing.T) {
		repo, owner, _, _ := setup()
		svc := newUserService(repo, nil)

		_, err := svc.Update(ctx, owner, 999, schema.UserEdit{Email: strPtr("bad")})
		var verr *schema.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("existence runs before authorization", func(t *testing.T) {
		repo, _, other, _ := setup()
		svc := newUserService(repo, nil)

		_, err := svc.Update(ctx, other, 999, schema.UserEdit{Name: strPtr("x")})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("non owner is forbidden", func(t *testing.T) {
		repo, owner, other, _ := setup()
		svc := newUserService(repo, nil)

		_, err := svc.Update(ctx, other, owner.ID, schema.UserEdit{Name: strPtr("x")})
		assert.ErrorIs(t, err, policy.ErrForbidden)
		assert.Equal(t, "Owner", repo.users[owner.ID].Name)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		actorIdx  int
		targetIdx int
		confirm   bool
		wantErr   error
	}{
		{name: "owner confirms", actorIdx: 0, targetIdx: 0, confirm: true},
		{name: "superuser confirms", actorIdx: 2, targetIdx: 0, confirm: true},
		{name: "not confirmed", actorIdx: 0, targetIdx: 0, confirm: false, wantErr: policy.ErrForbidden},
		{name: "other user", actorIdx: 1, targetIdx: 0, confirm: true, wantErr: policy.ErrForbidden},
		{name: "anonymous", actorIdx: -1, targetIdx: 0, confirm: true, wantErr: policy.ErrForbidden},
		{name: "anonymous missing target", actorIdx: -1, targetIdx: -1, confirm: true, wantErr: policy.ErrForbidden},
		{name: "missing target", actorIdx: 0, targetIdx: -1, confirm: false, wantErr: domain.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockUserRepository()
			users := []*domain.User{
				repo.add(domain.NewUser("owner@example.com", "hashed:x", "Owner")),
				repo.add(domain.NewUser("other@example.com", "hashed:x", "Other")),
				repo.add(domain.NewUser("admin@example.com", "hashed:x", "Admin")),
			}
			users[2].IsSuperuser = true

			var actor *domain.User
			if tt.actorIdx >= 0 {
				actor = users[tt.actorIdx]
			}
			targetID := int64(999)
			if tt.targetIdx >= 0 {
				targetID = users[tt.targetIdx].ID
			}

			svc := newUserService(repo, nil)
			err := svc.Delete(ctx, actor, targetID, tt.confirm)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, users[0].IsActive)
				return
			}
			require.NoError(t, err)
			assert.False(t, repo.users[targetID].IsActive)

			_, err = svc.Get(ctx, targetID)
			assert.ErrorIs(t, err, domain.ErrUserNotFound)
		})
	}
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	repo := NewMockUserRepository()
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		repo.add(domain.NewUser(email, "hashed:x", "U"))
	}
	repo.users[2].IsActive = false
	svc := newUserService(repo, nil)

	active, err := svc.List(ctx, schema.Page{Number: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), active.Total)

	all, err := svc.ListAll(ctx, repository.ListOptions{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	second, err := svc.List(ctx, schema.Page{Number: 2, PerPage: 1})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "c@example.com", second.Items[0].Email)
}

func TestUserService_SetSuperuser(t *testing.T) {
	ctx := context.Background()
	repo := NewMockUserRepository()
	repo.add(domain.NewUser("jane@example.com", "hashed:x", "Jane"))
	svc := newUserService(repo, nil)

	user, err := svc.SetSuperuser(ctx, "jane@example.com", true)
	require.NoError(t, err)
	assert.True(t, user.IsSuperuser)
	assert.True(t, repo.users[user.ID].IsSuperuser)

	user, err = svc.SetSuperuser(ctx, "jane@example.com", false)
	require.NoError(t, err)
	assert.False(t, user.IsSuperuser)

	_, err = svc.SetSuperuser(ctx, "nobody@example.com", true)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
