package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/schema"
)

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name      string
		setupRepo func(*MockUserRepository)
		input     schema.UserLogin
		wantOK    bool
		wantDummy int
	}{
		{
			name:   "success",
			input:  schema.UserLogin{Email: "jane@example.com", Password: strongPassword},
			wantOK: true,
		},
		{
			name:  "wrong password",
			input: schema.UserLogin{Email: "jane@example.com", Password: "wrong"},
		},
		{
			name:      "unknown email",
			input:     schema.UserLogin{Email: "nobody@example.com", Password: strongPassword},
			wantDummy: 1,
		},
		{
			name: "inactive user",
			setupRepo: func(r *MockUserRepository) {
				r.users[1].IsActive = false
			},
			input:     schema.UserLogin{Email: "jane@example.com", Password: strongPassword},
			wantDummy: 1,
		},
		{
			name:  "malformed email",
			input: schema.UserLogin{Email: "jane", Password: strongPassword},
		},
		{
			name:  "missing password",
			input: schema.UserLogin{Email: "jane@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockUserRepository()
			repo.add(domain.NewUser("jane@example.com", "hashed:"+strongPassword, "Jane"))
			if tt.setupRepo != nil {
				tt.setupRepo(repo)
			}
			hasher := &fakeHasher{}
			sessions := &fakeSessions{}
			metrics := newRecordingMetrics()
			svc := NewAuthService(repo, hasher, sessions, schema.NewValidator(), metrics, zerolog.Nop())

			user, token, err := svc.Login(context.Background(), tt.input)
			assert.Equal(t, tt.wantDummy, hasher.dummyCalls)

			if !tt.wantOK {
				assert.Nil(t, user)
				assert.Empty(t, token)
				assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
				assert.Equal(t, []schema.FieldError{{Msg: MsgInvalidCredentials}}, fieldErrors(t, err))
				assert.Empty(t, sessions.created)
				assert.Equal(t, 1, metrics.logins[ResultRejected])
				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(1), user.ID)
			assert.NotEmpty(t, token)
			assert.Equal(t, []int64{1}, sessions.created)
			assert.Equal(t, 1, metrics.logins[ResultSuccess])
		})
	}
}

func TestAuthService_Login_SessionFailure(t *testing.T) {
	repo := NewMockUserRepository()
	repo.add(domain.NewUser("jane@example.com", "hashed:"+strongPassword, "Jane"))
	sessions := &fakeSessions{err: errStorage}
	svc := NewAuthService(repo, &fakeHasher{}, sessions, schema.NewValidator(), nil, zerolog.Nop())

	_, _, err := svc.Login(context.Background(), schema.UserLogin{Email: "jane@example.com", Password: strongPassword})
	assert.ErrorIs(t, err, ErrInternalError)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	sessions := &fakeSessions{}
	svc := NewAuthService(NewMockUserRepository(), &fakeHasher{}, sessions, schema.NewValidator(), nil, zerolog.Nop())

	require.NoError(t, svc.Logout(ctx, ""))
	assert.Empty(t, sessions.destroyed)

	require.NoError(t, svc.Logout(ctx, "abc"))
	assert.Equal(t, []string{"abc"}, sessions.destroyed)

	sessions.err = errStorage
	assert.ErrorIs(t, svc.Logout(ctx, "abc"), ErrInternalError)
}
