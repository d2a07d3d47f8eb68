package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dkovalev/nutrigenie/internal/common"
)

// fakeRepo is a map-backed Repository for service tests.
type fakeRepo struct {
	nextID  int64
	byEmail map[string]*User
	byID    map[int64]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: map[string]*User{}, byID: map[int64]*User{}}
}

func (f *fakeRepo) Create(_ context.Context, user *User) (*User, error) {
	if _, ok := f.byEmail[user.Email]; ok {
		return nil, common.ErrAlreadyExists
	}
	f.nextID++
	user.ID = f.nextID
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func TestRegister_HashesPassword(t *testing.T) {
	s := NewService(newFakeRepo())
	ctx := context.Background()

	u, err := s.Register(ctx, "alice", "alice@example.com", "s3cret")
	require.NoError(t, err)
	require.NotZero(t, u.ID)

	// the stored value is a bcrypt hash, never the plaintext
	require.NotEqual(t, "s3cret", u.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")))
}

func TestRegister_MissingFields(t *testing.T) {
	s := NewService(newFakeRepo())
	ctx := context.Background()

	cases := []struct {
		name                      string
		username, email, password string
	}{
		{"no username", "", "a@example.com", "pw"},
		{"no email", "alice", "", "pw"},
		{"no password", "alice", "a@example.com", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Register(ctx, tc.username, tc.email, tc.password)
			require.ErrorIs(t, err, ErrMissingField)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "alice@example.com", "pw")
	require.NoError(t, err)

	_, err = s.Register(ctx, "bob", "alice@example.com", "pw2")
	require.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestAuthenticate(t *testing.T) {
	s := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		u, err := s.Authenticate(ctx, "alice@example.com", "s3cret")
		require.NoError(t, err)
		require.Equal(t, "alice", u.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.Authenticate(ctx, "alice@example.com", "wrong")
		require.ErrorIs(t, err, common.ErrorUnauthorized)
	})

	t.Run("unknown account", func(t *testing.T) {
		// same error as a wrong password, so callers cannot probe accounts
		_, err := s.Authenticate(ctx, "ghost@example.com", "s3cret")
		require.ErrorIs(t, err, common.ErrorUnauthorized)
	})
}

func TestGetByID(t *testing.T) {
	s := NewService(newFakeRepo())
	ctx := context.Background()

	u, err := s.Register(ctx, "alice", "alice@example.com", "pw")
	require.NoError(t, err)

	got, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", got.Email)

	_, err = s.GetByID(ctx, u.ID+100)
	require.ErrorIs(t, err, common.ErrorNotFound)
}
