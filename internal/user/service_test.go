package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-goods/internal/auth"
	"github.com/ovaphlow/pitchfork/service-goods/internal/token"
	"github.com/ovaphlow/pitchfork/service-goods/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-goods/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-goods/internal/validation"
	"github.com/ovaphlow/pitchfork/service-goods/pkg/utilities"
)

func newTestService(t *testing.T) (*AuthService, *userrepo.MemoryRepo) {
	t.Helper()
	store := userrepo.NewMemoryRepo()
	iss, err := token.NewHMACIssuer([]byte("test-secret"), "service-goods", time.Hour, utilities.NewIDGenerator(1))
	require.NoError(t, err)
	return NewAuthService(store, BcryptHasher{Cost: bcrypt.MinCost}, iss, nil), store
}

func TestRegisterValidation(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "short", "A")
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Email is required", verr.Fields.Get("email"))
	assert.Equal(t, "Password must be at least 8 characters long", verr.Fields.Get("password"))
	assert.Equal(t, "Name must be at least 2 characters long", verr.Fields.Get("name"))

	users, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestRegister(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, " A@B.com ", "password1", "Ann")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "a@b.com", u.Email)
	assert.Equal(t, []string{auth.RoleUser}, u.Roles)
	assert.NotEqual(t, "password1", u.PasswordHash)

	stored, err := store.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, BcryptHasher{}.Verify(stored.PasswordHash, "password1"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "user1@example.com", "password1", "Ann")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "USER1@example.com", "password2", "Bob")
	assert.ErrorIs(t, err, ErrEmailTaken)

	users, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

// racingStore reports the email free on lookup but rejects the insert.
type racingStore struct{ *userrepo.MemoryRepo }

func (racingStore) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, userrepo.ErrNotFound
}

func (racingStore) Create(context.Context, *entity.User) (int64, error) {
	return 0, userrepo.ErrDuplicateEmail
}

func TestRegisterInsertRace(t *testing.T) {
	iss, err := token.NewHMACIssuer([]byte("x"), "service-goods", time.Hour, nil)
	require.NoError(t, err)
	svc := NewAuthService(racingStore{userrepo.NewMemoryRepo()}, BcryptHasher{Cost: bcrypt.MinCost}, iss, nil)

	_, err = svc.Register(context.Background(), "a@b.com", "password1", "Ann")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	registered, err := svc.Register(ctx, "user1@example.com", "password1", "Ann")
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		sess, err := svc.Login(ctx, "user1@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, sess)
	})

	t.Run("unknown email looks the same", func(t *testing.T) {
		_, errUnknown := svc.Login(ctx, "nobody@example.com", "password1")
		_, errWrong := svc.Login(ctx, "user1@example.com", "wrong")
		assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		assert.Equal(t, errWrong.Error(), errUnknown.Error())
	})

	t.Run("invalid payload", func(t *testing.T) {
		_, err := svc.Login(ctx, "not-an-email", "")
		var verr *validation.Error
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Email is not valid", verr.Fields.Get("email"))
		assert.Equal(t, "Password is required", verr.Fields.Get("password"))
	})

	t.Run("token authenticates the same identity", func(t *testing.T) {
		sess, err := svc.Login(ctx, "user1@example.com", "password1")
		require.NoError(t, err)
		require.NotEmpty(t, sess.Token)
		assert.Equal(t, registered.ID, sess.User.ID)

		identity, err := svc.Authenticate(ctx, sess.Token)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, identity.ID)
		assert.Equal(t, "user1@example.com", identity.Email)

		profile, err := svc.Profile(ctx, identity)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, profile.ID)

		refreshed, err := svc.Refresh(ctx, identity)
		require.NoError(t, err)
		assert.NotEqual(t, sess.Token, refreshed.Token)

		// the earlier token stays valid
		_, err = svc.Authenticate(ctx, sess.Token)
		assert.NoError(t, err)
	})
}

func TestAuthenticateRejects(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	// valid signature, but the account does not exist
	iss, err := token.NewHMACIssuer([]byte("test-secret"), "service-goods", time.Hour, nil)
	require.NoError(t, err)
	raw, err := iss.Issue(&auth.Identity{ID: 99})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, raw)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestAnonymousProfileAndRefresh(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Profile(ctx, nil)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
	_, err = svc.Refresh(ctx, nil)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestGetAndList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	a, err := svc.Register(ctx, "a@b.com", "password1", "Ann")
	require.NoError(t, err)
	b, err := svc.Register(ctx, "b@b.com", "password1", "Bob")
	require.NoError(t, err)

	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Name)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
}

func TestViews(t *testing.T) {
	u := &entity.User{ID: 3, Email: "a@b.com", Name: "Ann", PasswordHash: "h", Roles: []string{auth.RoleAdmin}}

	assert.Equal(t, MinimalView{ID: 3, Email: "a@b.com", Name: "Ann"}, NewMinimalView(u))
	assert.Equal(t, []string{auth.RoleAdmin, auth.RoleUser}, NewDetailView(u).Roles)
	assert.Len(t, NewDetailViews([]*entity.User{u, u}), 2)
}
