package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-goods/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-goods/internal/auth"
	"github.com/ovaphlow/pitchfork/service-goods/internal/token"
	"github.com/ovaphlow/pitchfork/service-goods/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-goods/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-goods/internal/validation"
)

// PasswordHasher defines minimal hashing interface (abstract so we can swap to argon2 later).
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Store is the persistence the auth flows need.
type Store interface {
	Create(ctx context.Context, u *entity.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
}

// TokenIssuer mints and verifies bearer tokens.
type TokenIssuer interface {
	Issue(identity *auth.Identity) (string, error)
	Verify(raw string) (*token.Claims, error)
}

var (
	ErrNotFound           = apperr.New(apperr.ErrNotFound, "User not found")
	ErrInvalidCredentials = apperr.New(apperr.ErrUnauthorized, "Invalid credentials")
	ErrEmailTaken         = apperr.New(apperr.ErrConflict, "User with this email already exists")
)

// Session is the result of a successful login or refresh.
type Session struct {
	Token string
	User  *entity.User
}

// AuthService orchestrates validation, account lookup, password checks and
// token issuance.
type AuthService struct {
	store  Store
	hasher PasswordHasher
	tokens TokenIssuer
	logger *zap.SugaredLogger
}

func NewAuthService(store Store, hasher PasswordHasher, tokens TokenIssuer, logger *zap.SugaredLogger) *AuthService {
	if hasher == nil {
		hasher = BcryptHasher{Cost: 12}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &AuthService{store: store, hasher: hasher, tokens: tokens, logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks the credentials and issues a token.
// Unknown email and wrong password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	if err := validation.Login(email, password).Err(); err != nil {
		return nil, err
	}

	u, err := s.store.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if u.PasswordHash == "" || !s.hasher.Verify(u.PasswordHash, password) {
		s.logger.Debugw("password mismatch", "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}

	return s.issue(u)
}

// Register creates an account with ROLE_USER.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*entity.User, error) {
	if err := validation.Register(email, password, name).Err(); err != nil {
		return nil, err
	}
	email = normalizeEmail(email)

	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, userrepo.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Roles:        []string{auth.RoleUser},
	}
	if _, err := s.store.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration for the same email
		if errors.Is(err, userrepo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.logger.Infow("user registered", "user_id", u.ID)
	return u, nil
}

// Refresh mints a fresh token for an already authenticated caller.
// Earlier tokens remain valid until they expire.
func (s *AuthService) Refresh(ctx context.Context, identity *auth.Identity) (*Session, error) {
	u, err := s.Profile(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

// Profile returns the account behind the authenticated identity.
func (s *AuthService) Profile(ctx context.Context, identity *auth.Identity) (*entity.User, error) {
	if identity == nil {
		return nil, auth.ErrUnauthorized
	}
	u, err := s.store.GetByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, auth.ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}

// Authenticate resolves a raw bearer token to the identity it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*auth.Identity, error) {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		s.logger.Debugw("token rejected", "err", err)
		return nil, auth.ErrUnauthorized
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, auth.ErrUnauthorized
	}
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, auth.ErrUnauthorized
		}
		return nil, err
	}
	return u.Identity(), nil
}

// List returns all accounts.
func (s *AuthService) List(ctx context.Context) ([]*entity.User, error) {
	return s.store.List(ctx)
}

// Get returns one account by id.
func (s *AuthService) Get(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) issue(u *entity.User) (*Session, error) {
	tok, err := s.tokens.Issue(u.Identity())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: tok, User: u}, nil
}
