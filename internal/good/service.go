package good

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-goods/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-goods/internal/auth"
	"github.com/ovaphlow/pitchfork/service-goods/internal/good/entity"
	goodrepo "github.com/ovaphlow/pitchfork/service-goods/internal/good/repo"
	userentity "github.com/ovaphlow/pitchfork/service-goods/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-goods/internal/validation"
)

var (
	ErrNotFound  = apperr.New(apperr.ErrNotFound, "Good not found")
	ErrForbidden = apperr.New(apperr.ErrForbidden, "Access denied")
)

// Store persists goods. Update and Delete call fn with the row locked.
type Store interface {
	List(ctx context.Context) ([]*entity.Good, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Good, error)
	Get(ctx context.Context, id int64) (*entity.Good, error)
	Create(ctx context.Context, g *entity.Good) error
	Update(ctx context.Context, id int64, fn goodrepo.MutateFunc) (*entity.Good, error)
	Delete(ctx context.Context, id int64, fn goodrepo.MutateFunc) error
}

// OwnerLookup resolves the owner summary shown in the detail view.
type OwnerLookup interface {
	Get(ctx context.Context, id int64) (*userentity.User, error)
}

// CreateInput is the body of POST /api/goods. Count is nil when absent.
type CreateInput struct {
	Name    string
	Comment *string
	Count   *int
}

// UpdateInput carries only the fields present in the request.
// ClearComment is set when the body had an explicit null comment.
type UpdateInput struct {
	Name         *string
	Comment      *string
	ClearComment bool
	Count        *int
}

type Service struct {
	store  Store
	owners OwnerLookup
	logger *zap.SugaredLogger
}

func NewService(store Store, owners OwnerLookup, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{store: store, owners: owners, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]*entity.Good, error) {
	return s.store.List(ctx)
}

// ListMine returns the goods owned by the caller.
func (s *Service) ListMine(ctx context.Context, identity *auth.Identity) ([]*entity.Good, error) {
	if identity == nil {
		return nil, auth.ErrUnauthorized
	}
	return s.store.ListByOwner(ctx, identity.ID)
}

// Get returns the good and its owner. A missing owner yields a nil owner.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Good, *userentity.User, error) {
	g, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, mapStoreErr(err)
	}
	if s.owners == nil {
		return g, nil, nil
	}
	owner, err := s.owners.Get(ctx, g.OwnerID)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, nil, err
		}
		s.logger.Warnw("good owner missing", "good_id", g.ID, "owner_id", g.OwnerID)
		owner = nil
	}
	return g, owner, nil
}

func (s *Service) Create(ctx context.Context, identity *auth.Identity, in CreateInput) (*entity.Good, error) {
	if identity == nil {
		return nil, auth.ErrUnauthorized
	}
	if err := validation.Good(in.Name, in.Count).Err(); err != nil {
		return nil, err
	}
	g := &entity.Good{
		Name:    strings.TrimSpace(in.Name),
		Comment: in.Comment,
		Count:   *in.Count,
		OwnerID: identity.ID,
	}
	if err := s.store.Create(ctx, g); err != nil {
		return nil, err
	}
	s.logger.Infow("good created", "good_id", g.ID, "owner_id", g.OwnerID)
	return g, nil
}

// Update applies the present fields and re-validates the whole good.
func (s *Service) Update(ctx context.Context, identity *auth.Identity, id int64, in UpdateInput) (*entity.Good, error) {
	if identity == nil {
		return nil, auth.ErrUnauthorized
	}
	g, err := s.store.Update(ctx, id, func(g *entity.Good) error {
		if !auth.CanMutate(identity, g.OwnerID) {
			return ErrForbidden
		}
		if in.Name != nil {
			g.Name = strings.TrimSpace(*in.Name)
		}
		switch {
		case in.ClearComment:
			g.Comment = nil
		case in.Comment != nil:
			g.Comment = in.Comment
		}
		if in.Count != nil {
			g.Count = *in.Count
		}
		return validation.Good(g.Name, &g.Count).Err()
	})
	if err != nil {
		s.logMutationDenied("update", identity, id, err)
		return nil, mapStoreErr(err)
	}
	s.logger.Infow("good updated", "good_id", g.ID, "by", identity.ID)
	return g, nil
}

func (s *Service) Delete(ctx context.Context, identity *auth.Identity, id int64) error {
	if identity == nil {
		return auth.ErrUnauthorized
	}
	err := s.store.Delete(ctx, id, func(g *entity.Good) error {
		if !auth.CanMutate(identity, g.OwnerID) {
			return ErrForbidden
		}
		return nil
	})
	if err != nil {
		s.logMutationDenied("delete", identity, id, err)
		return mapStoreErr(err)
	}
	s.logger.Infow("good deleted", "good_id", id, "by", identity.ID)
	return nil
}

func (s *Service) logMutationDenied(op string, identity *auth.Identity, id int64, err error) {
	if errors.Is(err, ErrForbidden) {
		s.logger.Warnw("good mutation denied", "op", op, "good_id", id, "user_id", identity.ID)
	}
}

func mapStoreErr(err error) error {
	if errors.Is(err, goodrepo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
