package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-goods/internal/good/entity"
	"github.com/ovaphlow/pitchfork/service-goods/pkg/database"
)

var ErrNotFound = errors.New("good not found")

// MutateFunc inspects a locked good and may change it in place. Returning an
// error aborts the mutation and is passed back to the caller unchanged.
type MutateFunc func(g *entity.Good) error

type goodRow struct {
	ID        int64          `db:"id"`
	Name      string         `db:"name"`
	Comment   sql.NullString `db:"comment"`
	Count     int            `db:"count"`
	OwnerID   int64          `db:"owner_id"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r goodRow) toEntity() *entity.Good {
	g := &entity.Good{
		ID:        r.ID,
		Name:      r.Name,
		Count:     r.Count,
		OwnerID:   r.OwnerID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Comment.Valid {
		c := r.Comment.String
		g.Comment = &c
	}
	return g
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

const goodColumns = `id, name, comment, count, owner_id, created_at, updated_at`

// GoodRepo persists goods in Postgres.
type GoodRepo struct {
	db *sqlx.DB
}

func NewGoodRepo(db *sqlx.DB) *GoodRepo { return &GoodRepo{db: db} }

func (r *GoodRepo) List(ctx context.Context) ([]*entity.Good, error) {
	return r.list(ctx, `SELECT `+goodColumns+` FROM goods ORDER BY id`)
}

func (r *GoodRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Good, error) {
	return r.list(ctx, `SELECT `+goodColumns+` FROM goods WHERE owner_id = $1 ORDER BY id`, ownerID)
}

func (r *GoodRepo) list(ctx context.Context, q string, args ...any) ([]*entity.Good, error) {
	var rows []goodRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("list goods: %w", err)
	}
	out := make([]*entity.Good, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *GoodRepo) Get(ctx context.Context, id int64) (*entity.Good, error) {
	return get(ctx, r.db, `SELECT `+goodColumns+` FROM goods WHERE id = $1`, id)
}

func get(ctx context.Context, q sqlx.QueryerContext, query string, id int64) (*entity.Good, error) {
	var row goodRow
	if err := sqlx.GetContext(ctx, q, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get good: %w", err)
	}
	return row.toEntity(), nil
}

// Create inserts g and fills in its id and timestamps.
func (r *GoodRepo) Create(ctx context.Context, g *entity.Good) error {
	q := `INSERT INTO goods (name, comment, count, owner_id) VALUES ($1, $2, $3, $4)
RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, q, g.Name, nullString(g.Comment), g.Count, g.OwnerID)
	if err := row.Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return fmt.Errorf("insert good: %w", err)
	}
	return nil
}

// Update locks the row, applies fn and writes the result back in one transaction.
func (r *GoodRepo) Update(ctx context.Context, id int64, fn MutateFunc) (*entity.Good, error) {
	var out *entity.Good
	err := database.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sqlx.Tx) error {
		g, err := get(ctx, tx, `SELECT `+goodColumns+` FROM goods WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			return err
		}
		if err := fn(g); err != nil {
			return err
		}
		q := `UPDATE goods SET name = $1, comment = $2, count = $3, updated_at = now()
WHERE id = $4 RETURNING updated_at`
		if err := tx.QueryRowxContext(ctx, q, g.Name, nullString(g.Comment), g.Count, id).Scan(&g.UpdatedAt); err != nil {
			return fmt.Errorf("update good: %w", err)
		}
		out = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete locks the row, lets fn veto the removal, then deletes it.
func (r *GoodRepo) Delete(ctx context.Context, id int64, fn MutateFunc) error {
	return database.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sqlx.Tx) error {
		g, err := get(ctx, tx, `SELECT `+goodColumns+` FROM goods WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			return err
		}
		if err := fn(g); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM goods WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete good: %w", err)
		}
		return nil
	})
}
