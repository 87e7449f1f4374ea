package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/longmh299/mcbrother-sub000/internal/registry"
)

// uniqueViolation is the Postgres error code for a unique-constraint hit.
const uniqueViolation = "23505"

// PostgresRepository is the authoritative registry.Repository. Token
// uniqueness is enforced by a unique index on (kind, lower(token)), and a
// rename and its redirect upsert run in one transaction.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a Postgres-backed repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (p *PostgresRepository) Create(ctx context.Context, entity *registry.Entity) error {
	query := `
		INSERT INTO entities (id, kind, token, display_name, published, no_index, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := p.pool.Exec(ctx, query,
		entity.ID,
		string(entity.Kind),
		string(entity.Token),
		entity.DisplayName,
		entity.Published,
		entity.NoIndex,
		entity.CreatedAt,
		entity.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return registry.ErrTokenTaken
		}

		return err
	}

	return nil
}

func (p *PostgresRepository) Update(ctx context.Context, entity *registry.Entity) error {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var oldToken string

	err = tx.QueryRow(ctx,
		`SELECT token FROM entities WHERE id = $1 AND kind = $2 FOR UPDATE`,
		entity.ID, string(entity.Kind),
	).Scan(&oldToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return registry.ErrNotFound
		}

		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE entities
		SET token = $1, display_name = $2, published = $3, no_index = $4, updated_at = $5
		WHERE id = $6 AND kind = $7
	`,
		string(entity.Token),
		entity.DisplayName,
		entity.Published,
		entity.NoIndex,
		entity.UpdatedAt,
		entity.ID,
		string(entity.Kind),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return registry.ErrTokenTaken
		}

		return err
	}

	// Redirect bookkeeping rides the same transaction as the rename: the
	// two writes commit together or not at all.
	if oldToken != "" && oldToken != string(entity.Token) {
		_, err = tx.Exec(ctx, `
			INSERT INTO redirects (kind, from_token, to_token, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (kind, from_token) DO UPDATE SET to_token = EXCLUDED.to_token, created_at = EXCLUDED.created_at
		`,
			string(entity.Kind),
			oldToken,
			string(entity.Token),
			entity.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (p *PostgresRepository) Delete(ctx context.Context, kind registry.Kind, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx,
		`DELETE FROM entities WHERE id = $1 AND kind = $2`,
		id, string(kind),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return registry.ErrNotFound
	}

	return nil
}

const entityColumns = `id, kind, token, display_name, published, no_index, created_at, updated_at`

func scanEntity(row pgx.Row) (*registry.Entity, error) {
	var (
		entity registry.Entity
		kind   string
		token  string
	)

	err := row.Scan(
		&entity.ID,
		&kind,
		&token,
		&entity.DisplayName,
		&entity.Published,
		&entity.NoIndex,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, registry.ErrNotFound
		}

		return nil, err
	}

	entity.Kind = registry.Kind(kind)
	entity.Token = registry.Token(token)

	return &entity, nil
}

func (p *PostgresRepository) GetByID(
	ctx context.Context, kind registry.Kind, id uuid.UUID,
) (*registry.Entity, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+entityColumns+` FROM entities WHERE id = $1 AND kind = $2`,
		id, string(kind),
	)

	return scanEntity(row)
}

func (p *PostgresRepository) GetByToken(
	ctx context.Context, kind registry.Kind, token registry.Token,
) (*registry.Entity, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+entityColumns+` FROM entities WHERE kind = $1 AND lower(token) = lower($2)`,
		string(kind), string(token),
	)

	return scanEntity(row)
}

func (p *PostgresRepository) TokenInUse(
	ctx context.Context, kind registry.Kind, token registry.Token, excludeID *uuid.UUID,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM entities
			WHERE kind = $1 AND lower(token) = lower($2) AND ($3::uuid IS NULL OR id <> $3)
		)
	`

	var inUse bool

	if err := p.pool.QueryRow(ctx, query, string(kind), string(token), excludeID).Scan(&inUse); err != nil {
		return false, err
	}

	return inUse, nil
}

func (p *PostgresRepository) RedirectTarget(
	ctx context.Context, kind registry.Kind, fromToken registry.Token,
) (registry.Token, error) {
	var target string

	err := p.pool.QueryRow(ctx,
		`SELECT to_token FROM redirects WHERE kind = $1 AND lower(from_token) = lower($2)`,
		string(kind), string(fromToken),
	).Scan(&target)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", registry.ErrNotFound
		}

		return "", err
	}

	return registry.Token(target), nil
}

func (p *PostgresRepository) ListByKind(
	ctx context.Context, kind registry.Kind, limit, offset int,
) ([]*registry.Entity, int, error) {
	var total int

	err := p.pool.QueryRow(ctx,
		`SELECT count(*) FROM entities WHERE kind = $1`,
		string(kind),
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = total
	}

	rows, err := p.pool.Query(ctx,
		`SELECT `+entityColumns+` FROM entities WHERE kind = $1 ORDER BY created_at DESC, token LIMIT $2 OFFSET $3`,
		string(kind), limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entities := make([]*registry.Entity, 0, limit)

	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, 0, err
		}

		entities = append(entities, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return entities, total, nil
}

// Compile-time check.
var _ registry.Repository = (*PostgresRepository)(nil)
