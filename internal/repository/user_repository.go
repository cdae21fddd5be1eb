package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/account-service/internal/domain"
)

// ErrDuplicateEmail reports a violation of the email uniqueness invariant.
var ErrDuplicateEmail = errors.New("email already registered")

const uniqueViolation = "23505"

// UserRepository defines persistence access for accounts. Absent rows
// surface as pgx.ErrNoRows.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, skip, limit int) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	DeleteByEmail(ctx context.Context, email string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation. Mutating
// operations each run in their own transaction: either the full row change
// commits or nothing is persisted. The UNIQUE constraint on email is the
// uniqueness guarantee; concurrent inserts race down to it, not to any
// application-level check.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, nick_name, email, hashed_password, is_active, role, created_at, updated_at
        FROM users WHERE email=$1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.NickName,
		&user.Email,
		&user.HashedPassword,
		&user.IsActive,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, skip, limit int) ([]*domain.User, error) {
	const query = `
        SELECT id, nick_name, email, hashed_password, is_active, role, created_at, updated_at
        FROM users ORDER BY id OFFSET $1 LIMIT $2`

	rows, err := r.pool.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.NickName,
			&user.Email,
			&user.HashedPassword,
			&user.IsActive,
			&user.Role,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (nick_name, email, hashed_password, is_active, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.withTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, query,
			user.NickName,
			user.Email,
			user.HashedPassword,
			user.IsActive,
			user.Role,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
		return mapUniqueViolation(err)
	})
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET nick_name=$1, email=$2, hashed_password=$3, is_active=$4, role=$5, updated_at=NOW()
        WHERE id=$6`

	return r.withTx(ctx, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, query,
			user.NickName,
			user.Email,
			user.HashedPassword,
			user.IsActive,
			user.Role,
			user.ID,
		)
		if err != nil {
			return mapUniqueViolation(err)
		}
		if cmd.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
}

func (r *userRepository) DeleteByEmail(ctx context.Context, email string) error {
	const query = `DELETE FROM users WHERE email=$1`

	return r.withTx(ctx, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, query, email)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
}

// withTx runs fn inside a transaction, rolling back on every error path.
func (r *userRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}
