package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskflow/helpdesk/internal/domain"
)

// UserRepository defines persistence access for the user directory.
type UserRepository interface {
	CreateWithCredential(ctx context.Context, user *domain.User, passwordHash string) error
	UpdateProfile(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListAdmins(ctx context.Context) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

// CreateWithCredential inserts the directory row and its password hash in
// one transaction, so no account can exist without a credential.
func (r *userRepository) CreateWithCredential(ctx context.Context, user *domain.User, passwordHash string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertUser = `
        INSERT INTO users (email, full_name, role, avatar_url)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insertUser,
		user.Email,
		user.FullName,
		user.Role,
		user.AvatarURL,
	).Scan(&user.ID, &user.CreatedAt); err != nil {
		return err
	}

	const insertCredential = `
        INSERT INTO auth_credentials (user_id, password_hash)
        VALUES ($1, $2)`
	if _, err := tx.Exec(ctx, insertCredential, user.ID, passwordHash); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateProfile writes the owner-mutable fields only. Role and email are
// not reachable through any update path.
func (r *userRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET full_name=$1, avatar_url=$2
        WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query,
		user.FullName,
		user.AvatarURL,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, email, full_name, role, avatar_url, created_at
        FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, email, full_name, role, avatar_url, created_at
        FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) ListAdmins(ctx context.Context) ([]domain.User, error) {
	const query = `
        SELECT id, email, full_name, role, avatar_url, created_at
        FROM users WHERE role='admin' ORDER BY full_name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.FullName,
			&user.Role,
			&user.AvatarURL,
			&user.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.Role,
		&user.AvatarURL,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
