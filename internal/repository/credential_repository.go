package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CredentialRepository reads password hashes, stored separately from the
// user directory so the users table stays limited to profile fields. Writes
// happen alongside the user row in UserRepository.CreateWithCredential.
type CredentialRepository interface {
	GetHash(ctx context.Context, userID string) (string, error)
}

type credentialRepository struct {
	pool *pgxpool.Pool
}

// NewCredentialRepository constructs repository.
func NewCredentialRepository(pool *pgxpool.Pool) CredentialRepository {
	return &credentialRepository{pool: pool}
}

func (r *credentialRepository) GetHash(ctx context.Context, userID string) (string, error) {
	const query = `
        SELECT password_hash FROM auth_credentials WHERE user_id=$1`
	var hash string
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&hash); err != nil {
		return "", err
	}
	return hash, nil
}
