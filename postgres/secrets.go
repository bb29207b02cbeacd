package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrEthical07/goIdentity/secret"
	"github.com/MrEthical07/goIdentity/user"
)

// SecretRepository stores secrets. It runs on a pool or inside a
// transaction.
type SecretRepository struct {
	db DBTX
}

func NewSecretRepository(db DBTX) *SecretRepository {
	return &SecretRepository{db: db}
}

func (r *SecretRepository) FindByOwnerAndKind(ctx context.Context, owner user.ID, kind secret.Kind) (*secret.Secret, error) {
	s := &secret.Secret{Owner: owner, Kind: kind}
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM secrets WHERE owner = $1 AND kind = $2`,
		owner, string(kind)).Scan(&s.Data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, secret.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *SecretRepository) Create(ctx context.Context, s *secret.Secret) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO secrets (owner, kind, data) VALUES ($1, $2, $3)`,
		s.Owner, string(s.Kind), s.Data)
	if err != nil {
		if isUniqueViolation(err) {
			return secret.ErrExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SecretRepository) Delete(ctx context.Context, s *secret.Secret) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM secrets WHERE owner = $1 AND kind = $2`,
		s.Owner, string(s.Kind))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, secret.ErrNotFound)
}

func (r *SecretRepository) DeleteByOwner(ctx context.Context, owner user.ID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM secrets WHERE owner = $1`, owner); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
