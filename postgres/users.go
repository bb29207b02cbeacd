package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrEthical07/goIdentity/password"
	"github.com/MrEthical07/goIdentity/secret"
	"github.com/MrEthical07/goIdentity/user"
)

const uniqueViolation = "23505"

const selectUser = `SELECT u.id, u.email, u.password, u.multi_factor_method, s.data
	 FROM users u
	 LEFT JOIN secrets s ON s.owner = u.id AND s.kind = 'salt'
	 `

// UserRepository stores users, their salt secret and lifecycle events.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Find(ctx context.Context, id user.ID) (*user.User, error) {
	return r.findOne(ctx, selectUser+`WHERE u.id = $1`, id)
}

// FindByEmail matches the stored address or its "+tag"-free form.
func (r *UserRepository) FindByEmail(ctx context.Context, email user.Email) (*user.User, error) {
	return r.findOne(ctx, selectUser+`WHERE u.email = $1 OR u.actual_email = $1`, string(email))
}

func (r *UserRepository) FindByName(ctx context.Context, name string) (*user.User, error) {
	return r.findOne(ctx, selectUser+`WHERE u.name = $1`, name)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var (
		u      user.User
		email  string
		hash   string
		method sql.NullString
		salt   []byte
	)
	err := r.db.QueryRowContext(ctx, query+` LIMIT 1`, arg).Scan(&u.ID, &email, &hash, &method, &salt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	u.Credentials = user.Credentials{
		Email:    user.Email(email),
		Password: password.Hash{Hash: hash, Salt: password.Salt(salt)},
	}
	u.Preferences.MultiFactor = user.MultiFactorMethod(method.String)
	return &u, nil
}

// Create inserts u with its salt secret and a user_created event.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	return WithTx(ctx, r.db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, name, email, actual_email, password, multi_factor_method)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			u.ID, u.Name(), string(u.Credentials.Email), string(u.Credentials.Email.Actual()),
			u.Credentials.Password.Hash, nullMethod(u.Preferences.MultiFactor))
		if err != nil {
			if isUniqueViolation(err) {
				return user.ErrExists
			}
			return fmt.Errorf("db error: %w", err)
		}
		if err := NewSecretRepository(tx).Create(ctx, secret.NewSalt(u)); err != nil {
			return err
		}
		return insertEvent(ctx, tx, user.NewEvent(u, user.EventCreated))
	})
}

// Save updates the user row and replaces its salt secret.
func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	return WithTx(ctx, r.db, nil, func(ctx context.Context, tx DBTX) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE users SET name = $2, email = $3, actual_email = $4, password = $5, multi_factor_method = $6
			 WHERE id = $1`,
			u.ID, u.Name(), string(u.Credentials.Email), string(u.Credentials.Email.Actual()),
			u.Credentials.Password.Hash, nullMethod(u.Preferences.MultiFactor))
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if err := expectOne(res, user.ErrNotFound); err != nil {
			return err
		}

		secrets := NewSecretRepository(tx)
		salt := secret.NewSalt(u)
		if err := secrets.Delete(ctx, salt); err != nil && !errors.Is(err, secret.ErrNotFound) {
			return err
		}
		return secrets.Create(ctx, salt)
	})
}

// Delete removes u, cascading to its secrets, and records user_deleted.
func (r *UserRepository) Delete(ctx context.Context, u *user.User) error {
	return WithTx(ctx, r.db, nil, func(ctx context.Context, tx DBTX) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, u.ID)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if err := expectOne(res, user.ErrNotFound); err != nil {
			return err
		}
		return insertEvent(ctx, tx, user.NewEvent(u, user.EventDeleted))
	})
}

func insertEvent(ctx context.Context, tx DBTX, e user.Event) error {
	payload, checksum, err := e.Payload()
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO events (checksum, kind, payload)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (checksum) DO NOTHING`,
		checksum, string(e.Kind), payload)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func nullMethod(m user.MultiFactorMethod) sql.NullString {
	return sql.NullString{String: string(m), Valid: m != ""}
}

func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
