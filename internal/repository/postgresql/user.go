package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/auction1/pto-backend-go/internal/domain/user"
	"github.com/auction1/pto-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// CredentialSchema creates the credential table when it does not exist.
const CredentialSchema = `
	CREATE TABLE IF NOT EXISTS credentials (
		name          TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		first_login   BOOLEAN NOT NULL DEFAULT TRUE,
		role          TEXT NOT NULL DEFAULT 'user',
		title         TEXT NOT NULL DEFAULT '',
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const credentialRoleIndex = `CREATE INDEX IF NOT EXISTS credentials_role_idx ON credentials (role)`

// Migrate applies CredentialSchema and its index in one transaction.
func Migrate(ctx context.Context, db *database.DB) error {
	return WithTransaction(ctx, db, func(tx pgx.Tx) error {
		for _, stmt := range []string{CredentialSchema, credentialRoleIndex} {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migrate credentials: %w", err)
			}
		}
		return nil
	})
}

// GetByName implements user.UserRepository.
func (r *userRepositoryImpl) GetByName(ctx context.Context, name string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT name, password_hash, first_login, role, title, updated_at
		FROM credentials
		WHERE name = $1
	`

	var u user.User
	var role string
	err := q.QueryRow(ctx, query, name).Scan(
		&u.Name,
		&u.PasswordHash,
		&u.FirstLogin,
		&role,
		&u.Title,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("%w: %v", user.ErrCredentialStore, err)
	}
	u.Role = user.ParseRole(role)

	return u, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT name, password_hash, first_login, role, title, updated_at
		FROM credentials
		ORDER BY name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", user.ErrCredentialStore, err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		var role string
		if err := rows.Scan(&u.Name, &u.PasswordHash, &u.FirstLogin, &role, &u.Title, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", user.ErrCredentialStore, err)
		}
		u.Role = user.ParseRole(role)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", user.ErrCredentialStore, err)
	}

	return users, nil
}

// Save implements user.UserRepository.
func (r *userRepositoryImpl) Save(ctx context.Context, u user.User) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO credentials (name, password_hash, first_login, role, title, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (name) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
			first_login = EXCLUDED.first_login,
			role = EXCLUDED.role,
			title = EXCLUDED.title,
			updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, u.Name, u.PasswordHash, u.FirstLogin, string(u.Role), u.Title); err != nil {
		return fmt.Errorf("%w: %v", user.ErrCredentialStore, err)
	}
	return nil
}
