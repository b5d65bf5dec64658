package postgresql_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/auction1/pto-backend-go/internal/domain/user"
	"github.com/auction1/pto-backend-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupTestData(t *testing.T) *TestDatabaseSetup {
	t.Helper()
	if os.Getenv("TEST_DATABASE_URL") == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	setup, err := NewTestDatabase()
	require.NoError(t, err)
	t.Cleanup(setup.Close)

	ctx := context.Background()
	require.NoError(t, postgresql.Migrate(ctx, setup.DB))
	require.NoError(t, setup.TruncateAllTables(ctx))
	return setup
}

func TestUserRepository_SaveAndGet(t *testing.T) {
	setup := setupTestData(t)
	repo := postgresql.NewUserRepository(setup.DB)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("0000"), bcrypt.MinCost)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, user.User{
		Name:         "김철수",
		PasswordHash: string(hash),
		FirstLogin:   true,
		Role:         user.RoleUser,
		Title:        "대리",
	}))

	got, err := repo.GetByName(ctx, "김철수")
	require.NoError(t, err)
	assert.Equal(t, "대리", got.Title)
	assert.True(t, got.FirstLogin)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("0000")))
	assert.False(t, got.UpdatedAt.IsZero())

	got.FirstLogin = false
	got.Role = user.RoleAdmin
	require.NoError(t, repo.Save(ctx, got))

	updated, err := repo.GetByName(ctx, "김철수")
	require.NoError(t, err)
	assert.False(t, updated.FirstLogin)
	assert.True(t, updated.IsAdmin())
}

func TestUserRepository_NotFound(t *testing.T) {
	setup := setupTestData(t)
	repo := postgresql.NewUserRepository(setup.DB)

	_, err := repo.GetByName(context.Background(), "없는사람")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_ListInsideTransaction(t *testing.T) {
	setup := setupTestData(t)
	repo := postgresql.NewUserRepository(setup.DB)
	ctx := context.Background()

	rollback := errors.New("rollback")
	err := postgresql.WithTransaction(ctx, setup.DB, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		require.NoError(t, repo.Save(txCtx, user.User{Name: "이영희", PasswordHash: "h", Role: user.RoleUser}))
		require.NoError(t, repo.Save(txCtx, user.User{Name: "김철수", PasswordHash: "h", Role: user.RoleUser}))

		users, err := repo.List(txCtx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "김철수", users[0].Name)
		return rollback
	})
	assert.ErrorIs(t, err, rollback)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}
