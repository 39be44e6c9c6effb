package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "email", "username", "password_hash", "avatar", "confirmed", "refresh_token", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^INSERT\s+INTO\s+users\s*\(email,\s*username,\s*password_hash,\s*avatar,\s*confirmed\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id,\s*created_at$`

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	avatar := "https://www.gravatar.com/avatar/x"
	mock.ExpectQuery(q).
		WithArgs("alice@example.com", "alice", "digest", avatar, false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("u-1", created))

	got, err := repo.Create(context.Background(), &models.User{
		Email: "alice@example.com", Username: "alice", PasswordHash: "digest", Avatar: &avatar,
	})
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, created, got.CreatedAt)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{Email: "alice@example.com"})
	assert.ErrorIs(t, err, common.ErrEmailTaken)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Email: "alice@example.com"})
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^SELECT\s+id,\s*email,\s*username,\s*password_hash,\s*avatar,\s*confirmed,\s*refresh_token,\s*created_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1$`

	mock.ExpectQuery(q).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u-1", "alice@example.com", "alice", "digest", nil, true, "rt-digest", time.Now()))

	got, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.True(t, got.Confirmed)
	assert.Nil(t, got.Avatar)
	require.NotNil(t, got.RefreshToken)
	assert.Equal(t, "rt-digest", *got.RefreshToken)
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+email`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByEmail_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+email`).
		WithArgs("a@x.io").
		WillReturnError(errors.New("db err"))

	_, err := repo.GetByEmail(context.Background(), "a@x.io")
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db err`, err.Error())
}

func TestSetRefreshToken(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^UPDATE\s+users\s+SET\s+refresh_token\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2$`
	digest := "abc"

	mock.ExpectExec(q).WithArgs(digest, "u-1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetRefreshToken(context.Background(), "u-1", &digest))

	mock.ExpectExec(q).WithArgs(digest, "ghost").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.SetRefreshToken(context.Background(), "ghost", &digest), common.ErrorNotFound)
}

func TestSwapRefreshToken(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^UPDATE\s+users\s+SET\s+refresh_token\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2\s+AND\s+refresh_token\s*=\s*\$3$`

	mock.ExpectExec(q).WithArgs("new", "u-1", "old").WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := repo.SwapRefreshToken(context.Background(), "u-1", "old", "new")
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec(q).WithArgs("newer", "u-1", "old").WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err = repo.SwapRefreshToken(context.Background(), "u-1", "old", "newer")
	require.NoError(t, err)
	assert.False(t, ok, "stale expected digest must not swap")

	mock.ExpectExec(q).WillReturnError(errors.New("conn reset"))
	_, err = repo.SwapRefreshToken(context.Background(), "u-1", "a", "b")
	assert.Error(t, err)
}

func TestMarkConfirmed(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^UPDATE\s+users\s+SET\s+confirmed\s*=\s*true\s+WHERE\s+email\s*=\s*\$1$`

	mock.ExpectExec(q).WithArgs("alice@example.com").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarkConfirmed(context.Background(), "alice@example.com"))

	mock.ExpectExec(q).WithArgs("ghost@example.com").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.MarkConfirmed(context.Background(), "ghost@example.com"), common.ErrorNotFound)
}

func TestUpdateAvatar(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^UPDATE\s+users\s+SET\s+avatar\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2\s+RETURNING\s+id,`

	mock.ExpectQuery(q).
		WithArgs("http://cdn/a.png", "u-1").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u-1", "alice@example.com", "alice", "digest", "http://cdn/a.png", false, nil, time.Now()))

	got, err := repo.UpdateAvatar(context.Background(), "u-1", "http://cdn/a.png")
	require.NoError(t, err)
	require.NotNil(t, got.Avatar)
	assert.Equal(t, "http://cdn/a.png", *got.Avatar)

	mock.ExpectQuery(q).WithArgs("x", "ghost").WillReturnError(sql.ErrNoRows)
	_, err = repo.UpdateAvatar(context.Background(), "ghost", "x")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
