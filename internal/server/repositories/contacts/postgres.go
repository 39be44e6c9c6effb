package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/dbx"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
)

const (
	contactColumns = `id, user_id, name, surname, email, phone, birthday, note, created_at`

	uniqueEmailConstraint = "contacts_user_email_key"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanContact(row interface{ Scan(...any) error }) (*models.Contact, error) {
	c := &models.Contact{}
	var birthday sql.NullTime
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Surname, &c.Email, &c.Phone, &birthday, &c.Note, &c.CreatedAt); err != nil {
		return nil, err
	}
	if birthday.Valid {
		b := time.Date(birthday.Time.Year(), birthday.Time.Month(), birthday.Time.Day(), 0, 0, 0, 0, time.UTC)
		c.Birthday = &b
	}
	return c, nil
}

func wrapWriteErr(err error) error {
	if dbx.IsUniqueViolation(err, uniqueEmailConstraint) {
		return common.ErrDuplicateContactEmail
	}
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, owner string, in models.ContactInput) (*models.Contact, error) {
	query :=
		`INSERT INTO contacts (user_id, name, surname, email, phone, birthday, note)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING ` + contactColumns

	c, err := scanContact(r.db.QueryRowContext(ctx, query,
		owner, in.Name, in.Surname, in.Email, in.Phone, in.Birthday, in.Note))
	if err != nil {
		return nil, wrapWriteErr(err)
	}
	return c, nil
}

func (r *PostgresRepository) Get(ctx context.Context, owner string, id int64) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1 AND id = $2`

	c, err := scanContact(r.db.QueryRowContext(ctx, query, owner, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context, owner string, skip, limit int) ([]models.Contact, error) {
	query :=
		`SELECT ` + contactColumns + ` FROM contacts
		 WHERE user_id = $1
		 ORDER BY id
		 OFFSET $2 LIMIT $3`

	return r.query(ctx, query, owner, skip, limit)
}

func (r *PostgresRepository) Filter(ctx context.Context, owner, q string, skip, limit int) ([]models.Contact, error) {
	query :=
		`SELECT ` + contactColumns + ` FROM contacts
		 WHERE user_id = $1
		   AND (name ILIKE $2 OR surname ILIKE $2 OR email ILIKE $2)
		 ORDER BY id
		 OFFSET $3 LIMIT $4`

	return r.query(ctx, query, owner, "%"+EscapeLike(q)+"%", skip, limit)
}

func (r *PostgresRepository) Update(ctx context.Context, owner string, id int64, p models.ContactPatch) (*models.Contact, error) {
	query :=
		`UPDATE contacts SET
		   name     = COALESCE($3, name),
		   surname  = COALESCE($4, surname),
		   email    = COALESCE($5, email),
		   phone    = COALESCE($6, phone),
		   birthday = CASE WHEN $7::boolean THEN NULL ELSE COALESCE($8::date, birthday) END,
		   note     = COALESCE($9, note)
		 WHERE user_id = $1 AND id = $2
		 RETURNING ` + contactColumns

	c, err := scanContact(r.db.QueryRowContext(ctx, query,
		owner, id, p.Name, p.Surname, p.Email, p.Phone, p.ClearBirthday, p.Birthday, p.Note))
	if err != nil {
		return nil, wrapWriteErr(err)
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, owner string, id int64) error {
	query := `DELETE FROM contacts WHERE user_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, query, owner, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ListWithBirthdays(ctx context.Context, owner string) ([]models.Contact, error) {
	query :=
		`SELECT ` + contactColumns + ` FROM contacts
		 WHERE user_id = $1 AND birthday IS NOT NULL
		 ORDER BY id`

	return r.query(ctx, query, owner)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]models.Contact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike makes s match literally inside a LIKE pattern.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
