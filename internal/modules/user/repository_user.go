package user

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

var userColumns = []string{
	"id", "name", "username", "email", "password_hash", "phone", "role",
	"blocked", "account_status", "email_verified",
	"title", "education", "years_of_experience", "verification_doc_url",
	"created_at", "updated_at",
}

// Create inserts a new user record. Unique violations on email or username
// are mapped to their domain errors.
func (r *repository) Create(ctx context.Context, u *User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	query, args, err := r.psql.Insert("users").
		Columns(userColumns...).
		Values(
			u.ID, u.Name, u.Username, u.Email, u.PasswordHash, u.Phone, string(u.Role),
			u.Blocked, string(u.AccountStatus), u.EmailVerified,
			u.Title, u.Education, u.YearsOfExperience, u.VerificationDocURL,
			u.CreatedAt, u.UpdatedAt,
		).ToSql()
	if err != nil {
		return err
	}

	if _, err = r.db.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case "users_email_key":
				return ErrEmailExists.WithCause(err)
			case "users_username_key":
				return ErrUsernameExists.WithCause(err)
			}
			return ErrEmailExists.WithCause(err)
		}
		return err
	}
	return nil
}

// FindByEmail retrieves a user by email, returning ErrNotFound when absent.
func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, squirrel.Eq{"email": email})
}

// FindByID retrieves a user by ID, returning ErrNotFound when absent.
func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

func (r *repository) findOne(ctx context.Context, cond squirrel.Sqlizer) (*User, error) {
	query, args, err := r.psql.Select(userColumns...).
		From("users").
		Where(cond).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var u User
	if err := pgxscan.Get(ctx, r.db, &u, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}
	return &u, nil
}

// Update modifies an existing user's mutable details.
func (r *repository) Update(ctx context.Context, u *User) error {
	u.UpdatedAt = time.Now()

	query, args, err := r.psql.Update("users").
		Set("name", u.Name).
		Set("username", u.Username).
		Set("phone", u.Phone).
		Set("blocked", u.Blocked).
		Set("account_status", string(u.AccountStatus)).
		Set("email_verified", u.EmailVerified).
		Set("title", u.Title).
		Set("education", u.Education).
		Set("years_of_experience", u.YearsOfExperience).
		Set("verification_doc_url", u.VerificationDocURL).
		Set("updated_at", u.UpdatedAt).
		Where(squirrel.Eq{"id": u.ID}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword sets a new password hash for a user.
func (r *repository) UpdatePassword(ctx context.Context, userID string, newPasswordHash string) error {
	query, args, err := r.psql.Update("users").
		Set("password_hash", newPasswordHash).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
