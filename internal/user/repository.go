// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/storefront/internal/core"
)

type Repository interface {
	CreateWithCart(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateRole(ctx context.Context, id, role string) error
	LinkGoogle(ctx context.Context, id, googleID, image string) error
	SetBanned(ctx context.Context, id string, banned bool) (*User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	Stats(ctx context.Context) (*Stats, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, email, password_hash, user_name, first_name, last_name,
		       google_id, image, role, is_banned, created_at, updated_at`

// CreateWithCart inserts the account and its empty cart in one statement,
// so neither can exist without the other.
func (r *repository) CreateWithCart(ctx context.Context, user *User) error {
	query := `
		WITH new_user AS (
			INSERT INTO users (id, email, password_hash, user_name, first_name,
			                   last_name, google_id, image, role)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at, updated_at
		), new_cart AS (
			INSERT INTO carts (id, user_id)
			SELECT $10::uuid, id FROM new_user
		)
		SELECT created_at, updated_at FROM new_user`

	err := r.db.QueryRowxContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.UserName,
		user.FirstName,
		user.LastName,
		user.GoogleID,
		user.Image,
		user.Role,
		uuid.New().String(),
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) getOne(
	ctx context.Context,
	op, where string,
	arg any,
) (*User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE " + where

	var user User
	err := r.db.GetContext(ctx, &user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getOne(ctx, "get user", "id = $1", id)
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	return r.getOne(ctx, "get user by email", "email = $1", email)
}

func (r *repository) GetByGoogleID(
	ctx context.Context,
	googleID string,
) (*User, error) {
	return r.getOne(ctx, "get user by google id", "google_id = $1", googleID)
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET user_name = $2, first_name = $3, last_name = $4, email = $5,
		    image = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.UserName,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Image,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("update user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

func (r *repository) exec(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	return r.exec(ctx, "update password", `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`, id, passwordHash)
}

func (r *repository) UpdateRole(ctx context.Context, id, role string) error {
	return r.exec(ctx, "update role", `
		UPDATE users
		SET role = $2, updated_at = NOW()
		WHERE id = $1`, id, role)
}

// LinkGoogle attaches a Google subject to an existing account and fills
// the image only when the account has none.
func (r *repository) LinkGoogle(
	ctx context.Context,
	id, googleID, image string,
) error {
	err := r.exec(ctx, "link google account", `
		UPDATE users
		SET google_id = $2,
		    image = CASE WHEN image = '' THEN $3 ELSE image END,
		    updated_at = NOW()
		WHERE id = $1`, id, googleID, image)
	if err != nil && core.IsDuplicateKeyError(err) {
		return fmt.Errorf("link google account: %w", core.ErrDuplicateKey)
	}
	return err
}

func (r *repository) SetBanned(
	ctx context.Context,
	id string,
	banned bool,
) (*User, error) {
	query := `
		UPDATE users
		SET is_banned = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	var user User
	err := r.db.GetContext(ctx, &user, query, id, banned)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("set banned: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("set banned: %w", err)
	}

	return &user, nil
}

// Delete removes the account; the cart and its items go with it.
func (r *repository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, "delete user", `DELETE FROM users WHERE id = $1`, id)
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(email ILIKE $%d OR user_name ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx))
		args = append(args, "%"+core.EscapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, params.Role)
		argIdx++
	}

	if params.Banned != nil {
		conditions = append(conditions, fmt.Sprintf("is_banned = $%d", argIdx))
		args = append(args, *params.Banned)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM users WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	query := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE is_banned) AS banned,
		       COUNT(*) FILTER (WHERE role = 'admin') AS admins
		FROM users`

	var stats Stats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}

	return &stats, nil
}
