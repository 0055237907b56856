package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pizza-storefront/internal/models"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	u.ID = uuid.NewString()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, phone, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return models.ValidationError("email already registered")
	}
	return err
}

func (r *UserRepo) scanUser(ctx context.Context, row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash,
		&u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadAddresses(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.scanUser(ctx, r.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, password_hash, created_at, updated_at
		FROM users WHERE id = $1`, id))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanUser(ctx, r.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, password_hash, created_at, updated_at
		FROM users WHERE email = $1`, strings.ToLower(strings.TrimSpace(email))))
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id, name, phone string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			name = COALESCE(NULLIF($2, ''), name),
			phone = COALESCE(NULLIF($3, ''), phone),
			updated_at = NOW()
		WHERE id = $1`, id, name, phone)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UserRepo) loadAddresses(ctx context.Context, u *models.User) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, label, type, street, city, state, pincode, landmark, is_default
		FROM addresses WHERE user_id = $1
		ORDER BY position, id`, u.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	u.Addresses = []models.Address{}
	for rows.Next() {
		var a models.Address
		if err := rows.Scan(&a.ID, &a.Label, &a.Type, &a.Street, &a.City,
			&a.State, &a.Pincode, &a.Landmark, &a.IsDefault); err != nil {
			return err
		}
		u.Addresses = append(u.Addresses, a)
	}
	return rows.Err()
}

// GetAddress resolves one address belonging to the given user.
func (r *UserRepo) GetAddress(ctx context.Context, userID, addressID string) (*models.Address, error) {
	var a models.Address
	err := r.db.QueryRowContext(ctx, `
		SELECT id, label, type, street, city, state, pincode, landmark, is_default
		FROM addresses WHERE id = $1 AND user_id = $2`,
		addressID, userID,
	).Scan(&a.ID, &a.Label, &a.Type, &a.Street, &a.City, &a.State,
		&a.Pincode, &a.Landmark, &a.IsDefault)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// AddAddress appends an address. The first address, or one flagged
// default, becomes the single default; any previous default is cleared
// in the same transaction.
func (r *UserRepo) AddAddress(ctx context.Context, userID string, a *models.Address) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM addresses WHERE user_id = $1`, userID,
	).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		a.IsDefault = true
	}
	if a.IsDefault {
		if _, err := tx.ExecContext(ctx,
			`UPDATE addresses SET is_default = false WHERE user_id = $1`, userID); err != nil {
			return err
		}
	}

	a.ID = uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO addresses
		(id, user_id, label, type, street, city, state, pincode, landmark, is_default, position)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		a.ID, userID, a.Label, a.Type, a.Street, a.City, a.State,
		a.Pincode, a.Landmark, a.IsDefault, count,
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *UserRepo) UpdateAddress(ctx context.Context, userID string, a *models.Address) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if a.IsDefault {
		if _, err := tx.ExecContext(ctx,
			`UPDATE addresses SET is_default = false WHERE user_id = $1 AND id <> $2`,
			userID, a.ID); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE addresses SET
			label = $3, type = $4, street = $5, city = $6, state = $7,
			pincode = $8, landmark = $9, is_default = $10
		WHERE id = $1 AND user_id = $2`,
		a.ID, userID, a.Label, a.Type, a.Street, a.City, a.State,
		a.Pincode, a.Landmark, a.IsDefault,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *UserRepo) DeleteAddress(ctx context.Context, userID, addressID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM addresses WHERE id = $1 AND user_id = $2`, addressID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// --- Sessions ---

func (r *UserRepo) CreateSession(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id) VALUES ($1, $2)`, token, userID)
	if err != nil {
		return "", err
	}
	return token, nil
}

// UserIDForSession resolves a bearer token to a user ID.
func (r *UserRepo) UserIDForSession(ctx context.Context, token string) (string, error) {
	var userID string
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM sessions WHERE token = $1`, token).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.ErrNotFound
	}
	return userID, err
}

func (r *UserRepo) DeleteSession(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}
