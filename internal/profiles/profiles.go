// Package profiles stores the display name and phone attached to an account.
package profiles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Profile struct {
	ID        string     `json:"id"`
	FullName  *string    `json:"full_name"`
	Phone     *string    `json:"phone"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type Update struct {
	FullName string `json:"full_name" validate:"max=100"`
	Phone    string `json:"phone" validate:"max=15"`
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var validate = validator.New(validator.WithRequiredStructEnabled())

var labels = map[string]string{"FullName": "Full name", "Phone": "Phone"}

func (u Update) Validate() error {
	err := validate.Struct(u)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &ValidationError{
		Field:   fe.StructField(),
		Message: fmt.Sprintf("%s must be at most %s characters", labels[fe.StructField()], fe.Param()),
	}
}

type Repo struct{ DB *pgxpool.Pool }

// Get returns the profile, or an empty one when none was saved yet.
func (r *Repo) Get(ctx context.Context, userID string) (Profile, error) {
	p := Profile{ID: userID}
	var updated time.Time
	err := r.DB.QueryRow(ctx, `SELECT full_name, phone, updated_at FROM profiles WHERE id = $1`, userID).
		Scan(&p.FullName, &p.Phone, &updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, nil
	}
	if err != nil {
		return Profile{}, err
	}
	p.UpdatedAt = &updated
	return p, nil
}

// Save validates u and upserts it. Empty strings are stored as NULL.
func (r *Repo) Save(ctx context.Context, userID string, u Update) (Profile, error) {
	if err := u.Validate(); err != nil {
		return Profile{}, err
	}
	p := Profile{ID: userID}
	var updated time.Time
	err := r.DB.QueryRow(ctx, `
		INSERT INTO profiles(id, full_name, phone) VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
		ON CONFLICT (id) DO UPDATE
			SET full_name = EXCLUDED.full_name, phone = EXCLUDED.phone, updated_at = now()
		RETURNING full_name, phone, updated_at`, userID, u.FullName, u.Phone,
	).Scan(&p.FullName, &p.Phone, &updated)
	if err != nil {
		return Profile{}, err
	}
	p.UpdatedAt = &updated
	return p, nil
}
