package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/parthpl/userbase/internal/common"
	"github.com/parthpl/userbase/internal/dbx"
	"github.com/parthpl/userbase/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, name, email, date_of_birth, password_hash, otp, otp_issued_at, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (name, email, date_of_birth, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.Email, user.DateOfBirth, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE lower(email) = lower($1) AND NOT is_deleted
		 `

	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE id = $1 AND NOT is_deleted
		 `

	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// Save writes back every mutable field of the user in one statement.
func (r *PostgresRepository) Save(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users
		 SET name = $2, date_of_birth = $3, password_hash = $4, otp = $5, otp_issued_at = $6, updated_at = $7
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.DateOfBirth, user.PasswordHash, user.OTP, user.OTPIssuedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}

	var dob, otpIssuedAt sql.NullTime
	var otp sql.NullString

	err := row.Scan(&user.ID, &user.Name, &user.Email, &dob,
		&user.PasswordHash, &otp, &otpIssuedAt, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if dob.Valid {
		user.DateOfBirth = &dob.Time
	}
	if otp.Valid {
		user.OTP = &otp.String
	}
	if otpIssuedAt.Valid {
		user.OTPIssuedAt = &otpIssuedAt.Time
	}

	return user, nil
}
