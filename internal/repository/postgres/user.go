package postgres

import (
	"context"
	"database/sql"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, COALESCE(name, ''), COALESCE(avatar_url, ''), COALESCE(device_token, ''),
	balance_cents, last_balance_update_on, created_on, updated_on`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.DeviceToken,
		&u.BalanceCents, &u.LastBalanceUpdateOn, &u.CreatedOn, &u.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (email, name, avatar_url, device_token, balance_cents, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id`
	return run(ctx, r.db).QueryRowContext(ctx, query,
		u.Email, u.Name, u.AvatarURL, u.DeviceToken, u.BalanceCents, time.Now(),
	).Scan(&u.ID)
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(run(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(run(ctx, r.db).QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET email = $2, name = $3, avatar_url = $4, device_token = $5, updated_on = $6
	          WHERE id = $1`
	res, err := run(ctx, r.db).ExecContext(ctx, query, u.ID, u.Email, u.Name, u.AvatarURL, u.DeviceToken, time.Now())
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
