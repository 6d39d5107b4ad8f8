package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"referral_bot/internal/model"

	"github.com/Masterminds/squirrel"
)

var userColumns = []string{
	"telegram_id",
	"username",
	"referrer_id",
	"referrals",
	"registration_date",
}

type User struct {
	TelegramID       int64          `db:"telegram_id"`
	Username         sql.NullString `db:"username"`
	ReferrerID       *int64         `db:"referrer_id"`
	Referrals        int            `db:"referrals"`
	RegistrationDate time.Time      `db:"registration_date"`
}

func (u *User) toModel() *model.User {
	return &model.User{
		TelegramID:       u.TelegramID,
		Username:         u.Username.String,
		ReferrerID:       u.ReferrerID,
		Referrals:        u.Referrals,
		RegistrationDate: u.RegistrationDate,
	}
}

func (r *Repository) FindUserByID(ctx context.Context, telegramID int64) (*model.User, error) {
	var user User
	query, args, err := squirrel.
		Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"telegram_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user.toModel(), nil
}

// CreateUser relies on the primary key to reject a second insert of the
// same identity, so concurrent first contacts resolve to exactly one row.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	username := sql.NullString{String: user.Username, Valid: user.Username != ""}

	query, args, err := squirrel.
		Insert("users").
		Columns("telegram_id", "username", "referrer_id", "referrals", "registration_date").
		Values(user.TelegramID, username, user.ReferrerID, user.Referrals, user.RegistrationDate).
		Suffix("ON CONFLICT (telegram_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user insert query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return ErrDuplicateIdentity
	}

	return nil
}

func (r *Repository) IncrementReferralCount(ctx context.Context, telegramID int64, delta int) error {
	query, args, err := squirrel.
		Update("users").
		Set("referrals", squirrel.Expr("referrals + ?", delta)).
		Where(squirrel.Eq{"telegram_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build referrals update query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update referrals: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return ErrUnknownIdentity
	}

	return nil
}

func (r *Repository) ListUsersByReferrals(ctx context.Context) ([]*model.User, error) {
	query, args, err := squirrel.
		Select(userColumns...).
		From("users").
		OrderBy("referrals DESC", "seq ASC", "telegram_id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var users []User
	err = r.db.SelectContext(ctx, &users, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	userList := make([]*model.User, len(users))
	for i := range users {
		userList[i] = users[i].toModel()
	}

	return userList, nil
}
