package service

import (
	"context"
	"errors"

	"referral_bot/internal/model"
)

var (
	ErrInvalidAdminID = errors.New("invalid admin id")
)

type ReferralServiceI interface {
	Attribute(ctx context.Context, callerID int64, displayName, referralToken string) (*model.AttributionResult, error)
	CreditReferral(ctx context.Context, referrerID int64) (bool, error)
}

type LeaderboardServiceI interface {
	BuildLeaderboard(ctx context.Context) ([]model.LeaderboardEntry, error)
}

type SubscriptionChecker interface {
	IsSubscribed(ctx context.Context, userID int64) bool
}

type AdminAuthorizer interface {
	IsAdmin(telegramID int64) bool
}

// UserRepository is the identity store contract. FindUserByID reports a
// missing record with repository.ErrNotFound, CreateUser an existing one with
// repository.ErrDuplicateIdentity and IncrementReferralCount a missing one
// with repository.ErrUnknownIdentity.
type UserRepository interface {
	FindUserByID(ctx context.Context, telegramID int64) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	IncrementReferralCount(ctx context.Context, telegramID int64, delta int) error
	ListUsersByReferrals(ctx context.Context) ([]*model.User, error)
}

// MembershipChecker resolves a user's status in a channel
// ("member", "left", "creator", ...).
type MembershipChecker interface {
	ChatMemberStatus(ctx context.Context, channel string, userID int64) (string, error)
}

type MembershipCache interface {
	GetSubscription(ctx context.Context, userID int64) (subscribed bool, found bool, err error)
	SetSubscription(ctx context.Context, userID int64, subscribed bool) error
}
