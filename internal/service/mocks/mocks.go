package mocks

import (
	"context"

	"referral_bot/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, telegramID int64) (*model.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) IncrementReferralCount(ctx context.Context, telegramID int64, delta int) error {
	args := m.Called(ctx, telegramID, delta)
	return args.Error(0)
}

func (m *MockUserRepository) ListUsersByReferrals(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

type MockMembershipChecker struct {
	mock.Mock
}

func (m *MockMembershipChecker) ChatMemberStatus(ctx context.Context, channel string, userID int64) (string, error) {
	args := m.Called(ctx, channel, userID)
	return args.String(0), args.Error(1)
}

type MockMembershipCache struct {
	mock.Mock
}

func (m *MockMembershipCache) GetSubscription(ctx context.Context, userID int64) (bool, bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Bool(1), args.Error(2)
}

func (m *MockMembershipCache) SetSubscription(ctx context.Context, userID int64, subscribed bool) error {
	args := m.Called(ctx, userID, subscribed)
	return args.Error(0)
}

type MockReferralService struct {
	mock.Mock
}

func (m *MockReferralService) Attribute(ctx context.Context, callerID int64, displayName, referralToken string) (*model.AttributionResult, error) {
	args := m.Called(ctx, callerID, displayName, referralToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AttributionResult), args.Error(1)
}

func (m *MockReferralService) CreditReferral(ctx context.Context, referrerID int64) (bool, error) {
	args := m.Called(ctx, referrerID)
	return args.Bool(0), args.Error(1)
}

type MockLeaderboardService struct {
	mock.Mock
}

func (m *MockLeaderboardService) BuildLeaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LeaderboardEntry), args.Error(1)
}

type MockSubscriptionChecker struct {
	mock.Mock
}

func (m *MockSubscriptionChecker) IsSubscribed(ctx context.Context, userID int64) bool {
	args := m.Called(ctx, userID)
	return args.Bool(0)
}
