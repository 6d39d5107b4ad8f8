package service

import (
	"context"
	"fmt"

	"referral_bot/internal/model"
)

const UnknownDisplayName = "Unknown"

type LeaderboardService struct {
	repo UserRepository
}

func NewLeaderboardService(repo UserRepository) *LeaderboardService {
	return &LeaderboardService{
		repo: repo,
	}
}

func (s *LeaderboardService) BuildLeaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	users, err := s.repo.ListUsersByReferrals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	entries := make([]model.LeaderboardEntry, len(users))
	for i, user := range users {
		name := user.Username
		if name == "" {
			name = UnknownDisplayName
		}

		entries[i] = model.LeaderboardEntry{
			Rank:          i + 1,
			DisplayName:   name,
			ReferralCount: user.Referrals,
		}
	}

	return entries, nil
}
