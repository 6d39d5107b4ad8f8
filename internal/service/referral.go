package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"referral_bot/internal/metrics"
	"referral_bot/internal/model"
	"referral_bot/internal/repository"
	"referral_bot/pkg/logger"

	"go.uber.org/zap"
)

type ReferralService struct {
	repo UserRepository
}

func NewReferralService(repo UserRepository) *ReferralService {
	return &ReferralService{
		repo: repo,
	}
}

// Attribute registers callerID on first contact and credits the referrer
// encoded in referralToken. Repeated contact never re-attributes. Malformed,
// self-referencing or unverifiable tokens degrade to an unreferred
// registration; only failures to read or create the caller are returned.
func (s *ReferralService) Attribute(ctx context.Context, callerID int64, displayName, referralToken string) (*model.AttributionResult, error) {
	log := logger.Logger().With(zap.Int64("telegram_id", callerID))

	existing, err := s.repo.FindUserByID(ctx, callerID)
	if err == nil {
		metrics.RecordAttribution("already_registered")
		return model.AlreadyRegistered(existing), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up caller: %w", err)
	}

	referrerID, ok := ParseReferralToken(referralToken, callerID)
	if !ok && referralToken != "" {
		log.Info("ignoring referral token", zap.String("token", referralToken))
	}

	user := &model.User{
		TelegramID:       callerID,
		Username:         displayName,
		RegistrationDate: time.Now().UTC(),
	}
	if ok {
		user.ReferrerID = &referrerID
	}

	err = s.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateIdentity) {
			return s.resolveDuplicate(ctx, callerID)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if user.ReferrerID == nil {
		metrics.RecordAttribution("new_unreferred")
		return model.NewlyRegistered(user, false), nil
	}

	credited := s.creditIfReferrerExists(ctx, *user.ReferrerID)
	if credited {
		metrics.RecordAttribution("new_credited")
	} else {
		metrics.RecordAttribution("new_uncredited")
	}

	log.Info("user registered",
		zap.Int64("referrer_id", *user.ReferrerID),
		zap.Bool("referrer_credited", credited))

	return model.NewlyRegistered(user, credited), nil
}

// resolveDuplicate handles a concurrent first contact that lost the insert race.
func (s *ReferralService) resolveDuplicate(ctx context.Context, callerID int64) (*model.AttributionResult, error) {
	existing, err := s.repo.FindUserByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read user after duplicate insert: %w", err)
	}
	metrics.RecordAttribution("already_registered")
	return model.AlreadyRegistered(existing), nil
}

func (s *ReferralService) creditIfReferrerExists(ctx context.Context, referrerID int64) bool {
	log := logger.Logger().With(zap.Int64("referrer_id", referrerID))

	_, err := s.repo.FindUserByID(ctx, referrerID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error("failed to look up referrer", zap.Error(err))
		}
		return false
	}

	credited, err := s.CreditReferral(ctx, referrerID)
	if err != nil {
		log.Error("failed to credit referrer", zap.Error(err))
		return false
	}
	return credited
}

// CreditReferral adds one referral to referrerID. A referrer that vanished
// since it was looked up yields (false, nil).
func (s *ReferralService) CreditReferral(ctx context.Context, referrerID int64) (bool, error) {
	err := s.repo.IncrementReferralCount(ctx, referrerID, 1)
	if err != nil {
		if errors.Is(err, repository.ErrUnknownIdentity) {
			metrics.RecordCredit("unknown_referrer")
			return false, nil
		}
		metrics.RecordCredit("error")
		return false, fmt.Errorf("failed to increment referral count: %w", err)
	}

	metrics.RecordCredit("credited")
	return true, nil
}

// ParseReferralToken extracts a referrer id from a /start argument. It
// reports false for empty, non-numeric, non-positive or self tokens.
func ParseReferralToken(token string, callerID int64) (int64, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false
	}

	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil || id <= 0 || id == callerID {
		return 0, false
	}

	return id, true
}
