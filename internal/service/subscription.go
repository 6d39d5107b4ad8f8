package service

import (
	"context"
	"time"

	"referral_bot/internal/metrics"
	"referral_bot/pkg/logger"

	"go.uber.org/zap"
)

const DefaultSubscriptionTimeout = 5 * time.Second

var subscribedStatuses = map[string]struct{}{
	"member":        {},
	"administrator": {},
	"creator":       {},
}

// SubscriptionGate is fail-closed: any fault in the membership lookup
// counts as "not subscribed" and is never propagated.
type SubscriptionGate struct {
	checker MembershipChecker
	cache   MembershipCache
	channel string
	timeout time.Duration
}

// NewSubscriptionGate builds a gate for channel. cache may be nil.
func NewSubscriptionGate(checker MembershipChecker, cache MembershipCache, channel string, timeout time.Duration) *SubscriptionGate {
	if timeout <= 0 {
		timeout = DefaultSubscriptionTimeout
	}
	return &SubscriptionGate{
		checker: checker,
		cache:   cache,
		channel: channel,
		timeout: timeout,
	}
}

func (g *SubscriptionGate) IsSubscribed(ctx context.Context, userID int64) bool {
	log := logger.Logger().With(zap.Int64("telegram_id", userID))

	if g.cache != nil {
		subscribed, found, err := g.cache.GetSubscription(ctx, userID)
		if err != nil {
			log.Warn("subscription cache read failed", zap.Error(err))
		} else if found {
			metrics.RecordSubscriptionCheck("cached")
			return subscribed
		}
	}

	checkCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	status, err := g.checker.ChatMemberStatus(checkCtx, g.channel, userID)
	if err != nil {
		log.Warn("membership check failed", zap.Error(err))
		metrics.RecordSubscriptionCheck("error")
		return false
	}

	_, subscribed := subscribedStatuses[status]
	if subscribed {
		metrics.RecordSubscriptionCheck("subscribed")
	} else {
		metrics.RecordSubscriptionCheck("not_subscribed")
	}

	// Only positive verdicts are cached so a user who just joined is seen immediately.
	if subscribed && g.cache != nil {
		if err := g.cache.SetSubscription(ctx, userID, subscribed); err != nil {
			log.Warn("subscription cache write failed", zap.Error(err))
		}
	}

	return subscribed
}
