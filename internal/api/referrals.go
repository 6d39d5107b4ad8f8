package api

import (
	"net/http"
	"strconv"

	"referral_bot/internal/middleware"
	"referral_bot/internal/model"
	"referral_bot/internal/service"
	"referral_bot/pkg/auth"
	"referral_bot/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type referralRoutes struct {
	leaderboard  service.LeaderboardServiceI
	subscription service.SubscriptionChecker
	links        *service.LinkBuilder
}

func NewReferralRoutes(
	handler *gin.RouterGroup,
	leaderboard service.LeaderboardServiceI,
	subscription service.SubscriptionChecker,
	links *service.LinkBuilder,
	a *auth.TelegramAuth,
	authz *middleware.Authorization,
) {
	r := &referralRoutes{
		leaderboard:  leaderboard,
		subscription: subscription,
		links:        links,
	}

	h := handler.Group("/referrals")
	h.Use(a.TelegramAuthMiddleware(), authz.AdminOnly())
	{
		h.GET("/link", r.GetReferralLink)
		h.GET("/leaderboard", r.GetLeaderboard)
		h.GET("/subscription/:telegram_id", r.GetSubscription)
	}
}

type ReferralLinkResponse struct {
	ReferralLink string `json:"referral_link"`
	ChannelLink  string `json:"channel_link"`
}

type LeaderboardEntryResponse struct {
	Rank          int    `json:"rank"`
	DisplayName   string `json:"display_name"`
	ReferralCount int    `json:"referral_count"`
}

type LeaderboardResponse struct {
	Entries []LeaderboardEntryResponse `json:"entries"`
	Empty   bool                       `json:"empty"`
}

type SubscriptionResponse struct {
	TelegramID int64 `json:"telegram_id"`
	Subscribed bool  `json:"subscribed"`
}

func (r *referralRoutes) GetReferralLink(c *gin.Context) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		logger.Logger().Error("telegram user data not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ReferralLinkResponse{
		ReferralLink: r.links.ReferralLink(user.ID),
		ChannelLink:  r.links.ChannelLink(),
	})
}

func (r *referralRoutes) GetLeaderboard(c *gin.Context) {
	entries, err := r.leaderboard.BuildLeaderboard(c.Request.Context())
	if err != nil {
		logger.Logger().Error("failed to build leaderboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, toLeaderboardResponse(entries))
}

func (r *referralRoutes) GetSubscription(c *gin.Context) {
	telegramID, err := strconv.ParseInt(c.Param("telegram_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid telegram id"})
		return
	}

	c.JSON(http.StatusOK, SubscriptionResponse{
		TelegramID: telegramID,
		Subscribed: r.subscription.IsSubscribed(c.Request.Context(), telegramID),
	})
}

func toLeaderboardResponse(entries []model.LeaderboardEntry) LeaderboardResponse {
	resp := LeaderboardResponse{
		Entries: make([]LeaderboardEntryResponse, len(entries)),
		Empty:   len(entries) == 0,
	}
	for i, e := range entries {
		resp.Entries[i] = LeaderboardEntryResponse{
			Rank:          e.Rank,
			DisplayName:   e.DisplayName,
			ReferralCount: e.ReferralCount,
		}
	}
	return resp
}
