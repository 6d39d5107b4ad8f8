package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"referral_bot/internal/middleware"
	"referral_bot/internal/model"
	"referral_bot/internal/service"
	"referral_bot/internal/service/mocks"
	"referral_bot/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const adminID = int64(10)

type apiFixture struct {
	router       *gin.Engine
	leaderboard  *mocks.MockLeaderboardService
	subscription *mocks.MockSubscriptionChecker
}

func newAPIFixture() *apiFixture {
	gin.SetMode(gin.TestMode)

	f := &apiFixture{
		router:       gin.New(),
		leaderboard:  &mocks.MockLeaderboardService{},
		subscription: &mocks.MockSubscriptionChecker{},
	}

	NewReferralRoutes(
		f.router.Group("/api/v1"),
		f.leaderboard,
		f.subscription,
		service.NewLinkBuilder(service.BotBaseURL("ref_bot"), "@news"),
		auth.NewTelegramAuth("token", true),
		middleware.NewAuthorization(service.NewAuthorizer([]int64{adminID})),
	)
	return f
}

func (f *apiFixture) get(path string, telegramID int64) *httptest.ResponseRecorder {
	values := url.Values{}
	values.Set("auth_date", "1700000000")
	user, _ := json.Marshal(map[string]interface{}{"id": telegramID, "username": "alice"})
	values.Set("user", string(user))

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Telegram "+values.Encode())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestReferralRoutes_NonAdminForbidden(t *testing.T) {
	paths := []string{
		"/api/v1/referrals/link",
		"/api/v1/referrals/leaderboard",
		"/api/v1/referrals/subscription/42",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			f := newAPIFixture()

			w := f.get(path, 300)

			assert.Equal(t, http.StatusForbidden, w.Code)
			f.leaderboard.AssertNotCalled(t, "BuildLeaderboard", mock.Anything)
			f.subscription.AssertNotCalled(t, "IsSubscribed", mock.Anything, mock.Anything)
		})
	}
}

func TestReferralRoutes_Unauthenticated(t *testing.T) {
	f := newAPIFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/referrals/link", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReferralRoutes_GetReferralLink(t *testing.T) {
	f := newAPIFixture()

	w := f.get("/api/v1/referrals/link", adminID)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ReferralLinkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://t.me/ref_bot?start=10", resp.ReferralLink)
	assert.Equal(t, "https://t.me/news", resp.ChannelLink)
}

func TestReferralRoutes_GetLeaderboard(t *testing.T) {
	tests := []struct {
		name           string
		mockSetup      func(m *mocks.MockLeaderboardService)
		expectedStatus int
		expectedResp   *LeaderboardResponse
	}{
		{
			name: "entries",
			mockSetup: func(m *mocks.MockLeaderboardService) {
				m.On("BuildLeaderboard", mock.Anything).Return([]model.LeaderboardEntry{
					{Rank: 1, DisplayName: "alice", ReferralCount: 4},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedResp: &LeaderboardResponse{
				Entries: []LeaderboardEntryResponse{{Rank: 1, DisplayName: "alice", ReferralCount: 4}},
			},
		},
		{
			name: "empty",
			mockSetup: func(m *mocks.MockLeaderboardService) {
				m.On("BuildLeaderboard", mock.Anything).Return([]model.LeaderboardEntry{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedResp: &LeaderboardResponse{
				Entries: []LeaderboardEntryResponse{},
				Empty:   true,
			},
		},
		{
			name: "store failure",
			mockSetup: func(m *mocks.MockLeaderboardService) {
				m.On("BuildLeaderboard", mock.Anything).Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture()
			tt.mockSetup(f.leaderboard)

			w := f.get("/api/v1/referrals/leaderboard", adminID)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NotContains(t, w.Body.String(), "db down")
			if tt.expectedResp != nil {
				var resp LeaderboardResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, *tt.expectedResp, resp)
			}
		})
	}
}

func TestReferralRoutes_GetSubscription(t *testing.T) {
	t.Run("subscribed", func(t *testing.T) {
		f := newAPIFixture()
		f.subscription.On("IsSubscribed", mock.Anything, int64(42)).Return(true)

		w := f.get("/api/v1/referrals/subscription/42", adminID)

		require.Equal(t, http.StatusOK, w.Code)
		var resp SubscriptionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, SubscriptionResponse{TelegramID: 42, Subscribed: true}, resp)
	})

	t.Run("invalid id", func(t *testing.T) {
		f := newAPIFixture()

		w := f.get("/api/v1/referrals/subscription/abc", adminID)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.subscription.AssertNotCalled(t, "IsSubscribed", mock.Anything, mock.Anything)
	})
}
