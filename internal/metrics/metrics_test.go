package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(attributions.WithLabelValues("new_credited"))
	RecordAttribution("new_credited")
	assert.Equal(t, before+1, testutil.ToFloat64(attributions.WithLabelValues("new_credited")))

	before = testutil.ToFloat64(credits.WithLabelValues("credited"))
	RecordCredit("credited")
	assert.Equal(t, before+1, testutil.ToFloat64(credits.WithLabelValues("credited")))
}

func TestHandler(t *testing.T) {
	RecordBotUpdate("start")
	RecordSubscriptionCheck("error")

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `referral_bot_bot_updates_total{route="start"}`)
	assert.Contains(t, w.Body.String(), `referral_bot_subscription_checks_total{result="error"}`)
}
