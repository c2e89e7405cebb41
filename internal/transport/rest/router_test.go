package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuryanshuBanerjee/tempmitra/internal/cache"
	"github.com/SuryanshuBanerjee/tempmitra/internal/metrics"
	"github.com/SuryanshuBanerjee/tempmitra/internal/model"
	"github.com/SuryanshuBanerjee/tempmitra/internal/repository/memory"
	"github.com/SuryanshuBanerjee/tempmitra/internal/service"
	"github.com/SuryanshuBanerjee/tempmitra/internal/transport/ws"
	"github.com/SuryanshuBanerjee/tempmitra/internal/triage"
)

type testAPI struct {
	handler http.Handler
	auth    *service.AuthService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	classifier := triage.NewClassifier(triage.DefaultLexicon())
	sessions := memory.NewSessionRepo()
	messages := memory.NewMessageRepo()
	screenings := memory.NewScreeningRepo()
	analytics := cache.NewAnalyticsCache(client)

	auth := service.NewAuthService("router-secret")
	hub := ws.NewHub()
	t.Cleanup(hub.Close)

	chat := service.NewChatService(sessions, messages,
		cache.NewSessionCache(client, time.Minute),
		cache.NewSessionLocker(client, time.Second, 0),
		analytics, classifier, m)
	chat.SetBroadcaster(hub)

	return &testAPI{
		auth: auth,
		handler: NewRouter(&Container{
			AuthService:      auth,
			ChatService:      chat,
			ScreeningService: service.NewScreeningService(screenings, m),
			AnalyticsService: service.NewAnalyticsService(sessions, messages, screenings, analytics, classifier),
			Classifier:       classifier,
			WSHub:            hub,
			Gatherer:         reg,
			AllowedOrigins:   "https://mitra.example",
		}),
	}
}

func (a *testAPI) token(t *testing.T, userID string, role model.Role) string {
	t.Helper()
	tok, err := a.auth.IssueToken(userID, role, time.Hour)
	require.NoError(t, err)
	return tok
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthAndCORS(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "https://mitra.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = api.do(t, "OPTIONS", "/v1/chat/messages", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReferenceEndpointsArePublic(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, "GET", "/v1/reference/lexicon", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	lexicon := decode[map[string][]string](t, rec)
	assert.Contains(t, lexicon["crisis"], "suicide")

	rec = api.do(t, "GET", "/v1/reference/cutoffs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cutoffs := decode[map[string]triage.CutoffTable](t, rec)
	assert.Equal(t, triage.TierSevere, cutoffs["phq9"].Above)

	rec = api.do(t, "GET", "/v1/reference/hotlines", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), triage.SuicidePreventionHelpline)
}

func TestChatFlow(t *testing.T) {
	api := newTestAPI(t)
	student := api.token(t, "u1", model.RoleStudent)

	rec := api.do(t, "POST", "/v1/chat/messages", "", map[string]string{"message": "hi"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, "POST", "/v1/chat/messages", api.token(t, "c1", model.RoleCounselor), map[string]string{"message": "hi"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, "POST", "/v1/chat/messages", student, map[string]string{"message": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, "POST", "/v1/chat/messages", student, map[string]string{"message": "I feel hopeless"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[model.SendMessageResponse](t, rec)
	assert.Equal(t, triage.KindCrisis, first.Type)
	assert.Equal(t, triage.SessionEscalated, first.Status)
	assert.True(t, first.CrisisDetected)

	rec = api.do(t, "GET", "/v1/chat/sessions/"+first.SessionID, student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	timeline := decode[model.SessionTimeline](t, rec)
	assert.Len(t, timeline.Messages, 2)

	rec = api.do(t, "GET", "/v1/chat/sessions/"+first.SessionID, api.token(t, "u2", model.RoleStudent), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, "GET", "/v1/chat/sessions/"+first.SessionID, api.token(t, "c1", model.RoleCounselor), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, "GET", "/v1/chat/sessions/missing", student, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	for i := 0; i < 2; i++ {
		rec = api.do(t, "POST", "/v1/chat/sessions/"+first.SessionID+"/end", student, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		ended := decode[model.ChatSession](t, rec)
		assert.Equal(t, triage.SessionEnded, ended.Status)
	}

	rec = api.do(t, "POST", "/v1/chat/messages", student, map[string]string{"sessionId": first.SessionID, "message": "hello?"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestScreeningFlow(t *testing.T) {
	api := newTestAPI(t)
	student := api.token(t, "u1", model.RoleStudent)

	rec := api.do(t, "POST", "/v1/screenings/bdi", student, map[string]interface{}{"responses": map[string]int{"q1": 1}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, "POST", "/v1/screenings/gad7", student, map[string]interface{}{"responses": map[string]int{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, "POST", "/v1/screenings/gad7", student, map[string]interface{}{
		"responses": map[string]int{"q1": 3, "q2": 3, "q3": 2, "q4": 2},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[model.ScreeningResponse](t, rec)
	assert.Equal(t, 10, resp.TotalScore)
	assert.Equal(t, triage.TierModerate, resp.RiskTier)
	assert.Len(t, resp.Recommendations, 3)

	rec = api.do(t, "GET", "/v1/screenings/history", student, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.ScreeningResponse](t, rec), 1)

	rec = api.do(t, "GET", "/v1/users/u1/risk-profile", student, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, "GET", "/v1/users/u1/risk-profile", api.token(t, "c1", model.RoleCounselor), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[model.UserRiskProfile](t, rec)
	assert.Equal(t, 10, profile.GAD7Score)
	assert.Equal(t, triage.TierModerate, profile.RiskLevel)
}

func TestAdminAnalytics(t *testing.T) {
	api := newTestAPI(t)
	student := api.token(t, "u1", model.RoleStudent)
	admin := api.token(t, "a1", model.RoleAdmin)

	rec := api.do(t, "POST", "/v1/chat/messages", student, map[string]string{"message": "deadlines everywhere"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, "GET", "/v1/admin/analytics", api.token(t, "c1", model.RoleCounselor), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, "GET", "/v1/admin/analytics", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	overview := decode[model.AnalyticsOverview](t, rec)
	assert.Equal(t, int64(1), overview.TotalSessions)
	assert.Equal(t, int64(1), overview.TopicCounts["stress"])

	rec = api.do(t, "POST", "/v1/admin/analytics/recompute", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	recount := decode[model.TopicRecount](t, rec)
	assert.Equal(t, 1, recount.MessagesScanned)

	rec = api.do(t, "GET", "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mitra_triage_messages_classified_total")
}

func TestAuthMe(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, "GET", "/v1/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, "GET", "/v1/auth/me", api.token(t, "c9", model.RoleCounselor), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":"c9","role":"counselor"}`, rec.Body.String())
}
