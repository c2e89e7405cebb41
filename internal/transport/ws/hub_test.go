package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuryanshuBanerjee/tempmitra/internal/model"
	"github.com/SuryanshuBanerjee/tempmitra/internal/service"
)

func newTestServer(t *testing.T) (*Hub, *service.AuthService, *httptest.Server) {
	return newTestServerWithOrigins(t, "*")
}

func newTestServerWithOrigins(t *testing.T, origins string) (*Hub, *service.AuthService, *httptest.Server) {
	t.Helper()
	hub := NewHub()
	auth := service.NewAuthService("ws-secret")
	srv := httptest.NewServer(http.HandlerFunc(NewHandler(hub, auth, origins).CounselorWS))
	t.Cleanup(func() {
		srv.Close()
		hub.Close()
	})
	return hub, auth, srv
}

func wsURL(srv *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=" + token
}

func TestCounselorReceivesCrisisAlert(t *testing.T) {
	hub, auth, srv := newTestServer(t)

	token, err := auth.IssueToken("c1", model.RoleCounselor, time.Hour)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ConnectionCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.BroadcastToCounselors(service.EventCrisisAlert, &model.CrisisAlert{SessionID: "s1", Keywords: []string{"die"}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MsgCrisisAlert, msg.Type)

	var alert model.CrisisAlert
	require.NoError(t, json.Unmarshal(msg.Payload, &alert))
	assert.Equal(t, "s1", alert.SessionID)
	assert.Equal(t, []string{"die"}, alert.Keywords)
}

func TestCounselorWSRejectsStudents(t *testing.T) {
	_, auth, srv := newTestServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := auth.IssueToken("u1", model.RoleStudent, time.Hour)
	require.NoError(t, err)
	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHubDropsClosedConnections(t *testing.T) {
	hub, auth, srv := newTestServer(t)

	token, err := auth.IssueToken("a1", model.RoleAdmin, time.Hour)
	require.NoError(t, err)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.ConnectionCount() == 1 }, time.Second, 10*time.Millisecond)
	conn.Close()
	require.Eventually(t, func() bool { return hub.ConnectionCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestCounselorWSChecksOrigin(t *testing.T) {
	hub, auth, srv := newTestServerWithOrigins(t, "https://counsel.example.edu, https://admin.example.edu")

	token, err := auth.IssueToken("c1", model.RoleCounselor, time.Hour)
	require.NoError(t, err)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, token), http.Header{"Origin": {"https://evil.example.com"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), http.Header{"Origin": {"https://admin.example.edu"}})
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ConnectionCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		allowed string
		origin  string
		want    bool
	}{
		{"*", "https://anything.example", true},
		{"", "https://anything.example", true},
		{"https://a.example", "https://a.example", true},
		{"https://a.example/", "https://a.example", true},
		{"https://a.example", "https://b.example", false},
		{"https://a.example", "", true},
		{"https://a.example,https://b.example", "https://b.example", true},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		assert.Equal(t, tt.want, originChecker(tt.allowed)(r), "%q vs %q", tt.allowed, tt.origin)
	}
}
