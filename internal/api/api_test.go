package api

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"fittrack/internal/model"
	"fittrack/internal/realtime"
	"fittrack/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	plainUserID  int64 = 1
	memberUserID int64 = 2
	adminUserID  int64 = 3
)

type testServer struct {
	router   *gin.Engine
	jwt      *auth.JWTAuth
	users    *mockUserService
	rewards  *mockRewardService
	catalog  *mockCatalogService
	feed     *mockFeedService
	payments *mockPaymentService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &testServer{
		jwt:      auth.NewJWTAuth("test-secret", time.Hour),
		users:    &mockUserService{},
		rewards:  &mockRewardService{},
		catalog:  &mockCatalogService{},
		feed:     &mockFeedService{},
		payments: &mockPaymentService{},
	}

	s.users.On("GetUser", mock.Anything, plainUserID).Return(&model.User{ID: plainUserID, Role: model.RoleUser}, nil).Maybe()
	s.users.On("GetUser", mock.Anything, memberUserID).Return(&model.User{ID: memberUserID, Role: model.RoleUser, IsMember: true}, nil).Maybe()
	s.users.On("GetUser", mock.Anything, adminUserID).Return(&model.User{ID: adminUserID, Role: model.RoleAdmin}, nil).Maybe()

	hub := realtime.NewHub()
	t.Cleanup(hub.Close)

	s.router = NewRouter(RouterDeps{
		Services: Services{
			Users:    s.users,
			Rewards:  s.rewards,
			Catalog:  s.catalog,
			Feed:     s.feed,
			Payments: s.payments,
		},
		JWT:      s.jwt,
		Telegram: auth.NewTelegramAuth("bot-token", true),
		Hub:      hub,
	})

	return s
}

func (s *testServer) token(t *testing.T, userID int64) string {
	t.Helper()
	role := model.RoleUser
	if userID == adminUserID {
		role = model.RoleAdmin
	}
	token, err := s.jwt.Issue(userID, role)
	require.NoError(t, err)
	return token
}

// do sends body as JSON. A zero userID sends no Authorization header.
func (s *testServer) do(t *testing.T, method, path string, body any, userID int64) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("Authorization", "Bearer "+s.token(t, userID))
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []any {
	t.Helper()
	var out []any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func strPtr(s string) *string { return &s }
