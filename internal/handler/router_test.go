package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/tradewise/backend/internal/middleware"
	marketModel "github.com/zhouzirui/tradewise/backend/internal/model/market"
	aiService "github.com/zhouzirui/tradewise/backend/internal/service/ai"
	authService "github.com/zhouzirui/tradewise/backend/internal/service/auth"
	chatService "github.com/zhouzirui/tradewise/backend/internal/service/chat"
	historyService "github.com/zhouzirui/tradewise/backend/internal/service/history"
	marketService "github.com/zhouzirui/tradewise/backend/internal/service/market"
	notificationService "github.com/zhouzirui/tradewise/backend/internal/service/notification"
	tradingService "github.com/zhouzirui/tradewise/backend/internal/service/trading"
	"github.com/zhouzirui/tradewise/backend/internal/storage"
)

func newServices(t *testing.T, withAI bool) Services {
	t.Helper()
	notifications := notificationService.NewService()
	registry := authService.NewRegistry(storage.NewMemorySlots(), notifications.NotifierFor, authService.Options{})
	store := marketModel.NewMemoryStore()
	ledger := historyService.NewService()

	svc := Services{
		Auth:          registry,
		Market:        marketService.NewService(store, marketService.Options{}),
		Trading:       tradingService.NewService(store, ledger, registry, notifications.NotifierFor, tradingService.Options{}),
		History:       ledger,
		Notifications: notifications,
		Chat:          chatService.NewService(),
	}
	if withAI {
		ai, err := aiService.NewService(context.Background(), nil, aiService.Options{})
		require.NoError(t, err)
		svc.AI = ai
	}
	return svc
}

func TestHealthz(t *testing.T) {
	r := NewRouter(newServices(t, true), Options{AllowedOrigins: []string{"*"}})

	for _, path := range []string{"/healthz", "/api/healthz"} {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, resp.Code, path)
	}
}

func TestAPIMintsDeviceCookie(t *testing.T) {
	r := NewRouter(newServices(t, true), Options{})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/market/insights", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var found bool
	for _, c := range resp.Result().Cookies() {
		if c.Name == middleware.DeviceCookie && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "expected a device cookie")
}

func TestChatUnavailableWithoutAssistant(t *testing.T) {
	r := NewRouter(newServices(t, false), Options{})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/chat/session", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestCORSPreflight(t *testing.T) {
	r := NewRouter(newServices(t, true), Options{AllowedOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/trading/orders", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "http://localhost:5173", resp.Header().Get("Access-Control-Allow-Origin"))
}
