package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/tradewise/backend/internal/middleware"
	notificationModel "github.com/zhouzirui/tradewise/backend/internal/model/notification"
	notificationService "github.com/zhouzirui/tradewise/backend/internal/service/notification"
)

func setupRouter() (http.Handler, *notificationService.Service) {
	svc := notificationService.NewService()
	r := chi.NewRouter()
	r.Use(middleware.Device)
	New(svc, []string{"http://localhost:5173"}).RegisterRoutes(r)
	return r, svc
}

func request(r http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(middleware.DeviceHeader, "dev-1")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestListAndMarkRead(t *testing.T) {
	r, _ := setupRouter()

	resp := request(r, http.MethodGet, "/notifications?tab=alert")
	require.Equal(t, http.StatusOK, resp.Code)
	var list ListResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Len(t, list.Notifications, 2)
	assert.Equal(t, 2, list.UnreadCount)

	resp = request(r, http.MethodPost, "/notifications/read")
	require.Equal(t, http.StatusOK, resp.Code)
	var marked map[string]int
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &marked))
	assert.Equal(t, 2, marked["marked"])

	resp = request(r, http.MethodGet, "/notifications")
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Len(t, list.Notifications, 4)
	assert.Zero(t, list.UnreadCount)
}

func TestListRejectsUnknownTab(t *testing.T) {
	r, _ := setupRouter()
	assert.Equal(t, http.StatusBadRequest, request(r, http.MethodGet, "/notifications?tab=sports").Code)
}

func TestWebSocketDeliversPushes(t *testing.T) {
	r, svc := setupRouter()
	srv := httptest.NewServer(r)
	defer srv.Close()

	header := http.Header{}
	header.Set(middleware.DeviceHeader, "dev-ws")
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notifications"
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var snapshot Frame
	require.NoError(t, conn.ReadJSON(&snapshot))
	assert.Equal(t, "snapshot", snapshot.Type)
	assert.Equal(t, 2, snapshot.UnreadCount)

	// the subscription is live once the snapshot arrives
	svc.Push(context.Background(), "dev-ws", notificationModel.Notice{Title: "Order Successful", Description: "done"})

	var pushed Frame
	require.NoError(t, conn.ReadJSON(&pushed))
	assert.Equal(t, "notification", pushed.Type)
	require.NotNil(t, pushed.Notification)
	assert.Equal(t, "Order Successful", pushed.Notification.Title)
	assert.Equal(t, notificationModel.TypeSystem, pushed.Notification.Type)
	assert.Equal(t, 3, pushed.UnreadCount)
}

func TestWebSocketChecksOrigin(t *testing.T) {
	r, _ := setupRouter()
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notifications"

	header := http.Header{}
	header.Set(middleware.DeviceHeader, "dev-ws")
	header.Set("Origin", "http://evil.example")
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	header.Set("Origin", "http://localhost:5173")
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var snapshot Frame
	require.NoError(t, conn.ReadJSON(&snapshot))
	assert.Equal(t, "snapshot", snapshot.Type)
}
