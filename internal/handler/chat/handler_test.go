package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/tradewise/backend/internal/middleware"
	"github.com/zhouzirui/tradewise/backend/internal/model/chat"
	aiservice "github.com/zhouzirui/tradewise/backend/internal/service/ai"
	chatservice "github.com/zhouzirui/tradewise/backend/internal/service/chat"
)

func setupRouter(t *testing.T) (*chi.Mux, *chatservice.Service) {
	t.Helper()
	chatSvc := chatservice.NewService()
	aiSvc, err := aiservice.NewService(context.Background(), nil, aiservice.Options{})
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}
	handler := New(chatSvc, aiSvc, nil, Options{})

	r := chi.NewRouter()
	r.Use(middleware.Device)
	handler.RegisterRoutes(r)
	return r, chatSvc
}

func send(r http.Handler, method, path, device string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.DeviceHeader, device)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func createSession(t *testing.T, r http.Handler, device string) SessionResponse {
	t.Helper()
	resp := send(r, http.MethodPost, "/chat/session", device, nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var created SessionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return created
}

func TestCreateSessionStartsWithWelcome(t *testing.T) {
	r, _ := setupRouter(t)
	created := createSession(t, r, "dev-1")

	if len(created.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(created.Messages))
	}
	if created.Messages[0].ID != chat.WelcomeID || created.Messages[0].IsUser {
		t.Fatalf("unexpected opening message %+v", created.Messages[0])
	}
}

func TestSendMessageAnswersByTopic(t *testing.T) {
	r, chatSvc := setupRouter(t)
	created := createSession(t, r, "dev-1")

	payload, _ := json.Marshal(map[string]string{"content": "What's my portfolio risk?"})
	resp := send(r, http.MethodPost, "/chat/"+created.Session.ID+"/messages", "dev-1", payload)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var exchange ExchangeResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &exchange); err != nil {
		t.Fatalf("decode exchange: %v", err)
	}
	want, topic := aiservice.KeywordReply("What's my portfolio risk?")
	if exchange.Reply.Content != want {
		t.Fatalf("expected %q, got %q", want, exchange.Reply.Content)
	}
	if exchange.Reply.Topic != string(topic) || exchange.UserMessage.Topic != "portfolio" {
		t.Fatalf("unexpected topics user=%q reply=%q", exchange.UserMessage.Topic, exchange.Reply.Topic)
	}

	transcript, err := chatSvc.LoadTranscript(context.Background(), created.Session.ID)
	if err != nil {
		t.Fatalf("LoadTranscript err: %v", err)
	}
	if len(transcript) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(transcript))
	}
}

func TestSendMessageRejectsBlank(t *testing.T) {
	r, _ := setupRouter(t)
	created := createSession(t, r, "dev-1")

	resp := send(r, http.MethodPost, "/chat/"+created.Session.ID+"/messages", "dev-1", []byte(`{"content":"   "}`))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSessionsArePrivateToDevice(t *testing.T) {
	r, _ := setupRouter(t)
	created := createSession(t, r, "dev-1")

	resp := send(r, http.MethodGet, "/chat/"+created.Session.ID+"/messages", "dev-2", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	resp = send(r, http.MethodGet, "/chat/"+created.Session.ID+"/messages", "dev-1", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}
