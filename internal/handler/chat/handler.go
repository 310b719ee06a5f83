package chat

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/tradewise/backend/internal/analysis/intent"
	"github.com/zhouzirui/tradewise/backend/internal/middleware"
	"github.com/zhouzirui/tradewise/backend/internal/model/chat"
	"github.com/zhouzirui/tradewise/backend/internal/model/user"
	aiService "github.com/zhouzirui/tradewise/backend/internal/service/ai"
	authService "github.com/zhouzirui/tradewise/backend/internal/service/auth"
	chatService "github.com/zhouzirui/tradewise/backend/internal/service/chat"
	"github.com/zhouzirui/tradewise/backend/pkg/utils"
)

// Accounts resolves the signed-in user of a device.
type Accounts interface {
	Facade(ctx context.Context, deviceID string) (*authService.Facade, error)
}

// Options tune the handler.
type Options struct {
	ReplyDelay time.Duration
}

// Handler answers chat widget requests.
type Handler struct {
	chatSvc  *chatService.Service
	aiSvc    *aiService.Service
	accounts Accounts
	delay    time.Duration
}

// New creates the chat handler. accounts may be nil, in which case every
// visitor is answered anonymously.
func New(chatSvc *chatService.Service, aiSvc *aiService.Service, accounts Accounts, opts Options) *Handler {
	return &Handler{
		chatSvc:  chatSvc,
		aiSvc:    aiSvc,
		accounts: accounts,
		delay:    opts.ReplyDelay,
	}
}

// RegisterRoutes mounts the /chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/chat", func(r chi.Router) {
		r.Post("/session", h.handleCreateSession)
		r.Get("/{sessionID}/messages", h.handleTranscript)
		r.Post("/{sessionID}/messages", h.handleSendMessage)
	})
}

// SessionResponse is a fresh session and its opening transcript.
type SessionResponse struct {
	Session  chat.Session   `json:"session"`
	Messages []chat.Message `json:"messages"`
}

// ExchangeResponse is one question and the assistant's answer.
type ExchangeResponse struct {
	UserMessage chat.Message `json:"userMessage"`
	Reply       chat.Message `json:"reply"`
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, err := h.chatSvc.CreateSession(ctx, middleware.DeviceID(ctx))
	if err != nil {
		respondChatError(w, err)
		return
	}

	messages, err := h.chatSvc.LoadTranscript(ctx, session.ID)
	if err != nil {
		respondChatError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, SessionResponse{Session: session, Messages: messages})
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, err := h.chatSvc.GetDeviceSession(ctx, middleware.DeviceID(ctx), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondChatError(w, err)
		return
	}

	messages, err := h.chatSvc.LoadTranscript(ctx, session.ID)
	if err != nil {
		respondChatError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Content string `json:"content"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	content := strings.TrimSpace(payload.Content)

	ctx := r.Context()
	device := middleware.DeviceID(ctx)
	session, err := h.chatSvc.GetDeviceSession(ctx, device, chi.URLParam(r, "sessionID"))
	if err != nil {
		respondChatError(w, err)
		return
	}

	history, err := h.chatSvc.LoadTranscript(ctx, session.ID)
	if err != nil {
		respondChatError(w, err)
		return
	}

	question, err := h.chatSvc.SaveMessage(ctx, chat.Message{
		SessionID: session.ID,
		Content:   content,
		IsUser:    true,
		Topic:     string(intent.Analyze(content).Topic),
	})
	if err != nil {
		respondChatError(w, err)
		return
	}

	if err := utils.Sleep(ctx, h.delay); err != nil {
		respondChatError(w, err)
		return
	}

	response, err := h.aiSvc.GenerateResponse(ctx, session.ID, CurrentUser(ctx, h.accounts, device), history, content)
	if err != nil {
		respondChatError(w, err)
		return
	}

	reply, err := h.chatSvc.SaveMessage(ctx, chat.Message{
		SessionID: session.ID,
		Content:   response.Content,
		Topic:     question.Topic,
	})
	if err != nil {
		respondChatError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, ExchangeResponse{UserMessage: question, Reply: reply})
}

// CurrentUser returns the device's signed-in user, or nil.
func CurrentUser(ctx context.Context, accounts Accounts, deviceID string) *user.User {
	if accounts == nil {
		return nil
	}
	f, err := accounts.Facade(ctx, deviceID)
	if err != nil {
		return nil
	}
	u, ok := f.Current()
	if !ok {
		return nil
	}
	return &u
}

func respondChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, chatService.ErrEmptyMessage), errors.Is(err, chatService.ErrDeviceRequired):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case utils.IsCanceled(err):
		utils.RespondError(w, utils.StatusClientClosedRequest, "request cancelled")
	default:
		slog.Error("chat request failed", "error", err)
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}
