package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/tradewise/backend/internal/analysis/intent"
	chatHandler "github.com/zhouzirui/tradewise/backend/internal/handler/chat"
	"github.com/zhouzirui/tradewise/backend/internal/middleware"
	"github.com/zhouzirui/tradewise/backend/internal/model/chat"
	"github.com/zhouzirui/tradewise/backend/internal/model/user"
	aiService "github.com/zhouzirui/tradewise/backend/internal/service/ai"
	chatService "github.com/zhouzirui/tradewise/backend/internal/service/chat"
	"github.com/zhouzirui/tradewise/backend/pkg/utils"
)

// Handler manages streaming assistant replies via Server-Sent Events
type Handler struct {
	aiService *aiService.Service
	chatSvc   *chatService.Service
	accounts  chatHandler.Accounts
	delay     time.Duration
}

// New creates a new stream handler
func New(aiSvc *aiService.Service, chatSvc *chatService.Service, accounts chatHandler.Accounts, delay time.Duration) *Handler {
	return &Handler{
		aiService: aiSvc,
		chatSvc:   chatSvc,
		accounts:  accounts,
		delay:     delay,
	}
}

// RegisterRoutes mounts GET /stream/{sessionID}?message=.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{sessionID}", h.handleStream)
}

// StreamResponse represents a streaming response chunk
type StreamResponse struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	MessageID string `json:"messageId,omitempty"`
	Topic     string `json:"topic,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	userMessage := strings.TrimSpace(r.URL.Query().Get("message"))
	if userMessage == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}

	ctx := r.Context()
	device := middleware.DeviceID(ctx)
	if _, err := h.chatSvc.GetDeviceSession(ctx, device, sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	if err := h.HandleStreamRequest(ctx, w, device, sessionID, userMessage); err != nil && !utils.IsCanceled(err) {
		slog.Error("stream failed", "session", sessionID, "error", err)
	}
}

// HandleStreamRequest saves the question, then streams the reply for a
// session the caller has already checked ownership of.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, deviceID, sessionID, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	// Load conversation history
	messages, err := h.chatSvc.LoadTranscript(ctx, sessionID)
	if err != nil {
		h.sendSSEError(w, flusher, fmt.Sprintf("failed to load conversation: %v", err))
		return err
	}

	topic := string(intent.Analyze(userMessage).Topic)

	// When the client already persisted the question via REST, avoid duplicating it.
	history := messages
	if hasMatchingUserMessage(messages, sessionID, userMessage) {
		history = messages[:len(messages)-1]
	} else if _, err := h.chatSvc.SaveMessage(ctx, chat.Message{
		SessionID: sessionID,
		Content:   userMessage,
		IsUser:    true,
		Topic:     topic,
	}); err != nil {
		h.sendSSEError(w, flusher, fmt.Sprintf("failed to save message: %v", err))
		return err
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "start",
		SessionID: sessionID,
		Topic:     topic,
	})

	if err := utils.Sleep(ctx, h.delay); err != nil {
		return err
	}

	u := chatHandler.CurrentUser(ctx, h.accounts, deviceID)
	response, err := h.dispatchAIResponse(ctx, w, flusher, sessionID, u, history, userMessage)
	if err != nil {
		h.sendSSEError(w, flusher, fmt.Sprintf("AI generation failed: %v", err))
		return err
	}

	reply, err := h.chatSvc.SaveMessage(ctx, chat.Message{
		SessionID: sessionID,
		Content:   response.Content,
		Topic:     topic,
	})
	if err != nil {
		slog.Warn("failed to save assistant message", "session", sessionID, "error", err)
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "end",
		SessionID: sessionID,
		MessageID: reply.ID,
		Finished:  true,
	})

	slog.Debug("stream completed", "session", sessionID, "topic", topic)
	return nil
}

func (h *Handler) dispatchAIResponse(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sessionID string, u *user.User, messages []chat.Message, userMessage string) (*schema.Message, error) {
	if h.aiService.StreamingEnabled() {
		return h.streamAIResponse(ctx, w, flusher, sessionID, u, messages, userMessage)
	}

	response, err := h.aiService.GenerateResponse(ctx, sessionID, u, messages, userMessage)
	if err != nil {
		return nil, err
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   response.Content,
	})

	return response, nil
}

func (h *Handler) streamAIResponse(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sessionID string, u *user.User, messages []chat.Message, userMessage string) (*schema.Message, error) {
	stream, err := h.aiService.StreamResponse(ctx, u, messages, userMessage)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 8)

	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return nil, recvErr
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			h.sendSSE(w, flusher, StreamResponse{
				Event:     "delta",
				SessionID: sessionID,
				Content:   chunk.Content,
			})
		}
	}

	response, err := schema.ConcatMessages(chunks)
	if err != nil {
		return nil, err
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   response.Content,
	})

	return response, nil
}

func hasMatchingUserMessage(messages []chat.Message, sessionID, content string) bool {
	if len(messages) == 0 {
		return false
	}

	last := messages[len(messages)-1]
	return last.SessionID == sessionID && last.IsUser && last.Content == content
}

func (h *Handler) sendSSE(w http.ResponseWriter, flusher http.Flusher, response StreamResponse) {
	utils.SendSSEChunk(w, flusher, response)
}

func (h *Handler) sendSSEError(w http.ResponseWriter, flusher http.Flusher, errorMsg string) {
	h.sendSSE(w, flusher, StreamResponse{
		Event: "error",
		Error: errorMsg,
	})
}
