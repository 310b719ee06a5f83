package chat_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	chatModel "github.com/zhouzirui/tradewise/backend/internal/model/chat"
	chat "github.com/zhouzirui/tradewise/backend/internal/service/chat"
)

func TestServiceGetSession(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "device-1")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	got, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession err: %v", err)
	}

	if got.ID != session.ID {
		t.Fatalf("unexpected session ID: got %s want %s", got.ID, session.ID)
	}
	if got.DeviceID != "device-1" {
		t.Fatalf("unexpected device ID: got %s", got.DeviceID)
	}
}

func TestServiceGetSessionNotFound(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	if _, err := svc.GetSession(ctx, "missing"); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestServiceCreateSessionRequiresDevice(t *testing.T) {
	if _, err := chat.NewService().CreateSession(context.Background(), ""); !errors.Is(err, chat.ErrDeviceRequired) {
		t.Fatalf("expected ErrDeviceRequired, got %v", err)
	}
}

func TestServiceTranscriptStartsWithWelcome(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx, "device-1")
	transcript, err := svc.LoadTranscript(ctx, session.ID)
	if err != nil {
		t.Fatalf("LoadTranscript err: %v", err)
	}
	if len(transcript) != 1 {
		t.Fatalf("expected 1 message, got %d", len(transcript))
	}
	if transcript[0].ID != chatModel.WelcomeID || transcript[0].IsUser {
		t.Fatalf("unexpected first message: %+v", transcript[0])
	}
}

func TestServiceSaveMessageOrdering(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()
	session, _ := svc.CreateSession(ctx, "device-1")

	userMsg, err := svc.SaveMessage(ctx, chatModel.Message{SessionID: session.ID, Content: "hello", IsUser: true})
	if err != nil {
		t.Fatalf("SaveMessage err: %v", err)
	}
	if !strings.HasPrefix(userMsg.ID, "user-") {
		t.Fatalf("unexpected user message id %q", userMsg.ID)
	}

	reply, err := svc.SaveMessage(ctx, chatModel.Message{SessionID: session.ID, Content: "hi"})
	if err != nil {
		t.Fatalf("SaveMessage err: %v", err)
	}
	if !strings.HasPrefix(reply.ID, "ai-") {
		t.Fatalf("unexpected reply id %q", reply.ID)
	}

	transcript, _ := svc.LoadTranscript(ctx, session.ID)
	if len(transcript) != 3 || transcript[1].ID != userMsg.ID || transcript[2].ID != reply.ID {
		t.Fatalf("unexpected transcript order: %+v", transcript)
	}
}

func TestServiceRejectsBlankUserMessage(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()
	session, _ := svc.CreateSession(ctx, "device-1")

	if _, err := svc.SaveMessage(ctx, chatModel.Message{SessionID: session.ID, Content: "   ", IsUser: true}); !errors.Is(err, chat.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestServiceDeviceSessionOwnership(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()
	session, _ := svc.CreateSession(ctx, "device-1")

	if _, err := svc.GetDeviceSession(ctx, "device-2", session.ID); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for foreign device, got %v", err)
	}
	if _, err := svc.GetDeviceSession(ctx, "device-1", session.ID); err != nil {
		t.Fatalf("GetDeviceSession err: %v", err)
	}
}
