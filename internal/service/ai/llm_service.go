package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/tradewise/backend/internal/model/chat"
	"github.com/zhouzirui/tradewise/backend/internal/model/user"
)

const historyLimit = 10

// Options tune a Service.
type Options struct {
	StreamResponse bool
}

// Service runs the assistant chain: system prompt, recent history, query.
type Service struct {
	chatModel model.BaseChatModel
	prompts   *AdvisorPromptManager
	opts      Options
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the chain over chatModel. A nil chatModel uses the
// keyword model.
func NewService(ctx context.Context, chatModel model.BaseChatModel, opts Options) (*Service, error) {
	if chatModel == nil {
		chatModel = NewKeywordModel()
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		prompts:   NewAdvisorPromptManager(),
		opts:      opts,
		chain:     runnable,
	}, nil
}

// StreamingEnabled reports whether replies go out as delta events.
func (s *Service) StreamingEnabled() bool {
	return s.opts.StreamResponse
}

// GenerateResponse produces the assistant's reply to userMessage. messages is
// the transcript before userMessage; u may be nil for anonymous visitors.
func (s *Service) GenerateResponse(ctx context.Context, sessionID string, u *user.User, messages []chat.Message, userMessage string) (*schema.Message, error) {
	response, err := s.chain.Invoke(ctx, s.buildChainInput(u, messages, userMessage))
	if err != nil {
		return nil, fmt.Errorf("failed to run AI chain: %w", err)
	}

	slog.DebugContext(ctx, "generated response", "session", sessionID, "length", len(response.Content))
	return response, nil
}

// StreamResponse streams the reply chunks.
func (s *Service) StreamResponse(ctx context.Context, u *user.User, messages []chat.Message, userMessage string) (*schema.StreamReader[*schema.Message], error) {
	if !s.StreamingEnabled() {
		return nil, fmt.Errorf("streaming disabled in configuration")
	}

	stream, err := s.chain.Stream(ctx, s.buildChainInput(u, messages, userMessage))
	if err != nil {
		return nil, fmt.Errorf("failed to stream AI chain output: %w", err)
	}
	return stream, nil
}

// GetChatModel returns the underlying model.
func (s *Service) GetChatModel() model.BaseChatModel {
	return s.chatModel
}

func (s *Service) buildChainInput(u *user.User, messages []chat.Message, userMessage string) map[string]any {
	return map[string]any{
		"system":  s.prompts.BuildSystemPrompt(u),
		"history": buildHistoryMessages(messages),
		"query":   userMessage,
	}
}

func buildHistoryMessages(messages []chat.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > historyLimit {
		startIdx = len(messages) - historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		if msg.IsUser {
			history = append(history, schema.UserMessage(msg.Content))
		} else {
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}
	return history
}
