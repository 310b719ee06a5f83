package ai

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/tradewise/backend/internal/analysis/intent"
)

// DefaultReply answers anything the keyword table does not cover.
const DefaultReply = "I'm sorry, I didn't understand that query. Could you please rephrase or ask about stocks, market conditions, portfolio advice, or risk assessment?"

var cannedReplies = map[intent.Topic]string{
	intent.Stock:     "Based on your risk profile and market analysis, I recommend looking at technology and healthcare sectors. Specific stocks like AAPL, MSFT, and JNJ could be good additions to your portfolio.",
	intent.Market:    "The market is showing some volatility due to recent economic data. However, tech stocks are still performing well overall.",
	intent.Portfolio: "Your portfolio is currently balanced with a good mix of growth and value stocks. Consider increasing your exposure to renewable energy stocks for long-term growth.",
	intent.Risk:      "Based on your trading history, your risk profile appears to be moderate. You could consider increasing your exposure to growth stocks slightly.",
	intent.Help:      "I can help with market analysis, stock recommendations, portfolio evaluation, and answering questions about trading strategies. Just let me know what you need!",
}

// KeywordReply returns the canned answer for message and the topic that
// selected it.
func KeywordReply(message string) (string, intent.Topic) {
	decision := intent.Analyze(message)
	if !decision.Matched() {
		return DefaultReply, intent.Unknown
	}
	return cannedReplies[decision.Topic], decision.Topic
}

// KeywordModel is a ChatModel that answers the latest user message from a
// fixed keyword table. The system prompt and earlier turns are ignored.
type KeywordModel struct{}

var _ model.ChatModel = (*KeywordModel)(nil)

// NewKeywordModel returns the scripted assistant model.
func NewKeywordModel() *KeywordModel { return &KeywordModel{} }

func (m *KeywordModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	reply, _ := KeywordReply(lastUserContent(input))
	return schema.AssistantMessage(reply, nil), nil
}

// Stream emits the reply word by word.
func (m *KeywordModel) Stream(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	reply, _ := KeywordReply(lastUserContent(input))
	words := strings.SplitAfter(reply, " ")
	chunks := make([]*schema.Message, 0, len(words))
	for _, w := range words {
		chunks = append(chunks, schema.AssistantMessage(w, nil))
	}
	return schema.StreamReaderFromArray(chunks), nil
}

// BindTools is a no-op; the scripted model never calls tools.
func (m *KeywordModel) BindTools([]*schema.ToolInfo) error { return nil }

func lastUserContent(input []*schema.Message) string {
	for i := len(input) - 1; i >= 0; i-- {
		if input[i] != nil && input[i].Role == schema.User {
			return input[i].Content
		}
	}
	return ""
}
