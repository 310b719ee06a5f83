// Package intent maps a chat message to the trading topic it asks about.
package intent

import "strings"

// Topic is a question category the assistant has a canned answer for.
type Topic string

const (
	Unknown   Topic = ""
	Stock     Topic = "stock"
	Market    Topic = "market"
	Portfolio Topic = "portfolio"
	Risk      Topic = "risk"
	Help      Topic = "help"
)

// Decision is the classification of one message.
type Decision struct {
	Topic   Topic
	Keyword string
}

// Matched reports whether a topic was found.
func (d Decision) Matched() bool { return d.Topic != Unknown }

// topicOrder is the match priority. Earlier topics win when a message names
// several, so "stock market" is a stock question.
var topicOrder = []Topic{Stock, Market, Portfolio, Risk, Help}

// Topics returns the topics in match order.
func Topics() []Topic {
	return append([]Topic(nil), topicOrder...)
}

// Analyze lowercases message and returns the first topic whose keyword
// appears in it as a substring. Substring matching is intentional: "stocks"
// and "stockpile" both hit Stock.
func Analyze(message string) Decision {
	normalized := strings.ToLower(message)
	if strings.TrimSpace(normalized) == "" {
		return Decision{}
	}

	for _, topic := range topicOrder {
		keyword := string(topic)
		if strings.Contains(normalized, keyword) {
			return Decision{Topic: topic, Keyword: keyword}
		}
	}
	return Decision{}
}
