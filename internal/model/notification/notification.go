package notification

import "time"

// Type is the notification tab a message belongs to.
type Type string

const (
	TypeAlert  Type = "alert"
	TypePrice  Type = "price"
	TypeNews   Type = "news"
	TypeSystem Type = "system"
)

// Variant styles system notices; destructive marks failures.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is one entry in a device's feed.
type Notification struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Time      string    `json:"time"`
	Variant   Variant   `json:"variant,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notice is a transient toast raised by a service operation.
type Notice struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant,omitempty"`
}

// Failed reports whether the notice signals a failure.
func (n Notice) Failed() bool {
	return n.Variant == VariantDestructive
}

// Seed returns the notifications every new feed starts with.
func Seed() []Notification {
	return []Notification{
		{ID: "1", Type: TypeAlert, Title: "Portfolio Alert", Message: "Your portfolio value increased by 5% today!", Time: "Just now"},
		{ID: "2", Type: TypePrice, Title: "Price Movement", Message: "AAPL stock has increased by 3.2% in the last hour.", Time: "1 hour ago"},
		{ID: "3", Type: TypeNews, Title: "Market News", Message: "Federal Reserve announces new interest rate policies.", Time: "3 hours ago", Read: true},
		{ID: "4", Type: TypeAlert, Title: "AI Recommendation", Message: "Consider adding TSLA to your portfolio based on your risk profile.", Time: "Yesterday", Read: true},
	}
}
