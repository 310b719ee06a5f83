package intent

import "testing"

func TestAnalyzeFirstTopicWins(t *testing.T) {
	decision := Analyze("What stock should I buy in this market?")
	if decision.Topic != Stock {
		t.Fatalf("expected stock topic, got %q", decision.Topic)
	}
}

func TestAnalyzeCaseInsensitive(t *testing.T) {
	decision := Analyze("How RISKY is my PORTFOLIO?")
	if decision.Topic != Portfolio {
		t.Fatalf("expected portfolio topic, got %q", decision.Topic)
	}
}

func TestAnalyzeSubstring(t *testing.T) {
	if got := Analyze("any stockpile tips").Topic; got != Stock {
		t.Fatalf("expected substring match on stock, got %q", got)
	}
	if got := Analyze("helpful?").Topic; got != Help {
		t.Fatalf("expected help, got %q", got)
	}
}

func TestAnalyzeNoMatch(t *testing.T) {
	for _, msg := range []string{"", "   ", "hello there", "what's the weather"} {
		decision := Analyze(msg)
		if decision.Matched() {
			t.Fatalf("expected no topic for %q, got %q", msg, decision.Topic)
		}
	}
}

func TestTopicsOrder(t *testing.T) {
	want := []Topic{Stock, Market, Portfolio, Risk, Help}
	got := Topics()
	if len(got) != len(want) {
		t.Fatalf("unexpected topic count %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("topic %d: got %q want %q", i, got[i], want[i])
		}
	}
}
