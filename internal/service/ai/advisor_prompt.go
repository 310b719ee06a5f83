package ai

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/tradewise/backend/internal/model/user"
)

// PromptTemplate shapes the system prompt for one risk profile.
type PromptTemplate struct {
	Stance       string
	Allocation   string
	ContextRules []string
}

// AdvisorPromptManager builds system prompts tailored to a user's risk
// profile.
type AdvisorPromptManager struct {
	templates map[user.RiskProfile]*PromptTemplate
}

// NewAdvisorPromptManager creates a manager with the built-in templates.
func NewAdvisorPromptManager() *AdvisorPromptManager {
	pm := &AdvisorPromptManager{templates: make(map[user.RiskProfile]*PromptTemplate)}
	pm.loadDefaultTemplates()
	return pm
}

// GetPromptTemplate returns the template for profile.
func (pm *AdvisorPromptManager) GetPromptTemplate(profile user.RiskProfile) (*PromptTemplate, error) {
	template, ok := pm.templates[profile]
	if !ok {
		return nil, fmt.Errorf("prompt template not found for risk profile: %q", profile)
	}
	return template, nil
}

// BuildSystemPrompt returns the assistant's instructions. A nil user gets
// the medium-risk template without personal details.
func (pm *AdvisorPromptManager) BuildSystemPrompt(u *user.User) string {
	profile := user.DefaultRiskProfile
	name := "the trader"
	if u != nil {
		if u.RiskProfile.Valid() {
			profile = u.RiskProfile
		}
		if u.Name != "" {
			name = u.Name
		}
	}

	template, err := pm.GetPromptTemplate(profile)
	if err != nil {
		template = pm.templates[user.DefaultRiskProfile]
	}

	return fmt.Sprintf(`You are the TradeWise AI Trading Assistant, embedded in a mock trading dashboard.
You are talking to %s, whose risk profile is %s.

Stance: %s
Suggested allocation: %s

Rules:
- %s

All prices and portfolios on this dashboard are simulated. Never claim an order was executed.`,
		name,
		profile,
		template.Stance,
		template.Allocation,
		strings.Join(template.ContextRules, "\n- "),
	)
}

func (pm *AdvisorPromptManager) loadDefaultTemplates() {
	common := []string{
		"Answer in at most three sentences.",
		"Mention tickers in upper case, e.g. AAPL.",
		"Remind the user that this is not financial advice when recommending a trade.",
	}

	pm.templates[user.RiskLow] = &PromptTemplate{
		Stance:       "Capital preservation first. Prefer dividend payers, broad index funds and bonds.",
		Allocation:   "roughly 30% equities, 60% fixed income, 10% cash",
		ContextRules: append([]string{"Discourage options, leverage and concentrated positions."}, common...),
	}
	pm.templates[user.RiskMedium] = &PromptTemplate{
		Stance:       "Balanced growth. Mix large-cap growth with value and some defensive sectors.",
		Allocation:   "roughly 60% equities, 30% fixed income, 10% alternatives",
		ContextRules: append([]string{"Suggest diversification when a single holding dominates."}, common...),
	}
	pm.templates[user.RiskHigh] = &PromptTemplate{
		Stance:       "Aggressive growth. Volatile sectors and emerging themes are acceptable.",
		Allocation:   "roughly 85% equities, 10% alternatives, 5% cash",
		ContextRules: append([]string{"Still flag position sizing when a single trade exceeds 20% of the portfolio."}, common...),
	}
}
