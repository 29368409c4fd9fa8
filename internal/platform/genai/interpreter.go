package genai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	commonErrors "github.com/accountech/financeos/backend/internal/domain/errors"
	"github.com/accountech/financeos/backend/internal/domain/simulation"
)

// DefaultModelName is used when no model is configured.
const DefaultModelName = "gemini-2.0-flash"

// Interpreter turns natural-language what-if queries into structured
// scenarios using Gemini. The model's output is treated as untrusted input:
// it goes through the same strict scenario parsing as any other payload.
type Interpreter struct {
	client *genai.Client
	model  string
}

// NewInterpreter creates a Gemini-backed scenario interpreter. The API key is
// read from the environment by the genai client.
func NewInterpreter(ctx context.Context, model string) (*Interpreter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if model == "" {
		model = DefaultModelName
	}
	return &Interpreter{
		client: client,
		model:  model,
	}, nil
}

// InterpretScenario implements simulation.Interpreter
func (i *Interpreter) InterpretScenario(ctx context.Context, query string) (*simulation.Scenario, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildScenarioPrompt(query)},
			},
		},
	}

	resp, err := i.client.Models.GenerateContent(ctx, i.model, contents, nil)
	if err != nil {
		return nil, commonErrors.NewScenarioError(simulation.StageInterpret, fmt.Sprintf("model request failed: %v", err))
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, commonErrors.NewScenarioError(simulation.StageInterpret, "empty response from model")
	}

	return simulation.ParseScenario([]byte(cleanModelJSON(rawText)))
}

func buildScenarioPrompt(query string) string {
	return "You are a financial scenario interpreter for a small-business accounting tool.\n\n" +
		"Task:\n" +
		"- Read the user's what-if question and extract one structured scenario.\n" +
		"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
		"- Output a single JSON object.\n\n" +
		"The object must have exactly these fields:\n" +
		"- \"type\": one of \"hire\", \"fire\", \"price_increase\", \"price_decrease\", \"new_client\", \"lose_client\", \"investment\", \"expense\"\n" +
		"- \"startMonthsAgo\": integer >= 0, how many months before the current month the change starts (0 = this month)\n" +
		"- \"monthlyCost\": number >= 0, recurring monthly cost the change adds\n" +
		"- \"monthlyRevenue\": number >= 0, recurring monthly revenue the change adds or removes\n" +
		"- \"oneTimeCost\": number, one-off amount in the first month (negative for a cost)\n" +
		"- \"growthFactor\": number >= 0, relative size of the gradual effect (0.1 = 10%)\n" +
		"- \"probability\": number between 0 and 1, how likely the effect is\n" +
		"- \"description\": short restatement of the scenario\n\n" +
		"Rules:\n" +
		"- Use 0 for any monetary field the question does not mention.\n" +
		"- Do NOT wrap the response in code fences.\n" +
		"- Output must begin with \"{\" and end with \"}\".\n\n" +
		"Question: " + query + "\n"
}

// cleanModelJSON strips markdown fences and surrounding junk when the model
// ignores the formatting instructions
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = s[start : end+1]
			s = strings.TrimSpace(s)
		}
	}

	return s
}
