package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"ai-retrieval-be/pkg/llm"
)

// Classifier decides the retrieval strategy for a query.
type Classifier interface {
	Classify(ctx context.Context, query string, history []Record) Decision
}

// minConfidence is the floor below which a single-source strategy is widened
// to both sources.
const minConfidence = 0.5

// historySummaryMaxRecords bounds how many past interactions the prompt
// replays, newest first.
const historySummaryMaxRecords = 5

// StrategyClassifier performs pure LLM-based strategy classification.
// No retrieval happens here, just the decision which backends to ask.
type StrategyClassifier struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

var _ Classifier = (*StrategyClassifier)(nil)

func NewStrategyClassifier(llmProvider llm.LLMProvider, logger *log.Logger) *StrategyClassifier {
	return &StrategyClassifier{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Classify analyzes the query against the recent conversation and produces a
// decision. It never fails: any LLM or parsing error degrades to the
// defensive both-sources fallback.
func (c *StrategyClassifier) Classify(ctx context.Context, query string, history []Record) Decision {
	prompt := c.buildPrompt(query, history)

	// Temperature 0 for deterministic output
	response, err := c.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		c.logger.Printf("[CLASSIFY] LLM call failed, using fallback: %v", err)
		return fallbackDecision()
	}

	decision, err := parseDecision(response)
	if err != nil {
		c.logger.Printf("[CLASSIFY] Response parsing failed, using fallback: %v", err)
		return fallbackDecision()
	}

	decision.ContextUsed = len(history) > 0

	// Widen uncertain single-source picks; the reported confidence and
	// reasoning stay as the model produced them.
	if decision.Confidence < minConfidence && decision.Strategy != StrategyBoth {
		c.logger.Printf("[CLASSIFY] Confidence %.2f below %.2f, widening %s to both",
			decision.Confidence, minConfidence, decision.Strategy)
		decision.Strategy = StrategyBoth
	}

	c.logger.Printf("[CLASSIFY] Strategy: %s (Confidence: %.2f, ContextUsed: %t, Query: %s)",
		decision.Strategy, decision.Confidence, decision.ContextUsed, truncate(query, 50))

	return decision
}

func (c *StrategyClassifier) buildPrompt(query string, history []Record) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are a retrieval strategy classifier. Your ONLY job is to decide WHERE to search for an answer.\n")
	prompt.WriteString("You do NOT answer the query. You only pick a search strategy.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<conversation_history>\n")
	prompt.WriteString(summarizeHistory(history))
	prompt.WriteString("</conversation_history>\n\n")

	prompt.WriteString("<user_query>\n")
	prompt.WriteString(query)
	prompt.WriteString("\n</user_query>\n\n")

	prompt.WriteString("<strategy_definitions>\n")
	prompt.WriteString("Choose ONE strategy that best serves the query:\n\n")

	prompt.WriteString("local: The indexed document store is enough\n")
	prompt.WriteString("  - Use when: query targets internal knowledge, stored documents, or topics already covered in the conversation\n")
	prompt.WriteString("  - Use when: the user refers back to something retrieved earlier\n\n")

	prompt.WriteString("web: Only the live web can answer\n")
	prompt.WriteString("  - Use when: query asks about current events, news, prices, weather, or anything time-sensitive\n")
	prompt.WriteString("  - Use when: the topic is clearly outside the document store\n\n")

	prompt.WriteString("both: Combine the document store and the web\n")
	prompt.WriteString("  - Use when: the query mixes stored knowledge with fresh information\n")
	prompt.WriteString("  - Use when: you cannot tell which source will have the answer\n")
	prompt.WriteString("</strategy_definitions>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"strategy\": \"local|web|both\",\n")
	prompt.WriteString("  \"confidence\": 0.95,\n")
	prompt.WriteString("  \"reasoning\": \"Brief explanation\"\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

// summarizeHistory renders the recent interactions newest first. Key points
// are already bounded excerpts, so the summary stays small.
func summarizeHistory(history []Record) string {
	if len(history) == 0 {
		return "No previous conversation.\n"
	}

	var b strings.Builder
	b.WriteString("Recent conversation topics:\n")
	shown := 0
	for i := len(history) - 1; i >= 0 && shown < historySummaryMaxRecords; i-- {
		record := history[i]
		shown++
		fmt.Fprintf(&b, "%d. Query: %s\n", shown, truncate(record.Query, 100))
		fmt.Fprintf(&b, "   Strategy: %s, Documents: %d\n", record.StrategyUsed, record.DocumentCount)
		for _, point := range record.KeyPoints {
			fmt.Fprintf(&b, "   - %s\n", point)
		}
	}
	return b.String()
}

// decisionResponse is the wire format the model is asked to produce.
type decisionResponse struct {
	Strategy   string  `json:"strategy"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

func parseDecision(response string) (Decision, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return Decision{}, fmt.Errorf("no JSON found in response")
	}

	var parsed decisionResponse
	if err := json.Unmarshal([]byte(jsonContent), &parsed); err != nil {
		return Decision{}, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	strategy := Strategy(strings.ToLower(strings.TrimSpace(parsed.Strategy)))
	switch strategy {
	case StrategyLocal, StrategyWeb, StrategyBoth:
	default:
		return Decision{}, fmt.Errorf("unknown strategy %q", parsed.Strategy)
	}

	confidence := parsed.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return Decision{
		Strategy:   strategy,
		Confidence: confidence,
		Reasoning:  parsed.Reasoning,
	}, nil
}

// fallbackDecision is used whenever classification cannot complete. Searching
// both sources costs latency but never the answer.
func fallbackDecision() Decision {
	return Decision{
		Strategy:    StrategyBoth,
		Confidence:  0.0,
		Reasoning:   "classifier unavailable",
		ContextUsed: false,
	}
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
