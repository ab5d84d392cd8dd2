package retrieval

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"ai-retrieval-be/pkg/llm"
)

// fakeLLM returns a canned response or error and records the last prompt.
type fakeLLM struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if len(history) > 0 {
		f.lastPrompt = history[len(history)-1].Content
	}
	return f.response, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestClassifyParsesDecision(t *testing.T) {
	tests := []struct {
		name           string
		response       string
		history        []Record
		wantStrategy   Strategy
		wantConfidence float64
		wantContext    bool
	}{
		{
			name:           "confident local",
			response:       `{"strategy": "local", "confidence": 0.9, "reasoning": "stored topic"}`,
			wantStrategy:   StrategyLocal,
			wantConfidence: 0.9,
		},
		{
			name:           "confident web",
			response:       `{"strategy": "web", "confidence": 0.85, "reasoning": "current events"}`,
			wantStrategy:   StrategyWeb,
			wantConfidence: 0.85,
		},
		{
			name:           "explicit both",
			response:       `{"strategy": "both", "confidence": 0.7, "reasoning": "mixed"}`,
			wantStrategy:   StrategyBoth,
			wantConfidence: 0.7,
		},
		{
			name:           "uppercase strategy normalized",
			response:       `{"strategy": "LOCAL", "confidence": 0.8, "reasoning": "x"}`,
			wantStrategy:   StrategyLocal,
			wantConfidence: 0.8,
		},
		{
			name:           "JSON wrapped in prose",
			response:       "Sure, here is my analysis:\n{\"strategy\": \"web\", \"confidence\": 0.75, \"reasoning\": \"fresh data\"}\nHope that helps.",
			wantStrategy:   StrategyWeb,
			wantConfidence: 0.75,
		},
		{
			name:           "low confidence widens to both",
			response:       `{"strategy": "local", "confidence": 0.3, "reasoning": "unsure"}`,
			wantStrategy:   StrategyBoth,
			wantConfidence: 0.3,
		},
		{
			name:           "confidence at threshold keeps strategy",
			response:       `{"strategy": "web", "confidence": 0.5, "reasoning": "borderline"}`,
			wantStrategy:   StrategyWeb,
			wantConfidence: 0.5,
		},
		{
			name:           "confidence clamped above one",
			response:       `{"strategy": "local", "confidence": 1.7, "reasoning": "overexcited"}`,
			wantStrategy:   StrategyLocal,
			wantConfidence: 1.0,
		},
		{
			name:           "history marks context used",
			response:       `{"strategy": "local", "confidence": 0.9, "reasoning": "follow-up"}`,
			history:        []Record{testRecord("earlier question", 2)},
			wantStrategy:   StrategyLocal,
			wantConfidence: 0.9,
			wantContext:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := NewStrategyClassifier(&fakeLLM{response: tt.response}, testLogger())

			decision := classifier.Classify(context.Background(), "test query", tt.history)

			if decision.Strategy != tt.wantStrategy {
				t.Errorf("Strategy = %q, want %q", decision.Strategy, tt.wantStrategy)
			}
			if decision.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", decision.Confidence, tt.wantConfidence)
			}
			if decision.ContextUsed != tt.wantContext {
				t.Errorf("ContextUsed = %v, want %v", decision.ContextUsed, tt.wantContext)
			}
		})
	}
}

func TestClassifyFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{name: "provider error", err: errors.New("connection refused")},
		{name: "no JSON in response", response: "I think you should search locally."},
		{name: "malformed JSON", response: `{"strategy": "local", "confidence":`},
		{name: "unknown strategy", response: `{"strategy": "telepathy", "confidence": 0.9, "reasoning": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := NewStrategyClassifier(&fakeLLM{response: tt.response, err: tt.err}, testLogger())

			history := []Record{testRecord("prior turn", 1)}
			decision := classifier.Classify(context.Background(), "test query", history)

			if decision.Strategy != StrategyBoth {
				t.Errorf("Strategy = %q, want %q", decision.Strategy, StrategyBoth)
			}
			if decision.Confidence != 0.0 {
				t.Errorf("Confidence = %v, want 0.0", decision.Confidence)
			}
			if decision.Reasoning != "classifier unavailable" {
				t.Errorf("Reasoning = %q, want %q", decision.Reasoning, "classifier unavailable")
			}
			if decision.ContextUsed {
				t.Error("ContextUsed = true, want false on fallback")
			}
		})
	}
}

func TestClassifyPromptIncludesHistory(t *testing.T) {
	provider := &fakeLLM{response: `{"strategy": "local", "confidence": 0.9, "reasoning": "x"}`}
	classifier := NewStrategyClassifier(provider, testLogger())

	history := []Record{
		testRecord("how do goroutines work", 2),
		testRecord("explain channel buffering", 3),
	}
	classifier.Classify(context.Background(), "and select statements?", history)

	if !strings.Contains(provider.lastPrompt, "how do goroutines work") {
		t.Error("prompt does not contain the older query")
	}
	if !strings.Contains(provider.lastPrompt, "explain channel buffering") {
		t.Error("prompt does not contain the newer query")
	}
	if !strings.Contains(provider.lastPrompt, "and select statements?") {
		t.Error("prompt does not contain the current query")
	}

	// Newest history entry must come first in the summary
	newerIdx := strings.Index(provider.lastPrompt, "explain channel buffering")
	olderIdx := strings.Index(provider.lastPrompt, "how do goroutines work")
	if newerIdx > olderIdx {
		t.Error("history summary is not newest first")
	}
}

func TestClassifyPromptWithoutHistory(t *testing.T) {
	provider := &fakeLLM{response: `{"strategy": "web", "confidence": 0.8, "reasoning": "x"}`}
	classifier := NewStrategyClassifier(provider, testLogger())

	classifier.Classify(context.Background(), "latest go release", nil)

	if !strings.Contains(provider.lastPrompt, "No previous conversation.") {
		t.Error("prompt does not mark the empty history")
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{name: "bare object", response: `{"a": 1}`, want: `{"a": 1}`},
		{name: "leading text", response: `Answer: {"a": 1}`, want: `{"a": 1}`},
		{name: "trailing text", response: `{"a": 1} done`, want: `{"a": 1}`},
		{name: "nested braces", response: `{"a": {"b": 2}}`, want: `{"a": {"b": 2}}`},
		{name: "no object", response: "plain text", want: ""},
		{name: "reversed braces", response: "} {", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.response); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.response, got, tt.want)
			}
		})
	}
}
