// Package retrieval implements a context-aware retrieval pipeline: per-user
// session memory feeds a strategy classifier, the chosen strategy dispatches
// to a local vector store and/or a web search engine, and merged results are
// written back to memory for the next turn.
package retrieval

import (
	"errors"
	"fmt"
)

// Strategy selects which retrieval backends serve a query.
type Strategy string

const (
	StrategyLocal Strategy = "local"
	StrategyWeb   Strategy = "web"
	StrategyBoth  Strategy = "both"
)

// Origin identifies the backend a document came from.
type Origin string

const (
	OriginLocal Origin = "local"
	OriginWeb   Origin = "web"
)

var (
	ErrEmptyQuery  = errors.New("query must not be empty")
	ErrEmptyUserId = errors.New("user id must not be empty")
)

// Document is one retrieved unit of content. Score is cosine similarity for
// local documents and reciprocal rank for web documents; the two scales are
// not normalized against each other.
type Document struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
	Origin  Origin  `json:"origin"`
}

// Decision is the classifier's verdict for a single query.
type Decision struct {
	Strategy    Strategy `json:"strategy"`
	Confidence  float64  `json:"confidence"`
	Reasoning   string   `json:"reasoning"`
	ContextUsed bool     `json:"context_used"`
}

// Result is the outcome of one full retrieval pass.
type Result struct {
	Query              string     `json:"query"`
	UserId             string     `json:"user_id"`
	Documents          []Document `json:"documents"`
	StrategyUsed       Strategy   `json:"strategy_used"`
	Confidence         float64    `json:"confidence"`
	Reasoning          string     `json:"reasoning"`
	ContextUsed        bool       `json:"context_used"`
	DocumentCount      int        `json:"document_count"`
	ConversationLength int        `json:"conversation_length"`
}

// RetrievalError marks a recoverable backend failure and records which
// backend produced it.
type RetrievalError struct {
	Source Origin
	Err    error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s retrieval failed: %v", e.Source, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// truncate caps a string for logs and excerpts.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
