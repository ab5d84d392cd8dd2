package dto

import "time"

type RetrieveRequest struct {
	Query  string `json:"query" validate:"required"`
	UserId string `json:"user_id" validate:"required"`
}

type RetrievedDocument struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
	Origin  string  `json:"origin"` // "local" | "web"
}

type RetrieveResponse struct {
	Query              string              `json:"query"`
	UserId             string              `json:"user_id"`
	Documents          []RetrievedDocument `json:"documents"`
	StrategyUsed       string              `json:"strategy_used"`
	Confidence         float64             `json:"confidence"`
	Reasoning          string              `json:"reasoning"`
	ContextUsed        bool                `json:"context_used"`
	DocumentCount      int                 `json:"document_count"`
	ConversationLength int                 `json:"conversation_length"`
}

type SessionRecordResponse struct {
	Timestamp     time.Time `json:"timestamp"`
	Query         string    `json:"query"`
	StrategyUsed  string    `json:"strategy_used"`
	DocumentCount int       `json:"document_count"`
	Reasoning     string    `json:"reasoning"`
	KeyPoints     []string  `json:"key_points"`
}

type ConversationResponse struct {
	UserId  string                  `json:"user_id"`
	Records []SessionRecordResponse `json:"records"`
}

type ClearSessionResponse struct {
	UserId  string `json:"user_id"`
	Cleared bool   `json:"cleared"`
}

type RetrievalLogResponse struct {
	Id            string    `json:"id"`
	UserId        string    `json:"user_id"`
	Query         string    `json:"query"`
	Strategy      string    `json:"strategy"`
	Confidence    float64   `json:"confidence"`
	DocumentCount int       `json:"document_count"`
	ContextUsed   bool      `json:"context_used"`
	CreatedAt     time.Time `json:"created_at"`
}
