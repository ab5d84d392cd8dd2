package retrieval

import "time"

// Config carries the tunables of the retrieval pipeline.
type Config struct {
	// MaxDocs caps the merged result set per query.
	MaxDocs int
	// SimilarityThreshold is the minimum cosine similarity a local document
	// must reach to be kept.
	SimilarityThreshold float64
	// WebSearchMaxResults caps how many results are requested from the web
	// search engine.
	WebSearchMaxResults int
	// SessionTTL is the idle window after which a user's session history
	// expires. Every write refreshes it.
	SessionTTL time.Duration
	// MaxSessionMessages bounds the per-user history; the oldest record is
	// evicted first.
	MaxSessionMessages int
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		MaxDocs:             5,
		SimilarityThreshold: 0.7,
		WebSearchMaxResults: 3,
		SessionTTL:          30 * time.Minute,
		MaxSessionMessages:  10,
	}
}
