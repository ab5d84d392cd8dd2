package retrieval

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
)

const (
	maxKeyPoints       = 3
	keyPointExcerptLen = 200
)

// Orchestrator runs the retrieval pipeline for one query at a time: read
// session memory, classify, dispatch to the chosen backends, merge, write the
// interaction back to memory. It holds no per-request state, so one instance
// serves concurrent callers.
type Orchestrator struct {
	config     Config
	memory     SessionStore
	classifier Classifier
	local      SearchAdapter
	web        SearchAdapter
	logger     *log.Logger
}

func NewOrchestrator(config Config, memory SessionStore, classifier Classifier, local SearchAdapter, web SearchAdapter, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		config:     config,
		memory:     memory,
		classifier: classifier,
		local:      local,
		web:        web,
		logger:     logger,
	}
}

// Retrieve executes one full retrieval pass. The only errors it returns are
// invalid input and context cancellation; backend failures degrade to fewer
// or zero documents.
func (o *Orchestrator) Retrieve(ctx context.Context, query string, userId string) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if strings.TrimSpace(userId) == "" {
		return nil, ErrEmptyUserId
	}

	history := o.memory.History(ctx, userId)

	decision := o.classifier.Classify(ctx, query, history)

	documents := o.dispatch(ctx, decision.Strategy, query)

	if err := ctx.Err(); err != nil {
		// Caller gave up, nothing is recorded for this turn
		return nil, err
	}

	if len(documents) > o.config.MaxDocs {
		documents = documents[:o.config.MaxDocs]
	}

	o.writeBack(ctx, userId, query, decision, documents)

	o.logger.Printf("[RETRIEVE] User %s: strategy=%s documents=%d history=%d",
		userId, decision.Strategy, len(documents), len(history))

	return &Result{
		Query:              query,
		UserId:             userId,
		Documents:          documents,
		StrategyUsed:       decision.Strategy,
		Confidence:         decision.Confidence,
		Reasoning:          decision.Reasoning,
		ContextUsed:        decision.ContextUsed,
		DocumentCount:      len(documents),
		ConversationLength: len(history),
	}, nil
}

// AsyncResult delivers the outcome of RetrieveAsync.
type AsyncResult struct {
	Result *Result
	Err    error
}

// RetrieveAsync runs Retrieve on its own goroutine and delivers exactly one
// value on the returned channel. The channel is buffered, so the result is
// never lost even if the caller reads late.
func (o *Orchestrator) RetrieveAsync(ctx context.Context, query string, userId string) <-chan AsyncResult {
	out := make(chan AsyncResult, 1)
	go func() {
		result, err := o.Retrieve(ctx, query, userId)
		out <- AsyncResult{Result: result, Err: err}
	}()
	return out
}

// Conversation returns the user's stored history, oldest first.
func (o *Orchestrator) Conversation(ctx context.Context, userId string) []Record {
	return o.memory.History(ctx, userId)
}

// ClearSession drops a user's conversation history.
func (o *Orchestrator) ClearSession(ctx context.Context, userId string) error {
	if strings.TrimSpace(userId) == "" {
		return ErrEmptyUserId
	}
	return o.memory.Clear(ctx, userId)
}

func (o *Orchestrator) dispatch(ctx context.Context, strategy Strategy, query string) []Document {
	switch strategy {
	case StrategyLocal:
		return o.searchOne(ctx, o.local, query, o.config.MaxDocs, OriginLocal)
	case StrategyWeb:
		return o.searchOne(ctx, o.web, query, o.config.WebSearchMaxResults, OriginWeb)
	default:
		return o.searchBoth(ctx, query)
	}
}

// searchOne queries a single backend. Its failure is recoverable: log and
// return nothing rather than failing the whole retrieval.
func (o *Orchestrator) searchOne(ctx context.Context, adapter SearchAdapter, query string, limit int, origin Origin) []Document {
	documents, err := adapter.Search(ctx, query, limit)
	if err != nil {
		o.logger.Printf("[RETRIEVE] %s search failed, continuing with empty results: %v", origin, err)
		return nil
	}
	return documents
}

type adapterResult struct {
	documents []Document
	origin    Origin
	err       error
}

// searchBoth queries both backends concurrently and joins on exactly two
// replies. One backend failing costs only its share of the results. Scores
// from the two sources live on different scales; descending score is still
// the deterministic merge order.
func (o *Orchestrator) searchBoth(ctx context.Context, query string) []Document {
	results := make(chan adapterResult, 2)

	go func() {
		documents, err := o.local.Search(ctx, query, o.config.MaxDocs)
		results <- adapterResult{documents: documents, origin: OriginLocal, err: err}
	}()
	go func() {
		documents, err := o.web.Search(ctx, query, o.config.WebSearchMaxResults)
		results <- adapterResult{documents: documents, origin: OriginWeb, err: err}
	}()

	var combined []Document
	for i := 0; i < 2; i++ {
		res := <-results
		if res.err != nil {
			o.logger.Printf("[RETRIEVE] %s search failed during combined dispatch: %v", res.origin, res.err)
			continue
		}
		combined = append(combined, res.documents...)
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Score > combined[j].Score
	})

	return combined
}

// writeBack records the finished interaction. Append is fail-soft, so a dead
// memory backend never fails the retrieval that produced the documents.
func (o *Orchestrator) writeBack(ctx context.Context, userId string, query string, decision Decision, documents []Document) {
	record := Record{
		Timestamp:     time.Now().UTC(),
		Query:         query,
		StrategyUsed:  decision.Strategy,
		DocumentCount: len(documents),
		Reasoning:     decision.Reasoning,
		KeyPoints:     extractKeyPoints(documents),
	}
	o.memory.Append(ctx, userId, record)
}

// extractKeyPoints keeps a short excerpt of each leading document so later
// classifications can reference past results without replaying full contents.
func extractKeyPoints(documents []Document) []string {
	if len(documents) == 0 {
		return nil
	}
	points := make([]string, 0, maxKeyPoints)
	for _, doc := range documents {
		if len(points) == maxKeyPoints {
			break
		}
		source := doc.Source
		if source == "" {
			source = "unknown"
		}
		points = append(points, fmt.Sprintf("From %s: %s", source, truncate(doc.Content, keyPointExcerptLen)))
	}
	return points
}
