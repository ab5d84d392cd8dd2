package retrieval

import (
	"context"
	"log"

	"ai-retrieval-be/pkg/websearch"
)

// WebSearch retrieves from the web search engine. The engine reports no
// relevance scores, so each result is scored by reciprocal rank: 1.0, 0.5,
// 0.333 and so on down the page.
type WebSearch struct {
	client *websearch.Client
	logger *log.Logger
}

var _ SearchAdapter = (*WebSearch)(nil)

func NewWebSearch(client *websearch.Client, logger *log.Logger) *WebSearch {
	return &WebSearch{
		client: client,
		logger: logger,
	}
}

func (w *WebSearch) Search(ctx context.Context, query string, limit int) ([]Document, error) {
	results, err := w.client.Search(ctx, query, limit)
	if err != nil {
		return nil, &RetrievalError{Source: OriginWeb, Err: err}
	}

	documents := make([]Document, 0, len(results))
	for _, res := range results {
		content := res.Content
		if res.Title != "" {
			content = res.Title + "\n" + res.Content
		}
		source := res.URL
		if source == "" {
			source = "web_search"
		}
		documents = append(documents, Document{
			Content: content,
			Source:  source,
			Score:   1.0 / float64(res.Rank),
			Origin:  OriginWeb,
		})
	}

	w.logger.Printf("[WEB] Query returned %d results", len(documents))

	return documents, nil
}
