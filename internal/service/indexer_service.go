package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-retrieval-be/internal/dto"
	"ai-retrieval-be/internal/repository/contract"
	"ai-retrieval-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IIndexerService interface {
	Consume(ctx context.Context) error
}

// indexerService turns stored documents into searchable ones: it consumes
// embed messages, generates the embedding and writes it onto the row.
type indexerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	documents         contract.DocumentRepository
	embeddingProvider embedding.EmbeddingProvider
}

func NewIndexerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	documents contract.DocumentRepository,
	embeddingProvider embedding.EmbeddingProvider,
) IIndexerService {
	return &indexerService{
		pubSub:            pubSub,
		topicName:         topicName,
		documents:         documents,
		embeddingProvider: embeddingProvider,
	}
}

func (s *indexerService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *indexerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal embed message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Indexing document %s", payload.DocumentId)

	document, err := s.documents.FindById(ctx, payload.DocumentId)
	if err != nil {
		log.Printf("[ERROR] Failed to load document %s: %v", payload.DocumentId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if document == nil {
		log.Printf("[WARN] Document %s no longer exists, skipping", payload.DocumentId)
		msg.Ack()
		return
	}

	res, err := s.embeddingProvider.Generate(ctx, document.Content, "RETRIEVAL_DOCUMENT")
	if err != nil {
		log.Printf("[ERROR] Failed to generate embedding for document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}

	if err := s.documents.UpdateEmbedding(ctx, document.Id, res.Embedding.Values); err != nil {
		log.Printf("[ERROR] Failed to store embedding for document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Document %s indexed (%d dimensions)", payload.DocumentId, len(res.Embedding.Values))
	msg.Ack()
}
