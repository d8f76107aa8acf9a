package service

import (
	"context"
	"encoding/json"
	"log"

	"agency-ops-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the reindex topic and re-embeds documents whose raw
// text changed. Runs for the lifetime of the process.
type consumerService struct {
	pubSub           *gochannel.GoChannel
	topicName        string
	knowledgeService IKnowledgeService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	knowledgeService IKnowledgeService,
) IConsumerService {
	return &consumerService{
		pubSub:           pubSub,
		topicName:        topicName,
		knowledgeService: knowledgeService,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ReindexDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal reindex message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Reindexing document %s", payload.DocumentId)

	if err := cs.knowledgeService.ReindexDocument(ctx, payload.DocumentId); err != nil {
		log.Printf("[ERROR] Failed to reindex document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Document reindexed: %s", payload.DocumentId)
	msg.Ack()
}
