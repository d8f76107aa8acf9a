package service

import (
	"context"
	"encoding/json"
	"fmt"

	"agency-ops-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IReindexPublisherService interface {
	PublishReindex(ctx context.Context, documentId uuid.UUID) error
}

type reindexPublisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewReindexPublisherService(pubSub *gochannel.GoChannel, topicName string) IReindexPublisherService {
	return &reindexPublisherService{
		pubSub:    pubSub,
		topicName: topicName,
	}
}

func (p *reindexPublisherService) PublishReindex(ctx context.Context, documentId uuid.UUID) error {
	payload, err := json.Marshal(dto.ReindexDocumentMessage{DocumentId: documentId})
	if err != nil {
		return fmt.Errorf("marshal reindex message: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	return p.pubSub.Publish(p.topicName, msg)
}
