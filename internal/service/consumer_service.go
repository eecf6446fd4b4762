package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/487058267/agent-cross-discipline/internal/dto"
	"github.com/487058267/agent-cross-discipline/internal/pkg/logger"
	"github.com/487058267/agent-cross-discipline/pkg/artifact"
)

const consumerModule = "ARTIFACT"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// ArtifactWriter persists one artifact and returns where it went.
type ArtifactWriter interface {
	Write(a artifact.Artifact) (string, error)
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	writer     ArtifactWriter
	logger     logger.ILogger
}

// NewConsumerService builds the consumer that turns artifact messages into files.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	writer ArtifactWriter,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		writer:     writer,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.ArtifactMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error(consumerModule, "failed to unmarshal artifact message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Ack invalid messages to prevent infinite retry
		msg.Ack()
		return
	}

	path, err := cs.writer.Write(artifact.Artifact{
		Kind:      payload.Kind,
		SessionID: payload.SessionId,
		Metadata:  payload.Metadata,
		Content:   payload.Content,
		CreatedAt: payload.CreatedAt,
	})
	if err != nil {
		cs.logger.Error(consumerModule, "failed to write artifact", map[string]interface{}{
			"session_id": payload.SessionId,
			"kind":       payload.Kind,
			"error":      err.Error(),
		})
		// export is best effort; a retry would hit the same disk error
		msg.Ack()
		return
	}

	cs.logger.Info(consumerModule, "artifact written", map[string]interface{}{
		"session_id": payload.SessionId,
		"kind":       payload.Kind,
		"path":       path,
	})
	msg.Ack()
}
