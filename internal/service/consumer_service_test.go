package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/487058267/agent-cross-discipline/internal/pkg/logger"
	"github.com/487058267/agent-cross-discipline/pkg/artifact"
	"github.com/487058267/agent-cross-discipline/pkg/events"
)

type recordingWriter struct {
	mu      sync.Mutex
	written []artifact.Artifact
	err     error
	done    chan struct{}
}

func (w *recordingWriter) Write(a artifact.Artifact) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	defer func() { w.done <- struct{}{} }()
	if w.err != nil {
		return "", w.err
	}
	w.written = append(w.written, a)
	return "outputs/" + artifact.FileName(a), nil
}

func TestArtifactPipeline(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	writer := &recordingWriter{done: make(chan struct{}, 4)}
	consumer := NewConsumerService(pubSub, "ARTIFACTS", writer, logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("ARTIFACTS", pubSub)
	n := newNotifier(publisher, nil, logger.NewNop())
	n.artifact(ctx, ArtifactCreate, "s1", map[string]string{"main_subject": "Physics"}, "## Objectives\nA")

	select {
	case <-writer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("artifact not written")
	}

	writer.mu.Lock()
	defer writer.mu.Unlock()
	require.Len(t, writer.written, 1)
	got := writer.written[0]
	assert.Equal(t, ArtifactCreate, got.Kind)
	assert.Equal(t, "s1", got.SessionID)
	assert.Equal(t, "Physics", got.Metadata["main_subject"])
	assert.Equal(t, "## Objectives\nA", got.Content)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestArtifactConsumerAcksBadPayloads(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	writer := &recordingWriter{done: make(chan struct{}, 4), err: errors.New("disk full")}
	consumer := NewConsumerService(pubSub, "ARTIFACTS", writer, logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	// undecodable payloads are acked without reaching the writer
	require.NoError(t, pubSub.Publish("ARTIFACTS", message.NewMessage(watermill.NewUUID(), []byte("not json"))))
	// write failures are acked too, so the next message still arrives
	require.NoError(t, pubSub.Publish("ARTIFACTS", message.NewMessage(watermill.NewUUID(), []byte(`{"kind":"modify","session_id":"s1"}`))))
	require.NoError(t, pubSub.Publish("ARTIFACTS", message.NewMessage(watermill.NewUUID(), []byte(`{"kind":"media","session_id":"s1"}`))))

	for i := 0; i < 2; i++ {
		select {
		case <-writer.done:
		case <-time.After(2 * time.Second):
			t.Fatal("consumer stalled")
		}
	}
	assert.Empty(t, writer.written)
}

func TestEventAuditHandle(t *testing.T) {
	svc := NewEventAuditService(nil, logger.NewNop()).(*eventAuditService)
	err := svc.Handle(context.Background(), events.New(events.TypeLessonCreated, map[string]interface{}{"session_id": "s1"}))
	assert.NoError(t, err)
}
