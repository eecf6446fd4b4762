package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/487058267/agent-cross-discipline/internal/dto"
	"github.com/487058267/agent-cross-discipline/pkg/events"
	"github.com/487058267/agent-cross-discipline/pkg/lesson"
	"github.com/487058267/agent-cross-discipline/pkg/lesson/orchestrator"
	"github.com/487058267/agent-cross-discipline/pkg/media"
)

const fivePartPlan = `## 1. Objectives
- Explain Newton's third law

## 2. Cross-disciplinary Links
- Math: vectors

## 3. Procedure
- Build balloon rockets

## 4. Assessment
- Exit ticket

## 5. Extension
- Design a water rocket`

type fakeGenerator struct {
	mu          sync.Mutex
	createDoc   string
	createErr   error
	modifyFn    func(document, section, instructions string) (string, error)
	keyword     string
	createCalls int
	modifyCalls []string
	keywordArgs []string
}

func (f *fakeGenerator) Create(ctx context.Context, params lesson.Params) (*orchestrator.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &orchestrator.Draft{Initial: "draft", Document: f.createDoc}, nil
}

func (f *fakeGenerator) Modify(ctx context.Context, document, section, instructions string) (string, error) {
	f.mu.Lock()
	f.modifyCalls = append(f.modifyCalls, section)
	fn := f.modifyFn
	f.mu.Unlock()
	return fn(document, section, instructions)
}

func (f *fakeGenerator) ExtractKeywords(ctx context.Context, body, name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keywordArgs = append(f.keywordArgs, name)
	return f.keyword
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []dto.ArtifactMessage
}

func (r *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	var msg dto.ArtifactMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return err
	}
	r.mu.Lock()
	r.messages = append(r.messages, msg)
	r.mu.Unlock()
	return nil
}

type recordingEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingEvents) Publish(ctx context.Context, event events.Event) error {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	return nil
}

func (r *recordingEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

type fakeImages struct {
	mu     sync.Mutex
	images []media.Image
	err    error
	calls  int
	query  string
}

func (f *fakeImages) SearchImages(ctx context.Context, query string, count int) ([]media.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.query = query
	if f.err != nil {
		return nil, f.err
	}
	if count < len(f.images) {
		return f.images[:count], nil
	}
	return f.images, nil
}

type fakeVideos struct {
	mu     sync.Mutex
	videos []media.Video
	err    error
	calls  int
}

func (f *fakeVideos) SearchVideos(ctx context.Context, query string, count int) ([]media.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.videos, nil
}
