package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/487058267/agent-cross-discipline/internal/dto"
	"github.com/487058267/agent-cross-discipline/internal/pkg/logger"
	"github.com/487058267/agent-cross-discipline/internal/repository/memory"
	"github.com/487058267/agent-cross-discipline/pkg/apierr"
	"github.com/487058267/agent-cross-discipline/pkg/events"
	"github.com/487058267/agent-cross-discipline/pkg/lesson/segmenter"
	"github.com/487058267/agent-cross-discipline/pkg/media"
	"github.com/487058267/agent-cross-discipline/pkg/session"
	"github.com/487058267/agent-cross-discipline/pkg/store"
)

type mediaFixture struct {
	svc       IMediaService
	gen       *fakeGenerator
	images    *fakeImages
	videos    *fakeVideos
	artifacts *recordingPublisher
	events    *recordingEvents
}

func newMediaFixture(t *testing.T) *mediaFixture {
	t.Helper()
	sessions := session.NewManager(memory.NewSessionRepository())
	_, err := sessions.Create(context.Background(), "s1", fivePartPlan, segmenter.Segment(fivePartPlan), store.HistoryEntry{
		ActionKind: store.ActionCreate,
	})
	require.NoError(t, err)

	f := &mediaFixture{
		gen: &fakeGenerator{keyword: "balloon rockets"},
		images: &fakeImages{images: []media.Image{
			{URL: "https://img/1.jpg", Photographer: "Ann", Link: "https://p/1"},
			{URL: "https://img/2.jpg", Photographer: "Bo", Link: "https://p/2"},
			{URL: "https://img/3.jpg", Photographer: "Cy", Link: "https://p/3"},
			{URL: "https://img/4.jpg", Photographer: "Di", Link: "https://p/4"},
		}},
		videos:    &fakeVideos{videos: []media.Video{{Title: "Rockets", VideoID: "v1"}}},
		artifacts: &recordingPublisher{},
		events:    &recordingEvents{},
	}
	f.svc = NewMediaService(f.images, f.videos, f.gen, sessions, f.artifacts, f.events, MediaOptions{}, logger.NewNop())
	return f
}

func TestRecommendForSection(t *testing.T) {
	f := newMediaFixture(t)

	res, err := f.svc.RecommendForSession(context.Background(), &dto.RecommendMediaRequest{
		SessionId:   "s1",
		SectionName: "procedure",
		MediaType:   "image",
	})
	require.NoError(t, err)

	assert.Equal(t, "Procedure", res.Section)
	assert.Equal(t, "balloon rockets", res.Query)
	assert.Equal(t, "balloon rockets", f.images.query)
	assert.Len(t, res.Images, 3, "default count")
	assert.Empty(t, res.Videos)
	assert.Equal(t, 0, f.videos.calls)
	assert.Equal(t, []string{"Procedure"}, f.gen.keywordArgs)

	require.Len(t, f.artifacts.messages, 1)
	assert.Equal(t, ArtifactMedia, f.artifacts.messages[0].Kind)
	assert.Equal(t, []string{events.TypeMediaRecommended}, f.events.types())
}

func TestRecommendForSessionExplicitQuery(t *testing.T) {
	f := newMediaFixture(t)

	res, err := f.svc.RecommendForSession(context.Background(), &dto.RecommendMediaRequest{
		SessionId: "s1",
		Query:     "water cycle",
		MediaType: "video",
	})
	require.NoError(t, err)
	assert.Equal(t, "water cycle", res.Query)
	assert.Empty(t, f.gen.keywordArgs)
	assert.Len(t, res.Videos, 1)
}

func TestRecommendUnknownSection(t *testing.T) {
	f := newMediaFixture(t)

	_, err := f.svc.RecommendForSession(context.Background(), &dto.RecommendMediaRequest{
		SessionId:   "s1",
		SectionName: "Homework",
	})

	var notFound *apierr.SectionNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, segmenter.CanonicalOrder, notFound.Available)
	assert.Equal(t, 0, f.images.calls)
}

func TestRecommendUnknownSession(t *testing.T) {
	f := newMediaFixture(t)

	_, err := f.svc.RecommendForSession(context.Background(), &dto.RecommendMediaRequest{
		SessionId:   "missing",
		SectionName: "Procedure",
	})
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestRecommendAllRunsBothAndCaches(t *testing.T) {
	f := newMediaFixture(t)
	req := &dto.RecommendMediaRequest{Query: "Forces", MediaType: "all", Count: 2}

	res, err := f.svc.Recommend(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, res.Images, 2)
	assert.Len(t, res.Videos, 1)

	// same query, different case: served from cache
	_, err = f.svc.Recommend(context.Background(), &dto.RecommendMediaRequest{Query: "forces", MediaType: "all", Count: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, f.images.calls)
	assert.Equal(t, 1, f.videos.calls)

	// free-text searches are not tied to a session
	assert.Empty(t, f.artifacts.messages)
}

func TestRecommendAllPartialFailure(t *testing.T) {
	f := newMediaFixture(t)
	f.videos.err = apierr.Upstream("quota")

	res, err := f.svc.Recommend(context.Background(), &dto.RecommendMediaRequest{Query: "forces"})
	require.NoError(t, err)
	assert.Equal(t, media.TypeAll, res.MediaType)
	assert.Len(t, res.Images, 3)
	assert.Empty(t, res.Videos)

	// partial results are not cached
	f.videos.err = nil
	res, err = f.svc.Recommend(context.Background(), &dto.RecommendMediaRequest{Query: "forces"})
	require.NoError(t, err)
	assert.Len(t, res.Videos, 1)
}

func TestRecommendErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.RecommendMediaRequest
		imgErr  error
		wantErr error
	}{
		{"missing query", dto.RecommendMediaRequest{}, nil, apierr.ErrInvalidArgument},
		{"bad type", dto.RecommendMediaRequest{Query: "q", MediaType: "audio"}, nil, apierr.ErrInvalidArgument},
		{"count too high", dto.RecommendMediaRequest{Query: "q", Count: 11}, nil, apierr.ErrInvalidArgument},
		{"count negative", dto.RecommendMediaRequest{Query: "q", Count: -1}, nil, apierr.ErrInvalidArgument},
		{"image upstream", dto.RecommendMediaRequest{Query: "q", MediaType: "image"}, apierr.Upstream("401"), apierr.ErrUpstream},
		{"image transport", dto.RecommendMediaRequest{Query: "q", MediaType: "image"}, apierr.Transport("pexels", context.DeadlineExceeded), apierr.ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMediaFixture(t)
			f.images.err = tt.imgErr
			req := tt.req
			_, err := f.svc.Recommend(context.Background(), &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
