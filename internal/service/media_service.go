package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/487058267/agent-cross-discipline/internal/dto"
	"github.com/487058267/agent-cross-discipline/internal/pkg/logger"
	"github.com/487058267/agent-cross-discipline/pkg/apierr"
	"github.com/487058267/agent-cross-discipline/pkg/events"
	"github.com/487058267/agent-cross-discipline/pkg/media"
	"github.com/487058267/agent-cross-discipline/pkg/session"
)

const (
	mediaModule = "MEDIA"

	MinMediaCount = 1
	MaxMediaCount = 10
)

type IMediaService interface {
	// RecommendForSession searches media for a named section of a session, or
	// for req.Query when one is given.
	RecommendForSession(ctx context.Context, req *dto.RecommendMediaRequest) (*dto.RecommendMediaResponse, error)
	// Recommend searches media for a free-text query.
	Recommend(ctx context.Context, req *dto.RecommendMediaRequest) (*dto.RecommendMediaResponse, error)
}

// MediaOptions tunes the media service.
type MediaOptions struct {
	Timeout      time.Duration
	DefaultCount int
	CacheTTL     time.Duration
}

type mediaService struct {
	images    media.ImageSearcher
	videos    media.VideoSearcher
	generator LessonGenerator
	sessions  *session.Manager
	notifier  *notifier
	results   *cache.Cache
	opts      MediaOptions
	logger    logger.ILogger
}

type mediaResult struct {
	images []media.Image
	videos []media.Video
}

func NewMediaService(
	images media.ImageSearcher,
	videos media.VideoSearcher,
	generator LessonGenerator,
	sessions *session.Manager,
	artifacts IPublisherService,
	eventPublisher EventPublisher,
	opts MediaOptions,
	log logger.ILogger,
) IMediaService {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.DefaultCount < MinMediaCount || opts.DefaultCount > MaxMediaCount {
		opts.DefaultCount = 3
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}
	return &mediaService{
		images:    images,
		videos:    videos,
		generator: generator,
		sessions:  sessions,
		notifier:  newNotifier(artifacts, eventPublisher, log),
		results:   cache.New(opts.CacheTTL, 2*opts.CacheTTL),
		opts:      opts,
		logger:    log,
	}
}

func (s *mediaService) RecommendForSession(ctx context.Context, req *dto.RecommendMediaRequest) (*dto.RecommendMediaResponse, error) {
	sess, err := s.sessions.Get(ctx, req.SessionId)
	if err != nil {
		return nil, err
	}

	query := strings.TrimSpace(req.Query)
	sectionName := ""
	if query == "" {
		section, ok := sess.Sections.Find(req.SectionName)
		if !ok {
			return nil, &apierr.SectionNotFoundError{
				Section:   req.SectionName,
				Available: sess.Sections.Names(),
			}
		}
		sectionName = section.Name
		query = s.generator.ExtractKeywords(ctx, section.Body, section.Name)
		if query == "" {
			return nil, apierr.Invalid("section %q has no searchable content", section.Name)
		}
	}

	res, err := s.search(ctx, req, query)
	if err != nil {
		return nil, err
	}
	res.SessionId = sess.ID
	res.Section = sectionName

	s.record(ctx, res)
	return res, nil
}

func (s *mediaService) Recommend(ctx context.Context, req *dto.RecommendMediaRequest) (*dto.RecommendMediaResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, apierr.Invalid("query is required")
	}

	res, err := s.search(ctx, req, query)
	if err != nil {
		return nil, err
	}
	s.record(ctx, res)
	return res, nil
}

func (s *mediaService) search(ctx context.Context, req *dto.RecommendMediaRequest, query string) (*dto.RecommendMediaResponse, error) {
	mediaType := strings.ToLower(strings.TrimSpace(req.MediaType))
	if mediaType == "" {
		mediaType = media.TypeAll
	}
	if mediaType != media.TypeImage && mediaType != media.TypeVideo && mediaType != media.TypeAll {
		return nil, apierr.Invalid("invalid media type %q", req.MediaType)
	}

	count := req.Count
	if count == 0 {
		count = s.opts.DefaultCount
	}
	if count < MinMediaCount || count > MaxMediaCount {
		return nil, apierr.Invalid("count must be between %d and %d", MinMediaCount, MaxMediaCount)
	}

	result, err := s.fetch(ctx, mediaType, query, count)
	if err != nil {
		return nil, err
	}

	return &dto.RecommendMediaResponse{
		Query:     query,
		MediaType: mediaType,
		Images:    result.images,
		Videos:    result.videos,
	}, nil
}

func cacheKey(mediaType, query string, count int) string {
	return fmt.Sprintf("%s|%d|%s", mediaType, count, strings.ToLower(query))
}

func (s *mediaService) fetch(ctx context.Context, mediaType, query string, count int) (mediaResult, error) {
	key := cacheKey(mediaType, query, count)
	if cached, ok := s.results.Get(key); ok {
		return cached.(mediaResult), nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	var (
		result             mediaResult
		imageErr, videoErr error
	)

	// both searches run to completion; one failing must not cancel the other
	var g errgroup.Group
	if mediaType == media.TypeImage || mediaType == media.TypeAll {
		g.Go(func() error {
			result.images, imageErr = s.images.SearchImages(ctx, query, count)
			return imageErr
		})
	}
	if mediaType == media.TypeVideo || mediaType == media.TypeAll {
		g.Go(func() error {
			result.videos, videoErr = s.videos.SearchVideos(ctx, query, count)
			return videoErr
		})
	}
	err := g.Wait()

	switch {
	case err == nil:
	case mediaType == media.TypeAll && (imageErr == nil || videoErr == nil):
		// partial result is still useful
		s.logger.Warn(mediaModule, "one media source failed", map[string]interface{}{
			"query":       query,
			"image_error": errString(imageErr),
			"video_error": errString(videoErr),
		})
	default:
		s.logger.Error(mediaModule, "media search failed", map[string]interface{}{
			"query":      query,
			"media_type": mediaType,
			"error":      err.Error(),
		})
		return mediaResult{}, err
	}

	if err == nil {
		s.results.Set(key, result, cache.DefaultExpiration)
	}
	return result, nil
}

func (s *mediaService) record(ctx context.Context, res *dto.RecommendMediaResponse) {
	s.logger.Info(mediaModule, "media recommended", map[string]interface{}{
		"session_id": res.SessionId,
		"section":    res.Section,
		"query":      res.Query,
		"images":     len(res.Images),
		"videos":     len(res.Videos),
	})

	if res.SessionId == "" {
		return
	}

	var sb strings.Builder
	for _, img := range res.Images {
		sb.WriteString(fmt.Sprintf("image: %s (%s) %s\n", img.URL, img.Photographer, img.Link))
	}
	for _, v := range res.Videos {
		sb.WriteString(fmt.Sprintf("video: %s %s\n", v.Title, v.URL))
	}
	s.notifier.artifact(ctx, ArtifactMedia, res.SessionId, map[string]string{
		"section":    res.Section,
		"query":      res.Query,
		"media_type": res.MediaType,
	}, sb.String())
	s.notifier.event(ctx, events.TypeMediaRecommended, map[string]interface{}{
		"session_id": res.SessionId,
		"section":    res.Section,
		"query":      res.Query,
		"images":     len(res.Images),
		"videos":     len(res.Videos),
	})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
