package dto

import (
	"time"

	"github.com/487058267/agent-cross-discipline/pkg/media"
)

type RecommendMediaRequest struct {
	SessionId   string
	SectionName string `json:"section_name" validate:"required_without=Query"`
	Query       string `json:"query"`
	MediaType   string `json:"media_type" validate:"omitempty,oneof=image video all"`
	Count       int    `json:"count" validate:"omitempty,min=1,max=10"`
}

type RecommendMediaResponse struct {
	SessionId string        `json:"session_id,omitempty"`
	Section   string        `json:"section,omitempty"`
	Query     string        `json:"query"`
	MediaType string        `json:"media_type"`
	Images    []media.Image `json:"images,omitempty"`
	Videos    []media.Video `json:"videos,omitempty"`
}

// ArtifactMessage is the async payload for exporting one action to disk.
type ArtifactMessage struct {
	Kind      string            `json:"kind"`
	SessionId string            `json:"session_id"`
	Metadata  map[string]string `json:"metadata"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"created_at"`
}
