package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/487058267/agent-cross-discipline/internal/dto"
	"github.com/487058267/agent-cross-discipline/internal/pkg/serverutils"
	"github.com/487058267/agent-cross-discipline/internal/service"
	"github.com/487058267/agent-cross-discipline/pkg/apierr"
)

type IMediaController interface {
	RegisterRoutes(r fiber.Router)
	RecommendForSession(ctx *fiber.Ctx) error
	Recommend(ctx *fiber.Ctx) error
}

type mediaController struct {
	service service.IMediaService
}

func NewMediaController(service service.IMediaService) IMediaController {
	return &mediaController{service: service}
}

func (c *mediaController) RegisterRoutes(r fiber.Router) {
	r.Post("/recommend-media", c.Recommend)
	r.Post("/recommend-media/:session_id", c.RecommendForSession)
}

func (c *mediaController) RecommendForSession(ctx *fiber.Ctx) error {
	var req dto.RecommendMediaRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apierr.Invalid("invalid request body: %v", err)
	}
	req.SessionId = ctx.Params("session_id")

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.RecommendForSession(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success recommend media", res))
}

func (c *mediaController) Recommend(ctx *fiber.Ctx) error {
	var req dto.RecommendMediaRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apierr.Invalid("invalid request body: %v", err)
	}
	if req.Query == "" {
		return apierr.Invalid("query is required")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Recommend(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success recommend media", res))
}
