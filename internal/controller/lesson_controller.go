package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/487058267/agent-cross-discipline/internal/dto"
	"github.com/487058267/agent-cross-discipline/internal/pkg/serverutils"
	"github.com/487058267/agent-cross-discipline/internal/service"
	"github.com/487058267/agent-cross-discipline/pkg/apierr"
)

type ILessonController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	Modify(ctx *fiber.Ctx) error
	Sections(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type lessonController struct {
	service service.ILessonService
}

func NewLessonController(service service.ILessonService) ILessonController {
	return &lessonController{service: service}
}

func (c *lessonController) RegisterRoutes(r fiber.Router) {
	r.Post("/generate-lesson", c.Generate)
	r.Post("/modify-lesson/:session_id", c.Modify)
	r.Get("/sessions/:session_id", c.Show)
	r.Get("/sessions/:session_id/sections", c.Sections)
}

func (c *lessonController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateLessonRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apierr.Invalid("invalid request body: %v", err)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Generate(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate lesson", res))
}

func (c *lessonController) Modify(ctx *fiber.Ctx) error {
	var req dto.ModifyLessonRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apierr.Invalid("invalid request body: %v", err)
	}
	req.SessionId = ctx.Params("session_id")

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Modify(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success modify lesson", res))
}

func (c *lessonController) Sections(ctx *fiber.Ctx) error {
	res, err := c.service.GetSections(ctx.UserContext(), ctx.Params("session_id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get sections", res))
}

func (c *lessonController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.GetSession(ctx.UserContext(), ctx.Params("session_id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}
