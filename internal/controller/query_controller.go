package controller

import (
	"ai-helpdesk-be/internal/dto"
	"ai-helpdesk-be/internal/pkg/serverutils"
	"ai-helpdesk-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IQueryController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
	VoiceSearch(ctx *fiber.Ctx) error
	ResetChat(ctx *fiber.Ctx) error
}

type queryController struct {
	service service.IQueryService
}

func NewQueryController(service service.IQueryService) IQueryController {
	return &queryController{service: service}
}

func (c *queryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/query/v1")
	h.Post("/search", c.Search)
	h.Post("/voice-search", c.VoiceSearch)

	chat := r.Group("/chat/v1")
	chat.Post("/reset", c.ResetChat)
}

func (c *queryController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Search(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process query", res))
}

// VoiceSearch is Search with speech synthesis forced on.
func (c *queryController) VoiceSearch(ctx *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.GenerateSpeech = true

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Search(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process voice query", res))
}

func (c *queryController) ResetChat(ctx *fiber.Ctx) error {
	var req dto.ResetChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.ResetChat(ctx.Context(), req.SessionId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reset chat session", nil))
}
