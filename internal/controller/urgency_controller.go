package controller

import (
	"ai-helpdesk-be/internal/dto"
	"ai-helpdesk-be/internal/pkg/serverutils"
	"ai-helpdesk-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUrgencyController interface {
	RegisterRoutes(r fiber.Router)
	Detect(ctx *fiber.Ctx) error
}

type urgencyController struct {
	service service.IUrgencyService
}

func NewUrgencyController(service service.IUrgencyService) IUrgencyController {
	return &urgencyController{service: service}
}

func (c *urgencyController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/urgency/v1")
	h.Post("/detect", c.Detect)
}

func (c *urgencyController) Detect(ctx *fiber.Ctx) error {
	var req dto.DetectUrgencyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Detect(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success detect urgency", res))
}
