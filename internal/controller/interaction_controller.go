package controller

import (
	"wolfpack-be/internal/dto"
	"wolfpack-be/internal/pkg/serverutils"
	"wolfpack-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IInteractionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Revoke(ctx *fiber.Ctx) error
	Broadcast(ctx *fiber.Ctx) error
}

type interactionController struct {
	service service.IInteractionService
}

func NewInteractionController(service service.IInteractionService) IInteractionController {
	return &interactionController{service: service}
}

func (c *interactionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/interaction/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Delete(":id", c.Revoke)
	h.Post("broadcast", c.Broadcast)
}

func (c *interactionController) Create(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromCtx(ctx)

	var req dto.CreateInteractionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Interaction created", res))
}

func (c *interactionController) Revoke(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromCtx(ctx)
	interactionId, _ := uuid.Parse(ctx.Params("id"))

	if err := c.service.Revoke(ctx.Context(), userId, interactionId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Interaction revoked", fiber.Map{"id": interactionId}))
}

func (c *interactionController) Broadcast(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromCtx(ctx)
	role, _ := ctx.Locals("role").(string)

	var req dto.CreateBroadcastRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Broadcast(ctx.Context(), userId, role, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Broadcast sent", res))
}
