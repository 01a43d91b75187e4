package controller

import (
	"wolfpack-be/internal/dto"
	"wolfpack-be/internal/pkg/serverutils"
	"wolfpack-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendMessage(ctx *fiber.Ctx) error
	ListMessages(ctx *fiber.Ctx) error
	DeleteMessage(ctx *fiber.Ctx) error
	FlagMessage(ctx *fiber.Ctx) error
	AddReaction(ctx *fiber.Ctx) error
	RemoveReaction(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("messages", c.SendMessage)
	h.Get("messages", c.ListMessages)
	h.Delete("messages/:id", c.DeleteMessage)
	h.Post("messages/:id/flag", c.FlagMessage)
	h.Post("messages/:id/reactions", c.AddReaction)
	h.Delete("messages/:id/reactions/:emoji", c.RemoveReaction)
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromCtx(ctx)

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendMessage(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Message sent", res))
}

func (c *chatController) ListMessages(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromCtx(ctx)

	var req dto.ListMessagesRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ListMessages(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Messages", res))
}

func (c *chatController) DeleteMessage(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromCtx(ctx)
	messageId, _ := uuid.Parse(ctx.Params("id"))

	if err := c.service.DeleteMessage(ctx.Context(), userId, messageId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Message deleted", fiber.Map{"id": messageId}))
}

func (c *chatController) FlagMessage(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromCtx(ctx)
	messageId, _ := uuid.Parse(ctx.Params("id"))

	if err := c.service.FlagMessage(ctx.Context(), userId, messageId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Message flagged", fiber.Map{"id": messageId}))
}

func (c *chatController) AddReaction(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromCtx(ctx)
	messageId, _ := uuid.Parse(ctx.Params("id"))

	var req dto.AddReactionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AddReaction(ctx.Context(), userId, messageId, req.Emoji)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Reaction added", res))
}

func (c *chatController) RemoveReaction(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromCtx(ctx)
	messageId, _ := uuid.Parse(ctx.Params("id"))
	emoji := ctx.Params("emoji")

	if err := c.service.RemoveReaction(ctx.Context(), userId, messageId, emoji); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Reaction removed", fiber.Map{"id": messageId, "emoji": emoji}))
}
