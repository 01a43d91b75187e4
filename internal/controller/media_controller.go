package controller

import (
	"wolfpack-be/internal/pkg/serverutils"
	"wolfpack-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMediaController interface {
	RegisterRoutes(r fiber.Router)
	UploadAvatar(ctx *fiber.Ctx) error
	UploadChatImage(ctx *fiber.Ctx) error
}

type mediaController struct {
	service service.IMediaService
}

func NewMediaController(service service.IMediaService) IMediaController {
	return &mediaController{service: service}
}

func (c *mediaController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/media/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("avatar", c.UploadAvatar)
	h.Post("chat-image", c.UploadChatImage)
}

func (c *mediaController) UploadAvatar(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromCtx(ctx)

	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse("multipart field 'file' is required", "VALIDATION_FAILED"))
	}

	res, err := c.service.UploadAvatar(ctx.Context(), userId, file)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Avatar uploaded", res))
}

func (c *mediaController) UploadChatImage(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromCtx(ctx)

	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse("multipart field 'file' is required", "VALIDATION_FAILED"))
	}

	res, err := c.service.UploadChatImage(ctx.Context(), userId, file)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat image uploaded", res))
}
