package controller

import (
	"strconv"

	"wolfpack-be/internal/dto"
	"wolfpack-be/internal/pkg/serverutils"
	"wolfpack-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ILocationController interface {
	RegisterRoutes(r fiber.Router)
	Verify(ctx *fiber.Ctx) error
	Nearest(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
}

type locationController struct {
	service service.ILocationService
}

func NewLocationController(service service.ILocationService) ILocationController {
	return &locationController{service: service}
}

func (c *locationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/location/v1")
	// Verification and listing run before the user has joined anything, so
	// they stay public. Creation is operator-only.
	h.Post("verify", c.Verify)
	h.Get("nearest", c.Nearest)
	h.Get("", c.List)

	admin := h.Group("")
	admin.Use(serverutils.JwtMiddleware)
	admin.Post("", c.Create)
}

func (c *locationController) Verify(ctx *fiber.Ctx) error {
	var req dto.VerifyLocationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Verify(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Location verified", res))
}

func (c *locationController) Nearest(ctx *fiber.Ctx) error {
	lat, latErr := strconv.ParseFloat(ctx.Query("latitude"), 64)
	lng, lngErr := strconv.ParseFloat(ctx.Query("longitude"), 64)
	if latErr != nil || lngErr != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse("latitude and longitude query parameters are required", "VALIDATION_FAILED"))
	}

	maxMeters, err := strconv.ParseFloat(ctx.Query("max_meters", "0"), 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse("max_meters must be a number", "VALIDATION_FAILED"))
	}

	res, err := c.service.FindNearest(ctx.Context(), lat, lng, maxMeters)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Nearest location", res))
}

func (c *locationController) List(ctx *fiber.Ctx) error {
	res, err := c.service.ListActive(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Active locations", res))
}

func (c *locationController) Create(ctx *fiber.Ctx) error {
	role, _ := ctx.Locals("role").(string)
	if role != "admin" {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse("admin role required", "PERMISSION_DENIED"))
	}

	var req dto.CreateLocationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Location created", res))
}
