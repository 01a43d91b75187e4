package controller

import (
	"wolfpack-be/internal/dto"
	"wolfpack-be/internal/pkg/serverutils"
	"wolfpack-be/internal/service"
	syncpkg "wolfpack-be/internal/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPackController interface {
	RegisterRoutes(r fiber.Router)
	Join(ctx *fiber.Ctx) error
	Leave(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
	CanJoin(ctx *fiber.Ctx) error
	ListMembers(ctx *fiber.Ctx) error
	Snapshot(ctx *fiber.Ctx) error
	SetPosition(ctx *fiber.Ctx) error
}

type packController struct {
	membershipService service.IMembershipService
	chatService       service.IChatService
	manager           *syncpkg.Manager
}

func NewPackController(membershipService service.IMembershipService, chatService service.IChatService, manager *syncpkg.Manager) IPackController {
	return &packController{
		membershipService: membershipService,
		chatService:       chatService,
		manager:           manager,
	}
}

func (c *packController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/pack/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("join", c.Join)
	h.Post("leave", c.Leave)
	h.Patch("profile", c.UpdateProfile)
	h.Get("can-join", c.CanJoin)
	h.Get("members", c.ListMembers)
	h.Get("snapshot", c.Snapshot)
	h.Put("position", c.SetPosition)
}

func (c *packController) Join(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromCtx(ctx)

	var req dto.JoinPackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.membershipService.Join(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Joined the pack", res))
}

func (c *packController) Leave(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromCtx(ctx)

	var req dto.LeavePackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.membershipService.Leave(ctx.Context(), userId, req.MemberId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Left the pack", fiber.Map{"member_id": req.MemberId}))
}

func (c *packController) UpdateProfile(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromCtx(ctx)

	var req dto.UpdatePackProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.membershipService.UpdateProfile(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Profile updated", res))
}

func (c *packController) CanJoin(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromCtx(ctx)

	locationId, err := uuid.Parse(ctx.Query("location_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse("location_id query parameter is required", "VALIDATION_FAILED"))
	}

	res, err := c.membershipService.CanJoin(ctx.Context(), userId, locationId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Eligibility checked", res))
}

func (c *packController) ListMembers(ctx *fiber.Ctx) error {
	locationId, err := uuid.Parse(ctx.Query("location_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse("location_id query parameter is required", "VALIDATION_FAILED"))
	}

	res, err := c.membershipService.ListMembers(ctx.Context(), locationId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Pack members", res))
}

// Snapshot returns the viewer's realtime state for a venue: members,
// visible messages, reactions, events, and projected member positions.
func (c *packController) Snapshot(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromCtx(ctx)

	locationId, err := uuid.Parse(ctx.Query("location_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse("location_id query parameter is required", "VALIDATION_FAILED"))
	}

	session, err := c.chatService.DefaultSession(ctx.Context(), locationId)
	if err != nil {
		return err
	}

	snap, err := c.manager.SnapshotFor(ctx.Context(), userId, locationId, session.Id)
	if err != nil {
		return err
	}

	positions := c.manager.Spatial().Project(snap.Members, userId)

	return ctx.JSON(serverutils.SuccessResponse("Pack snapshot", fiber.Map{
		"members":    snap.Members,
		"messages":   snap.Messages,
		"reactions":  snap.Reactions,
		"events":     snap.Events,
		"positions":  positions,
		"session_id": session.Id,
	}))
}

// SetPosition pins the caller's own marker on the venue floor view.
func (c *packController) SetPosition(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromCtx(ctx)

	type Request struct {
		X float64 `json:"x" validate:"min=0,max=1"`
		Y float64 `json:"y" validate:"min=0,max=1"`
	}
	var req Request
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	c.manager.Spatial().SetOwnPosition(userId, syncpkg.Position{X: req.X, Y: req.Y})

	return ctx.JSON(serverutils.SuccessResponse("Position updated", fiber.Map{"x": req.X, "y": req.Y}))
}
