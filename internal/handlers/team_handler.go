package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pawsteps/pawsteps-backend/internal/dto"
	"github.com/pawsteps/pawsteps-backend/internal/middleware"
	"github.com/pawsteps/pawsteps-backend/internal/services"
)

type TeamHandler struct {
	teams *services.TeamService
}

func NewTeamHandler(teams *services.TeamService) *TeamHandler {
	return &TeamHandler{teams: teams}
}

func (h *TeamHandler) GetTeam(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	team, err := h.teams.GetTeamForUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrNoTeam) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User is not part of a team",
			})
		}
		return internalError(c, "Failed to fetch team")
	}
	return c.JSON(team)
}

func (h *TeamHandler) InviteMember(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.InviteMemberRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return badRequest(c, "Email is required")
	}
	if req.Role == "" {
		req.Role = "member"
	}

	invitation, err := h.teams.InviteTeamMember(userID, req.Email, req.Role, c.IP())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoTeam):
			return badRequest(c, "User is not part of a team")
		case errors.Is(err, services.ErrNotTeamOwner):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return badRequest(c, err.Error())
		}
	}
	return c.Status(fiber.StatusCreated).JSON(invitation)
}

func (h *TeamHandler) RemoveMember(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	memberID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid member id")
	}

	if err := h.teams.RemoveTeamMember(userID, memberID, c.IP()); err != nil {
		switch {
		case errors.Is(err, services.ErrNoTeam):
			return badRequest(c, "User is not part of a team")
		case errors.Is(err, services.ErrNotTeamOwner):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrMemberNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Team member not found",
			})
		default:
			return internalError(c, "Failed to remove team member")
		}
	}
	return c.JSON(fiber.Map{"success": "Team member removed successfully"})
}
