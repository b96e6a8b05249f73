package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pawsteps/pawsteps-backend/internal/dto"
	"github.com/pawsteps/pawsteps-backend/internal/middleware"
	"github.com/pawsteps/pawsteps-backend/internal/services"
)

type TrainingHandler struct {
	training *services.TrainingService
}

func NewTrainingHandler(training *services.TrainingService) *TrainingHandler {
	return &TrainingHandler{training: training}
}

func (h *TrainingHandler) ListSessions(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var dogID *uuid.UUID
	if raw := c.Query("dogId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid dog id")
		}
		dogID = &id
	}

	sessions, err := h.training.ListSessions(userID, dogID)
	if err != nil {
		return internalError(c, "Failed to fetch sessions")
	}
	return c.JSON(sessions)
}

func (h *TrainingHandler) CreateSession(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	session, err := h.training.CreateSession(userID, &req, c.IP())
	if err != nil {
		if errors.Is(err, services.ErrDogNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Dog not found",
			})
		}
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *TrainingHandler) UpdateSession(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid session id")
	}

	var req dto.UpdateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	session, err := h.training.UpdateSession(userID, sessionID, &req, c.IP())
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Session not found",
			})
		}
		return badRequest(c, err.Error())
	}
	return c.JSON(session)
}

func (h *TrainingHandler) ListSkillProgress(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var dogID *uuid.UUID
	if raw := c.Query("dogId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid dog id")
		}
		dogID = &id
	}

	progress, err := h.training.ListSkillProgress(userID, dogID)
	if err != nil {
		return internalError(c, "Failed to fetch progress")
	}
	return c.JSON(progress)
}

func (h *TrainingHandler) UpsertSkillProgress(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.UpdateSkillProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	progress, err := h.training.UpsertSkillProgress(userID, &req, c.IP())
	if err != nil {
		if errors.Is(err, services.ErrDogNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Dog not found",
			})
		}
		return badRequest(c, err.Error())
	}
	return c.JSON(progress)
}

func (h *TrainingHandler) ListContent(c *fiber.Ctx) error {
	content, err := h.training.ListContent(c.Query("category"), c.Query("difficulty"))
	if err != nil {
		return internalError(c, "Failed to fetch content")
	}
	return c.JSON(content)
}

func (h *TrainingHandler) UpsertContentProgress(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	contentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid content id")
	}

	var req dto.UpdateContentProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	progress, err := h.training.UpsertContentProgress(userID, contentID, &req, c.IP())
	if err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Content not found",
			})
		}
		return badRequest(c, err.Error())
	}
	return c.JSON(progress)
}

func (h *TrainingHandler) GetStats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	stats, err := h.training.Stats(userID)
	if err != nil {
		return internalError(c, "Failed to fetch stats")
	}
	return c.JSON(stats)
}

// --- admin content management ---

func (h *TrainingHandler) CreateContent(c *fiber.Ctx) error {
	var req dto.ContentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	content, err := h.training.CreateContent(&req)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(content)
}

func (h *TrainingHandler) UpdateContent(c *fiber.Ctx) error {
	contentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid content id")
	}

	var req dto.ContentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	content, err := h.training.UpdateContent(contentID, &req)
	if err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Content not found",
			})
		}
		return badRequest(c, err.Error())
	}
	return c.JSON(content)
}

func (h *TrainingHandler) DeactivateContent(c *fiber.Ctx) error {
	contentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid content id")
	}

	if err := h.training.DeactivateContent(contentID); err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Content not found",
			})
		}
		return internalError(c, "Failed to deactivate content")
	}
	return c.JSON(fiber.Map{"message": "Content deactivated"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}

func internalError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}
