package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/pawsteps/pawsteps-backend/internal/dto"
	"github.com/pawsteps/pawsteps-backend/internal/models"
	"github.com/pawsteps/pawsteps-backend/internal/services"
)

type AuthHandler struct {
	account *services.AccountService
	auth    *services.AuthService
	billing *services.BillingService
}

func NewAuthHandler(account *services.AccountService, auth *services.AuthService, billing *services.BillingService) *AuthHandler {
	return &AuthHandler{account: account, auth: auth, billing: billing}
}

func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	result, err := h.account.SignUp(&req, c.IP())
	if err != nil {
		if errors.Is(err, services.ErrAlreadyRegistered) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrInvalidInvitation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	resp := dto.AuthResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
	}

	if !result.Provisioned {
		// Identity exists but local rows are incomplete; ResolveUser will
		// finish the job on next sign-in.
		resp.RedirectTo = "/pricing"
		return c.Status(fiber.StatusCreated).JSON(resp)
	}

	resp.User = userSummary(result.User)
	resp.RedirectTo = h.resolveRedirect(c, result.User, req.Redirect, req.PriceID)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	user, pair, err := h.account.SignIn(&req, c.IP())
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrUserDeleted) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid email or password",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         userSummary(user),
		RedirectTo:   h.resolveRedirect(c, user, req.Redirect, req.PriceID),
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	identity, pair, err := h.auth.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	resp := dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		RedirectTo:   "/dashboard",
	}
	if user, err := h.account.ResolveUser(identity); err == nil {
		resp.User = userSummary(user)
	}
	return c.JSON(resp)
}

// SignOut always reports success so the client can clear its state.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	var req dto.SignOutRequest
	if err := c.BodyParser(&req); err == nil && req.RefreshToken != "" {
		if err := h.auth.SignOut(req.RefreshToken); err != nil {
			slog.Error("sign-out token revocation failed", "error", err)
		}
	}
	return c.JSON(fiber.Map{"success": true})
}

// resolveRedirect applies the priority order: explicit checkout handoff,
// explicit redirect, pricing for users without lifetime access, dashboard.
func (h *AuthHandler) resolveRedirect(c *fiber.Ctx, user *models.User, redirect, priceID string) string {
	if redirect == "checkout" && priceID != "" {
		url, err := h.billing.CreateLifetimeCheckout(c.Context(), user, priceID)
		if err != nil {
			slog.Error("checkout handoff failed", "user_id", user.ID, "error", err)
			return "/pricing"
		}
		return url
	}
	if redirect != "" {
		return redirect
	}
	if priceID != "" {
		return "/pricing?priceId=" + priceID
	}
	if !user.HasLifetimeAccess {
		return "/pricing"
	}
	return "/dashboard"
}

func userSummary(user *models.User) dto.UserSummary {
	return dto.UserSummary{
		ID:                user.ID,
		Email:             user.Email,
		Name:              user.Name,
		HasLifetimeAccess: user.HasLifetimeAccess,
	}
}
