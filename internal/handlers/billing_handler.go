package handlers

import (
	"errors"
	"log/slog"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/pawsteps/pawsteps-backend/internal/dto"
	"github.com/pawsteps/pawsteps-backend/internal/middleware"
	"github.com/pawsteps/pawsteps-backend/internal/services"
)

type BillingHandler struct {
	billing *services.BillingService
	account *services.AccountService
}

func NewBillingHandler(billing *services.BillingService, account *services.AccountService) *BillingHandler {
	return &BillingHandler{billing: billing, account: account}
}

// CreateCheckout hands the caller off to the hosted checkout page.
func (h *BillingHandler) CreateCheckout(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CheckoutRequest
	if err := c.BodyParser(&req); err != nil || req.PriceID == "" {
		return badRequest(c, "priceId is required")
	}

	user, err := h.account.GetUser(userID)
	if err != nil {
		return unauthorized(c)
	}

	checkoutURL, err := h.billing.CreateLifetimeCheckout(c.Context(), user, req.PriceID)
	if err != nil {
		slog.Error("checkout session creation failed", "user_id", userID, "error", err)
		return internalError(c, "Failed to create checkout session")
	}
	return c.JSON(dto.CheckoutResponse{URL: checkoutURL})
}

// CompleteCheckout handles the success-callback redirect from the hosted
// checkout page. The user has already paid, so validation failures send
// them back to pricing with an error flag instead of a hard error page.
func (h *BillingHandler) CompleteCheckout(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return c.Redirect("/pricing", fiber.StatusSeeOther)
	}

	user, err := h.billing.CompleteCheckout(c.Context(), sessionID)
	if err != nil {
		if !errors.Is(err, services.ErrCheckoutIncomplete) {
			slog.Error("checkout completion failed", "session_id", sessionID, "error", err)
		}
		return c.Redirect("/pricing?error=payment_processing", fiber.StatusSeeOther)
	}

	target := "/sign-in?success=payment_completed&email=" + url.QueryEscape(user.Email)
	return c.Redirect(target, fiber.StatusSeeOther)
}

func (h *BillingHandler) CreatePortalSession(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	user, err := h.account.GetUser(userID)
	if err != nil {
		return unauthorized(c)
	}

	portalURL, err := h.billing.CreatePortalSession(c.Context(), user)
	if err != nil {
		if errors.Is(err, services.ErrNoCustomer) {
			return c.JSON(dto.PortalResponse{URL: "/pricing"})
		}
		slog.Error("portal session creation failed", "user_id", userID, "error", err)
		return internalError(c, "Failed to create billing portal session")
	}
	return c.JSON(dto.PortalResponse{URL: portalURL})
}

func (h *BillingHandler) GetPricing(c *fiber.Ctx) error {
	pricing, err := h.billing.ListPricing(c.Context())
	if err != nil {
		slog.Error("pricing fetch failed", "error", err)
		return internalError(c, "Failed to fetch pricing")
	}
	return c.JSON(pricing)
}
