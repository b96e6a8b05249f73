package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pawsteps/pawsteps-backend/internal/config"
	"github.com/pawsteps/pawsteps-backend/internal/dto"
	"github.com/pawsteps/pawsteps-backend/internal/models"
	stripe "github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

var (
	ErrNoCustomer         = errors.New("user has no billing customer record")
	ErrCheckoutIncomplete = errors.New("checkout session could not be verified")
)

// BillingService wraps the payment provider's hosted checkout and portal
// flows. Local state only changes in CompleteCheckout, and only after the
// provider confirms a succeeded payment.
type BillingService struct {
	db      *gorm.DB
	cfg     *config.Config
	gw      StripeGateway
	account *AccountService
}

func NewBillingService(db *gorm.DB, cfg *config.Config, gw StripeGateway, account *AccountService) *BillingService {
	return &BillingService{db: db, cfg: cfg, gw: gw, account: account}
}

func (s *BillingService) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.cfg.BillingTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// ensureCustomer returns the user's Stripe customer id, creating and
// persisting one on first use.
func (s *BillingService) ensureCustomer(ctx context.Context, user *models.User) (string, error) {
	if user.StripeCustomerID != "" {
		return user.StripeCustomerID, nil
	}

	customer, err := s.gw.CreateCustomer(ctx, user.Email, user.Name, user.ID.String())
	if err != nil {
		return "", fmt.Errorf("failed to create billing customer: %w", err)
	}

	if err := s.db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("stripe_customer_id", customer.ID).Error; err != nil {
		return "", fmt.Errorf("failed to persist customer id: %w", err)
	}
	user.StripeCustomerID = customer.ID
	return customer.ID, nil
}

// CreateLifetimeCheckout requests a one-time-payment hosted checkout page
// and returns its URL.
func (s *BillingService) CreateLifetimeCheckout(ctx context.Context, user *models.User, priceID string) (string, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	customerID, err := s.ensureCustomer(ctx, user)
	if err != nil {
		return "", err
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		Mode:                stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:          stripe.String(s.cfg.BaseURL + "/api/stripe/checkout?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:           stripe.String(s.cfg.BaseURL + "/pricing"),
		Customer:            stripe.String(customerID),
		ClientReferenceID:   stripe.String(user.ID.String()),
		AllowPromotionCodes: stripe.Bool(true),
	}

	session, err := s.gw.CreateCheckoutSession(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return session.URL, nil
}

// CreatePortalSession returns a hosted billing-portal URL, reusing the
// first existing portal configuration or creating a minimal one.
func (s *BillingService) CreatePortalSession(ctx context.Context, user *models.User) (string, error) {
	if user.StripeCustomerID == "" {
		return "", ErrNoCustomer
	}

	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	configs, err := s.gw.ListPortalConfigurations(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list portal configurations: %w", err)
	}

	var configuration *stripe.BillingPortalConfiguration
	if len(configs) > 0 {
		configuration = configs[0]
	} else {
		configuration, err = s.gw.CreatePortalConfiguration(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to create portal configuration: %w", err)
		}
	}

	session, err := s.gw.CreatePortalSession(ctx, user.StripeCustomerID, s.cfg.BaseURL+"/dashboard", configuration.ID)
	if err != nil {
		return "", fmt.Errorf("failed to create portal session: %w", err)
	}
	return session.URL, nil
}

// CompleteCheckout handles the success-callback redirect. It verifies the
// session with the provider before touching local state, and applying the
// same session twice is a no-op beyond re-setting the same values.
func (s *BillingService) CompleteCheckout(ctx context.Context, sessionID string) (*models.User, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	session, err := s.gw.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCheckoutIncomplete, err)
	}

	if session.Customer == nil {
		return nil, fmt.Errorf("%w: no customer on session", ErrCheckoutIncomplete)
	}

	paymentIntent := session.PaymentIntent
	if paymentIntent == nil {
		return nil, fmt.Errorf("%w: no payment intent on session", ErrCheckoutIncomplete)
	}
	if paymentIntent.Status != stripe.PaymentIntentStatusSucceeded {
		// Re-check with the provider in case the expansion is stale.
		paymentIntent, err = s.gw.GetPaymentIntent(ctx, paymentIntent.ID)
		if err != nil || paymentIntent.Status != stripe.PaymentIntentStatusSucceeded {
			return nil, fmt.Errorf("%w: payment not succeeded", ErrCheckoutIncomplete)
		}
	}

	if session.ClientReferenceID == "" {
		return nil, fmt.Errorf("%w: no client reference on session", ErrCheckoutIncomplete)
	}
	userID, err := uuid.Parse(session.ClientReferenceID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad client reference", ErrCheckoutIncomplete)
	}

	user, err := s.account.GetUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCheckoutIncomplete, err)
	}

	alreadyApplied := user.HasLifetimeAccess && user.StripePaymentIntentID == paymentIntent.ID

	now := time.Now()
	updates := map[string]interface{}{
		"has_lifetime_access":      true,
		"stripe_payment_intent_id": paymentIntent.ID,
		"purchase_date":            now,
	}
	if user.StripeCustomerID == "" {
		updates["stripe_customer_id"] = session.Customer.ID
	}
	if err := s.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to record lifetime access: %w", err)
	}

	if !alreadyApplied {
		s.account.LogActivity(user.ID, models.ActivityPurchaseLifetimeAccess, "", map[string]interface{}{
			"payment_intent_id": paymentIntent.ID,
		})
		slog.Info("lifetime access granted", "user_id", user.ID, "payment_intent_id", paymentIntent.ID)
	}

	user.HasLifetimeAccess = true
	user.StripePaymentIntentID = paymentIntent.ID
	user.PurchaseDate = &now
	return user, nil
}

// ListPricing returns active one-time prices and products for the pricing
// surface.
func (s *BillingService) ListPricing(ctx context.Context) (*dto.PricingResponse, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	prices, err := s.gw.ListOneTimePrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	products, err := s.gw.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	resp := &dto.PricingResponse{}
	for _, p := range prices {
		info := dto.PriceInfo{ID: p.ID, UnitAmount: p.UnitAmount, Currency: string(p.Currency)}
		if p.Product != nil {
			info.ProductID = p.Product.ID
		}
		resp.Prices = append(resp.Prices, info)
	}
	for _, p := range products {
		info := dto.ProductInfo{ID: p.ID, Name: p.Name, Description: p.Description}
		if p.DefaultPrice != nil {
			info.DefaultPriceID = p.DefaultPrice.ID
		}
		resp.Products = append(resp.Products, info)
	}
	return resp, nil
}
