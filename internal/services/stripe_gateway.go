package services

import (
	"context"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// StripeGateway is the thin seam over the Stripe SDK so billing flows can
// be exercised without the network.
type StripeGateway interface {
	CreateCustomer(ctx context.Context, email, name, userID string) (*stripe.Customer, error)
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error)
	GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error)
	ListPortalConfigurations(ctx context.Context) ([]*stripe.BillingPortalConfiguration, error)
	CreatePortalConfiguration(ctx context.Context) (*stripe.BillingPortalConfiguration, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL, configurationID string) (*stripe.BillingPortalSession, error)
	ListOneTimePrices(ctx context.Context) ([]*stripe.Price, error)
	ListProducts(ctx context.Context) ([]*stripe.Product, error)
}

type stripeGateway struct {
	api *client.API
}

// NewStripeGateway builds the production gateway from a secret key.
func NewStripeGateway(secretKey string) StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &stripeGateway{api: api}
}

func (g *stripeGateway) CreateCustomer(ctx context.Context, email, name, userID string) (*stripe.Customer, error) {
	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Email:  stripe.String(email),
	}
	if name != "" {
		params.Name = stripe.String(name)
	}
	params.AddMetadata("userId", userID)
	return g.api.Customers.New(params)
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	params.Context = ctx
	return g.api.CheckoutSessions.New(params)
}

func (g *stripeGateway) GetCheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{Params: stripe.Params{Context: ctx}}
	params.AddExpand("customer")
	params.AddExpand("payment_intent")
	return g.api.CheckoutSessions.Get(id, params)
}

func (g *stripeGateway) GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{Params: stripe.Params{Context: ctx}}
	return g.api.PaymentIntents.Get(id, params)
}

func (g *stripeGateway) ListPortalConfigurations(ctx context.Context) ([]*stripe.BillingPortalConfiguration, error) {
	params := &stripe.BillingPortalConfigurationListParams{
		ListParams: stripe.ListParams{Context: ctx},
	}
	var configs []*stripe.BillingPortalConfiguration
	iter := g.api.BillingPortalConfigurations.List(params)
	for iter.Next() {
		configs = append(configs, iter.BillingPortalConfiguration())
	}
	return configs, iter.Err()
}

func (g *stripeGateway) CreatePortalConfiguration(ctx context.Context) (*stripe.BillingPortalConfiguration, error) {
	params := &stripe.BillingPortalConfigurationParams{
		Params: stripe.Params{Context: ctx},
		BusinessProfile: &stripe.BillingPortalConfigurationBusinessProfileParams{
			Headline: stripe.String("Manage your account"),
		},
		Features: &stripe.BillingPortalConfigurationFeaturesParams{
			PaymentMethodUpdate: &stripe.BillingPortalConfigurationFeaturesPaymentMethodUpdateParams{
				Enabled: stripe.Bool(true),
			},
			InvoiceHistory: &stripe.BillingPortalConfigurationFeaturesInvoiceHistoryParams{
				Enabled: stripe.Bool(true),
			},
		},
	}
	return g.api.BillingPortalConfigurations.New(params)
}

func (g *stripeGateway) CreatePortalSession(ctx context.Context, customerID, returnURL, configurationID string) (*stripe.BillingPortalSession, error) {
	params := &stripe.BillingPortalSessionParams{
		Params:        stripe.Params{Context: ctx},
		Customer:      stripe.String(customerID),
		ReturnURL:     stripe.String(returnURL),
		Configuration: stripe.String(configurationID),
	}
	return g.api.BillingPortalSessions.New(params)
}

func (g *stripeGateway) ListOneTimePrices(ctx context.Context) ([]*stripe.Price, error) {
	params := &stripe.PriceListParams{
		ListParams: stripe.ListParams{Context: ctx},
		Active:     stripe.Bool(true),
		Type:       stripe.String(string(stripe.PriceTypeOneTime)),
	}
	params.AddExpand("data.product")
	var prices []*stripe.Price
	iter := g.api.Prices.List(params)
	for iter.Next() {
		prices = append(prices, iter.Price())
	}
	return prices, iter.Err()
}

func (g *stripeGateway) ListProducts(ctx context.Context) ([]*stripe.Product, error) {
	params := &stripe.ProductListParams{
		ListParams: stripe.ListParams{Context: ctx},
		Active:     stripe.Bool(true),
	}
	params.AddExpand("data.default_price")
	var products []*stripe.Product
	iter := g.api.Products.List(params)
	for iter.Next() {
		products = append(products, iter.Product())
	}
	return products, iter.Err()
}
