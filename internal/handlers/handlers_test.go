package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pawsteps/pawsteps-backend/internal/config"
	"github.com/pawsteps/pawsteps-backend/internal/database"
	"github.com/pawsteps/pawsteps-backend/internal/dto"
	"github.com/pawsteps/pawsteps-backend/internal/handlers"
	"github.com/pawsteps/pawsteps-backend/internal/models"
	"github.com/pawsteps/pawsteps-backend/internal/routes"
	"github.com/pawsteps/pawsteps-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v82"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubGateway serves one configurable checkout session.
type stubGateway struct {
	session    *stripe.CheckoutSession
	sessionErr error
}

func (s *stubGateway) CreateCustomer(_ context.Context, email, _, _ string) (*stripe.Customer, error) {
	return &stripe.Customer{ID: "cus_stub", Email: email}, nil
}

func (s *stubGateway) CreateCheckoutSession(_ context.Context, _ *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return &stripe.CheckoutSession{ID: "cs_stub", URL: "https://checkout.stripe.test/cs_stub"}, nil
}

func (s *stubGateway) GetCheckoutSession(_ context.Context, _ string) (*stripe.CheckoutSession, error) {
	if s.sessionErr != nil {
		return nil, s.sessionErr
	}
	return s.session, nil
}

func (s *stubGateway) GetPaymentIntent(_ context.Context, _ string) (*stripe.PaymentIntent, error) {
	return nil, errors.New("not stubbed")
}

func (s *stubGateway) ListPortalConfigurations(_ context.Context) ([]*stripe.BillingPortalConfiguration, error) {
	return nil, nil
}

func (s *stubGateway) CreatePortalConfiguration(_ context.Context) (*stripe.BillingPortalConfiguration, error) {
	return &stripe.BillingPortalConfiguration{ID: "bpc_stub"}, nil
}

func (s *stubGateway) CreatePortalSession(_ context.Context, _, _, _ string) (*stripe.BillingPortalSession, error) {
	return &stripe.BillingPortalSession{ID: "bps_stub", URL: "https://portal.stripe.test/bps_stub"}, nil
}

func (s *stubGateway) ListOneTimePrices(_ context.Context) ([]*stripe.Price, error) {
	return []*stripe.Price{{ID: "price_lifetime", UnitAmount: 4900, Currency: stripe.CurrencyUSD}}, nil
}

func (s *stubGateway) ListProducts(_ context.Context) ([]*stripe.Product, error) {
	return []*stripe.Product{{ID: "prod_lifetime", Name: "Lifetime Access"}}, nil
}

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	gw  *stubGateway
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Identity{}, &models.RefreshToken{}, &models.User{},
		&models.Team{}, &models.TeamMember{}, &models.Invitation{},
		&models.Dog{}, &models.TrainingSession{}, &models.TrainingProgress{},
		&models.TrainingContent{}, &models.UserProgress{},
		&models.ActivityLog{}, &models.SystemLog{},
	))

	// Health checks ping the package-level handle.
	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
		BillingTimeout:   5 * time.Second,
		BaseURL:          "http://localhost:3000",
	}

	authService := services.NewAuthService(db, cfg)
	accountService := services.NewAccountService(db, authService)
	teamService := services.NewTeamService(db, accountService)
	dogService := services.NewDogService(db, accountService)
	trainingService := services.NewTrainingService(db, dogService, accountService)
	gw := &stubGateway{}
	billingService := services.NewBillingService(db, cfg, gw, accountService)

	app := fiber.New()
	routes.Setup(app, cfg, db,
		handlers.NewAuthHandler(accountService, authService, billingService),
		handlers.NewUserHandler(accountService, authService),
		handlers.NewTeamHandler(teamService),
		handlers.NewDogHandler(dogService),
		handlers.NewTrainingHandler(trainingService),
		handlers.NewBillingHandler(billingService, accountService),
		handlers.NewHealthHandler(),
	)
	return &testEnv{app: app, db: db, gw: gw}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *testEnv) signUp(t *testing.T, email string) dto.AuthResponse {
	t.Helper()
	resp := e.request(t, "POST", "/api/auth/signup", "", dto.SignUpRequest{
		Email: email, Password: "password123",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decode[dto.AuthResponse](t, resp)
}

func TestSignUpFlow(t *testing.T) {
	env := setupEnv(t)

	auth := env.signUp(t, "rex@example.com")
	assert.NotEmpty(t, auth.AccessToken)
	assert.NotEmpty(t, auth.RefreshToken)
	assert.Equal(t, "rex@example.com", auth.User.Email)
	// No lifetime access yet, so the client lands on pricing.
	assert.Equal(t, "/pricing", auth.RedirectTo)

	resp := env.request(t, "POST", "/api/auth/signup", "", dto.SignUpRequest{
		Email: "rex@example.com", Password: "password123",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestSignInFlow(t *testing.T) {
	env := setupEnv(t)
	env.signUp(t, "rex@example.com")

	resp := env.request(t, "POST", "/api/auth/signin", "", dto.SignInRequest{
		Email: "rex@example.com", Password: "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = env.request(t, "POST", "/api/auth/signin", "", dto.SignInRequest{
		Email: "rex@example.com", Password: "password123", Redirect: "/dashboard",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	auth := decode[dto.AuthResponse](t, resp)
	assert.Equal(t, "/dashboard", auth.RedirectTo)
}

func TestProtectedRoutesRequireJWT(t *testing.T) {
	env := setupEnv(t)

	for _, path := range []string{"/api/user", "/api/dogs", "/api/stats", "/api/team"} {
		resp := env.request(t, "GET", path, "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestDogEndpoints(t *testing.T) {
	env := setupEnv(t)
	auth := env.signUp(t, "rex@example.com")

	resp := env.request(t, "POST", "/api/dogs", auth.AccessToken, dto.CreateDogRequest{Name: "Rex", Breed: "Beagle"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	dog := decode[models.Dog](t, resp)
	assert.Equal(t, "beginner", dog.TrainingLevel)

	resp = env.request(t, "POST", "/api/dogs", auth.AccessToken, dto.CreateDogRequest{Breed: "Beagle"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, "GET", "/api/dogs", auth.AccessToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	dogs := decode[[]models.Dog](t, resp)
	assert.Len(t, dogs, 1)

	resp = env.request(t, "GET", "/api/dogs/"+uuid.New().String(), auth.AccessToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = env.request(t, "DELETE", "/api/dogs/"+dog.ID.String(), auth.AccessToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestStatsEndpoint(t *testing.T) {
	env := setupEnv(t)
	auth := env.signUp(t, "rex@example.com")

	resp := env.request(t, "POST", "/api/dogs", auth.AccessToken, dto.CreateDogRequest{Name: "Rex"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	dog := decode[models.Dog](t, resp)

	for _, minutes := range []int{30, 45} {
		resp = env.request(t, "POST", "/api/training/sessions", auth.AccessToken, dto.CreateSessionRequest{
			DogID: dog.ID, SessionType: "basic", Duration: minutes,
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp = env.request(t, "GET", "/api/stats", auth.AccessToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	stats := decode[dto.StatsResponse](t, resp)
	assert.Equal(t, 2, stats.TotalSessions)
	assert.InDelta(t, 1.3, stats.TotalHours, 0.0001)
}

func TestCheckoutCompletionRedirects(t *testing.T) {
	env := setupEnv(t)
	auth := env.signUp(t, "buyer@example.com")

	// Missing session id bounces back to pricing.
	resp := env.request(t, "GET", "/api/stripe/checkout", "", nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/pricing", resp.Header.Get("Location"))

	// Verification failure is a soft redirect, not an error page.
	env.gw.sessionErr = errors.New("no such session")
	resp = env.request(t, "GET", "/api/stripe/checkout?session_id=cs_missing", "", nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "error=payment_processing")

	env.gw.sessionErr = nil
	env.gw.session = &stripe.CheckoutSession{
		ID:                "cs_stub",
		ClientReferenceID: auth.User.ID.String(),
		Customer:          &stripe.Customer{ID: "cus_stub"},
		PaymentIntent: &stripe.PaymentIntent{
			ID:     "pi_stub",
			Status: stripe.PaymentIntentStatusSucceeded,
		},
	}
	resp = env.request(t, "GET", "/api/stripe/checkout?session_id=cs_stub", "", nil)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	location := resp.Header.Get("Location")
	assert.Contains(t, location, "/sign-in")
	assert.Contains(t, location, "success=payment_completed")

	var user models.User
	require.NoError(t, env.db.First(&user, "id = ?", auth.User.ID).Error)
	assert.True(t, user.HasLifetimeAccess)
}

func TestPricingIsPublic(t *testing.T) {
	env := setupEnv(t)

	resp := env.request(t, "GET", "/api/pricing", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	pricing := decode[dto.PricingResponse](t, resp)
	require.Len(t, pricing.Prices, 1)
	assert.Equal(t, "price_lifetime", pricing.Prices[0].ID)
}

func TestAdminContentRequiresAdmin(t *testing.T) {
	env := setupEnv(t)
	auth := env.signUp(t, "user@example.com")

	body := dto.ContentRequest{
		Title: "Sit", ContentType: "video", Difficulty: "beginner", Category: "basic_commands",
	}
	resp := env.request(t, "POST", "/api/admin/content", auth.AccessToken, body)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Promote and retry.
	require.NoError(t, env.db.Model(&models.User{}).
		Where("id = ?", auth.User.ID).
		Update("role", "admin").Error)
	resp = env.request(t, "POST", "/api/admin/content", auth.AccessToken, body)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	env := setupEnv(t)

	resp := env.request(t, "GET", "/api/health", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	health := decode[dto.HealthResponse](t, resp)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "ok", health.DB)
}
