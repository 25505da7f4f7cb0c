package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pukpuklouis/blackliving-backend/api/controllers"
	apptsvc "github.com/pukpuklouis/blackliving-backend/internal/appointments"
	authsvc "github.com/pukpuklouis/blackliving-backend/internal/auth"
	cartsvc "github.com/pukpuklouis/blackliving-backend/internal/cart"
	ordersvc "github.com/pukpuklouis/blackliving-backend/internal/orders"
	paymentsvc "github.com/pukpuklouis/blackliving-backend/internal/payment"
	productsvc "github.com/pukpuklouis/blackliving-backend/internal/products"
	pkgauth "github.com/pukpuklouis/blackliving-backend/pkg/auth"
	"github.com/pukpuklouis/blackliving-backend/pkg/config"
	"github.com/pukpuklouis/blackliving-backend/pkg/db/models"
	"github.com/pukpuklouis/blackliving-backend/pkg/enums"
	"github.com/pukpuklouis/blackliving-backend/pkg/gomypay"
	"github.com/pukpuklouis/blackliving-backend/pkg/logger"
	"github.com/pukpuklouis/blackliving-backend/pkg/pagination"
	"github.com/pukpuklouis/blackliving-backend/pkg/types"
)

type stubProducts struct{}

func (stubProducts) List(ctx context.Context) ([]productsvc.ProductView, error) {
	return []productsvc.ProductView{}, nil
}

func (stubProducts) GetBySlug(ctx context.Context, slug string) (*productsvc.ProductView, error) {
	return &productsvc.ProductView{Slug: slug}, nil
}

func (stubProducts) ListAdmin(ctx context.Context, params pagination.Params) ([]productsvc.ProductView, string, error) {
	return []productsvc.ProductView{}, "", nil
}

func (stubProducts) Create(ctx context.Context, input productsvc.CreateProductInput) (*productsvc.ProductView, error) {
	panic("unimplemented")
}

func (stubProducts) Update(ctx context.Context, id uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductView, error) {
	panic("unimplemented")
}

func (stubProducts) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubProducts) ResolveItem(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (string, int, bool, error) {
	panic("unimplemented")
}

type stubCart struct{}

func (stubCart) Get(ctx context.Context, token string) (*cartsvc.Snapshot, error) {
	if token == "" {
		token = uuid.NewString()
	}
	return &cartsvc.Snapshot{Token: token, Items: []cartsvc.LineItem{}}, nil
}

func (stubCart) AddItem(ctx context.Context, token string, input cartsvc.AddItemInput) (*cartsvc.Snapshot, error) {
	panic("unimplemented")
}

func (stubCart) UpdateQuantity(ctx context.Context, token string, input cartsvc.UpdateQuantityInput) (*cartsvc.Snapshot, error) {
	panic("unimplemented")
}

func (stubCart) RemoveItem(ctx context.Context, token string, input cartsvc.RemoveItemInput) (*cartsvc.Snapshot, error) {
	panic("unimplemented")
}

func (stubCart) SetCheckoutInfo(ctx context.Context, token string, input cartsvc.CheckoutInfoInput) (*cartsvc.Snapshot, error) {
	panic("unimplemented")
}

func (stubCart) Clear(ctx context.Context, token string) (*cartsvc.Snapshot, error) {
	panic("unimplemented")
}

type stubOrders struct{}

func (stubOrders) Submit(ctx context.Context, input ordersvc.SubmitInput) (*ordersvc.SubmitResult, error) {
	panic("unimplemented")
}

func (stubOrders) GetByOrderNo(ctx context.Context, orderNo string) (*ordersvc.OrderView, error) {
	panic("unimplemented")
}

func (stubOrders) AdminList(ctx context.Context, params pagination.Params, status string) ([]ordersvc.OrderView, string, error) {
	return []ordersvc.OrderView{}, "", nil
}

func (stubOrders) UpdateStatus(ctx context.Context, orderNo string, target enums.OrderStatus) (*ordersvc.OrderView, error) {
	panic("unimplemented")
}

type stubPaymentsService struct{}

func (stubPaymentsService) Initiate(ctx context.Context, orderNo string) (*gomypay.Descriptor, error) {
	panic("unimplemented")
}

func (stubPaymentsService) InitiateForOrder(ctx context.Context, order *models.Order) (*gomypay.Descriptor, error) {
	panic("unimplemented")
}

func (stubPaymentsService) HandleCallback(ctx context.Context, values url.Values) (*paymentsvc.CallbackResult, error) {
	panic("unimplemented")
}

type stubSettings struct{}

func (stubSettings) Get(ctx context.Context, key string) (json.RawMessage, error) {
	return json.RawMessage(`{"value":1}`), nil
}

func (stubSettings) Update(ctx context.Context, key string, value json.RawMessage) error {
	return nil
}

func (stubSettings) Logistics(ctx context.Context) (types.LogisticsConfig, error) {
	return types.LogisticsConfig{}, nil
}

type stubAppointments struct{}

func (stubAppointments) Create(ctx context.Context, input apptsvc.CreateInput) (*apptsvc.View, error) {
	panic("unimplemented")
}

func (stubAppointments) AdminList(ctx context.Context, params pagination.Params, status string) ([]apptsvc.View, string, error) {
	return []apptsvc.View{}, "", nil
}

func (stubAppointments) UpdateStatus(ctx context.Context, id uuid.UUID, target enums.AppointmentStatus) (*apptsvc.View, error) {
	panic("unimplemented")
}

type stubAuth struct{}

func (stubAuth) Login(ctx context.Context, input authsvc.LoginInput) (*authsvc.LoginResult, error) {
	return &authsvc.LoginResult{Token: "token", Email: input.Email}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
		Cache: config.CacheConfig{DisableResponse: true},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(RouterParams{
		Config:      cfg,
		Logger:      logg,
		ReadyChecks: map[string]controllers.Pinger{},

		Products:     stubProducts{},
		Cart:         stubCart{},
		Orders:       stubOrders{},
		Payments:     stubPaymentsService{},
		Settings:     stubSettings{},
		Appointments: stubAppointments{},
		Auth:         stubAuth{},
	})
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestPublicProductRoutes(t *testing.T) {
	router := newTestRouter(testConfig())

	list := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, list)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for product list got %d", resp.Code)
	}

	detail := httptest.NewRequest(http.MethodGet, "/api/products/queen-hybrid", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, detail)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for product detail got %d", resp.Code)
	}
}

func TestCartEchoesSessionToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("X-Cart-Token", "session-abc")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-Cart-Token"); got != "session-abc" {
		t.Fatalf("expected session token echoed, got %q", got)
	}
}

func TestAdminGroupRejectsMissingToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAdminGroupAcceptsValidToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	token, err := pkgauth.MintAdminToken(cfg.JWT, time.Now(), uuid.New(), "admin@blackliving.tw")
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAdminLoginIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	body := strings.NewReader(`{"email":"admin@blackliving.tw","password":"secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/nothing-here", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
