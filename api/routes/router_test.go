package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lockwise/lockshop-backend/internal/auth"
	cartsvc "github.com/lockwise/lockshop-backend/internal/cart"
	contactsvc "github.com/lockwise/lockshop-backend/internal/contact"
	"github.com/lockwise/lockshop-backend/internal/identity"
	jobsvc "github.com/lockwise/lockshop-backend/internal/jobs"
	ordersvc "github.com/lockwise/lockshop-backend/internal/orders"
	productsvc "github.com/lockwise/lockshop-backend/internal/products"
	pkgauth "github.com/lockwise/lockshop-backend/pkg/auth"
	"github.com/lockwise/lockshop-backend/pkg/config"
	"github.com/lockwise/lockshop-backend/pkg/db/models"
	"github.com/lockwise/lockshop-backend/pkg/enums"
)

type stubUserFinder struct {
	users map[uuid.UUID]*models.User
}

func (s *stubUserFinder) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubAuthService struct{}

func (stubAuthService) Register(context.Context, auth.RegisterRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{}, nil
}

func (stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{}, nil
}

type stubProductService struct{}

func (stubProductService) CreateProduct(context.Context, productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) UpdateProduct(context.Context, uuid.UUID, productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) SoftDeleteProduct(context.Context, uuid.UUID) error { return nil }
func (stubProductService) HardDeleteProduct(context.Context, uuid.UUID) error { return nil }

func (stubProductService) GetProduct(context.Context, uuid.UUID, bool) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) GetProductBySlug(context.Context, string) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) ListProducts(context.Context, productsvc.ListInput) (*productsvc.ProductList, error) {
	return &productsvc.ProductList{}, nil
}

type stubCartService struct{}

func (stubCartService) GetOrCreate(context.Context, identity.Actor) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{}, nil
}

func (stubCartService) Add(context.Context, identity.Actor, uuid.UUID, int) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{}, nil
}

func (stubCartService) Update(context.Context, identity.Actor, uuid.UUID, int) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{}, nil
}

func (stubCartService) Remove(context.Context, identity.Actor, uuid.UUID) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{}, nil
}

func (stubCartService) Clear(context.Context, identity.Actor) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{}, nil
}

type stubOrderService struct{}

func (stubOrderService) Create(context.Context, identity.Actor, ordersvc.CreateOrderInput) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}

func (stubOrderService) Get(context.Context, uuid.UUID) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}

func (stubOrderService) GetByNumber(context.Context, string) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}

func (stubOrderService) List(context.Context, ordersvc.ListInput) (*ordersvc.OrderList, error) {
	return &ordersvc.OrderList{}, nil
}

func (stubOrderService) UpdateStatus(context.Context, uuid.UUID, ordersvc.UpdateStatusInput) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}

type stubJobService struct{}

func (stubJobService) Create(context.Context, identity.Actor, jobsvc.CreateJobInput) (*jobsvc.JobDTO, error) {
	return &jobsvc.JobDTO{}, nil
}

func (stubJobService) Get(context.Context, uuid.UUID) (*jobsvc.JobDTO, error) {
	return &jobsvc.JobDTO{}, nil
}

func (stubJobService) List(context.Context, jobsvc.ListInput) (*jobsvc.JobList, error) {
	return &jobsvc.JobList{}, nil
}

func (stubJobService) Update(context.Context, identity.Actor, uuid.UUID, jobsvc.UpdateJobInput) (*jobsvc.JobDTO, error) {
	return &jobsvc.JobDTO{}, nil
}

func (stubJobService) Delete(context.Context, uuid.UUID) error { return nil }

type stubContactService struct{}

func (stubContactService) Create(context.Context, contactsvc.CreateMessageInput) (*contactsvc.MessageDTO, error) {
	return &contactsvc.MessageDTO{}, nil
}

func (stubContactService) List(context.Context, contactsvc.ListInput) (*contactsvc.MessageList, error) {
	return &contactsvc.MessageList{}, nil
}

func (stubContactService) MarkRead(context.Context, uuid.UUID) (*contactsvc.MessageDTO, error) {
	return &contactsvc.MessageDTO{}, nil
}

func (stubContactService) Delete(context.Context, uuid.UUID) error { return nil }

type routerEnv struct {
	handler http.Handler
	cfg     *config.Config
	finder  *stubUserFinder
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{
		Secret:            "secret",
		Issuer:            "lockshop",
		ExpirationMinutes: 30,
		CookieName:        "lockshop_token",
	}

	finder := &stubUserFinder{users: map[uuid.UUID]*models.User{}}
	handler := NewRouter(
		cfg,
		nil,
		nil,
		finder,
		stubAuthService{},
		stubProductService{},
		stubCartService{},
		stubOrderService{},
		stubJobService{},
		stubContactService{},
	)
	return &routerEnv{handler: handler, cfg: cfg, finder: finder}
}

func (e *routerEnv) loginAs(t *testing.T, role enums.UserRole, isAdmin bool) *http.Cookie {
	t.Helper()
	user := &models.User{
		ID:      uuid.New(),
		Role:    role,
		IsAdmin: isAdmin,
	}
	e.finder.users[user.ID] = user

	token, err := pkgauth.MintAccessToken(e.cfg.JWT, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:  user.ID,
		Role:    user.Role,
		IsAdmin: user.IsAdmin,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return &http.Cookie{Name: e.cfg.JWT.CookieName, Value: token}
}

func (e *routerEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouterPublicRoutes(t *testing.T) {
	env := newRouterEnv(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health/live", http.StatusOK},
		{http.MethodGet, "/health/ready", http.StatusOK},
		{http.MethodGet, "/api/v1/products", http.StatusOK},
		{http.MethodGet, "/api/v1/products/cylinder-lock", http.StatusOK},
		{http.MethodGet, "/api/v1/orders/ORDABC123XYZ0", http.StatusOK},
	}

	for _, tt := range tests {
		rec := env.do(httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.want {
			t.Fatalf("%s %s: expected %d, got %d", tt.method, tt.path, tt.want, rec.Code)
		}
	}
}

func TestRouterCartNeedsIdentity(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without identity, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-Id", "guest-7")
	if rec := env.do(req); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for guest, got %d", rec.Code)
	}
}

func TestRouterCheckoutAcceptsGuest(t *testing.T) {
	env := newRouterEnv(t)

	body := `{
		"customer_info": {
			"full_name": "Elif Demir",
			"email": "elif@example.com",
			"phone": "+90 532 111 22 33",
			"delivery_address": {"line1": "Bagdat Cad. 42", "city": "Istanbul"}
		},
		"payment_type": "credit_card",
		"order_type": "online"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", "guest-7")
	rec := env.do(req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterRBACMatrix(t *testing.T) {
	env := newRouterEnv(t)

	customer := env.loginAs(t, enums.UserRoleCustomer, false)
	personel := env.loginAs(t, enums.UserRolePersonel, false)
	manager := env.loginAs(t, enums.UserRoleManager, false)
	adminNoFlag := env.loginAs(t, enums.UserRoleAdmin, false)
	admin := env.loginAs(t, enums.UserRoleAdmin, true)

	tests := []struct {
		name   string
		method string
		path   string
		cookie *http.Cookie
		want   int
	}{
		{"jobs list anonymous", http.MethodGet, "/api/v1/jobs", nil, http.StatusUnauthorized},
		{"jobs list customer", http.MethodGet, "/api/v1/jobs", customer, http.StatusForbidden},
		{"jobs list personel", http.MethodGet, "/api/v1/jobs", personel, http.StatusOK},
		{"jobs list manager", http.MethodGet, "/api/v1/jobs", manager, http.StatusOK},
		{"jobs delete personel", http.MethodDelete, "/api/v1/jobs/" + uuid.NewString(), personel, http.StatusForbidden},
		{"jobs delete admin", http.MethodDelete, "/api/v1/jobs/" + uuid.NewString(), admin, http.StatusOK},
		{"admin products unflagged admin", http.MethodGet, "/api/v1/admin/products", adminNoFlag, http.StatusForbidden},
		{"admin products flagged admin", http.MethodGet, "/api/v1/admin/products", admin, http.StatusOK},
		{"admin orders customer", http.MethodGet, "/api/v1/admin/orders", customer, http.StatusForbidden},
		{"admin orders manager", http.MethodGet, "/api/v1/admin/orders", manager, http.StatusOK},
		{"admin orders admin", http.MethodGet, "/api/v1/admin/orders", admin, http.StatusOK},
		{"admin contact personel", http.MethodGet, "/api/v1/admin/contact", personel, http.StatusForbidden},
		{"admin contact manager", http.MethodGet, "/api/v1/admin/contact", manager, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := env.do(req)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouterContactIsPublic(t *testing.T) {
	env := newRouterEnv(t)

	body := `{"full_name":"Mehmet Kaya","email":"mehmet@example.com","subject":"Key copy","message":"Can you copy a dimple key?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := env.do(req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}
