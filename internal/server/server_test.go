package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	accountdomain "github.com/gamevault/gamevault/internal/account/domain"
	authdomain "github.com/gamevault/gamevault/internal/auth/domain"
	"github.com/gamevault/gamevault/internal/auth/session"
	"github.com/gamevault/gamevault/internal/config"
	purchasedomain "github.com/gamevault/gamevault/internal/purchase/domain"
	"github.com/stretchr/testify/require"
)

type fakePurchaseService struct {
	purchaseErr error
	lastReq     purchasedomain.PurchaseRequest
}

func (f *fakePurchaseService) Purchase(ctx context.Context, req purchasedomain.PurchaseRequest) (purchasedomain.Purchase, error) {
	_ = ctx
	f.lastReq = req
	if f.purchaseErr != nil {
		return purchasedomain.Purchase{}, f.purchaseErr
	}
	return purchasedomain.Purchase{ID: snowflake.ID(42)}, nil
}

func (f *fakePurchaseService) ListOwned(ctx context.Context, req purchasedomain.ListOwnedRequest) ([]purchasedomain.OwnedItem, error) {
	_ = ctx
	_ = req
	return nil, nil
}

func (f *fakePurchaseService) GetReceipt(ctx context.Context, req purchasedomain.GetReceiptRequest) (purchasedomain.Receipt, error) {
	_ = ctx
	_ = req
	return purchasedomain.Receipt{}, nil
}

type fakeAuthService struct {
	loginResp  authdomain.LoginResponse
	loginErr   error
	resolved   accountdomain.Account
	resolveErr error
	loggedOut  []string
}

func (f *fakeAuthService) Login(ctx context.Context, req authdomain.LoginRequest) (authdomain.LoginResponse, error) {
	_ = ctx
	_ = req
	return f.loginResp, f.loginErr
}

func (f *fakeAuthService) Logout(ctx context.Context, token string) error {
	_ = ctx
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

func (f *fakeAuthService) Resolve(ctx context.Context, token string) (accountdomain.Account, error) {
	_ = ctx
	_ = token
	return f.resolved, f.resolveErr
}

func newTestServer(authsvc authdomain.Service, purchaseSvc purchasedomain.Service) (*Server, *gin.Engine) {
	gin.SetMode(gin.TestMode)

	srv := &Server{
		cfg:         config.Config{},
		sessions:    session.NewManager(config.Config{}),
		authsvc:     authsvc,
		purchaseSvc: purchaseSvc,
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	return srv, router
}

func TestLoginSetsSessionCookie(t *testing.T) {
	authsvc := &fakeAuthService{
		loginResp: authdomain.LoginResponse{
			Account:   accountdomain.Account{ID: snowflake.ID(7), Username: "alice"},
			Token:     "raw-token",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	srv, router := newTestServer(authsvc, nil)
	router.POST("/api/v1/auth/login", srv.Login)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"username":"alice","password":"hunter22"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	cookies := resp.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, session.DefaultCookieName, cookies[0].Name)
	require.Equal(t, "raw-token", cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)

	// The raw token must never appear in the response body.
	require.NotContains(t, resp.Body.String(), "raw-token")
}

func TestLoginRateLimitedReturns429(t *testing.T) {
	authsvc := &fakeAuthService{loginErr: authdomain.ErrRateLimited}
	srv, router := newTestServer(authsvc, nil)
	router.POST("/api/v1/auth/login", srv.Login)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"username":"alice","password":"hunter22"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusTooManyRequests, resp.Code)
}

func TestAuthRequiredRejectsMissingCookie(t *testing.T) {
	srv, router := newTestServer(&fakeAuthService{}, nil)
	router.GET("/api/v1/library", srv.AuthRequired(), srv.ListLibrary)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/library", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCreatePurchaseUsesSessionAccount(t *testing.T) {
	authsvc := &fakeAuthService{
		resolved: accountdomain.Account{ID: snowflake.ID(7), Username: "alice", Role: accountdomain.RoleCustomer},
	}
	purchaseSvc := &fakePurchaseService{}
	srv, router := newTestServer(authsvc, purchaseSvc)
	router.POST("/api/v1/purchases", srv.AuthRequired(), srv.CreatePurchase)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/purchases", bytes.NewBufferString(`{"title_id":"99","agreed_price_cents":5999}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "raw-token"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, snowflake.ID(7).String(), purchaseSvc.lastReq.AccountID)
	require.Equal(t, "99", purchaseSvc.lastReq.TitleID)
	require.NotNil(t, purchaseSvc.lastReq.AgreedPriceCents)
	require.Equal(t, int64(5999), *purchaseSvc.lastReq.AgreedPriceCents)
}

func TestPurchaseErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"insufficient funds", purchasedomain.ErrInsufficientFunds, http.StatusPaymentRequired, "insufficient_funds"},
		{"out of stock", purchasedomain.ErrOutOfStock, http.StatusConflict, "out_of_stock"},
		{"already owned", purchasedomain.ErrAlreadyOwned, http.StatusConflict, "already_owned"},
		{"unknown title", purchasedomain.ErrTitleNotFound, http.StatusNotFound, "not_found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			authsvc := &fakeAuthService{
				resolved: accountdomain.Account{ID: snowflake.ID(7), Role: accountdomain.RoleCustomer},
			}
			purchaseSvc := &fakePurchaseService{purchaseErr: tc.err}
			srv, router := newTestServer(authsvc, purchaseSvc)
			router.POST("/api/v1/purchases", srv.AuthRequired(), srv.CreatePurchase)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/purchases", bytes.NewBufferString(`{"title_id":"99"}`))
			req.Header.Set("Content-Type", "application/json")
			req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "raw-token"})
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			require.Equal(t, tc.status, resp.Code)
			require.Contains(t, resp.Body.String(), tc.code)
		})
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	authsvc := &fakeAuthService{}
	srv, router := newTestServer(authsvc, nil)
	router.POST("/api/v1/auth/logout", srv.Logout)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "raw-token"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, []string{"raw-token"}, authsvc.loggedOut)

	cookies := resp.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Empty(t, cookies[0].Value)
	require.Negative(t, cookies[0].MaxAge)
}
