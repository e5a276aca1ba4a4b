package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/gamevault/gamevault/internal/account"
	accountdomain "github.com/gamevault/gamevault/internal/account/domain"
	"github.com/gamevault/gamevault/internal/auth"
	authdomain "github.com/gamevault/gamevault/internal/auth/domain"
	"github.com/gamevault/gamevault/internal/auth/session"
	"github.com/gamevault/gamevault/internal/authorization"
	"github.com/gamevault/gamevault/internal/catalog"
	catalogdomain "github.com/gamevault/gamevault/internal/catalog/domain"
	"github.com/gamevault/gamevault/internal/config"
	"github.com/gamevault/gamevault/internal/keyinv"
	keydomain "github.com/gamevault/gamevault/internal/keyinv/domain"
	"github.com/gamevault/gamevault/internal/observability"
	obsmiddleware "github.com/gamevault/gamevault/internal/observability/logger"
	obsmetrics "github.com/gamevault/gamevault/internal/observability/metrics"
	obstracing "github.com/gamevault/gamevault/internal/observability/tracing"
	"github.com/gamevault/gamevault/internal/providers/pdf"
	"github.com/gamevault/gamevault/internal/purchase"
	purchasedomain "github.com/gamevault/gamevault/internal/purchase/domain"
	"github.com/gamevault/gamevault/internal/ratelimit"
	"github.com/gamevault/gamevault/internal/social"
	socialdomain "github.com/gamevault/gamevault/internal/social/domain"
	"github.com/gamevault/gamevault/internal/steam"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	auth.Module,
	account.Module,
	catalog.Module,
	keyinv.Module,
	purchase.Module,
	social.Module,
	steam.Module,
	pdf.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	sessions    *session.Manager
	authsvc     authdomain.Service
	authzSvc    authorization.Service
	accountSvc  accountdomain.Service
	catalogSvc  catalogdomain.Service
	keySvc      keydomain.Service
	purchaseSvc purchasedomain.Service
	socialSvc   socialdomain.Service
	importer    *steam.Importer
	pdf         pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	Sessions    *session.Manager
	Authsvc     authdomain.Service
	AuthzSvc    authorization.Service
	AccountSvc  accountdomain.Service
	CatalogSvc  catalogdomain.Service
	KeySvc      keydomain.Service
	PurchaseSvc purchasedomain.Service
	SocialSvc   socialdomain.Service
	Importer    *steam.Importer
	PDF         pdf.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		sessions:    p.Sessions,
		authsvc:     p.Authsvc,
		authzSvc:    p.AuthzSvc,
		accountSvc:  p.AccountSvc,
		catalogSvc:  p.CatalogSvc,
		keySvc:      p.KeySvc,
		purchaseSvc: p.PurchaseSvc,
		socialSvc:   p.SocialSvc,
		importer:    p.Importer,
		pdf:         p.PDF,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/api/v1/auth")

	auth.POST("/register", s.RegisterAccount)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	// -------- Catalog (public) --------
	api.GET("/catalog", s.ListCatalog)
	api.GET("/catalog/:id", s.GetTitle)

	authed := api.Group("", s.AuthRequired())

	// -------- Purchases --------
	authed.POST("/purchases", s.Authorize(authorization.ObjectPurchases, authorization.ActionPurchase), s.CreatePurchase)
	authed.GET("/library", s.Authorize(authorization.ObjectPurchases, authorization.ActionView), s.ListLibrary)
	authed.GET("/purchases/:id/receipt", s.Authorize(authorization.ObjectPurchases, authorization.ActionView), s.GetReceiptPDF)

	// -------- Friends --------
	authed.POST("/friends", s.Authorize(authorization.ObjectFriends, authorization.ActionFriendsAdd), s.AddFriend)
	authed.GET("/friends", s.Authorize(authorization.ObjectFriends, authorization.ActionView), s.ListFriends)
	authed.GET("/friends/:id/common-games", s.Authorize(authorization.ObjectFriends, authorization.ActionView), s.CommonGames)
	authed.GET("/accounts/search", s.Authorize(authorization.ObjectFriends, authorization.ActionView), s.SearchAccounts)

	// -------- Steam --------
	authed.PUT("/account/steam-id", s.Authorize(authorization.ObjectSteam, authorization.ActionSteamConfigure), s.SetSteamID)
	authed.POST("/account/steam-import", s.Authorize(authorization.ObjectSteam, authorization.ActionSteamImport), s.ImportSteamLibrary)
	authed.GET("/account/steam-games", s.Authorize(authorization.ObjectSteam, authorization.ActionView), s.ListSteamGames)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/api/v1/admin")
	admin.Use(s.AuthRequired())

	// -------- Catalog --------
	admin.POST("/titles", s.Authorize(authorization.ObjectCatalog, authorization.ActionCreate), s.CreateTitle)
	admin.PATCH("/titles/:id", s.Authorize(authorization.ObjectCatalog, authorization.ActionUpdate), s.UpdateTitle)
	admin.DELETE("/titles/:id", s.Authorize(authorization.ObjectCatalog, authorization.ActionDelete), s.DeleteTitle)

	// -------- Activation keys --------
	admin.POST("/titles/:id/keys", s.Authorize(authorization.ObjectKeys, authorization.ActionKeysAdd), s.AddKey)
	admin.POST("/titles/:id/keys/batch", s.Authorize(authorization.ObjectKeys, authorization.ActionKeysAdd), s.AddKeyBatch)
	admin.GET("/titles/:id/keys", s.Authorize(authorization.ObjectKeys, authorization.ActionView), s.ListKeys)

	// -------- Accounts --------
	admin.GET("/accounts", s.Authorize(authorization.ObjectAccounts, authorization.ActionAccountsList), s.ListAccounts)
	admin.POST("/accounts/:id/role", s.Authorize(authorization.ObjectAccounts, authorization.ActionSetRole), s.SetAccountRole)
	admin.POST("/accounts/:id/balance", s.Authorize(authorization.ObjectAccounts, authorization.ActionCreditBalance), s.CreditAccountBalance)
}
