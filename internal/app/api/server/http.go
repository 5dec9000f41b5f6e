package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/bitforce/ambassador/docs"
	"github.com/bitforce/ambassador/internal/app/api/handlers"
	mw "github.com/bitforce/ambassador/internal/app/api/middleware"
	"github.com/bitforce/ambassador/internal/app/service/bft"
	"github.com/bitforce/ambassador/internal/app/service/billing"
	"github.com/bitforce/ambassador/internal/app/service/gamification"
	"github.com/bitforce/ambassador/internal/app/service/invite"
	"github.com/bitforce/ambassador/internal/app/service/leadservice"
	"github.com/bitforce/ambassador/internal/app/service/reconcile"
	"github.com/bitforce/ambassador/internal/app/service/referral"
	"github.com/bitforce/ambassador/internal/app/service/statistics"
	cfgpkg "github.com/bitforce/ambassador/pkg/config"
	metrics "github.com/bitforce/ambassador/pkg/metrics"
	"github.com/bitforce/ambassador/pkg/types"
)

type routeParams struct {
	fx.In

	Log          *zap.SugaredLogger
	Cfg          *cfgpkg.Config
	Referral     *referral.Service
	Gamification *gamification.Service
	BFT          *bft.Service
	Invite       *invite.Service
	Leads        *leadservice.Service
	Billing      *billing.Service
	Reconcile    *reconcile.Service
	Statistics   *statistics.Service
}

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

func registerRoutes(r *gin.Engine, p routeParams) {
	log, cfg := p.Log, p.Cfg
	// Prometheus metrics
	if cfg != nil && cfg.MetricsAddr != "" {
		prom := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		prom.SetListenAddress(cfg.MetricsAddr)
		prom.Use(r)

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}
	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	// Stripe authenticates with its signature header, not a bearer token
	handlers.RegisterWebhookRoutes(apiV1, p.Billing)

	authed := apiV1.Group("")
	authed.Use(mw.AuthMiddleware(cfg, log))

	amb := authed.Group("/ambassador")
	handlers.RegisterAmbassadorRoutes(amb, p.Referral, p.Gamification, p.Invite)
	handlers.RegisterWalletRoutes(amb, p.Referral, p.BFT)
	handlers.RegisterLeadRoutes(authed, p.Leads)

	admin := authed.Group("/admin")
	admin.Use(mw.RequireRole(types.RoleAdmin))
	handlers.RegisterAdminRoutes(admin, handlers.AdminServices{
		Leads:        p.Leads,
		Gamification: p.Gamification,
		BFT:          p.BFT,
		Referral:     p.Referral,
		Reconcile:    p.Reconcile,
		Statistics:   p.Statistics,
	})
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
