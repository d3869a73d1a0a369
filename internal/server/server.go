package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/donara/internal/audit"
	auditservice "github.com/smallbiznis/donara/internal/audit/service"
	"github.com/smallbiznis/donara/internal/catalog"
	catalogdomain "github.com/smallbiznis/donara/internal/catalog/domain"
	"github.com/smallbiznis/donara/internal/config"
	"github.com/smallbiznis/donara/internal/donation"
	donationdomain "github.com/smallbiznis/donara/internal/donation/domain"
	"github.com/smallbiznis/donara/internal/donor"
	donordomain "github.com/smallbiznis/donara/internal/donor/domain"
	"github.com/smallbiznis/donara/internal/events"
	"github.com/smallbiznis/donara/internal/notify"
	"github.com/smallbiznis/donara/internal/observability/metrics"
	"github.com/smallbiznis/donara/internal/payment"
	"github.com/smallbiznis/donara/internal/promocode"
	promodomain "github.com/smallbiznis/donara/internal/promocode/domain"
	"github.com/smallbiznis/donara/internal/providers/email"
	"github.com/smallbiznis/donara/internal/ratelimit"
	"github.com/smallbiznis/donara/internal/workflow"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	config.Module,
	metrics.Module,
	fx.Provide(registerGin),
	events.Module,
	ratelimit.Module,
	email.Module,
	notify.Module,
	audit.Module,
	donor.Module,
	catalog.Module,
	promocode.Module,
	donation.Module,
	payment.Module,
	workflow.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, genID *snowflake.Node, reg *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log, genID))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	return r
}

func registerGin(log *zap.Logger, genID *snowflake.Node, reg *prometheus.Registry) *gin.Engine {
	return NewEngine(log, genID, reg)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
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
	workflow    *workflow.Controller
	donorSvc    donordomain.Service
	catalogSvc  catalogdomain.Service
	promoSvc    promodomain.Service
	donationSvc donationdomain.Service
	audit       *auditservice.Reader
	limiter     *ratelimit.SubmitLimiter
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Workflow    *workflow.Controller
	DonorSvc    donordomain.Service
	CatalogSvc  catalogdomain.Service
	PromoSvc    promodomain.Service
	DonationSvc donationdomain.Service
	Audit       *auditservice.Reader     `optional:"true"`
	Limiter     *ratelimit.SubmitLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		workflow:    p.Workflow,
		donorSvc:    p.DonorSvc,
		catalogSvc:  p.CatalogSvc,
		promoSvc:    p.PromoSvc,
		donationSvc: p.DonationSvc,
		audit:       p.Audit,
		limiter:     p.Limiter,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	// -------- Donate --------
	api.GET("/donate", s.GetDonationForm)
	api.POST("/donate", s.SubmitDonation)

	// -------- Donations --------
	api.GET("/donations", s.ListDonations)
	api.GET("/donations/:id", s.GetDonationByID)
	api.GET("/donations/:id/purchases", s.ListDonationPurchases)

	// -------- Donors --------
	api.GET("/donors/:id", s.GetDonorByID)

	// -------- Donation Types --------
	api.GET("/donation-types", s.ListDonationTypes)
	api.POST("/donation-types", s.CreateDonationType)

	// -------- Promo Codes --------
	api.GET("/promo-codes/:code", s.GetPromoCodeByCode)
	api.POST("/promo-codes", s.CreatePromoCode)
}
