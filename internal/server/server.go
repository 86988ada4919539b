package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"russify/internal/config"
	"russify/internal/middleware"
	"russify/internal/modules/admin"
	"russify/internal/modules/auth"
	"russify/internal/modules/catalog"
	"russify/internal/modules/contact"
	"russify/internal/modules/messaging"
	"russify/internal/modules/partner"
	"russify/internal/modules/upload"
	"russify/internal/pkg/jwt"
	"russify/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Server owns the HTTP engine and the websocket hub.
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	hub    *messaging.Hub
	log    *zap.Logger
}

// New wires repositories, services and handlers onto a gin engine.
func New(cfg *config.Config, db *gorm.DB, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	workRepo := repository.NewWorkRepository(db)
	bonusRepo := repository.NewBonusRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	uploadRepo := repository.NewUploadRepository(db)
	contactRepo := repository.NewContactRepository(db)

	jwtService := jwt.New(cfg.JWTSecret, cfg.JWTTTL)
	uploads := upload.NewService(uploadRepo, cfg.UploadsDir, cfg.StaticURLBase, cfg.MaxAttachmentBytes, log.Named("upload"))
	hub := messaging.NewHub(log.Named("hub"))

	authService := auth.NewService(userRepo, jwtService, log.Named("auth"))
	messagingService := messaging.NewService(requestRepo, messageRepo, uploads, hub, log.Named("messaging"))
	partnerService := partner.NewService(requestRepo, workRepo, bonusRepo, userRepo, messagingService, log.Named("partner"))
	adminService := admin.NewService(db, userRepo, requestRepo, workRepo, messagingService, log.Named("admin"))
	catalogService := catalog.NewService(catalogRepo, uploads, log.Named("catalog"))

	var relay contact.Relay
	if cfg.ContactRelayURL != "" {
		relay = contact.NewHTTPRelay(cfg.ContactRelayURL, cfg.ContactRelayTimeout)
	}
	contactService := contact.NewService(contactRepo, relay, log.Named("contact"))

	threads := messaging.NewHandler(messagingService, hub, middleware.OriginAllowed(cfg.CORSAllowedOrigins), log.Named("ws"))

	r := gin.New()
	r.Use(middleware.ErrorLogger(log))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "ws_clients": hub.OnlineCount()})
	})
	r.Static(cfg.StaticURLBase, cfg.UploadsDir)

	// Base64 inflates attachments by a third; leave room for the JSON around it.
	api := r.Group("/api", middleware.BodyLimit(uploads.MaxSize()*2+1<<20))
	{
		requireAuth := middleware.JWTAuth(jwtService)

		auth.NewHandler(authService).RegisterRoutes(api, requireAuth)
		partner.NewHandler(partnerService, threads).RegisterRoutes(api, requireAuth, middleware.PartnerOnly())
		admin.NewHandler(adminService, threads).RegisterRoutes(api, requireAuth, middleware.AdminOnly())
		catalog.NewHandler(catalogService).RegisterRoutes(api, middleware.OptionalJWTAuth(jwtService), requireAuth, middleware.AdminOnly())
		contact.NewHandler(contactService).RegisterRoutes(api)
		threads.RegisterRoutes(api, middleware.QueryTokenAuth(jwtService))
	}

	return &Server{cfg: cfg, engine: r, hub: hub, log: log}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains connections and closes the
// websocket hub.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.hub.Close()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
