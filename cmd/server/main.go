package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/marine_shop/internal/config"
	"github.com/Skotchmaster/marine_shop/internal/events"
	"github.com/Skotchmaster/marine_shop/internal/httpserver"
	"github.com/Skotchmaster/marine_shop/internal/mail"
	"github.com/Skotchmaster/marine_shop/internal/middleware/auth"
	"github.com/Skotchmaster/marine_shop/internal/middleware/csrf"
	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/Skotchmaster/marine_shop/internal/search"
	"github.com/Skotchmaster/marine_shop/internal/service"
	"github.com/Skotchmaster/marine_shop/internal/store"
	"github.com/Skotchmaster/marine_shop/internal/store/gormstore"
	"github.com/Skotchmaster/marine_shop/internal/store/mongostore"
	"github.com/Skotchmaster/marine_shop/internal/upload"
	"github.com/Skotchmaster/marine_shop/pkg/db"
	"github.com/Skotchmaster/marine_shop/pkg/logging"
	loggingmw "github.com/Skotchmaster/marine_shop/pkg/middleware/logging"
)

func main() {
	cfg, envErr := config.Load()

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Info("env_file_skipped", "error", envErr)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("config_invalid", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, logger)

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Error("store_close_error", "error", err)
		}
	}()

	var pub events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		prod, err := events.NewProducer(cfg.KafkaBrokers, logger)
		if err != nil {
			return err
		}
		pub = prod
	}
	defer func() {
		if err := pub.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}()

	var index search.Index
	if cfg.ESURL != "" {
		es, err := search.NewElastic(search.Config{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			return err
		}
		index = es
	}

	var sender mail.Sender = mail.LogSender{}
	if cfg.MailConfigured() {
		sender = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}

	images, err := upload.Open(ctx, cfg.UploadBucketURL)
	if err != nil {
		return err
	}
	defer images.Close()

	catalog := &service.CatalogService{Items: st, Categories: st, Index: index, Images: images, Events: pub}
	reviews := &service.ReviewService{Items: st, Index: index, Events: pub}
	catalogHTTP := func(kind models.Kind) *httpserver.CatalogHTTP {
		return &httpserver.CatalogHTTP{Kind: kind, Svc: catalog, Reviews: reviews, Images: images}
	}

	secure := !cfg.Development()
	deps := &httpserver.Deps{
		Products:    catalogHTTP(models.KindProduct),
		Accessories: catalogHTTP(models.KindAccessory),
		Setups:      catalogHTTP(models.KindFullMarineSetup),
		Categories:  &httpserver.CategoryHTTP{Svc: &service.CategoryService{Categories: st}},
		Cart:        &httpserver.CartHTTP{Svc: &service.CartService{Carts: st, Items: st, Events: pub}},
		Orders:      &httpserver.OrderHTTP{Svc: &service.OrderService{Orders: st, Events: pub}},
		Users: &httpserver.UserHTTP{
			Svc: &service.UserService{
				Users:      st,
				Mail:       sender,
				Events:     pub,
				JWTSecret:  []byte(cfg.JWTSecret),
				TokenTTL:   cfg.JWTTTL,
				AdminEmail: cfg.AdminEmail,
			},
			SecureCookies: secure,
		},
		Contact: &httpserver.ContactHTTP{Svc: &service.ContactService{Messages: st, Mail: sender, Inbox: cfg.ContactInbox}},
		Uploads: &httpserver.UploadHTTP{Storage: images},
		Gate:    auth.NewGate([]byte(cfg.JWTSecret), st, secure),
		Ready:   st.Ping,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpserver.NewValidator()
	e.HTTPErrorHandler = httpserver.ErrorHandler(cfg.Development())

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		loggingmw.RequestLogger(logger),
		cors(cfg.CORSOrigins),
		csrf.Middleware(csrf.Config{Secure: secure}),
		middleware.BodyLimit("8M"),
		middleware.ContextTimeout(cfg.RequestTimeout),
	)
	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_started", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	logger.Info("shutdown_complete")
	return nil
}

// cors allows any origin without credentials unless origins are configured.
func cors(origins []string) echo.MiddlewareFunc {
	if len(origins) == 0 {
		return middleware.CORS()
	}
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     origins,
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, "X-CSRF-Token"},
	})
}

// openStore picks the backend by DATABASE_URL scheme.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if strings.HasPrefix(cfg.DatabaseURL, "mongodb://") || strings.HasPrefix(cfg.DatabaseURL, "mongodb+srv://") {
		ms, err := mongostore.Open(ctx, cfg.DatabaseURL, cfg.DatabaseName)
		if err != nil {
			return nil, err
		}
		if err := ms.EnsureIndexes(ctx); err != nil {
			_ = ms.Close(ctx)
			return nil, err
		}
		return ms, nil
	}

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	gs := gormstore.New(gdb)
	if err := gs.Migrate(ctx); err != nil {
		_ = gs.Close(ctx)
		return nil, err
	}
	return gs, nil
}
