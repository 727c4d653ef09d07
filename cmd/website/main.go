package main

import (
	"context"
	"encoding/gob"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/4kphotoz/website/cmd/website/internal/admin"
	"github.com/4kphotoz/website/cmd/website/internal/alerts"
	"github.com/4kphotoz/website/cmd/website/internal/auth"
	"github.com/4kphotoz/website/cmd/website/internal/cache"
	"github.com/4kphotoz/website/cmd/website/internal/configuration"
	"github.com/4kphotoz/website/cmd/website/internal/contact"
	"github.com/4kphotoz/website/cmd/website/internal/gallery"
	"github.com/4kphotoz/website/pkg/lightroom"
	"github.com/4kphotoz/website/pkg/models"
	"github.com/4kphotoz/website/pkg/services"
	"github.com/4kphotoz/website/pkg/stores"
	"github.com/adampresley/adamgokit/awsconfig"
	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/retrier"
	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Version string = "development"
	appName string = "4kphotoz"

	config configuration.Config

	/* Services */
	alertService        services.AlertServicer
	contactService      services.ContactServicer
	galleryCache        cache.GalleryCache
	notificationService services.NotificationServicer
	sessionService      sessions.Session[*models.AdminUser]
	settingsService     services.SettingsServicer
	store               stores.Store

	/* Controllers */
	adminController   admin.AdminHandlers
	alertsController  alerts.AlertsHandlers
	contactController contact.ContactHandlers
	galleryController gallery.GalleryHandlers
)

func main() {
	var (
		err error
	)

	config = configuration.LoadConfig()
	setupLogger(&config, Version)

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("loglevel", config.LogLevel),
		slog.String("host", config.Host),
		slog.String("storeBackend", config.StoreBackend),
		slog.String("lightroomApiBase", config.LightroomApiBase),
	)

	slog.Debug("setting up...")

	shutdownCtx, cancel := context.WithCancel(context.Background())

	/*
	 * Setup services
	 */
	gob.Register(&models.AdminUser{})

	cookieStore := sessions.NewCookieStore(config.CookieSecret)
	sessionService = sessions.NewSessionWrapper[*models.AdminUser](cookieStore, "4kphotozadmin", "admin")

	storeConfig := stores.StoreConfig{
		Backend:   config.StoreBackend,
		DataFile:  config.DataFile,
		DSN:       config.DSN,
		BadgerDir: config.BadgerDir,
		Bucket:    config.StoreBucket,
		Prefix:    config.StorePrefix,
		Region:    config.AwsRegion,
	}

	if config.StoreBackend == stores.BackendS3 {
		storeConfig.S3Client = setupS3Client()
	}

	if store, err = stores.NewStore(shutdownCtx, storeConfig); err != nil {
		panic(err)
	}

	catalog := lightroom.NewClient(lightroom.ClientConfig{
		BaseURL:      config.LightroomApiBase,
		TokenURL:     config.AdobeTokenURL,
		ClientID:     config.AdobeClientID,
		ClientSecret: config.AdobeClientSecret,
		AccessToken:  config.AdobeAccessToken,
		RefreshToken: config.AdobeRefreshToken,
		CatalogID:    config.AdobeCatalogID,
		Timeout:      time.Duration(config.UpstreamTimeoutSeconds) * time.Second,
	})

	if !catalog.Configured() {
		slog.Warn("photo catalog is not configured, the gallery will serve placeholder data")
	}

	fallbackImage, err := services.LoadFallbackImage(config.FallbackImagePath)
	if err != nil {
		slog.Warn("fallback image not available", "path", config.FallbackImagePath, "error", err)
	}

	var emailSender services.EmailSender = services.NoopEmailSender{}

	if config.EmailApiKey != "" {
		emailSender = services.NewResendEmailSender(config.EmailApiKey)
	} else {
		slog.Warn("no email API key configured, emails will only be logged")
	}

	emailTimeout := time.Duration(config.EmailTimeoutSeconds) * time.Second

	settingsService = services.NewSettingsService(services.SettingsServiceConfig{
		Repository: store,
	})

	alertService = services.NewAlertService(services.AlertServiceConfig{
		Repository: store,
	})

	notificationService = services.NewNotificationService(services.NotificationServiceConfig{
		Repository:   store,
		Sender:       emailSender,
		From:         config.AlertsFrom,
		EmailTimeout: emailTimeout,
		MaxWorkers:   config.MaxSendWorkers,
	})

	contactService = services.NewContactService(services.ContactServiceConfig{
		Sender:       emailSender,
		From:         config.ContactFrom,
		To:           config.ContactToEmail,
		EmailTimeout: emailTimeout,
	})

	galleryService := services.NewGalleryService(services.GalleryServiceConfig{
		Catalog:    catalog,
		Settings:   store,
		Fallback:   fallbackImage,
		MaxWorkers: config.MaxGalleryWorkers,
	})

	galleryCache = cache.NewGalleryCache(cache.GalleryCacheConfig{
		GalleryService:  galleryService,
		MaxCacheWorkers: config.MaxGalleryWorkers,
		ShutdownCtx:     shutdownCtx,
		TTL:             time.Duration(config.AlbumCacheSeconds) * time.Second,
	})

	/*
	 * Setup controllers
	 */
	authenticator := auth.NewAuthenticator(auth.AuthenticatorConfig{
		Username:     config.AdminUsername,
		Password:     config.AdminPassword,
		PasswordHash: config.AdminPasswordHash,
		Email:        config.AdminEmail,
	})

	adminController = admin.NewAdminController(admin.AdminControllerConfig{
		Authenticator:   authenticator,
		GalleryCache:    galleryCache,
		Session:         sessionService,
		SettingsService: settingsService,
	})

	alertsController = alerts.NewAlertsController(alerts.AlertsControllerConfig{
		AlertService:        alertService,
		NotificationService: notificationService,
	})

	contactController = contact.NewContactController(contact.ContactControllerConfig{
		ContactService: contactService,
	})

	galleryController = gallery.NewGalleryController(gallery.GalleryControllerConfig{
		GalleryService: galleryCache,
		Session:        sessionService,
	})

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	adminMiddleware := newAdminMiddleware(sessionService)
	rateLimitMiddleware := newRateLimitMiddleware(config.PublicRateLimit)

	routes := []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: heartbeat},
		{Path: "GET /metrics", HandlerFunc: promhttp.Handler().ServeHTTP},

		{Path: "POST /api/admin/login", HandlerFunc: adminController.Login, Middlewares: []mux.MiddlewareFunc{rateLimitMiddleware}},
		{Path: "POST /api/admin/logout", HandlerFunc: adminController.Logout},
		{Path: "GET /api/admin/session", HandlerFunc: adminController.CurrentSession, Middlewares: []mux.MiddlewareFunc{adminMiddleware}},
		{Path: "GET /api/admin/settings", HandlerFunc: adminController.GetSettings, Middlewares: []mux.MiddlewareFunc{adminMiddleware}},
		{Path: "POST /api/admin/settings", HandlerFunc: adminController.UpdateSettings, Middlewares: []mux.MiddlewareFunc{adminMiddleware}},

		{Path: "POST /api/alerts/signup", HandlerFunc: alertsController.Signup, Middlewares: []mux.MiddlewareFunc{rateLimitMiddleware}},
		{Path: "GET /api/alerts/manage", HandlerFunc: alertsController.ListSignups, Middlewares: []mux.MiddlewareFunc{adminMiddleware}},
		{Path: "DELETE /api/alerts/manage", HandlerFunc: alertsController.ManageSignup, Middlewares: []mux.MiddlewareFunc{adminMiddleware}},
		{Path: "POST /api/alerts/send", HandlerFunc: alertsController.Send, Middlewares: []mux.MiddlewareFunc{adminMiddleware}},

		{Path: "POST /api/contact", HandlerFunc: contactController.Submit, Middlewares: []mux.MiddlewareFunc{rateLimitMiddleware}},

		{Path: "GET /api/gallery", HandlerFunc: galleryController.Listing},
		{Path: "GET /api/gallery/image/{assetId}/{size}", HandlerFunc: galleryController.Image},
	}

	routerConfig := mux.RouterConfig{
		Address:          config.Host,
		Debug:            Version == "development",
		HttpWriteTimeout: 60,
	}

	m := mux.SetupRouter(routerConfig, routes)
	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * Start the gallery cache job
	 */
	setupCacheCreator(quit, time.Duration(config.AlbumCacheSeconds)*time.Second)

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit

	cancel()
	mux.Shutdown(httpServer)

	if err = store.Close(); err != nil {
		slog.Error("error closing store", "error", err)
	}

	slog.Info("server stopped")
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}

func setupS3Client() s3.S3Client {
	var (
		err      error
		s3Client s3.S3Client
	)

	awsConfig := &awsconfig.Config{
		Endpoint:        config.AwsEndpointUrl,
		Region:          config.AwsRegion,
		AccessKeyID:     config.AwsAccessKeyId,
		SecretAccessKey: config.AwsSecretAccessKey,
	}

	retrier.Retry(func() error {
		if err = awsConfig.Load(); err != nil {
			slog.Error("failed to load AWS config. trying again", "error", err)
			return err
		}

		return nil
	})

	if err != nil {
		panic(err)
	}

	if s3Client, err = s3.NewClient(awsConfig); err != nil {
		panic(err)
	}

	return s3Client
}

/*
setupCacheCreator warms the gallery cache at startup and again every
interval. A zero interval disables caching entirely.
*/
func setupCacheCreator(quit chan os.Signal, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		runner := func() {
			galleryCache.CreateCache()
			slog.Info("cache creator finished.")
		}

		runner()

		// runs inline, so a slow warm-up delays the next tick instead of overlapping it
		for {
			select {
			case <-quit:
				return

			case <-ticker.C:
				runner()
			}
		}
	}()
}
