package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"concierge/config"
	"concierge/handlers"
	"concierge/middleware"
	"concierge/routes"
	"concierge/services/booking"
	"concierge/services/calendar"
	"concierge/services/crm"
	"concierge/services/sms"
	"concierge/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: failed to load config: %v", err)
	}

	utils.InitializeLogger(cfg.IsProduction())
	logger := utils.GetLogger()
	defer logger.Sync() //nolint:errcheck

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimit(cfg.MaxRequestsPerMin))

	// External service clients.
	tokens := calendar.NewClientCredentials(cfg.ClientID, cfg.ClientSecret, cfg.TenantID)
	calendarService := calendar.NewGraphService(tokens, cfg.OwnerEmail, logger)
	crmService := crm.NewOdooService(cfg.OdooURL, cfg.OdooDB, cfg.OdooUser, cfg.OdooAPIKey, logger)
	smsService := sms.NewTwilioService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, logger)

	bookingService := &booking.DefaultService{
		Calendar: calendarService,
		CRM:      crmService,
		Logger:   logger,
	}

	handler := handlers.New(cfg, calendarService, bookingService, crmService, smsService, logger)
	routes.RegisterRoutes(router, handler)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
