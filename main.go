// File: carebook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carebook/config"
	"carebook/cron"
	"carebook/database"
	appointmentRepo "carebook/database/repository/appointment"
	providerRepo "carebook/database/repository/provider"
	serviceRepo "carebook/database/repository/service"
	"carebook/handlers"
	"carebook/middleware"
	"carebook/routes"
	"carebook/services/booking"
	"carebook/services/notification"
	"carebook/services/tasks"
	"carebook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.Default())

	// repositories.
	provRepo := providerRepo.NewMongoProviderRepo()
	svcRepo := serviceRepo.NewMongoServiceRepo()
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()

	// hold store and services.
	holdStore := booking.NewRedisHoldStore(utils.GetHoldCacheClient())
	reminderScheduler := tasks.NewReminderScheduler()

	availabilityEngine := &booking.DefaultAvailabilityEngine{
		Services:     svcRepo,
		Providers:    provRepo,
		Appointments: apptRepo,
		Holds:        holdStore,
	}
	bookingService := &booking.DefaultBookingService{
		Services:     svcRepo,
		Providers:    provRepo,
		Appointments: apptRepo,
		Holds:        holdStore,
		Reminders:    reminderScheduler,
	}

	notificationService := &notification.LogNotificationService{Logger: logger}
	cron.InitReminderWorker(apptRepo, notificationService)

	utils.StartHealthMonitor(
		map[string]*redis.Client{
			"cache": utils.GetCacheClient(),
			"holds": utils.GetHoldCacheClient(),
		},
		database.MongoClient,
	)

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Availability: handlers.NewAvailabilityHandler(availabilityEngine, logger),
		Booking:      handlers.NewBookingHandler(bookingService, logger),
		Appointments: handlers.NewAppointmentHandler(apptRepo, logger),
		Catalog:      handlers.NewCatalogHandler(svcRepo, provRepo, logger),
		Provider:     handlers.NewProviderHandler(provRepo, logger),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
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
