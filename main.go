package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"silverarcade/config"
	"silverarcade/database"
	reservationRepo "silverarcade/database/repository/reservation"
	tableRepo "silverarcade/database/repository/table"
	"silverarcade/handlers"
	"silverarcade/routes"
	"silverarcade/services/events"
	"silverarcade/services/notification"
	"silverarcade/services/reservation"
	"silverarcade/services/table"
	"silverarcade/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitEventsClient()

	mediaService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Warnf("main: cloudinary disabled: %v", err)
	}

	// Event fan-out: Redis pub/sub always, AMQP when a broker is configured.
	var sink events.Sink = events.NewRedisSink(utils.GetEventsClient())
	if addr := config.AppConfig.AMQPAddr; addr != "" {
		sink = events.Multi{sink, events.NewAMQPSink(addr)}
	}

	// Outbound email through the asynq queue; worker runs in-process.
	var notifier notification.Notifier = notification.Noop{}
	if config.AppConfig.SMTPHost != "" {
		asynqClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		})
		defer asynqClient.Close()
		notifier = notification.NewAsynqNotifier(asynqClient)
		notification.StartEmailWorker()
	} else {
		logger.Sugar().Warn("main: SMTP not configured, guest emails disabled")
	}

	// Repositories and services.
	tables := &table.DefaultRegistry{
		Repo:   tableRepo.NewMongoTableRepo(),
		Events: sink,
	}
	reservations := &reservation.DefaultManager{
		Repo:     reservationRepo.NewMongoReservationRepo(),
		Tables:   tables,
		Notifier: notifier,
		Events:   sink,
	}

	handlerBundle := &handlers.HandlerBundle{
		Tables:       handlers.NewTableHandler(tables),
		Reservations: handlers.NewReservationHandler(reservations),
		Storage:      handlers.NewStorageHandler(mediaService),
		Health:       handlers.NewHealthHandler(),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	routes.RegisterRoutes(router, handlerBundle, utils.GetCacheClient())

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

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
