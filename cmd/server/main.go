package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/omegaopinmthechat/highwaydelite/config"
	"github.com/omegaopinmthechat/highwaydelite/internal/cache"
	"github.com/omegaopinmthechat/highwaydelite/internal/database"
	"github.com/omegaopinmthechat/highwaydelite/internal/handler"
	"github.com/omegaopinmthechat/highwaydelite/internal/middleware"
	"github.com/omegaopinmthechat/highwaydelite/internal/queue"
	"github.com/omegaopinmthechat/highwaydelite/internal/repository"
	"github.com/omegaopinmthechat/highwaydelite/internal/service"
	"github.com/omegaopinmthechat/highwaydelite/internal/worker"
)

func main() {
	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	var bookingQueue queue.BookingQueue
	switch cfg.Queue.Driver {
	case "redis":
		bookingQueue, err = queue.NewRedisStreamBookingQueue(rdb, "", nil)
	case "rabbitmq":
		bookingQueue, err = queue.NewRabbitMQBookingQueue(cfg.Queue.RabbitMQURL)
	default:
		bookingQueue = queue.NewMemoryBookingQueue(1024)
	}
	if err != nil {
		log.Fatalf("Failed to initialize booking queue (%s): %v", cfg.Queue.Driver, err)
	}

	availability := cache.NewAvailabilityCache(rdb, cache.DefaultAvailabilityTTL)

	experienceRepo := repository.NewExperienceRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	experienceService := service.NewExperienceService(experienceRepo, availability)
	bookingService := service.NewBookingService(pool, bookingRepo, experienceRepo, availability, bookingQueue)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notificationWorker := worker.NewNotificationWorker(bookingQueue)
	if err := notificationWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start notification worker: %v", err)
	}

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	handler.NewExperienceHandler(experienceService).RegisterRoutes(router, middleware.AdminJWT(cfg.Auth.AdminJWTSecret))
	handler.NewBookingHandler(bookingService).RegisterRoutes(router)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
