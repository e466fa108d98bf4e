package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"notification-service/internal/config"
	"notification-service/internal/db"
	"notification-service/internal/events"
	"notification-service/internal/handlers"
	"notification-service/internal/ledger"
	"notification-service/internal/middleware"
	"notification-service/internal/notify"
	"notification-service/internal/observability"
	"notification-service/internal/push"
	"notification-service/internal/rabbitmq"
	"notification-service/internal/repositories"
	"notification-service/internal/telemetry"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AuditExchange)
	defer publisher.Close()
	audit := telemetry.NewAuditEmitter(publisher, cfg.AuditRoutingKey, "notification-service", cfg.Environment)

	transport := push.NewHTTPTransport(cfg.PushGatewayURL)

	tokenRepo := repositories.NewTokenRepo(database, cfg.QueryBatchLimit)
	userRepo := repositories.NewUserRepo(database, cfg.QueryBatchLimit)
	groupRepo := repositories.NewGroupRepo(database)
	statsRepo := repositories.NewStatsRepo(database)

	defaultQuota := statsRepo.DefaultQuota(context.Background(), config.DefaultStorageQuotaBytes)
	log.Printf("storage quota default=%d bytes", defaultQuota)

	resolver := notify.NewResolver(groupRepo, userRepo, tokenRepo, cfg.ExcludedChatRole)
	dispatcher := notify.NewDispatcher(transport, tokenRepo)
	quotaLedger := ledger.NewLedger(statsRepo, defaultQuota)

	if cfg.AMQPURL != "" {
		consumer, err := rabbitmq.NewConsumer(cfg.AMQPURL, cfg.TriggerExchange, cfg.TriggerQueue, events.RoutingKeys)
		if err != nil {
			log.Fatalf("failed to start trigger consumer: %v", err)
		}
		defer consumer.Close()

		handler := events.NewHandler(resolver, dispatcher, quotaLedger)
		if err := consumer.Start(context.Background(), handler); err != nil {
			log.Fatalf("failed to consume triggers: %v", err)
		}
	} else {
		log.Println("AMQP_URL not set, trigger consumer disabled")
	}

	tokenHandler := handlers.NewTokenHandler(tokenRepo, audit)
	groupHandler := handlers.NewGroupHandler(groupRepo, resolver, dispatcher, audit)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret)

	router.POST("/tokens/attach", authMiddleware, tokenHandler.AttachToken)
	router.POST("/tokens/detach", authMiddleware, tokenHandler.DetachToken)
	router.POST("/groups/join", authMiddleware, groupHandler.JoinGroupByCode)
	router.POST("/notifications/group-alert", authMiddleware, groupHandler.SendGroupAlert)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "notification-service"})
	})
	handlers.RegisterDebugRoutes(router, audit, cfg.Environment == "development")

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
