package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/lookfor-app/experience-service/config"
	"github.com/lookfor-app/experience-service/internal/consumer"
	"github.com/lookfor-app/experience-service/internal/handler"
	"github.com/lookfor-app/experience-service/internal/mailer"
	"github.com/lookfor-app/experience-service/internal/middleware"
	"github.com/lookfor-app/experience-service/internal/notifier"
	"github.com/lookfor-app/experience-service/internal/repository"
	"github.com/lookfor-app/experience-service/internal/service"
	"github.com/lookfor-app/experience-service/pkg/database"
	"github.com/lookfor-app/experience-service/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// RabbitMQ publisher: the cancellation orchestrator's notification channel
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	// RabbitMQ consumer: delivers queued notifications by mail
	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}

	resend := mailer.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom)
	consumer.NewNotificationConsumer(resend).Start(msgs)

	// Repositories
	experienceRepo := repository.NewExperienceRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// Services
	experienceSvc := service.NewExperienceService(experienceRepo)
	admissionSvc := service.NewAdmissionService(enrollmentRepo, experienceRepo)
	discoverySvc := service.NewDiscoveryService(experienceRepo, enrollmentRepo)
	cancellationSvc := service.NewCancellationService(
		experienceRepo, enrollmentRepo, profileRepo,
		notifier.NewAMQPNotifier(publisher), cfg.NotifyTimeout,
	)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "experience-service"})
	})

	handler.NewExperienceHandler(experienceSvc, discoverySvc, cancellationSvc).RegisterRoutes(e)
	handler.NewEnrollmentHandler(admissionSvc, experienceSvc).RegisterRoutes(e)

	log.Printf("Experience Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
