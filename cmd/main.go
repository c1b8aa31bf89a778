// society-service/cmd/main.go

package main

import (
	"context"
	"net/http"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sendgrid/sendgrid-go"
	twilio "github.com/twilio/twilio-go"

	"github.com/towerline/society-service/internal/app"
	"github.com/towerline/society-service/internal/config"
	"github.com/towerline/society-service/internal/controllers"
	"github.com/towerline/society-service/internal/middleware"
	"github.com/towerline/society-service/internal/repositories"
	"github.com/towerline/society-service/internal/routes"
	"github.com/towerline/society-service/internal/services"
	"github.com/towerline/society-service/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize society-service:", err)
	}
	defer application.Close()

	logRepo := repositories.NewCleanupLogRepository(application.DB)
	retentionRepo := repositories.NewRetentionRepository(application.DB)
	userRepo := repositories.NewUserRepository(application.DB)
	apartmentRepo := repositories.NewApartmentRepository(application.DB)
	amenityRepo := repositories.NewAmenityRepository(application.DB)
	notificationRepo := repositories.NewNotificationRepository(application.DB)

	var twClient *twilio.RestClient
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		twClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	}
	sgClient := sendgrid.NewSendClient(cfg.SendGridAPIKey)

	notifier := services.NewAdminNotifier(cfg, userRepo, notificationRepo, twClient, sgClient)
	exportService := services.NewExportService(retentionRepo, userRepo, apartmentRepo, amenityRepo)
	cleanupService := services.NewCleanupService(
		cfg,
		logRepo,
		retentionRepo,
		userRepo,
		exportService,
		notifier,
		sgClient,
	)

	cleanupController := controllers.NewCleanupController(cleanupService)
	healthController := controllers.NewHealthController(application)

	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AdminAuthMiddleware(cfg.RSAPublicKey))

	secured.HandleFunc(routes.CleanupStatus, cleanupController.GetStatusHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.CleanupExportCategory, cleanupController.ExportCategoryHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.CleanupExportAll, cleanupController.ExportAllHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.CleanupSendEmail, cleanupController.SendEmailHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.CleanupRun, cleanupController.PerformCleanupHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.CleanupSkip, cleanupController.SkipCleanupHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.CleanupHistory, cleanupController.GetHistoryHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.CleanupCheckReminder, cleanupController.CheckReminderHandler).Methods(http.MethodPost)

	c := cron.New()
	_, reminderErr := c.AddFunc("0 9 * * *", func() {
		if _, e := cleanupService.CheckReminder(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled reminder check failed")
		}
	})
	if reminderErr != nil {
		utils.Logger.WithError(reminderErr).Fatal("Failed to schedule reminder cron")
	}

	if cfg.AutoCleanupEnabled {
		_, cleanupErr := c.AddFunc("30 9 * * *", func() {
			if e := cleanupService.RunScheduledCleanup(context.Background()); e != nil {
				utils.Logger.WithError(e).Error("Scheduled cleanup failed")
			}
		})
		if cleanupErr != nil {
			utils.Logger.WithError(cleanupErr).Fatal("Failed to schedule cleanup cron")
		}
	}
	c.Start()

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppUrl},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("society-service failed to start:", err)
	}
}
