package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gestion-conges/leave-backend-go/internal/config"
	appHTTP "github.com/gestion-conges/leave-backend-go/internal/handler/http"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/cron"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/database"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/email"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/jwt"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/sse"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/storage"
	"github.com/gestion-conges/leave-backend-go/internal/repository/postgresql"
	approvalService "github.com/gestion-conges/leave-backend-go/internal/service/approval"
	attachmentService "github.com/gestion-conges/leave-backend-go/internal/service/attachment"
	authService "github.com/gestion-conges/leave-backend-go/internal/service/auth"
	holidayService "github.com/gestion-conges/leave-backend-go/internal/service/holiday"
	notificationService "github.com/gestion-conges/leave-backend-go/internal/service/notification"
	quotaService "github.com/gestion-conges/leave-backend-go/internal/service/quota"
	reminderService "github.com/gestion-conges/leave-backend-go/internal/service/reminder"
	"github.com/gestion-conges/leave-backend-go/internal/service/workingdays"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	txManager := postgresql.NewTxManager(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	actionLogRepo := postgresql.NewActionLogRepository(db)
	reminderLogRepo := postgresql.NewReminderLogRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	quotaRepo := postgresql.NewQuotaRepository(db)
	adjustmentRepo := postgresql.NewAdjustmentRepository(db)
	debitRepo := postgresql.NewDebitRepository(db)
	attachmentRepo := postgresql.NewAttachmentRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	localStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL, cfg.Storage.SignSecret)
	if err != nil {
		log.Fatal("Failed to initialize local storage:", err)
	}

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	hub := sse.NewHub()

	calculator := workingdays.NewCalculator(holidayRepo)
	notifService := notificationService.NewNotificationService(notificationRepo, employeeRepo, hub, emailService)
	quotaSvc := quotaService.NewQuotaService(txManager, quotaRepo, adjustmentRepo, debitRepo, employeeRepo, notifService)
	approvalSvc := approvalService.NewApprovalService(
		txManager,
		leaveRequestRepo,
		actionLogRepo,
		attachmentRepo,
		calculator,
		quotaSvc,
		notifService,
		approvalService.Policy{
			BlockNegativeQuota:      cfg.Policy.BlockNegativeQuota,
			RequireAttachmentReview: cfg.Policy.RequireAttachmentReview,
		},
	)
	reminderSvc := reminderService.NewReminderService(
		leaveRequestRepo,
		reminderLogRepo,
		employeeRepo,
		calculator,
		notifService,
		emailService,
		cfg.Reminder.ThresholdDays,
		cfg.Reminder.ReNotifyInterval,
	)
	holidaySvc := holidayService.NewHolidayService(holidayRepo)
	attachmentSvc := attachmentService.NewAttachmentService(attachmentRepo, leaveRequestRepo, localStorage)
	authSvc := authService.NewAuthService(employeeRepo, jwtService)

	scheduler := cron.NewScheduler()
	scheduler.AddJob("reminder-sweep", cfg.Reminder.SweepInterval, func(ctx context.Context) error {
		_, err := reminderSvc.Scan(ctx)
		return err
	})
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(appHTTP.RouterDeps{
		JWTService:          jwtService,
		AuthHandler:         appHTTP.NewAuthHandler(authSvc),
		LeaveHandler:        appHTTP.NewLeaveHandler(approvalSvc, reminderSvc, calculator),
		HolidayHandler:      appHTTP.NewHolidayHandler(holidaySvc),
		QuotaHandler:        appHTTP.NewQuotaHandler(quotaSvc),
		AttachmentHandler:   appHTTP.NewAttachmentHandler(attachmentSvc, localStorage),
		NotificationHandler: appHTTP.NewNotificationHandler(notifService, jwtService, hub),
		FrontendURL:         cfg.App.FrontendURL,
		Env:                 cfg.App.Env,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE streams stay open
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
}
