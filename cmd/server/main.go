package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codefit/internal/config"
	"codefit/internal/database"
	"codefit/internal/handlers"
	"codefit/internal/repository"
	"codefit/internal/security"
	"codefit/internal/service"
	"codefit/internal/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := utils.ValidateTimeRanges(cfg.DNDRanges); err != nil {
		log.Fatalf("Invalid DND configuration: %v", err)
	}
	if cfg.SummaryEnabled {
		if err := utils.ValidateEmail(cfg.SummaryFrom); err != nil {
			log.Fatalf("Invalid summary sender address: %v", err)
		}
		if err := utils.ValidateEmail(cfg.SummaryEmail); err != nil {
			log.Fatalf("Invalid summary recipient address: %v", err)
		}
	}

	// Initialize store with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	log.Printf("Store connection established (type: %s)", cfg.StoreType)

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	stateRepo := repository.NewStateRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	commitRepo := repository.NewCommitRepository(db)
	wellnessRepo := repository.NewWellnessRepository(db)

	// Initialize services
	clock := service.NewClock()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	tracker := service.NewTracker(
		activityRepo,
		wellnessRepo,
		service.NewScoringService(),
		service.NewStreakService(),
		service.NewGamificationService(cfg.GamificationEnabled, rng),
		service.NewReminderPolicy(cfg, rng),
		clock,
		rng,
		cfg.CommitGrace,
		cfg.ShowLevel,
	)

	cloudService := service.NewCloudService(cfg, stateRepo, activityRepo, wellnessRepo, clock)
	licenseService := service.NewLicenseService(cfg.LicenseSecret, cloudService, stateRepo, clock)
	exportService := service.NewExportService(activityRepo, commitRepo, wellnessRepo, clock)

	emailService, err := newEmailService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	if firstRun, err := wellnessRepo.IsFirstRun(); err == nil && firstRun {
		log.Println("First run detected: welcome to CodeFit")
		if err := wellnessRepo.MarkOpened(); err != nil {
			log.Printf("Warning: failed to mark first run: %v", err)
		}
	}

	// Background loops
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runTicker(ctx, cfg.TickInterval, tracker.Tick)
	go runRollover(ctx, tracker)
	if cfg.SummaryEnabled && emailService.IsEnabled() {
		go runWeeklySummary(ctx, emailService, wellnessRepo, activityRepo)
	}
	if cfg.GitEnabled && cfg.GitRepoPath != "" {
		gitService := service.NewGitService(cfg.GitRepoPath, cfg.GitPollInterval, commitRepo, tracker.OnCommit)
		go gitService.Run(ctx)
		log.Printf("Git watcher started for %s", cfg.GitRepoPath)
	}

	// Initialize handlers
	secretHash := ""
	if cfg.APISecret != "" {
		secretHash, err = utils.HashSecret(cfg.APISecret)
		if err != nil {
			log.Fatalf("Failed to hash API secret: %v", err)
		}
	}
	middleware := handlers.NewMiddleware(secretHash, security.NewRateLimiter(30, time.Minute))
	dashboardHandler := handlers.NewDashboardHandler(tracker, wellnessRepo)
	sessionHandler := handlers.NewSessionHandler(tracker)
	accountHandler := handlers.NewAccountHandler(cloudService, licenseService)
	syncHandler := handlers.NewSyncHandler(cloudService, exportService)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /dashboard", middleware.RequireToken(dashboardHandler.Dashboard))
	mux.HandleFunc("GET /stats", middleware.RequireToken(dashboardHandler.Stats))
	mux.HandleFunc("GET /achievements", middleware.RequireToken(dashboardHandler.Achievements))
	mux.HandleFunc("GET /quest", middleware.RequireToken(dashboardHandler.Quest))
	mux.HandleFunc("GET /exercises", middleware.RequireToken(dashboardHandler.Exercises))
	mux.HandleFunc("POST /signals", middleware.RequireToken(dashboardHandler.Signals))

	mux.HandleFunc("POST /exercise/start", middleware.RequireToken(sessionHandler.StartExercise))
	mux.HandleFunc("POST /exercise/skip", middleware.RequireToken(sessionHandler.SkipStep))
	mux.HandleFunc("POST /exercise/stop", middleware.RequireToken(sessionHandler.StopSession))
	mux.HandleFunc("GET /exercise/status", middleware.RequireToken(sessionHandler.SessionStatus))
	mux.HandleFunc("POST /break/now", middleware.RequireToken(sessionHandler.BreakNow))
	mux.HandleFunc("POST /snooze", middleware.RequireToken(sessionHandler.Snooze))
	mux.HandleFunc("POST /reminders/pause", middleware.RequireToken(sessionHandler.TogglePause))
	mux.HandleFunc("POST /prompt/action", middleware.RequireToken(sessionHandler.PromptAction))

	mux.HandleFunc("POST /auth/signin", middleware.RateLimit(accountHandler.SignIn))
	mux.HandleFunc("GET /auth/callback", accountHandler.Callback)
	mux.HandleFunc("POST /auth/signout", accountHandler.SignOut)
	mux.HandleFunc("GET /license", middleware.RequireToken(accountHandler.License))
	mux.HandleFunc("POST /license/activate", middleware.RateLimit(accountHandler.ActivateLicense))

	mux.HandleFunc("POST /sync", middleware.RequireToken(middleware.RateLimit(syncHandler.Sync)))
	mux.HandleFunc("GET /export", middleware.RequireToken(middleware.RateLimit(syncHandler.Export)))
	mux.HandleFunc("GET /team/stats", middleware.RequireToken(syncHandler.TeamStats))
	mux.HandleFunc("GET /team/organization", middleware.RequireToken(syncHandler.Organization))
	mux.HandleFunc("GET /team/analytics", middleware.RequireToken(syncHandler.Analytics))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server on loopback only
	addr := "127.0.0.1:" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Companion listening on http://%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Companion shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

func newEmailService(cfg *config.Config) (*service.EmailService, error) {
	if !cfg.SummaryEnabled {
		return service.NewEmailService(cfg.AWSRegion, "", "", cfg.Debug)
	}
	return service.NewEmailService(cfg.AWSRegion, cfg.SummaryFrom, cfg.SummaryEmail, cfg.Debug)
}

// runTicker drives the reminder policy once per tick interval
func runTicker(ctx context.Context, interval time.Duration, tick func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick()
		}
	}
}

// runRollover waits until each local midnight and runs the daily reset
func runRollover(ctx context.Context, tracker *service.Tracker) {
	tracker.Rollover()

	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			tracker.Rollover()
		}
	}
}

// runWeeklySummary emails a digest every Sunday evening
func runWeeklySummary(ctx context.Context, emails *service.EmailService, wellness *repository.WellnessRepository, activities *repository.ActivityRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	var lastSent string
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			if now.Weekday() != time.Sunday || now.Hour() < 18 {
				continue
			}
			week := now.Format("2006-01-02")
			if week == lastSent {
				continue
			}

			stats, err := wellness.Stats()
			if err != nil {
				log.Printf("weekly summary: loading stats: %v", err)
				continue
			}
			recent, err := activities.CreatedSince(now.AddDate(0, 0, -7))
			if err != nil {
				log.Printf("weekly summary: loading activities: %v", err)
				continue
			}
			if err := emails.SendWeeklySummary(ctx, stats, recent); err != nil {
				log.Printf("weekly summary: %v", err)
				continue
			}
			lastSent = week
		}
	}
}
