package main

import (
	"context"
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"time"

	"github.com/financialtrack/backend/src/config"
	"github.com/financialtrack/backend/src/database"
	"github.com/financialtrack/backend/src/handlers"
	"github.com/financialtrack/backend/src/logger"
	"github.com/financialtrack/backend/src/scheduler"
	"github.com/financialtrack/backend/src/security"
	"github.com/financialtrack/backend/src/services"
	"github.com/financialtrack/backend/src/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == config.Cfg.FrontendBaseURL {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("FinancialTrack backend server starting...")

	if len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	reportCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	debtStore := store.NewSQLDebtStore(database.DB)
	accountStore := store.NewSQLAccountStore(database.DB)
	transactionStore := store.NewSQLTransactionStore(database.DB)
	notificationStore := store.NewSQLNotificationStore(database.DB)
	goalStore := store.NewSQLGoalStore(database.DB)
	budgetStore := store.NewSQLBudgetStore(database.DB)

	clock := services.SystemClock()

	authService := security.NewAuthService(config.Cfg.JWTSecret, config.Cfg.AccessTokenExpiry)
	notificationService := services.NewNotificationService(notificationStore, clock)
	reminderService := services.NewReminderService(debtStore, notificationService, clock)
	ledgerService := services.NewLedgerService(accountStore, goalStore, debtStore, clock)
	reportService := services.NewReportService(transactionStore, reportCache)
	transactionService := services.NewTransactionService(
		transactionStore,
		budgetStore,
		goalStore,
		ledgerService,
		notificationService,
		reportService,
		clock,
		config.Cfg.LargeTransactionThreshold,
		config.Cfg.BudgetAlertPercent,
	)
	debtService := services.NewDebtService(debtStore, notificationService, clock)

	userHandler := handlers.NewUserHandler(authService)
	accountHandler := handlers.NewAccountHandler(accountStore)
	transactionHandler := handlers.NewTransactionHandler(transactionStore, transactionService)
	debtHandler := handlers.NewDebtHandler(debtStore, debtService, reminderService)
	notificationHandler := handlers.NewNotificationHandler(notificationStore)
	budgetHandler := handlers.NewBudgetHandler(budgetStore)
	goalHandler := handlers.NewGoalHandler(goalStore)
	reportHandler := handlers.NewReportHandler(reportService)

	reminderScheduler := scheduler.NewDebtReminderScheduler(reminderService, config.Cfg.ReminderCheckInterval)
	reminderScheduler.Start(context.Background())

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "FinancialTrack Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", userHandler.RegisterUserHandler)
			r.Post("/auth/login", userHandler.LoginUserHandler)
			r.Post("/auth/refresh", userHandler.RefreshTokenHandler)
			r.With(userHandler.AuthMiddleware).Post("/auth/logout", userHandler.LogoutUserHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(userHandler.AuthMiddleware)

			r.Get("/user/profile", userHandler.GetProfileHandler)

			r.Get("/accounts", accountHandler.ListAccountsHandler)
			r.Post("/accounts", accountHandler.CreateAccountHandler)
			r.Put("/accounts/{id}", accountHandler.UpdateAccountHandler)
			r.Delete("/accounts/{id}", accountHandler.DeleteAccountHandler)

			r.Get("/transactions", transactionHandler.ListTransactionsHandler)
			r.Post("/transactions", transactionHandler.CreateTransactionHandler)
			r.Put("/transactions/{id}", transactionHandler.UpdateTransactionHandler)
			r.Delete("/transactions/{id}", transactionHandler.DeleteTransactionHandler)

			r.Get("/debts", debtHandler.ListActiveDebtsHandler)
			r.Get("/debts/paid", debtHandler.ListPaidDebtsHandler)
			r.Post("/debts", debtHandler.CreateDebtHandler)
			r.Put("/debts/{id}", debtHandler.UpdateDebtHandler)
			r.Post("/debts/{id}/pay", debtHandler.MarkDebtPaidHandler)
			r.Post("/debts/{id}/reactivate", debtHandler.ReactivateDebtHandler)
			r.Delete("/debts/{id}", debtHandler.DeleteDebtHandler)

			r.Get("/notifications", notificationHandler.ListNotificationsHandler)
			r.Get("/notifications/unread", notificationHandler.ListUnreadNotificationsHandler)
			r.Post("/notifications/{id}/read", notificationHandler.MarkNotificationReadHandler)
			r.Delete("/notifications/{id}", notificationHandler.DeleteNotificationHandler)
			r.Delete("/notifications", notificationHandler.ClearNotificationsHandler)

			r.Get("/budgets", budgetHandler.ListBudgetsHandler)
			r.Post("/budgets", budgetHandler.CreateBudgetHandler)
			r.Put("/budgets/{id}", budgetHandler.UpdateBudgetHandler)
			r.Delete("/budgets/{id}", budgetHandler.DeleteBudgetHandler)

			r.Get("/goals", goalHandler.ListGoalsHandler)
			r.Post("/goals", goalHandler.CreateGoalHandler)
			r.Put("/goals/{id}", goalHandler.UpdateGoalHandler)
			r.Delete("/goals/{id}", goalHandler.DeleteGoalHandler)

			r.Get("/reports/monthly", reportHandler.MonthlySummaryHandler)
		})
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
