package api

import (
	"fintrack-server/src/handlers"
	"fintrack-server/src/logging"
	"fintrack-server/src/middleware"
	"fintrack-server/src/services"
	"fintrack-server/src/util"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Services struct {
	Auth         *services.AuthService
	Categories   *services.CategoryService
	Transactions *services.TransactionService
	Budgets      *services.BudgetService
	Analytics    *services.AnalyticsService
	Tokens       *util.TokenIssuer
}

// NewServices builds every service on top of one store. cache may be nil.
func NewServices(store services.Store, tokens *util.TokenIssuer, cache services.IdentityCache, bcryptCost int) Services {
	categories := services.NewCategoryService(store)
	return Services{
		Auth:         services.NewAuthService(store, categories, tokens, cache, bcryptCost),
		Categories:   categories,
		Transactions: services.NewTransactionService(store),
		Budgets:      services.NewBudgetService(store),
		Analytics:    services.NewAnalyticsService(store),
		Tokens:       tokens,
	}
}

type Options struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	DemoMode       bool
}

func NewRouter(svc Services, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.Middleware(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware(opts.AllowedOrigins))
	r.Use(middleware.DemoModeMiddleware(opts.DemoMode))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		util.WriteError(w, r, util.NotFound("Route not found"))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	auth := middleware.JWTAuthMiddleware(svc.Tokens, svc.Auth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", handlers.Register(svc.Auth))
		r.Post("/auth/login", handlers.Login(svc.Auth))

		// Protected routes
		r.With(auth).Group(func(r chi.Router) {
			// Auth
			r.Get("/auth/profile", handlers.GetProfile(svc.Auth))
			r.Get("/auth/validate", handlers.ValidateToken())

			// Categories
			r.Get("/categories", handlers.GetCategories(svc.Categories))
			r.Post("/categories", handlers.CreateCategory(svc.Categories))
			r.Put("/categories/{id}", handlers.UpdateCategory(svc.Categories))
			r.Delete("/categories/{id}", handlers.DeleteCategory(svc.Categories))

			// Transactions
			r.Post("/transactions", handlers.CreateTransaction(svc.Transactions))
			r.Get("/transactions", handlers.GetTransactions(svc.Transactions))
			r.Get("/transactions/{id}", handlers.GetTransactionByID(svc.Transactions))
			r.Put("/transactions/{id}", handlers.UpdateTransaction(svc.Transactions))
			r.Delete("/transactions/{id}", handlers.DeleteTransaction(svc.Transactions))

			// Budgets
			r.Post("/budgets", handlers.CreateBudget(svc.Budgets))
			r.Get("/budgets", handlers.GetBudgets(svc.Budgets))
			r.Get("/budgets/{id}", handlers.GetBudgetByID(svc.Budgets))
			r.Put("/budgets/{id}", handlers.UpdateBudget(svc.Budgets))
			r.Delete("/budgets/{id}", handlers.DeleteBudget(svc.Budgets))

			// Analytics
			r.Get("/analytics/dashboard", handlers.GetDashboardSummary(svc.Analytics))
			r.Get("/analytics/expenses-by-category", handlers.GetExpensesByCategory(svc.Analytics))
			r.Get("/analytics/top-spending-categories", handlers.GetTopSpendingCategories(svc.Analytics))
			r.Get("/analytics/monthly-trends", handlers.GetMonthlyTrends(svc.Analytics))
			r.Get("/analytics/cumulative-balance", handlers.GetCumulativeBalance(svc.Analytics))
			r.Get("/analytics/export", handlers.ExportData(svc.Analytics))
		})
	})

	return r
}
