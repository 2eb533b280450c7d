package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/lucaslmp2/EsfihariaMixPDV/internal/auth"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/events"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/handlers"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/httpx"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/models"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, hub *events.Hub) http.Handler {
	mux := http.NewServeMux()

	// RequireAuth checks the session still points at a real user.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	//revive:enable:unused-parameter

	audit := services.NewAuditRecorder(db)
	orderSvc := services.NewOrderService(db, hub)
	cashSvc := services.NewCashBoxService(db, hub)
	reportSvc := services.NewReportService(db)
	financeSvc := services.NewFinanceService(db)

	authHandler := handlers.NewAuthHandler(db)
	mux.HandleFunc("/signup", authHandler.Signup)
	mux.HandleFunc("/login", authHandler.Login)
	mux.HandleFunc("/logout", authHandler.Logout)
	mux.Handle("/session", auth.Middleware(http.HandlerFunc(authHandler.Session)))

	protect := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(auth.RequireAuth(h))
	}

	ph := handlers.NewProductHandler(db, audit)
	mux.Handle("/products", protect(ph.Products))
	mux.Handle("/categories", protect(ph.Categories))

	oh := handlers.NewOrderHandler(orderSvc, audit)
	mux.Handle("/orders", protect(oh.Orders))
	mux.Handle("/orders/status", protect(oh.Status))
	mux.Handle("/orders/delete", protect(oh.Delete))
	mux.Handle("/orders/pay", protect(oh.Pay))

	ch := handlers.NewCashBoxHandler(cashSvc)
	mux.Handle("/cashbox", protect(ch.Current))
	mux.Handle("/cashbox/open", protect(ch.Open))
	mux.Handle("/cashbox/close", protect(ch.Close))
	mux.Handle("/cashbox/movements", protect(ch.Movements))
	mux.Handle("/cashbox/summary", protect(ch.Summary))
	mux.Handle("/cashbox/history", protect(ch.History))

	cu := handlers.NewCustomerHandler(db, orderSvc, audit)
	mux.Handle("/customers", protect(cu.Customers))
	mux.Handle("/customers/credit", protect(cu.Credit))

	sh := handlers.NewSupplierHandler(db, audit)
	mux.Handle("/suppliers", protect(sh.Suppliers))
	mux.Handle("/suppliers/expenses", protect(sh.Expenses))
	mux.Handle("/suppliers/expenses/pay", protect(sh.PayExpense))

	fh := handlers.NewFinanceHandler(db, financeSvc)
	mux.Handle("/finance/fixed-costs", protect(fh.FixedCosts))
	mux.Handle("/finance/variable-costs", protect(fh.VariableCosts))
	mux.Handle("/finance/entries", protect(fh.Entries))
	mux.Handle("/finance/entries/pay", protect(fh.PayEntry))
	mux.Handle("/finance/goals", protect(fh.Goals))
	mux.Handle("/finance/balance-entries", protect(fh.BalanceEntries))

	rh := handlers.NewReportHandler(reportSvc, audit)
	mux.Handle("/reports/dashboard", protect(rh.Dashboard))
	mux.Handle("/reports/daily", protect(rh.Daily))
	mux.Handle("/reports/dre", protect(rh.DRE))
	mux.Handle("/reports/balance-sheet", protect(rh.BalanceSheet))
	mux.Handle("/audit", protect(rh.AuditLog))

	eh := handlers.NewEventsHandler(hub)
	mux.Handle("/events", protect(eh.Stream))

	return withRecover(withLogging(mux))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
