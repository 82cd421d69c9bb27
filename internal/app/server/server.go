package server

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/db"
	"staffhub/internal/domain/attendance"
	"staffhub/internal/domain/audit"
	"staffhub/internal/domain/auth"
	"staffhub/internal/domain/employee"
	"staffhub/internal/domain/leave"
	"staffhub/internal/domain/notifications"
	"staffhub/internal/domain/payroll"
	"staffhub/internal/platform/config"
	cryptoutil "staffhub/internal/platform/crypto"
	"staffhub/internal/platform/email"
	"staffhub/internal/realtime"
	attendancehandler "staffhub/internal/transport/http/handlers/attendance"
	audithandler "staffhub/internal/transport/http/handlers/audit"
	authhandler "staffhub/internal/transport/http/handlers/auth"
	leavehandler "staffhub/internal/transport/http/handlers/leave"
	notificationshandler "staffhub/internal/transport/http/handlers/notifications"
	payrollhandler "staffhub/internal/transport/http/handlers/payroll"
	profilehandler "staffhub/internal/transport/http/handlers/profile"
	reportshandler "staffhub/internal/transport/http/handlers/reports"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
)

// salaryAdapter exposes the profile store's basic salary to the leave
// service without a package cycle.
type salaryAdapter struct {
	store *employee.Store
}

func (a salaryAdapter) BasicSalary(ctx context.Context, employeeID string) (float64, bool, error) {
	profile, err := a.store.ProfileByEmployeeID(ctx, employeeID)
	if err != nil {
		return 0, false, err
	}
	if profile.Salary == nil {
		return 0, false, nil
	}
	return profile.Salary.Basic, true, nil
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	cryptoSvc, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		log.Fatalf("crypto init failed: %v", err)
	}
	mailer := email.New(cfg)
	hub := realtime.NewHub()

	tokens := auth.NewTokenService(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authStore := auth.NewStore(pool)
	authSvc := auth.NewService(authStore, tokens, mailer, cryptoSvc, cfg.EmailFrom, cfg.PublicBaseURL, cfg.ResetTokenTTL)

	profileStore := employee.NewStore(pool, cryptoSvc)
	auditSvc := audit.New(pool)
	notifySvc := notifications.New(notifications.NewStore(pool), mailer, hub, cfg.EmailFrom)

	attendanceSvc := attendance.NewService(&attendance.Store{DB: pool})
	leaveSvc := leave.NewService(&leave.Store{DB: pool}, salaryAdapter{store: profileStore})
	payrollSvc := &payroll.Service{Store: &payroll.Store{DB: pool}, Profiles: profileStore}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	authHandler := authhandler.NewHandler(authSvc)

	router.Route("/api/v1", func(r chi.Router) {
		authHandler.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens, authStore))

			authHandler.RegisterProtectedRoutes(r)
			profilehandler.NewHandler(profileStore, auditSvc).RegisterRoutes(r)
			attendancehandler.NewHandler(attendanceSvc, auditSvc).RegisterRoutes(r)
			leavehandler.NewHandler(leaveSvc, notifySvc, authStore).RegisterRoutes(r)
			payrollhandler.NewHandler(payrollSvc, profileStore, notifySvc, authStore, auditSvc).RegisterRoutes(r)
			notificationshandler.NewHandler(notifySvc).RegisterRoutes(r)
			reportshandler.NewHandler(attendanceSvc, leaveSvc, payrollSvc, profileStore).RegisterRoutes(r)
			audithandler.NewHandler(auditSvc).RegisterRoutes(r)

			r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
				identity, ok := middleware.GetIdentity(r.Context())
				if !ok {
					api.Fail(w, http.StatusUnauthorized, "authentication required", middleware.GetRequestID(r.Context()))
					return
				}
				hub.Serve(w, r, identity.AccountID)
			})
		})
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	slog.Info("server listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
