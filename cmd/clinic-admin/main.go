package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/clinicore/clinic-admin/internal/audit"
	"github.com/clinicore/clinic-admin/internal/authz"
	"github.com/clinicore/clinic-admin/internal/clinicadmin"
	"github.com/clinicore/clinic-admin/internal/iam"
	"github.com/clinicore/clinic-admin/pkg/config"
	"github.com/clinicore/clinic-admin/pkg/database"
	"github.com/clinicore/clinic-admin/pkg/encryption"
	"github.com/clinicore/clinic-admin/pkg/logger"
	"github.com/clinicore/clinic-admin/pkg/monitoring"
	"github.com/clinicore/clinic-admin/pkg/rbac"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)
	log.Info("Starting Clinic Admin Service")

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	// Audit trail storage
	auditStore := audit.NewStore(db.DB, log)
	if err := auditStore.InitSchema(context.Background()); err != nil {
		log.WithError(err).Error("Failed to initialize audit schema")
		os.Exit(1)
	}
	auditRecorder := authz.NewAuditRecorder(auditStore, log, cfg.Audit.QueueSize)
	defer auditRecorder.Close()

	// Document encryption
	crypto, err := encryption.NewAESEncryption(cfg.Encryption.AESKey)
	if err != nil {
		log.WithError(err).Error("Failed to initialize document encryption")
		os.Exit(1)
	}

	// Observability
	metrics := monitoring.NewMetricsCollector()
	health := monitoring.NewHealthManager("clinic-admin")
	health.RegisterChecker("database", monitoring.NewDatabaseHealthChecker(db.DB))
	health.RegisterChecker("audit_queue", monitoring.NewCustomHealthChecker(auditQueueCheck(auditRecorder)))

	var tracing *monitoring.TracingManager
	if cfg.Tracing.Enabled {
		tracing, err = monitoring.NewTracingManager(&monitoring.TracingConfig{
			ServiceName:    "clinic-admin",
			JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
			Environment:    cfg.Tracing.Environment,
			SamplingRate:   cfg.Tracing.SamplingRate,
		})
		if err != nil {
			log.WithError(err).Error("Failed to initialize tracing")
			os.Exit(1)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx); err != nil {
				log.WithError(err).Warn("Tracing shutdown failed")
			}
		}()
	}

	// Authentication components
	tokenManager := iam.NewTokenManager(
		cfg.JWT.SecretKey,
		cfg.JWT.Issuer,
		time.Duration(cfg.JWT.AccessTokenTTL)*time.Second,
	)
	passwordManager := iam.NewPasswordManager()
	userRepo := iam.NewUserRepository(db.DB, log)
	loginLimiter := iam.NewLoginRateLimiter(10, time.Minute)
	authHandlers := iam.NewHandlers(userRepo, passwordManager, tokenManager, loginLimiter, metrics, log)

	// Authorization engine over the static permission matrix
	engine := rbac.NewEngine(rbac.DefaultMatrix())
	resolver := iam.NewBearerSessionResolver(tokenManager)
	authorizer := authz.NewAuthorizer(resolver, engine, log)

	// HTTP routes
	router := mux.NewRouter()
	router.Use(requestLogging(log))
	router.Use(metrics.HTTPMiddleware)
	if tracing != nil {
		router.Use(tracing.HTTPMiddleware)
	}

	router.HandleFunc("/health", health.HTTPHandler()).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	authHandlers.RegisterRoutes(router)

	apiHandlers := clinicadmin.NewHandlers(db.DB, authorizer, auditRecorder, crypto, metrics, tracing, log)
	apiHandlers.RegisterRoutes(router)

	// Periodic audit retention sweep
	stopPurge := startAuditPurge(auditStore, cfg.Audit.RetentionDays, log)
	defer stopPurge()

	// Pool usage gauge and login limiter housekeeping
	stopHousekeeping := startHousekeeping(db, metrics, loginLimiter)
	defer stopHousekeeping()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.WithFields(map[string]interface{}{"address": server.Addr}).Info("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Failed to start HTTP server")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down Clinic Admin Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		os.Exit(1)
	}

	log.Info("Clinic Admin Service stopped")
}

// requestLogging logs every completed request with its status and latency.
func requestLogging(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.HTTPRequest(r.Method, r.URL.Path, authz.ClientIP(r), sw.status, time.Since(start).Milliseconds())
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// auditQueueCheck reports audit queue pressure. A backlog above 90% of
// capacity degrades the service: new entries are about to be dropped.
func auditQueueCheck(recorder *authz.AuditRecorder) func(ctx context.Context) monitoring.HealthCheck {
	return func(ctx context.Context) monitoring.HealthCheck {
		depth := recorder.QueueDepth()
		capacity := recorder.QueueCapacity()

		check := monitoring.HealthCheck{
			Status:  monitoring.HealthStatusHealthy,
			Message: "Audit queue draining",
			Details: map[string]interface{}{
				"depth":    depth,
				"capacity": capacity,
			},
		}
		if capacity > 0 && depth*10 >= capacity*9 {
			check.Status = monitoring.HealthStatusDegraded
			check.Message = "Audit queue nearly full"
		}
		return check
	}
}

// startHousekeeping samples the connection pool gauge and sweeps stale
// login limiter buckets. Returns a stop function.
func startHousekeeping(db *database.DB, metrics *monitoring.MetricsCollector, limiter *iam.LoginRateLimiter) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.RecordDBConnections(db.Stats().OpenConnections)
				limiter.Sweep()
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}

// startAuditPurge deletes audit entries older than the retention window
// once a day. Returns a stop function.
func startAuditPurge(store *audit.Store, retentionDays int, log *logger.Logger) func() {
	if retentionDays <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().AddDate(0, 0, -retentionDays)
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				deleted, err := store.PurgeOlderThan(ctx, cutoff)
				cancel()
				if err != nil {
					log.WithError(err).Error("Audit retention sweep failed")
					continue
				}
				if deleted > 0 {
					log.WithFields(map[string]interface{}{"deleted": deleted}).Info("Purged expired audit entries")
				}
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }
}
