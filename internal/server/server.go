package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dugsihub/dugsi/internal/backup"
	"github.com/dugsihub/dugsi/internal/handler"
	"github.com/dugsihub/dugsi/internal/middleware"
	"github.com/dugsihub/dugsi/internal/store"
	dugsistripe "github.com/dugsihub/dugsi/internal/stripe"
	ws "github.com/dugsihub/dugsi/internal/websocket"
)

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	registrationH *handler.RegistrationHandler
	familyH       *handler.FamilyHandler
	classH        *handler.ClassHandler
	webhookH      *handler.WebhookHandler
	backupH       *handler.BackupHandler
	webhookLimit  *middleware.RateLimiter
	backupManager *backup.Manager
	logger        *slog.Logger
}

func New(db *sql.DB, stripeCfg dugsistripe.Config, backupCfg backup.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	registrationStore := store.NewRegistrationStore(db)
	classStore := store.NewClassStore(db)
	eventStore := store.NewStripeEventStore(db)
	backupStore := store.NewBackupStore(db)

	stripeClient := dugsistripe.NewClient(stripeCfg)

	backupMgr := backup.NewManager(backupCfg, db, backupStore, func(s backup.Status) {
		hub.Broadcast(ws.NewMessage("backup", string(s.State), "", map[string]any{
			"error": s.Error,
		}))
	}, logger.With("component", "backup"))

	return &Server{
		db:            db,
		hub:           hub,
		registrationH: handler.NewRegistrationHandler(registrationStore, classStore, hub, logger.With("component", "registration")),
		familyH:       handler.NewFamilyHandler(registrationStore),
		classH:        handler.NewClassHandler(classStore, hub, logger.With("component", "class")),
		webhookH:      handler.NewWebhookHandler(stripeClient, registrationStore, eventStore, hub, logger.With("component", "webhook")),
		backupH:       handler.NewBackupHandler(backupMgr, backupStore),
		webhookLimit:  middleware.NewRateLimiter(60, time.Minute),
		backupManager: backupMgr,
		logger:        logger,
	}
}

// BackupManager exposes the manager so main can run its schedule loop.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

// RateLimiter exposes the webhook limiter for periodic cleanup.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.webhookLimit
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Registration API
	mux.HandleFunc("GET /api/registrations", s.registrationH.List)
	mux.HandleFunc("POST /api/registrations", s.registrationH.Create)
	mux.HandleFunc("GET /api/registrations/{id}", s.registrationH.Get)
	mux.HandleFunc("PUT /api/registrations/{id}", s.registrationH.Update)
	mux.HandleFunc("DELETE /api/registrations/{id}", s.registrationH.Delete)
	mux.HandleFunc("POST /api/registrations/{id}/withdraw", s.registrationH.Withdraw)
	mux.HandleFunc("POST /api/registrations/{id}/reenroll", s.registrationH.Reenroll)
	mux.HandleFunc("POST /api/registrations/{id}/class", s.registrationH.AssignClass)

	// Family dashboard API
	mux.HandleFunc("GET /api/families", s.familyH.List)
	mux.HandleFunc("GET /api/families/counts", s.familyH.Counts)
	mux.HandleFunc("GET /api/families/{key}", s.familyH.Get)

	// Class API
	mux.HandleFunc("GET /api/classes", s.classH.List)
	mux.HandleFunc("POST /api/classes", s.classH.Create)
	mux.HandleFunc("PUT /api/classes/{id}", s.classH.Update)
	mux.HandleFunc("DELETE /api/classes/{id}", s.classH.Delete)
	mux.HandleFunc("GET /api/classes/{id}/roster", s.classH.Roster)

	// Backup API
	mux.HandleFunc("GET /api/backups", s.backupH.List)
	mux.HandleFunc("GET /api/backups/status", s.backupH.Status)
	mux.HandleFunc("POST /api/backups/run", s.backupH.RunNow)

	// Stripe delivers here; rate limited per source IP since it is the only
	// unauthenticated write endpoint.
	mux.Handle("POST /webhooks/stripe",
		middleware.RateLimit(s.webhookLimit)(http.HandlerFunc(s.webhookH.HandleStripeWebhook)))

	// Live updates for connected dashboards
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "degraded"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
