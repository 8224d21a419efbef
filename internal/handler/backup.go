package handler

import (
	"net/http"

	"github.com/dugsihub/dugsi/internal/backup"
	"github.com/dugsihub/dugsi/internal/model"
	"github.com/dugsihub/dugsi/internal/store"
)

type BackupHandler struct {
	manager *backup.Manager
	store   *store.BackupStore
}

func NewBackupHandler(m *backup.Manager, bs *store.BackupStore) *BackupHandler {
	return &BackupHandler{manager: m, store: bs}
}

func (h *BackupHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.Status())
}

func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	backups, err := h.store.List(50)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list backups"})
		return
	}
	if backups == nil {
		backups = []model.Backup{}
	}
	writeJSON(w, http.StatusOK, backups)
}

func (h *BackupHandler) RunNow(w http.ResponseWriter, r *http.Request) {
	id, err := h.manager.RunNow(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"backup_id": id})
}
