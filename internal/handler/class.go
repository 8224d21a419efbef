package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dugsihub/dugsi/internal/model"
	"github.com/dugsihub/dugsi/internal/store"
	"github.com/dugsihub/dugsi/internal/websocket"
)

type ClassHandler struct {
	store  *store.ClassStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewClassHandler(cs *store.ClassStore, hub *websocket.Hub, logger *slog.Logger) *ClassHandler {
	return &ClassHandler{store: cs, hub: hub, logger: logger}
}

func (h *ClassHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type classRequest struct {
	Name        string `json:"name"`
	TeacherName string `json:"teacher_name"`
	Shift       string `json:"shift"`
	Capacity    int    `json:"capacity"`
}

func (h *ClassHandler) List(w http.ResponseWriter, r *http.Request) {
	classes, err := h.store.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list classes"})
		return
	}
	if classes == nil {
		classes = []model.Class{}
	}
	writeJSON(w, http.StatusOK, classes)
}

func (h *ClassHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req classRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Capacity < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "capacity must not be negative"})
		return
	}

	exists, err := h.store.NameExists(req.Name, 0)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check name"})
		return
	}
	if exists {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a class with that name already exists"})
		return
	}

	class, err := h.store.Create(req.Name, req.TeacherName, req.Shift, req.Capacity)
	if err != nil {
		h.logger.Error("create class", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create class"})
		return
	}

	h.broadcast(websocket.NewMessage("class", "created", strconv.FormatInt(class.ID, 10), nil))
	writeJSON(w, http.StatusCreated, class)
}

func (h *ClassHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get class"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "class not found"})
		return
	}

	var req classRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	exists, err := h.store.NameExists(req.Name, id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check name"})
		return
	}
	if exists {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a class with that name already exists"})
		return
	}

	class, err := h.store.Update(id, req.Name, req.TeacherName, req.Shift, req.Capacity)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update class"})
		return
	}

	h.broadcast(websocket.NewMessage("class", "updated", strconv.FormatInt(class.ID, 10), nil))
	writeJSON(w, http.StatusOK, class)
}

func (h *ClassHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get class"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "class not found"})
		return
	}

	if err := h.store.Delete(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete class"})
		return
	}

	h.broadcast(websocket.NewMessage("class", "deleted", strconv.FormatInt(id, 10), nil))
	w.WriteHeader(http.StatusNoContent)
}

// Roster reports the class with its current non-withdrawn student count.
func (h *ClassHandler) Roster(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	class, err := h.store.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get class"})
		return
	}
	if class == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "class not found"})
		return
	}

	count, err := h.store.RosterCount(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to count roster"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"class":    class,
		"enrolled": count,
	})
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
