package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dugsihub/dugsi/internal/model"
	"github.com/dugsihub/dugsi/internal/store"
	"github.com/dugsihub/dugsi/internal/websocket"
)

type RegistrationHandler struct {
	store      *store.RegistrationStore
	classStore *store.ClassStore
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewRegistrationHandler(rs *store.RegistrationStore, cs *store.ClassStore, hub *websocket.Hub, logger *slog.Logger) *RegistrationHandler {
	return &RegistrationHandler{store: rs, classStore: cs, hub: hub, logger: logger}
}

func (h *RegistrationHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type registrationRequest struct {
	StudentName       string               `json:"student_name"`
	Gender            string               `json:"gender"`
	DateOfBirth       *time.Time           `json:"date_of_birth"`
	EducationLevel    string               `json:"education_level"`
	GradeLevel        string               `json:"grade_level"`
	SchoolName        string               `json:"school_name"`
	HealthInfo        *string              `json:"health_info"`
	Shift             string               `json:"shift"`
	Parent1           model.ParentContact  `json:"parent1"`
	Parent2           *model.ParentContact `json:"parent2"`
	FamilyReferenceID *string              `json:"family_reference_id"`
	AccountType       string               `json:"account_type"`
	PrimaryPayer      *int                 `json:"primary_payer"`
}

func (r registrationRequest) params() store.CreateParams {
	return store.CreateParams{
		StudentName:       r.StudentName,
		Gender:            r.Gender,
		DateOfBirth:       r.DateOfBirth,
		EducationLevel:    r.EducationLevel,
		GradeLevel:        r.GradeLevel,
		SchoolName:        r.SchoolName,
		HealthInfo:        r.HealthInfo,
		Shift:             r.Shift,
		Parent1:           r.Parent1,
		Parent2:           r.Parent2,
		FamilyReferenceID: r.FamilyReferenceID,
		AccountType:       r.AccountType,
		PrimaryPayer:      r.PrimaryPayer,
	}
}

func (r *registrationRequest) validate() string {
	r.StudentName = strings.TrimSpace(r.StudentName)
	if r.StudentName == "" {
		return "student_name is required"
	}
	r.Parent1.Email = strings.TrimSpace(r.Parent1.Email)
	if r.Parent1.FirstName == "" && r.Parent1.Email == "" {
		return "parent1 contact is required"
	}
	if r.PrimaryPayer != nil && *r.PrimaryPayer != 1 && *r.PrimaryPayer != 2 {
		return "primary_payer must be 1 or 2"
	}
	if r.PrimaryPayer != nil && *r.PrimaryPayer == 2 && r.Parent2 == nil {
		return "primary_payer 2 requires a parent2 contact"
	}
	return ""
}

func (h *RegistrationHandler) List(w http.ResponseWriter, r *http.Request) {
	regs, err := h.store.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list registrations"})
		return
	}
	if regs == nil {
		regs = []model.Registration{}
	}
	writeJSON(w, http.StatusOK, regs)
}

func (h *RegistrationHandler) Get(w http.ResponseWriter, r *http.Request) {
	reg, err := h.store.GetByID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get registration"})
		return
	}
	if reg == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "registration not found"})
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

func (h *RegistrationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req registrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	reg, err := h.store.Create(req.params())
	if err != nil {
		h.logger.Error("create registration", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create registration"})
		return
	}

	h.broadcast(websocket.NewMessage("registration", "created", reg.ID, nil))
	writeJSON(w, http.StatusCreated, reg)
}

func (h *RegistrationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.store.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get registration"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "registration not found"})
		return
	}

	var req registrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	reg, err := h.store.Update(id, req.params())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update registration"})
		return
	}

	h.broadcast(websocket.NewMessage("registration", "updated", reg.ID, nil))
	writeJSON(w, http.StatusOK, reg)
}

func (h *RegistrationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.store.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get registration"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "registration not found"})
		return
	}

	if err := h.store.Delete(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete registration"})
		return
	}

	h.broadcast(websocket.NewMessage("registration", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

// Withdraw marks a registration WITHDRAWN. The family it belongs to flips to
// inactive once every member is withdrawn.
func (h *RegistrationHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.setLifecycle(w, r, model.LifecycleWithdrawn, "withdrawn")
}

// Reenroll moves a previously withdrawn registration back to ENROLLED.
func (h *RegistrationHandler) Reenroll(w http.ResponseWriter, r *http.Request) {
	h.setLifecycle(w, r, model.LifecycleEnrolled, "reenrolled")
}

func (h *RegistrationHandler) setLifecycle(w http.ResponseWriter, r *http.Request, status model.Lifecycle, action string) {
	id := r.PathValue("id")
	existing, err := h.store.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get registration"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "registration not found"})
		return
	}
	if existing.Status == status {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "registration already " + string(status)})
		return
	}

	if err := h.store.SetLifecycle(id, status); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update registration"})
		return
	}

	reg, err := h.store.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get registration"})
		return
	}

	h.broadcast(websocket.NewMessage("registration", action, id, nil))
	writeJSON(w, http.StatusOK, reg)
}

func (h *RegistrationHandler) AssignClass(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.store.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get registration"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "registration not found"})
		return
	}

	var req struct {
		ClassID *int64 `json:"class_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if req.ClassID != nil {
		class, err := h.classStore.GetByID(*req.ClassID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get class"})
			return
		}
		if class == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "class not found"})
			return
		}
	}

	if err := h.store.AssignClass(id, req.ClassID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to assign class"})
		return
	}

	h.broadcast(websocket.NewMessage("registration", "assigned", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
