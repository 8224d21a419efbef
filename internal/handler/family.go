package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/dugsihub/dugsi/internal/family"
	"github.com/dugsihub/dugsi/internal/model"
	"github.com/dugsihub/dugsi/internal/store"
)

// FamilyHandler serves the aggregated, classified, filtered family view that
// backs the dashboard grid. Families are recomputed from the flat
// registration list on every request; they are a view, not stored state.
type FamilyHandler struct {
	store *store.RegistrationStore
	now   func() time.Time
}

func NewFamilyHandler(rs *store.RegistrationStore) *FamilyHandler {
	return &FamilyHandler{store: rs, now: time.Now}
}

// FamilyView is one family plus everything the grid derives from it.
type FamilyView struct {
	model.Family
	Status  family.FamilyStatus            `json:"family_status"`
	Billing map[string]family.BillingResult `json:"billing"` // member id -> billing result
}

type familyListResponse struct {
	Families []FamilyView       `json:"families"`
	Counts   map[family.Tab]int `json:"counts"`
	Total    int                `json:"total"`
}

func specFromQuery(r *http.Request) family.FilterSpec {
	q := r.URL.Query()
	spec := family.FilterSpec{
		Tab:        family.Tab(q.Get("tab")),
		Query:      q.Get("q"),
		QuickShift: q.Get("shift"),
	}
	spec.Advanced.Period = family.Period(q.Get("period"))
	spec.Advanced.HealthInfoOnly = q.Get("health") == "true"
	if schools := q.Get("school"); schools != "" {
		spec.Advanced.Schools = strings.Split(schools, ",")
	}
	if grades := q.Get("grade"); grades != "" {
		spec.Advanced.Grades = strings.Split(grades, ",")
	}
	return spec
}

// List runs the full pipeline: aggregate registrations into families, filter
// by the query-string spec, and attach derived status and billing. Counts
// always come from the unfiltered family set so tab badges stay stable.
func (h *FamilyHandler) List(w http.ResponseWriter, r *http.Request) {
	regs, err := h.store.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list registrations"})
		return
	}

	all := family.Group(regs)
	counts := family.TabCounts(all)
	visible := family.Apply(all, specFromQuery(r), h.now())

	views := make([]FamilyView, 0, len(visible))
	for _, f := range visible {
		view := FamilyView{
			Family:  f,
			Status:  family.Status(f),
			Billing: make(map[string]family.BillingResult, len(f.Members)),
		}
		for _, m := range f.Members {
			view.Billing[m.ID] = family.Billing(m.SubscriptionAmount, len(f.Members))
		}
		views = append(views, view)
	}

	writeJSON(w, http.StatusOK, familyListResponse{
		Families: views,
		Counts:   counts,
		Total:    len(all),
	})
}

// Counts serves per-tab totals on their own for lightweight badge refreshes.
func (h *FamilyHandler) Counts(w http.ResponseWriter, r *http.Request) {
	regs, err := h.store.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list registrations"})
		return
	}
	writeJSON(w, http.StatusOK, family.TabCounts(family.Group(regs)))
}

// Get returns one family by its grouping key.
func (h *FamilyHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	regs, err := h.store.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list registrations"})
		return
	}

	for _, f := range family.Group(regs) {
		if f.FamilyKey != key {
			continue
		}
		view := FamilyView{
			Family:  f,
			Status:  family.Status(f),
			Billing: make(map[string]family.BillingResult, len(f.Members)),
		}
		for _, m := range f.Members {
			view.Billing[m.ID] = family.Billing(m.SubscriptionAmount, len(f.Members))
		}
		writeJSON(w, http.StatusOK, view)
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "family not found"})
}
