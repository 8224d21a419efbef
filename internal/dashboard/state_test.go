package dashboard

import (
	"testing"

	"github.com/dugsihub/dugsi/internal/family"
)

func TestNewStateDefaults(t *testing.T) {
	s := NewState()
	if s.ActiveTab != family.TabOverview {
		t.Errorf("tab = %q, want overview", s.ActiveTab)
	}
	if s.OpenDialog != DialogNone || s.SearchQuery != "" || s.SelectedFamily != "" {
		t.Errorf("unexpected non-zero defaults: %+v", s)
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	before := NewState()

	after := Reduce(before, SetSearch{Query: "warsame"})
	if before.SearchQuery != "" {
		t.Error("input state was mutated")
	}
	if after.SearchQuery != "warsame" {
		t.Errorf("search = %q", after.SearchQuery)
	}
}

func TestReduceTabAndFilters(t *testing.T) {
	s := NewState()
	s = Reduce(s, SetTab{Tab: family.TabChurned})
	s = Reduce(s, SetSearch{Query: "ali"})
	s = Reduce(s, SetQuickShift{Shift: "morning"})
	s = Reduce(s, SetAdvanced{Filters: family.AdvancedFilters{HealthInfoOnly: true}})

	spec := s.FilterSpec()
	if spec.Tab != family.TabChurned || spec.Query != "ali" || spec.QuickShift != "morning" {
		t.Errorf("spec = %+v", spec)
	}
	if !spec.Advanced.HealthInfoOnly {
		t.Error("advanced filters not carried into spec")
	}
}

func TestReduceClearFiltersKeepsTab(t *testing.T) {
	s := NewState()
	s = Reduce(s, SetTab{Tab: family.TabPaused})
	s = Reduce(s, SetSearch{Query: "x"})
	s = Reduce(s, SetQuickShift{Shift: "weekend"})
	s = Reduce(s, ClearFilters{})

	if s.ActiveTab != family.TabPaused {
		t.Errorf("tab = %q, want paused", s.ActiveTab)
	}
	if s.SearchQuery != "" || s.QuickShift != "" {
		t.Errorf("filters not cleared: %+v", s)
	}
	if s.Advanced.HealthInfoOnly || s.Advanced.Period != "" || len(s.Advanced.Schools) != 0 {
		t.Errorf("advanced filters not cleared: %+v", s.Advanced)
	}
}

func TestReduceDialogLifecycle(t *testing.T) {
	s := NewState()
	s = Reduce(s, OpenDialog{Dialog: DialogWithdraw, FamilyKey: "fam@example.com"})
	if s.OpenDialog != DialogWithdraw || s.SelectedFamily != "fam@example.com" {
		t.Errorf("open: %+v", s)
	}

	s = Reduce(s, CloseDialog{})
	if s.OpenDialog != DialogNone || s.SelectedFamily != "" {
		t.Errorf("close: %+v", s)
	}
}
