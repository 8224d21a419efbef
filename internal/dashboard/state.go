// Package dashboard models the admin dashboard's UI state as an explicit
// state value plus a closed action set, reduced by a pure transition
// function. Consumers keep their own State and feed every interaction
// through Reduce; there are no singletons and no hidden reads.
package dashboard

import "github.com/dugsihub/dugsi/internal/family"

// Dialog names the dashboard's modal surfaces.
type Dialog string

const (
	DialogNone     Dialog = ""
	DialogFamily   Dialog = "family-detail"
	DialogWithdraw Dialog = "withdraw"
	DialogReenroll Dialog = "reenroll"
	DialogAssign   Dialog = "assign-class"
	DialogEdit     Dialog = "edit-registration"
)

// State is one dashboard's complete UI state.
type State struct {
	ActiveTab      family.Tab
	SearchQuery    string
	QuickShift     string
	Advanced       family.AdvancedFilters
	OpenDialog     Dialog
	SelectedFamily string // family key, empty when nothing selected
}

// NewState returns the default dashboard state: overview tab, no filters,
// nothing selected, no dialog open.
func NewState() State {
	return State{ActiveTab: family.TabOverview}
}

// FilterSpec projects the filter-relevant slice of the state.
func (s State) FilterSpec() family.FilterSpec {
	return family.FilterSpec{
		Tab:        s.ActiveTab,
		Query:      s.SearchQuery,
		Advanced:   s.Advanced,
		QuickShift: s.QuickShift,
	}
}

type Action interface{ isAction() }

type SetTab struct{ Tab family.Tab }

type SetSearch struct{ Query string }

type SetQuickShift struct{ Shift string }

type SetAdvanced struct{ Filters family.AdvancedFilters }

// ClearFilters resets search, shift and advanced filters but keeps the
// active tab and any open dialog.
type ClearFilters struct{}

type OpenDialog struct {
	Dialog    Dialog
	FamilyKey string
}

type CloseDialog struct{}

type SelectFamily struct{ FamilyKey string }

func (SetTab) isAction()        {}
func (SetSearch) isAction()     {}
func (SetQuickShift) isAction() {}
func (SetAdvanced) isAction()   {}
func (ClearFilters) isAction()  {}
func (OpenDialog) isAction()    {}
func (CloseDialog) isAction()   {}
func (SelectFamily) isAction()  {}

// Reduce returns the state after applying the action. The input state is
// never mutated; unknown actions return it unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetTab:
		s.ActiveTab = a.Tab
	case SetSearch:
		s.SearchQuery = a.Query
	case SetQuickShift:
		s.QuickShift = a.Shift
	case SetAdvanced:
		s.Advanced = a.Filters
	case ClearFilters:
		s.SearchQuery = ""
		s.QuickShift = ""
		s.Advanced = family.AdvancedFilters{}
	case OpenDialog:
		s.OpenDialog = a.Dialog
		if a.FamilyKey != "" {
			s.SelectedFamily = a.FamilyKey
		}
	case CloseDialog:
		s.OpenDialog = DialogNone
		s.SelectedFamily = ""
	case SelectFamily:
		s.SelectedFamily = a.FamilyKey
	}
	return s
}
