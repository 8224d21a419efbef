package family

import (
	"strings"
	"time"

	"github.com/dugsihub/dugsi/internal/model"
)

// Tab is a named predicate-based view over the family set.
type Tab string

const (
	TabOverview        Tab = "overview"
	TabAll             Tab = "all"
	TabActive          Tab = "active"
	TabChurned         Tab = "churned"
	TabPending         Tab = "pending"
	TabNeedsAttention  Tab = "needs-attention"
	TabBillingMismatch Tab = "billing-mismatch"
	TabPaused          Tab = "paused"
	TabInactive        Tab = "inactive"
)

// AdvancedFilters are the structured dashboard filters. Zero values mean no
// constraint; all enabled sub-filters must match (conjunction).
type AdvancedFilters struct {
	Period         Period
	HealthInfoOnly bool
	Schools        []string
	Grades         []string
}

// FilterSpec is the full filter state applied to a family sequence.
// All fields are optional; the zero spec passes everything through.
type FilterSpec struct {
	Tab        Tab
	Query      string
	Advanced   AdvancedFilters
	QuickShift string
}

// Apply filters families by tab, search query, advanced filters and quick
// shift, as a conjunction. Relative input order is preserved; nothing is
// re-sorted. Now anchors the advanced date-period filter.
func Apply(families []model.Family, spec FilterSpec, now time.Time) []model.Family {
	out := make([]model.Family, 0, len(families))
	for _, f := range families {
		if !MatchesTab(f, spec.Tab) {
			continue
		}
		if !MatchesSearch(f, spec.Query) {
			continue
		}
		if !matchesAdvanced(f, spec.Advanced, now) {
			continue
		}
		if !matchesShift(f, spec.QuickShift) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// MatchesTab evaluates a single tab predicate against an already-aggregated
// family. Unknown tabs match nothing; the empty tab means no constraint.
func MatchesTab(f model.Family, tab Tab) bool {
	switch tab {
	case "", TabOverview, TabAll:
		return true
	case TabActive:
		return Status(f) == StatusActive
	case TabChurned, TabPending:
		return Status(f) == StatusChurned
	case TabPaused:
		return Status(f) == StatusPaused
	case TabInactive:
		return Status(f) == StatusInactive
	case TabNeedsAttention:
		return Status(f) == StatusNoPayment
	case TabBillingMismatch:
		return HasBillingMismatch(f)
	default:
		return false
	}
}

// countedTabs are the tabs the dashboard shows badges for.
var countedTabs = []Tab{
	TabAll, TabActive, TabChurned, TabNeedsAttention,
	TabBillingMismatch, TabPaused, TabInactive,
}

// TabCounts computes per-tab totals over the full, unfiltered family
// sequence. The counts are independent of whatever tab/search/filters are
// currently applied, so dashboard badges stay stable while the visible list
// changes.
func TabCounts(families []model.Family) map[Tab]int {
	counts := make(map[Tab]int, len(countedTabs))
	for _, tab := range countedTabs {
		counts[tab] = 0
	}
	for _, f := range families {
		for _, tab := range countedTabs {
			if MatchesTab(f, tab) {
				counts[tab]++
			}
		}
	}
	return counts
}

// MatchesSearch applies free-text search with type auto-detection: a query
// containing "@" searches parent emails; a query with at least four digits
// searches phone numbers by last-4 suffix; anything else searches child and
// parent names. A family matches if any member matches. Blank queries match
// everything.
func MatchesSearch(f model.Family, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}

	switch {
	case strings.Contains(q, "@"):
		for _, m := range f.Members {
			if matchesEmail(m, q) {
				return true
			}
		}
	case len(digitsOf(q)) >= 4:
		digits := digitsOf(q)
		last4 := digits[len(digits)-4:]
		for _, m := range f.Members {
			if matchesPhone(m, last4) {
				return true
			}
		}
	default:
		for _, m := range f.Members {
			if matchesName(m, q) {
				return true
			}
		}
	}
	return false
}

func matchesEmail(m model.Registration, q string) bool {
	if strings.Contains(strings.ToLower(m.Parent1.Email), q) {
		return true
	}
	return m.Parent2 != nil && strings.Contains(strings.ToLower(m.Parent2.Email), q)
}

func matchesPhone(m model.Registration, last4 string) bool {
	if strings.HasSuffix(digitsOf(m.Parent1.Phone), last4) {
		return true
	}
	return m.Parent2 != nil && strings.HasSuffix(digitsOf(m.Parent2.Phone), last4)
}

func matchesName(m model.Registration, q string) bool {
	if strings.Contains(strings.ToLower(m.StudentName), q) {
		return true
	}
	p1 := strings.ToLower(m.Parent1.FirstName + " " + m.Parent1.LastName)
	if strings.Contains(p1, q) {
		return true
	}
	if m.Parent2 != nil {
		p2 := strings.ToLower(m.Parent2.FirstName + " " + m.Parent2.LastName)
		if strings.Contains(p2, q) {
			return true
		}
	}
	return false
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func matchesAdvanced(f model.Family, adv AdvancedFilters, now time.Time) bool {
	if start, end, ok := PeriodRange(adv.Period, now); ok {
		matched := false
		for _, m := range f.Members {
			if !m.CreatedAt.Before(start) && m.CreatedAt.Before(end) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if adv.HealthInfoOnly && !hasHealthInfo(f) {
		return false
	}

	if len(adv.Schools) > 0 && !anyMemberIn(f, adv.Schools, func(m model.Registration) string { return m.SchoolName }) {
		return false
	}
	if len(adv.Grades) > 0 && !anyMemberIn(f, adv.Grades, func(m model.Registration) string { return m.GradeLevel }) {
		return false
	}
	return true
}

func hasHealthInfo(f model.Family) bool {
	for _, m := range f.Members {
		if m.HealthInfo == nil {
			continue
		}
		v := strings.ToLower(strings.TrimSpace(*m.HealthInfo))
		if v != "" && v != "none" {
			return true
		}
	}
	return false
}

func anyMemberIn(f model.Family, accepted []string, field func(model.Registration) string) bool {
	for _, m := range f.Members {
		v := field(m)
		for _, a := range accepted {
			if strings.EqualFold(v, a) {
				return true
			}
		}
	}
	return false
}

func matchesShift(f model.Family, shift string) bool {
	if shift == "" {
		return true
	}
	for _, m := range f.Members {
		if strings.EqualFold(m.Shift, shift) {
			return true
		}
	}
	return false
}
