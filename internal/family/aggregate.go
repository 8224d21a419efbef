// Package family turns flat registration records into family view models and
// provides the status classification and filter/search logic the dashboard
// is built on. Everything here is a pure function of its inputs.
package family

import (
	"sort"
	"strings"

	"github.com/dugsihub/dugsi/internal/model"
)

// GroupKey resolves the family-grouping key for a single registration:
// family reference id if present, else the canonicalized parent 1 email,
// else the registration's own id. Every registration lands in exactly one
// family, singletons included. The same rule is used everywhere a grouping
// key is needed.
func GroupKey(r model.Registration) string {
	if r.FamilyReferenceID != nil {
		if ref := strings.TrimSpace(*r.FamilyReferenceID); ref != "" {
			return ref
		}
	}
	if email := strings.ToLower(strings.TrimSpace(r.Parent1.Email)); email != "" {
		return email
	}
	return r.ID
}

// Group aggregates registrations into families, one per distinct grouping
// key, in first-seen key order. Members are sorted by creation time ascending
// and the derived flags are computed from the finalized member list.
func Group(regs []model.Registration) []model.Family {
	var order []string
	groups := make(map[string][]model.Registration)

	for _, r := range regs {
		key := GroupKey(r)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	families := make([]model.Family, 0, len(order))
	for _, key := range order {
		members := groups[key]
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].CreatedAt.Before(members[j].CreatedAt)
		})

		f := model.Family{
			FamilyKey:   key,
			Members:     members,
			ParentEmail: members[0].Parent1.Email,
			ParentPhone: members[0].Parent1.Phone,
		}
		for _, m := range members {
			if m.PaymentCaptured {
				f.HasPayment = true
			}
			if m.StripeSubscriptionID != nil && m.SubscriptionStatus != nil {
				switch *m.SubscriptionStatus {
				case model.SubActive:
					f.HasSubscription = true
				case model.SubCanceled:
					f.HasChurned = true
				}
			}
		}
		families = append(families, f)
	}
	return families
}
