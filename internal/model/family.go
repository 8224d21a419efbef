package model

// Family is a derived grouping of registrations that share an identity key.
// Families are recomputed on every aggregation call and never persisted.
type Family struct {
	FamilyKey string         `json:"family_key"`
	Members   []Registration `json:"members"`

	HasPayment      bool `json:"has_payment"`
	HasSubscription bool `json:"has_subscription"`
	HasChurned      bool `json:"has_churned"`

	// Contact fields copied from the chronologically first member.
	ParentEmail string `json:"parent_email"`
	ParentPhone string `json:"parent_phone"`
}
