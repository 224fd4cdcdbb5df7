package model

// AdjudicationMode controls who may declare the result of an at-bat.
type AdjudicationMode string

const (
	AdjudicationAdminOnly       AdjudicationMode = "admin_only"
	AdjudicationTrustTurnHolder AdjudicationMode = "trust_turn_holder"
)

func (m AdjudicationMode) IsValid() bool {
	switch m {
	case AdjudicationAdminOnly, AdjudicationTrustTurnHolder:
		return true
	}
	return false
}
