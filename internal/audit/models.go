package audit

import "time"

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/financial significance.
	// These require tamper-proof storage and long retention.
	// Examples: distributions, permanent activation, phase transitions.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring.
	// Examples: role grants/revocations, upgrade authorizations.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and visibility.
	// These can be sampled or aggregated with shorter retention.
	// Examples: deposits, schedule/cancel churn.
	CategoryOperations EventCategory = "operations"
)

// Kind names an audit event.
type Kind string

const (
	// Governance events
	KindPhaseTransitioned   Kind = "phase_transitioned"
	KindSplitScheduled      Kind = "split_scheduled"
	KindSplitApplied        Kind = "split_applied"
	KindSplitCancelled      Kind = "split_cancelled"
	KindPermanentActivated  Kind = "permanent_activated"
	KindDestinationsUpdated Kind = "destinations_updated"
	KindRoleGranted         Kind = "role_granted"
	KindRoleRevoked         Kind = "role_revoked"
	KindUpgradeAuthorized   Kind = "upgrade_authorized"

	// Value-flow events
	KindDepositReceived        Kind = "deposit_received"
	KindDistributionExecuted   Kind = "distribution_executed"
	KindPassthroughForwarded   Kind = "passthrough_forwarded"
	KindPassthroughDistributed Kind = "passthrough_distributed"
)

// kindCategories maps each event kind to its category.
var kindCategories = map[Kind]EventCategory{
	KindPhaseTransitioned:    CategoryCompliance,
	KindSplitApplied:         CategoryCompliance,
	KindPermanentActivated:   CategoryCompliance,
	KindDistributionExecuted: CategoryCompliance,

	KindDestinationsUpdated: CategorySecurity,
	KindRoleGranted:         CategorySecurity,
	KindRoleRevoked:         CategorySecurity,
	KindUpgradeAuthorized:   CategorySecurity,

	KindSplitScheduled:         CategoryOperations,
	KindSplitCancelled:         CategoryOperations,
	KindDepositReceived:        CategoryOperations,
	KindPassthroughForwarded:   CategoryOperations,
	KindPassthroughDistributed: CategoryOperations,
}

// CategoryOf returns the category for a kind, defaulting to operations.
func CategoryOf(kind Kind) EventCategory {
	if c, ok := kindCategories[kind]; ok {
		return c
	}
	return CategoryOperations
}

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Kind      Kind      `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`

	// Actor is the principal that performed the action, empty for the
	// permissionless entry points (deposit, distribute, applySplit).
	Actor string `json:"actor,omitempty"`

	// Value-flow fields; zero for pure governance events.
	AssetID       string `json:"asset_id,omitempty"`
	Total         int64  `json:"total,omitempty"`
	FounderAmount int64  `json:"founder_amount,omitempty"`
	DaoAmount     int64  `json:"dao_amount,omitempty"`
	CharityAmount int64  `json:"charity_amount,omitempty"`

	// Detail carries a short human-readable summary of the change.
	Detail string `json:"detail,omitempty"`
}
