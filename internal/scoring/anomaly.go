package scoring

// AnomalyKind classifies malformed historical data found while scoring.
type AnomalyKind string

const (
	// AnomalyMissingMember: a record points at a member no longer in the list.
	AnomalyMissingMember AnomalyKind = "missing_member"
	// AnomalyUnknownStatus: a record status outside the known set; scored as zero.
	AnomalyUnknownStatus AnomalyKind = "unknown_status"
	// AnomalyMissingReason: an excused record without a reason; scored as zero.
	AnomalyMissingReason AnomalyKind = "missing_reason"
	// AnomalyBadDate: an event date that does not parse; the event is skipped.
	AnomalyBadDate AnomalyKind = "bad_date"
)

type Anomaly struct {
	Kind     AnomalyKind `json:"kind"`
	EventID  string      `json:"event_id,omitempty"`
	MemberID string      `json:"member_id,omitempty"`
	Detail   string      `json:"detail,omitempty"`
}
