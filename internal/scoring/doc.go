// Package scoring turns recorded attendance into credit scores.
//
// Every exported function is pure: it reads an immutable Snapshot and a
// Window and returns a freshly built result. Malformed historical data
// never fails a computation; it is reported through Anomaly values so the
// caller can log it.
//
// Scores are earned per event as pointValue(category) * multiplier(status).
// Plain Excused marks beyond the monthly cap are scored as Absent. A member
// that was not marked at an event is not scored for it at all.
package scoring
