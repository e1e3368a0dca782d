package domain

import (
	"strings"
	"time"
)

// ViolationTimeLayout is the timestamp layout every provider renders
// violation times in ("HH:MM, DD/MM/YYYY").
const ViolationTimeLayout = "15:04, 02/01/2006"

// StatusResolved is the literal status string the providers use for a
// violation that has already been penalized. Resolved is true iff the
// source status equals this string exactly.
const StatusResolved = "Đã xử phạt"

// StatusUnresolved is the literal status string for an outstanding
// violation. Used when rendering a record back to its source form.
const StatusUnresolved = "Chưa xử phạt"

// ViolationRecord is one normalized traffic-violation entry for a plate.
// It is an immutable value: two records with identical field tuples are
// the same violation regardless of which provider produced them.
type ViolationRecord struct {
	// Plate is the canonical plate string with separators stripped.
	Plate string

	// PlateColor is the plate color as reported by the source.
	PlateColor string

	// VehicleClass is the normalized vehicle category.
	VehicleClass VehicleClass

	// Time is when the violation happened, parsed from ViolationTimeLayout.
	Time time.Time

	// Location is where the violation happened.
	Location string

	// Violation describes the offence. Empty for providers that do not
	// report it.
	Violation string

	// Resolved is true iff the source status equals StatusResolved.
	Resolved bool

	// EnforcementUnit is the unit that recorded the violation.
	EnforcementUnit string

	// ResolutionOffices lists where the case is handled, in source order.
	// Providers that report this field supply at least one entry.
	ResolutionOffices []string
}

// Key returns a canonical identity string for value-equality and
// deduplication. Records with equal keys are the same violation.
func (v ViolationRecord) Key() string {
	parts := []string{
		v.Plate,
		v.PlateColor,
		v.VehicleClass.String(),
		v.Time.Format(ViolationTimeLayout),
		v.Location,
		v.Violation,
		statusLiteral(v.Resolved),
		v.EnforcementUnit,
		strings.Join(v.ResolutionOffices, "\x1f"),
	}
	return strings.Join(parts, "\x1e")
}

// Equal reports whether two records carry identical field tuples.
func (v ViolationRecord) Equal(other ViolationRecord) bool {
	return v.Key() == other.Key()
}

func statusLiteral(resolved bool) string {
	if resolved {
		return StatusResolved
	}
	return StatusUnresolved
}

// RecordSet accumulates ViolationRecords with value-semantics
// deduplication. A provider's result is a set because the same violation
// may legitimately appear more than once in a single response page.
// Build locally inside a parse call, take Records, discard the builder.
type RecordSet struct {
	seen  map[string]struct{}
	order []ViolationRecord
}

// NewRecordSet returns an empty set.
func NewRecordSet() *RecordSet {
	return &RecordSet{seen: make(map[string]struct{})}
}

// Add inserts a record unless an identical one is already present.
func (s *RecordSet) Add(v ViolationRecord) {
	key := v.Key()
	if _, dup := s.seen[key]; dup {
		return
	}
	s.seen[key] = struct{}{}
	s.order = append(s.order, v)
}

// Len returns the number of distinct records.
func (s *RecordSet) Len() int {
	return len(s.order)
}

// Records returns the distinct records in first-insertion order.
func (s *RecordSet) Records() []ViolationRecord {
	out := make([]ViolationRecord, len(s.order))
	copy(out, s.order)
	return out
}
