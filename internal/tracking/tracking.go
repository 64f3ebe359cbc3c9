// Package tracking maps order statuses onto the linear fulfilment ladder
// (processing -> shipped -> delivered) plus the terminal cancelled branch.
// The core only reads statuses; transitions are asserted by the admin side
// and validated here.
package tracking

import "strings"

type Status string

const (
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// stageCount is the number of stages on the linear ladder.
const stageCount = 3

// Parse normalizes a status string case-insensitively.
func Parse(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusProcessing:
		return StatusProcessing, true
	case StatusShipped:
		return StatusShipped, true
	case StatusDelivered:
		return StatusDelivered, true
	case StatusCancelled:
		return StatusCancelled, true
	}
	return "", false
}

// ProgressIndex places a status on the ladder: processing 0, shipped 1,
// delivered 2. Cancelled (and anything unknown) sits outside the ladder
// and maps to -1.
func ProgressIndex(status Status) int {
	switch status {
	case StatusProcessing:
		return 0
	case StatusShipped:
		return 1
	case StatusDelivered:
		return 2
	}
	return -1
}

// IsStageComplete reports whether the given ladder stage should light up for
// the status: every stage at or before the status's own index is complete.
func IsStageComplete(status Status, stage int) bool {
	if stage < 0 || stage >= stageCount {
		return false
	}
	idx := ProgressIndex(status)
	return idx >= stage
}

// Stages returns the ladder in display order.
func Stages() []Status {
	return []Status{StatusProcessing, StatusShipped, StatusDelivered}
}

// Policy configures the one ambiguity in the order lifecycle: whether an
// order can still be cancelled after it shipped.
type Policy struct {
	CancelFromShipped bool
}

// CanTransition reports whether from -> to is a legal status change under the
// policy. The ladder only moves forward; delivered and cancelled are
// absorbing.
func (p Policy) CanTransition(from, to Status) bool {
	if from == to {
		return false
	}
	if to == StatusCancelled {
		switch from {
		case StatusProcessing:
			return true
		case StatusShipped:
			return p.CancelFromShipped
		}
		return false
	}
	fromIdx := ProgressIndex(from)
	toIdx := ProgressIndex(to)
	if fromIdx < 0 || toIdx < 0 {
		return false
	}
	return toIdx > fromIdx
}
