package types

import "errors"

// Priority is the ordering tier of an executor. Executors run from
// PriorityLowest up to PriorityMonitor; within one tier they run in
// registration order. Monitor executors should only observe the final
// outcome of an event, not modify it.
type Priority int

const (
	PriorityLowest Priority = iota
	PriorityLow
	PriorityNormal
	PriorityHigh
	PriorityHighest
	PriorityMonitor
)

func (p Priority) String() string {
	switch p {
	case PriorityLowest:
		return "lowest"
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityHighest:
		return "highest"
	case PriorityMonitor:
		return "monitor"
	default:
		return "unknown"
	}
}

// Valid reports whether p is one of the defined tiers.
func (p Priority) Valid() error {
	if p < PriorityLowest || p > PriorityMonitor {
		return errors.New("priority out of range")
	}

	return nil
}
