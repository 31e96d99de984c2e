package entity

import "fmt"

// Status is the lifecycle state of an order. There is no transition graph:
// any status may be overwritten with any other at any time.
type Status int

const (
	StatusInProgress Status = iota
	StatusShipped
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusInProgress:
		return "IN_PROGRESS"
	case StatusShipped:
		return "SHIPPED"
	case StatusCompleted:
		return "COMPLETED"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ParseStatus accepts the current enum names as well as the legacy Romanian
// names that appear in order logs written by earlier versions.
func ParseStatus(name string) (Status, error) {
	switch name {
	case "IN_PROGRESS", "IN_PROCESARE":
		return StatusInProgress, nil
	case "SHIPPED", "EXPEDIATA":
		return StatusShipped, nil
	case "COMPLETED", "FINALIZATA":
		return StatusCompleted, nil
	default:
		return 0, fmt.Errorf("unknown order status %q", name)
	}
}
