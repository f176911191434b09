package scratchmap

import "fmt"

// Step is a state of the scratch buffer lifecycle.
//
// A successful run passes through the states in declaration order, from
// StepUnopened to StepDone. StepUnlinked is skipped when unlinking is
// disabled. Any failure ends in StepFailed.
type Step int

const (
	StepUnopened Step = iota
	StepOpened
	StepSized
	StepMapped
	StepUnlinked
	StepDescriptorClosed
	StepWritten
	StepRead
	StepUnmapped
	StepDone
	StepFailed
)

func (s Step) String() string {
	switch s {
	case StepUnopened:
		return "unopened"
	case StepOpened:
		return "opened"
	case StepSized:
		return "sized"
	case StepMapped:
		return "mapped"
	case StepUnlinked:
		return "unlinked"
	case StepDescriptorClosed:
		return "descriptor-closed"
	case StepWritten:
		return "written"
	case StepRead:
		return "read"
	case StepUnmapped:
		return "unmapped"
	case StepDone:
		return "done"
	case StepFailed:
		return "failed"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}
