package enums

// BlockStatus tracks the lifecycle of a driver shift block.
type BlockStatus string

const (
	BlockScheduled BlockStatus = "scheduled"
	BlockOpen      BlockStatus = "open"
	BlockFilled    BlockStatus = "filled"
	BlockExpired   BlockStatus = "expired"
	BlockCancelled BlockStatus = "cancelled"
)

// Valid reports whether the status is one of the known block states.
func (s BlockStatus) Valid() bool {
	switch s {
	case BlockScheduled, BlockOpen, BlockFilled, BlockExpired, BlockCancelled:
		return true
	}
	return false
}

// WorkflowStatus tracks shift-opening workflow progress.
type WorkflowStatus string

const (
	WorkflowPending    WorkflowStatus = "pending"
	WorkflowInProgress WorkflowStatus = "in_progress"
	WorkflowCompleted  WorkflowStatus = "completed"
)

func (s WorkflowStatus) Valid() bool {
	switch s {
	case WorkflowPending, WorkflowInProgress, WorkflowCompleted:
		return true
	}
	return false
}
