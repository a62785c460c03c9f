package queue

// NodeId identifies a node of a single search. Ids are dense, starting at 0.
type NodeId = uint32

// Prioritizer provides the priority of a node; lower values are served first.
// The heap does not store priorities, so a priority may only decrease while
// its node is queued, and NodeHeap.Fix must be called after each decrease.
type Prioritizer interface {
	Priority(id NodeId) int
}

// PriorityFunc adapts a plain function to the Prioritizer interface
type PriorityFunc func(id NodeId) int

func (f PriorityFunc) Priority(id NodeId) int { return f(id) }
