package queue

import (
	"fmt"
	"strings"
)

// NodeHeap is an array backed binary min heap of node ids.
// It is 1-indexed: the root lives at position 1, the parent of position i is
// i/2 and its children are 2i and 2i+1. For every queued node the heap keeps
// its position, which makes decrease-key O(log n).
type NodeHeap struct {
	items      []NodeId // items[0] is unused
	positions  []int    // position of a node id in items, 0 if not queued
	priorities Prioritizer
}

// NewNodeHeap creates a heap for node ids in [0, capacity)
func NewNodeHeap(capacity int, priorities Prioritizer) *NodeHeap {
	return &NodeHeap{
		items:      make([]NodeId, 1, capacity+1),
		positions:  make([]int, capacity),
		priorities: priorities,
	}
}

func (h *NodeHeap) Len() int { return len(h.items) - 1 }

// Contains reports whether the node is currently queued
func (h *NodeHeap) Contains(id NodeId) bool {
	return int(id) < len(h.positions) && h.positions[id] > 0
}

// Push inserts the node at the next free slot and sifts it up
func (h *NodeHeap) Push(id NodeId) {
	if int(id) >= len(h.positions) {
		grown := make([]int, int(id)+1)
		copy(grown, h.positions)
		h.positions = grown
	}
	h.items = append(h.items, id)
	h.positions[id] = h.Len()
	h.siftUp(h.Len())
}

// Peek returns the node with the lowest priority without removing it
func (h *NodeHeap) Peek() NodeId {
	if h.Len() == 0 {
		panic("peek on empty heap")
	}
	return h.items[1]
}

// Pop removes and returns the node with the lowest priority.
// The last element replaces the root and is sifted down.
func (h *NodeHeap) Pop() NodeId {
	if h.Len() == 0 {
		panic("pop on empty heap")
	}
	root := h.items[1]
	last := h.Len()
	h.items[1] = h.items[last]
	h.positions[h.items[1]] = 1
	h.items = h.items[:last]
	h.positions[root] = 0
	if h.Len() > 1 {
		h.siftDown(1)
	}
	return root
}

// Fix restores the heap order after the priority of a queued node decreased
func (h *NodeHeap) Fix(id NodeId) {
	if !h.Contains(id) {
		panic(fmt.Sprintf("node %v is not queued", id))
	}
	h.siftUp(h.positions[id])
}

func (h *NodeHeap) priority(position int) int {
	return h.priorities.Priority(h.items[position])
}

func (h *NodeHeap) swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.positions[h.items[i]] = i
	h.positions[h.items[j]] = j
}

// a node moves up while it is strictly lower than its parent
func (h *NodeHeap) siftUp(position int) {
	for position > 1 {
		parent := position / 2
		if h.priority(position) >= h.priority(parent) {
			return
		}
		h.swap(position, parent)
		position = parent
	}
}

// Both children are compared against the original parent value: the smaller
// child is selected first and only then compared with the parent.
func (h *NodeHeap) siftDown(position int) {
	n := h.Len()
	for {
		left := 2 * position
		if left > n {
			return
		}
		smallest := left
		if right := left + 1; right <= n && h.priority(right) < h.priority(left) {
			smallest = right
		}
		if h.priority(position) <= h.priority(smallest) {
			return
		}
		h.swap(position, smallest)
		position = smallest
	}
}

func (h *NodeHeap) String() string {
	var sb strings.Builder
	for i := 1; i <= h.Len(); i++ {
		sb.WriteString(fmt.Sprintf("%v: %v, %v\n", i, h.items[i], h.priority(i)))
	}
	return sb.String()
}
