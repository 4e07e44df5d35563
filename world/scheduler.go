package world

import (
	"slices"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// TickPriority orders scheduled ticks that become due in the same step. Lower values fire first.
type TickPriority int8

const (
	PriorityExtremelyHigh TickPriority = iota - 3
	PriorityVeryHigh
	PriorityHigh
	PriorityNormal
	PriorityLow
	PriorityVeryLow
	PriorityExtremelyLow
)

// ScheduledTick is a pending delayed tick. It is consumed exactly once: when its delay runs out it is
// removed from the scheduler, whether or not firing it has any effect.
type ScheduledTick struct {
	Pos cube.Pos
	// Block is the block the tick was scheduled for. The tick only fires if the position still holds it.
	Block    *BlockType
	Priority TickPriority
	// Delay is the amount of steps left before the tick fires.
	Delay int
}

// Scheduler holds pending scheduled ticks in insertion order. Scheduling the same position twice creates
// two independent ticks.
type Scheduler struct {
	pending *orderedmap.OrderedMap[uint64, *ScheduledTick]
	next    uint64
}

// NewScheduler returns an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{pending: orderedmap.NewOrderedMap[uint64, *ScheduledTick]()}
}

// Schedule adds a tick to the scheduler.
func (s *Scheduler) Schedule(t ScheduledTick) {
	s.pending.Set(s.next, &t)
	s.next++
}

// Advance moves all pending ticks one step forward and returns the ticks that became due. Due ticks are
// removed and returned ordered by priority; ticks of equal priority keep their insertion order.
func (s *Scheduler) Advance() []*ScheduledTick {
	var (
		due  []*ScheduledTick
		keys []uint64
	)
	for el := s.pending.Front(); el != nil; el = el.Next() {
		el.Value.Delay--
		if el.Value.Delay <= 0 {
			due = append(due, el.Value)
			keys = append(keys, el.Key)
		}
	}
	for _, k := range keys {
		s.pending.Delete(k)
	}
	slices.SortStableFunc(due, func(a, b *ScheduledTick) int {
		return int(a.Priority) - int(b.Priority)
	})
	return due
}

// DropRegion removes all pending ticks in the region passed without firing them and returns how many were
// dropped.
func (s *Scheduler) DropRegion(pos protocol.ChunkPos) int {
	var keys []uint64
	for el := s.pending.Front(); el != nil; el = el.Next() {
		if ChunkPosOf(el.Value.Pos) == pos {
			keys = append(keys, el.Key)
		}
	}
	for _, k := range keys {
		s.pending.Delete(k)
	}
	return len(keys)
}

// Len returns the amount of pending ticks.
func (s *Scheduler) Len() int {
	return s.pending.Len()
}
