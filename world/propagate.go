package world

import (
	"github.com/df-mc/dragonfly/server/block/cube"
)

// neighbourUpdate is a pending notification of pos about a change at source. face points from pos towards
// source.
type neighbourUpdate struct {
	pos, source cube.Pos
	face        cube.Face
	flags       SetFlags
}

// visitKey identifies a notification within a causal chain: a position notified from one direction.
type visitKey struct {
	pos  cube.Pos
	face cube.Face
}

// propagator fans neighbour updates out from mutations. Notifications are queued and drained breadth first
// by the mutation that started the causal chain; mutations made by reactions during the drain only queue
// further notifications, so the call stack stays bounded however far a chain spreads.
//
// A position is notified at most once per direction within one chain. Chains of mutually triggering blocks
// therefore terminate after at most six notifications per position.
type propagator struct {
	queue    []neighbourUpdate
	visited  map[visitKey]struct{}
	draining bool
	handled  int
}

// notifyAround queues notifications for the neighbours of pos and drains the queue if no chain is being
// resolved yet.
func (p *propagator) notifyAround(tx *Tx, pos cube.Pos, flags SetFlags) {
	for _, face := range neighbourFaces {
		p.queue = append(p.queue, neighbourUpdate{pos: pos.Side(face), source: pos, face: face.Opposite(), flags: flags})
	}
	if !p.draining {
		p.drain(tx)
	}
}

func (p *propagator) drain(tx *Tx) {
	e := tx.engine()
	p.draining = true
	if p.visited == nil {
		p.visited = make(map[visitKey]struct{})
	}
	defer func() {
		p.draining = false
		p.handled = 0
		p.queue = p.queue[:0]
		clear(p.visited)
	}()

	limit := e.conf.Settings.Simulation.MaxChainUpdates
	for len(p.queue) > 0 {
		u := p.queue[0]
		p.queue = p.queue[1:]

		key := visitKey{pos: u.pos, face: u.face}
		if _, ok := p.visited[key]; ok {
			continue
		}
		p.visited[key] = struct{}{}

		p.handled++
		if limit > 0 && p.handled > limit {
			e.log.Warnf("causal chain exceeded %d neighbour updates, dropping %d queued updates", limit, len(p.queue)+1)
			return
		}
		p.update(tx, u)
	}
}

// update delivers a single notification: the neighbour may first adjust its own state silently, after
// which its neighbour update reaction runs.
func (p *propagator) update(tx *Tx, u neighbourUpdate) {
	e := tx.engine()
	t, s := tx.BlockAndState(u.pos)
	if t == Air {
		return
	}
	b := behaviourOf(t)

	if !u.flags.Has(ForceState) {
		sourceState := tx.BlockState(u.source)
		updated := reactValue(e, "StateForNeighbourUpdate", u.pos, s, func() State {
			return b.StateForNeighbourUpdate(tx, u.pos, s, u.face, u.source, sourceState)
		})
		if updated != s {
			tx.SetBlockState(u.pos, updated, NotifyListeners)
			if BlockOf(updated) != t {
				return
			}
		}
	}
	e.react("NeighbourUpdate", u.pos, func() {
		b.NeighbourUpdate(tx, u.pos, u.source)
	})
}
