package world

import (
	"io"
	"math/rand/v2"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/blocksim/event"
	"github.com/oomph-ac/blocksim/oerror"
	"github.com/oomph-ac/blocksim/settings"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// Config holds the parameters of an Engine.
type Config struct {
	// Log is the logger used by the engine. A nil Log discards all output.
	Log *logrus.Logger
	// Settings are the simulation settings. Use settings.DefaultSettings as a base.
	Settings settings.Settings
	// Handler receives the events produced by the engine. Nil discards all events.
	Handler event.Handler
	// Range is the vertical range of the world. The zero value uses the range of the Overworld.
	Range cube.Range
}

// New creates an Engine operating on the store passed.
func (conf Config) New(store Store) *Engine {
	if conf.Log == nil {
		conf.Log = logrus.New()
		conf.Log.SetOutput(io.Discard)
	}
	if conf.Handler == nil {
		conf.Handler = event.NopHandler{}
	}
	if conf.Range == (cube.Range{}) {
		conf.Range = Overworld.Range()
	}
	seed := conf.Settings.Simulation.Seed
	return &Engine{
		conf:      conf,
		log:       conf.Log,
		store:     store,
		ra:        conf.Range,
		scheduler: NewScheduler(),
		r:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Engine runs block behaviours for one world. All mutations of the world go through the engine one at a
// time: a causal chain started by one mutation, including every neighbour reaction it triggers, fully
// resolves before the next mutation starts.
type Engine struct {
	conf  Config
	log   *logrus.Logger
	store Store
	ra    cube.Range

	// mu is the single-writer token of the world. It is held for the full duration of Exec and Step.
	mu deadlock.Mutex

	scheduler *Scheduler
	prop      propagator
	r         *rand.Rand
	tick      int64
}

// StepStats summarises a single call to Step.
type StepStats struct {
	// Fired is the amount of scheduled ticks that fired.
	Fired int
	// Discarded is the amount of due scheduled ticks dropped because their region was unloaded or their
	// block was replaced.
	Discarded int
	// RandomTicks is the amount of random ticks that fired.
	RandomTicks int
	// Pending is the amount of scheduled ticks left after the step.
	Pending int
}

// Exec runs f with exclusive access to the world. The Tx passed to f must not be used after f returns.
func (e *Engine) Exec(f func(tx *Tx)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx := &Tx{e: e}
	defer tx.close()
	f(tx)
}

// Step advances the world by one simulation step: scheduled ticks are advanced and fired, after which
// random ticking runs.
func (e *Engine) Step() StepStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx := &Tx{e: e}
	defer tx.close()

	e.tick++
	var stats StepStats
	for _, t := range e.scheduler.Advance() {
		if !e.store.Loaded(ChunkPosOf(t.Pos)) {
			stats.Discarded++
			e.log.Debugf("discarded tick for %v at %v: region not loaded", t.Block, t.Pos)
			continue
		}
		if b := tx.Block(t.Pos); b != t.Block {
			stats.Discarded++
			e.log.Debugf("discarded tick for %v at %v: block is now %v", t.Block, t.Pos, b)
			continue
		}
		stats.Fired++
		e.react("ScheduledTick", t.Pos, func() {
			behaviourOf(t.Block).ScheduledTick(tx, t.Pos)
		})
	}
	stats.RandomTicks = e.randomTick(tx)
	stats.Pending = e.scheduler.Len()
	return stats
}

// randomTickCandidate is a position taking part in random ticking in the current step.
type randomTickCandidate struct {
	pos cube.Pos
	s   State
}

// randomTick performs a random trial for every position eligible for random ticking and fires the
// reaction of those that succeed.
func (e *Engine) randomTick(tx *Tx) int {
	chance := e.conf.Settings.RandomTickChance()
	if chance <= 0 {
		return 0
	}
	var candidates []randomTickCandidate
	e.store.Range(func(pos cube.Pos, s State) bool {
		if behaviourOf(BlockOf(s)).RandomTicking() {
			candidates = append(candidates, randomTickCandidate{pos: pos, s: s})
		}
		return true
	})

	n := 0
	for _, c := range candidates {
		if e.r.Float64() >= chance {
			continue
		}
		// An earlier random tick in this step may have replaced the block.
		if tx.BlockState(c.pos) != c.s {
			continue
		}
		n++
		e.react("RandomTick", c.pos, func() {
			behaviourOf(BlockOf(c.s)).RandomTick(tx, c.pos, e.r)
		})
	}
	return n
}

// UnloadRegion drops all pending scheduled ticks of the region passed. The ticks are lost, not deferred.
// Hosts call UnloadRegion before removing the region from the Store.
func (e *Engine) UnloadRegion(pos protocol.ChunkPos) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := e.scheduler.DropRegion(pos)
	if n > 0 {
		e.log.Debugf("dropped %d scheduled ticks of unloaded region %v", n, pos)
	}
	return n
}

// Pending returns the amount of pending scheduled ticks.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scheduler.Len()
}

// CurrentTick returns the amount of steps the engine has performed.
func (e *Engine) CurrentTick() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tick
}

// react runs a reaction, recovering and reporting panics so that a broken reaction never aborts the step.
func (e *Engine) react(name string, pos cube.Pos, f func()) {
	defer func() {
		if err := recover(); err != nil {
			e.reportPanic(name, pos, err)
		}
	}()
	f()
}

// reactValue runs a reaction returning a value. If the reaction panics, fallback is returned.
func reactValue[T any](e *Engine, name string, pos cube.Pos, fallback T, f func() T) (v T) {
	defer func() {
		if err := recover(); err != nil {
			e.reportPanic(name, pos, err)
			v = fallback
		}
	}()
	return f()
}

func (e *Engine) reportPanic(name string, pos cube.Pos, err any) {
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("reaction", name)
		scope.SetExtra("pos", pos)
	})
	hub.Recover(oerror.New("%v at %v panicked: %v", name, pos, err))
	e.log.Warnf("recovered from panic in %v at %v: %v", name, pos, err)
}

func (e *Engine) emit(ev event.Event) {
	e.conf.Handler.HandleEvent(ev)
}
