package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/blocksim/event"
	"github.com/oomph-ac/blocksim/settings"
	"github.com/oomph-ac/blocksim/virtual"
	"github.com/oomph-ac/blocksim/world"
	"github.com/oomph-ac/blocksim/world/block"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sirupsen/logrus"
)

// The following program builds a small world with rails and cacti and simulates it for a number of steps.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: ./blocksim <settings_path> [steps] [event_log_path]")
		return
	}

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}
	log.Level = logrus.DebugLevel

	s, err := readSettings(os.Args[1])
	if err != nil {
		log.Fatalf("unable to read settings: %v", err)
	}
	steps := 200
	if len(os.Args) > 2 {
		if steps, err = strconv.Atoi(os.Args[2]); err != nil {
			log.Fatalf("invalid step count %q: %v", os.Args[2], err)
		}
	}

	if os.Getenv("PPROF_ENABLED") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	rec := &event.Recorder{}
	handlers := event.Multi{rec}
	if len(os.Args) > 3 {
		f, err := os.Create(os.Args[3])
		if err != nil {
			log.Fatalf("unable to create event log: %v", err)
		}
		defer f.Close()

		lw, err := event.NewLogWriter(f)
		if err != nil {
			log.Fatalf("unable to create event log: %v", err)
		}
		defer func() {
			if err := lw.Close(); err != nil {
				log.Errorf("failed writing event log: %v", err)
			}
		}()
		handlers = append(handlers, lw)
	}

	w := virtual.NewWorld(log, world.Overworld.Range())
	e := world.Config{Log: log, Settings: s, Handler: handlers}.New(w)
	v := virtual.NewViewer(w, 2, mgl64.Vec3{8, 0, 8}, func(pos protocol.ChunkPos) {
		e.UnloadRegion(pos)
	})

	buildScenario(log, e, w)
	log.Infof("scenario built: %d events, %d pending ticks", len(rec.Drain()), e.Pending())

	var total world.StepStats
	for i := 0; i < steps; i++ {
		stats := e.Step()
		total.Fired += stats.Fired
		total.Discarded += stats.Discarded
		total.RandomTicks += stats.RandomTicks
		if n := len(rec.Drain()); n > 0 {
			log.Debugf("step %d: %d events (%+v)", e.CurrentTick(), n, stats)
		}
	}
	log.Infof("simulated %d steps: %d ticks fired, %d discarded, %d random ticks, digest %016x", steps, total.Fired, total.Discarded, total.RandomTicks, w.Digest())

	v.Move(mgl64.Vec3{512, 0, 0})
	log.Infof("viewer moved away, %d ticks left pending", e.Pending())
}

// readSettings loads the settings at path, writing the default settings there first if the file does not
// exist yet.
func readSettings(path string) (settings.Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := settings.SaveDefault(path); err != nil {
			return settings.Settings{}, err
		}
	}
	return settings.Load(path)
}

// buildScenario lays out a stone platform with a rail line, a powered rail on a pillar that is later removed
// and a row of cacti on sand.
func buildScenario(log *logrus.Logger, e *world.Engine, w *virtual.World) {
	w.Fill(cube.Pos{-8, 0, -8}, cube.Pos{23, 0, 23}, block.Stone.DefaultState())
	for x := 0; x < 16; x += 2 {
		w.Store(cube.Pos{x, 0, 12}, block.Sand.DefaultState())
		w.Store(cube.Pos{x, 1, 12}, block.Cactus.DefaultState())
	}
	w.Store(cube.Pos{4, 1, 0}, block.Stone.DefaultState())
	w.Store(cube.Pos{0, 1, 6}, block.Water.DefaultState())

	east := world.Actor{Rotation: mgl32.Vec2{-90, 0}}
	operator := world.Actor{Rotation: mgl32.Vec2{180, 0}, PermissionLevel: 4}
	e.Exec(func(tx *world.Tx) {
		// The rail at x=3 ascends onto the stone block at x=4.
		tx.PlaceBlock(east, cube.Pos{4, 2, 0}, cube.FaceUp, block.Rail)
		for x := 0; x < 4; x++ {
			tx.PlaceBlock(east, cube.Pos{x, 1, 0}, cube.FaceUp, block.Rail)
		}
		for z := 1; z < 6; z++ {
			tx.PlaceBlock(operator, cube.Pos{0, 1, z}, cube.FaceUp, block.Rail)
		}
		tx.PlaceBlock(operator, cube.Pos{0, 1, 6}, cube.FaceUp, block.Rail)

		tx.PlaceBlock(operator, cube.Pos{8, 1, 4}, cube.FaceUp, block.PoweredRail)
		tx.SetBlock(operator, cube.Pos{8, 0, 4}, world.AirState, world.SetBlockDestroy)
	})

	e.Exec(func(tx *world.Tx) {
		for _, pos := range []cube.Pos{{0, 1, 0}, {3, 1, 0}, {0, 1, 6}, {8, 1, 4}} {
			log.Debugf("%v: %v", pos, world.StateString(tx.BlockState(pos)))
		}
	})
}
