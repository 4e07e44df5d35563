package worker

import (
	"sync/atomic"
	"testing"

	"github.com/oomph-ac/blocksim/settings"
	"github.com/oomph-ac/blocksim/virtual"
	"github.com/oomph-ac/blocksim/world"
	"github.com/sirupsen/logrus"
)

func TestSubmitSurvivesPanic(t *testing.T) {
	var ran atomic.Int32
	done := make(chan struct{})
	for i := 0; i < 2*cap(workerQueue); i++ {
		Submit(func() { panic("job failed") })
	}
	Submit(func() {
		ran.Add(1)
		close(done)
	})
	<-done
	if ran.Load() != 1 {
		t.Fatalf("expected job after panics to run")
	}
}

func TestStep(t *testing.T) {
	engines := make([]*world.Engine, 8)
	for i := range engines {
		w := virtual.NewWorld(logrus.New(), world.Overworld.Range())
		engines[i] = world.Config{Settings: settings.DefaultSettings()}.New(w)
	}

	for round := 1; round <= 3; round++ {
		stats := Step(engines...)
		if len(stats) != len(engines) {
			t.Fatalf("expected %d stats, got %d", len(engines), len(stats))
		}
		for i, e := range engines {
			if e.CurrentTick() != int64(round) {
				t.Fatalf("expected engine %d at tick %d, got %d", i, round, e.CurrentTick())
			}
		}
	}
}
