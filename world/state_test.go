package world

import (
	"maps"
	"testing"
)

var testMachine = &BlockType{
	Name: "test:machine",
	Properties: []Property{
		EnumProperty("mode", "idle", "run", "stop"),
		IntProperty("level", 1, 4),
		BoolProperty("lit"),
	},
	Defaults: map[string]string{"mode": "run", "level": "3"},
}

func init() {
	RegisterBlock(testMachine)
}

func TestStateRoundTrip(t *testing.T) {
	for _, b := range Blocks() {
		base := b.DefaultState()
		for i := 0; i < b.States(); i++ {
			s := State(int(base) - indexOf(b, base) + i)
			if BlockOf(s) != b {
				t.Fatalf("state %d of %v decodes to block %v", i, b, BlockOf(s))
			}
			props := b.Decode(s)
			encoded, err := b.Encode(props)
			if err != nil {
				t.Fatalf("encode %v of %v: %v", props, b, err)
			}
			if encoded != s {
				t.Fatalf("expected %v to encode to %d, got %d", props, s, encoded)
			}
			if again := b.Decode(encoded); !maps.Equal(again, props) {
				t.Fatalf("expected %v, got %v", props, again)
			}
		}
	}
}

// indexOf returns the offset of s within the states of b.
func indexOf(b *BlockType, s State) int {
	i := 0
	for _, p := range b.Properties {
		i = i*len(p.values) + b.Index(s, p.name)
	}
	return i
}

func TestAirIsZero(t *testing.T) {
	if Air.DefaultState() != AirState || BlockOf(AirState) != Air {
		t.Fatalf("expected air to own state 0")
	}
	if BlockOf(State(1<<31)) != Air {
		t.Fatalf("expected unknown state to decode to air")
	}
}

func TestStateProperties(t *testing.T) {
	s := testMachine.DefaultState()
	if v := testMachine.Value(s, "mode"); v != "run" {
		t.Fatalf("expected default mode run, got %v", v)
	}
	if v := testMachine.Int(s, "level"); v != 3 {
		t.Fatalf("expected default level 3, got %v", v)
	}
	if testMachine.Bool(s, "lit") {
		t.Fatalf("expected lit to default to false")
	}
	if !testMachine.HasProperty("mode") || testMachine.HasProperty("colour") {
		t.Fatalf("expected machine to have a mode property and no colour property")
	}

	s = testMachine.WithBool(s, "lit", true)
	s = testMachine.With(s, "mode", "stop")
	if v := testMachine.Value(s, "mode"); v != "stop" || !testMachine.Bool(s, "lit") || testMachine.Int(s, "level") != 3 {
		t.Fatalf("unexpected state %v", StateString(s))
	}
	if str := StateString(s); str != "test:machine[mode=stop,level=3,lit=true]" {
		t.Fatalf("unexpected state string %v", str)
	}

	if _, err := testMachine.Encode(map[string]string{"mode": "fly"}); err == nil {
		t.Fatalf("expected invalid value to fail encoding")
	}
	if _, err := testMachine.Encode(map[string]string{"colour": "red"}); err == nil {
		t.Fatalf("expected unknown property to fail encoding")
	}
}

func TestRegisterAfterFinalise(t *testing.T) {
	_ = Blocks()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected late registration to panic")
		}
	}()
	RegisterBlock(&BlockType{Name: "test:late"})
}
