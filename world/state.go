package world

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/blocksim/assert"
	"github.com/oomph-ac/blocksim/oerror"
)

// State is an opaque block state id. Every state belongs to exactly one BlockType and can be decoded back
// into that type's property assignment. Ids are stable for the lifetime of the process once the registry
// has been finalised.
type State uint32

// AirState is the state id of air. It is always zero.
const AirState State = 0

// Property is a discrete block property with an ordered list of values.
type Property struct {
	name   string
	values []string
}

// BoolProperty returns a property with the values false and true.
func BoolProperty(name string) Property {
	return Property{name: name, values: []string{"false", "true"}}
}

// IntProperty returns a property holding the integers min to max, inclusive.
func IntProperty(name string, min, max int) Property {
	assert.IsTrue(min <= max, "invalid int property %v: %d > %d", name, min, max)
	values := make([]string, 0, max-min+1)
	for i := min; i <= max; i++ {
		values = append(values, strconv.Itoa(i))
	}
	return Property{name: name, values: values}
}

// EnumProperty returns a property holding the values passed, in order.
func EnumProperty(name string, values ...string) Property {
	assert.IsTrue(len(values) > 0, "enum property %v has no values", name)
	return Property{name: name, values: values}
}

// Name returns the name of the property.
func (p Property) Name() string {
	return p.name
}

// Values returns the values of the property in declaration order.
func (p Property) Values() []string {
	return slices.Clone(p.values)
}

// Index returns the index of the value passed.
func (p Property) Index(value string) (int, bool) {
	i := slices.Index(p.values, value)
	return i, i >= 0
}

// propertySlot is a property as laid out in the state ids of a BlockType.
type propertySlot struct {
	Property
	stride State
}

// BlockType is the immutable identity of a kind of block. Many states reference one BlockType.
type BlockType struct {
	// Name is the namespaced name of the block, such as minecraft:rail.
	Name string
	// Properties is the property schema of the block. The last property is the least significant one in
	// the state id.
	Properties []Property
	// Defaults holds the default values of properties. Properties missing here default to their first value.
	Defaults map[string]string

	// Solid blocks obstruct movement. FullCube blocks additionally offer full faces to support other blocks.
	Solid, FullCube bool
	// Liquid is true for water and lava.
	Liquid bool
	// Replaceable blocks may be overwritten by placing a block into them.
	Replaceable bool
	// Tags holds the tags of the block, such as minecraft:sand.
	Tags []string
	// Behaviour holds the reactions of the block. A nil Behaviour reacts to nothing.
	Behaviour Behaviour

	schema   *orderedmap.OrderedMap[string, *propertySlot]
	defaults []int
	base     State
	count    State
}

func (t *BlockType) String() string {
	return t.Name
}

// Tagged returns true if the block has the tag passed.
func (t *BlockType) Tagged(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// States returns the amount of distinct states of the block.
func (t *BlockType) States() int {
	return int(t.count)
}

// Contains returns true if the state passed belongs to this block.
func (t *BlockType) Contains(s State) bool {
	finaliseBlockRegistry()
	return s >= t.base && s < t.base+t.count
}

// DefaultState returns the state of the block with all properties set to their defaults.
func (t *BlockType) DefaultState() State {
	finaliseBlockRegistry()
	return t.encodeIndices(t.defaults)
}

// Encode returns the state id matching the property assignment passed. Properties not present in props
// take their default value.
func (t *BlockType) Encode(props map[string]string) (State, error) {
	finaliseBlockRegistry()
	indices := slices.Clone(t.defaults)
	for name, value := range props {
		slot, ok := t.schema.Get(name)
		if !ok {
			return 0, oerror.New("block %v has no property %v", t.Name, name)
		}
		i, ok := slot.Index(value)
		if !ok {
			return 0, oerror.New("invalid value %v for property %v of block %v", value, name, t.Name)
		}
		indices[t.position(name)] = i
	}
	return t.encodeIndices(indices), nil
}

// Decode returns the property assignment of the state passed, or nil if the state does not belong to the
// block.
func (t *BlockType) Decode(s State) map[string]string {
	if !t.Contains(s) {
		return nil
	}
	props := make(map[string]string, t.schema.Len())
	for el := t.schema.Front(); el != nil; el = el.Next() {
		props[el.Key] = el.Value.values[t.index(s, el.Value)]
	}
	return props
}

// Value returns the value of a property in the state passed.
func (t *BlockType) Value(s State, prop string) string {
	slot := t.slot(prop)
	return slot.values[t.index(s, slot)]
}

// Index returns the index of the value of a property in the state passed.
func (t *BlockType) Index(s State, prop string) int {
	return t.index(s, t.slot(prop))
}

// Bool returns the value of a BoolProperty in the state passed.
func (t *BlockType) Bool(s State, prop string) bool {
	return t.Value(s, prop) == "true"
}

// Int returns the value of an IntProperty in the state passed.
func (t *BlockType) Int(s State, prop string) int {
	v, err := strconv.Atoi(t.Value(s, prop))
	assert.IsTrue(err == nil, "property %v of block %v is not an int property", prop, t.Name)
	return v
}

// With returns the state passed with a property changed to value.
func (t *BlockType) With(s State, prop, value string) State {
	slot := t.slot(prop)
	i, ok := slot.Index(value)
	assert.IsTrue(ok, "invalid value %v for property %v of block %v", value, prop, t.Name)
	return t.withIndex(s, slot, i)
}

// WithIndex returns the state passed with a property changed to the value at index i.
func (t *BlockType) WithIndex(s State, prop string, i int) State {
	slot := t.slot(prop)
	assert.IsTrue(i >= 0 && i < len(slot.values), "index %d out of range for property %v of block %v", i, prop, t.Name)
	return t.withIndex(s, slot, i)
}

// WithBool returns the state passed with a BoolProperty changed.
func (t *BlockType) WithBool(s State, prop string, v bool) State {
	return t.With(s, prop, strconv.FormatBool(v))
}

// HasProperty returns true if the block has a property with the name passed.
func (t *BlockType) HasProperty(prop string) bool {
	_, ok := t.schema.Get(prop)
	return ok
}

func (t *BlockType) slot(prop string) *propertySlot {
	slot, ok := t.schema.Get(prop)
	assert.IsTrue(ok, "block %v has no property %v", t.Name, prop)
	return slot
}

func (t *BlockType) index(s State, slot *propertySlot) int {
	assert.IsTrue(t.Contains(s), "state %d does not belong to block %v", s, t.Name)
	return int((s - t.base) / slot.stride % State(len(slot.values)))
}

func (t *BlockType) withIndex(s State, slot *propertySlot, i int) State {
	current := t.index(s, slot)
	return s - State(current)*slot.stride + State(i)*slot.stride
}

func (t *BlockType) position(prop string) int {
	i := 0
	for el := t.schema.Front(); el != nil; el = el.Next() {
		if el.Key == prop {
			return i
		}
		i++
	}
	return -1
}

func (t *BlockType) encodeIndices(indices []int) State {
	s := t.base
	i := 0
	for el := t.schema.Front(); el != nil; el = el.Next() {
		s += State(indices[i]) * el.Value.stride
		i++
	}
	return s
}

// prepare builds the property layout of the block. It is called once when the block is registered.
func (t *BlockType) prepare() {
	t.schema = orderedmap.NewOrderedMap[string, *propertySlot]()
	t.count = 1
	for i := len(t.Properties) - 1; i >= 0; i-- {
		p := t.Properties[i]
		assert.IsTrue(len(p.values) > 0, "property %v of block %v has no values", p.name, t.Name)
		t.count *= State(len(p.values))
	}
	stride := t.count
	for _, p := range t.Properties {
		_, dup := t.schema.Get(p.name)
		assert.IsTrue(!dup, "duplicate property %v in block %v", p.name, t.Name)
		stride /= State(len(p.values))
		t.schema.Set(p.name, &propertySlot{Property: p, stride: stride})
	}

	t.defaults = make([]int, len(t.Properties))
	for name, value := range t.Defaults {
		slot, ok := t.schema.Get(name)
		assert.IsTrue(ok, "default for unknown property %v in block %v", name, t.Name)
		i, ok := slot.Index(value)
		assert.IsTrue(ok, "invalid default %v for property %v in block %v", value, name, t.Name)
		t.defaults[t.position(name)] = i
	}
}

var (
	registryMu     sync.Mutex
	registered     = map[string]*BlockType{}
	finalised      bool
	finaliseOnce   sync.Once
	blocksByOffset []*BlockType
)

// Air is the block occupying every position without another block, including positions of regions that
// are not loaded.
var Air = &BlockType{Name: "minecraft:air", Replaceable: true}

func init() {
	RegisterBlock(Air)
}

// RegisterBlock registers a block type so that states can be assigned to it. RegisterBlock must be called
// from an init function: it panics once the registry has been finalised, which happens on the first state
// lookup.
func RegisterBlock(t *BlockType) {
	registryMu.Lock()
	defer registryMu.Unlock()

	assert.IsTrue(!finalised, "block %v registered after the block registry was finalised", t.Name)
	assert.IsTrue(strings.Contains(t.Name, ":"), "block name %q is not namespaced", t.Name)
	_, exists := registered[t.Name]
	assert.IsTrue(!exists, "block %v registered twice", t.Name)

	t.prepare()
	registered[t.Name] = t
}

// finaliseBlockRegistry assigns state ids to all registered blocks. Air always receives id 0; the other
// blocks follow sorted by name so that ids do not depend on init order.
func finaliseBlockRegistry() {
	finaliseOnce.Do(func() {
		registryMu.Lock()
		defer registryMu.Unlock()

		names := make([]string, 0, len(registered))
		for name := range registered {
			if name != Air.Name {
				names = append(names, name)
			}
		}
		sort.Strings(names)

		blocksByOffset = append(blocksByOffset, Air)
		next := Air.count
		for _, name := range names {
			t := registered[name]
			t.base = next
			next += t.count
			blocksByOffset = append(blocksByOffset, t)
		}
		finalised = true
	})
}

// BlockByName returns the registered block with the name passed.
func BlockByName(name string) (*BlockType, bool) {
	finaliseBlockRegistry()
	t, ok := registered[name]
	return t, ok
}

// BlockOf returns the block a state belongs to. Unknown states are treated as air.
func BlockOf(s State) *BlockType {
	finaliseBlockRegistry()
	i := sort.Search(len(blocksByOffset), func(i int) bool {
		return blocksByOffset[i].base > s
	}) - 1
	if i < 0 || !blocksByOffset[i].Contains(s) {
		return Air
	}
	return blocksByOffset[i]
}

// Blocks returns all registered blocks ordered by their state ids.
func Blocks() []*BlockType {
	finaliseBlockRegistry()
	return slices.Clone(blocksByOffset)
}

// StateString formats a state as name[prop=value,...], mostly for logging.
func StateString(s State) string {
	t := BlockOf(s)
	if t.schema.Len() == 0 {
		return t.Name
	}
	parts := make([]string, 0, t.schema.Len())
	for el := t.schema.Front(); el != nil; el = el.Next() {
		parts = append(parts, el.Key+"="+el.Value.values[t.index(s, el.Value)])
	}
	return fmt.Sprintf("%v[%v]", t.Name, strings.Join(parts, ","))
}
