package clip

import (
	"cmp"
	"slices"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-anim/engine/curve"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/google/uuid"
)

// Event is a named marker on a clip's timeline.
type Event struct {
	Name string
	Time float32
}

// clip is the implementation of the Clip interface.
type clip struct {
	id       uuid.UUID
	name     string
	length   float32
	additive bool
	events   []Event
	curves   atomic.Pointer[curve.Set]
	version  atomic.Uint64
}

// Clip is a shared animation resource: a named set of curves plus playback metadata.
//
// The curve set is published through an atomic pointer and is never mutated in place.
// Replacing it with SetCurves bumps Version, which tells every Animation playing the clip
// that its cached layout is stale.
type Clip interface {
	// ID returns the clip's unique identity.
	//
	// Returns:
	//   - uuid.UUID: a time-ordered (v7) UUID assigned at construction
	ID() uuid.UUID

	// Name returns the clip's display name.
	//
	// Returns:
	//   - string: the name given to NewClip
	Name() string

	// Length returns the clip's duration in seconds. An explicit length set with WithLength
	// wins; otherwise it is the latest key time across the current curves.
	//
	// Returns:
	//   - float32: the duration in seconds
	Length() float32

	// IsAdditive reports whether the clip's curves were authored as deltas.
	//
	// Returns:
	//   - bool: true for additive clips
	IsAdditive() bool

	// Curves returns the current curve set. Never nil.
	//
	// Returns:
	//   - *curve.Set: the published, immutable curve set
	Curves() *curve.Set

	// SetCurves publishes a new curve set and increments Version.
	// Readers holding the previous set keep a valid, unchanged view of it.
	//
	// Parameters:
	//   - set: the new curve set; nil publishes an empty set
	SetCurves(set *curve.Set)

	// Version returns a counter that increments each time the curve data changes.
	//
	// Returns:
	//   - uint64: the current version
	Version() uint64

	// Events returns the clip's events sorted by time. The slice must not be modified.
	//
	// Returns:
	//   - []Event: the events
	Events() []Event

	// BoneMapping fills out with the curve indices animating each bone of skel.
	// Bones the clip does not animate get -1 in every channel.
	//
	// Parameters:
	//   - skel: the skeleton to map against
	//   - out: destination, at least skel.NumBones() entries
	BoneMapping(skel *skeleton.Skeleton, out []curve.Mapping)
}

var _ Clip = &clip{}

// NewClip creates a new Clip with the given name and options.
//
// Parameters:
//   - name: the clip's display name
//   - options: functional options applied in order
//
// Returns:
//   - Clip: the new clip
func NewClip(name string, options ...ClipBuilderOption) Clip {
	c := &clip{
		id:   uuid.Must(uuid.NewV7()),
		name: name,
	}
	c.curves.Store(&curve.Set{})
	for _, opt := range options {
		opt(c)
	}
	slices.SortStableFunc(c.events, func(a, b Event) int {
		return cmp.Compare(a.Time, b.Time)
	})
	return c
}

func (c *clip) ID() uuid.UUID {
	return c.id
}

func (c *clip) Name() string {
	return c.name
}

func (c *clip) Length() float32 {
	if c.length > 0 {
		return c.length
	}
	return c.Curves().Length()
}

func (c *clip) IsAdditive() bool {
	return c.additive
}

func (c *clip) Curves() *curve.Set {
	return c.curves.Load()
}

func (c *clip) SetCurves(set *curve.Set) {
	if set == nil {
		set = &curve.Set{}
	}
	c.curves.Store(set)
	c.version.Add(1)
}

func (c *clip) Version() uint64 {
	return c.version.Load()
}

func (c *clip) Events() []Event {
	return c.events
}

func (c *clip) BoneMapping(skel *skeleton.Skeleton, out []curve.Mapping) {
	skel.MapBones(c.Curves(), out)
}
