package engine

import "github.com/shaban/trackd/internal/pluginhost"

// Command is a sealed interface: the only implementations live in this
// file, each carrying exactly the payload the engine needs to apply the
// effect on the audio thread. External packages build commands through the
// constructor functions below rather than implementing Command directly.
type Command interface {
	apply(e *Engine)
}

// TrackProperty identifies a mutable track property carried by an
// UpdateTrack command.
type TrackProperty int

const (
	PropertyGain TrackProperty = iota
)

type createTrackCmd struct {
	id   uint64
	name string
}

// NewCreateTrack builds a command that appends a new, empty track with the
// given id and name to the engine's track list.
func NewCreateTrack(id uint64, name string) Command {
	return createTrackCmd{id: id, name: name}
}

func (c createTrackCmd) apply(e *Engine) {
	e.tracks = append(e.tracks, newTrack(c.id, c.name, e.bufferFrames))
}

type deleteTrackCmd struct{ id uint64 }

// NewDeleteTrack builds a command that removes the track with the given
// id, if present. Absent ids are a silent no-op.
func NewDeleteTrack(id uint64) Command { return deleteTrackCmd{id: id} }

func (c deleteTrackCmd) apply(e *Engine) {
	for i, t := range e.tracks {
		if t.id == c.id {
			e.tracks = append(e.tracks[:i], e.tracks[i+1:]...)
			return
		}
	}
}

type updateTrackCmd struct {
	id       uint64
	property TrackProperty
	value    float32
}

// NewUpdateTrack builds a command that sets property on the track with the
// given id, if present.
func NewUpdateTrack(id uint64, property TrackProperty, value float32) Command {
	return updateTrackCmd{id: id, property: property, value: value}
}

func (c updateTrackCmd) apply(e *Engine) {
	t := e.findTrack(c.id)
	if t == nil {
		return
	}
	switch c.property {
	case PropertyGain:
		t.gain = c.value
	}
}

type pushPluginInstanceCmd struct {
	instanceID uint64
	trackID    uint64
	instance   pluginhost.Instance
	params     []float32
}

// NewPushPluginInstance builds a command that appends instance to the end
// of the target track's plugin chain. The instance ownership transfers to
// the engine: the control side must not retain it.
func NewPushPluginInstance(instanceID, trackID uint64, instance pluginhost.Instance, params []float32) Command {
	return pushPluginInstanceCmd{instanceID: instanceID, trackID: trackID, instance: instance, params: params}
}

func (c pushPluginInstanceCmd) apply(e *Engine) {
	t := e.findTrack(c.trackID)
	if t == nil {
		return
	}
	t.instances = append(t.instances, newInstanceSlot(c.instanceID, c.instance, c.params))
}

type deletePluginInstanceCmd struct{ instanceID uint64 }

// NewDeletePluginInstance builds a command that removes the instance with
// the given id from whichever track holds it.
func NewDeletePluginInstance(instanceID uint64) Command {
	return deletePluginInstanceCmd{instanceID: instanceID}
}

func (c deletePluginInstanceCmd) apply(e *Engine) {
	for _, t := range e.tracks {
		for i, slot := range t.instances {
			if slot.id == c.instanceID {
				t.instances = append(t.instances[:i], t.instances[i+1:]...)
				return
			}
		}
	}
}
