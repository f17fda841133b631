package engine

import (
	"fmt"

	"github.com/shaban/trackd/internal/audiobuf"
	"github.com/shaban/trackd/internal/midiatom"
	"github.com/shaban/trackd/internal/pluginhost"
)

// instanceSlot pairs a running plugin instance with its realtime-owned
// parameter vector and identity, in the order it was pushed onto the
// track's chain. Port categorization and the binding scratch slice are
// computed once, when the instance is pushed onto the engine (see
// newInstanceSlot), so that the per-callback hot path in Track.bindPorts
// never allocates.
type instanceSlot struct {
	id       uint64
	instance pluginhost.Instance
	params   []float32

	audioInPorts  []pluginhost.Port
	audioOutPorts []pluginhost.Port
	controlPorts  []pluginhost.Port
	atomPort      *pluginhost.Port

	// bindings is reused across every Run call: its length and Port
	// fields are fixed at construction time, and only the Audio/Atoms/
	// Value fields are overwritten per callback.
	bindings []pluginhost.PortBinding
}

// newInstanceSlot categorizes instance's ports once and preallocates the
// binding scratch slice, so that applying a PushPluginInstance command is
// the only place this setup work happens — never inside the per-callback
// Track.process path.
func newInstanceSlot(id uint64, instance pluginhost.Instance, params []float32) *instanceSlot {
	desc := instance.Descriptor()

	var audioIn, audioOut []pluginhost.Port
	for _, p := range desc.PortsWithType(pluginhost.PortAudio) {
		switch p.Direction {
		case pluginhost.DirectionInput:
			if len(audioIn) < 2 {
				audioIn = append(audioIn, p)
			}
		case pluginhost.DirectionOutput:
			if len(audioOut) < 2 {
				audioOut = append(audioOut, p)
			}
		}
	}
	controlPorts := desc.PortsWithType(pluginhost.PortControl)

	var atomPort *pluginhost.Port
	if atomIn := desc.PortsWithType(pluginhost.PortAtom); len(atomIn) > 0 {
		p := atomIn[0]
		atomPort = &p
	}

	bindings := make([]pluginhost.PortBinding, 0, len(audioIn)+len(audioOut)+len(controlPorts)+1)
	for _, p := range audioIn {
		bindings = append(bindings, pluginhost.PortBinding{Port: p})
	}
	for _, p := range audioOut {
		bindings = append(bindings, pluginhost.PortBinding{Port: p})
	}
	if atomPort != nil {
		bindings = append(bindings, pluginhost.PortBinding{Port: *atomPort})
	}
	for i, p := range controlPorts {
		value := p.DefaultValue
		if i < len(params) {
			value = params[i]
		}
		bindings = append(bindings, pluginhost.PortBinding{Port: p, Value: value})
	}

	return &instanceSlot{
		id:            id,
		instance:      instance,
		params:        params,
		audioInPorts:  audioIn,
		audioOutPorts: audioOut,
		controlPorts:  controlPorts,
		atomPort:      atomPort,
		bindings:      bindings,
	}
}

// Track is the realtime-side representation of one mixer track: an
// input/output buffer pair used for the ping-pong discipline between
// plugin chain stages, a reusable MIDI atom sequence, and an ordered
// plugin instance chain.
type Track struct {
	id        uint64
	name      string
	gain      float32
	input     *audiobuf.Buffer
	output    *audiobuf.Buffer
	midi      *midiatom.Sequence
	midiFlat  []byte // scratch, reused across callbacks by flattenMIDI
	instances []*instanceSlot
	onLog     func(string)
}

func newTrack(id uint64, name string, frames int) *Track {
	return &Track{
		id:       id,
		name:     name,
		gain:     1.0,
		input:    audiobuf.New(2, frames),
		output:   audiobuf.New(2, frames),
		midi:     midiatom.NewSequence(),
		midiFlat: make([]byte, 0, 4096),
	}
}

func (t *Track) setBufferFrames(frames int) {
	t.input.SetFrames(frames)
	t.output.SetFrames(frames)
}

// process runs this track's plugin chain for one callback and returns a
// borrow of the final output buffer, ready for the caller to mix into the
// stereo bus at t.gain. It implements SPEC_FULL.md §4.2's per-track
// algorithm: clear, encode MIDI, then swap-build-run for each instance in
// chain order. Buffers, the MIDI sequence, and every instance's port
// bindings are preallocated scratch reused callback to callback. This path
// still allocates in two cases: formatting the log message for a MIDI
// encoding or plugin run error, and growing the MIDI storage when a
// callback carries more MIDI data than any earlier one.
func (t *Track) process(samples int, events []midiatom.Event) *audiobuf.Buffer {
	t.input.Clear()
	t.output.Clear()
	t.midi.Clear()

	for _, err := range t.midi.EncodeFrom(events) {
		t.log(err.Error())
	}
	t.flattenMIDI()

	for _, slot := range t.instances {
		audiobuf.Swap(t.input, t.output)
		t.output.Clear()

		ports := t.bindPorts(slot)
		if err := slot.instance.Run(samples, ports); err != nil {
			t.log(fmt.Sprintf("track %d: plugin instance %d: %v", t.id, slot.id, err))
		}
	}

	return t.output
}

// flattenMIDI concatenates this callback's encoded events into midiFlat,
// reusing its backing array (append only grows it, like audiobuf.SetFrames,
// when a callback genuinely carries more MIDI data than any prior one).
func (t *Track) flattenMIDI() {
	t.midiFlat = t.midiFlat[:0]
	for i := 0; i < t.midi.Len(); i++ {
		_, data := t.midi.At(i)
		t.midiFlat = append(t.midiFlat, data...)
	}
}

// bindPorts refreshes slot's preallocated binding slice in place — up to
// two audio input channels, up to two audio output channels, the track's
// flattened MIDI bytes (when the plugin declares an atom input port), and
// the instance's stored control parameters — per SPEC_FULL.md §4.2 step
// 3b, without allocating.
func (t *Track) bindPorts(slot *instanceSlot) []pluginhost.PortBinding {
	i := 0
	for range slot.audioInPorts {
		slot.bindings[i].Audio = t.input.ChannelMut(i)
		i++
	}
	for j := range slot.audioOutPorts {
		slot.bindings[i].Audio = t.output.ChannelMut(j)
		i++
	}
	if slot.atomPort != nil {
		if len(t.midiFlat) > 0 {
			slot.bindings[i].Atoms = t.midiFlat
		} else {
			slot.bindings[i].Atoms = nil
		}
	}
	// Control port bindings carry the instance's fixed parameter values set
	// at construction time (see newInstanceSlot) — plugin parameter
	// automation is out of scope, so they never need refreshing here.
	return slot.bindings
}

func (t *Track) log(msg string) {
	if t.onLog != nil {
		t.onLog(msg)
	}
}
