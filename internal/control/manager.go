// Package control implements the control plane: the mutex-serialized
// Manager that RPC handlers call into, the id allocator, and the producer
// side of the command queue that feeds the realtime engine. Nothing in
// this package runs on the audio thread.
package control

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shaban/trackd/internal/engine"
	"github.com/shaban/trackd/internal/pluginhost"
	"github.com/shaban/trackd/internal/rtqueue"
)

type trackRecord struct {
	id         uint64
	name       string
	gain       float32
	instanceID []uint64 // push order
}

type instanceRecord struct {
	id       uint64
	trackID  uint64
	pluginID string
	params   []float32
}

// Manager owns the authoritative control-side view and the producer end
// of the command queue. Every exported method acquires mu for its
// duration and is safe to call concurrently from multiple RPC handler
// goroutines, mirroring the teacher's dispatcher: any number of callers,
// one serialized path into the engine.
type Manager struct {
	mu sync.Mutex

	host     pluginhost.Host
	commands *rtqueue.Queue[engine.Command]
	ids      *IdManager

	tracks    map[uint64]*trackRecord
	instances map[uint64]*instanceRecord

	sampleRate float64
	bufferSize int
}

// NewManager constructs a Manager bound to host and commands, the same
// queue the Engine's consumer side drains.
func NewManager(host pluginhost.Host, commands *rtqueue.Queue[engine.Command], sampleRate float64, bufferSize int) *Manager {
	return &Manager{
		host:       host,
		commands:   commands,
		ids:        NewIdManager(),
		tracks:     make(map[uint64]*trackRecord),
		instances:  make(map[uint64]*instanceRecord),
		sampleRate: sampleRate,
		bufferSize: bufferSize,
	}
}

// GetPlugins lists every plugin the host knows about.
func (m *Manager) GetPlugins() []Plugin {
	m.mu.Lock()
	defer m.mu.Unlock()

	descs := m.host.Plugins()
	out := make([]Plugin, 0, len(descs))
	for _, d := range descs {
		params := make([]PluginParam, 0)
		for i, p := range d.PortsWithType(pluginhost.PortControl) {
			params = append(params, PluginParam{Name: p.Name, DefaultValue: p.DefaultValue, Index: i})
		}
		out = append(out, Plugin{ID: d.URI, Name: d.Name, Format: "lv2", Params: params})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetTracks lists every track, sorted ascending by id, per SPEC_FULL.md §3.
func (m *Manager) GetTracks() []Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotTracksLocked()
}

func (m *Manager) snapshotTracksLocked() []Track {
	out := make([]Track, 0, len(m.tracks))
	for _, t := range m.tracks {
		out = append(out, m.toDTOLocked(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Manager) toDTOLocked(t *trackRecord) Track {
	instances := make([]PluginInstance, 0, len(t.instanceID))
	for _, id := range t.instanceID {
		rec := m.instances[id]
		instances = append(instances, PluginInstance{ID: rec.id, PluginID: rec.pluginID, Params: rec.params})
	}
	return Track{ID: t.id, Name: t.name, Gain: t.gain, PluginInstances: instances}
}

// CreateTrack creates a track with an optional explicit id (0 = auto) and
// optional name (empty = "Track<id>"). It pushes the realtime CreateTrack
// command only after its own view is consistent, and rolls the view back
// if the push fails.
func (m *Manager) CreateTrack(explicitID uint64, name string) (Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var id uint64
	if explicitID != 0 {
		if !m.ids.Register(explicitID) {
			return Track{}, alreadyExists("track id %d already in use", explicitID)
		}
		id = explicitID
	} else {
		id = m.ids.Alloc()
	}

	if name == "" {
		name = fmt.Sprintf("Track%d", id)
	}

	rec := &trackRecord{id: id, name: name, gain: 1.0}
	m.tracks[id] = rec

	if err := m.commands.TryPush(engine.NewCreateTrack(id, name)); err != nil {
		delete(m.tracks, id)
		m.ids.Release(id)
		return Track{}, internal(err, "push CreateTrack for id %d", id)
	}

	return m.toDTOLocked(rec), nil
}

// DeleteTrack removes a track and every plugin instance it owns.
func (m *Manager) DeleteTrack(id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.tracks[id]
	if !ok {
		return notFound("track %d not found", id)
	}

	if err := m.commands.TryPush(engine.NewDeleteTrack(id)); err != nil {
		return internal(err, "push DeleteTrack for id %d", id)
	}

	for _, instID := range rec.instanceID {
		delete(m.instances, instID)
		m.ids.Release(instID)
	}
	delete(m.tracks, id)
	m.ids.Release(id)
	return nil
}

// UpdateTrack applies each property update to the track, in order.
// Undefined/unknown property values are ignored, not errors, per
// SPEC_FULL.md §7.
func (m *Manager) UpdateTrack(id uint64, name *string, updates []TrackPropertyUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.tracks[id]
	if !ok {
		return notFound("track %d not found", id)
	}

	if name != nil {
		rec.name = *name
	}

	for _, u := range updates {
		switch u.Property {
		case PropertyGain:
			if err := m.commands.TryPush(engine.NewUpdateTrack(id, engine.PropertyGain, u.Value)); err != nil {
				return internal(err, "push UpdateTrack for id %d", id)
			}
			rec.gain = u.Value
		case PropertyUndefined:
			// no-op by design: forward compatibility with unknown enum values.
		}
	}
	return nil
}

// InstantiatePlugin creates a plugin instance on trackID from pluginID,
// seeding its parameter vector from the plugin's control-input defaults.
func (m *Manager) InstantiatePlugin(trackID uint64, pluginID string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	track, ok := m.tracks[trackID]
	if !ok {
		return 0, notFound("track %d not found", trackID)
	}

	desc, ok := m.host.Lookup(pluginID)
	if !ok {
		return 0, notFound("plugin %q not found", pluginID)
	}

	inst, err := m.host.Instantiate(pluginID, m.sampleRate)
	if err != nil {
		return 0, internal(err, "instantiate plugin %q", pluginID)
	}

	controlPorts := desc.PortsWithType(pluginhost.PortControl)
	params := make([]float32, len(controlPorts))
	for i, p := range controlPorts {
		params[i] = p.DefaultValue
	}

	id := m.ids.Alloc()

	if err := m.commands.TryPush(engine.NewPushPluginInstance(id, trackID, inst, params)); err != nil {
		m.ids.Release(id)
		return 0, internal(err, "push PushPluginInstance for id %d", id)
	}

	m.instances[id] = &instanceRecord{id: id, trackID: trackID, pluginID: pluginID, params: params}
	track.instanceID = append(track.instanceID, id)
	return id, nil
}

// DeletePluginInstance removes a plugin instance from its owning track.
func (m *Manager) DeletePluginInstance(instanceID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.instances[instanceID]
	if !ok {
		return notFound("plugin instance %d not found", instanceID)
	}

	if err := m.commands.TryPush(engine.NewDeletePluginInstance(instanceID)); err != nil {
		return internal(err, "push DeletePluginInstance for id %d", instanceID)
	}

	if track, ok := m.tracks[rec.trackID]; ok {
		for i, id := range track.instanceID {
			if id == instanceID {
				track.instanceID = append(track.instanceID[:i], track.instanceID[i+1:]...)
				break
			}
		}
	}
	delete(m.instances, instanceID)
	m.ids.Release(instanceID)
	return nil
}
