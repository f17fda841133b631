package control

// PluginParam describes one control-input default exposed by a plugin
// descriptor, as returned from GetPlugins.
type PluginParam struct {
	Name         string  `json:"name"`
	DefaultValue float32 `json:"default_value"`
	Index        int     `json:"index"`
}

// Plugin is the control-side view of an installed, not-yet-instantiated
// plugin.
type Plugin struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Format string        `json:"format"`
	Params []PluginParam `json:"params"`
}

// PluginInstance is the control-side record of an instantiated plugin on a
// track.
type PluginInstance struct {
	ID       uint64    `json:"id"`
	PluginID string    `json:"plugin_id"`
	Params   []float32 `json:"params"`
}

// Track is the control-side record of a mixer track.
type Track struct {
	ID              uint64           `json:"id"`
	Name            string           `json:"name"`
	Gain            float32          `json:"gain"`
	PluginInstances []PluginInstance `json:"plugin_instances"`
}

// TrackProperty identifies which field a TrackPropertyUpdate mutates.
type TrackProperty int

const (
	PropertyUndefined TrackProperty = iota
	PropertyGain
)

// TrackPropertyUpdate is one entry of an UpdateTrack request.
type TrackPropertyUpdate struct {
	Property TrackProperty `json:"property"`
	Value    float32       `json:"value"`
}
