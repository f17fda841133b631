package pluginhost

import "fmt"

// Dummy is a deterministic, allocation-free-at-runtime plugin host used by
// tests and by --backend dummy headless operation. It ships three built-in
// plugins: a unity/variable-gain stage, an audio passthrough, and a
// constant DC-source generator, which together are enough to exercise
// every testable property in SPEC_FULL.md §8 without any real DSP.
type Dummy struct {
	descriptors map[string]Descriptor
}

// NewDummy constructs a host with its fixed built-in plugin set.
func NewDummy() *Dummy {
	d := &Dummy{descriptors: make(map[string]Descriptor)}
	for _, desc := range []Descriptor{gainDescriptor, passthroughDescriptor, dcSourceDescriptor} {
		d.descriptors[desc.URI] = desc
	}
	return d
}

func (d *Dummy) Plugins() []Descriptor {
	out := make([]Descriptor, 0, len(d.descriptors))
	for _, desc := range d.descriptors {
		out = append(out, desc)
	}
	return out
}

func (d *Dummy) Lookup(uri string) (Descriptor, bool) {
	desc, ok := d.descriptors[uri]
	return desc, ok
}

func (d *Dummy) Instantiate(uri string, sampleRate float64) (Instance, error) {
	desc, ok := d.descriptors[uri]
	if !ok {
		return nil, &NotFoundError{URI: uri}
	}
	switch uri {
	case gainDescriptor.URI:
		return &gainInstance{desc: desc}, nil
	case passthroughDescriptor.URI:
		return &passthroughInstance{desc: desc}, nil
	case dcSourceDescriptor.URI:
		return &dcSourceInstance{desc: desc}, nil
	default:
		return nil, fmt.Errorf("pluginhost: dummy host has no constructor for %q", uri)
	}
}

var gainDescriptor = Descriptor{
	URI:  "dummy:gain",
	Name: "Dummy Gain",
	Ports: []Port{
		{Name: "in_l", Kind: PortAudio, Direction: DirectionInput},
		{Name: "in_r", Kind: PortAudio, Direction: DirectionInput},
		{Name: "out_l", Kind: PortAudio, Direction: DirectionOutput},
		{Name: "out_r", Kind: PortAudio, Direction: DirectionOutput},
		{Name: "gain", Kind: PortControl, Direction: DirectionInput, DefaultValue: 1, MinValue: 0, MaxValue: 4},
	},
}

type gainInstance struct{ desc Descriptor }

func (g *gainInstance) Descriptor() Descriptor { return g.desc }
func (g *gainInstance) Close() error           { return nil }

func (g *gainInstance) Run(samples int, ports []PortBinding) error {
	var insBuf, outsBuf [2]PortBinding
	ins, outs := insBuf[:0], outsBuf[:0]
	gain := float32(1)
	for _, p := range ports {
		switch {
		case p.Port.Kind == PortAudio && p.Port.Direction == DirectionInput:
			ins = append(ins, p)
		case p.Port.Kind == PortAudio && p.Port.Direction == DirectionOutput:
			outs = append(outs, p)
		case p.Port.Kind == PortControl && p.Port.Name == "gain":
			gain = p.Value
		}
	}
	for i := 0; i < len(outs) && i < len(ins); i++ {
		src, dst := ins[i].Audio, outs[i].Audio
		for n := 0; n < samples && n < len(src) && n < len(dst); n++ {
			dst[n] = src[n] * gain
		}
	}
	return nil
}

var passthroughDescriptor = Descriptor{
	URI:  "dummy:passthrough",
	Name: "Dummy Passthrough",
	Ports: []Port{
		{Name: "in_l", Kind: PortAudio, Direction: DirectionInput},
		{Name: "in_r", Kind: PortAudio, Direction: DirectionInput},
		{Name: "out_l", Kind: PortAudio, Direction: DirectionOutput},
		{Name: "out_r", Kind: PortAudio, Direction: DirectionOutput},
	},
}

type passthroughInstance struct{ desc Descriptor }

func (p *passthroughInstance) Descriptor() Descriptor { return p.desc }
func (p *passthroughInstance) Close() error           { return nil }

func (p *passthroughInstance) Run(samples int, ports []PortBinding) error {
	var insBuf, outsBuf [2]PortBinding
	ins, outs := insBuf[:0], outsBuf[:0]
	for _, pb := range ports {
		switch {
		case pb.Port.Kind == PortAudio && pb.Port.Direction == DirectionInput:
			ins = append(ins, pb)
		case pb.Port.Kind == PortAudio && pb.Port.Direction == DirectionOutput:
			outs = append(outs, pb)
		}
	}
	for i := 0; i < len(outs) && i < len(ins); i++ {
		copy(outs[i].Audio[:min(samples, len(outs[i].Audio))], ins[i].Audio)
	}
	return nil
}

var dcSourceDescriptor = Descriptor{
	URI:  "dummy:dc-source",
	Name: "Dummy DC Source",
	Ports: []Port{
		{Name: "out_l", Kind: PortAudio, Direction: DirectionOutput},
		{Name: "out_r", Kind: PortAudio, Direction: DirectionOutput},
		{Name: "value", Kind: PortControl, Direction: DirectionInput, DefaultValue: 0, MinValue: -1, MaxValue: 1},
	},
}

type dcSourceInstance struct{ desc Descriptor }

func (s *dcSourceInstance) Descriptor() Descriptor { return s.desc }
func (s *dcSourceInstance) Close() error           { return nil }

func (s *dcSourceInstance) Run(samples int, ports []PortBinding) error {
	value := float32(0)
	for _, p := range ports {
		if p.Port.Kind == PortControl && p.Port.Name == "value" {
			value = p.Value
		}
	}
	for _, p := range ports {
		if p.Port.Kind == PortAudio && p.Port.Direction == DirectionOutput {
			for n := 0; n < samples && n < len(p.Audio); n++ {
				p.Audio[n] = value
			}
		}
	}
	return nil
}
