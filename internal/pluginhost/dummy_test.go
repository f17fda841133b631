package pluginhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDummyLookupAndInstantiate(t *testing.T) {
	h := NewDummy()
	desc, ok := h.Lookup("dummy:gain")
	require.True(t, ok)
	assert.Equal(t, "Dummy Gain", desc.Name)

	inst, err := h.Instantiate("dummy:gain", 48000)
	require.NoError(t, err)
	assert.Equal(t, desc, inst.Descriptor())
}

func TestInstantiateUnknownURI(t *testing.T) {
	h := NewDummy()
	_, err := h.Instantiate("lv2:nope", 48000)
	assert.Error(t, err)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestGainInstanceScales(t *testing.T) {
	h := NewDummy()
	inst, err := h.Instantiate("dummy:gain", 48000)
	require.NoError(t, err)

	in := []float32{1, 1, 1, 1}
	out := make([]float32, 4)
	ports := []PortBinding{
		{Port: Port{Name: "in_l", Kind: PortAudio, Direction: DirectionInput}, Audio: in},
		{Port: Port{Name: "out_l", Kind: PortAudio, Direction: DirectionOutput}, Audio: out},
		{Port: Port{Name: "gain", Kind: PortControl}, Value: 0.5},
	}
	require.NoError(t, inst.Run(4, ports))
	for _, v := range out {
		assert.Equal(t, float32(0.5), v)
	}
}

func TestDCSourceFillsConstant(t *testing.T) {
	h := NewDummy()
	inst, err := h.Instantiate("dummy:dc-source", 48000)
	require.NoError(t, err)
	out := make([]float32, 8)
	ports := []PortBinding{
		{Port: Port{Name: "out_l", Kind: PortAudio, Direction: DirectionOutput}, Audio: out},
		{Port: Port{Name: "value", Kind: PortControl}, Value: 0.75},
	}
	require.NoError(t, inst.Run(8, ports))
	for _, v := range out {
		assert.Equal(t, float32(0.75), v)
	}
}
