package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaban/trackd/internal/engine"
	"github.com/shaban/trackd/internal/pluginhost"
	"github.com/shaban/trackd/internal/rtqueue"
)

func newTestManager(t *testing.T, queueSize int) *Manager {
	t.Helper()
	q := rtqueue.New[engine.Command](queueSize)
	return NewManager(pluginhost.NewDummy(), q, 48000, 128)
}

// Scenario 1: CreateTrack(name="") yields a default name and gain 1.0.
func TestCreateTrackDefaults(t *testing.T) {
	m := newTestManager(t, 16)
	tr, err := m.CreateTrack(0, "")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tr.ID)
	assert.Equal(t, "Track1", tr.Name)
	assert.Equal(t, float32(1.0), tr.Gain)
	assert.Empty(t, tr.PluginInstances)
}

// Scenario 2: duplicate explicit id fails with AlreadyExists and leaves
// state unchanged.
func TestCreateTrackExplicitIDCollision(t *testing.T) {
	m := newTestManager(t, 16)
	first, err := m.CreateTrack(5, "")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), first.ID)

	_, err = m.CreateTrack(5, "")
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, KindAlreadyExists, cerr.Kind)

	assert.Len(t, m.GetTracks(), 1)
}

// Scenario 3: UpdateTrack mutates gain and is reflected by GetTracks.
func TestUpdateTrackGain(t *testing.T) {
	m := newTestManager(t, 16)
	tr, err := m.CreateTrack(0, "")
	require.NoError(t, err)

	require.NoError(t, m.UpdateTrack(tr.ID, nil, []TrackPropertyUpdate{{Property: PropertyGain, Value: 0.5}}))

	tracks := m.GetTracks()
	require.Len(t, tracks, 1)
	assert.Equal(t, float32(0.5), tracks[0].Gain)
}

// Scenario 4: deleting an already-deleted track is NotFound.
func TestDeleteTrackTwice(t *testing.T) {
	m := newTestManager(t, 16)
	tr, err := m.CreateTrack(0, "")
	require.NoError(t, err)

	require.NoError(t, m.DeleteTrack(tr.ID))

	err = m.DeleteTrack(tr.ID)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, KindNotFound, cerr.Kind)
}

// Scenario 5: a full command queue surfaces Internal and rolls back the
// view mutation that triggered it.
func TestQueueFullSurfacesInternalAndRollsBack(t *testing.T) {
	m := newTestManager(t, 2) // lfq rounds up to a small power of two
	var lastErr error
	var created int
	for i := 0; i < 64; i++ {
		_, err := m.CreateTrack(0, "")
		if err != nil {
			lastErr = err
			break
		}
		created++
	}
	require.Error(t, lastErr)
	var cerr *Error
	require.ErrorAs(t, lastErr, &cerr)
	assert.Equal(t, KindInternal, cerr.Kind)
	assert.Len(t, m.GetTracks(), created)
}

// Scenario 7: deleting a track releases its plugin instance ids.
func TestDeleteTrackReleasesPluginInstanceIDs(t *testing.T) {
	m := newTestManager(t, 64)
	tr, err := m.CreateTrack(0, "")
	require.NoError(t, err)

	instID, err := m.InstantiatePlugin(tr.ID, "dummy:gain")
	require.NoError(t, err)
	assert.NotZero(t, instID)

	require.NoError(t, m.DeleteTrack(tr.ID))
	assert.Empty(t, m.GetTracks())

	// the released id must be eligible for reuse through the allocator,
	// which holds only while the allocator no longer reports it live.
	assert.False(t, m.ids.Live(instID))
}

func TestInstantiatePluginUnknownTrackOrPlugin(t *testing.T) {
	m := newTestManager(t, 16)
	_, err := m.InstantiatePlugin(999, "dummy:gain")
	require.Error(t, err)

	tr, err := m.CreateTrack(0, "")
	require.NoError(t, err)
	_, err = m.InstantiatePlugin(tr.ID, "nope:nope")
	require.Error(t, err)
}

func TestIdsAreDistinctAcrossTracksAndInstances(t *testing.T) {
	m := newTestManager(t, 64)
	tr1, err := m.CreateTrack(0, "")
	require.NoError(t, err)
	tr2, err := m.CreateTrack(0, "")
	require.NoError(t, err)
	inst1, err := m.InstantiatePlugin(tr1.ID, "dummy:gain")
	require.NoError(t, err)
	inst2, err := m.InstantiatePlugin(tr2.ID, "dummy:gain")
	require.NoError(t, err)

	seen := map[uint64]bool{tr1.ID: true}
	for _, id := range []uint64{tr2.ID, inst1, inst2} {
		assert.False(t, seen[id], "id %d reused", id)
		seen[id] = true
	}
}
