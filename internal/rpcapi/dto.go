package rpcapi

import (
	"strconv"

	"github.com/shaban/trackd/internal/control"
)

type createTrackRequest struct {
	TrackID uint64 `json:"track_id"`
	Name    string `json:"name"`
}

type updateTrackRequest struct {
	Name    *string                        `json:"name"`
	Updates []control.TrackPropertyUpdate `json:"updates"`
}

type instantiatePluginRequest struct {
	PluginID string `json:"plugin_id"`
}

func parseID(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
