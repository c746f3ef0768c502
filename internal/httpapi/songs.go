package httpapi

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"setlist/internal/catalog"
)

func (s *Server) handleSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.songs.Songs(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("catalog fetch failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch songs from catalog")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool           `json:"success"`
		Data    []catalog.Song `json:"data"`
		Count   int            `json:"count"`
	}{Success: true, Data: songs, Count: len(songs)})
}
