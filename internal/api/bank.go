package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/mathpop/internal/problembank"
)

type levelSummary struct {
	Level int `json:"level"`
	Size  int `json:"size"`
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	bank := s.opts.Bank
	out := make([]levelSummary, 0, problembank.MaxLevel)
	for _, lvl := range bank.Levels() {
		out = append(out, levelSummary{Level: lvl, Size: len(bank.Level(lvl))})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	lvl, err := strconv.Atoi(chi.URLParam(r, "level"))
	if err != nil || lvl < problembank.MinLevel || lvl > problembank.MaxLevel {
		respondError(w, http.StatusNotFound, "unknown level")
		return
	}
	respondJSON(w, http.StatusOK, s.opts.Bank.Level(lvl))
}
