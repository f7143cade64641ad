package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rickgao/coinwatch/internal/api"
	"github.com/rickgao/coinwatch/internal/listing"
	"github.com/rickgao/coinwatch/internal/render"
	"github.com/rickgao/coinwatch/internal/watchlist"
)

// maxBodyBytes bounds request bodies; a create request is a name and icon.
const maxBodyBytes = 4 << 10

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := struct {
		Status     string         `json:"status"`
		Components map[string]any `json:"components"`
	}{
		Status:     "healthy",
		Components: make(map[string]any),
	}

	assets := s.registry.Len()
	registry := map[string]any{"assets": assets}
	if at := s.registry.LastUpdated(); !at.IsZero() {
		registry["updated_at"] = at
	}
	health.Components["asset_registry"] = registry
	if assets == 0 {
		health.Status = "degraded"
	}

	dirty := s.store.Dirty()
	health.Components["watchlist_store"] = map[string]any{
		"watchlists": s.store.Len(),
		"persisted":  !dirty,
	}
	if dirty {
		health.Status = "degraded"
	}

	writeJSON(w, http.StatusOK, health)
}

func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	q := listing.Query{
		Search:      r.URL.Query().Get("q"),
		WatchlistID: r.URL.Query().Get("watchlist"),
	}
	res, err := listing.Build(s.registry, s.store, q)
	if errors.Is(err, listing.ErrUnknownWatchlist) {
		writeError(w, http.StatusNotFound, "watchlist not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toListingJSON(res, s.registry.LastUpdated()))
}

func (s *Server) handleAssetDetail(w http.ResponseWriter, r *http.Request) {
	if s.coins == nil {
		writeError(w, http.StatusNotImplemented, "asset detail unavailable")
		return
	}
	id := r.PathValue("id")

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.DetailTimeout)
	defer cancel()

	detail, err := s.coins.GetCoin(ctx, id)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		s.logger.Warn("asset detail fetch failed", "id", id, "err", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toDetailJSON(detail, s.store.Containing(id)))
}

func (s *Server) handleListWatchlists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List())
}

func (s *Server) handleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	wl, ok := s.store.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "watchlist not found")
		return
	}
	writeJSON(w, http.StatusOK, wl)
}

func (s *Server) handleCreateWatchlist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Icon string `json:"icon"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	id, err := s.store.Create(r.Context(), req.Name, req.Icon)
	resp := mutationJSON{ID: id}
	if !s.mutationResult(w, &resp, err) {
		return
	}
	if wl, ok := s.store.Get(id); ok {
		resp.Watchlist = &wl
	}
	s.broadcastWatchlists()
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleDeleteWatchlist(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.store.Get(id); !ok {
		writeError(w, http.StatusNotFound, "watchlist not found")
		return
	}

	err := s.store.Delete(r.Context(), id)
	resp := mutationJSON{ID: id}
	if !s.mutationResult(w, &resp, err) {
		return
	}
	s.broadcastWatchlists()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	s.memberCommand(w, r, func(ctx context.Context, id, asset string) (bool, error) {
		return true, s.store.AddMember(ctx, id, asset)
	})
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	s.memberCommand(w, r, func(ctx context.Context, id, asset string) (bool, error) {
		return false, s.store.RemoveMember(ctx, id, asset)
	})
}

func (s *Server) handleToggleMember(w http.ResponseWriter, r *http.Request) {
	s.memberCommand(w, r, s.store.ToggleMember)
}

// memberCommand runs a membership change against an existing watchlist and
// answers with the updated watchlist.
func (s *Server) memberCommand(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id, asset string) (bool, error)) {
	id, asset := r.PathValue("id"), r.PathValue("asset")
	if _, ok := s.store.Get(id); !ok {
		writeError(w, http.StatusNotFound, "watchlist not found")
		return
	}

	member, err := op(r.Context(), id, asset)
	resp := mutationJSON{ID: id, Member: &member}
	if !s.mutationResult(w, &resp, err) {
		return
	}
	if wl, ok := s.store.Get(id); ok {
		resp.Watchlist = &wl
	}
	s.broadcastWatchlists()
	writeJSON(w, http.StatusOK, resp)
}

// mutationResult folds a store error into resp. A persistence failure is
// reported as a warning; anything else ends the request.
func (s *Server) mutationResult(w http.ResponseWriter, resp *mutationJSON, err error) bool {
	if err == nil {
		return true
	}
	var perr *watchlist.PersistError
	if errors.As(err, &perr) {
		s.logger.Warn("watchlist change not persisted", "op", perr.Op, "err", perr.Err)
		resp.Warning = "change applied but not saved: " + perr.Err.Error()
		return true
	}
	writeError(w, http.StatusInternalServerError, err.Error())
	return false
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	q := listing.Query{
		Search:      r.URL.Query().Get("q"),
		WatchlistID: r.URL.Query().Get("watchlist"),
	}
	lists := s.store.List()

	res, err := listing.Build(s.registry, s.store, q)
	if errors.Is(err, listing.ErrUnknownWatchlist) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var md strings.Builder
	md.WriteString("# coinwatch\n\n## Watchlists\n\n")
	md.WriteString(render.Watchlists(lists))
	md.WriteString("\n")
	if res.Watchlist == nil {
		md.WriteString("## Markets\n\n")
	}
	md.WriteString(render.Watchlist(res, render.Options{
		Names:     render.WatchlistNames(lists),
		UpdatedAt: s.registry.LastUpdated(),
	}))

	page, err := render.Page("coinwatch", md.String())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
