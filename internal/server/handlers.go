package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/etchgrid/pkg/cache"
	"github.com/matzehuels/etchgrid/pkg/errors"
	"github.com/matzehuels/etchgrid/pkg/render"
	"github.com/matzehuels/etchgrid/pkg/sketch"
	"github.com/matzehuels/etchgrid/pkg/store"
)

// modeInfo describes one palette button.
type modeInfo struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// gridState is the full drawing as the page needs it.
type gridState struct {
	Size     int        `json:"size"`
	Mode     string     `json:"mode"`
	Modes    []modeInfo `json:"modes"`
	CellEdge float64    `json:"cellEdge"`
	Cells    []string   `json:"cells"`
	Prompt   string     `json:"sizePrompt"`
}

func stateOf(c *sketch.Controller) gridState {
	cells := c.Cells()
	hex := make([]string, len(cells))
	for i, v := range cells {
		hex[i] = v.Hex()
	}
	modes := make([]modeInfo, 0, len(sketch.Modes()))
	for _, m := range sketch.Modes() {
		modes = append(modes, modeInfo{Name: m.String(), Label: m.Label(), Selected: m == c.Mode()})
	}
	return gridState{
		Size:     c.Size(),
		Mode:     c.Mode().String(),
		Modes:    modes,
		CellEdge: c.CellEdge(),
		Cells:    hex,
		Prompt:   sketch.SizePrompt,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	var st gridState
	_ = sessionFrom(r).Do(func(c *sketch.Controller) error {
		st = stateOf(c)
		return nil
	})
	writeJSON(w, http.StatusOK, st)
}

type hoverRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type hoverResponse struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Color string `json:"color"`
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	var req hoverRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	var color sketch.RGB
	err := sessionFrom(r).Do(func(c *sketch.Controller) error {
		var err error
		color, err = c.Fill(req.Row, req.Col)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hoverResponse{Row: req.Row, Col: req.Col, Color: color.Hex()})
}

type modeRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := sketch.ParseMode(req.Mode)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mutate(w, r, func(c *sketch.Controller) error {
		return c.Dispatch(sketch.ModeEvent{Mode: m})
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(c *sketch.Controller) error {
		return c.Dispatch(sketch.ClearEvent{})
	})
}

type sizeRequest struct {
	Input string `json:"input"`
}

// handleSize makes one resize attempt. The page owns the prompt loop: a 400
// INVALID_SIZE answer means "ask again", and cancelling never reaches here.
func (s *Server) handleSize(w http.ResponseWriter, r *http.Request) {
	var req sizeRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.mutate(w, r, func(c *sketch.Controller) error {
		return c.Dispatch(sketch.ResizeEvent{Input: req.Input})
	})
}

// mutate applies fn to the session's controller and answers with the
// resulting state.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*sketch.Controller) error) {
	var st gridState
	err := sessionFrom(r).Do(func(c *sketch.Controller) error {
		if err := fn(c); err != nil {
			return err
		}
		st = stateOf(c)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := errors.ValidateFormat(format, render.FormatPNG, render.FormatSVG); err != nil {
		writeError(w, err)
		return
	}

	var snap sketch.Snapshot
	px := float64(sketch.DefaultContainerPx)
	_ = sessionFrom(r).Do(func(c *sketch.Controller) error {
		snap = c.Snapshot()
		px = c.Container()
		return nil
	})
	if v := r.URL.Query().Get("px"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 16 || n > 4096 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "px must be an integer in 16-4096"))
			return
		}
		px = float64(n)
	}
	grid := r.URL.Query().Get("grid") == "1"

	opts := []render.Option{render.WithContainer(px)}
	if grid {
		opts = append(opts, render.WithGridLines())
	}
	data, hit, err := cache.Artifact(r.Context(), s.cfg.Cache, s.keyer, snap,
		cache.ArtifactKeyOpts{Format: format, Container: px, GridLines: grid},
		func() ([]byte, error) { return render.Render(snap, format, opts...) })
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("Content-Disposition", `inline; filename="etchgrid.`+format+`"`)
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(data)
}

func (s *Server) handleListSketches(w http.ResponseWriter, r *http.Request) {
	names, err := s.cfg.Store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sketches": names})
}

func (s *Server) handleSaveSketch(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var snap sketch.Snapshot
	_ = sessionFrom(r).Do(func(c *sketch.Controller) error {
		snap = c.Snapshot()
		return nil
	})
	rec, err := store.FromSnapshot(name, snap)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.cfg.Store.Save(r.Context(), rec); err != nil {
		writeError(w, err)
		return
	}
	s.cfg.Logger.Info("sketch saved", "name", name, "size", rec.Size, "backend", s.cfg.Store.Backend())
	writeJSON(w, http.StatusCreated, map[string]any{"name": rec.Name, "id": rec.ID, "size": rec.Size})
}

func (s *Server) handleLoadSketch(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rec, err := s.cfg.Store.Load(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	snap, err := rec.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	s.mutate(w, r, func(c *sketch.Controller) error { return c.Restore(snap) })
}

func (s *Server) handleDeleteSketch(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// JSON helpers
// =============================================================================

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var body errorBody
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	body.Error.Code = string(code)
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, statusFor(err), body)
}

func statusFor(err error) int {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeNetwork), errors.Is(err, errors.ErrCodeTimeout):
		return http.StatusBadGateway
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
