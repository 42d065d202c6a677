// Package server provides the mockup studio HTTP API: template
// selection, design/custom-template uploads, manipulation-state
// updates, preview rendering, and composite export. All state is
// transient and memory-resident; nothing is persisted server-side.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/craftpress/mockup/pkg/catalog"
	"github.com/craftpress/mockup/pkg/compositor"
	"github.com/craftpress/mockup/pkg/studio"
)

type srv struct {
	session *studio.Session
	cfg     Config
}

// RunServe starts the API server. Flags override the environment
// configuration.
func RunServe(args []string) error {
	cfg := LoadConfig()
	for i, a := range args {
		if (a == "--port" || a == "-p") && i+1 < len(args) {
			cfg.Port = args[i+1]
		}
	}

	s := &srv{
		session: studio.NewSession(studio.Options{
			AssetRoot:        cfg.AssetDir,
			MaxDesignBytes:   cfg.MaxDesignMB << 20,
			MaxTemplateBytes: cfg.MaxTemplateMB << 20,
		}),
		cfg: cfg,
	}
	defer s.session.Close()

	addr := ":" + cfg.Port
	log.Printf("mockup studio API → http://localhost%s", addr)
	return http.ListenAndServe(addr, s.routes())
}

func (s *srv) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/templates", s.handleTemplates)
	mux.HandleFunc("POST /api/templates/select", s.handleSelectTemplate)
	mux.HandleFunc("POST /api/templates/custom", s.handleUploadTemplate)
	mux.HandleFunc("DELETE /api/templates/custom", s.handleRemoveTemplate)
	mux.HandleFunc("POST /api/design", s.handleUploadDesign)
	mux.HandleFunc("DELETE /api/design", s.handleRemoveDesign)
	mux.HandleFunc("POST /api/state", s.handleState)
	mux.HandleFunc("POST /api/method", s.handleMethod)
	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("GET /api/assets/{id}", s.handleGetAsset)
	mux.HandleFunc("DELETE /api/assets/{id}", s.handleDeleteAsset)

	return mux
}

// ── Templates ──

type templateInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Custom        bool   `json:"custom"`
	Populated     bool   `json:"populated"` // custom slot has an upload
	Active        bool   `json:"active"`
	DefaultMethod string `json:"defaultMethod"`
}

func (s *srv) handleTemplates(w http.ResponseWriter, r *http.Request) {
	active := s.session.ActiveTemplate().ID
	var out []templateInfo
	for _, tpl := range s.session.Templates() {
		out = append(out, templateInfo{
			ID:            tpl.ID,
			Name:          tpl.Name,
			Custom:        tpl.Custom,
			Populated:     tpl.ImagePath != "",
			Active:        tpl.ID == active,
			DefaultMethod: string(tpl.DefaultMethod),
		})
	}
	writeJSON(w, out)
}

func (s *srv) handleSelectTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "decode request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.session.SelectTemplate(req.ID); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "selected", "id": req.ID})
}

func (s *srv) handleUploadTemplate(w http.ResponseWriter, r *http.Request) {
	data, err := s.readUpload(r, int64(s.cfg.MaxTemplateMB)<<20)
	if err != nil {
		s.writeError(w, err)
		return
	}
	uri, err := s.session.UploadCustomTemplate(data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"uri": uri, "url": assetURL(uri)})
}

func (s *srv) handleRemoveTemplate(w http.ResponseWriter, r *http.Request) {
	s.session.RemoveCustomTemplate()
	writeJSON(w, map[string]string{
		"status": "removed",
		"active": s.session.ActiveTemplate().ID,
	})
}

// ── Design ──

func (s *srv) handleUploadDesign(w http.ResponseWriter, r *http.Request) {
	data, err := s.readUpload(r, int64(s.cfg.MaxDesignMB)<<20)
	if err != nil {
		s.writeError(w, err)
		return
	}
	uri, err := s.session.SetDesign(data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"uri":   uri,
		"url":   assetURL(uri),
		"state": s.session.State(),
	})
}

func (s *srv) handleRemoveDesign(w http.ResponseWriter, r *http.Request) {
	s.session.RemoveDesign()
	writeJSON(w, map[string]string{"status": "removed"})
}

// ── State and method ──

func (s *srv) handleState(w http.ResponseWriter, r *http.Request) {
	var patch studio.StatePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "decode request: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.session.UpdateState(patch)
	writeJSON(w, s.session.State())
}

func (s *srv) handleMethod(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "decode request: "+err.Error(), http.StatusBadRequest)
		return
	}
	m, err := catalog.ParseMethod(req.Method)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err := s.session.SetMethod(m); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "set", "method": req.Method})
}

// ── Render and export ──

func (s *srv) handleRender(w http.ResponseWriter, r *http.Request) {
	data, err := s.session.Render(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}

func (s *srv) handleExport(w http.ResponseWriter, r *http.Request) {
	data, ok := s.session.Composite()
	if !ok {
		s.writeError(w, &studio.ExportError{Reason: "no rendered composite available"})
		return
	}
	name := s.session.ExportFileName()
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.Write(data)
}

// ── Assets ──

func (s *srv) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	uri := studio.HandleScheme + r.PathValue("id")
	data, ok := s.session.Asset(uri)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Write(data)
}

func (s *srv) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	uri := studio.HandleScheme + r.PathValue("id")
	if !s.session.ReleaseAsset(uri) {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]string{"status": "released"})
}

// ── Helpers ──

// readUpload extracts the uploaded file from a multipart form, bounded
// a little above the configured ceiling so the session can produce the
// user-facing validation error for oversized files.
func (s *srv) readUpload(r *http.Request, limit int64) ([]byte, error) {
	if err := r.ParseMultipartForm(limit + 1<<20); err != nil {
		return nil, &studio.ValidationError{Field: "upload", Reason: "invalid multipart form"}
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, &studio.ValidationError{Field: "upload", Reason: "no file uploaded"}
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

// writeError maps the error taxonomy to HTTP statuses: validation 422,
// unknown template 404, render failure 502 (the client keeps its last
// good preview), export-without-composite 409.
func (s *srv) writeError(w http.ResponseWriter, err error) {
	var (
		ve *studio.ValidationError
		re *compositor.RenderError
		ee *studio.ExportError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &ve):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, catalog.ErrTemplateNotFound):
		status = http.StatusNotFound
	case errors.As(err, &re):
		status = http.StatusBadGateway
	case errors.As(err, &ee):
		status = http.StatusConflict
	}
	log.Printf("request failed (%d): %v", status, err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func assetURL(uri string) string {
	return "/api/assets/" + strings.TrimPrefix(uri, studio.HandleScheme)
}
