package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/aozora/internal/parser"
	"github.com/dgallion1/aozora/internal/pipeline"
	"github.com/dgallion1/aozora/internal/render"
)

// handleConvert converts one uploaded file and returns the output directly.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	format, err := pipeline.ParseFormat(r.FormValue("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, fh, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	filename, data, status, err := s.readUpload(fh)
	if err != nil {
		jsonError(w, err.Error(), status)
		return
	}

	opts := s.orchestrator.ParseOptions()
	if v := r.FormValue("strip_header"); v != "" {
		strip, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, "strip_header must be a boolean", http.StatusBadRequest)
			return
		}
		opts.KeepHeader = !strip
	}
	p, err := parser.ForFile(filename, opts)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	res, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		s.log.Warn("convert failed", "filename", filename, "error", err, "request_id", middleware.GetReqID(r.Context()))
		jsonError(w, "parse failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	out := pipeline.Render(res, format, s.renderOptions(r))
	s.orchestrator.RecordLatency(time.Since(start))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Aozora-Warnings", strconv.Itoa(len(res.Warnings)))
	w.Write(out)
}

// renderOptions overlays the form fields title, css, gaiji_dir,
// midashi_anchors and metadata on the configured defaults.
func (s *Server) renderOptions(r *http.Request) render.Options {
	opts := s.orchestrator.RenderDefaults()
	if v := r.FormValue("title"); v != "" {
		opts.Title = v
	}
	var css []string
	for _, v := range r.MultipartForm.Value["css"] {
		if v = strings.TrimSpace(v); v != "" {
			css = append(css, v)
		}
	}
	if len(css) > 0 {
		opts.CSSFiles = css
	}
	if v := r.FormValue("gaiji_dir"); v != "" {
		opts.GaijiImageDir = v
	}
	if b, err := strconv.ParseBool(r.FormValue("midashi_anchors")); err == nil {
		opts.MidashiAnchors = b
	}
	if b, err := strconv.ParseBool(r.FormValue("metadata")); err == nil {
		opts.Metadata = b
	}
	return opts
}

// readUpload reads one multipart file, enforcing the supported extensions and
// the size limit. On failure it also returns the HTTP status to answer with.
func (s *Server) readUpload(fh *multipart.FileHeader) (string, []byte, int, error) {
	filename := sanitizeFilename(fh.Filename)
	if !parser.IsSupportedExtension(filename) {
		return filename, nil, http.StatusBadRequest, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}

	f, err := fh.Open()
	if err != nil {
		return filename, nil, http.StatusInternalServerError, fmt.Errorf("failed to open file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return filename, nil, http.StatusInternalServerError, fmt.Errorf("failed to read file")
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return filename, nil, http.StatusRequestEntityTooLarge, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}
	return filename, data, http.StatusOK, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
