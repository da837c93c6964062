package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/aozora/internal/config"
	"github.com/dgallion1/aozora/internal/pipeline"
)

const (
	testKey  = "secret-key"
	rashomon = "羅生門\n芥川龍之介\n\n｜下人《げにん》が雨やみを待っていた。\n\n底本：「芥川龍之介全集」\n"
)

func newTestServer(t *testing.T, start bool) *Server {
	t.Helper()
	cfg := config.Config{
		APIKey:         testKey,
		WorkerCount:    1,
		MaxQueueSize:   4,
		MaxUploadBytes: 1 << 20,
		JobTTL:         time.Hour,
		RubyPolicy:     "kanji-katakana",
		StripHeader:    true,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch, err := pipeline.NewOrchestrator(cfg, log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start {
		orch.Start(context.Background())
		t.Cleanup(orch.Stop)
	}
	return NewServer(orch, log, cfg)
}

type upload struct {
	field, name, body string
}

func multipartRequest(t *testing.T, path string, fields map[string][]string, files ...upload) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			mw.WriteField(k, v)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		fw.Write([]byte(f.body))
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testKey)
	return req
}

func authed(method, path string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+testKey)
	return req
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, false)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestAuth(t *testing.T) {
	s := newTestServer(t, false)
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + testKey, http.StatusUnauthorized},
		{"wrong key", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + testKey, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			s.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestConvert_Plain(t *testing.T) {
	s := newTestServer(t, false)
	req := multipartRequest(t, "/api/convert",
		map[string][]string{"format": {"plain"}},
		upload{"file", "rashomon.txt", rashomon + "※［＃「謎の字」］\n"})
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Body.String(); got != "下人が雨やみを待っていた。" {
		t.Errorf("expected body text, got %q", got)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("unexpected content type %q", ct)
	}
	if w.Header().Get("X-Aozora-Warnings") != "0" {
		t.Errorf("expected no warnings, got %q", w.Header().Get("X-Aozora-Warnings"))
	}
}

func TestConvert_HTMLFields(t *testing.T) {
	s := newTestServer(t, false)
	req := multipartRequest(t, "/api/convert",
		map[string][]string{
			"title":        {"Custom"},
			"css":          {"a.css", "b.css"},
			"strip_header": {"false"},
		},
		upload{"file", "rashomon.txt", rashomon})
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	for _, want := range []string{"<title>Custom</title>", `href="a.css"`, `href="b.css"`, "芥川龍之介", "<rb>下人</rb>"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestConvert_MetadataField(t *testing.T) {
	s := newTestServer(t, false)
	for _, tt := range []struct {
		fields map[string][]string
		want   bool
	}{
		{nil, false},
		{map[string][]string{"metadata": {"true"}}, true},
	} {
		req := multipartRequest(t, "/api/convert", tt.fields, upload{"file", "rashomon.txt", rashomon})
		w := httptest.NewRecorder()
		s.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if got := strings.Contains(w.Body.String(), `<div class="metadata">`); got != tt.want {
			t.Errorf("fields %v: expected metadata block %v, got %v", tt.fields, tt.want, got)
		}
	}
}

func TestConvert_Errors(t *testing.T) {
	s := newTestServer(t, false)
	tests := []struct {
		name   string
		fields map[string][]string
		file   upload
		want   int
	}{
		{"bad format", map[string][]string{"format": {"epub"}}, upload{"file", "a.txt", "x"}, http.StatusBadRequest},
		{"bad extension", nil, upload{"file", "a.pdf", "x"}, http.StatusBadRequest},
		{"missing file", nil, upload{"other", "a.txt", "x"}, http.StatusBadRequest},
		{"bad strip flag", map[string][]string{"strip_header": {"maybe"}}, upload{"file", "a.txt", "x"}, http.StatusBadRequest},
		{"bad zip", nil, upload{"file", "a.zip", "not a zip"}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.ServeHTTP(w, multipartRequest(t, "/api/convert", tt.fields, tt.file))
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestJobs_Lifecycle(t *testing.T) {
	s := newTestServer(t, true)

	req := multipartRequest(t, "/api/jobs",
		map[string][]string{"format": {"plain"}},
		upload{"files", "rashomon.txt", rashomon},
		upload{"files", "notes.pdf", "x"})
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}

	var submitted struct {
		Jobs []struct {
			Filename string `json:"filename"`
			JobID    string `json:"job_id"`
			Error    string `json:"error"`
		} `json:"jobs"`
	}
	if err := json.NewDecoder(w.Body).Decode(&submitted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(submitted.Jobs) != 2 {
		t.Fatalf("expected 2 results, got %d", len(submitted.Jobs))
	}
	if submitted.Jobs[1].Error == "" {
		t.Error("expected inline error for unsupported file")
	}
	id := submitted.Jobs[0].JobID

	deadline := time.Now().Add(5 * time.Second)
	for {
		w = httptest.NewRecorder()
		s.ServeHTTP(w, authed(http.MethodGet, "/api/jobs/"+id))
		var status struct {
			Status pipeline.JobStatus `json:"status"`
		}
		json.NewDecoder(w.Body).Decode(&status)
		if status.Status.Done() {
			if status.Status != pipeline.StatusCompleted {
				t.Fatalf("expected completed, got %q", status.Status)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for job")
		}
		time.Sleep(5 * time.Millisecond)
	}

	w = httptest.NewRecorder()
	s.ServeHTTP(w, authed(http.MethodGet, "/api/jobs/"+id+"/result"))
	if w.Code != http.StatusOK || w.Body.String() != "下人が雨やみを待っていた。" {
		t.Errorf("unexpected result %d %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	s.ServeHTTP(w, authed(http.MethodGet, "/api/jobs"))
	if !strings.Contains(w.Body.String(), id) {
		t.Errorf("expected job list to contain %s", id)
	}

	w = httptest.NewRecorder()
	s.ServeHTTP(w, authed(http.MethodDelete, "/api/jobs/"+id))
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	w = httptest.NewRecorder()
	s.ServeHTTP(w, authed(http.MethodGet, "/api/jobs/"+id))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}

func TestJobResult_NotReady(t *testing.T) {
	// Workers are not started, so the job stays queued.
	s := newTestServer(t, false)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, multipartRequest(t, "/api/jobs", nil, upload{"files", "a.txt", "本文"}))

	var submitted struct {
		Jobs []struct {
			JobID string `json:"job_id"`
		} `json:"jobs"`
	}
	json.NewDecoder(w.Body).Decode(&submitted)
	if len(submitted.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(submitted.Jobs))
	}

	w = httptest.NewRecorder()
	s.ServeHTTP(w, authed(http.MethodGet, "/api/jobs/"+submitted.Jobs[0].JobID+"/result"))
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	w = httptest.NewRecorder()
	s.ServeHTTP(w, authed(http.MethodDelete, "/api/jobs/missing"))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestStats(t *testing.T) {
	s := newTestServer(t, false)
	s.ServeHTTP(httptest.NewRecorder(), multipartRequest(t, "/api/convert", nil, upload{"file", "a.txt", "本文"}))

	w := httptest.NewRecorder()
	s.ServeHTTP(w, authed(http.MethodGet, "/api/stats"))
	var resp struct {
		Conversions pipeline.StatsSnapshot `json:"conversions"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Conversions.Count != 1 {
		t.Errorf("expected 1 conversion, got %d", resp.Conversions.Count)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct{ in, want string }{
		{"rashomon.txt", "rashomon.txt"},
		{"../../etc/passwd.txt", "passwd.txt"},
		{`C:\books\a.zip`, "a.zip"},
		{"", "unnamed"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
