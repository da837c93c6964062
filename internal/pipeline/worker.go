package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/aozora/internal/parser"
	"github.com/dgallion1/aozora/internal/render"
)

// Worker converts a single file job.
type Worker struct {
	log      *slog.Logger
	parse    parser.Options
	defaults render.Options
	stats    *Stats
}

func NewWorker(log *slog.Logger, parse parser.Options, defaults render.Options, stats *Stats) *Worker {
	return &Worker{
		log:      log,
		parse:    parse,
		defaults: defaults,
		stats:    stats,
	}
}

// Process runs the full conversion pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	start := time.Now()

	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "queued")
		return
	}

	// Phase 1: Decode
	job.SetStatus(StatusDecoding, "decoding")
	data := job.FileData()
	job.SetContentHash(ContentHashHex(data))
	p, err := parser.ForFile(job.Filename, w.parse)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "decoding")
		return
	}

	// Phase 2: Parse
	job.SetStatus(StatusParsing, "parsing")
	res, err := p.Parse(bytes.NewReader(data), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if len(res.Warnings) > 0 {
		log.Info("markup warnings", "count", len(res.Warnings))
	}

	// Phase 3: Render
	job.SetStatus(StatusRendering, "rendering")
	out := Render(res, job.Format, w.options(job))
	job.SetResult(out, res.Warnings)

	elapsed := time.Since(start)
	if w.stats != nil {
		w.stats.Record(elapsed.Milliseconds())
	}
	log.Info("conversion complete", "encoding", res.Encoding, "bytes", len(out), "warnings", len(res.Warnings), "duration_ms", elapsed.Milliseconds())
	job.SetStatus(StatusCompleted, "done")
}

// options merges per-job render settings over the worker defaults. Switches
// are taken from the job as is, since jobs start from RenderDefaults.
func (w *Worker) options(job *Job) render.Options {
	opts := w.defaults
	job.mu.Lock()
	defer job.mu.Unlock()
	if job.render.Title != "" {
		opts.Title = job.render.Title
	}
	if len(job.render.CSSFiles) > 0 {
		opts.CSSFiles = job.render.CSSFiles
	}
	if job.render.GaijiImageDir != "" {
		opts.GaijiImageDir = job.render.GaijiImageDir
	}
	opts.MidashiAnchors = job.render.MidashiAnchors
	opts.Metadata = job.render.Metadata
	return opts
}

// Render renders a parse result in the requested format.
func Render(res parser.Result, format Format, opts render.Options) []byte {
	if format == FormatPlain {
		return []byte(render.Plain(res.Document))
	}
	return []byte(render.HTML(res.Document, opts))
}
