// Package pipeline runs the discover, inspect, emit and convert stages
// over a source tree.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fulmenhq/codeutf8/pkg/charset"
	"github.com/fulmenhq/codeutf8/pkg/config"
	"github.com/fulmenhq/codeutf8/pkg/console"
	"github.com/fulmenhq/codeutf8/pkg/convert"
	"github.com/fulmenhq/codeutf8/pkg/logger"
	"github.com/fulmenhq/codeutf8/pkg/manifest"
	"github.com/fulmenhq/codeutf8/pkg/pathfinder"
	"github.com/fulmenhq/codeutf8/pkg/work"
)

// Deps are the collaborators a run needs. Nil fields get defaults built
// from the config.
type Deps struct {
	Detector  charset.Detector
	Converter *convert.Converter
	Stdout    io.Writer
}

// Report summarizes a run.
type Report struct {
	Root       string                `json:"root"`
	Manifest   manifest.Manifest     `json:"manifest"`
	Inspection work.ExecutionSummary `json:"inspection"`
	Conversion work.ExecutionSummary `json:"conversion"`
	Outcomes   []convert.Outcome     `json:"outcomes,omitempty"`
}

// Run executes the full pipeline: discovery, inspection, manifest emission
// and in-place conversion. Per-file failures are logged and counted but do
// not make Run fail.
func Run(ctx context.Context, root string, cfg *config.Config, deps Deps) (*Report, error) {
	report, err := BuildManifest(ctx, root, cfg, deps)
	if err != nil {
		return nil, err
	}

	deps = withDefaults(cfg, deps)
	logger.Info("Converting files...")
	start := time.Now()
	results := ConvertAll(ctx, root, report.Manifest.Files, deps.Converter, cfg.Workers)
	report.Conversion = work.Summarize(results, cfg.Workers, time.Since(start))
	for _, r := range results {
		if r.OK() {
			report.Outcomes = append(report.Outcomes, r.Value)
		}
	}
	logger.Debug("Conversion finished", logger.String("summary", report.Conversion.String()))
	logger.Info("All files processed.")
	return report, nil
}

// BuildManifest runs discovery and inspection, then writes the manifest to
// deps.Stdout in the configured format.
func BuildManifest(ctx context.Context, root string, cfg *config.Config, deps Deps) (*Report, error) {
	deps = withDefaults(cfg, deps)
	out := console.NewSyncWriter(deps.Stdout)

	report, err := Inspect(ctx, root, cfg, deps.Detector)
	if err != nil {
		return nil, err
	}

	logger.Info(fmt.Sprintf("Outputting %s...", strings.ToUpper(cfg.Format)))
	if err := manifest.Encode(out, report.Manifest, cfg.Format); err != nil {
		return nil, err
	}
	return report, nil
}

// Inspect discovers files under root and records each one's size and
// encoding. Files that cannot be read are logged and left out.
func Inspect(ctx context.Context, root string, cfg *config.Config, detector charset.Detector) (*Report, error) {
	if detector == nil {
		detector = charset.NewDetector(cfg.FallbackEncoding, cfg.MinConfidence)
	}

	logger.Info("Searching files...")
	finder := pathfinder.NewFinder(cfg.Extensions, cfg.RespectIgnore)
	matches, err := finder.Find(ctx, root)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovery finished", logger.Int("files", len(matches)), logger.String("root", root))

	start := time.Now()
	results := work.Run(ctx, progressConfig("inspect", cfg.Workers, len(matches)), matches,
		func(_ context.Context, m pathfinder.Match) (manifest.FileRecord, error) {
			size, label, err := charset.DetectFile(detector, m.Path)
			if err != nil {
				return manifest.FileRecord{}, err
			}
			return manifest.FileRecord{Path: m.Rel, Size: size, Encoding: label, Category: m.Category}, nil
		})

	records := make([]manifest.FileRecord, 0, len(results))
	for _, r := range results {
		if !r.OK() {
			logger.Error(fmt.Sprintf("Error processing file info %s: %v", matches[r.Index].Path, r.Err))
			continue
		}
		logger.Trace("Inspected file",
			logger.String("path", r.Value.Path),
			logger.Int64("size", r.Value.Size),
			logger.String("encoding", r.Value.Encoding))
		records = append(records, r.Value)
	}

	return &Report{
		Root:       root,
		Manifest:   manifest.Build(records, cfg.Extensions),
		Inspection: work.Summarize(results, cfg.Workers, time.Since(start)),
	}, nil
}

// ConvertAll converts every record concurrently. Each result sits at the
// index of its record.
func ConvertAll(ctx context.Context, root string, files []manifest.FileRecord, conv *convert.Converter, workers int) []work.Result[convert.Outcome] {
	return work.Run(ctx, progressConfig("convert", workers, len(files)), files,
		func(ctx context.Context, rec manifest.FileRecord) (convert.Outcome, error) {
			path := filepath.Join(root, filepath.FromSlash(rec.Path))
			outcome, err := conv.Convert(ctx, root, rec)
			if err != nil {
				logger.Error(fmt.Sprintf("Error converting %s: %v", path, err))
				return outcome, err
			}
			logger.Info(fmt.Sprintf("Processing: %s", path))
			logger.Debug("Converted file",
				logger.String("path", rec.Path),
				logger.Bool("changed", outcome.Changed),
				logger.Int("block_comments", outcome.Stats.BlockComments),
				logger.Int("line_comments", outcome.Stats.LineComments))
			return outcome, nil
		})
}

// progressConfig reports each finished task at trace level.
func progressConfig(stage string, workers, total int) work.DispatcherConfig {
	var done atomic.Int64
	return work.DispatcherConfig{
		MaxWorkers: workers,
		ProgressCallback: func(_ int, err error) {
			logger.Trace("Progress",
				logger.String("stage", stage),
				logger.Int64("done", done.Add(1)),
				logger.Int("total", total),
				logger.Bool("ok", err == nil))
		},
	}
}

func withDefaults(cfg *config.Config, deps Deps) Deps {
	if deps.Detector == nil {
		deps.Detector = charset.NewDetector(cfg.FallbackEncoding, cfg.MinConfidence)
	}
	if deps.Converter == nil {
		deps.Converter = convert.New(cfg.NoOp)
	}
	if deps.Stdout == nil {
		deps.Stdout = io.Discard
	}
	return deps
}
