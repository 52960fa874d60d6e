// Package engine orchestrates the analysis of a whole file collection:
// per-file structural analysis fanned out over a worker pool, followed
// by project-level aggregation, suggestion generation and guide
// building. The engine is stateless across runs; identical input yields
// an identical result.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"webready/internal/analyzer"
	"webready/internal/config"
	"webready/internal/toolkit"
)

// ErrEmptyInput is returned when a run is started with no files. This
// is the only input-level error: per-file parse and encoding failures
// degrade a single file and never abort the run.
var ErrEmptyInput = errors.New("no files to analyze")

// SourceFile is one (logical path, source text) input pair. The engine
// reads the content and never writes it back.
type SourceFile struct {
	Path    string
	Content []byte
}

// Engine drives analysis runs. Safe for concurrent use: runs share only
// the immutable registry and thresholds.
type Engine struct {
	reg     *toolkit.Registry
	th      config.Thresholds
	workers int
}

// New creates an Engine with the given registry, thresholds and worker
// count. Workers below 1 are clamped to 1.
func New(reg *toolkit.Registry, th config.Thresholds, workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{reg: reg, th: th, workers: workers}
}

// Run analyzes the file collection and returns the project result.
//
// Progress events go to sink (nil discards them) with non-decreasing
// percent values: 10 at start, proportional during per-file analysis,
// 90 before aggregation, 100 with the completed status. Cancellation is
// cooperative: when ctx is done the run stops before the next file and
// returns ctx's error together with a result covering the files already
// analyzed; callers must treat that as Failed, never as a partial
// Completed.
func (e *Engine) Run(ctx context.Context, projectName string, files []SourceFile, sink Sink) (*analyzer.ProjectResult, error) {
	if sink == nil {
		sink = func(Event) {}
	}
	if len(files) == 0 {
		sink(Event{Percent: 0, Status: StatusFailed, Message: "no files to analyze"})
		return nil, ErrEmptyInput
	}

	total := len(files)
	sink(Event{Percent: 10, Status: StatusRunning, Message: fmt.Sprintf("starting analysis of %d files", total)})

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		analyses  []analyzer.FileAnalysis
		processed int
	)
	sem := make(chan struct{}, e.workers)

	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
		case sem <- struct{}{}:
			wg.Add(1)
			go func(sf SourceFile) {
				defer wg.Done()
				defer func() { <-sem }()

				fa := analyzer.Analyze(sf.Path, sf.Content, e.reg, e.th)

				mu.Lock()
				analyses = append(analyses, fa)
				processed++
				pct := 10 + 80*float64(processed)/float64(total)
				sink(Event{
					Percent: pct,
					Status:  StatusRunning,
					Message: fmt.Sprintf("analyzed %s (%d/%d)", sf.Path, processed, total),
				})
				mu.Unlock()
			}(f)
		}
	}
	wg.Wait()

	// Completion order is nondeterministic under the pool; aggregation
	// iterates in stable path order so results are deterministic.
	sort.Slice(analyses, func(i, j int) bool { return analyses[i].Path < analyses[j].Path })

	if err := ctx.Err(); err != nil {
		result := e.aggregate(projectName, analyses)
		sink(Event{Percent: 10 + 80*float64(processed)/float64(total), Status: StatusFailed, Message: "analysis cancelled"})
		return result, err
	}

	sink(Event{Percent: 90, Status: StatusRunning, Message: "aggregating results"})
	result := e.aggregate(projectName, analyses)

	sink(Event{
		Percent: 100,
		Status:  StatusCompleted,
		Message: fmt.Sprintf("analysis complete: %.1f%% web-ready", result.Summary.WebReadyPercentage),
	})
	return result, nil
}

// aggregate builds the immutable project snapshot from per-file
// analyses. Error-marked files are counted as failed and excluded from
// every aggregate.
func (e *Engine) aggregate(projectName string, files []analyzer.FileAnalysis) *analyzer.ProjectResult {
	result := &analyzer.ProjectResult{
		ProjectName: projectName,
		TotalFiles:  len(files),
		Files:       files,
	}

	summary := analyzer.Summary{Toolkits: []string{}}
	toolkits := make(map[string]bool)
	for i := range files {
		fa := &files[i]
		if fa.Failed() {
			result.FailedFiles++
			continue
		}
		summary.TotalLOC += fa.LOC
		summary.TotalClasses += len(fa.Classes)
		summary.TotalFunctions += len(fa.Functions)
		for _, cls := range fa.Classes {
			summary.TotalFunctions += len(cls.Methods)
		}
		switch fa.Classification {
		case analyzer.ClassUI:
			summary.UIFiles++
		case analyzer.ClassLogic:
			summary.LogicFiles++
		case analyzer.ClassMixed:
			summary.MixedFiles++
		}
		for _, tk := range fa.Toolkits {
			if !toolkits[tk] {
				toolkits[tk] = true
				summary.Toolkits = append(summary.Toolkits, tk)
			}
		}
	}
	sort.Strings(summary.Toolkits)
	summary.WebReadyPercentage = analyzer.WebReadyPercentage(files)
	result.Summary = summary

	suggestions := analyzer.Suggest(files, e.th)
	result.ExtractionSuggestions = suggestions.Extractions
	result.RefactoringSuggestions = suggestions.Refactorings
	result.Guide = analyzer.BuildGuide(files, summary.WebReadyPercentage)
	return result
}
