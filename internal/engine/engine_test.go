package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"webready/internal/config"
	"webready/internal/toolkit"
)

func testEngine(workers int) *Engine {
	return New(toolkit.DefaultRegistry(), config.DefaultThresholds(), workers)
}

func sampleFiles() []SourceFile {
	return []SourceFile{
		{Path: "logic.py", Content: []byte(
			"def add(a, b):\n" +
				"    result = a + b\n" +
				"    return result\n")},
		{Path: "window.py", Content: []byte(
			"from PyQt5.QtWidgets import QWidget, QLabel\n" +
				"\n" +
				"class Panel(QWidget):\n" +
				"    def __init__(self):\n" +
				"        self.label = QLabel()\n" +
				"        self.label.setText(\"hi\")\n")},
	}
}

func TestRunEmptyInput(t *testing.T) {
	eng := testEngine(2)

	var events []Event
	_, err := eng.Run(context.Background(), "empty", nil, func(ev Event) {
		events = append(events, ev)
	})

	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("err = %v, want ErrEmptyInput", err)
	}
	if len(events) != 1 || events[0].Status != StatusFailed {
		t.Errorf("events = %+v, want a single failed event", events)
	}
}

func TestRunCompletes(t *testing.T) {
	eng := testEngine(2)

	var events []Event
	result, err := eng.Run(context.Background(), "demo", sampleFiles(), func(ev Event) {
		events = append(events, ev)
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.ProjectName != "demo" {
		t.Errorf("project name = %q", result.ProjectName)
	}
	if result.TotalFiles != 2 || result.FailedFiles != 0 {
		t.Errorf("totals = %d/%d, want 2/0", result.TotalFiles, result.FailedFiles)
	}
	if result.Summary.LogicFiles != 1 || result.Summary.UIFiles != 1 {
		t.Errorf("summary = %+v", result.Summary)
	}
	// Files come back in path order regardless of completion order.
	if result.Files[0].Path != "logic.py" || result.Files[1].Path != "window.py" {
		t.Errorf("file order = %s, %s", result.Files[0].Path, result.Files[1].Path)
	}

	if len(events) < 3 {
		t.Fatalf("got %d events, want at least start, per-file and final", len(events))
	}
	if events[0].Percent != 10 {
		t.Errorf("first event percent = %g, want 10", events[0].Percent)
	}
	last := events[len(events)-1]
	if last.Percent != 100 || last.Status != StatusCompleted {
		t.Errorf("last event = %+v", last)
	}
	for i := 1; i < len(events); i++ {
		if events[i].Percent < events[i-1].Percent {
			t.Fatalf("progress went backwards: %g after %g", events[i].Percent, events[i-1].Percent)
		}
	}
}

func TestRunPerFileFailureDoesNotAbort(t *testing.T) {
	files := append(sampleFiles(), SourceFile{
		Path:    "broken.py",
		Content: []byte("def broken(:\n    return (1, 2\n"),
	})
	eng := testEngine(4)

	result, err := eng.Run(context.Background(), "demo", files, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.TotalFiles != 3 || result.FailedFiles != 1 {
		t.Errorf("totals = %d/%d, want 3/1", result.TotalFiles, result.FailedFiles)
	}

	var broken *struct {
		classification string
		errMsg         string
	}
	for i := range result.Files {
		if result.Files[i].Path == "broken.py" {
			broken = &struct {
				classification string
				errMsg         string
			}{string(result.Files[i].Classification), result.Files[i].Error}
		}
	}
	if broken == nil {
		t.Fatal("broken.py missing from results")
	}
	if broken.classification != "unavailable" || broken.errMsg == "" {
		t.Errorf("broken.py = %+v", broken)
	}

	// Failed files stay out of every aggregate.
	if result.Summary.TotalLOC != 8 {
		t.Errorf("TotalLOC = %d, want 8", result.Summary.TotalLOC)
	}
}

func TestRunCancelled(t *testing.T) {
	eng := testEngine(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var events []Event
	result, err := eng.Run(ctx, "demo", sampleFiles(), func(ev Event) {
		events = append(events, ev)
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if result == nil {
		t.Fatal("cancellation must still return the partial result")
	}
	last := events[len(events)-1]
	if last.Status != StatusFailed {
		t.Errorf("last event status = %s, want failed", last.Status)
	}
	for i := 1; i < len(events); i++ {
		if events[i].Percent < events[i-1].Percent {
			t.Fatalf("progress went backwards: %g after %g", events[i].Percent, events[i-1].Percent)
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	eng := testEngine(4)

	first, err := eng.Run(context.Background(), "demo", sampleFiles(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	second, err := eng.Run(context.Background(), "demo", sampleFiles(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Error("identical input produced different results")
	}
}
