package export

import (
	"encoding/json"
	"strings"
	"testing"

	"webready/internal/analyzer"
)

func sampleResult() *analyzer.ProjectResult {
	return &analyzer.ProjectResult{
		ProjectName: "inventory-tool",
		TotalFiles:  3,
		FailedFiles: 1,
		Summary: analyzer.Summary{
			TotalLOC:           120,
			UIFiles:            1,
			LogicFiles:         1,
			Toolkits:           []string{"PyQt5"},
			WebReadyPercentage: 62.5,
		},
		Files: []analyzer.FileAnalysis{
			{Path: "processing.py", LOC: 80, UIPercentage: 0, Classification: analyzer.ClassLogic},
			{Path: "window.py", LOC: 40, UIPercentage: 95.0, Classification: analyzer.ClassUI},
			{Path: "broken.py", Classification: analyzer.ClassUnavailable, Error: "parse error: broken.py:1: malformed function definition"},
		},
		ExtractionSuggestions: []analyzer.ExtractionSuggestion{
			{File: "processing.py", Function: "summarize", StartLine: 10, EndLine: 25,
				Reason: "pure function with no UI dependencies", Effort: analyzer.EffortLow, WebReady: true},
		},
		RefactoringSuggestions: []analyzer.RefactoringSuggestion{
			{File: "window.py", Function: "run_summary", StartLine: 50, EndLine: 70,
				Reason: "minimal UI usage: QMessageBox.warning", Effort: analyzer.EffortMedium},
		},
		Guide: analyzer.WebConversionGuide{
			Summary:               "Project has 1 web-ready logic file(s) and 1 file(s) requiring UI conversion; 62.5% of the code can be reused unchanged.",
			ReusableModules:       []string{"processing.py"},
			UIComponentsToReplace: []string{"window.py"},
			RecommendedApproach:   "API-based separation",
			EstimatedComplexity:   analyzer.EffortMedium,
			Recommendations:       []string{"1 UI file(s) should be replaced with web components behind the API."},
		},
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"json", FormatJSON, true},
		{"", FormatJSON, true},
		{"JSON", FormatJSON, true},
		{"markdown", FormatMarkdown, true},
		{"md", FormatMarkdown, true},
		{"html", FormatHTML, true},
		{"pdf", "", false},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("ParseFormat(%q) = %v, %v", tc.in, got, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("ParseFormat(%q) should fail", tc.in)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	out, contentType, err := Render(sampleResult(), "json")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if contentType != "application/json" {
		t.Errorf("content type = %q", contentType)
	}

	var decoded analyzer.ProjectResult
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.ProjectName != "inventory-tool" {
		t.Errorf("round-trip project name = %q", decoded.ProjectName)
	}
}

func TestMarkdownReport(t *testing.T) {
	md := Markdown(sampleResult())

	for _, want := range []string{
		"# Web Readiness Report: inventory-tool",
		"62.5%",
		"`processing.py`",
		"`window.py`",
		"`summarize`",
		"`run_summary`",
		"minimal UI usage: QMessageBox.warning",
		"PyQt5",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	// Failed files appear in the breakdown without metrics.
	if !strings.Contains(md, "`broken.py` | unavailable") {
		t.Error("markdown missing the failed file row")
	}
}

func TestRenderHTML(t *testing.T) {
	out, contentType, err := Render(sampleResult(), "html")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(contentType, "text/html") {
		t.Errorf("content type = %q", contentType)
	}

	html := string(out)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"inventory-tool",
		"<table>",
		"Web Readiness Report",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}
