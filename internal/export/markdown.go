package export

import (
	"fmt"
	"strings"

	"webready/internal/analyzer"
)

// Markdown renders the result as a human-readable report.
func Markdown(res *analyzer.ProjectResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Web Readiness Report: %s\n\n", res.ProjectName)
	fmt.Fprintf(&b, "%s\n\n", res.Guide.Summary)

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Web-ready code | %.1f%% |\n", res.Summary.WebReadyPercentage)
	fmt.Fprintf(&b, "| Estimated complexity | %s |\n", res.Guide.EstimatedComplexity)
	fmt.Fprintf(&b, "| Files analyzed | %d |\n", res.TotalFiles-res.FailedFiles)
	if res.FailedFiles > 0 {
		fmt.Fprintf(&b, "| Files skipped | %d |\n", res.FailedFiles)
	}
	fmt.Fprintf(&b, "| Total lines of code | %d |\n", res.Summary.TotalLOC)
	fmt.Fprintf(&b, "| UI / logic / mixed files | %d / %d / %d |\n",
		res.Summary.UIFiles, res.Summary.LogicFiles, res.Summary.MixedFiles)
	fmt.Fprintf(&b, "| Classes / functions | %d / %d |\n",
		res.Summary.TotalClasses, res.Summary.TotalFunctions)
	if len(res.Summary.Toolkits) > 0 {
		fmt.Fprintf(&b, "| UI toolkits | %s |\n", strings.Join(res.Summary.Toolkits, ", "))
	}
	b.WriteString("\n")

	if len(res.Guide.ReusableModules) > 0 {
		b.WriteString("## Reusable Modules\n\n")
		for _, m := range res.Guide.ReusableModules {
			fmt.Fprintf(&b, "- `%s`\n", m)
		}
		b.WriteString("\n")
	}

	if len(res.Guide.UIComponentsToReplace) > 0 {
		b.WriteString("## UI Components to Replace\n\n")
		for _, m := range res.Guide.UIComponentsToReplace {
			fmt.Fprintf(&b, "- `%s`\n", m)
		}
		b.WriteString("\n")
	}

	if len(res.ExtractionSuggestions) > 0 {
		b.WriteString("## Extraction Candidates\n\n")
		b.WriteString("Functions that can move into a reusable module as-is.\n\n")
		b.WriteString("| Function | File | Lines | Effort |\n|---|---|---|---|\n")
		for _, s := range res.ExtractionSuggestions {
			fmt.Fprintf(&b, "| `%s` | `%s` | %d–%d | %s |\n",
				s.Function, s.File, s.StartLine, s.EndLine, s.Effort)
		}
		b.WriteString("\n")
	}

	if len(res.RefactoringSuggestions) > 0 {
		b.WriteString("## Refactoring Candidates\n\n")
		b.WriteString("Functions worth extracting once their UI calls are removed.\n\n")
		b.WriteString("| Function | File | Lines | Effort | Notes |\n|---|---|---|---|---|\n")
		for _, s := range res.RefactoringSuggestions {
			fmt.Fprintf(&b, "| `%s` | `%s` | %d–%d | %s | %s |\n",
				s.Function, s.File, s.StartLine, s.EndLine, s.Effort, s.Reason)
		}
		b.WriteString("\n")
	}

	b.WriteString("## File Breakdown\n\n")
	b.WriteString("| File | Classification | LOC | UI % |\n|---|---|---|---|\n")
	for _, f := range res.Files {
		if f.Failed() {
			fmt.Fprintf(&b, "| `%s` | %s | — | — |\n", f.Path, f.Classification)
			continue
		}
		fmt.Fprintf(&b, "| `%s` | %s | %d | %.1f%% |\n",
			f.Path, f.Classification, f.LOC, f.UIPercentage)
	}
	b.WriteString("\n")

	b.WriteString("## Recommended Approach\n\n")
	fmt.Fprintf(&b, "%s\n", res.Guide.RecommendedApproach)
	if len(res.Guide.Recommendations) > 0 {
		b.WriteString("\n")
		for _, rec := range res.Guide.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
	}

	return b.String()
}
