package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"webready/internal/config"
)

// Suggestions holds the two suggestion lists for a project. A function
// appears in at most one list: the extraction pass takes priority, and
// a pure function is never also proposed for refactoring.
type Suggestions struct {
	Extractions  []ExtractionSuggestion
	Refactorings []RefactoringSuggestion
}

// Suggest runs the extraction and refactoring passes over every
// function of every successfully analyzed file. Files arrive in stable
// path order and functions in line order, so output ordering is
// deterministic for a fixed input.
func Suggest(files []FileAnalysis, th config.Thresholds) Suggestions {
	var s Suggestions
	for i := range files {
		fa := &files[i]
		if fa.Failed() {
			continue
		}
		fns := fa.allFunctions()
		sort.Slice(fns, func(i, j int) bool { return fns[i].StartLine < fns[j].StartLine })
		for _, fn := range fns {
			switch {
			case fn.IsPure && fn.Span() >= th.ExtractionMinLines:
				s.Extractions = append(s.Extractions, ExtractionSuggestion{
					File:      fa.Path,
					Function:  fn.Name,
					StartLine: fn.StartLine,
					EndLine:   fn.EndLine,
					Reason:    "pure function with no UI dependencies",
					Effort:    EffortLow,
					WebReady:  true,
				})
			case !fn.IsPure &&
				len(fn.UIUsage) <= th.RefactorMaxUICalls &&
				fn.Span() >= th.RefactorMinLines:
				s.Refactorings = append(s.Refactorings, RefactoringSuggestion{
					File:      fa.Path,
					Function:  fn.Name,
					StartLine: fn.StartLine,
					EndLine:   fn.EndLine,
					Reason:    refactorReason(fn),
					Effort:    EffortMedium,
					WebReady:  false,
				})
			}
		}
	}
	return s
}

func refactorReason(fn FunctionInfo) string {
	if len(fn.UIUsage) > 0 {
		return fmt.Sprintf("minimal UI usage: %s", strings.Join(fn.UIUsage, ", "))
	}
	return "accesses state outside its local scope"
}
