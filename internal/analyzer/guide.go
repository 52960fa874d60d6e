package analyzer

import (
	"fmt"
	"math"
	"sort"
)

// recommendedApproach is the one architectural pattern the guide always
// proposes: keep the logic layer behind an API and replace the UI layer.
const recommendedApproach = "API-based separation: keep the business logic behind an HTTP API and replace the desktop UI with a web frontend"

// WebReadyPercentage computes the fraction of project code reusable
// unchanged behind a service API: Logic-file LOC plus pure-function LOC
// inside Mixed and UI files, over total LOC of successfully analyzed
// files. Rounded to one decimal place. Near-pure (refactoring-
// candidate) LOC deliberately does not count; loosening that rule is a
// product decision, not an engine one.
func WebReadyPercentage(files []FileAnalysis) float64 {
	totalLOC := 0
	readyLOC := 0
	for i := range files {
		fa := &files[i]
		if fa.Failed() {
			continue
		}
		totalLOC += fa.LOC
		switch fa.Classification {
		case ClassLogic:
			readyLOC += fa.LOC
		case ClassMixed, ClassUI:
			readyLOC += fa.PureLOC()
		}
	}
	if totalLOC == 0 {
		return 0
	}
	return math.Round(float64(readyLOC)/float64(totalLOC)*1000) / 10
}

// Complexity buckets a project's web-readiness into the three-way
// effort estimate: the more that is already reusable, the cheaper the
// conversion.
func Complexity(webReadyPercent float64) Effort {
	switch {
	case webReadyPercent >= 80:
		return EffortLow
	case webReadyPercent >= 50:
		return EffortMedium
	default:
		return EffortHigh
	}
}

// BuildGuide assembles the conversion guide from classified files and
// the project's readiness score. Recommendation templates are fixed and
// parameterized only by aggregate counts, so the guide is deterministic
// for a fixed input.
func BuildGuide(files []FileAnalysis, webReadyPercent float64) WebConversionGuide {
	guide := WebConversionGuide{
		ReusableModules:       []string{},
		UIComponentsToReplace: []string{},
		RecommendedApproach:   recommendedApproach,
		EstimatedComplexity:   Complexity(webReadyPercent),
		Recommendations:       []string{},
	}

	var uiCount, logicCount, mixedCount int
	var pureFuncs, pureFuncFiles int
	for i := range files {
		fa := &files[i]
		if fa.Failed() {
			continue
		}
		switch fa.Classification {
		case ClassUI:
			uiCount++
			guide.UIComponentsToReplace = append(guide.UIComponentsToReplace, fa.Path)
		case ClassLogic:
			logicCount++
			guide.ReusableModules = append(guide.ReusableModules, fa.Path)
		case ClassMixed:
			mixedCount++
		}
		filePure := 0
		for _, fn := range fa.allFunctions() {
			if fn.IsPure {
				filePure++
			}
		}
		if filePure > 0 {
			pureFuncs += filePure
			pureFuncFiles++
		}
	}
	sort.Strings(guide.ReusableModules)
	sort.Strings(guide.UIComponentsToReplace)

	guide.Summary = fmt.Sprintf(
		"Project has %d web-ready logic file(s) and %d file(s) requiring UI conversion; %.1f%% of the code can be reused unchanged.",
		logicCount, uiCount+mixedCount, webReadyPercent)

	if pureFuncs > 0 {
		guide.Recommendations = append(guide.Recommendations, fmt.Sprintf(
			"%d pure function(s) in %d file(s) are web-ready and can be reused as-is.",
			pureFuncs, pureFuncFiles))
	}
	if mixedCount > 0 {
		guide.Recommendations = append(guide.Recommendations, fmt.Sprintf(
			"%d mixed file(s) need refactoring to separate UI from logic.",
			mixedCount))
	}
	if uiCount > 0 {
		guide.Recommendations = append(guide.Recommendations, fmt.Sprintf(
			"%d UI file(s) should be replaced with web components behind the API.",
			uiCount))
	}
	if toolkits := distinctToolkits(files); len(toolkits) > 0 {
		guide.Recommendations = append(guide.Recommendations, fmt.Sprintf(
			"Main UI toolkit(s): %s; plan a web frontend as the replacement.",
			joinSorted(toolkits)))
	}

	return guide
}

// distinctToolkits unions the per-file toolkit sets.
func distinctToolkits(files []FileAnalysis) []string {
	seen := make(map[string]bool)
	var out []string
	for i := range files {
		for _, tk := range files[i].Toolkits {
			if !seen[tk] {
				seen[tk] = true
				out = append(out, tk)
			}
		}
	}
	sort.Strings(out)
	return out
}

func joinSorted(names []string) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	out := ""
	for i, n := range sorted {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
