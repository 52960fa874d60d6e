// Package analyzer turns the structural view of Python sources into
// per-file and per-project web-readiness analysis.
package analyzer

// Classification labels a whole file.
type Classification string

const (
	ClassUI    Classification = "ui"
	ClassLogic Classification = "logic"
	ClassMixed Classification = "mixed"
	// ClassUnavailable marks a file whose source could not be parsed or
	// decoded. Such files are excluded from aggregate counts.
	ClassUnavailable Classification = "unavailable"
)

// Effort is a three-way estimate used by suggestions and the guide.
type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// Import is one import statement of a file, classified against the
// toolkit registry. Immutable once extracted.
type Import struct {
	Module  string   `json:"module"`
	Names   []string `json:"names"`
	IsUI    bool     `json:"is_ui"`
	Toolkit string   `json:"toolkit,omitempty"`
	Line    int      `json:"line"`
}

// FunctionInfo describes one syntactic function definition. Nested
// functions and methods each get their own instance.
type FunctionInfo struct {
	Name                  string   `json:"name"`
	File                  string   `json:"file"`
	StartLine             int      `json:"start_line"`
	EndLine               int      `json:"end_line"`
	LOC                   int      `json:"loc"`
	Params                []string `json:"params,omitempty"`
	UIUsage               []string `json:"ui_usage,omitempty"`
	CallsUI               bool     `json:"calls_ui"`
	AccessesExternalState bool     `json:"accesses_external_state"`
	UsesDynamicImport     bool     `json:"uses_dynamic_import,omitempty"`
	IsPure                bool     `json:"is_pure"`
}

// Span returns the inclusive source-line span of the function.
func (f *FunctionInfo) Span() int {
	return f.EndLine - f.StartLine + 1
}

// IsUIBound reports whether the function calls any toolkit API.
func (f *FunctionInfo) IsUIBound() bool { return f.CallsUI }

// ClassInfo describes one class definition and its methods.
type ClassInfo struct {
	Name      string         `json:"name"`
	Bases     []string       `json:"bases,omitempty"`
	IsUIClass bool           `json:"is_ui_class"`
	StartLine int            `json:"start_line"`
	EndLine   int            `json:"end_line"`
	LOC       int            `json:"loc"`
	Methods   []FunctionInfo `json:"methods,omitempty"`
}

// FileAnalysis is the complete analysis of a single file. It is built
// once by Analyze and never mutated by downstream stages.
type FileAnalysis struct {
	Path           string         `json:"path"`
	Imports        []Import       `json:"imports,omitempty"`
	Classes        []ClassInfo    `json:"classes,omitempty"`
	Functions      []FunctionInfo `json:"functions,omitempty"`
	LOC            int            `json:"loc"`
	UICallCount    int            `json:"ui_call_count"`
	UIPercentage   float64        `json:"ui_percentage"`
	Classification Classification `json:"classification"`
	Toolkits       []string       `json:"toolkits,omitempty"`
	// Error carries the per-file failure marker for unparseable or
	// undecodable files; empty for successfully analyzed files.
	Error string `json:"error,omitempty"`
}

// Failed reports whether the file carries an error marker.
func (fa *FileAnalysis) Failed() bool { return fa.Error != "" }

// allFunctions yields every function of the file: top-level defs with
// their nested defs, plus every class method.
func (fa *FileAnalysis) allFunctions() []FunctionInfo {
	var fns []FunctionInfo
	fns = append(fns, fa.Functions...)
	for _, cls := range fa.Classes {
		fns = append(fns, cls.Methods...)
	}
	return fns
}

// HasPureFunction reports whether any function in the file is pure.
func (fa *FileAnalysis) HasPureFunction() bool {
	for _, fn := range fa.allFunctions() {
		if fn.IsPure {
			return true
		}
	}
	return false
}

// PureLOC sums the code-line counts of the file's pure functions. A
// pure def nested inside another pure def lies inside its parent's
// span, so only non-overlapping pure spans are summed; a pure def
// whose enclosing def is impure still counts on its own.
func (fa *FileAnalysis) PureLOC() int {
	n := pureSpanLOC(fa.Functions)
	for _, cls := range fa.Classes {
		n += pureSpanLOC(cls.Methods)
	}
	return n
}

// pureSpanLOC sums LOC over the pure entries of one flattened,
// line-ordered definition list, skipping entries contained in an
// already-counted pure span.
func pureSpanLOC(fns []FunctionInfo) int {
	n := 0
	end := 0
	for _, fn := range fns {
		if !fn.IsPure || fn.StartLine <= end {
			continue
		}
		n += fn.LOC
		end = fn.EndLine
	}
	return n
}

// ExtractionSuggestion recommends lifting one pure function as-is into
// a reusable module.
type ExtractionSuggestion struct {
	File      string `json:"file"`
	Function  string `json:"function"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Reason    string `json:"reason"`
	Effort    Effort `json:"effort"`
	WebReady  bool   `json:"web_ready"`
}

// RefactoringSuggestion recommends lifting a near-pure function after
// removing a small number of UI calls.
type RefactoringSuggestion struct {
	File      string `json:"file"`
	Function  string `json:"function"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Reason    string `json:"reason"`
	Effort    Effort `json:"effort"`
	WebReady  bool   `json:"web_ready"`
}

// WebConversionGuide is the narrative part of the result.
type WebConversionGuide struct {
	Summary               string   `json:"summary"`
	ReusableModules       []string `json:"reusable_modules"`
	UIComponentsToReplace []string `json:"ui_components_to_replace"`
	RecommendedApproach   string   `json:"recommended_approach"`
	EstimatedComplexity   Effort   `json:"estimated_complexity"`
	Recommendations       []string `json:"recommendations"`
}

// Summary holds the project-level aggregate counts, computed only over
// successfully analyzed files.
type Summary struct {
	TotalLOC           int      `json:"total_loc"`
	UIFiles            int      `json:"ui_files"`
	LogicFiles         int      `json:"logic_files"`
	MixedFiles         int      `json:"mixed_files"`
	TotalClasses       int      `json:"total_classes"`
	TotalFunctions     int      `json:"total_functions"`
	Toolkits           []string `json:"toolkits"`
	WebReadyPercentage float64  `json:"web_ready_percentage"`
}

// ProjectResult is the engine's sole output: an immutable snapshot
// serializable as one JSON document. Every reference is by file path,
// never a live pointer, so the document has no cycles.
type ProjectResult struct {
	ProjectName            string                  `json:"project_name"`
	TotalFiles             int                     `json:"total_files"`
	FailedFiles            int                     `json:"failed_files"`
	Summary                Summary                 `json:"summary"`
	Files                  []FileAnalysis          `json:"files"`
	ExtractionSuggestions  []ExtractionSuggestion  `json:"extraction_suggestions"`
	RefactoringSuggestions []RefactoringSuggestion `json:"refactoring_suggestions"`
	Guide                  WebConversionGuide      `json:"web_conversion_guide"`
}
