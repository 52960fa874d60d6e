package analyzer

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"webready/internal/config"
	"webready/internal/pysrc"
	"webready/internal/toolkit"
)

// Analyze runs the structural pass over one file's source text and
// returns its complete FileAnalysis. The source is never executed. A
// syntax error or undecodable input yields an error-marked analysis
// (classification unavailable, no members) instead of failing the run.
func Analyze(path string, source []byte, reg *toolkit.Registry, th config.Thresholds) FileAnalysis {
	if !utf8.Valid(source) {
		return FileAnalysis{
			Path:           path,
			Classification: ClassUnavailable,
			Error:          "unsupported encoding: source is not valid UTF-8",
		}
	}

	parsed, err := pysrc.Parse(path, string(source))
	if err != nil {
		return FileAnalysis{
			Path:           path,
			Classification: ClassUnavailable,
			Error:          fmt.Sprintf("parse error: %v", err),
		}
	}

	det := reg.Detect(parsed.Imports)

	fa := FileAnalysis{
		Path:     path,
		LOC:      parsed.LOC,
		Toolkits: append([]string(nil), det.Toolkits...),
	}
	sort.Strings(fa.Toolkits)

	for _, imp := range parsed.Imports {
		tk, isUI := reg.ClassifyImport(imp.Module, imp.Names)
		fa.Imports = append(fa.Imports, Import{
			Module:  imp.Module,
			Names:   imp.Names,
			IsUI:    isUI,
			Toolkit: tk,
			Line:    imp.Line,
		})
	}

	b := builder{file: parsed, reg: reg, det: det, path: path}

	// Top-level functions, with nested defs flattened after their
	// parent so the suggestion passes see every definition.
	for _, fn := range parsed.Functions {
		fa.Functions = append(fa.Functions, b.functionTree(fn)...)
	}

	for _, cls := range parsed.Classes {
		info := ClassInfo{
			Name:      cls.Name,
			Bases:     cls.Bases,
			StartLine: cls.StartLine,
			EndLine:   cls.EndLine,
			LOC:       parsed.CodeLineCount(cls.StartLine, cls.EndLine),
		}
		for _, base := range cls.Bases {
			if reg.IsUIBase(base) {
				info.IsUIClass = true
				break
			}
		}
		for _, m := range cls.Methods {
			info.Methods = append(info.Methods, b.functionTree(m)...)
		}
		fa.Classes = append(fa.Classes, info)
	}

	for _, fn := range fa.allFunctions() {
		fa.UICallCount += len(fn.UIUsage)
	}

	fa.UIPercentage = uiPercentage(&fa)
	fa.Classification = classify(fa.UIPercentage, fa.LOC, fa.HasPureFunction(), th)
	return fa
}

// classify applies the file decision table. Thresholds are inclusive on
// both boundaries, and empty files are Mixed by convention so the ratio
// never divides by zero.
func classify(uiPercent float64, loc int, hasPure bool, th config.Thresholds) Classification {
	if loc == 0 {
		return ClassMixed
	}
	switch {
	case uiPercent >= th.UIFilePercent:
		return ClassUI
	case uiPercent <= th.LogicFilePercent && hasPure:
		return ClassLogic
	default:
		return ClassMixed
	}
}

// uiPercentage computes UI-bound code lines over total code lines.
// UI classes contribute their whole span; non-UI classes contribute
// their UI-bound methods; top-level UI-bound functions contribute their
// span (nested defs are inside it already, so only the outermost span
// counts).
func uiPercentage(fa *FileAnalysis) float64 {
	if fa.LOC == 0 {
		return 0
	}

	uiLOC := 0
	for _, fn := range outermost(fa.Functions) {
		if fn.CallsUI {
			uiLOC += fn.LOC
		}
	}
	for _, cls := range fa.Classes {
		if cls.IsUIClass {
			uiLOC += cls.LOC
			continue
		}
		for _, m := range outermost(cls.Methods) {
			if m.CallsUI {
				uiLOC += m.LOC
			}
		}
	}

	pct := float64(uiLOC) / float64(fa.LOC) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// outermost filters a flattened definition list down to entries not
// contained in an earlier entry's line range.
func outermost(fns []FunctionInfo) []FunctionInfo {
	var out []FunctionInfo
	end := 0
	for _, fn := range fns {
		if fn.StartLine <= end {
			continue
		}
		out = append(out, fn)
		end = fn.EndLine
	}
	return out
}

type builder struct {
	file *pysrc.File
	reg  *toolkit.Registry
	det  toolkit.Detection
	path string
}

// functionTree builds the FunctionInfo for one def and, recursively,
// its nested defs, flattened parent-first.
func (b *builder) functionTree(fn *pysrc.Function) []FunctionInfo {
	infos := []FunctionInfo{b.function(fn)}
	for _, nested := range fn.Nested {
		infos = append(infos, b.functionTree(nested)...)
	}
	return infos
}

func (b *builder) function(fn *pysrc.Function) FunctionInfo {
	info := FunctionInfo{
		Name:      fn.Name,
		File:      b.path,
		StartLine: fn.StartLine,
		EndLine:   fn.EndLine,
		LOC:       b.file.CodeLineCount(fn.StartLine, fn.EndLine),
		Params:    fn.Params,
	}

	usage := make(map[string]bool)
	for _, call := range fn.Calls {
		root, last := splitCall(call)
		switch {
		case call == "__import__" || root == "importlib":
			info.UsesDynamicImport = true
		case b.det.UINames[root]:
			usage[call] = true
		case b.reg.IsUIBase(last):
			usage[call] = true
		case root != last && b.reg.IsUIMethod(last):
			usage["."+last+"()"] = true
		}
	}
	for u := range usage {
		info.UIUsage = append(info.UIUsage, u)
	}
	sort.Strings(info.UIUsage)
	info.CallsUI = len(info.UIUsage) > 0

	info.AccessesExternalState = b.accessesExternalState(fn)
	info.IsPure = !info.CallsUI && !info.AccessesExternalState
	return info
}

// accessesExternalState reports whether a function touches state
// outside its own local scope: an explicit global/nonlocal declaration,
// or a reference to a module-level variable that is neither a parameter
// nor shadowed by a local binding. Dynamic imports are handled
// separately and never imply purity either way.
func (b *builder) accessesExternalState(fn *pysrc.Function) bool {
	if len(fn.Globals) > 0 {
		return true
	}
	params := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		params[p] = true
	}
	for name := range b.file.ModuleVars {
		if fn.Refs[name] && !params[name] && !fn.Assigned[name] {
			return true
		}
	}
	return false
}

func splitCall(call string) (root, last string) {
	root = call
	last = call
	if idx := strings.Index(call, "."); idx >= 0 {
		root = call[:idx]
	}
	if idx := strings.LastIndex(call, "."); idx >= 0 {
		last = call[idx+1:]
	}
	return root, last
}
