package toolkit

import (
	"strings"

	"webready/internal/pysrc"
)

// Detection is the result of classifying one file's imports.
type Detection struct {
	// Toolkits holds the distinct toolkit names detected in the file.
	Toolkits []string
	// UINames are the names the file's UI imports bind: module aliases
	// ("tk" from "import tkinter as tk"), submodule names ("QtWidgets")
	// and directly imported widget classes ("QWidget"). A call whose
	// root resolves to one of these is UI-bound.
	UINames map[string]bool
	// UILines maps import line numbers to the toolkit they belong to.
	UILines map[int]string
}

// ClassifyImport decides whether a single import is a UI-toolkit import
// and which toolkit it belongs to. Matching is exact on the root module
// name; submodules are checked against the registry entry's set or its
// wildcard. Imports of known widget base classes from an unrecognized
// module still count as UI, with no toolkit attributed.
func (r *Registry) ClassifyImport(module string, names []string) (tk string, isUI bool) {
	root := module
	sub := ""
	if idx := strings.Index(module, "."); idx >= 0 {
		root = module[:idx]
		sub = module[idx+1:]
	}

	if subs, ok := r.frameworks[root]; ok {
		if sub == "" {
			return root, true
		}
		first := sub
		if idx := strings.Index(sub, "."); idx >= 0 {
			first = sub[:idx]
		}
		for _, s := range subs {
			if s == Wildcard || s == first {
				return root, true
			}
		}
		// Importing a widget class from an unlisted submodule still
		// drags the toolkit in.
		for _, n := range names {
			if r.baseClasses[n] {
				return root, true
			}
		}
		return "", false
	}

	for _, n := range names {
		if r.baseClasses[n] {
			return "", true
		}
	}
	return "", false
}

// Detect classifies every import of a file and aggregates the file's
// toolkit set and UI name bindings. Imports the scanner could not parse
// were already skipped upstream; they lower completeness, never abort.
func (r *Registry) Detect(imports []pysrc.Import) Detection {
	d := Detection{
		UINames: make(map[string]bool),
		UILines: make(map[int]string),
	}
	seen := make(map[string]bool)

	for _, imp := range imports {
		tk, isUI := r.ClassifyImport(imp.Module, imp.Names)
		if !isUI {
			continue
		}
		d.UILines[imp.Line] = tk
		if tk != "" && !seen[tk] {
			seen[tk] = true
			d.Toolkits = append(d.Toolkits, tk)
		}
		for _, n := range imp.Names {
			if n != "" && n != "*" {
				d.UINames[n] = true
			}
		}
	}
	return d
}
