// Package pysrc extracts the structural facts the analyzer needs from
// Python source: imports, class and function definitions with line
// ranges, call sites, name references and bindings. It is a
// line-oriented scanner, not a full grammar, since analyzed code is never
// executed or imported.
package pysrc

import (
	"fmt"
	"regexp"
	"strings"
)

// SyntaxError reports a file whose source could not be scanned.
type SyntaxError struct {
	Path string
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

// Import is one import statement binding.
type Import struct {
	Module string   // dotted module path, e.g. "PyQt5.QtWidgets"
	Names  []string // names bound in the file by this statement
	Line   int
}

// Function is one def block, including methods and nested defs.
type Function struct {
	Name      string
	Params    []string
	StartLine int
	EndLine   int
	Calls     []string        // dotted callee names appearing in the body
	Refs      map[string]bool // identifiers referenced in the body
	Assigned  map[string]bool // names bound by assignment in this scope
	Globals   []string        // names declared global/nonlocal
	Nested    []*Function
}

// Class is one class block with its directly-defined methods.
type Class struct {
	Name      string
	Bases     []string
	StartLine int
	EndLine   int
	Methods   []*Function
}

// File is the structural view of one source file.
type File struct {
	Path       string
	Imports    []Import
	Classes    []*Class
	Functions  []*Function // top-level defs only
	ModuleVars map[string]bool
	LOC        int // non-blank, non-comment lines
	TotalLines int

	code []bool // per physical line (0-based), true when it counts as code
}

// CodeLineCount returns how many lines in the inclusive [start, end]
// range are code lines (not blank, not comment-only).
func (f *File) CodeLineCount(start, end int) int {
	n := 0
	for ln := start; ln <= end && ln <= f.TotalLines; ln++ {
		if ln >= 1 && f.code[ln-1] {
			n++
		}
	}
	return n
}

var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true,
	"class": true, "continue": true, "def": true, "del": true,
	"elif": true, "else": true, "except": true, "finally": true,
	"for": true, "from": true, "global": true, "if": true, "import": true,
	"in": true, "is": true, "lambda": true, "nonlocal": true, "not": true,
	"or": true, "pass": true, "raise": true, "return": true, "try": true,
	"while": true, "with": true, "yield": true,
}

var (
	reDef      = regexp.MustCompile(`^(?:async\s+)?def\s+([A-Za-z_]\w*)\s*\((.*)\)\s*(?:->[^:]*)?:`)
	reDefStart = regexp.MustCompile(`^(?:async\s+)?def\b`)
	reClass    = regexp.MustCompile(`^class\s+([A-Za-z_]\w*)\s*(?:\(([^)]*)\))?\s*:`)
	reCall     = regexp.MustCompile(`([A-Za-z_]\w*(?:\.[A-Za-z_]\w*)*)\s*\(`)
	reIdent    = regexp.MustCompile(`[A-Za-z_]\w*`)
	reFrom     = regexp.MustCompile(`^from\s+([.\w]+)\s+import\s+(.+)$`)
	reScope    = regexp.MustCompile(`^(?:global|nonlocal)\s+(.+)$`)
	reForBind  = regexp.MustCompile(`^(?:async\s+)?for\s+(.+?)\s+in\s`)
	reWithAs   = regexp.MustCompile(`\bas\s+([A-Za-z_]\w*)`)
)

// block is one open indentation scope during scanning.
type block struct {
	indent   int
	fn       *Function
	cls      *Class
	lastLine int
}

type scanner struct {
	file   *File
	stack  []*block
	inStr  string // active triple-quote delimiter, "" when outside
	depth  int    // open bracket depth across lines
	errAt  int
	errMsg string
}

// Parse scans source and returns its structural view. A *SyntaxError is
// returned for input the scanner cannot make sense of; the caller treats
// that as a per-file failure, never a fatal one.
func Parse(path, source string) (*File, error) {
	lines := strings.Split(source, "\n")
	// A trailing newline produces one empty trailing element; drop it so
	// TotalLines matches what an editor shows.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	f := &File{
		Path:       path,
		ModuleVars: make(map[string]bool),
		TotalLines: len(lines),
		code:       make([]bool, len(lines)),
	}
	s := &scanner{file: f}

	var stmt strings.Builder
	stmtStart := 0
	stmtIndent := 0
	open := false // a logical statement is being accumulated

	for i, raw := range lines {
		ln := i + 1
		trimmed := strings.TrimSpace(raw)

		if s.inStr == "" && !open {
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, "#") {
				continue
			}
		}
		f.code[i] = true
		f.LOC++

		wasInStr := s.inStr != ""
		scrubbed, cont, err := s.scrubLine(raw, ln)
		if err != nil {
			return nil, err
		}
		if wasInStr && !open {
			// Continuation lines of a multi-line string are code but
			// carry no statement content.
			continue
		}

		if !open {
			stmt.Reset()
			stmtStart = ln
			stmtIndent = indentOf(raw)
		}
		stmt.WriteString(scrubbed)
		stmt.WriteByte(' ')

		if cont || s.depth > 0 || s.inStr != "" {
			open = true
			continue
		}
		open = false

		if err := s.statement(strings.TrimSpace(stmt.String()), stmtStart, ln, stmtIndent); err != nil {
			return nil, err
		}
	}

	if s.inStr != "" {
		return nil, &SyntaxError{Path: path, Line: len(lines), Msg: "unterminated string literal"}
	}
	if s.depth > 0 {
		return nil, &SyntaxError{Path: path, Line: len(lines), Msg: "unbalanced brackets at end of file"}
	}
	s.closeTo(-1)
	return f, nil
}

// scrubLine strips comments and blanks out string literal contents so
// downstream token scans only see code. It keeps bracket depth and
// triple-quote state across lines and reports whether the line ends with
// an explicit backslash continuation.
func (s *scanner) scrubLine(raw string, ln int) (string, bool, error) {
	var out strings.Builder
	i := 0

	if s.inStr != "" {
		end := strings.Index(raw, s.inStr)
		if end < 0 {
			return "", false, nil
		}
		i = end + len(s.inStr)
		s.inStr = ""
	}

	for i < len(raw) {
		c := raw[i]
		switch {
		case c == '#':
			i = len(raw)
		case c == '\'' || c == '"':
			q := string(c)
			if strings.HasPrefix(raw[i:], q+q+q) {
				delim := q + q + q
				rest := raw[i+3:]
				end := strings.Index(rest, delim)
				if end < 0 {
					s.inStr = delim
					i = len(raw)
					break
				}
				i += 3 + end + 3
			} else {
				j := i + 1
				closed := false
				for j < len(raw) {
					if raw[j] == '\\' {
						j += 2
						continue
					}
					if raw[j] == c {
						closed = true
						break
					}
					j++
				}
				if !closed {
					return "", false, &SyntaxError{Path: s.file.Path, Line: ln, Msg: "unterminated string literal"}
				}
				i = j + 1
			}
			out.WriteByte(' ')
		case c == '(' || c == '[' || c == '{':
			s.depth++
			out.WriteByte(c)
			i++
		case c == ')' || c == ']' || c == '}':
			s.depth--
			if s.depth < 0 {
				return "", false, &SyntaxError{Path: s.file.Path, Line: ln, Msg: "unbalanced closing bracket"}
			}
			out.WriteByte(c)
			i++
		default:
			out.WriteByte(c)
			i++
		}
	}

	text := out.String()
	if strings.HasSuffix(strings.TrimRight(text, " \t"), "\\") {
		trimmed := strings.TrimRight(text, " \t")
		return trimmed[:len(trimmed)-1], true, nil
	}
	return text, false, nil
}

// statement classifies one complete logical statement and records the
// facts it contributes.
func (s *scanner) statement(text string, startLine, endLine, indent int) error {
	s.closeTo(indent)
	for _, b := range s.stack {
		b.lastLine = endLine
	}
	if text == "" {
		return nil
	}

	switch {
	case reDefStart.MatchString(text):
		m := reDef.FindStringSubmatch(text)
		if m == nil {
			return &SyntaxError{Path: s.file.Path, Line: startLine, Msg: "malformed function definition"}
		}
		fn := &Function{
			Name:      m[1],
			Params:    parseParams(m[2]),
			StartLine: startLine,
			EndLine:   endLine,
			Refs:      make(map[string]bool),
			Assigned:  make(map[string]bool),
		}
		s.attachFunction(fn)
		s.stack = append(s.stack, &block{indent: indent, fn: fn, lastLine: endLine})

	case strings.HasPrefix(text, "class ") || text == "class:":
		m := reClass.FindStringSubmatch(text)
		if m == nil {
			return &SyntaxError{Path: s.file.Path, Line: startLine, Msg: "malformed class definition"}
		}
		cls := &Class{
			Name:      m[1],
			Bases:     splitNames(m[2]),
			StartLine: startLine,
			EndLine:   endLine,
		}
		s.file.Classes = append(s.file.Classes, cls)
		s.stack = append(s.stack, &block{indent: indent, cls: cls, lastLine: endLine})

	case strings.HasPrefix(text, "import "):
		s.importStatement(text, startLine)

	case strings.HasPrefix(text, "from "):
		s.fromImportStatement(text, startLine)

	case strings.HasPrefix(text, "global ") || strings.HasPrefix(text, "nonlocal "):
		if m := reScope.FindStringSubmatch(text); m != nil {
			if fn := s.enclosingFunctions(); len(fn) > 0 {
				names := splitNames(m[1])
				for _, f := range fn {
					f.Globals = append(f.Globals, names...)
				}
			}
		}

	default:
		s.factStatement(text)
	}
	return nil
}

// attachFunction hangs a new def off its nearest enclosing scope: a
// class body makes it a method, a function body makes it nested, module
// level makes it top-level.
func (s *scanner) attachFunction(fn *Function) {
	if len(s.stack) == 0 {
		s.file.Functions = append(s.file.Functions, fn)
		return
	}
	top := s.stack[len(s.stack)-1]
	if top.cls != nil {
		top.cls.Methods = append(top.cls.Methods, fn)
		return
	}
	top.fn.Nested = append(top.fn.Nested, fn)
}

// enclosingFunctions returns every function scope currently open,
// outermost first. Body facts apply to all of them: a call inside a
// nested def also sits inside the enclosing def's span.
func (s *scanner) enclosingFunctions() []*Function {
	var fns []*Function
	for _, b := range s.stack {
		if b.fn != nil {
			fns = append(fns, b.fn)
		}
	}
	return fns
}

func (s *scanner) importStatement(text string, line int) {
	rest := strings.TrimPrefix(text, "import ")
	for _, part := range strings.Split(rest, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		module := part
		bound := part
		if idx := strings.Index(part, " as "); idx >= 0 {
			module = strings.TrimSpace(part[:idx])
			bound = strings.TrimSpace(part[idx+4:])
		} else if dot := strings.Index(part, "."); dot >= 0 {
			// "import a.b" binds the root package name.
			bound = part[:dot]
		}
		if module == "" {
			continue
		}
		s.file.Imports = append(s.file.Imports, Import{Module: module, Names: []string{bound}, Line: line})
	}
}

func (s *scanner) fromImportStatement(text string, line int) {
	m := reFrom.FindStringSubmatch(text)
	if m == nil {
		// Unparseable import statements are skipped, not fatal.
		return
	}
	module := m[1]
	namesPart := strings.Trim(strings.TrimSpace(m[2]), "()")
	var names []string
	for _, part := range strings.Split(namesPart, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.Index(part, " as "); idx >= 0 {
			part = strings.TrimSpace(part[idx+4:])
		} else if fields := strings.Fields(part); len(fields) > 0 {
			part = fields[0]
		}
		names = append(names, part)
	}
	if len(names) == 0 {
		return
	}
	s.file.Imports = append(s.file.Imports, Import{Module: module, Names: names, Line: line})
}

// factStatement records calls, references and bindings from an ordinary
// code statement.
func (s *scanner) factStatement(text string) {
	fns := s.enclosingFunctions()

	for _, m := range reCall.FindAllStringSubmatch(text, -1) {
		name := m[1]
		root := name
		if dot := strings.Index(name, "."); dot >= 0 {
			root = name[:dot]
		}
		if pythonKeywords[root] {
			continue
		}
		for _, fn := range fns {
			fn.Calls = append(fn.Calls, name)
		}
	}

	if len(fns) > 0 {
		for _, id := range reIdent.FindAllString(text, -1) {
			if pythonKeywords[id] {
				continue
			}
			for _, fn := range fns {
				fn.Refs[id] = true
			}
		}
	}

	bound := bindingTargets(text)
	if len(bound) == 0 {
		return
	}
	if len(fns) > 0 {
		// Assignment binds in the innermost scope only.
		inner := fns[len(fns)-1]
		for _, name := range bound {
			inner.Assigned[name] = true
		}
		return
	}
	// Direct class-body assignments are class attributes, not module
	// state.
	if len(s.stack) > 0 && s.stack[len(s.stack)-1].cls != nil {
		return
	}
	for _, name := range bound {
		s.file.ModuleVars[name] = true
	}
}

// bindingTargets extracts the simple names a statement binds: assignment
// targets, loop variables and "as" bindings.
func bindingTargets(text string) []string {
	var names []string

	if m := reForBind.FindStringSubmatch(text); m != nil {
		for _, t := range strings.Split(m[1], ",") {
			t = strings.TrimSpace(strings.Trim(t, "() "))
			if reIdentOnly(t) {
				names = append(names, t)
			}
		}
		return names
	}
	if strings.HasPrefix(text, "with ") || strings.HasPrefix(text, "except ") {
		for _, m := range reWithAs.FindAllStringSubmatch(text, -1) {
			names = append(names, m[1])
		}
		return names
	}

	eq := topLevelAssign(text)
	if eq < 0 {
		return nil
	}
	left := strings.TrimSpace(text[:eq])
	left = strings.TrimRight(left, "+-*/%&|^@<>:")
	for _, t := range strings.Split(left, ",") {
		t = strings.TrimSpace(t)
		if idx := strings.Index(t, ":"); idx >= 0 {
			t = strings.TrimSpace(t[:idx])
		}
		if reIdentOnly(t) {
			names = append(names, t)
		}
	}
	return names
}

func reIdentOnly(s string) bool {
	return s != "" && reIdent.FindString(s) == s
}

// topLevelAssign finds the first '=' outside brackets that is an
// assignment rather than a comparison, returning its index or -1.
func topLevelAssign(text string) int {
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '=':
			if depth > 0 {
				continue
			}
			if i+1 < len(text) && text[i+1] == '=' {
				i++
				continue
			}
			if i > 0 {
				switch text[i-1] {
				case '=', '!', '<', '>':
					continue
				}
			}
			return i
		}
	}
	return -1
}

// parseParams splits a def header's parameter list into bare names,
// dropping defaults, annotations and * / ** markers.
func parseParams(raw string) []string {
	var params []string
	depth := 0
	start := 0
	flush := func(tok string) {
		tok = strings.TrimSpace(tok)
		tok = strings.TrimLeft(tok, "*")
		if idx := strings.IndexAny(tok, ":="); idx >= 0 {
			tok = tok[:idx]
		}
		tok = strings.TrimSpace(tok)
		if tok != "" && tok != "/" && reIdentOnly(tok) {
			params = append(params, tok)
		}
	}
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				flush(raw[start:i])
				start = i + 1
			}
		}
	}
	flush(raw[start:])
	return params
}

// closeTo pops every block whose body cannot contain a statement at the
// given indent, fixing up end lines as it goes.
func (s *scanner) closeTo(indent int) {
	for len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]
		if indent > top.indent {
			break
		}
		if top.fn != nil {
			top.fn.EndLine = top.lastLine
		} else {
			top.cls.EndLine = top.lastLine
		}
		s.stack = s.stack[:len(s.stack)-1]
	}
}

func indentOf(raw string) int {
	n := 0
	for _, c := range raw {
		switch c {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}

func splitNames(raw string) []string {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			names = append(names, part)
		}
	}
	return names
}
