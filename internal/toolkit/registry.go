// Package toolkit holds the registry of known GUI toolkits and the
// import detector that classifies a file's imports against it.
package toolkit

// Wildcard marks a toolkit whose every submodule counts as UI.
const Wildcard = "*"

// Registry is an immutable lookup table of GUI toolkits. Build it once
// at process start and share it by reference: analysis runs never
// mutate it, so it is safe under parallel file processing.
type Registry struct {
	frameworks  map[string][]string
	baseClasses map[string]bool
	uiMethods   map[string]bool
}

// DefaultRegistry returns the registry of toolkits the analyzer knows
// about: the Qt bindings, tkinter and wxPython.
func DefaultRegistry() *Registry {
	qt := []string{"QtWidgets", "QtGui", "QtCore", "QtWebEngineWidgets", "uic"}
	return NewRegistry(map[string][]string{
		"PyQt5":   qt,
		"PyQt6":   qt,
		"PySide2": {"QtWidgets", "QtGui", "QtCore", "QtWebEngineWidgets"},
		"PySide6": {"QtWidgets", "QtGui", "QtCore", "QtWebEngineWidgets"},
		"tkinter": {Wildcard},
		"wx":      {Wildcard},
	})
}

// NewRegistry builds a registry from a toolkit → submodule-set table.
func NewRegistry(frameworks map[string][]string) *Registry {
	r := &Registry{
		frameworks:  make(map[string][]string, len(frameworks)),
		baseClasses: make(map[string]bool, len(uiBaseClasses)),
		uiMethods:   make(map[string]bool, len(uiMethods)),
	}
	for name, subs := range frameworks {
		r.frameworks[name] = append([]string(nil), subs...)
	}
	for _, name := range uiBaseClasses {
		r.baseClasses[name] = true
	}
	for _, name := range uiMethods {
		r.uiMethods[name] = true
	}
	return r
}

// uiBaseClasses are widget base types whose presence in a class's base
// list marks it as a UI class, and whose instantiation inside a function
// marks the function UI-bound. Matching is case-sensitive.
var uiBaseClasses = []string{
	"QWidget", "QMainWindow", "QDialog", "QFrame", "QScrollArea",
	"QPushButton", "QLabel", "QLineEdit", "QTextEdit", "QComboBox",
	"QCheckBox", "QRadioButton", "QSlider", "QProgressBar",
	"QTableWidget", "QListWidget", "QTreeWidget",
	"QGraphicsView", "QGraphicsScene", "QGraphicsItem",
	"QApplication",
	// tkinter
	"Tk", "Frame", "Canvas", "Button", "Label",
	// wxPython
	"App", "Panel",
}

// uiMethods are widget method names common across the supported
// toolkits. A call like obj.show() is counted as UI usage even when the
// receiver's type is unknown.
var uiMethods = []string{
	"show", "hide", "close", "exec", "exec_", "mainloop",
	"setText", "setEnabled", "setVisible",
	"addWidget", "setLayout", "setCentralWidget",
	"pack", "grid", "place",
}

// IsUIBase reports whether a base-class name is a known UI base type.
// Dotted names match on their last segment (QtWidgets.QWidget).
func (r *Registry) IsUIBase(name string) bool {
	return r.baseClasses[lastSegment(name)]
}

// IsUIMethod reports whether a method name is a known widget method.
func (r *Registry) IsUIMethod(name string) bool {
	return r.uiMethods[name]
}

// Toolkits returns the registered toolkit names.
func (r *Registry) Toolkits() []string {
	names := make([]string, 0, len(r.frameworks))
	for name := range r.frameworks {
		names = append(names, name)
	}
	return names
}

func lastSegment(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}
