package doctree

// DefaultGroup is the group for entries that declare no package.
const DefaultGroup = "root"

// ExcludedGroup marks test-only declarations. Entries in this package are
// never displayed.
const ExcludedGroup = "test"

// Document is the upstream documentation payload.
type Document struct {
	Types     []Type     `json:"types"`
	Functions []Function `json:"functions"`
}

// Function is one documented top-level function or method.
type Function struct {
	Name    string `json:"name"`              // Unique within its group
	Doc     string `json:"doc"`               // Go doc comment text
	Package string `json:"package,omitempty"` // Group key (empty means DefaultGroup)
	Code    string `json:"code,omitempty"`    // Example source text
}

// Type is one documented exported type with its methods.
type Type struct {
	Name    string     `json:"name"`
	Doc     string     `json:"doc"`
	Package string     `json:"package,omitempty"`
	Code    string     `json:"code,omitempty"`
	Methods []Function `json:"methods,omitempty"` // Declaration order
}

// Len returns the number of top-level entries in the document.
func (d Document) Len() int {
	return len(d.Types) + len(d.Functions)
}

// GroupKey returns the effective group of a declared package.
func GroupKey(pkg string) string {
	if pkg == "" {
		return DefaultGroup
	}
	return pkg
}

// Excluded reports whether entries declared in pkg are hidden.
func Excluded(pkg string) bool {
	return pkg == ExcludedGroup
}
