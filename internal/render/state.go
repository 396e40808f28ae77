package render

// ViewState tracks one reference view: loading until the fetch resolves, then
// loaded or failed. Both outcomes are terminal.
type ViewState int

const (
	StateLoading ViewState = iota
	StateLoaded
	StateFailed
)

func (s ViewState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Resolve applies the fetch outcome. Terminal states ignore it.
func (s ViewState) Resolve(ok bool) ViewState {
	if s != StateLoading {
		return s
	}
	if ok {
		return StateLoaded
	}
	return StateFailed
}

// Terminal reports whether the view is done loading.
func (s ViewState) Terminal() bool {
	return s == StateLoaded || s == StateFailed
}
