package domain

import "slices"

// LayerKind is the precedence class of a configuration layer.
type LayerKind int

const (
	// LayerBase is the system layer. It is read first and always carries the builtin content.
	LayerBase LayerKind = iota
	// LayerOther is a discovered read-only layer between base and user.
	LayerOther
	// LayerUser is the single editable layer. It is read last.
	LayerUser
)

// String returns the lower-case name of the kind.
func (k LayerKind) String() string {
	switch k {
	case LayerBase:
		return "base"
	case LayerUser:
		return "user"
	default:
		return "other"
	}
}

// DirectiveKind is the effect a directive has on a content file.
type DirectiveKind int

const (
	// DirectiveActivate turns a content file on.
	DirectiveActivate DirectiveKind = iota
	// DirectiveDeactivate turns a content file off.
	DirectiveDeactivate
	// DirectivePosition asserts the position of a content file in the load order.
	DirectivePosition
)

// Directive is a single activation or ordering statement of a layer.
type Directive struct {
	Kind    DirectiveKind
	Content ContentID
	// Position is only meaningful for DirectivePosition. Lower values load earlier.
	Position int
}

// ConfigLayer is a named, ordered source of directives.
// Directives are applied in slice order, so a later directive wins over an earlier one.
type ConfigLayer struct {
	Name       string
	Path       string
	Kind       LayerKind
	Directives []Directive
	// ReplaceContent discards the directives of every lower precedence layer.
	ReplaceContent bool
}

// LayerStack is an immutable precedence-ordered sequence of layers, lowest precedence first.
type LayerStack struct {
	layers []ConfigLayer
}

// NewLayerStack builds a stack in the fixed precedence order base, others, user.
func NewLayerStack(base ConfigLayer, others []ConfigLayer, user ConfigLayer) *LayerStack {
	base.Kind = LayerBase
	user.Kind = LayerUser

	layers := make([]ConfigLayer, 0, len(others)+2)
	layers = append(layers, base)
	for _, o := range others {
		o.Kind = LayerOther
		layers = append(layers, o)
	}
	layers = append(layers, user)

	return &LayerStack{layers: layers}
}

// Layers returns the layers, lowest precedence first.
func (s *LayerStack) Layers() []ConfigLayer {
	return slices.Clone(s.layers)
}

// Len returns the number of layers.
func (s *LayerStack) Len() int {
	return len(s.layers)
}

// IsEditable reports whether the layer is the user layer.
func (s *LayerStack) IsEditable(layer *ConfigLayer) bool {
	return layer.Kind == LayerUser
}

// User returns the user layer.
func (s *LayerStack) User() ConfigLayer {
	return s.layers[len(s.layers)-1]
}

// WithoutUser returns the layers with the user layer dropped.
func (s *LayerStack) WithoutUser() []ConfigLayer {
	return slices.Clone(s.layers[:len(s.layers)-1])
}
