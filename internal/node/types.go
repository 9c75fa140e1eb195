package node

// Type is the closed set of node kinds produced by the layout stage.
type Type string

const (
	TypeImage       Type = "image"
	TypeGraph       Type = "graph" // vector shape primitive (rect, ellipse, path)
	TypeGroup       Type = "group"
	TypeComponent   Type = "component"
	TypeText        Type = "text"
	TypeRichText    Type = "richText"
	TypeButton      Type = "button"
	TypeProgressBar Type = "progressBar"
	TypeSlider      Type = "slider"
	TypeComboBox    Type = "comboBox"
	TypeLabel       Type = "label"
	TypeList        Type = "list"
	TypeLoader      Type = "loader"
)

// IsExtension reports whether t is an interactive extension type. Extension
// types always go through the component system so their behavior survives.
func (t Type) IsExtension() bool {
	switch t {
	case TypeButton, TypeProgressBar, TypeSlider, TypeComboBox, TypeLabel, TypeList:
		return true
	}
	return false
}

// IsText reports whether t carries text content.
func (t Type) IsText() bool {
	return t == TypeText || t == TypeRichText
}

// IsVisual reports whether t can be bound to a raster resource.
func (t Type) IsVisual() bool {
	return t == TypeImage || t == TypeLoader
}

// Style keys read by the extraction passes.
const (
	StyleFill         = "fill"
	StyleStroke       = "stroke"
	StyleCornerRadius = "cornerRadius"
	StyleBorder       = "border"
	StyleStrokeSize   = "strokeSize"
	StyleShadow       = "shadow"
	StyleFillType     = "fillType"
	StyleBackground   = "background"
)

// Custom property keys.
const (
	CustomMask = "isMask"
	CustomPath = "path"
)

// Geometry is the resolved box of a node after layout.
type Geometry struct {
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	Width    float64 `json:"width" yaml:"width"`
	Height   float64 `json:"height" yaml:"height"`
	Rotation float64 `json:"rotation,omitempty" yaml:"rotation,omitempty"`
}

// Content is the instance payload of a leaf: text or a bound resource.
type Content struct {
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
	Resource string `json:"resource,omitempty" yaml:"resource,omitempty"` // opaque resource id from the render pipeline
	FileName string `json:"fileName,omitempty" yaml:"fileName,omitempty"`
}

// Look is an alternate appearance of a canonical component.
type Look struct {
	SourceID   string         `json:"sourceId,omitempty" yaml:"sourceId,omitempty"`
	StyleDelta map[string]any `json:"styleDelta,omitempty" yaml:"styleDelta,omitempty"`
	Resource   string         `json:"resource,omitempty" yaml:"resource,omitempty"`
}

// ControllerPage is one addressable state of a controller.
type ControllerPage struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Controller drives which page of a component is active at runtime.
type Controller struct {
	Name  string           `json:"name" yaml:"name"`
	Pages []ControllerPage `json:"pages" yaml:"pages"`
}

// Gear kinds.
const (
	GearIcon    = "gearIcon"
	GearDisplay = "gearDisplay"
)

// Gear binds a node property to a controller.
type Gear struct {
	Kind       string `json:"kind" yaml:"kind"`
	Controller string `json:"controller" yaml:"controller"`
	Pages      []int  `json:"pages,omitempty" yaml:"pages,omitempty"`
}

// Override keys carried by reference nodes.
const (
	OverrideTitle = "title"
	OverrideIcon  = "icon"
	OverridePage  = "page"
)

// Node is the unit of the design tree. Children are exclusively owned by
// their parent; a node never appears under two parents.
type Node struct {
	ID       string         `json:"id" yaml:"id"`
	SourceID string         `json:"sourceId,omitempty" yaml:"sourceId,omitempty"`
	Name     string         `json:"name" yaml:"name"`
	Type     Type           `json:"type" yaml:"type"`
	Geometry Geometry       `json:"geometry" yaml:"geometry"`
	Style    map[string]any `json:"style,omitempty" yaml:"style,omitempty"`
	Custom   map[string]any `json:"custom,omitempty" yaml:"custom,omitempty"`
	Hidden   bool           `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Children []*Node        `json:"children,omitempty" yaml:"children,omitempty"`
	Content  *Content       `json:"content,omitempty" yaml:"content,omitempty"`

	Looks       map[int]*Look `json:"looks,omitempty" yaml:"looks,omitempty"`
	Controllers []Controller  `json:"controllers,omitempty" yaml:"controllers,omitempty"`
	Gears       []Gear        `json:"gears,omitempty" yaml:"gears,omitempty"`

	// Extraction state.
	Extracted bool           `json:"-" yaml:"-"`
	Hash      string         `json:"-" yaml:"-"` // captured when Extracted is set
	Page      int            `json:"-" yaml:"-"`
	Ref       string         `json:"ref,omitempty" yaml:"ref,omitempty"`
	Overrides map[string]any `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}
