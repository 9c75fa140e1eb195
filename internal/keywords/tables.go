package keywords

// State names recognised in layer names.
const (
	StateNormal   = "normal"
	StateDown     = "down"
	StateOver     = "over"
	StateSelected = "selected"
	StateDisabled = "disabled"
)

// StateRule maps a set of name keywords to an interaction state and the page it
// occupies on a component controller.
type StateRule struct {
	State    string   `yaml:"state" mapstructure:"state"`
	Page     int      `yaml:"page" mapstructure:"page"`
	Label    string   `yaml:"label" mapstructure:"label"` // controller page name
	Keywords []string `yaml:"keywords" mapstructure:"keywords"`
}

// Tables is the keyword configuration driving every name-based heuristic.
// Matching is a case-insensitive substring test. State rules are tried in
// order; the first rule with a matching keyword wins.
type Tables struct {
	Title    []string    `yaml:"title" mapstructure:"title"`
	Icon     []string    `yaml:"icon" mapstructure:"icon"`
	Bar      []string    `yaml:"bar" mapstructure:"bar"`
	Grip     []string    `yaml:"grip" mapstructure:"grip"`
	States   []StateRule `yaml:"states" mapstructure:"states"`
	Denylist []string    `yaml:"denylist" mapstructure:"denylist"` // glob patterns; plain entries match as substrings
}

// DefaultTables returns the built-in bilingual (English/Chinese) tables.
func DefaultTables() Tables {
	return Tables{
		Title: []string{"title", "label", "text", "caption", "标题", "文字", "文本"},
		Icon:  []string{"icon", "image", "img", "background", "bg", "图标", "图片", "背景"},
		Bar:   []string{"bar", "progress", "进度"},
		Grip:  []string{"grip", "thumb", "handle", "knob", "滑块"},
		States: []StateRule{
			{State: StateDisabled, Page: 4, Label: "disabled", Keywords: []string{"disabled", "disable", "inactive", "禁用", "不可用"}},
			{State: StateSelected, Page: 3, Label: "selectedOver", Keywords: []string{"selected", "checked", "选中", "已选"}},
			{State: StateDown, Page: 1, Label: "down", Keywords: []string{"pressed", "press", "down", "按下", "点击"}},
			{State: StateOver, Page: 2, Label: "over", Keywords: []string{"hover", "over", "悬停", "经过", "滑过"}},
			{State: StateNormal, Page: 0, Label: "up", Keywords: []string{"normal", "default", "idle", "正常", "默认", "普通"}},
		},
		Denylist: []string{"label_part", "label-inner", "@ignore"},
	}
}

// ButtonPages is the fixed page layout of a button controller.
var ButtonPages = []string{"up", "down", "over", "selectedOver"}
