package model

// Element is the serializable form of a tree node. Fixtures describe a
// whole desktop as nested Elements.
type Element struct {
	ID           string      `yaml:"id,omitempty"            json:"id,omitempty"            jsonschema:"description=Reference target for labelled_by/controlled_by"`
	Role         string      `yaml:"role"                    json:"role"`
	Name         string      `yaml:"name,omitempty"          json:"name,omitempty"`
	Description  string      `yaml:"description,omitempty"   json:"description,omitempty"`
	LabelledBy   string      `yaml:"labelled_by,omitempty"   json:"labelled_by,omitempty"`
	ControlledBy string      `yaml:"controlled_by,omitempty" json:"controlled_by,omitempty"`
	States       []string    `yaml:"states,omitempty"        json:"states,omitempty"`
	Actions      []string    `yaml:"actions,omitempty"       json:"actions,omitempty"`
	Text         *string     `yaml:"text,omitempty"          json:"text,omitempty"`
	Editable     bool        `yaml:"editable,omitempty"      json:"editable,omitempty"`
	Value        *ValueRange `yaml:"value,omitempty"         json:"value,omitempty"`
	Table        *TableShape `yaml:"table,omitempty"         json:"table,omitempty"`
	Selectable   bool        `yaml:"selectable,omitempty"    json:"selectable,omitempty"`
	Bounds       *Rect       `yaml:"bounds,omitempty"        json:"bounds,omitempty"`
	Children     []*Element  `yaml:"children,omitempty"      json:"children,omitempty"`
}

// ValueRange describes a numeric value capability.
type ValueRange struct {
	Current   float64 `yaml:"current"             json:"current"`
	Min       float64 `yaml:"min"                 json:"min"`
	Max       float64 `yaml:"max"                 json:"max"`
	Increment float64 `yaml:"increment,omitempty" json:"increment,omitempty"`
}

// TableShape describes a table capability. Cells are the element's
// children in row-major order.
type TableShape struct {
	Rows    int `yaml:"rows"    json:"rows"`
	Columns int `yaml:"columns" json:"columns"`
}

// Application groups the top-level windows of one running program.
type Application struct {
	Name    string     `yaml:"name"    json:"name"`
	Windows []*Element `yaml:"windows" json:"windows"`
}

// Desktop is the root of a fixture document.
type Desktop struct {
	Applications []*Application `yaml:"applications" json:"applications"`
}

// StringPtr returns a pointer to s, for fixture text fields.
func StringPtr(s string) *string { return &s }
