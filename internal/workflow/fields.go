package workflow

import "github.com/campus-events/event-reg/internal/cascade"

type Kind string

const (
	KindText   Kind = "text"
	KindEmail  Kind = "email"
	KindSelect Kind = "select"
)

const (
	FieldFullName   = "full_name"
	FieldEmail      = "email"
	FieldCollege    = "college"
	FieldDepartment = "department"
	FieldCategory   = cascade.FieldCategory
	FieldEventDate  = cascade.FieldEventDate
	FieldEventName  = cascade.FieldEventName
)

// Field describes one input of the registration form. Options is only set
// for selects; DependsOn names the upstream fields whose change requires the
// options to be resolved again.
type Field struct {
	Name      string           `json:"name"`
	Label     string           `json:"label"`
	Kind      Kind             `json:"kind"`
	Required  bool             `json:"required"`
	DependsOn []string         `json:"depends_on,omitempty"`
	Options   []cascade.Option `json:"options,omitempty"`
}

// fieldSpecs is the form layout in display order.
var fieldSpecs = []Field{
	{Name: FieldFullName, Label: "Full Name", Kind: KindText, Required: true},
	{Name: FieldEmail, Label: "Email Address", Kind: KindEmail, Required: true},
	{Name: FieldCollege, Label: "College Name", Kind: KindText, Required: true},
	{Name: FieldDepartment, Label: "Department", Kind: KindText, Required: true},
	{Name: FieldCategory, Label: "Category", Kind: KindSelect, Required: true},
	{Name: FieldEventDate, Label: "Event Date", Kind: KindSelect, Required: true, DependsOn: []string{FieldCategory}},
	{Name: FieldEventName, Label: "Event Name", Kind: KindSelect, Required: true, DependsOn: []string{FieldCategory, FieldEventDate}},
}

func label(name string) string {
	for _, f := range fieldSpecs {
		if f.Name == name {
			return f.Label
		}
	}
	return name
}

func fieldIndex(name string) int {
	for i, f := range fieldSpecs {
		if f.Name == name {
			return i
		}
	}
	return len(fieldSpecs)
}
