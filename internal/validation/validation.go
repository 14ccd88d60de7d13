// Package validation holds the per-field rule chains applied to product
// requests. Each rule is an independent predicate with its message; every
// failing rule contributes one Error, in declaration order.
package validation

// Location tells where a field is read from.
type Location string

const (
	LocationParams Location = "params"
	LocationBody   Location = "body"
)

// Error is a single field-level rule failure as returned to clients.
type Error struct {
	Type     string   `json:"type"`
	Value    any      `json:"value,omitempty"`
	Msg      string   `json:"msg"`
	Path     string   `json:"path"`
	Location Location `json:"location"`
}

// Value is the raw input of a field. Present is false when the key is absent.
type Value struct {
	Raw     any
	Present bool
}

// Rule pairs a predicate with the message reported when it fails.
type Rule struct {
	Check   func(v Value) bool
	Message string
}

// Field is an ordered rule chain bound to one request field.
type Field struct {
	Name     string
	Location Location
	Rules    []Rule
}

// Param declares a rule chain for a path parameter.
func Param(name string, rules ...Rule) Field {
	return Field{Name: name, Location: LocationParams, Rules: rules}
}

// Body declares a rule chain for a JSON body field.
func Body(name string, rules ...Rule) Field {
	return Field{Name: name, Location: LocationBody, Rules: rules}
}

// Check evaluates every rule of the chain against v without short-circuiting.
func (f Field) Check(v Value) []Error {
	var errs []Error
	for _, rule := range f.Rules {
		if rule.Check(v) {
			continue
		}
		errs = append(errs, Error{
			Type:     "field",
			Value:    v.Raw,
			Msg:      rule.Message,
			Path:     f.Name,
			Location: f.Location,
		})
	}
	return errs
}

// Run checks each field against its value from lookup, preserving field order.
func Run(fields []Field, lookup func(Field) Value) []Error {
	var errs []Error
	for _, f := range fields {
		errs = append(errs, f.Check(lookup(f))...)
	}
	return errs
}
