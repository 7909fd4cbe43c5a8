// Package forms decodes and validates the HTML forms posted to the web
// handlers. Each form reports at most one error per field, in the order the
// fields appear on the page.
package forms

import (
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// FlashPrefix starts every flashed validation message.
const FlashPrefix = "Error in form submission: "

// MsgRequired is the message for a missing value.
const MsgRequired = "This field is required."

var (
	decoder  = newDecoder()
	validate = newValidator()

	usernamePattern = regexp.MustCompile(`^[\w._]*$`)
)

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.ZeroEmpty(true)
	return d
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("schema"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("length", func(fl validator.FieldLevel) bool {
		lo, hi, ok := lengthBounds(fl.Param())
		if !ok {
			return false
		}
		n := utf8.RuneCountInString(fl.Field().String())
		return n >= lo && n <= hi
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// lengthBounds parses the "min-max" parameter of the length rule.
func lengthBounds(param string) (int, int, bool) {
	a, b, ok := strings.Cut(param, "-")
	if !ok {
		return 0, 0, false
	}
	lo, err1 := strconv.Atoi(a)
	hi, err2 := strconv.Atoi(b)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

// FieldError is a validation failure attached to one form field.
type FieldError struct {
	Field   string
	Message string
}

// Errors collects the first error of each field. Fields are reported in
// the order they were declared with newErrors.
type Errors struct {
	order []string
	by    map[string]string
}

func newErrors(fields ...string) Errors {
	return Errors{order: fields, by: map[string]string{}}
}

// Add records msg for field unless the field already has an error.
func (e *Errors) Add(field, msg string) {
	if e.by == nil {
		e.by = map[string]string{}
	}
	if _, ok := e.by[field]; ok {
		return
	}
	if !contains(e.order, field) {
		e.order = append(e.order, field)
	}
	e.by[field] = msg
}

// Has reports whether field failed validation.
func (e Errors) Has(field string) bool {
	_, ok := e.by[field]
	return ok
}

// Valid reports whether no field failed.
func (e Errors) Valid() bool {
	return len(e.by) == 0
}

// List returns the field errors in field order.
func (e Errors) List() []FieldError {
	out := make([]FieldError, 0, len(e.by))
	for _, f := range e.order {
		if msg, ok := e.by[f]; ok {
			out = append(out, FieldError{Field: f, Message: msg})
		}
	}
	return out
}

// Messages returns the flash text for each error, in field order.
func (e Errors) Messages() []string {
	list := e.List()
	out := make([]string, len(list))
	for i, fe := range list {
		out[i] = FlashPrefix + fe.Message
	}
	return out
}

// Choice is one option of a select field.
type Choice struct {
	Value    string
	Label    string
	Selected bool
}

// decode parses the posted body of r into dst.
func decode(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse form: %w", err)
	}
	if err := decoder.Decode(dst, r.PostForm); err != nil {
		return fmt.Errorf("decode form: %w", err)
	}
	return nil
}

// checkTags runs the struct tag rules of form and records one message per
// failing field.
func checkTags(form any, errs *Errors) {
	err := validate.Struct(form)
	if err == nil {
		return
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), tagMessage(fe))
	}
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "length":
		lo, hi, _ := lengthBounds(fe.Param())
		return fmt.Sprintf("Field must be between %d and %d characters long.", lo, hi)
	case "email":
		return "Invalid email address."
	case "username":
		return "Usernames can only contain letter, number, underscores, periods"
	case "eqfield":
		return "your passwords must match"
	default:
		return "Invalid value."
	}
}

// checkChoices verifies every selected value is among choices.
func checkChoices(field string, selected []string, choices []Choice, errs *Errors) {
	for _, v := range selected {
		if !hasChoice(choices, v) {
			errs.Add(field, fmt.Sprintf("'%s' is not a valid choice for this field", v))
			return
		}
	}
}

// markSelected flags the choices whose value is in selected.
func markSelected(choices []Choice, selected []string) []Choice {
	out := make([]Choice, len(choices))
	for i, c := range choices {
		c.Selected = contains(selected, c.Value)
		out[i] = c
	}
	return out
}

// ParseIDs converts selected choice values into row ids.
func ParseIDs(values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse id %q: %w", v, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func hasChoice(choices []Choice, v string) bool {
	for _, c := range choices {
		if c.Value == v {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
