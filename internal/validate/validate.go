// Package validate checks user input before it reaches the gallery service.
// Failures come back as FieldErrors keyed by form field.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// MaxUploadFiles caps a single upload batch.
const MaxUploadFiles = 12

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, f[k]))
	}
	return strings.Join(parts, "; ")
}

// First returns the message of the alphabetically first field, for callers
// that can only show one line.
func (f FieldErrors) First() string {
	first := ""
	for k := range f {
		if first == "" || k < first {
			first = k
		}
	}
	return f[first]
}

// Fields extracts FieldErrors from err, or nil.
func Fields(err error) FieldErrors {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}

var (
	titlePattern    = regexp.MustCompile(`^[A-Za-z0-9 ]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_ ]+$`)
	digitsPattern   = regexp.MustCompile(`^[0-9]+$`)
)

const passwordSpecials = "!@#$%^&*"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	rules := map[string]func(string) bool{
		"title":    titlePattern.MatchString,
		"username": usernamePattern.MatchString,
		"digits":   digitsPattern.MatchString,
		"nonblank": func(s string) bool { return strings.TrimSpace(s) != "" },
		"distinct": func(s string) bool { return !allSameRune(s) },
		"haslower": func(s string) bool { return strings.IndexFunc(s, unicode.IsLower) >= 0 },
		"hasupper": func(s string) bool { return strings.IndexFunc(s, unicode.IsUpper) >= 0 },
		"hasdigit": func(s string) bool { return strings.IndexFunc(s, unicode.IsDigit) >= 0 },
		"hasspecial": func(s string) bool {
			return strings.ContainsAny(s, passwordSpecials)
		},
		"image": func(s string) bool {
			return strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "image/")
		},
	}
	for tag, fn := range rules {
		mustRegister(v, tag, fn)
	}
	return v
}

// mustRegister adds a string rule under tag. A tag the validator refuses is
// a programming error.
func mustRegister(v *validator.Validate, tag string, fn func(string) bool) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("validate: register %q: %v", tag, err))
	}
}

func allSameRune(s string) bool {
	if s == "" {
		return false
	}
	first := []rune(s)[0]
	for _, r := range s {
		if r != first {
			return false
		}
	}
	return true
}

// check validates form and converts failures to messages via table, which is
// keyed by "field.tag" with "field" as the fallback.
func check(form any, table map[string]string) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate form: %w", err)
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		msg, ok := table[field+"."+fe.Tag()]
		if !ok {
			msg, ok = table[field]
		}
		if !ok {
			msg = fmt.Sprintf("%s is invalid", field)
		}
		out[field] = msg
	}
	return out
}
