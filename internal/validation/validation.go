package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// htmlTagPattern matches anything that looks like an HTML tag. Free-text
// fields reject matches regardless of length.
var htmlTagPattern = regexp.MustCompile(`<("[^"]*"|'[^']*'|[^'">])*>`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report errors under the json field name so handlers can return the
	// field-keyed envelope directly.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("nohtml", func(fl validator.FieldLevel) bool {
		return !htmlTagPattern.MatchString(fl.Field().String())
	})

	return v
}

// ContainsHTML reports whether s contains an HTML tag pattern.
func ContainsHTML(s string) bool {
	return htmlTagPattern.MatchString(s)
}

// Struct validates v and returns a field-to-message map, or nil when the
// value is valid.
func Struct(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"request": "Invalid request."}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	label := fieldLabel(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", label)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long.", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long.", label, fe.Param())
	case "email":
		return "Enter a valid email address."
	case "nohtml":
		return "HTML is not allowed."
	}
	return fmt.Sprintf("%s is invalid.", label)
}

// fieldLabel derives a human-readable label for the failing field. The
// shared "text" field reads as Post or Comment depending on which
// request struct it came from.
func fieldLabel(fe validator.FieldError) string {
	if fe.Field() == "text" {
		root := strings.SplitN(fe.StructNamespace(), ".", 2)[0]
		if strings.HasPrefix(root, "Comment") {
			return "Comment"
		}
		return "Post"
	}
	name := fe.Field()
	return strings.ToUpper(name[:1]) + name[1:]
}
