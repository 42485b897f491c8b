package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	setupOnce sync.Once
	validate  *govalidator.Validate
	// trans is the singleton English translator for validation errors.
	trans ut.Translator
)

// Setup builds the validator engine with English translations.
// Call once during application startup; Check calls it lazily otherwise.
func Setup() {
	setupOnce.Do(func() {
		v := govalidator.New(govalidator.WithRequiredStructEnabled())

		// Use JSON tag name for field names in error messages.
		v.RegisterTagNameFunc(jsonName)

		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, trans)
		_ = v.RegisterTranslation("required", trans,
			func(t ut.Translator) error {
				return t.Add("required", "The {0} field is required.", true)
			},
			func(t ut.Translator, fe govalidator.FieldError) string {
				msg, _ := t.T("required", fe.Field())
				return msg
			},
		)

		validate = v
	})
}

// Error is a single failed rule. Only the first violated rule is reported.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validator runs declared field rules and store-backed uniqueness rules.
type Validator struct {
	checker UniquenessChecker
}

// New creates a Validator that looks up uniqueness through checker.
func New(checker UniquenessChecker) *Validator {
	Setup()
	return &Validator{checker: checker}
}

// Check validates req field by field, in declaration order. For each field
// a value Decode could not use is reported first, then the `validate` tag
// rules, then the uniqueness rules naming it.
// A failed rule yields *Error; storage failures are returned wrapped.
func (v *Validator) Check(ctx context.Context, req any, uniques ...Unique) error {
	var rejected *Fields
	if rec, ok := req.(fieldRecorder); ok {
		rejected = rec.fields()
	}

	fieldErrs := make(map[string]string)
	if err := validate.StructCtx(ctx, req); err != nil {
		var ve govalidator.ValidationErrors
		if !errors.As(err, &ve) {
			return err
		}
		for _, fe := range ve {
			if _, seen := fieldErrs[fe.Field()]; !seen {
				fieldErrs[fe.Field()] = fe.Translate(trans)
			}
		}
	}

	rv := reflect.Indirect(reflect.ValueOf(req))
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		name := jsonName(rt.Field(i))
		if name == "" {
			continue
		}
		if msg, ok := rejected.message(name); ok {
			return &Error{Field: name, Message: msg}
		}
		if msg, ok := fieldErrs[name]; ok {
			return &Error{Field: name, Message: msg}
		}
		for _, u := range uniques {
			if u.Field != name {
				continue
			}
			value := fmt.Sprint(rv.Field(i).Interface())
			ok, err := v.checker.IsUniqueWithin(ctx, u.Scope, u.Field, value, u.ExcludeID)
			if err != nil {
				return fmt.Errorf("check %s uniqueness: %w", u.Field, err)
			}
			if !ok {
				return &Error{Field: name, Message: u.ErrorMessage()}
			}
		}
	}
	return nil
}

// ErrMalformedBody is returned by Bind when the body is not a JSON object.
var ErrMalformedBody = errors.New("request body is not a JSON object")

// Bind decodes the JSON object body of c into dst. See Decode.
func Bind(c *gin.Context, dst any) error {
	body, err := c.GetRawData()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return Decode(body, dst)
}

// Decode fills the fields of the struct dst points to from a JSON object,
// one field at a time. Strings are trimmed. A value of the wrong type leaves
// its field zero; when dst embeds Fields the failure is kept for Check to
// report in field order, otherwise it is returned as *Error. An empty body
// leaves dst untouched.
func Decode(body []byte, dst any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return ErrMalformedBody
	}

	rec, _ := dst.(fieldRecorder)
	rv := reflect.ValueOf(dst).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		name := jsonName(rt.Field(i))
		raw, ok := obj[name]
		if name == "" || !ok || isNull(raw) {
			continue
		}

		fv := rv.Field(i)
		if err := json.Unmarshal(raw, fv.Addr().Interface()); err != nil {
			fv.Set(reflect.Zero(fv.Type()))
			msg := fmt.Sprintf("The %s must be %s.", name, describeKind(fv.Type()))
			if rec == nil {
				return &Error{Field: name, Message: msg}
			}
			rec.fields().reject(name, msg)
			continue
		}
		if fv.Kind() == reflect.String {
			fv.SetString(strings.TrimSpace(fv.String()))
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func describeKind(t reflect.Type) string {
	if t == nil {
		return "valid"
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.Bool:
		return "true or false"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Ptr:
		return describeKind(t.Elem())
	default:
		return "valid"
	}
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
