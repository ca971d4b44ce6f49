package usecase

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/xavierca1/lead-intake/internal/entity"
)

// one "@", something on both sides, and a dot inside the domain
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func NewValidator() *Validator {
	enLoc := en.New()
	uni := ut.New(enLoc, enLoc)
	trans, _ := uni.GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names, the ones the form posts
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		if tag == "" || tag == "-" {
			return fld.Name
		}
		return tag
	})

	_ = en_translations.RegisterDefaultTranslations(v, trans)

	_ = v.RegisterValidation("leademail", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	_ = v.RegisterTranslation("leademail", trans,
		func(t ut.Translator) error {
			return t.Add("leademail", "{0} must be a valid email address", true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T("leademail", fe.Field())
			return msg
		},
	)

	return &Validator{validate: v, trans: trans}
}

// Decode parses a raw form body for the given form type, normalizes it and
// checks the required-field set. Any failure is a *ValidationError.
func (v *Validator) Decode(ft entity.FormType, payload []byte) (entity.Submission, error) {
	f := newForm(ft)
	if f == nil {
		return entity.Submission{}, newValidationError([]FieldError{{Field: "formType", Message: "formType is not supported"}})
	}

	if len(bytes.TrimSpace(payload)) == 0 {
		return entity.Submission{}, newValidationError([]FieldError{{Field: "body", Message: "request body is required"}})
	}

	if err := json.Unmarshal(payload, f); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return entity.Submission{}, newValidationError([]FieldError{{Field: typeErr.Field, Message: typeErr.Field + " has the wrong type"}})
		}
		return entity.Submission{}, newValidationError([]FieldError{{Field: "body", Message: "body must be a valid JSON object"}})
	}

	f.normalize()

	if verr := v.Struct(f); verr != nil {
		return entity.Submission{}, verr
	}

	sub := f.submission()
	sub.FormType = ft
	return sub, nil
}

// Struct runs the tag rules on s and converts failures into field errors.
func (v *Validator) Struct(s any) *ValidationError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return newValidationError([]FieldError{{Field: "body", Message: err.Error()}})
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: fe.Translate(v.trans)})
	}
	return newValidationError(fields)
}
