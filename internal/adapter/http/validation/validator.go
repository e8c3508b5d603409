package validation

import (
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validator  *validator.Validate
	Translator ut.Translator
)

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Translator); err != nil {
		panic(err)
	}
}

// CheckVar runs a validator tag against a single value and returns the
// translated message of the first failure, or "" when the value passes.
// Field rules vary by profile, so they are applied with Var instead of
// static struct tags.
func CheckVar(value any, tag string) string {
	err := Validator.Var(value, tag)

	if err == nil {
		return ""
	}

	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return strings.TrimSpace(verrs[0].Translate(Translator))
	}

	return "is invalid"
}
