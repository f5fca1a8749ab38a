package weather

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const cityPunctuation = ".-',"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("cityname", isCityName); err != nil {
		panic(err)
	}
	return v
}

// isCityName accepts letters, whitespace and . - ' , only.
func isCityName(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if unicode.IsLetter(r) || unicode.IsSpace(r) || strings.ContainsRune(cityPunctuation, r) {
			continue
		}
		return false
	}
	return true
}

// ValidateCity returns an InvalidInput error when city is blank or contains
// characters outside letters, whitespace and . - ' ,
func ValidateCity(city string) error {
	if err := validate.Var(strings.TrimSpace(city), "required"); err != nil {
		return &Error{Kind: InvalidInput, Detail: "City name cannot be empty.", Err: err}
	}
	if err := validate.Var(city, "cityname"); err != nil {
		return &Error{Kind: InvalidInput, Detail: "City name contains invalid characters.", Err: err}
	}
	return nil
}
