package binder

import (
	"net/url"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/topnlists/topn/pkg/categories"
	"github.com/topnlists/topn/pkg/filters"
)

var usernameRE = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// categoryValidator accepts a known category slug or the empty string, so it
// can be used on optional query filters. Add `required` to disallow empty.
func categoryValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || categories.IsValid(value)
}

func listSizeValidator(fl validator.FieldLevel) bool {
	return filters.IsValidSize(int(fl.Field().Int()))
}

// webURLValidator accepts absolute http(s) URLs or the empty string, which
// clears the value.
func webURLValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func usernameValidator(fl validator.FieldLevel) bool {
	return usernameRE.MatchString(fl.Field().String())
}
