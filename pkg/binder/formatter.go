package binder

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	timepkg "time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/segmentio/encoding/json"
	"github.com/topnlists/topn/pkg/categories"
	"github.com/topnlists/topn/pkg/filters"
)

const (
	category = "category"
	gt       = "gt"
	gte      = "gte"
	listSize = "list_size"
	mx       = "max"
	mn       = "min"
	ne       = "ne"
	oneof    = "oneof"
	required = "required"
	username = "username"
	webURL   = "web_url"
)

var (
	timeType = reflect.TypeOf(timepkg.Time{})
)

func formatUnmarshalTypeError(err *json.UnmarshalTypeError) string {
	return fmt.Sprintf("%q should be of type %s", strings.Trim(err.Field, "."), err.Type)
}

func formatSchemaConversionError(err schema.ConversionError) string {
	return fmt.Sprintf("%q should be of type %s", err.Key, err.Type)
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case category:
		return fmt.Sprintf("%q must be one of the following: %s", field, quoteAll(categories.Slugs()))
	case gt:
		v := err.Param()
		if v == "" && err.Type() == timeType {
			v = "now"
		}
		return fmt.Sprintf("%q must be greater than %s", field, v)
	case gte:
		v := err.Param()
		if v == "" && err.Type() == timeType {
			v = "now"
		}
		return fmt.Sprintf("%q must be greater than or equal to %s", field, v)
	case listSize:
		sizes := []string{}
		for _, n := range filters.Vocab().Sizes {
			sizes = append(sizes, strconv.Itoa(n))
		}
		return fmt.Sprintf("%q must be one of the following: %s", field, strings.Join(sizes, ", "))
	case mx:
		return formatBound(err, "less than or equal to")
	case mn:
		return formatBound(err, "greater than or equal to")
	case ne:
		return fmt.Sprintf("%q can't be %q", field, err.Param())
	case oneof:
		return fmt.Sprintf("%q must be one of the following: %s", field, quoteAll(strings.Fields(err.Param())))
	case required:
		return fmt.Sprintf("%q is required", field)
	case username:
		return fmt.Sprintf("%q may only contain letters, numbers, and underscores", field)
	case webURL:
		return fmt.Sprintf("%q must be an http or https URL", field)
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}

// formatBound words a min/max failure by kind: numbers compare by value,
// slices by element count and everything else by character count.
func formatBound(err validator.FieldError, comparison string) string {
	field := err.Field()

	unit := ""
	//exhaustive:ignore
	switch err.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%q must be %s %s", field, comparison, err.Param())
	case reflect.Slice:
		unit = "element"
	default:
		unit = "character"
	}
	if err.Param() != "1" {
		unit += "s"
	}
	return fmt.Sprintf("%q length must be %s %s %s", field, comparison, err.Param(), unit)
}

func quoteAll(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, fmt.Sprintf("%q", v))
	}
	return strings.Join(quoted, ", ")
}
