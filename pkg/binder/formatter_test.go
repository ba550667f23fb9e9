package binder

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValidationError(t *testing.T) {
	t.Parallel()

	b, err := New()
	require.NoError(t, err)

	cases := []struct {
		name  string
		value interface{}
		msg   string
	}{
		{"required", struct {
			Title string `json:"title" validate:"required"`
		}{}, `"title" is required`},
		{"string max", struct {
			Title string `json:"title" validate:"max=3"`
		}{"Alien"}, `"title" length must be less than or equal to 3 characters`},
		{"string min singular", struct {
			Q string `query:"q" validate:"min=1"`
		}{}, `"q" length must be greater than or equal to 1 character`},
		{"int max", struct {
			Limit int `query:"limit" validate:"max=50"`
		}{51}, `"limit" must be less than or equal to 50`},
		{"int min", struct {
			Year int `json:"year" validate:"min=1000"`
		}{999}, `"year" must be greater than or equal to 1000`},
		{"slice max", struct {
			Items []int `json:"items" validate:"max=2"`
		}{[]int{1, 2, 3}}, `"items" length must be less than or equal to 2 elements`},
		{"slice min singular", struct {
			ItemIDs []int `json:"item_ids" validate:"min=1"`
		}{[]int{}}, `"item_ids" length must be greater than or equal to 1 element`},
		{"gt", struct {
			Size int `json:"size" validate:"gt=0"`
		}{0}, `"size" must be greater than 0`},
		{"ne", struct {
			Genre string `json:"genre" validate:"ne=none"`
		}{"none"}, `"genre" can't be "none"`},
		{"oneof", struct {
			Sort string `query:"sort" validate:"oneof=top new"`
		}{"old"}, `"sort" must be one of the following: "top", "new"`},
		{"category", struct {
			Category string `json:"category" validate:"category"`
		}{"polka"}, `"category" must be one of the following: "movies", "tv", "books", "games", "music", "podcasts", "cocktails", "breweries", "anime"`},
		{"list size", struct {
			Size int `json:"size" validate:"list_size"`
		}{7}, `"size" must be one of the following: 5, 10, 25, 50`},
		{"username", struct {
			Username string `json:"username" validate:"username"`
		}{"no spaces!"}, `"username" may only contain letters, numbers, and underscores`},
		{"web url", struct {
			CoverImage string `json:"cover_image" validate:"web_url"`
		}{"ftp://example.com/x.jpg"}, `"cover_image" must be an http or https URL`},
		{"fallback", struct {
			Email string `json:"email" validate:"email"`
		}{"nope"}, `"email" is invalid`},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := b.validate.Struct(tt.value)
			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Equal(t, tt.msg, formatValidationError(errs[0]))
		})
	}
}
