package binder

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type params struct {
	Hello string `json:"hello" mod:"trim" validate:"max=9"`
	Omit  string `json:"-"`
}

var (
	goodJSON             = `{"hello":" world "}`
	unknownFieldsErrJSON = `{"hello":"world","foo":"bar"}`
	typeErrJSON          = `{"hello":123}`
	validationErrJSON    = `{"hello":"0123456789"}`
)

func TestNew(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)
	assert.NotNil(t, b)

	t.Run("only allows application/json and application/x-www-form-urlencoded", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationXML)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "Unsupported Media Type")
	})

	t.Run("disallows unknown fields", func(tt *testing.T) {
		c := newContext(unknownFieldsErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "foo"`)
	})

	t.Run("returns a good message for type errors", func(tt *testing.T) {
		c := newContext(typeErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), `"hello" should be of type string`)
	})

	t.Run("use mod tag to modify params", func(tt *testing.T) {
		c := newContext(goodJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		require.NoError(tt, err)
		assert.Equal(tt, "world", p.Hello)
	})

	t.Run("use validate tag to validate params", func(tt *testing.T) {
		c := newContext(validationErrJSON, echo.MIMEApplicationJSON)
		p := params{}
		err = b.Bind(&p, c)
		assert.Contains(tt, err.Error(), "length must be less than or equal to 9 characters")
	})
}

type domainParams struct {
	Category  string `json:"category" validate:"category"`
	Size      int    `json:"size" validate:"list_size"`
	AvatarURL string `json:"avatar_url" validate:"web_url"`
	Username  string `json:"username" validate:"omitempty,username"`
}

func TestDomainValidators(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	cases := []struct {
		name    string
		payload string
		errMsg  string
	}{
		{"valid", `{"category":"tv","size":25,"avatar_url":"https://example.com/a.png","username":"rank_fan"}`, ""},
		{"empty category allowed", `{"size":5}`, ""},
		{"unknown category", `{"category":"vinyl","size":5}`, `"category" must be one of the following`},
		{"bad size", `{"category":"tv","size":7}`, `"size" must be one of the following: 5, 10, 25, 50`},
		{"non-http url", `{"size":5,"avatar_url":"javascript:alert(1)"}`, `"avatar_url" must be an http or https URL`},
		{"bad username", `{"size":5,"username":"no spaces"}`, `"username" may only contain letters`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(tt *testing.T) {
			c := newContext(tc.payload, echo.MIMEApplicationJSON)
			p := domainParams{}
			err := b.Bind(&p, c)
			if tc.errMsg == "" {
				assert.NoError(tt, err)
				return
			}
			require.Error(tt, err)
			assert.Contains(tt, err.Error(), tc.errMsg)
		})
	}
}

type queryParams struct {
	Category string `query:"category" validate:"category"`
	Limit    int    `query:"limit" default:"24" validate:"min=1,max=100"`
}

func TestBindQuery(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	t.Run("decodes query and applies defaults", func(tt *testing.T) {
		c := newQueryContext("/?category=books")
		p := queryParams{}
		require.NoError(tt, b.Bind(&p, c))
		assert.Equal(tt, "books", p.Category)
		assert.Equal(tt, 24, p.Limit)
	})

	t.Run("reports type errors", func(tt *testing.T) {
		c := newQueryContext("/?limit=lots")
		p := queryParams{}
		err := b.Bind(&p, c)
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), `"limit" should be of type int`)
	})

	t.Run("rejects unknown parameters", func(tt *testing.T) {
		c := newQueryContext("/?sort=asc")
		p := queryParams{}
		err := b.Bind(&p, c)
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), `Unknown Parameter "sort"`)
	})
}

func TestEmptyBody(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	c := newContext("", echo.MIMEApplicationJSON)
	p := params{}
	err = b.Bind(&p, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Request body can't be empty.")
}

func newQueryContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.GET, target, nil)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}

func newContext(payload, mime string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.POST, "/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, mime)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}
