package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/topnlists/topn/pkg/config"
	"github.com/topnlists/topn/pkg/database"
	"github.com/topnlists/topn/pkg/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, database.Configure(db, 0))

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

type testClient struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()

	srv, err := New(config.NewForTest(), setupTestDB(t))
	require.NoError(t, err)

	return &testClient{t: t, handler: srv.Handler}
}

func (tc *testClient) do(method, path, body string) *httptest.ResponseRecorder {
	tc.t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.token != "" {
		req.Header.Set("Authorization", "Bearer "+tc.token)
	}
	rr := httptest.NewRecorder()
	tc.handler.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decode(t, rr, &body)
	return body.Error.Code
}

func TestServer_ListLifecycle(t *testing.T) {
	tc := newTestClient(t)

	rr := tc.do(http.MethodPost, "/auth/signup", `{"username":"alice","password":"password123"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var session struct {
		Token string `json:"token"`
	}
	decode(t, rr, &session)
	require.NotEmpty(t, session.Token)

	// anonymous writes are rejected before any template is created
	rr = tc.do(http.MethodPost, "/templates/resolve", `{"category":"movies","genre":"horror","size":10}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "unauthorized", errorCode(t, rr))

	tc.token = session.Token

	rr = tc.do(http.MethodPost, "/lists", `{"category":"movies","genre":"horror","size":10}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var list struct {
		ID         int    `json:"id"`
		ShareToken string `json:"share_token"`
		Template   struct {
			DisplayName string `json:"display_name"`
		} `json:"template"`
	}
	decode(t, rr, &list)
	assert.Equal(t, "Top 10 Horrors", list.Template.DisplayName)

	itemsPath := fmt.Sprintf("/lists/%d/items", list.ID)
	var ids []int
	for _, title := range []string{"Halloween", "The Thing", "Alien"} {
		rr = tc.do(http.MethodPost, itemsPath, fmt.Sprintf(`{"title":%q}`, title))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		var item struct {
			ID int `json:"id"`
		}
		decode(t, rr, &item)
		ids = append(ids, item.ID)
	}

	rr = tc.do(http.MethodDelete, fmt.Sprintf("%s/%d", itemsPath, ids[1]), "")
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = tc.do(http.MethodPost, itemsPath+"/batch", `{"items":[{"title":"Scream"}],"expected_existing_count":3}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "stale_list", errorCode(t, rr))

	rr = tc.do(http.MethodGet, itemsPath, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var items struct {
		Items []struct {
			Title string `json:"title"`
			Rank  int    `json:"rank"`
		} `json:"items"`
	}
	decode(t, rr, &items)
	require.Len(t, items.Items, 2)
	assert.Equal(t, "Halloween", items.Items[0].Title)
	assert.Equal(t, 1, items.Items[0].Rank)
	assert.Equal(t, "Alien", items.Items[1].Title)
	assert.Equal(t, 2, items.Items[1].Rank)

	rr = tc.do(http.MethodPost, "/lists", `{"category":"movies","genre":"horror","size":10}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "duplicate_list", errorCode(t, rr))

	tc.token = ""
	rr = tc.do(http.MethodGet, "/shared/"+list.ShareToken, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = tc.do(http.MethodGet, "/users/alice", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestServer_InvalidFilter(t *testing.T) {
	tc := newTestClient(t)

	rr := tc.do(http.MethodPost, "/templates/preview", `{"category":"movies","decade":"1890s","size":10}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "invalid_filter", errorCode(t, rr))
}

func TestServer_NotFound(t *testing.T) {
	tc := newTestClient(t)

	rr := tc.do(http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "not_found", errorCode(t, rr))
}

func TestServer_Metrics(t *testing.T) {
	tc := newTestClient(t)

	rr := tc.do(http.MethodGet, "/templates", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = tc.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "topn_api_requests_total")
}

func TestServer_TestRoutes(t *testing.T) {
	tc := newTestClient(t)

	rr := tc.do(http.MethodPost, "/test/users", `{"username":"fixture","password":"password123"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = tc.do(http.MethodPost, "/auth/login", `{"username":"fixture","password":"password123"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = tc.do(http.MethodDelete, "/test/data", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var reset struct {
		Users int `json:"users"`
	}
	decode(t, rr, &reset)
	assert.Equal(t, 1, reset.Users)
}
