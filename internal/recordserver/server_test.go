package recordserver

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapeview/internal/record"
)

func newApp(t *testing.T) (*fiber.App, *record.Store) {
	t.Helper()
	store, err := record.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(store, Options{Quiet: true}), store
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func listURL(app int, query string, total bool) string {
	q := url.Values{}
	q.Set("app", strconv.Itoa(app))
	if query != "" {
		q.Set("query", query)
	}
	if total {
		q.Set("totalCount", "true")
	}
	return "/k/v1/records.json?" + q.Encode()
}

func TestHealth(t *testing.T) {
	app, _ := newApp(t)
	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"alive"}`, string(body))

	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, status)
}

func TestAddThenList(t *testing.T) {
	app, _ := newApp(t)

	post := func(body string) (int, []byte) {
		req := httptest.NewRequest(http.MethodPost, "/k/v1/record.json", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return do(t, app, req)
	}
	status, body := post(`{"app":3,"record":{"shapeType":{"value":"Cube"},"key":{"value":"c1"},"length":{"value":"4"},"width":{"value":"2"},"depth":{"value":"1"}}}`)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.JSONEq(t, `{"id":"1","revision":"1"}`, string(body))

	status, _ = post(`{"app":3,"record":{"shapeType":{"value":"Torus"},"length":{"value":10},"width":{"value":3},"depth":{"value":16}}}`)
	require.Equal(t, http.StatusOK, status)

	status, body = do(t, app, httptest.NewRequest(http.MethodGet, listURL(3, "order by $id asc limit 500 offset 0", true), nil))
	require.Equal(t, http.StatusOK, status)
	var resp record.KintoneResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Len(t, resp.Records, 2)
	require.NotNil(t, resp.TotalCount)
	assert.Equal(t, "2", *resp.TotalCount)

	first := resp.Records[0].ShapeRecord()
	assert.Equal(t, record.ShapeRecord{ShapeType: "Cube", Key: "c1", Length: "4", Width: "2", Depth: "1"}, first)
	second := resp.Records[1].ShapeRecord()
	assert.Equal(t, "Torus", second.ShapeType)
	assert.Equal(t, "10", second.Length)
	assert.Len(t, second.Key, 36, "generated key is a UUID")
}

func TestAddRejectsBadBodies(t *testing.T) {
	app, _ := newApp(t)
	for _, body := range []string{"", "{", `{"record":{"shapeType":{"value":"Cube"}}}`, `{"app":1,"record":{}}`} {
		req := httptest.NewRequest(http.MethodPost, "/k/v1/record.json", strings.NewReader(body))
		status, _ := do(t, app, req)
		assert.Equal(t, http.StatusBadRequest, status, body)
	}
}

func TestListPaging(t *testing.T) {
	app, store := newApp(t)
	ctx := context.Background()
	for range 5 {
		_, _, err := store.Insert(ctx, 1, record.ShapeRecord{ShapeType: "Cube", Length: "1", Width: "1", Depth: "1"})
		require.NoError(t, err)
	}

	_, body := do(t, app, httptest.NewRequest(http.MethodGet, listURL(1, "limit 2 offset 3", false), nil))
	var resp record.KintoneResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Len(t, resp.Records, 2)
	assert.Nil(t, resp.TotalCount)
	assert.Equal(t, "4", resp.Records[0]["$id"].Value)

	status, _ := do(t, app, httptest.NewRequest(http.MethodGet, listURL(1, "limit 501", false), nil))
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/k/v1/records.json", nil))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRecordsRoundTripThroughKintoneSource(t *testing.T) {
	app, store := newApp(t)
	ctx := context.Background()
	_, _, err := store.Insert(ctx, 7, record.ShapeRecord{ShapeType: "Cube", Key: "k", Length: "1", Width: "2", Depth: "3"})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true}) }()
	defer func() { _ = app.Shutdown() }()

	recs, err := record.NewKintone("http://"+ln.Addr().String(), 7, "").Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []record.ShapeRecord{{ShapeType: "Cube", Key: "k", Length: "1", Width: "2", Depth: "3"}}, recs)
}

func TestParseQuery(t *testing.T) {
	limit, offset := parseQuery("order by $id asc limit 500 offset 1000")
	assert.Equal(t, 500, limit)
	assert.Equal(t, 1000, offset)

	limit, offset = parseQuery("")
	assert.Equal(t, 100, limit)
	assert.Zero(t, offset)
}

func TestSeed(t *testing.T) {
	store, err := record.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "records.yaml")
	require.NoError(t, os.WriteFile(path, []byte("records:\n  - shapeType: Cube\n    length: \"1\"\n  - shapeType: Torus\n    length: \"5\"\n"), 0644))

	n, err := Seed(ctx, store, 1, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = Seed(ctx, store, 1, path)
	require.NoError(t, err)
	assert.Zero(t, n, "seeding skips an app that already has records")

	n, err = Seed(ctx, store, 2, filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Zero(t, n)
}
