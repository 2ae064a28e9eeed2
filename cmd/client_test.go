package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seen struct {
	method, path, query, body string
}

func fakeEngine(t *testing.T, reply string) (*httptest.Server, *[]seen) {
	t.Helper()
	var got []seen
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = append(got, seen{r.Method, r.URL.Path, r.URL.RawQuery, string(b)})
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(ts.Close)
	return ts, &got
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"ES_SERVER", "ES_INDEX", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	ts, got := fakeEngine(t, `{"hits":{"total":1}}`)

	out, err := run(t, "", "search", "--es-server", ts.URL, "--es-index", "articles", "--type", "post", "--size", "5", "title:go")
	require.NoError(t, err)
	assert.JSONEq(t, `{"hits":{"total":1}}`, out)

	require.Len(t, *got, 1)
	assert.Equal(t, seen{http.MethodGet, "/articles/post/_search", "q=title%3Ago&size=5", ""}, (*got)[0])
}

func TestSearchAllCommand(t *testing.T) {
	ts, got := fakeEngine(t, `{}`)

	_, err := run(t, "", "search", "--es-server", ts.URL, "--es-index", "articles", "go")
	require.NoError(t, err)
	require.Len(t, *got, 1)
	assert.Equal(t, "/articles/_search", (*got)[0].path)
	assert.Equal(t, "q=go", (*got)[0].query)
}

func TestAddCommandReadsStdin(t *testing.T) {
	ts, got := fakeEngine(t, `{"created":true}`)
	doc := `{"title": "go"}`

	_, err := run(t, doc, "add", "--es-server", ts.URL, "--es-index", "articles", "--data", "@-", "post", "42")
	require.NoError(t, err)
	require.Len(t, *got, 1)
	assert.Equal(t, seen{http.MethodPut, "/articles/post/42", "", doc}, (*got)[0])
}

func TestCreateCommandReadsFile(t *testing.T) {
	ts, got := fakeEngine(t, `{"acknowledged":true}`)
	path := filepath.Join(t.TempDir(), "mapping.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mappings":{}}`), 0o600))

	_, err := run(t, "", "create", "--es-server", ts.URL, "--es-index", "articles", "--data", "@"+path)
	require.NoError(t, err)
	require.Len(t, *got, 1)
	assert.Equal(t, seen{http.MethodPut, "/articles", "", `{"mappings":{}}`}, (*got)[0])
}

func TestSimilarCommand(t *testing.T) {
	ts, got := fakeEngine(t, `{}`)

	_, err := run(t, "", "similar", "--es-server", ts.URL, "--es-index", "articles",
		"--fields", "mlt_fields=title", "--data", `{"size":3}`, "post", "42")
	require.NoError(t, err)
	require.Len(t, *got, 1)
	assert.Equal(t, seen{http.MethodPost, "/articles/post/42/_mlt", "mlt_fields=title", `{"size":3}`}, (*got)[0])
}

func TestCommandWithoutIndexFails(t *testing.T) {
	ts, got := fakeEngine(t, `{}`)

	_, err := run(t, "", "status", "--es-server", ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index needs a value")
	assert.Empty(t, *got)
}

func TestCommandRejectsInvalidData(t *testing.T) {
	ts, got := fakeEngine(t, `{}`)

	_, err := run(t, "", "add", "--es-server", ts.URL, "--es-index", "articles", "--data", `{"title":`, "post", "42")
	require.Error(t, err)
	assert.Empty(t, *got)
}
