package elasticsearch

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	es7 "github.com/elastic/go-elasticsearch/v7"
	jsoniter "github.com/json-iterator/go"
	"k8s.io/klog/v2"
)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultResultSize is used by the *WithSize queries when size is not positive.
const DefaultResultSize = 999

// matchAllCount is the query string sent with every _count request.
var matchAllCount = url.Values{"": {"{matchAll:{}}"}}.Encode()

// Result is a decoded JSON object returned by the search engine, passed through as-is.
type Result map[string]interface{}

// Config holds the connection settings of a Client.
type Config struct {
	// Server is the base URL of the search engine, e.g. http://localhost:9200.
	Server string
	// Index every request is scoped to. Required at call time.
	Index string
	// SkipTLSVerify disables TLS cert verification (dev only).
	SkipTLSVerify bool
	// Username/Password enable HTTP Basic auth when Username is non-empty.
	Username string
	Password string
}

// Client is a thin Elasticsearch HTTP client: it composes index-scoped paths and
// returns decoded replies without inspecting the status code.
type Client struct {
	index  string
	prefix string // escaped path of the server URL, without trailing slash
	es     *es7.Client
}

// NewClient creates a new client. The index is not checked here, every call does it.
func NewClient(cfg Config) (*Client, error) {
	server := strings.TrimSuffix(cfg.Server, "/")
	if server == "" {
		return nil, &ConfigurationError{Field: "server"}
	}
	u, err := url.Parse(server)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &ConfigurationError{Field: "server"}
	}
	// The transport only gets scheme and host. It would rewrite req.URL.Path
	// with its own prefix and drop the escaping kept in RawPath.
	base := url.URL{Scheme: u.Scheme, User: u.User, Host: u.Host}

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.SkipTLSVerify {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		transport = t
	}

	es, err := es7.NewClient(es7.Config{
		Addresses: []string{base.String()},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("create transport: %w", err)
	}
	return &Client{index: cfg.Index, prefix: strings.TrimSuffix(u.EscapedPath(), "/"), es: es}, nil
}

// Index returns the index name the client is scoped to.
func (c *Client) Index() string {
	return c.index
}

// call sends one request to <server>/<index>/<path> and decodes the reply.
func (c *Client) call(ctx context.Context, path, method string, body interface{}) (Result, error) {
	if c.index == "" {
		return nil, ErrIndexRequired
	}

	var payload io.Reader
	if body != nil && (method == http.MethodPost || method == http.MethodPut) {
		data, err := encodeBody(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		if len(data) > 0 {
			payload = bytes.NewReader(data)
		}
	}

	// Scheme and host come from the transport; the path stays escaped as built here.
	target := c.prefix + "/" + url.PathEscape(c.index)
	if path != "" {
		target += "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	klog.V(4).Infof("elasticsearch: %s %s", method, target)

	resp, err := c.es.Perform(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return decodeResult(raw, method, target), nil
}

// encodeBody JSON-encodes v unless it already holds encoded JSON.
func encodeBody(v interface{}) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	case jsoniter.RawMessage:
		return b, nil
	case string:
		return []byte(b), nil
	}
	return jsonIter.Marshal(v)
}

// decodeResult never fails: an empty or non-object body decodes to nil.
func decodeResult(raw []byte, method, target string) Result {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var out Result
	if err := jsonIter.Unmarshal(raw, &out); err != nil {
		klog.V(2).Infof("elasticsearch: %s %s: undecodable response: %v", method, target, err)
		return nil
	}
	return out
}

func docPath(typ, id string) string {
	return url.PathEscape(typ) + "/" + url.PathEscape(id)
}

func searchQuery(q string, size int) string {
	v := url.Values{}
	v.Set("q", q)
	if size > 0 {
		v.Set("size", strconv.Itoa(size))
	}
	return v.Encode()
}

func sized(size int) int {
	if size <= 0 {
		return DefaultResultSize
	}
	return size
}

// Create creates the index, with mapping as body when non-nil.
func (c *Client) Create(ctx context.Context, mapping interface{}) (Result, error) {
	return c.call(ctx, "", http.MethodPut, mapping)
}

// Status returns the index status.
func (c *Client) Status(ctx context.Context) (Result, error) {
	return c.call(ctx, "_status", http.MethodGet, nil)
}

// Count counts the documents of a type.
func (c *Client) Count(ctx context.Context, typ string) (Result, error) {
	return c.call(ctx, url.PathEscape(typ)+"/_count?"+matchAllCount, http.MethodGet, nil)
}

// SetMapping puts the mapping of a type.
func (c *Client) SetMapping(ctx context.Context, typ string, data interface{}) (Result, error) {
	return c.call(ctx, url.PathEscape(typ)+"/_mapping", http.MethodPut, data)
}

// Add indexes (creates or replaces) a document.
func (c *Client) Add(ctx context.Context, typ, id string, data interface{}) (Result, error) {
	return c.call(ctx, docPath(typ, id), http.MethodPut, data)
}

// Delete removes a document.
func (c *Client) Delete(ctx context.Context, typ, id string) (Result, error) {
	return c.call(ctx, docPath(typ, id), http.MethodDelete, nil)
}

// Get fetches a document by id.
func (c *Client) Get(ctx context.Context, typ, id string) (Result, error) {
	return c.call(ctx, docPath(typ, id), http.MethodGet, nil)
}

// Query runs a query-string search within a type.
func (c *Client) Query(ctx context.Context, typ, q string) (Result, error) {
	return c.call(ctx, url.PathEscape(typ)+"/_search?"+searchQuery(q, 0), http.MethodGet, nil)
}

// QueryWithSize is Query with an explicit result size (DefaultResultSize when size <= 0).
func (c *Client) QueryWithSize(ctx context.Context, typ, q string, size int) (Result, error) {
	return c.call(ctx, url.PathEscape(typ)+"/_search?"+searchQuery(q, sized(size)), http.MethodGet, nil)
}

// AdvancedQuery posts a query DSL body to the search endpoint of a type.
func (c *Client) AdvancedQuery(ctx context.Context, typ string, query interface{}) (Result, error) {
	return c.call(ctx, url.PathEscape(typ)+"/_search", http.MethodPost, query)
}

// QueryAll runs a query-string search across all types of the index.
func (c *Client) QueryAll(ctx context.Context, q string) (Result, error) {
	return c.call(ctx, "_search?"+searchQuery(q, 0), http.MethodGet, nil)
}

// QueryAllWithSize is QueryAll with an explicit result size.
func (c *Client) QueryAllWithSize(ctx context.Context, q string, size int) (Result, error) {
	return c.call(ctx, "_search?"+searchQuery(q, sized(size)), http.MethodGet, nil)
}

// Suggest posts a suggest request.
func (c *Client) Suggest(ctx context.Context, query interface{}) (Result, error) {
	return c.call(ctx, "_suggest", http.MethodPost, query)
}

// MoreLikeThis returns documents similar to type/id.
func (c *Client) MoreLikeThis(ctx context.Context, typ, id string, opts MoreLikeThisOptions) (Result, error) {
	path, method := opts.request(docPath(typ, id) + "/_mlt")
	return c.call(ctx, path, method, opts.Data)
}
