package elasticsearch

import "context"

// Searcher abstracts the read side of the client for handlers and tests.
type Searcher interface {
	Status(ctx context.Context) (Result, error)
	Count(ctx context.Context, typ string) (Result, error)
	Get(ctx context.Context, typ, id string) (Result, error)
	Query(ctx context.Context, typ, q string) (Result, error)
	QueryWithSize(ctx context.Context, typ, q string, size int) (Result, error)
	AdvancedQuery(ctx context.Context, typ string, query interface{}) (Result, error)
	QueryAll(ctx context.Context, q string) (Result, error)
	QueryAllWithSize(ctx context.Context, q string, size int) (Result, error)
	MoreLikeThis(ctx context.Context, typ, id string, opts MoreLikeThisOptions) (Result, error)
	Suggest(ctx context.Context, query interface{}) (Result, error)
}

// DocumentWriter abstracts the write side of the client.
type DocumentWriter interface {
	Create(ctx context.Context, mapping interface{}) (Result, error)
	SetMapping(ctx context.Context, typ string, data interface{}) (Result, error)
	Add(ctx context.Context, typ, id string, data interface{}) (Result, error)
	Delete(ctx context.Context, typ, id string) (Result, error)
}

// Ensure *Client implements both sides at compile time.
var (
	_ Searcher       = (*Client)(nil)
	_ DocumentWriter = (*Client)(nil)
)
