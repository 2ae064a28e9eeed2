package elasticsearch

import "net/http"

// MoreLikeThisOptions narrows a more-like-this request.
//
// Fields is appended verbatim as the query string (e.g. "mlt_fields=title,body").
// Data is posted as the request body, but only when Fields is also set: without
// Fields the request is a GET and Data is not sent.
type MoreLikeThisOptions struct {
	Fields string
	Data   interface{}
}

func (o MoreLikeThisOptions) request(base string) (path, method string) {
	path = base
	if o.Fields != "" {
		path += "?" + o.Fields
	}
	if o.Data != nil && o.Fields != "" {
		return path, http.MethodPost
	}
	return path, http.MethodGet
}
