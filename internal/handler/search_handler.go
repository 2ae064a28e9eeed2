package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/search-client/internal/elasticsearch"
	"github.com/psds-microservice/search-client/internal/validator"
	"k8s.io/klog/v2"
)

// Engine — операции клиента, которые отдаёт HTTP-шлюз.
type Engine interface {
	elasticsearch.Searcher
	elasticsearch.DocumentWriter
}

type SearchHandler struct {
	es        Engine
	validator *validator.Validator
}

func NewSearchHandler(es Engine) *SearchHandler {
	return &SearchHandler{
		es:        es,
		validator: validator.New(),
	}
}

// reply отдаёт ответ движка как есть; ошибки клиента переводит в HTTP-статус.
func reply(c *gin.Context, res elasticsearch.Result, err error) {
	if err != nil {
		status := http.StatusBadGateway
		if elasticsearch.IsConfigurationError(err) {
			status = http.StatusServiceUnavailable
		}
		klog.Errorf("handler: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// rawBody читает тело запроса; пустое или пробельное тело возвращается как nil.
func (h *SearchHandler) rawBody(c *gin.Context, optional bool) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		badRequest(c, err)
		return nil, false
	}
	if err := h.validator.ValidateJSONBody(body, optional); err != nil {
		badRequest(c, err)
		return nil, false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, true
	}
	return body, true
}

// querySize читает ?size=; 0 — параметр не задан.
func (h *SearchHandler) querySize(c *gin.Context) (int, bool) {
	raw := c.Query("size")
	if raw == "" {
		return 0, true
	}
	size, err := strconv.Atoi(raw)
	if err == nil {
		err = h.validator.ValidateSize(size)
	}
	if err != nil {
		badRequest(c, err)
		return 0, false
	}
	return size, true
}

// CreateIndex PUT /api/v1/index
func (h *SearchHandler) CreateIndex(c *gin.Context) {
	body, ok := h.rawBody(c, true)
	if !ok {
		return
	}
	var mapping interface{}
	if body != nil {
		mapping = body
	}
	res, err := h.es.Create(c.Request.Context(), mapping)
	reply(c, res, err)
}

// Status GET /api/v1/status
func (h *SearchHandler) Status(c *gin.Context) {
	res, err := h.es.Status(c.Request.Context())
	reply(c, res, err)
}

// SearchAll GET /api/v1/search?q=...&size=...
func (h *SearchHandler) SearchAll(c *gin.Context) {
	size, ok := h.querySize(c)
	if !ok {
		return
	}
	var (
		res elasticsearch.Result
		err error
	)
	if size > 0 {
		res, err = h.es.QueryAllWithSize(c.Request.Context(), c.Query("q"), size)
	} else {
		res, err = h.es.QueryAll(c.Request.Context(), c.Query("q"))
	}
	reply(c, res, err)
}

// Suggest POST /api/v1/suggest
func (h *SearchHandler) Suggest(c *gin.Context) {
	body, ok := h.rawBody(c, false)
	if !ok {
		return
	}
	res, err := h.es.Suggest(c.Request.Context(), body)
	reply(c, res, err)
}

// Count GET /api/v1/types/:type/count
func (h *SearchHandler) Count(c *gin.Context) {
	typ := c.Param("type")
	if err := h.validator.ValidateType(typ); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.es.Count(c.Request.Context(), typ)
	reply(c, res, err)
}

// SetMapping PUT /api/v1/types/:type/mapping
func (h *SearchHandler) SetMapping(c *gin.Context) {
	typ := c.Param("type")
	if err := h.validator.ValidateType(typ); err != nil {
		badRequest(c, err)
		return
	}
	body, ok := h.rawBody(c, false)
	if !ok {
		return
	}
	res, err := h.es.SetMapping(c.Request.Context(), typ, body)
	reply(c, res, err)
}

// Search GET /api/v1/types/:type/search?q=...&size=...
func (h *SearchHandler) Search(c *gin.Context) {
	typ := c.Param("type")
	if err := h.validator.ValidateType(typ); err != nil {
		badRequest(c, err)
		return
	}
	size, ok := h.querySize(c)
	if !ok {
		return
	}
	var (
		res elasticsearch.Result
		err error
	)
	if size > 0 {
		res, err = h.es.QueryWithSize(c.Request.Context(), typ, c.Query("q"), size)
	} else {
		res, err = h.es.Query(c.Request.Context(), typ, c.Query("q"))
	}
	reply(c, res, err)
}

// AdvancedSearch POST /api/v1/types/:type/search
func (h *SearchHandler) AdvancedSearch(c *gin.Context) {
	typ := c.Param("type")
	if err := h.validator.ValidateType(typ); err != nil {
		badRequest(c, err)
		return
	}
	body, ok := h.rawBody(c, false)
	if !ok {
		return
	}
	res, err := h.es.AdvancedQuery(c.Request.Context(), typ, body)
	reply(c, res, err)
}

// GetDocument GET /api/v1/types/:type/docs/:id
func (h *SearchHandler) GetDocument(c *gin.Context) {
	typ, id := c.Param("type"), c.Param("id")
	if err := h.validator.ValidateDocument(typ, id); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.es.Get(c.Request.Context(), typ, id)
	reply(c, res, err)
}

// PutDocument PUT /api/v1/types/:type/docs/:id
func (h *SearchHandler) PutDocument(c *gin.Context) {
	typ, id := c.Param("type"), c.Param("id")
	if err := h.validator.ValidateDocument(typ, id); err != nil {
		badRequest(c, err)
		return
	}
	body, ok := h.rawBody(c, false)
	if !ok {
		return
	}
	res, err := h.es.Add(c.Request.Context(), typ, id, body)
	reply(c, res, err)
}

// DeleteDocument DELETE /api/v1/types/:type/docs/:id
func (h *SearchHandler) DeleteDocument(c *gin.Context) {
	typ, id := c.Param("type"), c.Param("id")
	if err := h.validator.ValidateDocument(typ, id); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.es.Delete(c.Request.Context(), typ, id)
	reply(c, res, err)
}

// Similar GET|POST /api/v1/types/:type/docs/:id/similar?fields=...
// Для POST тело запроса уходит в движок как data.
func (h *SearchHandler) Similar(c *gin.Context) {
	typ, id := c.Param("type"), c.Param("id")
	if err := h.validator.ValidateDocument(typ, id); err != nil {
		badRequest(c, err)
		return
	}
	opts := elasticsearch.MoreLikeThisOptions{Fields: c.Query("fields")}
	if c.Request.Method == http.MethodPost {
		body, ok := h.rawBody(c, true)
		if !ok {
			return
		}
		if body != nil {
			opts.Data = body
		}
	}
	res, err := h.es.MoreLikeThis(c.Request.Context(), typ, id, opts)
	reply(c, res, err)
}
