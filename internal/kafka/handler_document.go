package kafka

import (
	"context"
	"strings"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/psds-microservice/search-client/internal/elasticsearch"
	"github.com/psds-microservice/search-client/internal/validator"
	"github.com/segmentio/kafka-go"
	"k8s.io/klog/v2"
)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	EventIndex  = "index"
	EventDelete = "delete"
)

// DocumentEvent — событие документа из топиков KAFKA_TOPICS.
type DocumentEvent struct {
	Event    string              `json:"event"`
	Type     string              `json:"type"`
	ID       string              `json:"id,omitempty"`
	Document jsoniter.RawMessage `json:"document,omitempty"`
}

// DocumentHandler индексирует и удаляет документы по событиям.
type DocumentHandler struct {
	es        elasticsearch.DocumentWriter
	validator *validator.Validator
	newID     func() string
}

func NewDocumentHandler(es elasticsearch.DocumentWriter) *DocumentHandler {
	return &DocumentHandler{
		es:        es,
		validator: validator.New(),
		newID:     uuid.NewString,
	}
}

// Handle обрабатывает одно сообщение. Ошибки логируются, сообщение пропускается.
func (h *DocumentHandler) Handle(ctx context.Context, msg kafka.Message) {
	topic := msg.Topic
	var ev DocumentEvent
	if err := jsonIter.Unmarshal(msg.Value, &ev); err != nil {
		klog.Errorf("kafka: [%s] unmarshal document event: %v", topic, err)
		return
	}
	if ev.ID == "" && len(msg.Key) > 0 {
		ev.ID = string(msg.Key)
	}

	switch strings.ToLower(ev.Event) {
	case EventIndex:
		h.index(ctx, topic, &ev)
	case EventDelete:
		h.delete(ctx, topic, &ev)
	default:
		klog.Warningf("kafka: [%s] unknown event %q, skipping", topic, ev.Event)
	}
}

func (h *DocumentHandler) index(ctx context.Context, topic string, ev *DocumentEvent) {
	if ev.ID == "" {
		ev.ID = h.newID()
	}
	if err := h.validator.ValidateDocument(ev.Type, ev.ID); err != nil {
		klog.Warningf("kafka: [%s] %v, skipping", topic, err)
		return
	}
	if err := h.validator.ValidateJSONBody(ev.Document, false); err != nil {
		klog.Warningf("kafka: [%s] document %s/%s: %v, skipping", topic, ev.Type, ev.ID, err)
		return
	}
	if _, err := h.es.Add(ctx, ev.Type, ev.ID, []byte(ev.Document)); err != nil {
		klog.Errorf("kafka: [%s] index %s/%s: %v", topic, ev.Type, ev.ID, err)
		return
	}
	klog.V(2).Infof("kafka: [%s] indexed %s/%s", topic, ev.Type, ev.ID)
}

func (h *DocumentHandler) delete(ctx context.Context, topic string, ev *DocumentEvent) {
	if err := h.validator.ValidateDocument(ev.Type, ev.ID); err != nil {
		klog.Warningf("kafka: [%s] %v, skipping", topic, err)
		return
	}
	if _, err := h.es.Delete(ctx, ev.Type, ev.ID); err != nil {
		klog.Errorf("kafka: [%s] delete %s/%s: %v", topic, ev.Type, ev.ID, err)
		return
	}
	klog.V(2).Infof("kafka: [%s] deleted %s/%s", topic, ev.Type, ev.ID)
}
