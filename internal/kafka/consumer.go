package kafka

import (
	"context"
	"time"

	"github.com/psds-microservice/search-client/internal/elasticsearch"
	"github.com/segmentio/kafka-go"
	"k8s.io/klog/v2"
)

// RunConsumer запускает Kafka consumer: читает события документов и пишет их в индекс через es.
func RunConsumer(ctx context.Context, brokers []string, groupID string, topics []string, es elasticsearch.DocumentWriter) {
	if len(brokers) == 0 || len(topics) == 0 {
		klog.Warning("kafka: brokers or topics empty, consumer not started")
		return
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		GroupTopics:    topics,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})
	defer r.Close()

	klog.Infof("kafka consumer: started, group=%s, topics=%v", groupID, topics)
	h := NewDocumentHandler(es)

	for {
		msg, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				klog.Info("kafka consumer: stopping")
				return
			}
			klog.Errorf("kafka read: %v", err)
			time.Sleep(time.Second)
			continue
		}

		h.Handle(ctx, msg)

		if err := r.CommitMessages(ctx, msg); err != nil {
			klog.Errorf("kafka: commit message: %v", err)
		}
	}
}
