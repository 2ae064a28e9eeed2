package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/psds-microservice/search-client/internal/elasticsearch"
	"github.com/psds-microservice/search-client/internal/kafka"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func (a *app) workerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run Kafka consumer (index document events into the search engine). Deploy separately from api.",
		RunE:  a.runWorker,
	}
}

func (a *app) runWorker(cmd *cobra.Command, args []string) error {
	cfg := a.cfg
	if len(cfg.KafkaBrokers) == 0 || len(cfg.KafkaTopics) == 0 {
		return fmt.Errorf("worker requires KAFKA_BROKERS and KAFKA_TOPICS")
	}

	es, err := elasticsearch.NewClient(cfg.ClientConfig())
	if err != nil {
		return fmt.Errorf("elasticsearch client: %w", err)
	}
	if es.Index() == "" {
		return fmt.Errorf("worker requires ES_INDEX")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	klog.Infof("worker: starting Kafka consumer (group=%s, topics=%v)", cfg.KafkaGroupID, cfg.KafkaTopics)
	kafka.RunConsumer(ctx, cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.KafkaTopics, es)
	klog.Info("worker: bye")
	return nil
}
