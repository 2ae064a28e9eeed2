package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_HOST", "APP_PORT", "HTTP_PORT", "LOG_LEVEL", "ES_SERVER", "ES_INDEX", "ES_SKIP_TLS_VERIFY", "KAFKA_BROKERS", "KAFKA_TOPICS", "KAFKA_GROUP_ID"} {
		t.Setenv(k, "")
	}

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.AppHost)
	assert.Equal(t, "8096", cfg.HTTPPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://localhost:9200", cfg.Elasticsearch.Server)
	assert.Empty(t, cfg.Elasticsearch.Index)
	assert.False(t, cfg.Elasticsearch.SkipTLSVerify)
	assert.Equal(t, "search-client", cfg.KafkaGroupID)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ES_SERVER", "https://es.internal:9200")
	t.Setenv("ES_INDEX", "articles")
	t.Setenv("ES_SKIP_TLS_VERIFY", "true")
	t.Setenv("ES_USERNAME", "elastic")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("KAFKA_TOPICS", "search.documents")

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, 4, cfg.Verbosity())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"search.documents"}, cfg.KafkaTopics)

	cc := cfg.ClientConfig()
	assert.Equal(t, "https://es.internal:9200", cc.Server)
	assert.Equal(t, "articles", cc.Index)
	assert.True(t, cc.SkipTLSVerify)
	assert.Equal(t, "elastic", cc.Username)
}

func TestLoad_AppPortWinsOverHTTPPort(t *testing.T) {
	t.Setenv("APP_PORT", "8100")
	t.Setenv("HTTP_PORT", "9000")

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "8100", cfg.HTTPPort)
}

func TestValidate_RequiresServer(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate())
}
