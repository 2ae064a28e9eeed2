package config

import (
	"errors"
	"strings"

	"github.com/psds-microservice/search-client/internal/elasticsearch"
	"github.com/spf13/viper"
)

type Config struct {
	AppHost  string
	HTTPPort string
	LogLevel string

	Elasticsearch struct {
		Server        string
		Index         string
		SkipTLSVerify bool
		Username      string
		Password      string
	}

	KafkaBrokers []string
	KafkaGroupID string
	KafkaTopics  []string
}

// Keys shared with the cobra flags bound in cmd.
const (
	KeyAppHost      = "app_host"
	KeyAppPort      = "app_port"
	KeyLogLevel     = "log_level"
	KeyESServer     = "es_server"
	KeyESIndex      = "es_index"
	KeyESSkipTLS    = "es_skip_tls_verify"
	KeyESUsername   = "es_username"
	KeyESPassword   = "es_password"
	KeyKafkaBrokers = "kafka_brokers"
	KeyKafkaGroupID = "kafka_group_id"
	KeyKafkaTopics  = "kafka_topics"
)

// New returns a viper instance with defaults and env bindings applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyAppHost, "0.0.0.0")
	v.SetDefault(KeyAppPort, "8096")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyESServer, "http://localhost:9200")
	v.SetDefault(KeyESSkipTLS, false)
	v.SetDefault(KeyKafkaGroupID, "search-client")

	v.AutomaticEnv()
	// APP_PORT wins over the older HTTP_PORT.
	_ = v.BindEnv(KeyAppPort, "APP_PORT", "HTTP_PORT")
	return v
}

// Load reads the configuration from v (see New).
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppHost:      v.GetString(KeyAppHost),
		HTTPPort:     v.GetString(KeyAppPort),
		LogLevel:     strings.ToLower(v.GetString(KeyLogLevel)),
		KafkaBrokers: splitList(v.GetString(KeyKafkaBrokers)),
		KafkaGroupID: v.GetString(KeyKafkaGroupID),
		KafkaTopics:  splitList(v.GetString(KeyKafkaTopics)),
	}
	cfg.Elasticsearch.Server = v.GetString(KeyESServer)
	cfg.Elasticsearch.Index = v.GetString(KeyESIndex)
	cfg.Elasticsearch.SkipTLSVerify = v.GetBool(KeyESSkipTLS)
	cfg.Elasticsearch.Username = v.GetString(KeyESUsername)
	cfg.Elasticsearch.Password = v.GetString(KeyESPassword)
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Elasticsearch.Server == "" {
		return errors.New("config: ES_SERVER is required")
	}
	return nil
}

// ClientConfig returns the settings of the search engine client.
func (c *Config) ClientConfig() elasticsearch.Config {
	return elasticsearch.Config{
		Server:        c.Elasticsearch.Server,
		Index:         c.Elasticsearch.Index,
		SkipTLSVerify: c.Elasticsearch.SkipTLSVerify,
		Username:      c.Elasticsearch.Username,
		Password:      c.Elasticsearch.Password,
	}
}

// Verbosity maps LOG_LEVEL onto a klog -v level.
func (c *Config) Verbosity() int {
	switch c.LogLevel {
	case "trace":
		return 6
	case "debug":
		return 4
	default:
		return 0
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
