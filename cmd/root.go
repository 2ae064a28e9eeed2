package cmd

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/psds-microservice/search-client/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

// app holds what every subcommand needs once flags are parsed.
type app struct {
	v   *viper.Viper
	cfg *config.Config
}

func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree. Without a subcommand it runs the HTTP gateway.
func NewRootCommand() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "search-client",
		Short:         "Thin client and HTTP gateway for an Elasticsearch index",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		RunE: a.runAPI,
	}

	fs := root.PersistentFlags()
	fs.String("es-server", "", "search engine base URL (ES_SERVER)")
	fs.String("es-index", "", "index every request is scoped to (ES_INDEX)")
	fs.Bool("es-skip-tls-verify", false, "disable TLS certificate verification, dev only (ES_SKIP_TLS_VERIFY)")
	fs.String("log-level", "", "info, debug or trace (LOG_LEVEL)")
	for key, name := range map[string]string{
		config.KeyESServer:  "es-server",
		config.KeyESIndex:   "es-index",
		config.KeyESSkipTLS: "es-skip-tls-verify",
		config.KeyLogLevel:  "log-level",
	} {
		_ = a.v.BindPFlag(key, fs.Lookup(name))
	}

	root.AddCommand(a.apiCmd(), a.workerCmd())
	root.AddCommand(a.clientCmds()...)
	return root
}

func (a *app) load() error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg, err := config.Load(a.v)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a.cfg = cfg
	setupLogging(cfg.Verbosity())
	return nil
}

func setupLogging(verbosity int) {
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)
	_ = fs.Set("v", strconv.Itoa(verbosity))
}
