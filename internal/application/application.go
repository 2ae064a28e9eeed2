package application

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/psds-microservice/search-client/internal/config"
	"github.com/psds-microservice/search-client/internal/elasticsearch"
	"github.com/psds-microservice/search-client/internal/handler"
	"github.com/psds-microservice/search-client/internal/router"
	"k8s.io/klog/v2"
)

// API приложение: HTTP-шлюз к поисковому движку (режим api).
type API struct {
	cfg     *config.Config
	httpSrv *http.Server
	es      *elasticsearch.Client
}

// NewAPI создаёт приложение для режима api.
func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	es, err := elasticsearch.NewClient(cfg.ClientConfig())
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	if es.Index() == "" {
		// Сервер стартует, но каждый запрос к движку вернёт 503.
		klog.Warning("ES_INDEX is empty: every engine call will fail with a configuration error")
	}

	httpAddr := cfg.AppHost + ":" + cfg.HTTPPort
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           router.New(handler.NewSearchHandler(es), es.Index()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{
		cfg:     cfg,
		httpSrv: httpSrv,
		es:      es,
	}, nil
}

// Handler возвращает HTTP-обработчик шлюза.
func (a *API) Handler() http.Handler {
	return a.httpSrv.Handler
}

// Run запускает HTTP-сервер, блокируется до отмены ctx.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	klog.Infof("HTTP server listening on %s", a.httpSrv.Addr)
	klog.Infof("  Health:        %s%s", base, router.PathHealth)
	klog.Infof("  Ready:         %s%s", base, router.PathReady)
	klog.Infof("  API:           %s%s (index %q on %s)", base, router.PathAPI, a.es.Index(), a.cfg.Elasticsearch.Server)

	errCh := make(chan error, 1)
	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
