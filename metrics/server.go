package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/NethermindEth/juno-cheatnet/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// Handler exposes every collector registered with the default registry
func Handler() http.Handler {
	return promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{Registry: prometheus.DefaultRegisterer})
}

// Server serves Handler, and the log level when one is given, until its
// context is cancelled
type Server struct {
	srv      *http.Server
	listener net.Listener
	log      utils.StructuredLogger
}

func NewServer(listener net.Listener, level *utils.LogLevel, log utils.StructuredLogger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	if level != nil {
		mux.HandleFunc("/log/level", func(w http.ResponseWriter, r *http.Request) {
			utils.HTTPLogSettings(w, r, level)
		})
	}
	return &Server{
		srv: &http.Server{
			Addr:    listener.Addr().String(),
			Handler: mux,
			// ReadTimeout also sets ReadHeaderTimeout and IdleTimeout.
			ReadTimeout: 30 * time.Second,
		},
		listener: listener,
		log:      log,
	}
}

func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	var wg conc.WaitGroup
	defer wg.Wait()
	wg.Go(func() {
		s.log.Info("Serving metrics", zap.String("addr", s.Addr()))
		if err := s.srv.Serve(s.listener); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	})

	select {
	case <-ctx.Done():
		return s.srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
