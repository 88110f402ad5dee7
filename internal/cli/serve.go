package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	lerrors "github.com/phn/lineid-plot/pkg/errors"
	"github.com/phn/lineid-plot/pkg/observability"
	"github.com/phn/lineid-plot/pkg/pipeline"
)

const (
	defaultAddr     = ":8080"
	maxRequestBytes = 32 << 20
	shutdownTimeout = 10 * time.Second
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

// renderRequest is the body of POST /render.
type renderRequest struct {
	pipeline.Job
	Options pipeline.Options `json:"options"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an HTTP endpoint that renders labelled spectra",
		Long: `Serve accepts jobs as JSON on POST /render and answers with the rendered
figure. The output format is taken from the format query parameter, then
from options.formats, and defaults to svg.`,
		Example: `  lineid serve --addr :8080
  curl -d @job.json 'localhost:8080/render?format=png' > out.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			runner := c.newRunner(noCache)
			defer runner.Close()

			srv := &http.Server{
				Addr:              addr,
				Handler:           newRouter(runner, logger),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()

			printSuccess("%s", StyleTitle.Render("lineid serve"))
			printKeyValue("listening", addr)
			printKeyValue("endpoint", "POST /render?format=svg|png|pdf|json")

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				return err
			}
			if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not read or write the cache")
	return cmd
}

func newRouter(runner *pipeline.Runner, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(observe(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Post("/render", renderHandler(runner, logger))
	return r
}

// observe reports each request to the HTTP hooks and logs it at debug
// level. The request logger is attached to the request context.
func observe(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hooks := observability.HTTP()
			start := time.Now()
			reqLogger := logger.With("request_id", middleware.GetReqID(r.Context()))
			ctx := withLogger(r.Context(), reqLogger)

			hooks.OnRequest(ctx, r.Method, r.URL.Path)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			hooks.OnResponse(ctx, r.Method, r.URL.Path, status, elapsed)
			reqLogger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", elapsed)
		})
	}
}

func renderHandler(runner *pipeline.Runner, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req renderRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "decode request"))
			return
		}

		format := requestFormat(r, req.Options)
		if err := pipeline.ValidateFormat(format); err != nil {
			writeError(w, err)
			return
		}
		opts := req.Options
		opts.Formats = []string{format}
		opts.Logger = loggerFromContext(r.Context())

		res, err := runner.Execute(r.Context(), req.Job, opts)
		if err != nil {
			if !lerrors.IsInputError(err) {
				logger.Error("render failed", "error", err)
			}
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", contentTypes[format])
		w.Header().Set("X-Lineid-Converged", strconv.FormatBool(res.Stats.Converged))
		w.Header().Set("X-Lineid-Cache", strconv.FormatBool(res.CacheInfo.RenderHit))
		w.Write(res.Artifacts[format])
	}
}

// requestFormat picks the query parameter, then the first requested
// format, then svg.
func requestFormat(r *http.Request, opts pipeline.Options) string {
	if f := r.URL.Query().Get("format"); f != "" {
		return f
	}
	if len(opts.Formats) > 0 {
		return opts.Formats[0]
	}
	return pipeline.FormatSVG
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if lerrors.IsInputError(err) {
		status = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{
		Error: lerrors.UserMessage(err),
		Code:  string(lerrors.GetCode(err)),
	})
}
