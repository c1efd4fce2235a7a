package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphcore/pkg/buildinfo"
	"github.com/matzehuels/graphcore/pkg/collection"
	gcerrors "github.com/matzehuels/graphcore/pkg/errors"
	"github.com/matzehuels/graphcore/pkg/observability"
	"github.com/matzehuels/graphcore/pkg/rules"
	"github.com/matzehuels/graphcore/pkg/store"
)

const shutdownTimeout = 5 * time.Second

// serveCommand starts a read-only HTTP endpoint over one snapshot.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve <graph.json>",
		Short: "Serve the introspection API of a snapshot over HTTP",
		Long: `Serve the introspection API of a snapshot over HTTP.

Endpoints:
  GET /stats                 graph statistics
  GET /rules                 attached rules and their current status
  GET /nodes                 all nodes
  GET /nodes/{id}            one node with its neighbors
  GET /can-add-edge          dry-run ?from=&to=&label=
  GET /algo/{name}?args=a,b  run an algorithm
  GET /version               build information`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadGraph(args[0])
			if err != nil {
				return err
			}
			if addr == "" {
				addr = c.Config.Serve.Addr
			}
			return c.serve(cmd.Context(), addr, newRouter(g, c.Logger))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// serve runs h on addr until ctx is cancelled, then shuts down gracefully.
func (c *CLI) serve(ctx context.Context, addr string, h http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	printSuccess("Listening on %s", StyleLink.Render("http://"+ln.Addr().String()))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// =============================================================================
// Router
// =============================================================================

type api struct {
	mu     sync.Mutex
	graph  *collection.Graph
	logger *log.Logger
}

// newRouter builds the introspection API over g. Handlers are serialized
// because dry-run checks stage deltas against the shared store.
func newRouter(g *collection.Graph, logger *log.Logger) http.Handler {
	a := &api{graph: g, logger: logger}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(a.observe)

	r.Get("/stats", a.stats)
	r.Get("/rules", a.rules)
	r.Get("/nodes", a.nodes)
	r.Get("/nodes/{id}", a.node)
	r.Get("/can-add-edge", a.canAddEdge)
	r.Get("/algo/{name}", a.algo)
	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, buildinfo.Get())
	})
	return r
}

// observe reports requests to the HTTP hooks and the debug log.
func (a *api) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		func() {
			a.mu.Lock()
			defer a.mu.Unlock()
			next.ServeHTTP(ww, r)
		}()

		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), elapsed)
		a.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "elapsed", elapsed)
	})
}

type ruleStatus struct {
	Name   string `json:"name"`
	Policy string `json:"policy"`
	Passed bool   `json:"passed"`
	Reason string `json:"reason,omitempty"`
}

type nodeView struct {
	ID     string         `json:"id"`
	Value  any            `json:"value"`
	Meta   store.Metadata `json:"meta,omitempty"`
	Out    []string       `json:"out"`
	In     []string       `json:"in"`
	Degree int            `json:"degree"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *api) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.graph.Stats())
}

func (a *api) rules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ruleStatuses(a.graph.RuleStatus()))
}

func ruleStatuses(outcomes []rules.Outcome) []ruleStatus {
	out := make([]ruleStatus, len(outcomes))
	for i, o := range outcomes {
		out[i] = ruleStatus{
			Name:   o.Entry.Spec.Name(),
			Policy: o.Entry.Policy.String(),
			Passed: o.Result.Passed,
			Reason: o.Result.Reason,
		}
	}
	return out
}

func (a *api) nodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.graph.Snapshot().Nodes)
}

func (a *api) node(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v, ok := a.graph.Value(id)
	if !ok {
		writeError(w, gcerrors.New(gcerrors.ErrCodeNotFound, "node %q does not exist", id))
		return
	}
	writeJSON(w, http.StatusOK, nodeView{
		ID:     id,
		Value:  v,
		Meta:   a.graph.Meta(id),
		Out:    nonNil(a.graph.Neighbors(id, store.Out)),
		In:     nonNil(a.graph.Neighbors(id, store.In)),
		Degree: a.graph.Degree(id),
	})
}

func (a *api) canAddEdge(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from == "" || to == "" {
		writeError(w, gcerrors.New(gcerrors.ErrCodeInvalidInput, "from and to are required"))
		return
	}
	ok, reason := a.graph.CanAddEdge(from, to, q.Get("label"))
	writeJSON(w, http.StatusOK, map[string]any{"ok": ok, "reason": reason})
}

func (a *api) algo(w http.ResponseWriter, r *http.Request) {
	rep, err := runAlgorithm(a.graph, chi.URLParam(r, "name"), splitList(r.URL.Query().Get("args")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error codes to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	code := gcerrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case gcerrors.ErrCodeNotFound, gcerrors.ErrCodeMissingNode:
		status = http.StatusNotFound
	case gcerrors.ErrCodeInvalidInput, gcerrors.ErrCodeUnknownRule, gcerrors.ErrCodeUnsupported:
		status = http.StatusBadRequest
	case gcerrors.ErrCodeUnreachable, gcerrors.ErrCodeCycleDetected,
		gcerrors.ErrCodeEmptyStructure, gcerrors.ErrCodeNegativeWeight:
		status = http.StatusUnprocessableEntity
	}
	if code == "" {
		code = gcerrors.ErrCodeInternal
	}
	writeJSON(w, status, apiError{Code: string(code), Message: gcerrors.UserMessage(err)})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
