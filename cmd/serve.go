package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/mapleads-cli/internal/collector"
	"github.com/sells-group/mapleads-cli/internal/model"
	"github.com/sells-group/mapleads-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP control surface for collection runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		env := initCollectEnv(ctx)
		defer env.Close()

		srv := newServer(st, env)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		httpSrv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: srv.routes(ctx),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			httpSrv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// server tracks the controllers of in-flight runs so stop signals can reach
// them.
type server struct {
	st  store.Store
	env *collectEnv

	mu    sync.Mutex
	ctrls map[string]*collector.Controller
}

func newServer(st store.Store, env *collectEnv) *server {
	return &server{st: st, env: env, ctrls: make(map[string]*collector.Controller)}
}

func (s *server) routes(ctx context.Context) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /runs", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query  string `json:"query"`
			Target int    `json:"target"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Query == "" {
			http.Error(w, `{"error":"query is required"}`, http.StatusBadRequest)
			return
		}
		run, err := s.st.CreateRun(r.Context(), req.Query, clampTarget(req.Target))
		if err != nil {
			http.Error(w, `{"error":"failed to create run"}`, http.StatusInternalServerError)
			return
		}

		ctrl := collector.NewController()
		s.register(run.ID, ctrl)

		// The run outlives the request; it is bound to the server's context.
		go func() {
			defer s.unregister(run.ID)
			summary, path, err := executeRun(ctx, s.st, s.env, run, ctrl, "")
			if err != nil {
				zap.L().Error("run failed", zap.String("run_id", run.ID), zap.Error(err))
				return
			}
			zap.L().Info("run complete",
				zap.String("run_id", run.ID),
				zap.Int("businesses", summary.Total),
				zap.String("output", path),
			)
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{
			"run_id": run.ID,
			"status": string(model.RunStatusQueued),
		})
	})

	mux.HandleFunc("GET /runs/{id}", func(w http.ResponseWriter, r *http.Request) {
		run, err := s.st.GetRun(r.Context(), r.PathValue("id"))
		if err != nil {
			http.Error(w, `{"error":"run not found"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, run)
	})

	mux.HandleFunc("POST /runs/{id}/stop-scrolling", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		ctrl, ok := s.lookup(id)
		if !ok {
			http.Error(w, `{"error":"run is not active"}`, http.StatusNotFound)
			return
		}
		ctrl.StopScrolling()
		writeJSON(w, http.StatusAccepted, map[string]string{"run_id": id, "signal": "stop-scrolling"})
	})

	mux.HandleFunc("POST /runs/{id}/stop", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		ctrl, ok := s.lookup(id)
		if !ok {
			http.Error(w, `{"error":"run is not active"}`, http.StatusNotFound)
			return
		}
		ctrl.StopAll()
		if err := s.st.UpdateRunStatus(r.Context(), id, model.RunStatusStopping); err != nil {
			zap.L().Warn("failed to mark run stopping", zap.String("run_id", id), zap.Error(err))
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"run_id": id, "signal": "stop"})
	})

	return mux
}

func (s *server) register(id string, ctrl *collector.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrls[id] = ctrl
}

func (s *server) unregister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ctrls, id)
}

func (s *server) lookup(id string) (*collector.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctrl, ok := s.ctrls[id]
	return ctrl, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
