package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/qtranspile/pkg/backend"
	"github.com/matzehuels/qtranspile/pkg/buildinfo"
	"github.com/matzehuels/qtranspile/pkg/circuit"
	qerrors "github.com/matzehuels/qtranspile/pkg/errors"
	"github.com/matzehuels/qtranspile/pkg/observability"
	"github.com/matzehuels/qtranspile/pkg/pipeline"
	"github.com/matzehuels/qtranspile/pkg/store"
)

// maxBodyBytes bounds a transpile request. The source limit plus room for
// the backend and pass list.
const maxBodyBytes = qerrors.MaxSourceBytes + 64<<10

// server serves the transpiler over HTTP. The runner is shared by all
// requests; the store is optional.
type server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// transpileRequest is the body of POST /v1/transpile. Backend is either a
// built-in name or an inline description; absent means ibm_demo.
type transpileRequest struct {
	Source  string          `json:"source"`
	Backend json.RawMessage `json:"backend,omitempty"`
	Passes  []string        `json:"passes,omitempty"`
	Refresh bool            `json:"refresh,omitempty"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    qerrors.Code `json:"code"`
	Message string       `json:"message"`
}

// routes builds the chi router.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/backends", s.handleListBackends)
		r.Get("/backends/{name}", s.handleGetBackend)
		r.Post("/transpile", s.handleTranspile)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
	return r
}

// observe reports every request to the HTTP hooks.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "build": buildinfo.Get()})
}

func (s *server) handleListBackends(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"builtins": backend.Builtins(),
		"default":  backend.IBMDemo(),
	})
}

func (s *server) handleGetBackend(w http.ResponseWriter, r *http.Request) {
	b, err := backend.Builtin(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}

func (s *server) handleTranspile(w http.ResponseWriter, r *http.Request) {
	var req transpileRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, qerrors.New(qerrors.ErrCodeInvalidInput, "request body exceeds %d bytes", maxBodyBytes))
			return
		}
		s.writeError(w, qerrors.Wrap(qerrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	b, err := requestBackend(req.Backend)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	res, err := s.runner.Execute(ctx, pipeline.Options{
		Source:  req.Source,
		Backend: b,
		Passes:  req.Passes,
		Refresh: req.Refresh,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	if s.store != nil {
		if err := s.store.Save(ctx, store.NewRecord(req.Source, res)); err != nil {
			s.logger.Warn("run not recorded", "run", res.Info.RunID, "error", err)
		}
	}
	s.writeJSON(w, http.StatusOK, res)
}

// requestBackend resolves the backend field of a request. File paths are
// never read on behalf of a client.
func requestBackend(raw json.RawMessage) (circuit.Backend, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return backend.IBMDemo(), nil
	}
	if raw[0] == '"' {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return circuit.Backend{}, qerrors.Wrap(qerrors.ErrCodeInvalidBackend, err, "decode backend name")
		}
		return backend.Builtin(name)
	}
	return backend.Parse(raw, "json")
}

func (s *server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, qerrors.New(qerrors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	records, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if records == nil {
		records = []store.Record{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"runs": records})
}

func (s *server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *server) requireStore(w http.ResponseWriter) bool {
	if s.store != nil {
		return true
	}
	s.writeError(w, qerrors.New(qerrors.ErrCodeUnsupported, "run history is disabled on this server"))
	return false
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	status := qerrors.HTTPStatus(err)
	code := qerrors.GetCode(err)
	if code == "" {
		code = qerrors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: qerrors.UserMessage(err)}})
}

// writeJSON encodes v before sending any header, so an unencodable value
// becomes a 500 instead of an empty success.
func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encode response", "error", err)
		status = http.StatusInternalServerError
		data, _ = json.Marshal(errorBody{Error: errorDetail{
			Code:    qerrors.ErrCodeInternal,
			Message: "response could not be encoded",
		}})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}
