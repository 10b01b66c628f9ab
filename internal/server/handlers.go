package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/taskwave/pkg/analysis"
	"github.com/matzehuels/taskwave/pkg/buildinfo"
	"github.com/matzehuels/taskwave/pkg/dag"
	apperr "github.com/matzehuels/taskwave/pkg/errors"
	taskio "github.com/matzehuels/taskwave/pkg/io"
	"github.com/matzehuels/taskwave/pkg/render/nodelink"
)

var fingerprintRe = regexp.MustCompile(`^[0-9a-f]{64}$`)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// handleHealth handles GET /healthz.
//
// Returns 200 while serving and 503 once shutdown has begun.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.IsShuttingDown() {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "shutting_down", Build: buildinfo.Current()})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Current()})
}

// handleAnalyze handles POST /v1/analyze.
//
// Returns:
//   - 200 OK with the report
//   - 400 Bad Request for malformed manifests and invalid graphs
//   - 413 Request Entity Too Large when the body exceeds the limit
//   - 422 Unprocessable Entity when the dependencies form a cycle
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	_, report, err := s.analyzeRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleReport handles GET /v1/reports/{fingerprint}.
//
// Returns:
//   - 200 OK with the cached report
//   - 400 Bad Request when the fingerprint is not 64 hex digits
//   - 404 Not Found when no report is cached for the fingerprint
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	fp := chi.URLParam(r, "fingerprint")
	if !fingerprintRe.MatchString(fp) {
		writeError(w, r, apperr.New(apperr.ErrCodeInvalidInput, "malformed fingerprint %q", fp))
		return
	}
	report, err := s.analyzer.Report(r.Context(), fp)
	if err != nil {
		writeError(w, r, apperr.FromAnalysis(err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleRender handles POST /v1/render?format=dot|svg&waves=bool&detailed=bool.
//
// The manifest is analyzed (sharing the report cache) and the annotated
// graph is returned as Graphviz DOT (default) or SVG.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = "dot"
	}
	if format != "dot" && format != "svg" {
		writeError(w, r, apperr.New(apperr.ErrCodeInvalidFormat, "unsupported render format %q (want dot or svg)", format))
		return
	}
	opts := nodelink.Options{
		ShowWaves: queryBool(q.Get("waves")),
		Detailed:  queryBool(q.Get("detailed")),
	}

	g, report, err := s.analyzeRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	dot := nodelink.ToDOT(g, report, opts)
	if format == "dot" {
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(dot)) //nolint:errcheck // Response headers already sent
		return
	}

	svg, err := nodelink.RenderSVG(r.Context(), dot)
	if err != nil {
		writeError(w, r, apperr.Wrap(apperr.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(svg) //nolint:errcheck // Response headers already sent
}

// analyzeRequest decodes the manifest in the request body and analyzes it.
// Returned errors carry an error code.
func (s *Server) analyzeRequest(w http.ResponseWriter, r *http.Request) (*dag.Graph, *analysis.Report, error) {
	format, err := bodyFormat(r)
	if err != nil {
		return nil, nil, err
	}
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	m, err := taskio.ReadManifest(body, format)
	if err != nil {
		return nil, nil, err
	}
	tasks, deps, err := m.Graph()
	if err != nil {
		return nil, nil, err
	}

	report, err := s.analyzer.Analyze(r.Context(), tasks, deps)
	if err != nil {
		return nil, nil, apperr.FromAnalysis(err)
	}
	g, err := dag.Build(tasks, deps)
	if err != nil {
		return nil, nil, apperr.FromAnalysis(err)
	}
	return g, report, nil
}

// bodyFormat picks the manifest format from the Content-Type header. A
// missing header means JSON.
func bodyFormat(r *http.Request) (taskio.Format, error) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return taskio.FormatJSON, nil
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "malformed content type")
	}
	switch mediaType {
	case "application/json":
		return taskio.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return taskio.FormatYAML, nil
	case "application/toml":
		return taskio.FormatTOML, nil
	}
	return "", apperr.New(apperr.ErrCodeInvalidFormat, "unsupported content type %q", mediaType)
}

func queryBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}

type errorBody struct {
	Code      apperr.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data) //nolint:errcheck // Response headers already sent
}

// writeError responds with the coded error. Errors without a code are
// treated as internal.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.GetCode(err)
	if code == "" {
		err = apperr.Wrap(apperr.ErrCodeInternal, err, "internal error")
		code = apperr.ErrCodeInternal
	}
	status := apperr.HTTPStatus(code)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	writeErrorStatus(w, r, status, err)
}

func writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	writeJSON(w, status, errorResponse{Error: errorBody{
		Code:      apperr.GetCode(err),
		Message:   apperr.UserMessage(err),
		RequestID: RequestIDFromContext(r.Context()),
	}})
}

func notFound(path string) error {
	return apperr.New(apperr.ErrCodeNotFound, "no route for %s", path)
}
