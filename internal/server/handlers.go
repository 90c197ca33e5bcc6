package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/jeweler/pkg/bracelet"
	"github.com/matzehuels/jeweler/pkg/buildinfo"
	"github.com/matzehuels/jeweler/pkg/catalog"
	jerrors "github.com/matzehuels/jeweler/pkg/errors"
	pkgio "github.com/matzehuels/jeweler/pkg/io"
	"github.com/matzehuels/jeweler/pkg/objective"
	"github.com/matzehuels/jeweler/pkg/observability"
	"github.com/matzehuels/jeweler/pkg/pipeline"
)

const (
	contentTypeJSON   = "application/json"
	contentTypeNDJSON = "application/x-ndjson"
)

// handleEnumerate handles POST /v1/enumerate.
//
//	200 OK: export document {n, k, counts, mode, count, results}
//	400 Bad Request: invalid body or content
//	413 Request Entity Too Large: more than MaxResults representatives
func (s *Server) handleEnumerate(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// A truncated result under the server cap means the content has more
	// representatives than the server returns.
	capped := opts.Limit == 0 || opts.Limit > s.cfg.MaxResults
	if capped {
		opts.Limit = s.cfg.MaxResults
	}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if capped && result.Stats.Truncated {
		s.writeError(w, r, jerrors.New(jerrors.ErrCodeLimitExceeded,
			"more than %d results; set a limit or use /v1/enumerate/stream", s.cfg.MaxResults))
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	if err := s.runner.Export(r.Context(), w, result, pkgio.FormatJSON); err != nil {
		s.logger.Warn("write response", "error", err, "request_id", requestIDFrom(r.Context()))
	}
}

// handleStream handles POST /v1/enumerate/stream. Validation errors are
// reported as JSON with a 4xx status; once the first word is written,
// failures can only end the stream early.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Format = pkgio.FormatNDJSON
	opts.Workers = 1

	w.Header().Set("Content-Type", contentTypeNDJSON)
	w.WriteHeader(http.StatusOK)
	n, err := s.runner.Stream(r.Context(), opts, newFlushWriter(w))
	if err != nil {
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
		s.logger.Warn("stream ended early",
			"error", err,
			"written", n,
			"request_id", requestIDFrom(r.Context()))
	}
}

// handleCount handles POST /v1/count.
func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := s.runner.Count(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	spec := opts.Spec()
	writeJSON(w, http.StatusOK, CountResponse{
		N:      spec.N,
		K:      spec.K(),
		Counts: spec.Counts,
		Mode:   opts.Mode,
		Count:  n,
	})
}

// handleModes handles GET /v1/modes.
func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	modes := bracelet.Modes()
	resp := ModesResponse{Modes: make([]ModeInfo, len(modes))}
	for i, m := range modes {
		resp.Modes[i] = ModeInfo{Name: m, Reflect: m.Reflect(), Aperiodic: m.Aperiodic()}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCatalogList handles GET /v1/catalog.
func (s *Server) handleCatalogList(w http.ResponseWriter, r *http.Request) {
	length := 0
	if v := r.URL.Query().Get("length"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, jerrors.New(jerrors.ErrCodeInvalidInput, "length must be a non-negative integer, got %q", v))
			return
		}
		length = n
	}
	recs, err := s.runner.Store.List(r.Context(), length)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []catalog.Record{}
	}
	writeJSON(w, http.StatusOK, CatalogResponse{Records: recs})
}

// handleCatalogGet handles GET /v1/catalog/{length}/{weight}/{objective}.
func (s *Server) handleCatalogGet(w http.ResponseWriter, r *http.Request) {
	key, err := catalog.ParseKey(fmt.Sprintf("catalog:%s:%s:%s",
		chi.URLParam(r, "length"),
		chi.URLParam(r, "weight"),
		objective.Normalize(chi.URLParam(r, "objective"))))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.runner.Store.Get(r.Context(), key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

// =============================================================================
// Request decoding
// =============================================================================

// decode reads and validates an EnumerateRequest into pipeline options.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	var req EnumerateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return pipeline.Options{}, jerrors.New(jerrors.ErrCodeInvalidInput, "request body is empty")
		}
		return pipeline.Options{}, jerrors.Wrap(jerrors.ErrCodeInvalidInput, err, "malformed request body: %v", err)
	}
	if err := s.validate.Struct(req); err != nil {
		return pipeline.Options{}, validationError(err)
	}

	mode, err := bracelet.ParseMode(req.Mode)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Counts:  req.Counts,
		Mode:    mode,
		Limit:   req.Limit,
		Workers: req.Workers,
	}
	return opts, opts.ValidateAndSetDefaults()
}

// validationError turns validator output into an INVALID_INPUT error
// naming the first failing field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg := fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("%s fails %q (%s)", fe.Namespace(), fe.Tag(), fe.Param())
		}
		return jerrors.Wrap(jerrors.ErrCodeInvalidInput, err, "%s", msg)
	}
	return jerrors.Wrap(jerrors.ErrCodeInvalidInput, err, "invalid request")
}

// =============================================================================
// Responses
// =============================================================================

// statusFor maps an error to an HTTP status and code.
func statusFor(err error) (int, jerrors.Code) {
	code := jerrors.GetCode(err)
	switch {
	case code == jerrors.ErrCodeNotFound:
		return http.StatusNotFound, code
	case code == jerrors.ErrCodeLimitExceeded:
		return http.StatusRequestEntityTooLarge, code
	case jerrors.IsValidation(err):
		return http.StatusBadRequest, code
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, jerrors.ErrCodeCancelled
	case code == jerrors.ErrCodeCancelled || errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, jerrors.ErrCodeCancelled
	case code == "":
		return http.StatusInternalServerError, jerrors.ErrCodeInternal
	}
	return http.StatusInternalServerError, code
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	id := requestIDFrom(r.Context())
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err, "status", status, "request_id", id)
	} else {
		s.logger.Debug("request rejected", "error", err, "status", status, "request_id", id)
	}
	writeJSON(w, status, ErrorResponse{
		Code:      string(code),
		Message:   jerrors.UserMessage(err),
		RequestID: id,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// flushWriter flushes each write through to the client. The encoder in
// front of it buffers about 4 KiB, so words arrive in batches of that size
// while enumeration continues, plus a final partial batch when it ends.
type flushWriter struct {
	w io.Writer
	f http.Flusher
}

func newFlushWriter(w http.ResponseWriter) *flushWriter {
	f, _ := w.(http.Flusher)
	return &flushWriter{w: w, f: f}
}

func (fw *flushWriter) Write(p []byte) (int, error) {
	n, err := fw.w.Write(p)
	if fw.f != nil {
		fw.f.Flush()
	}
	return n, err
}
