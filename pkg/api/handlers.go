package api

import (
	"cmp"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/stylekey/pkg/buildinfo"
	"github.com/matzehuels/stylekey/pkg/errors"
	"github.com/matzehuels/stylekey/pkg/observability"
	"github.com/matzehuels/stylekey/pkg/pipeline"
	"github.com/matzehuels/stylekey/pkg/symbology"
)

// ServiceName is reported by GET /.
const ServiceName = "stylekey"

// immutableCache is sent with rendered previews; a token never changes meaning.
const immutableCache = "public, max-age=86400"

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// RootResponse is returned by GET /.
type RootResponse struct {
	Name      string         `json:"name"`
	Version   string         `json:"version"`
	Build     buildinfo.Info `json:"build"`
	Formats   []string       `json:"formats"`
	Endpoints []string       `json:"endpoints"`
}

// CreateResponse is returned by POST /api/symbology.
type CreateResponse struct {
	URLKey        string           `json:"url_key"`
	MatplotlibURL string           `json:"matplotlib_url"`
	PreviewURL    string           `json:"preview_url"`
	Symbology     symbology.Labels `json:"symbology"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail     string `json:"detail"`
	StatusCode int    `json:"status_code"`
	Code       string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: buildinfo.Version})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Name:    ServiceName,
		Version: buildinfo.Version,
		Build:   buildinfo.Get(),
		Formats: pipeline.Formats,
		Endpoints: []string{
			"GET /health",
			"POST /api/symbology",
			"GET /api/result/{url_key}/{format}",
		},
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		status := http.StatusBadRequest
		if stderrors.As(err, new(*http.MaxBytesError)) {
			status = http.StatusRequestEntityTooLarge
		}
		s.fail(w, r, status, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"), "")
		return
	}
	if err := validateCreate(body); err != nil {
		s.fail(w, r, statusFor(err), err, "")
		return
	}
	var labels symbology.Labels
	if err := json.Unmarshal(body, &labels); err != nil {
		s.fail(w, r, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode body"), "")
		return
	}

	created, err := s.runner.Create(r.Context(), labels)
	if err != nil {
		s.fail(w, r, statusFor(err), err, "")
		return
	}
	writeJSON(w, http.StatusOK, CreateResponse{
		URLKey:        created.Token,
		MatplotlibURL: resultURL(created.Token, pipeline.FormatJSON),
		PreviewURL:    resultURL(created.Token, pipeline.FormatPNG),
		Symbology:     created.Descriptor.Labels(),
	})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.fail(w, r, http.StatusNotFound, err, "")
		return
	}

	if _, _, err := s.runner.Resolve(r.Context(), key); err != nil {
		s.fail(w, r, statusFor(err), err, "Invalid url_key format: ")
		return
	}

	q := r.URL.Query()
	opts := pipeline.Options{
		Format:    format,
		LayerName: cmp.Or(q.Get("layer_name"), s.cfg.LayerName),
		StyleName: cmp.Or(q.Get("style_name"), s.cfg.StyleName),
	}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.fail(w, r, http.StatusBadRequest, errors.Field(errors.ErrCodeInvalidInput, "size", strconv.Quote(v), "must be an integer"), "")
			return
		}
		opts.Size = n
	}

	art, err := s.runner.Artifact(r.Context(), key, opts)
	if err != nil {
		s.fail(w, r, statusFor(err), err, "")
		return
	}

	h := w.Header()
	h.Set("Content-Type", art.ContentType)
	if pipeline.IsImage(format) {
		h.Set("Cache-Control", immutableCache)
	}
	if format == pipeline.FormatPDF {
		h.Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", art.Filename(key)))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(art.Data)
}

// fail logs err and writes the error body. prefix is prepended to the
// user-facing message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error, prefix string) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	attrs := []any{"request_id", RequestID(r.Context()), "path", r.URL.Path, "status", status, "err", err}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", attrs...)
		writeError(w, status, "Internal server error")
		return
	}
	s.logger.Warn("request rejected", attrs...)
	writeJSON(w, status, ErrorResponse{
		Detail:     prefix + errors.UserMessage(err),
		StatusCode: status,
		Code:       string(errors.GetCode(err)),
	})
}

// statusFor maps validation errors to 400 and everything else to 500.
func statusFor(err error) int {
	if errors.IsValidation(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func resultURL(token, format string) string {
	return "/api/result/" + token + "/" + format
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail, StatusCode: status})
}
