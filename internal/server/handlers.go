package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/nix-template/pkg/errors"
	"github.com/matzehuels/nix-template/pkg/expr"
	"github.com/matzehuels/nix-template/pkg/pipeline"
)

// TemplateInfo describes one template in GET /templates.
type TemplateInfo struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	DefaultFile    string `json:"default_file"`
	DefaultFetcher string `json:"default_fetcher"`
	Package        bool   `json:"package"`
}

// RenderResponse is the body of a successful POST /render.
type RenderResponse struct {
	Text string         `json:"text"`
	Info *expr.Info     `json:"info"`
	Hint *pipeline.Hint `json:"hint,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string      `json:"error"`
	Code      errors.Code `json:"code,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	all := expr.AllTemplates()
	out := make([]TemplateInfo, 0, len(all))
	for _, t := range all {
		out = append(out, TemplateInfo{
			Name:           string(t),
			Description:    t.Description(),
			DefaultFile:    t.DefaultFilename(),
			DefaultFetcher: string(t.DefaultFetcher()),
			Package:        t.IsPackage(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	opts.Stdout = true

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RenderResponse{Text: result.Text, Info: result.Info, Hint: result.Hint})
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidTemplate, errors.ErrCodeInvalidFetcher,
		errors.ErrCodeInvalidPackage, errors.ErrCodeInvalidPath, errors.ErrCodeUnsupportedURL:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeRemoteFetch, errors.ErrCodeRemoteParse, errors.ErrCodeChecksumFailed:
		return http.StatusBadGateway
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	id := RequestIDFromContext(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", "id", id, "err", err)
	}
	writeJSON(w, status, ErrorResponse{Error: errors.UserMessage(err), Code: code, RequestID: id})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
