package server

import (
	"encoding/json"
	stderrors "errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/matzehuels/stageflow/pkg/errors"
	"github.com/matzehuels/stageflow/pkg/io"
	"github.com/matzehuels/stageflow/pkg/pipeline"
	"github.com/matzehuels/stageflow/pkg/source"
)

var contentTypes = map[string]string{
	pipeline.FormatJSON:   "application/json",
	pipeline.FormatPlotly: "application/json",
	pipeline.FormatHTML:   "text/html; charset=utf-8",
	pipeline.FormatDOT:    "text/vnd.graphviz",
	pipeline.FormatSVG:    "image/svg+xml",
	pipeline.FormatPNG:    "image/png",
	pipeline.FormatPDF:    "application/pdf",
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error     bool   `json:"error"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"formats": pipeline.FormatNames})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	topN := 0
	if v := q.Get("top_n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "top_n must be an integer, got %q", v))
			return
		}
		topN = n
	}

	inFormat, err := recordFormat(r.Header.Get("Content-Type"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	records, err := io.ReadRecords(http.MaxBytesReader(w, r.Body, s.maxBody), inFormat)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Source:  source.Static{Label: "http", Data: records},
		TopN:    topN,
		Formats: []string{format},
		Logger:  s.logger.With("request_id", RequestIDFrom(r.Context())),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cache := "miss"
	if res.CacheInfo.BuildHit && res.CacheInfo.RenderHit {
		cache = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Graph-Hash", res.GraphHash)
	w.Header().Set("X-Cache", cache)
	w.Header().Set("X-Flows-Retrieved", strconv.Itoa(res.Stats.Retrieved))
	w.Header().Set("X-Flows-Shown", strconv.Itoa(res.Stats.Shown))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// recordFormat maps a request Content-Type to a record format.
func recordFormat(contentType string) (string, error) {
	if contentType == "" {
		return io.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "bad Content-Type")
	}
	switch mt {
	case "application/json":
		return io.FormatJSON, nil
	case "text/csv":
		return io.FormatCSV, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return io.FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported Content-Type %q", mt)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var maxErr *http.MaxBytesError
	switch {
	case stderrors.As(err, &maxErr):
		status = http.StatusRequestEntityTooLarge
	case errors.IsClientError(err):
		status = http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound), errors.Is(err, errors.ErrCodeFileNotFound):
		status = http.StatusNotFound
	}

	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	if status >= 500 {
		s.logger.Error("request failed", "error", err, "request_id", RequestIDFrom(r.Context()))
	}
	writeJSON(w, status, errorResponse{
		Error:     true,
		Code:      code,
		Message:   errors.UserMessage(err),
		RequestID: RequestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
