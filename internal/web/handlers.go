package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/JonMunkholm/BodyComp/internal/core"
)

// maxUploadFiles bounds the number of files in one analyze request.
const maxUploadFiles = 32

// errNoFile is returned when an analyze request carries no files.
var errNoFile = errors.New("no file provided")

// handleHealth reports liveness, registered metrics and analysis slots.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]any{
		"status":   "ok",
		"metrics":  core.MetricCount(),
		"analyses": s.runs.Status(),
	})
}

// acquireRun takes an analysis slot. On failure the response is written
// and false is returned; otherwise the caller must call s.runs.Release.
func (s *Server) acquireRun(w http.ResponseWriter, r *http.Request) bool {
	if err := s.runs.Acquire(r.Context()); err != nil {
		status := http.StatusServiceUnavailable
		if errors.Is(err, core.ErrTooManyRuns) {
			w.Header().Set("Retry-After", "5")
		}
		respondError(w, r, err, status)
		return false
	}
	return true
}

// handleCodes lists the device code table.
func (s *Server) handleCodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, core.CodeTable())
}

// metricView is the JSON form of a registered metric.
type metricView struct {
	Kind           core.MetricKind                     `json:"kind"`
	Label          string                              `json:"label"`
	Field          string                              `json:"field"`
	Unit           string                              `json:"unit,omitempty"`
	SexIndependent bool                                `json:"sexIndependent"`
	Partitions     map[core.SexCategory]core.Partition `json:"partitions"`
}

// handleMetrics lists classifiable metrics with their partitions.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	defs := core.All()
	views := make([]metricView, 0, len(defs))
	for _, def := range defs {
		views = append(views, metricView{
			Kind:           def.Kind,
			Label:          def.Label,
			Field:          def.Field,
			Unit:           def.Unit,
			SexIndependent: def.SexIndependent,
			Partitions:     def.Partitions,
		})
	}
	writeJSON(w, r, views)
}

// classifyResponse is the result of a single classification.
type classifyResponse struct {
	Metric core.MetricKind  `json:"metric"`
	Sex    core.SexCategory `json:"sex"`
	Value  float64          `json:"value"`
	Label  string           `json:"label"`
	Index  int              `json:"index"`
	Lower  float64          `json:"lower"`
	Upper  float64          `json:"upper"`
}

// handleClassify classifies one value: /api/classify?metric=&sex=&value=
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	metric := core.MetricKind(strings.TrimSpace(q.Get("metric")))
	if _, ok := core.Get(metric); !ok {
		respondError(w, r, fmt.Errorf("%w: %q", core.ErrUnknownMetric, metric), http.StatusBadRequest)
		return
	}

	n := core.ToNumber(q.Get("value"))
	if !n.Valid {
		respondError(w, r, fmt.Errorf("invalid number %q", q.Get("value")), http.StatusBadRequest)
		return
	}

	sex := core.ResolveSex(q.Get("sex"))
	bucket, idx, ok := core.Classify(n.Value, metric, sex)
	if !ok {
		respondError(w, r, fmt.Errorf("%w: %q", core.ErrUnknownMetric, metric), http.StatusBadRequest)
		return
	}

	writeJSON(w, r, classifyResponse{
		Metric: metric,
		Sex:    sex,
		Value:  n.Value,
		Label:  bucket.Label,
		Index:  idx,
		Lower:  bucket.Lower,
		Upper:  bucket.Upper,
	})
}

// handleReport analyzes the configured export directories.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if !s.acquireRun(w, r) {
		return
	}
	defer s.runs.Release()

	ingest := s.cfg.Ingest
	report := s.service.AnalyzeDirectories(r.Context(), []core.Directory{
		{Path: ingest.DataDir, Pattern: ingest.DataPattern, Type: core.RecordMeasurement},
		{Path: ingest.SystemDir, Pattern: ingest.ProfilePattern, Type: core.RecordProfile},
	})
	s.metrics.observe("directories", report)
	writeJSON(w, r, report)
}

// handleAnalyze analyzes uploaded exports.
//
// Every "file" part is one export. Its type is taken from the optional
// "type" field, or inferred from the file name (DATA*, PROF*). Parts that
// cannot be opened or read are reported in the report's fileErrors.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Ingest.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize*maxUploadFiles)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, fmt.Errorf("request body too large: %w", err), http.StatusRequestEntityTooLarge)
			return
		}
		respondError(w, r, fmt.Errorf("%w: %v", errNoFile, err), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		respondError(w, r, errNoFile, http.StatusBadRequest)
		return
	}
	if len(headers) > maxUploadFiles {
		respondError(w, r, fmt.Errorf("too many files: %d, at most %d per request", len(headers), maxUploadFiles), http.StatusBadRequest)
		return
	}

	var forced core.RecordType
	if t := strings.TrimSpace(r.FormValue("type")); t != "" {
		forced = core.RecordType(strings.ToLower(t))
		if !forced.Valid() {
			respondError(w, r, fmt.Errorf("%w: type %q", core.ErrUnrecognizedInput, t), http.StatusBadRequest)
			return
		}
	}

	if !s.acquireRun(w, r) {
		return
	}
	defer s.runs.Release()

	sources := make([]core.Source, 0, len(headers))
	for _, h := range headers {
		typ := forced
		if typ == "" {
			// An unrecognized name leaves typ empty; the service reports it.
			typ, _ = core.ClassifyInput(h.Filename)
		}
		sources = append(sources, core.Source{Name: h.Filename, Type: typ, Open: uploadOpener(h)})
	}

	report := s.service.AnalyzeReaders(r.Context(), sources)
	s.metrics.observe("upload", report)
	writeJSON(w, r, report)
}

// uploadOpener defers opening a multipart part until the service reaches it.
func uploadOpener(h *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return h.Open()
	}
}
