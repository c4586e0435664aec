package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/JonMunkholm/BodyComp/internal/logging"
	"github.com/google/uuid"
)

// DefaultMaxFileSize is the largest input file accepted (10MB). Device
// exports are a few kilobytes per hundred readings.
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

var (
	// errFileTooLarge is wrapped with the offending size.
	errFileTooLarge = errors.New("file too large")

	// ErrInvalidCSV wraps a read or parse failure part way through a file.
	ErrInvalidCSV = errors.New("invalid csv")
)

// Directory names an export directory and the files to take from it.
type Directory struct {
	Path    string
	Pattern string
	Type    RecordType
}

// Source is an input opened on demand, such as an uploaded file.
// Open is called once, when the run reaches the source, and the returned
// reader is closed before the next source is opened.
type Source struct {
	Name string
	Type RecordType
	Open func() (io.ReadCloser, error)
}

// Service runs the ingestion and analysis pipeline.
// A Service holds no per-run state and may be shared.
type Service struct {
	maxFileSize int64
	now         func() time.Time
	newID       func() uuid.UUID
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMaxFileSize limits the size of files read from disk.
func WithMaxFileSize(n int64) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.maxFileSize = n
		}
	}
}

// WithClock replaces time.Now for report timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new Service instance.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		maxFileSize: DefaultMaxFileSize,
		now:         time.Now,
		newID:       uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// run accumulates one analysis. It is owned by a single call.
type run struct {
	id           uuid.UUID
	measurements []Measurement
	profiles     []Profile
	fileErrors   []FileError
}

func (r *run) fail(file string, err error) {
	msg := MapError(err)
	r.fileErrors = append(r.fileErrors, FileError{
		File:    file,
		Code:    msg.Code,
		Message: err.Error(),
	})
}

// Analyze ingests the inputs in order and builds a Report.
//
// Files are processed one at a time; each is closed before the next is
// opened. A file that is missing, unreadable or malformed is recorded in
// Report.FileErrors and the run continues with the remaining inputs.
func (s *Service) Analyze(ctx context.Context, inputs []Input) *Report {
	return s.analyzeInputs(ctx, &run{id: s.newID()}, inputs)
}

// AnalyzeDirectories discovers exports in each directory and analyzes
// them together. A missing directory is reported like an unreadable file.
func (s *Service) AnalyzeDirectories(ctx context.Context, dirs []Directory) *Report {
	rn := &run{id: s.newID()}
	logger := logging.WithFields(ctx, "run_id", rn.id)

	var inputs []Input
	for _, d := range dirs {
		found, err := DiscoverInputs(d.Path, d.Pattern, d.Type)
		if err != nil {
			logger.Warn("directory skipped", "dir", d.Path, "error", err)
			rn.fail(d.Path, err)
			continue
		}
		logger.Debug("directory scanned", "dir", d.Path, "pattern", d.Pattern, "files", len(found))
		inputs = append(inputs, found...)
	}

	return s.analyzeInputs(ctx, rn, inputs)
}

func (s *Service) analyzeInputs(ctx context.Context, rn *run, inputs []Input) *Report {
	logger := logging.WithFields(ctx, "run_id", rn.id)

	for _, in := range inputs {
		if err := s.ingestFile(ctx, rn, in); err != nil {
			logger.Warn("input skipped", "file", in.Path, "error", err)
			rn.fail(filepath.Base(in.Path), err)
		}
	}

	return s.finish(ctx, rn)
}

// AnalyzeReaders is Analyze for inputs that are not files on disk.
// A source that cannot be opened is recorded like an unreadable file.
func (s *Service) AnalyzeReaders(ctx context.Context, sources []Source) *Report {
	rn := &run{id: s.newID()}
	logger := logging.WithFields(ctx, "run_id", rn.id)

	for _, src := range sources {
		if err := s.ingestSource(ctx, rn, src); err != nil {
			logger.Warn("input skipped", "file", src.Name, "error", err)
			rn.fail(filepath.Base(src.Name), err)
		}
	}

	return s.finish(ctx, rn)
}

// ingestFile opens one input, reads it fully and closes it.
func (s *Service) ingestFile(ctx context.Context, rn *run, in Input) error {
	if !in.Type.Valid() {
		return fmt.Errorf("%w: %s", ErrUnrecognizedInput, filepath.Base(in.Path))
	}

	info, err := os.Stat(in.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, in.Path)
		}
		return fmt.Errorf("%w: %w", ErrFileUnreadable, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrFileUnreadable, in.Path)
	}
	if info.Size() > s.maxFileSize {
		return s.tooLarge(info.Size())
	}

	return s.ingestSource(ctx, rn, Source{
		Name: in.Path,
		Type: in.Type,
		Open: func() (io.ReadCloser, error) { return os.Open(in.Path) },
	})
}

// ingestSource opens src, reads it fully and closes it.
func (s *Service) ingestSource(ctx context.Context, rn *run, src Source) error {
	if !src.Type.Valid() {
		return fmt.Errorf("%w: %s", ErrUnrecognizedInput, filepath.Base(src.Name))
	}
	if src.Open == nil {
		return fmt.Errorf("%w: %s has no content", ErrFileUnreadable, src.Name)
	}

	rc, err := src.Open()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileUnreadable, src.Name, err)
	}
	defer rc.Close()

	return s.ingest(ctx, rn, src.Name, src.Type, rc)
}

func (s *Service) tooLarge(size int64) error {
	if size < 0 {
		return fmt.Errorf("%w: exceeds %d bytes", errFileTooLarge, s.maxFileSize)
	}
	return fmt.Errorf("%w: %d bytes exceeds %d", errFileTooLarge, size, s.maxFileSize)
}

// limitedReader fails once more than remaining bytes have been read.
// Uploads have no reliable size up front, so the limit is enforced while
// reading.
type limitedReader struct {
	r         io.Reader
	remaining int64
	onExceed  func(size int64) error
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, l.onExceed(-1)
	}
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return 0, l.onExceed(-1)
	}
	return n, err
}

// ingest reads every record of r into the run. Rows read before a
// parse error are kept; the error stops the rest of this input only.
func (s *Service) ingest(ctx context.Context, rn *run, name string, typ RecordType, r io.Reader) error {
	logger := logging.WithFields(ctx, "run_id", rn.id, "file", filepath.Base(name))

	limited := &limitedReader{r: r, remaining: s.maxFileSize, onExceed: s.tooLarge}
	sanitized := NewSanitizingReader(limited)
	cr := csv.NewReader(sanitized)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, skipped := 0, 0
	defer func() {
		logger.Info("input processed",
			"type", typ,
			"rows", rows,
			"skipped", skipped,
			"dropped_bytes", sanitized.Dropped,
		)
	}()

	for {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if errors.Is(err, errFileTooLarge) {
			return err
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidCSV, err)
		}

		line, _ := cr.FieldPos(0)
		raw := RawRow(record)
		if !decodable(raw) {
			skipped++
			logger.Debug("row skipped", "line", line, "tokens", len(raw))
			continue
		}

		switch typ {
		case RecordMeasurement:
			rn.measurements = append(rn.measurements, NewMeasurement(name, line, raw))
		case RecordProfile:
			rn.profiles = append(rn.profiles, NewProfile(name, line, raw))
		}
		rows++
	}
}

// finish orders, classifies and compares the collected measurements.
func (s *Service) finish(ctx context.Context, rn *run) *Report {
	sorted := SortChronologically(rn.measurements)

	report := &Report{
		RunID:        rn.id,
		GeneratedAt:  s.now(),
		Measurements: make([]AnalyzedMeasurement, 0, len(sorted)),
		Profiles:     rn.profiles,
		FileErrors:   rn.fileErrors,
	}
	if report.Profiles == nil {
		report.Profiles = []Profile{}
	}

	for _, m := range sorted {
		report.Measurements = append(report.Measurements, Analyze(m))
	}

	if section, ok := CompareLatest(sorted); ok {
		report.Comparison = section
	}

	logging.WithFields(ctx, "run_id", rn.id).Info("analysis completed",
		"measurements", len(report.Measurements),
		"profiles", len(report.Profiles),
		"file_errors", len(report.FileErrors),
		"compared", report.HasComparison(),
	)

	return report
}

// Analyze derives everything the report shows for one measurement.
func Analyze(m Measurement) AnalyzedMeasurement {
	rawSex, _ := m.Value(FieldSex)
	sex := ResolveSex(rawSex)

	am := AnalyzedMeasurement{
		Measurement:     m,
		Sex:             sex,
		SexLabel:        SexDisplayLabel(rawSex),
		FieldMap:        m.FieldMap(),
		Readings:        m.Readings(),
		Classifications: ClassifyMeasurement(m, sex),
	}
	if am.Classifications == nil {
		am.Classifications = []ClassificationResult{}
	}
	if t, ok := MeasuredAt(m); ok {
		am.MeasuredAt = &t
	}
	return am
}
