package cheatsync

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-cheatsync/internal/fileutil"
)

// defaultFetchTimeout bounds a single remote fetch.
const defaultFetchTimeout = 30 * time.Second

// Service runs sync units: one remote page, a batch of pages, or one
// tag-filtered vault scan. A Service holds configuration only and is
// safe for concurrent use.
type Service struct {
	cfg    serviceConfig
	writer Writer
	log    zerolog.Logger
}

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	outputDir    string
	workers      int
	fetchTimeout time.Duration
	render       RenderOptions
	sortSections bool
	noteTitle    func(path, content string) string
}

// Option configures a Service.
type Option func(*Service)

// New creates a Service writing atomically into the current directory.
// Use options to customize behavior (e.g., WithOutputDir).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			outputDir:    ".",
			fetchTimeout: defaultFetchTimeout,
			noteTitle:    FileStem,
		},
		writer: fileutil.AtomicWriter{},
		log:    zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithOutputDir sets the directory cheatsheets are written to.
func WithOutputDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.cfg.outputDir = dir
		}
	}
}

// WithWriter replaces the atomic file writer (e.g., by tests).
func WithWriter(w Writer) Option {
	return func(s *Service) {
		if w != nil {
			s.writer = w
		}
	}
}

// WithWorkers sets the concurrency of batch operations (0 = auto).
func WithWorkers(n int) Option {
	return func(s *Service) {
		s.cfg.workers = n
	}
}

// WithFetchTimeout sets the timeout of each remote fetch.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithFetchTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("cheatsync: WithFetchTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.fetchTimeout = d
	}
}

// WithRenderOptions sets comment stripping and fence labelling.
func WithRenderOptions(opts RenderOptions) Option {
	return func(s *Service) {
		s.cfg.render = opts
	}
}

// WithSortedSections orders vault groups by file path instead of
// enumeration order.
func WithSortedSections(sorted bool) Option {
	return func(s *Service) {
		s.cfg.sortSections = sorted
	}
}

// WithNoteTitle sets how a vault note is named in the cheatsheet.
// The default is the file name without extension.
func WithNoteTitle(fn func(path, content string) string) Option {
	return func(s *Service) {
		if fn != nil {
			s.cfg.noteTitle = fn
		}
	}
}

// WithLogger sets the logger used to report skipped documents.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// FileStem returns the base name of path without its extension.
func FileStem(path, _ string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// outputPath joins the output directory and a sanitized file name.
func (s *Service) outputPath(name string) string {
	return filepath.Join(s.cfg.outputDir, fileutil.SanitizeFilename(name, fileutil.DefaultMaxNameLength))
}

func (s *Service) workers() int {
	return ResolvePoolSize(s.cfg.workers)
}

// logWarnings reports parse leniency warnings of one document.
func (s *Service) logWarnings(unit, doc string, warnings []Warning) {
	for _, w := range warnings {
		s.log.Warn().
			Str("unit", unit).
			Str("document", doc).
			Str("kind", w.Kind.String()).
			Int("line", w.Line).
			Msg(w.Message)
	}
}
