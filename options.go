package rawio

import (
	"log/slog"
	"os"

	"github.com/hupe1980/rawio/internal/fs"
	"github.com/hupe1980/rawio/internal/mmap"
	"github.com/hupe1980/rawio/resource"
)

// FileSystem abstracts the file operations rawio performs besides mapping.
type FileSystem = fs.FileSystem

// File is an open file returned by FileSystem.OpenFile.
type File = fs.File

// AccessPattern is a hint about how mapped data will be accessed.
type AccessPattern = mmap.AccessPattern

const (
	AccessDefault    = mmap.AccessDefault
	AccessSequential = mmap.AccessSequential
	AccessRandom     = mmap.AccessRandom
	AccessWillNeed   = mmap.AccessWillNeed
	AccessDontNeed   = mmap.AccessDontNeed
)

// DefaultPerm is the permission used for files created by WriteFile.
const DefaultPerm os.FileMode = 0o644

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	fs               fs.FileSystem
	controller       *resource.Controller
	access           AccessPattern
	sync             bool
	perm             os.FileMode
}

// Option configures ReadFile, WriteFile, ReadBlob and WriteBlob.
type Option func(*options)

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := rawio.NewJSONLogger(slog.LevelDebug)
//	f, err := rawio.ReadFile(path, rawio.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
//	metrics := &rawio.BasicMetricsCollector{}
//	_ = rawio.WriteFile(path, buf, rawio.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithFileSystem replaces the file system used for stat, open and write.
// Mapping always goes through the operating system.
func WithFileSystem(fsys FileSystem) Option {
	return func(o *options) {
		if fsys == nil {
			fsys = fs.Default
		}
		o.fs = fsys
	}
}

// WithResourceController bounds mapped memory and write throughput.
//
// Mappings that would exceed the memory limit fail with ENOMEM instead of
// blocking. Writes are throttled to the IO limit.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithAccessPattern advises the kernel how a new mapping will be read.
func WithAccessPattern(p AccessPattern) Option {
	return func(o *options) {
		o.access = p
	}
}

// WithSync makes WriteFile fsync the file before closing it.
func WithSync() Option {
	return func(o *options) {
		o.sync = true
	}
}

// WithPerm sets the permission bits for files created by WriteFile.
// Existing files keep their permissions.
func WithPerm(perm os.FileMode) Option {
	return func(o *options) {
		o.perm = perm
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		fs:               fs.Default,
		perm:             DefaultPerm,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
