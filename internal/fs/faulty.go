package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrInjected is the error returned by injected faults that do not set Err.
var ErrInjected = errors.New("fs: injected fault")

// Fault defines the failure behavior for files matching a rule.
type Fault struct {
	FailOnStat  bool
	FailOnOpen  bool
	FailOnSync  bool
	FailOnClose bool
	// FailAfterBytes fails writes once this many bytes were written to the
	// file. Zero disables the limit.
	FailAfterBytes int64
	// ShortWrite, when > 0, caps every Write at this many bytes and reports
	// no error, emulating a device that accepts less than requested.
	ShortWrite int
	Err        error
}

func (f Fault) err(fallback error) error {
	if f.Err != nil {
		return f.Err
	}
	return fallback
}

// FaultyFS is a FileSystem wrapper that injects errors and records calls.
type FaultyFS struct {
	FS FileSystem

	mu    sync.Mutex
	rules map[string]Fault // substring of the path -> Fault
	ops   []string
}

// NewFaultyFS creates a new FaultyFS wrapping the provided FS (or Default if nil).
func NewFaultyFS(fs FileSystem) *FaultyFS {
	if fs == nil {
		fs = Default
	}
	return &FaultyFS{
		FS:    fs,
		rules: make(map[string]Fault),
	}
}

// AddRule adds a fault injection rule for paths containing pattern.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

// Ops returns the calls made so far as "op basename" strings.
func (f *FaultyFS) Ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

func (f *FaultyFS) record(op, name string) Fault {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ops = append(f.ops, op+" "+filepath.Base(name))

	var fault Fault
	for pattern, rule := range f.rules {
		if strings.Contains(name, pattern) {
			fault = rule
		}
	}
	return fault
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	fault := f.record("open", name)
	if fault.FailOnOpen {
		return nil, &os.PathError{Op: "open", Path: name, Err: fault.err(ErrInjected)}
	}

	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f, name: name, fault: fault}, nil
}

func (f *FaultyFS) Stat(name string) (os.FileInfo, error) {
	if fault := f.record("stat", name); fault.FailOnStat {
		return nil, &os.PathError{Op: "stat", Path: name, Err: fault.err(ErrInjected)}
	}
	return f.FS.Stat(name)
}

func (f *FaultyFS) Remove(name string) error {
	f.record("remove", name)
	return f.FS.Remove(name)
}

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	f.record("rename", oldpath)
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultyFS) MkdirAll(path string, perm os.FileMode) error {
	f.record("mkdir", path)
	return f.FS.MkdirAll(path, perm)
}

type faultyFile struct {
	File
	fs      *FaultyFS
	name    string
	fault   Fault
	written int64
}

func (ff *faultyFile) Write(p []byte) (int, error) {
	ff.fs.record("write", ff.name)

	if ff.fault.FailAfterBytes > 0 && ff.written+int64(len(p)) > ff.fault.FailAfterBytes {
		allowed := ff.fault.FailAfterBytes - ff.written
		n, _ := ff.File.Write(p[:allowed])
		ff.written += int64(n)
		return n, ff.fault.err(fmt.Errorf("%w: write limit %d reached", ErrInjected, ff.fault.FailAfterBytes))
	}

	if ff.fault.ShortWrite > 0 && len(p) > ff.fault.ShortWrite {
		p = p[:ff.fault.ShortWrite]
	}

	n, err := ff.File.Write(p)
	ff.written += int64(n)
	return n, err
}

func (ff *faultyFile) Sync() error {
	ff.fs.record("sync", ff.name)
	if ff.fault.FailOnSync {
		return ff.fault.err(ErrInjected)
	}
	return ff.File.Sync()
}

func (ff *faultyFile) Close() error {
	ff.fs.record("close", ff.name)
	if ff.fault.FailOnClose {
		_ = ff.File.Close()
		return ff.fault.err(ErrInjected)
	}
	return ff.File.Close()
}
