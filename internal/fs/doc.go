// Package fs provides the filesystem seam used by rawio's reader and writer.
//
//   - [FileSystem] abstracts the few calls rawio makes (Stat, OpenFile, Rename, Remove, MkdirAll)
//   - [LocalFS] is the production implementation backed by package os
//   - [FaultyFS] wraps another FileSystem to inject failures and record calls
//
// Production code uses fs.Default:
//
//	f, err := fs.Default.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
//
// Tests inject FaultyFS to simulate I/O errors and short writes, and to
// assert that an operation did not reach the filesystem at all:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("out.bin", fs.Fault{ShortWrite: 3})
//	// ... call rawio.WriteFile(path, buf, rawio.WithFileSystem(ffs))
//	ffs.Ops() // ["stat out.bin", "open out.bin", ...]
//
// The interfaces carry no context.Context: local file calls are not
// interruptible at the syscall level.
package fs
