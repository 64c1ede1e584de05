package rawio

import (
	"io"
	"sync/atomic"

	"github.com/hupe1980/rawio/resource"
)

// releaser returns a resource exactly once: it closes the owner and gives the
// reserved bytes back to the controller. It must not reference the object
// whose cleanup it serves.
type releaser struct {
	closer     io.Closer
	controller *resource.Controller
	reserved   int64
	done       atomic.Bool
}

func (r *releaser) release() error {
	if r.done.Swap(true) {
		return nil
	}
	r.controller.ReleaseMemory(r.reserved)
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func (r *releaser) released() bool {
	return r.done.Load()
}
