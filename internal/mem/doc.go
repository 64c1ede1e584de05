// Package mem allocates heap buffers with cache-line alignment, so a heap copy
// of a blob has the same start alignment a page-aligned mapping would give.
package mem
