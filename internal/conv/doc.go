// Package conv provides checked integer conversions for sizes that come from
// outside the process: file stats, object metadata and frame headers.
package conv
