// Package filesystem discovers, reads and watches markdown files on
// the local disk.
//
// Scanner walks a root directory lazily and applies the include and
// exclude patterns. Loader reads a single file with its metadata.
// Watcher turns fsnotify events into debounced file changes.
package filesystem
