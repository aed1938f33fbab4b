// Package connectors provides the adapters that read documents from
// where they live. The filesystem connector scans, loads and watches
// the markdown files below a root directory.
package connectors
