// Package file provides a file-based implementation of the ConfigStore
// interface. Settings are read from TOML, or YAML for .yaml and .yml
// files, and MDF_* environment variables override what the file says.
package file
