// Package system provides driven adapters backed by the operating
// system: the clipboard and the default application opener.
package system
