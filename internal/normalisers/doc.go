// Package normalisers turns raw file content into indexable documents.
// Each subpackage handles one format; markdown is the only one mdf reads.
package normalisers
