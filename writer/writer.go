// Package writer serializes a semantic.Document to PDF 1.7 bytes.
package writer

import (
	"io"

	"github.com/crfcave/cavereport/ir/semantic"
)

// Writer turns an assembled document into a byte stream. The whole
// document is serialized in one call; nothing is written on error paths
// until the object table is complete.
type Writer interface {
	Write(doc *semantic.Document, w io.Writer) error
}

// New constructs a Writer.
func New() Writer { return &impl{} }
