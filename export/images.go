package export

import (
	"strings"

	"github.com/crfcave/cavereport/builder"
	"github.com/crfcave/cavereport/ir/semantic"
)

// FileImageLoader resolves photo references as filesystem paths,
// accepting both plain paths and file:// URIs. It satisfies
// layout.ImageLoader.
type FileImageLoader struct{}

func (FileImageLoader) Load(ref string, targetW, targetH int) (*semantic.Image, error) {
	path := strings.TrimPrefix(ref, "file://")
	return builder.ScaledImageFromFile(path, targetW, targetH)
}
