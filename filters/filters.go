// Package filters enumerates the cosmetic image transforms and applies them
// in place on the display frame. The catalog is a closed set: names are
// validated up front, so an unknown filter can never silently turn into a
// no-op mid-stream.
package filters

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/camlab-ai/go-campipe/images"
)

// Kind identifies one transform from the catalog.
type Kind int

// The filter catalog. Normal is the identity transform.
const (
	Normal Kind = iota
	Beauty
	Dehaze
	Underwater
	Stage
	Gray
	Histogram
	Binary
	MorphOpen
	MorphClose
	Blur
)

var kindNames = map[Kind]string{
	Normal:     "Normal",
	Beauty:     "Beauty",
	Dehaze:     "Dehaze",
	Underwater: "Underwater",
	Stage:      "Stage",
	Gray:       "Gray",
	Histogram:  "Histogram",
	Binary:     "Binary",
	MorphOpen:  "Morph Open",
	MorphClose: "Morph Close",
	Blur:       "Blur",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Catalog returns every selectable filter name, Normal first.
func Catalog() []Kind {
	return []Kind{
		Normal, Beauty, Dehaze, Underwater, Stage,
		Gray, Histogram, Binary, MorphOpen, MorphClose, Blur,
	}
}

// Names returns the user-facing names of the whole catalog, Normal first.
func Names() []string {
	kinds := Catalog()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}

// Parse resolves a user-facing filter name. Matching ignores case, spaces
// and underscores, so "Morph Open", "morph_open" and "morphopen" are the
// same filter. Unknown names are an error, not a silent no-op: validation
// happens where the name enters the system.
func Parse(name string) (Kind, error) {
	want := foldName(name)
	for k, n := range kindNames {
		if foldName(n) == want {
			return k, nil
		}
	}
	return Normal, errors.Errorf("unknown filter %q", name)
}

func foldName(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "_", "")
}

// Applier mutates a frame in place with the named transform. Normal must be
// a no-op. Appliers never produce a second output image.
type Applier interface {
	Apply(k Kind, frame *images.Frame) error
}
