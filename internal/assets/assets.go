// Package assets probes icon files on disk. It only checks which
// variants exist, image decoding belongs to the host application.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

var (
	ERR_ASSET_NOT_FOUND       = errors.New("no icon asset found for stem")
	ERR_MODIFIER_INCOMPATIBLE = errors.New("modifier incompatible with asset format")
)

type Flip int

const (
	FLIP_NONE Flip = iota
	FLIP_HORIZONTAL
	FLIP_VERTICAL
)

func (f Flip) String() string {
	switch f {
	case FLIP_HORIZONTAL:
		return "flip_horizontal"
	case FLIP_VERTICAL:
		return "flip_vertical"
	}
	return "none"
}

type Format int

const (
	FORMAT_VECTOR Format = iota
	FORMAT_RASTER
)

func (f Format) String() string {
	if f == FORMAT_VECTOR {
		return "vector"
	}
	return "raster"
}

// Spec is one icon layer request, parsed out of the raw path string
// written in the source. Modifiers ride inside the path itself:
// a trailing "_flip_horizontal"/"_flip_vertical" segment or a
// trailing "-WxH" size.
type Spec struct {
	Stem         string
	Flip         Flip
	ForcedWidth  int
	ForcedHeight int
}

var sizeSuffix = regexp.MustCompile(`-(\d+)x(\d+)$`)

func ParseSpec(path string) *Spec {
	spec := &Spec{Stem: path}

	for {
		switch {
		case strings.HasSuffix(spec.Stem, "_flip_horizontal"):
			spec.Flip = FLIP_HORIZONTAL
			spec.Stem = strings.TrimSuffix(spec.Stem, "_flip_horizontal")
		case strings.HasSuffix(spec.Stem, "_flip_vertical"):
			spec.Flip = FLIP_VERTICAL
			spec.Stem = strings.TrimSuffix(spec.Stem, "_flip_vertical")
		default:
			match := sizeSuffix.FindStringSubmatch(spec.Stem)
			if match == nil {
				return spec
			}
			spec.ForcedWidth, _ = strconv.Atoi(match[1])
			spec.ForcedHeight, _ = strconv.Atoi(match[2])
			spec.Stem = strings.TrimSuffix(spec.Stem, match[0])
		}
	}
}

// Asset is one resolved icon layer. Files holds slash-separated
// paths relative to the asset root, in density order for rasters.
type Asset struct {
	Stem         string
	Format       Format
	Files        []string
	Flip         Flip
	ForcedWidth  int
	ForcedHeight int
}

func (a *Asset) IsVector() bool {
	return a.Format == FORMAT_VECTOR
}

type Resolver struct {
	root string
}

func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// Resolve probes the disk for spec's stem. A vector asset wins over
// raster variants of the same stem. Forced sizes apply to vectors
// only, flips to rasters only.
func (r *Resolver) Resolve(spec *Spec) (*Asset, error) {
	base := filepath.Join(r.root, filepath.FromSlash(spec.Stem))

	if r.exists(base + ".svg") {
		if spec.Flip != FLIP_NONE {
			return nil, ERR_MODIFIER_INCOMPATIBLE
		}
		return &Asset{
			Stem:         spec.Stem,
			Format:       FORMAT_VECTOR,
			Files:        []string{spec.Stem + ".svg"},
			ForcedWidth:  spec.ForcedWidth,
			ForcedHeight: spec.ForcedHeight,
		}, nil
	}

	if !r.exists(base + ".png") {
		return nil, ERR_ASSET_NOT_FOUND
	}
	if spec.ForcedWidth != 0 || spec.ForcedHeight != 0 {
		return nil, ERR_MODIFIER_INCOMPATIBLE
	}

	files := []string{spec.Stem + ".png"}
	for _, density := range []string{"@2x", "@3x"} {
		if r.exists(base + density + ".png") {
			files = append(files, spec.Stem+density+".png")
		}
	}

	return &Asset{
		Stem:   spec.Stem,
		Format: FORMAT_RASTER,
		Files:  files,
		Flip:   spec.Flip,
	}, nil
}

// ResolveLayers probes all layers of one icon concurrently. Probing
// is read-only, so layers can race freely; results keep input order.
func (r *Resolver) ResolveLayers(specs []*Spec) ([]*Asset, error) {
	results := make([]*Asset, len(specs))

	g := new(errgroup.Group)
	for i, spec := range specs {
		g.Go(func() error {
			asset, err := r.Resolve(spec)
			if err != nil {
				return fmt.Errorf("%s: %w", spec.Stem, err)
			}
			results[i] = asset
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (r *Resolver) exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
