// Package split cuts an image into a rows × cols grid of equally sized tiles
// and writes each tile to a directory named after the source image.
package split

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register the WebP decoder with image.Decode
)

// Tile is one written cell of the grid.
type Tile struct {
	Row  int
	Col  int
	Rect image.Rectangle
	Path string
}

// Result describes the output of a completed split.
type Result struct {
	Dir      string
	Geometry Geometry
	Tiles    []Tile
}

// Paths returns the tile file paths in row-major order.
func (r *Result) Paths() []string {
	paths := make([]string, len(r.Tiles))
	for i, t := range r.Tiles {
		paths[i] = t.Path
	}
	return paths
}

type options struct {
	format imaging.Format
	logger *slog.Logger
}

// Option configures Image.
type Option func(*options)

// WithFormat sets the tile encoding. Tiles are PNG unless overridden.
func WithFormat(f imaging.Format) Option {
	return func(o *options) { o.format = f }
}

// WithLogger sets the logger used for progress output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Image splits the image at inPath into grid.Rows × grid.Cols tiles written to
// OutputDir(inPath) as rRR_cCC.<ext>, in row-major order.
//
// The output directory is created before the image is decoded, so a decode or
// divisibility failure leaves it behind (empty). No tile is written unless the
// image dimensions are exact multiples of the grid.
func Image(inPath string, grid Grid, opts ...Option) (*Result, error) {
	o := options{format: imaging.PNG, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	if err := grid.Validate(); err != nil {
		return nil, err
	}

	outDir := OutputDir(inPath)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	// imaging.Open closes the file before returning.
	img, err := imaging.Open(inPath)
	if err != nil {
		return nil, fmt.Errorf("open image %q: %w", inPath, err)
	}

	bounds := img.Bounds()
	geo, err := NewGeometry(bounds, grid)
	if err != nil {
		return nil, err
	}
	o.logger.Info("splitting image",
		"path", inPath,
		"width", bounds.Dx(),
		"height", bounds.Dy(),
		"grid", grid.String(),
		"tile_width", geo.TileWidth,
		"tile_height", geo.TileHeight,
	)

	res := &Result{Dir: outDir, Geometry: geo, Tiles: make([]Tile, 0, grid.Cells())}
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			rect := geo.Rect(row, col)
			outFile := filepath.Join(outDir, TileName(row, col, o.format))
			if err := writeTile(outFile, crop(img, rect), o.format); err != nil {
				return nil, err
			}
			o.logger.Debug("wrote tile", "row", row, "col", col, "path", outFile)
			res.Tiles = append(res.Tiles, Tile{Row: row, Col: col, Rect: rect, Path: outFile})
		}
	}
	return res, nil
}

// crop keeps the decoded pixel type (Gray16, NRGBA64, Paletted...) when src
// supports SubImage.
func crop(src image.Image, rect image.Rectangle) image.Image {
	if sub, ok := src.(interface {
		SubImage(r image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(rect)
	}
	return imaging.Crop(src, rect)
}

func writeTile(path string, tile image.Image, format imaging.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create tile: %w", err)
	}
	if err := imaging.Encode(f, tile, format); err != nil {
		f.Close()
		return fmt.Errorf("encode tile %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close tile %s: %w", filepath.Base(path), err)
	}
	return nil
}
