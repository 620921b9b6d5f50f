package split

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrInvalidGrid is returned when a grid has a non-positive row or column count.
var ErrInvalidGrid = errors.New("grid rows and cols must be positive")

// Grid is the rows × cols partition applied to an image.
type Grid struct {
	Rows int
	Cols int
}

func (g Grid) String() string {
	return fmt.Sprintf("%dx%d", g.Rows, g.Cols)
}

// Validate reports ErrInvalidGrid unless both dimensions are positive.
func (g Grid) Validate() error {
	if g.Rows <= 0 || g.Cols <= 0 {
		return fmt.Errorf("%w: rows=%d, cols=%d", ErrInvalidGrid, g.Rows, g.Cols)
	}
	return nil
}

// Cells is the number of tiles the grid produces.
func (g Grid) Cells() int {
	return g.Rows * g.Cols
}

// DivisibilityError reports image dimensions that the grid does not divide evenly.
type DivisibilityError struct {
	Width, Height int
	Rows, Cols    int
}

func (e *DivisibilityError) Error() string {
	return fmt.Sprintf("image size (%dx%d) is not divisible by cols=%d, rows=%d",
		e.Width, e.Height, e.Cols, e.Rows)
}

// Geometry is the tile layout of one image under one grid.
type Geometry struct {
	Grid       Grid
	Origin     image.Point
	TileWidth  int
	TileHeight int
}

// NewGeometry computes the tile size for bounds split by grid. The width must
// be a multiple of grid.Cols and the height a multiple of grid.Rows.
func NewGeometry(bounds image.Rectangle, grid Grid) (Geometry, error) {
	if err := grid.Validate(); err != nil {
		return Geometry{}, err
	}
	w, h := bounds.Dx(), bounds.Dy()
	if w%grid.Cols != 0 || h%grid.Rows != 0 {
		return Geometry{}, &DivisibilityError{Width: w, Height: h, Rows: grid.Rows, Cols: grid.Cols}
	}
	return Geometry{
		Grid:       grid,
		Origin:     bounds.Min,
		TileWidth:  w / grid.Cols,
		TileHeight: h / grid.Rows,
	}, nil
}

// Rect returns the source rectangle of the tile at (row, col).
func (g Geometry) Rect(row, col int) image.Rectangle {
	left := g.Origin.X + col*g.TileWidth
	upper := g.Origin.Y + row*g.TileHeight
	return image.Rect(left, upper, left+g.TileWidth, upper+g.TileHeight)
}

var extensions = map[imaging.Format]string{
	imaging.PNG:  "png",
	imaging.JPEG: "jpg",
	imaging.GIF:  "gif",
	imaging.TIFF: "tif",
	imaging.BMP:  "bmp",
}

// Extension returns the file extension, without the dot, used for format.
func Extension(format imaging.Format) string {
	if ext, ok := extensions[format]; ok {
		return ext
	}
	return "png"
}

// TileName is the file name of the tile at (row, col), e.g. r01_c02.png.
func TileName(row, col int, format imaging.Format) string {
	return fmt.Sprintf("r%02d_c%02d.%s", row, col, Extension(format))
}

// OutputDir derives the tile directory from the image path by dropping its
// extension: photos/cat.jpg -> photos/cat.
func OutputDir(imagePath string) string {
	base := filepath.Base(imagePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		// dotfiles such as ".tile" have no extension to strip
		stem = base
	}
	return filepath.Join(filepath.Dir(imagePath), stem)
}
