// Package stitch reassembles a directory of grid tiles into one image.
package stitch

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/disintegration/imaging"
)

var tileNameRE = regexp.MustCompile(`^r(\d{2,})_c(\d{2,})\.[A-Za-z0-9]+$`)

// ParseTileName extracts the grid position from a tile file name such as
// r01_c02.png. ok is false for anything that is not a tile.
func ParseTileName(name string) (row, col int, ok bool) {
	m := tileNameRE.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, false
	}
	row, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	col, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return row, col, true
}

type cell struct{ row, col int }

// Dir pastes every tile in dir back at its grid position. The grid size is
// inferred from the highest row and column present; every cell must exist
// exactly once and all tiles must share one size.
func Dir(dir string) (*image.NRGBA, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := map[cell]string{}
	rows, cols := 0, 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		row, col, ok := ParseTileName(e.Name())
		if !ok {
			continue
		}
		c := cell{row, col}
		if prev, dup := files[c]; dup {
			return nil, fmt.Errorf("duplicate tile r%02d_c%02d: %s and %s", row, col, prev, e.Name())
		}
		files[c] = e.Name()
		rows = max(rows, row+1)
		cols = max(cols, col+1)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no tiles found in %s", dir)
	}
	if len(files) != rows*cols {
		return nil, fmt.Errorf("incomplete grid in %s: found %d of %d tiles", dir, len(files), rows*cols)
	}

	var dst *image.NRGBA
	tw, th := 0, 0
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			name := files[cell{row, col}]
			tile, err := imaging.Open(filepath.Join(dir, name))
			if err != nil {
				return nil, fmt.Errorf("open tile %s: %w", name, err)
			}
			b := tile.Bounds()
			if dst == nil {
				tw, th = b.Dx(), b.Dy()
				dst = imaging.New(tw*cols, th*rows, color.Transparent)
			} else if b.Dx() != tw || b.Dy() != th {
				return nil, fmt.Errorf("tile %s is %dx%d, expected %dx%d", name, b.Dx(), b.Dy(), tw, th)
			}
			dst = imaging.Paste(dst, tile, image.Pt(col*tw, row*th))
		}
	}
	return dst, nil
}
