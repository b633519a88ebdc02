package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/geo/s2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"col-heatmap/models"
	"col-heatmap/utils"
)

// ErrNoData is returned when no resolved city can be placed on the map.
var ErrNoData = errors.New("no data to display on the map")

// Padding added around the cities, in degrees.
const (
	lonPadding = 2.0
	latPadding = 1.0
)

// Bounds is a lat/lon box in degrees.
type Bounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Extent returns the padded box enclosing every coordinate.
func Extent(coords []models.Coordinate) Bounds {
	rect := s2.EmptyRect()
	for _, c := range coords {
		rect = rect.AddPoint(s2.LatLngFromDegrees(c.Lat, c.Lon))
	}
	lo, hi := rect.Lo(), rect.Hi()
	return Bounds{
		MinLat: lo.Lat.Degrees() - latPadding,
		MaxLat: hi.Lat.Degrees() + latPadding,
		MinLon: lo.Lng.Degrees() - lonPadding,
		MaxLon: hi.Lng.Degrees() + lonPadding,
	}
}

// Normalize maps v from [min, max] onto [0, 1]. A flat range maps to 0.5.
func Normalize(v, min, max float64) float64 {
	if max <= min {
		return 0.5
	}
	n := (v - min) / (max - min)
	switch {
	case n < 0:
		return 0
	case n > 1:
		return 1
	}
	return n
}

const (
	mapSize        = 10 * vg.Inch
	colorBarHeight = 1.2 * vg.Inch
	colorBarLabel  = "Cost of Living Index (Higher = More Expensive)"
)

// newColorBar builds the scale shown under the map. Its palette spans the
// raw index range, so it reads the same as the normalized point colors.
func newColorBar(minIdx, maxIdx float64) *plot.Plot {
	if maxIdx <= minIdx {
		maxIdx = minIdx + 1
	}
	cmap := moreland.SmoothBlueRed()
	cmap.SetMax(maxIdx)
	cmap.SetMin(minIdx)

	p := plot.New()
	p.HideY()
	p.X.Label.Text = colorBarLabel
	p.Add(&plotter.ColorBar{ColorMap: cmap})
	return p
}

type point struct {
	city  string
	index float64
	pos   models.Coordinate
}

// Heatmap draws resolved cities at their coordinates, colored by index.
type Heatmap struct {
	coords map[string]models.Coordinate
	logger *utils.Logger
	cmap   palette.ColorMap
}

func NewHeatmap(coords map[string]models.Coordinate, logger *utils.Logger) *Heatmap {
	cmap := moreland.SmoothBlueRed()
	cmap.SetMax(1)
	cmap.SetMin(0)
	return &Heatmap{coords: coords, logger: logger, cmap: cmap}
}

// Render writes the map, with a horizontal color bar underneath, to path as PNG.
func (h *Heatmap) Render(cov *models.Coverage, path string) error {
	points := h.points(cov)
	if len(points) == 0 {
		return ErrNoData
	}

	minIdx, maxIdx := points[0].index, points[0].index
	lowest, highest := points[0], points[0]
	positions := make([]models.Coordinate, 0, len(points))
	for _, p := range points {
		if p.index < minIdx {
			minIdx, lowest = p.index, p
		}
		if p.index > maxIdx {
			maxIdx, highest = p.index, p
		}
		positions = append(positions, p.pos)
	}

	p := plot.New()
	p.Title.Text = "Cost of Living Index in Major Turkish Cities"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"

	bounds := Extent(positions)
	p.X.Min, p.X.Max = bounds.MinLon, bounds.MaxLon
	p.Y.Min, p.Y.Max = bounds.MinLat, bounds.MaxLat
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(points))
	labels := make([]string, len(points))
	glyphs := make(map[string]*plotter.Scatter, len(points))
	for i, pt := range points {
		xys[i].X, xys[i].Y = pt.pos.Lon, pt.pos.Lat
		labels[i] = pt.city

		s, err := plotter.NewScatter(plotter.XYs{xys[i]})
		if err != nil {
			return fmt.Errorf("render: scatter %s: %w", pt.city, err)
		}
		c, err := h.cmap.At(Normalize(pt.index, minIdx, maxIdx))
		if err != nil {
			return fmt.Errorf("render: color %s: %w", pt.city, err)
		}
		s.GlyphStyle.Color = c
		s.GlyphStyle.Radius = vg.Points(7)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		glyphs[pt.city] = s
	}

	names, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return fmt.Errorf("render: labels: %w", err)
	}
	names.Offset = vg.Point{X: vg.Points(5), Y: vg.Points(5)}
	p.Add(names)

	p.Legend.Top = true
	p.Legend.Add(fmt.Sprintf("%s %.2f (highest)", highest.city, highest.index), glyphs[highest.city])
	if lowest.city != highest.city {
		p.Legend.Add(fmt.Sprintf("%s %.2f (lowest)", lowest.city, lowest.index), glyphs[lowest.city])
	}

	bar := newColorBar(minIdx, maxIdx)

	img := vgimg.New(mapSize, mapSize+colorBarHeight)
	dc := draw.New(img)
	p.Draw(draw.Crop(dc, 0, 0, colorBarHeight, 0))
	bar.Draw(draw.Crop(dc, 0, 0, 0, -mapSize))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("render: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %q: %w", path, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("render: write %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("render: close %q: %w", path, err)
	}

	h.logger.Info("[render] Heatmap with %d cities written to %s", len(points), path)
	return nil
}

// points joins the coverage with the coordinate table, in target order.
func (h *Heatmap) points(cov *models.Coverage) []point {
	if cov == nil {
		return nil
	}
	var out []point
	for _, c := range cov.Resolved() {
		pos, ok := h.coords[c.City]
		if !ok {
			h.logger.Warn("[render] No coordinates for %s, leaving it off the map", c.City)
			continue
		}
		out = append(out, point{city: c.City, index: c.Index, pos: pos})
	}
	return out
}
