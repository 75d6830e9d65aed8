package surfplot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/pablomc88/megtools/domain/mesh"
	"github.com/pablomc88/megtools/ports"
)

const (
	defaultWidth   = 600
	defaultHeight  = 500
	colorbarGutter = 70
	frameMargin    = 0.05
)

// Renderer rasterizes surface statistics; it satisfies ports.SurfaceRenderer
type Renderer struct{}

var _ ports.SurfaceRenderer = (*Renderer)(nil)

// NewRenderer creates a surface renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render draws per-vertex statistics over the mesh with a symmetric
// diverging color scale. Faces are painted back to front, flat-shaded by the
// mean of their vertex values, with sulcal depth darkening the data colors.
func (r *Renderer) Render(m *mesh.TriMesh, stat []float64, sulc []float64, opt ports.RenderOptions) (image.Image, error) {
	nv := m.VertexCount()
	if len(stat) != nv {
		return nil, fmt.Errorf("statistic length %d does not match %d mesh vertices", len(stat), nv)
	}
	if sulc != nil && len(sulc) != nv {
		return nil, fmt.Errorf("sulc length %d does not match %d mesh vertices", len(sulc), nv)
	}

	width, height := opt.Width, opt.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	plotWidth := width
	if opt.Colorbar {
		plotWidth -= colorbarGutter
	}

	px, py, depth := project(m, opt.View)
	sx, sy := toScreen(px, py, plotWidth, height)
	bg := normalize(sulc, nv)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	// Painter's algorithm: farthest faces first.
	order := make([]int, m.FaceCount())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return faceDepth(m, depth, order[a]) < faceDepth(m, depth, order[b])
	})

	for _, f := range order {
		a, b, c := m.Face(f)
		v := (stat[a] + stat[b] + stat[c]) / 3
		s := (bg[a] + bg[b] + bg[c]) / 3
		col := shade(divergingColor(v, opt.VMax), opt.Darkness*s)
		fillTriangle(img,
			sx[a], sy[a], sx[b], sy[b], sx[c], sy[c], col)
	}

	if opt.Colorbar {
		drawColorbar(img, width-colorbarGutter+15, 30, 20, height-60, opt.VMax)
	}
	return img, nil
}

// project rotates the mesh so the view direction looks down the depth axis
func project(m *mesh.TriMesh, view ports.ViewAngle) (px, py, depth []float64) {
	az := view.Azimuth * math.Pi / 180
	el := view.Elevation * math.Pi / 180
	caz, saz := math.Cos(az), math.Sin(az)
	cel, sel := math.Cos(el), math.Sin(el)

	nv := m.VertexCount()
	px = make([]float64, nv)
	py = make([]float64, nv)
	depth = make([]float64, nv)
	for i := 0; i < nv; i++ {
		x, y, z := m.Vertex(i)
		px[i] = -saz*x + caz*y
		py[i] = -caz*sel*x - saz*sel*y + cel*z
		depth[i] = caz*cel*x + saz*cel*y + sel*z
	}
	return px, py, depth
}

// toScreen fits projected coordinates into the plot area, preserving aspect
func toScreen(px, py []float64, width, height int) ([]int, []int) {
	minX, maxX := bounds(px)
	minY, maxY := bounds(py)
	spanX, spanY := maxX-minX, maxY-minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}
	scale := math.Min(
		float64(width)*(1-2*frameMargin)/spanX,
		float64(height)*(1-2*frameMargin)/spanY,
	)
	offX := (float64(width) - scale*spanX) / 2
	offY := (float64(height) - scale*spanY) / 2

	sx := make([]int, len(px))
	sy := make([]int, len(py))
	for i := range px {
		sx[i] = int(offX + scale*(px[i]-minX))
		// Screen y grows downward.
		sy[i] = height - 1 - int(offY+scale*(py[i]-minY))
	}
	return sx, sy
}

func bounds(v []float64) (lo, hi float64) {
	lo, hi = v[0], v[0]
	for _, x := range v[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}

// normalize maps sulcal depth to [0,1]; nil input shades nothing
func normalize(sulc []float64, n int) []float64 {
	out := make([]float64, n)
	if sulc == nil {
		return out
	}
	lo, hi := bounds(sulc)
	if hi == lo {
		return out
	}
	for i, v := range sulc {
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}

func faceDepth(m *mesh.TriMesh, depth []float64, f int) float64 {
	a, b, c := m.Face(f)
	return (depth[a] + depth[b] + depth[c]) / 3
}

// fillTriangle rasterizes a filled triangle with an edge-function test over
// its bounding box.
func fillTriangle(img *image.RGBA, x0, y0, x1, y1, x2, y2 int, col color.RGBA) {
	minX := min3(x0, x1, x2)
	maxX := max3(x0, x1, x2)
	minY := min3(y0, y1, y2)
	maxY := max3(y0, y1, y2)

	r := img.Bounds()
	if minX < r.Min.X {
		minX = r.Min.X
	}
	if minY < r.Min.Y {
		minY = r.Min.Y
	}
	if maxX >= r.Max.X {
		maxX = r.Max.X - 1
	}
	if maxY >= r.Max.Y {
		maxY = r.Max.Y - 1
	}

	area := edge(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edge(x1, y1, x2, y2, x, y)
			w1 := edge(x2, y2, x0, y0, x, y)
			w2 := edge(x0, y0, x1, y1, x, y)
			if area > 0 {
				if w0 >= 0 && w1 >= 0 && w2 >= 0 {
					img.SetRGBA(x, y, col)
				}
			} else if w0 <= 0 && w1 <= 0 && w2 <= 0 {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

func edge(ax, ay, bx, by, px, py int) int {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// drawColorbar paints a vertical gradient strip with min/zero/max tick labels
func drawColorbar(img *image.RGBA, x, y, w, h int, vmax float64) {
	for row := 0; row < h; row++ {
		// Top of the bar is +vmax, bottom is -vmax.
		v := vmax * (1 - 2*float64(row)/float64(h-1))
		col := divergingColor(v, vmax)
		for cx := 0; cx < w; cx++ {
			img.SetRGBA(x+cx, y+row, col)
		}
	}

	labelAt(img, x+w+4, y+6, fmt.Sprintf("%.2g", vmax))
	labelAt(img, x+w+4, y+h/2+3, "0")
	labelAt(img, x+w+4, y+h-2, fmt.Sprintf("%.2g", -vmax))
}

func labelAt(img *image.RGBA, x, y int, s string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func max3(a, b, c int) int {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}
