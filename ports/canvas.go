package ports

// Axes is the mutable 2D plotting surface the post-hoc annotation draws onto.
// The caller owns the canvas lifecycle; services only add marks and adjust
// the vertical range.
type Axes interface {
	// YLim returns the current vertical data range.
	YLim() (lo, hi float64)
	// SetYLim replaces the vertical data range.
	SetYLim(lo, hi float64)
	// Text places a centered label at data coordinates.
	Text(x, y float64, label string)
	// HLine draws a horizontal connector between two x positions.
	HLine(x0, x1, y float64)
}
