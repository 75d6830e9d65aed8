package spectra

import "math"

// AperiodicCurve evaluates the power-law trend in linear power units:
// 10^offset / freq^exponent at each frequency.
func AperiodicCurve(freqs []float64, ap AperiodicParams) []float64 {
	out := make([]float64, len(freqs))
	for i, f := range freqs {
		out[i] = math.Pow(10, ap.Offset) / math.Pow(f, ap.Exponent)
	}
	return out
}

// PeakCurveLog10 accumulates all Gaussian peaks in log10 power units
func PeakCurveLog10(freqs []float64, peaks []PeakParams) []float64 {
	out := make([]float64, len(freqs))
	for _, p := range peaks {
		denom := 2 * p.Width * p.Width
		for i, f := range freqs {
			d := f - p.Center
			out[i] += p.Height * math.Exp(-d*d/denom)
		}
	}
	return out
}

// ModelSpectrum reconstructs the combined periodic+aperiodic fit in linear
// power units: 10^(sum of Gaussians) times the aperiodic curve, elementwise.
func ModelSpectrum(freqs []float64, ap AperiodicParams, peaks []PeakParams) []float64 {
	apFit := AperiodicCurve(freqs, ap)
	ys := PeakCurveLog10(freqs, peaks)
	out := make([]float64, len(freqs))
	for i := range out {
		out[i] = math.Pow(10, ys[i]) * apFit[i]
	}
	return out
}
