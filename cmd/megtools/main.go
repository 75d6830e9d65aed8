package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pablomc88/megtools/adapters/chartcanvas"
	"github.com/pablomc88/megtools/adapters/fooof"
	"github.com/pablomc88/megtools/adapters/freesurfer"
	"github.com/pablomc88/megtools/adapters/nifti"
	"github.com/pablomc88/megtools/adapters/surfplot"
	"github.com/pablomc88/megtools/adapters/tukey"
	"github.com/pablomc88/megtools/app"
	"github.com/pablomc88/megtools/domain/atlas"
	"github.com/pablomc88/megtools/domain/core"
	"github.com/pablomc88/megtools/domain/groups"
	"github.com/pablomc88/megtools/domain/spectra"
	"github.com/pablomc88/megtools/internal"
	"github.com/pablomc88/megtools/internal/config"
	"github.com/pablomc88/megtools/internal/report"
	"github.com/pablomc88/megtools/ports"
)

var logger = internal.NewDefaultLogger()

func main() {
	// A missing .env is fine; the config falls back to defaults.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "megtools",
		Short: "Power-spectrum fitting, post-hoc statistics, and brain surface plots",
	}

	rootCmd.AddCommand(
		newFitCmd(),
		newPosthocCmd(),
		newRenderCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newFitCmd() *cobra.Command {
	var (
		freqLo, freqHi float64
		maxPeaks       int
		widthMin       float64
		widthMax       float64
		threshold      float64
		modelOut       string
	)

	cmd := &cobra.Command{
		Use:   "fit [spectrum.csv]",
		Short: "Parameterize a power spectrum into aperiodic and peak components",
		Long: `Fit a power spectrum from a two-column CSV (frequency, power).

Prints the fitted parameters as JSON; --model-out also writes the
reconstructed model spectrum alongside the input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			freqs, power, err := readSpectrumCSV(args[0])
			if err != nil {
				return err
			}

			cfg := spectra.FitConfig{
				FreqRange:       [2]float64{freqLo, freqHi},
				MaxPeaks:        maxPeaks,
				PeakWidthLimits: [2]float64{widthMin, widthMax},
				PeakThreshold:   threshold,
			}

			service := app.NewSpectrumService(fooof.NewFitter())
			result, model, err := service.Parameterize(freqs, power, cfg)
			if err != nil {
				return fmt.Errorf("spectrum fit: %w", err)
			}
			logger.Info("fit complete: exponent=%.3f, %d peaks, r2=%.3f",
				result.Aperiodic.Exponent, len(result.Peaks), result.RSquared)

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))

			if modelOut != "" {
				if err := writeModelCSV(modelOut, freqs, power, model); err != nil {
					return err
				}
				logger.Info("model spectrum written to %s", modelOut)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&freqLo, "freq-lo", 2, "lower fit bound in Hz")
	cmd.Flags().Float64Var(&freqHi, "freq-hi", 45, "upper fit bound in Hz")
	cmd.Flags().IntVar(&maxPeaks, "max-peaks", 6, "maximum number of peaks")
	cmd.Flags().Float64Var(&widthMin, "width-min", 1, "minimum peak width in Hz")
	cmd.Flags().Float64Var(&widthMax, "width-max", 12, "maximum peak width in Hz")
	cmd.Flags().Float64Var(&threshold, "peak-threshold", 2, "peak detection threshold in flattened-spectrum SDs")
	cmd.Flags().StringVar(&modelOut, "model-out", "", "CSV path for the reconstructed model spectrum")
	return cmd
}

func newPosthocCmd() *cobra.Command {
	var (
		subject     string
		pngOut      string
		xlsxOut     string
		reportOut   string
		manifestOut string
	)

	cmd := &cobra.Command{
		Use:   "posthoc [groups.csv]",
		Short: "Run Tukey's HSD across groups and annotate the comparison plot",
		Long: `Read group samples from a CSV with one column per group, run the
post-hoc test, and draw the three strongest comparisons above the data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := readGroupsCSV(args[0])
			if err != nil {
				return err
			}

			service := app.NewPosthocService(tukey.NewEngine())
			canvas := chartcanvas.NewGroupCanvas("Post-hoc comparisons", samples)
			if err := service.Annotate(samples, canvas); err != nil {
				return fmt.Errorf("post-hoc annotation: %w", err)
			}

			comps, err := service.Compare(samples)
			if err != nil {
				return err
			}
			manifest := report.NewRunManifest(samples, app.Alpha, comps)
			manifest.Subject = core.SubjectID(subject)
			logger.Info("run %s: %d groups, %d comparisons", manifest.RunID, len(samples), len(comps))

			if pngOut != "" {
				f, err := os.Create(pngOut)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := canvas.Render(f); err != nil {
					return fmt.Errorf("render plot: %w", err)
				}
				logger.Info("plot written to %s", pngOut)
			}
			if xlsxOut != "" {
				if err := report.ExportComparisons(xlsxOut, comps); err != nil {
					return err
				}
				logger.Info("comparison table written to %s", xlsxOut)
			}
			if reportOut != "" {
				if err := report.WriteHTML(reportOut, manifest, samples); err != nil {
					return err
				}
				logger.Info("report written to %s", reportOut)
			}
			if manifestOut != "" {
				if err := manifest.WriteJSON(manifestOut); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "subject identifier recorded in the manifest and report")
	cmd.Flags().StringVar(&pngOut, "png", "posthoc.png", "output plot path")
	cmd.Flags().StringVar(&xlsxOut, "xlsx", "", "export the full comparison table to xlsx")
	cmd.Flags().StringVar(&reportOut, "report", "", "write an HTML run report")
	cmd.Flags().StringVar(&manifestOut, "manifest", "", "write a JSON run manifest")
	return cmd
}

func newRenderCmd() *cobra.Command {
	var (
		hemi      string
		vmax      float64
		azimuth   float64
		elevation float64
		colorbar  bool
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "render [region_values.csv]",
		Short: "Render per-region values onto a cortical surface plot",
		Long: `Read one scalar per atlas region (38 lines), map them onto the
parcellation volume, and render the projected surface heat map.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			values, err := readRegionValuesCSV(args[0])
			if err != nil {
				return err
			}
			hemisphere, err := atlas.ParseHemisphere(hemi)
			if err != nil {
				return err
			}

			service := app.NewSurfaceService(
				nifti.NewLoader(),
				freesurfer.NewDir(cfg.Paths.FsaverageDir),
				surfplot.NewSampler(),
				surfplot.NewRenderer(),
			)
			img, err := service.Render(values, app.RenderRequest{
				AtlasPath:    cfg.Paths.AtlasFile,
				Hemisphere:   hemisphere,
				VMax:         vmax,
				View:         ports.ViewAngle{Azimuth: azimuth, Elevation: elevation},
				ShowColorbar: colorbar,
				Width:        cfg.Render.Width,
				Height:       cfg.Render.Height,
			})
			if err != nil {
				return fmt.Errorf("surface render: %w", err)
			}

			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := png.Encode(f, img); err != nil {
				return fmt.Errorf("encode png: %w", err)
			}
			logger.Info("surface plot written to %s", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&hemi, "hemi", "left", "hemisphere to plot (left or right)")
	cmd.Flags().Float64Var(&vmax, "vmax", 1, "symmetric color-scale cap")
	cmd.Flags().Float64Var(&azimuth, "azimuth", 180, "view azimuth in degrees")
	cmd.Flags().Float64Var(&elevation, "elevation", 0, "view elevation in degrees")
	cmd.Flags().BoolVar(&colorbar, "colorbar", true, "show a colorbar on right-hemisphere plots")
	cmd.Flags().StringVar(&outPath, "out", "surface.png", "output image path")
	return cmd
}

func readSpectrumCSV(path string) ([]float64, []float64, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, nil, err
	}
	var freqs, power []float64
	for i, row := range rows {
		if len(row) < 2 {
			return nil, nil, fmt.Errorf("%s line %d: expected two columns", path, i+1)
		}
		f, errF := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		p, errP := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if errF != nil || errP != nil {
			if i == 0 {
				// Header row.
				continue
			}
			return nil, nil, fmt.Errorf("%s line %d: non-numeric value", path, i+1)
		}
		freqs = append(freqs, f)
		power = append(power, p)
	}
	if len(freqs) == 0 {
		return nil, nil, fmt.Errorf("%s: no spectrum samples", path)
	}
	return freqs, power, nil
}

func readGroupsCSV(path string) (groups.Samples, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	// The first row fixes the group count; shorter rows are fine (groups may
	// have unequal sizes) but a wider row means misaligned data.
	cols := len(rows[0])
	samples := make(groups.Samples, cols)
	for i, row := range rows {
		if len(row) > cols {
			return nil, fmt.Errorf("%s line %d: %d columns, expected at most %d", path, i+1, len(row), cols)
		}
		for c := 0; c < len(row); c++ {
			cell := strings.TrimSpace(row[c])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				if i == 0 {
					// Header row.
					continue
				}
				return nil, fmt.Errorf("%s line %d column %d: non-numeric value", path, i+1, c+1)
			}
			samples[c] = append(samples[c], v)
		}
	}
	return samples, nil
}

func readRegionValuesCSV(path string) (atlas.RegionValues, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	var values atlas.RegionValues
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		if err != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("%s line %d: non-numeric value", path, i+1)
		}
		values = append(values, v)
	}
	return values, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}

func writeModelCSV(path string, freqs, power, model []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"frequency", "power", "model"}); err != nil {
		return err
	}
	for i := range freqs {
		row := []string{
			strconv.FormatFloat(freqs[i], 'g', -1, 64),
			strconv.FormatFloat(power[i], 'g', -1, 64),
			strconv.FormatFloat(model[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
