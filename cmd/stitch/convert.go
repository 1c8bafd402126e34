package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	cs "github.com/setanarut/crossstitch"
	"github.com/setanarut/crossstitch/utils"
	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	var (
		catalogPath   string
		output        string
		interpolation string
		colors        int
		width         int
		height        int
		workers       int
		cellSize      int
		seed          uint64
		text          bool
	)

	cmd := &cobra.Command{
		Use:   "convert <image>",
		Short: "Convert an image into a pattern chart and key",
		Long: `Converts an image into a cross-stitch pattern.

The image is resized to the requested width (or height), every cell is
matched to the nearest thread color, and the following files are written
to the output directory:

  pattern.png   chart with one symbol per stitch
  key.png       thread key for the symbols in use
  legend.yaml   thread list with stitch counts
  palette.png   swatch strip of the threads in use`,
		Example: `  # 80 stitches wide using the bundled DMC catalog
  stitch convert parrot.png --width 80

  # Reduce the catalog to 12 colors first
  stitch convert parrot.png --width 80 --colors 12 --output out/parrot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, catalog, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}

			size := cs.ByWidth(width)
			if cmd.Flags().Changed("height") {
				size = cs.ByHeight(height)
			}

			opt, err := baseOptions(seed, workers, interpolation)
			if err != nil {
				return err
			}
			sink := cs.NewChannelSink(256)
			opt.Sink = sink

			slog.Debug("Starting conversion", "image", args[0], "catalog", catalogName(catalogPath), "catalog_colors", len(catalog), "size", size.String(), "colors", colors)
			task := cs.Start(cmd.Context(), cs.Request{
				Image:   data,
				Size:    size,
				Catalog: records,
				Colors:  colors,
			}, opt)
			go func() {
				<-task.Done()
				sink.Close()
			}()
			printUpdates(cmd.ErrOrStderr(), sink.Updates())

			res, err := task.Wait()
			if err != nil {
				return err
			}
			if err := writeArtifacts(output, res, cellSize, text); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Pattern %dx%d with %d threads written to %s\n",
				res.Pattern.Pixels.Width, res.Pattern.Pixels.Height, len(res.Legend), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Thread catalog (.json, .yaml, .parquet); bundled DMC if empty")
	cmd.Flags().StringVarP(&output, "output", "o", "output", "Directory for the generated files")
	cmd.Flags().StringVar(&interpolation, "interpolation", "catmullrom", "Resampling filter (catmullrom, bilinear, nearest)")
	cmd.Flags().IntVarP(&colors, "colors", "c", 0, "Reduce the catalog to this many colors (0 keeps all)")
	cmd.Flags().IntVarP(&width, "width", "w", 100, "Pattern width in stitches")
	cmd.Flags().IntVar(&height, "height", 0, "Pattern height in stitches (overrides --width)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Rows classified in parallel (0 = GOMAXPROCS)")
	cmd.Flags().IntVar(&cellSize, "cell-size", utils.DefaultCellSize, "Chart cell size in pixels")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "Seed for palette clustering")
	cmd.Flags().BoolVar(&text, "text", false, "Also write the symbol grid to pattern.txt")

	return cmd
}

// printUpdates shows job messages line by line and redraws the progress bar
// in place.
func printUpdates(w io.Writer, updates <-chan cs.Update) {
	inBar := false
	for u := range updates {
		if u.Progress == nil {
			if inBar {
				fmt.Fprintln(w)
				inBar = false
			}
			fmt.Fprintln(w, u.Message)
			continue
		}
		fmt.Fprint(w, "\r"+u.Message)
		inBar = u.Progress.RowsDone < u.Progress.RowsTotal
		if !inBar {
			fmt.Fprintln(w)
		}
	}
	if inBar {
		fmt.Fprintln(w)
	}
}

func writeArtifacts(dir string, res *cs.Result, cellSize int, text bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := utils.SaveImage(utils.RenderPattern(res.Pattern, cellSize), filepath.Join(dir, "pattern.png")); err != nil {
		return fmt.Errorf("failed to save pattern: %w", err)
	}
	if err := utils.SaveImage(utils.RenderLegend(res.Legend), filepath.Join(dir, "key.png")); err != nil {
		return fmt.Errorf("failed to save key: %w", err)
	}
	if len(res.Legend) > 0 {
		if err := utils.SavePalette(cs.Palette(res.Legend), 64, filepath.Join(dir, "palette.png")); err != nil {
			return fmt.Errorf("failed to save palette: %w", err)
		}
	}

	f, err := os.Create(filepath.Join(dir, "legend.yaml"))
	if err != nil {
		return fmt.Errorf("failed to create legend: %w", err)
	}
	if err := utils.WriteLegendYAML(f, res); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if text {
		if err := os.WriteFile(filepath.Join(dir, "pattern.txt"), []byte(res.Pattern.Symbols.String()), 0o644); err != nil {
			return fmt.Errorf("failed to save symbol grid: %w", err)
		}
	}
	slog.Info("Artifacts written", "dir", dir)
	return nil
}
