package main

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	cs "github.com/setanarut/crossstitch"
	"github.com/setanarut/crossstitch/utils"
	"github.com/spf13/cobra"
)

func newPaletteCmd() *cobra.Command {
	var (
		catalogPath string
		savePath    string
		swatchPath  string
		imagePath   string
		method      string
		colors      int
		highlights  int
		seed        uint64
		sortBright  bool
	)

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Print or export a (reduced) thread palette",
		Long: `Prints the palette a conversion would use: the whole catalog, or the
catalog clustered down to --colors threads.

With --image, the dominant colors of that image are listed together with
the palette thread each one maps to.`,
		Example: `  # Reduce the bundled DMC catalog to 16 threads and save it for reuse
  stitch palette --colors 16 --save my16.yaml

  # Which threads does this photo lean on?
  stitch palette --colors 24 --image parrot.png --highlights 6`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, catalog, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			opt, err := baseOptions(seed, 0, "")
			if err != nil {
				return err
			}
			opt.Sink = cs.LogSink(slog.Default())

			palette, err := cs.ReducePalette(catalog, colors, opt)
			if err != nil {
				return err
			}
			if sortBright {
				utils.SortByBrightness(palette)
			}
			if err := printPalette(cmd.OutOrStdout(), palette); err != nil {
				return err
			}

			if savePath != "" {
				if err := utils.SaveCatalog(savePath, utils.PaletteRecords(palette)); err != nil {
					return err
				}
				slog.Info("Palette saved as catalog", "path", savePath, "colors", len(palette))
			}
			if swatchPath != "" {
				if err := utils.SavePalette(palette, 64, swatchPath); err != nil {
					return err
				}
			}

			if imagePath == "" {
				return nil
			}
			m, err := utils.ParseHighlightMethod(method)
			if err != nil {
				return err
			}
			img, err := utils.ReadImage(imagePath)
			if err != nil {
				return err
			}
			return printHighlights(cmd.OutOrStdout(), utils.Highlights(img, highlights, m, palette))
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Thread catalog (.json, .yaml, .parquet); bundled DMC if empty")
	cmd.Flags().StringVar(&savePath, "save", "", "Write the palette as a reusable catalog (.json, .yaml, .parquet)")
	cmd.Flags().StringVar(&swatchPath, "swatch", "", "Write a PNG swatch strip of the palette")
	cmd.Flags().StringVar(&imagePath, "image", "", "List the dominant colors of this image")
	cmd.Flags().StringVar(&method, "method", "dominantcolor", "Dominant color method (dominantcolor, kmeans)")
	cmd.Flags().IntVarP(&colors, "colors", "c", 0, "Reduce the catalog to this many colors (0 keeps all)")
	cmd.Flags().IntVar(&highlights, "highlights", 5, "Number of dominant colors to list with --image")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "Seed for palette clustering")
	cmd.Flags().BoolVar(&sortBright, "sort", false, "Sort from darkest to brightest")

	return cmd
}

func printPalette(w io.Writer, palette cs.Palette) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tID\tNAME\tHEX")
	for _, e := range palette {
		fmt.Fprintf(tw, "%c\t%s\t%s\t%s\n", e.Symbol, e.ID, e.Name, e.RGB.Hex())
	}
	return tw.Flush()
}

func printHighlights(w io.Writer, hs []utils.Highlight) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nSOURCE\tSHARE\tTHREAD")
	for _, h := range hs {
		thread := "-"
		if h.Index >= 0 {
			thread = utils.LegendLabel(h.Entry)
		}
		fmt.Fprintf(tw, "%s\t%.1f%%\t%s\n", h.Source.Hex(), h.Weight*100, thread)
	}
	return tw.Flush()
}
