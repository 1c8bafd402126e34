package main

import (
	"errors"
	"fmt"
	"os"

	cs "github.com/setanarut/crossstitch"
	"github.com/setanarut/crossstitch/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// envFlags maps flag names to the environment variables that supply their
// defaults. Flags given on the command line win.
var envFlags = map[string]string{
	"catalog":   "STITCH_CATALOG",
	"colors":    "STITCH_COLORS",
	"width":     "STITCH_WIDTH",
	"workers":   "STITCH_WORKERS",
	"seed":      "STITCH_SEED",
	"log-level": "STITCH_LOG_LEVEL",
	"port":      "STITCH_PORT",
	"output":    "STITCH_OUTPUT",
}

func applyEnv(cmd *cobra.Command) error {
	var errs []error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := envFlags[f.Name]
		if !ok || f.Changed {
			return
		}
		if v, ok := os.LookupEnv(key); ok && v != "" {
			if err := f.Value.Set(v); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
			}
		}
	})
	return errors.Join(errs...)
}

// loadCatalog reads and validates a catalog; an empty path means the bundled
// DMC set.
func loadCatalog(path string) ([]cs.CatalogRecord, []cs.CatalogColor, error) {
	records, err := utils.LoadCatalog(path)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := cs.ParseCatalog(records)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid catalog %s: %w", catalogName(path), err)
	}
	return records, catalog, nil
}

func catalogName(path string) string {
	if path == "" {
		return "(bundled DMC)"
	}
	return path
}

// baseOptions applies the shared engine flags to the defaults.
func baseOptions(seed uint64, workers int, interpolation string) (cs.Options, error) {
	opt := cs.DefaultOptions()
	opt.Seed = seed
	if workers > 0 {
		opt.Workers = workers
	}
	interp, ok := cs.ParseInterpolation(interpolation)
	if !ok {
		return opt, fmt.Errorf("unknown interpolation %q (catmullrom, bilinear, nearest)", interpolation)
	}
	opt.Interpolation = interp
	return opt, nil
}
