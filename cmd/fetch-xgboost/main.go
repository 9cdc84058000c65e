// fetch-xgboost downloads the prebuilt XGBoost shared library for the host
// platform and installs it where the xgbgo cgo layer links against it.
//
// Run it once before building anything that imports xgbgo:
//
//	go run ./cmd/fetch-xgboost --out lib
//
// The release defaults to a pinned version; override with --version or the
// XGBOOST_VERSION environment variable.
package main

import (
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/xgbgo/internal/fetch"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var (
		version string
		outDir  string
	)

	rootCmd := &cobra.Command{
		Use:   "fetch-xgboost",
		Short: "Download the prebuilt XGBoost shared library for this platform",
		Long: `fetch-xgboost downloads the official XGBoost wheel for the host platform,
extracts the shared library from it, and fixes up its load path metadata so
binaries linked against xgbgo can find it at run time.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fetch.Fetch(cmd.Context(), logger, fetch.Options{
				Version: version,
				OutDir:  outDir,
				GOOS:    runtime.GOOS,
				GOARCH:  runtime.GOARCH,
			})
			return err
		},
	}

	rootCmd.Flags().StringVar(&version, "version", "", "XGBoost release to fetch (default: $"+fetch.EnvVersion+" or "+fetch.DefaultVersion+")")
	rootCmd.Flags().StringVar(&outDir, "out", "lib", "directory to install the shared library into")

	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("fetch failed")
		os.Exit(1)
	}
}
