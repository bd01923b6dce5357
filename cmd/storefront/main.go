// Command storefront serves the taquería storefront API and offers offline
// helpers for browsing the catalog and previewing order messages.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/storefront/internal/catalog"
	"github.com/mmynk/storefront/pkg/logging"
)

var (
	verbose     bool
	catalogPath string
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Taquería storefront cart service",
	Long: `storefront keeps one shopping cart per anonymous shopper session, filters
the menu, and turns a cart into a pre-filled WhatsApp order message.

Run "storefront serve" to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logging.SetupWithLevel(slog.LevelDebug, logging.ParseFormat(os.Getenv("LOG_FORMAT")))
			return
		}
		logging.Setup()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", os.Getenv("CATALOG_PATH"), "catalog YAML file (built-in menu when empty)")

	rootCmd.AddCommand(serveCmd, browseCmd, messageCmd)
}

// loadCatalog reads the catalog file, or the built-in menu when path is empty.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.LoadFile(path)
	if err != nil {
		return nil, err
	}
	slog.Info("Catalog loaded", "path", path, "products", len(c.Products))
	return c, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
