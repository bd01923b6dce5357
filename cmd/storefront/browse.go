package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/mmynk/storefront/internal/cart"
	"github.com/mmynk/storefront/internal/catalog"
	"github.com/mmynk/storefront/internal/money"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Filter the catalog interactively from stdin",
	Long: `Reads one line at a time from stdin. A line starting with "/" selects a
category ("/tacos", "/all"); any other line is search text. Search text is
debounced like the storefront's search box, so fast typing (or pasted
lines) recomputes once.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog(catalogPath)
		if err != nil {
			return err
		}
		return browse(cmd.InOrStdin(), cmd.OutOrStdout(), c)
	},
}

func browse(in io.Reader, out io.Writer, c *catalog.Catalog) error {
	f := money.Default()
	var mu sync.Mutex
	show := func(res catalog.Result) {
		mu.Lock()
		defer mu.Unlock()
		if res.Empty {
			fmt.Fprintln(out, "Sin resultados.")
			return
		}
		for _, p := range res.Visible {
			fmt.Fprintf(out, "%-16s %-24s %8s  %s\n", p.ID, p.Name, f.Format(cart.ParsePrice(p.Price)), p.Category)
		}
		fmt.Fprintln(out)
	}

	source := catalog.NewSource(c)
	bar := catalog.NewFilterBar(c.Categories)
	search := catalog.NewSearch(source.Products, bar, catalog.SearchDelay, show)
	defer search.Close()

	search.Refresh()
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if token, ok := strings.CutPrefix(line, "/"); ok {
			search.Flush()
			search.SelectCategory(token)
			continue
		}
		search.Input(line)
	}
	search.Flush()
	return scanner.Err()
}
