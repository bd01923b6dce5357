package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/storefront/internal/catalog"
	"github.com/mmynk/storefront/internal/checkout"
	"github.com/mmynk/storefront/internal/config"
	"github.com/mmynk/storefront/internal/storage/memory"
	"github.com/mmynk/storefront/internal/storefront"
)

var messageFlags struct {
	name      string
	mode      string
	notes     string
	userAgent string
}

var messageCmd = &cobra.Command{
	Use:   "message product[=qty]...",
	Short: "Preview the order message and link for a cart",
	Long: `Builds a cart from catalog product ids and prints the order message and the
WhatsApp link a shopper would be sent to.

Example:
  storefront message --name Ana taco-pastor=2 agua-jamaica`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMessage,
}

func init() {
	messageCmd.Flags().StringVar(&messageFlags.name, "name", "", "customer name")
	messageCmd.Flags().StringVar(&messageFlags.mode, "mode", "pickup", "fulfillment mode: pickup or delivery")
	messageCmd.Flags().StringVar(&messageFlags.notes, "notes", "", "order notes")
	messageCmd.Flags().StringVar(&messageFlags.userAgent, "user-agent", "", "client User-Agent; mobile agents get the app link")
}

// parseItem splits "id=qty"; a bare id means one unit.
func parseItem(arg string) (string, int, error) {
	id, qty, found := strings.Cut(arg, "=")
	if !found {
		return id, 1, nil
	}
	n, err := strconv.Atoi(qty)
	if err != nil || n < 1 {
		return "", 0, fmt.Errorf("invalid quantity in %q", arg)
	}
	return id, n, nil
}

func runMessage(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c, err := loadCatalog(catalogPath)
	if err != nil {
		return err
	}

	kv := memory.New()
	defer kv.Close()

	var link string
	manager := storefront.NewManager(storefront.Env{
		Storage:   kv,
		Catalog:   catalog.NewSource(c),
		StoreName: cfg.StoreName,
		Phone:     cfg.Phone,
		Opener: checkout.OpenerFunc(func(_ context.Context, url string) {
			link = url
		}),
	})

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	return manager.Do(ctx, "cli", func(s *storefront.Session) error {
		for _, arg := range args {
			id, qty, err := parseItem(arg)
			if err != nil {
				return err
			}
			for range qty {
				if _, err := s.AddToCart(ctx, id); err != nil {
					return err
				}
			}
		}

		res, err := s.Checkout(ctx, checkout.Request{
			Name:      messageFlags.name,
			Mode:      messageFlags.mode,
			Notes:     messageFlags.notes,
			UserAgent: messageFlags.userAgent,
		})
		if err != nil {
			return err
		}
		switch res.Outcome {
		case checkout.OutcomeNameRequired:
			return fmt.Errorf("%w: %s", res.Err(), res.NameField.ErrorMessage)
		case checkout.OutcomeEmptyCart:
			return fmt.Errorf("%w: %s", res.Err(), res.Alert)
		}

		fmt.Fprintln(out, res.Message)
		fmt.Fprintln(out)
		fmt.Fprintln(out, link)
		return nil
	})
}
