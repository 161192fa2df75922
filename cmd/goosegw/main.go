// Package main provides the goosegw binary: the HTTP gateway that
// exposes provider/model resolution and agent diagnostics, plus small
// operational subcommands.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	goosegateway "github.com/launchpad-labs/goose-gateway"
	"github.com/launchpad-labs/goose-gateway/catalog"
	"github.com/launchpad-labs/goose-gateway/internal/environ"
	"github.com/launchpad-labs/goose-gateway/internal/version"
)

func main() {
	root := &cobra.Command{
		Use:           "goosegw",
		Short:         "Goose Gateway: provider/model resolution and agent diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var configPath string
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to gateway config file (YAML)")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newValidateCmd())
	root.AddCommand(newResolveCmd(&configPath))
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <catalog-file>",
		Short: "Validate a provider catalog document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			for _, w := range catalog.ValidateDocument(data) {
				fmt.Fprintln(cmd.OutOrStdout(), "warning:", w)
			}
			providers, err := catalog.Parse(data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Catalog is parseable\n  Providers: %d\n", len(providers))
			for _, p := range providers {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-12s enabled=%-5t models=%d\n",
					p.Name, p.Enabled, len(p.Models))
			}
			return nil
		},
	}
}

func newResolveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Print the effective provider/model configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			src := environ.OS{}
			cfg, err := goosegateway.LoadConfig(*configPath, src)
			if err != nil {
				return err
			}
			gw := goosegateway.New(cfg, gatewayLocatorOption(cfg))
			resolved := gw.Resolve(cmd.Context())
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resolved)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "goosegw %s\n", version.String())
		},
	}
}

// gatewayLocatorOption binds the HTTP locator when one is configured.
func gatewayLocatorOption(cfg goosegateway.Config) goosegateway.Option {
	if cfg.Locator.URL == "" {
		return func(*goosegateway.Gateway) {}
	}
	return goosegateway.WithLocator(newHTTPLocator(cfg.Locator.URL, cfg.Locator.APIKey))
}
