/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/tgmreplays/pkg/api"
	"github.com/ssargent/tgmreplays/pkg/scan"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Scan the replay directory and serve the result over HTTP.

POST /api/v1/rescan reads the directory again. Every scan is saved to the history.

Examples:
  tgmr serve
  tgmr serve --port 8080 --bind 0.0.0.0 --api-key mysecretkey`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		serverConfig := api.ServerConfig{
			Port:   a.config.Server.Port,
			Bind:   a.config.Server.Bind,
			APIKey: a.config.Server.APIKey,
		}
		if cmd.Flags().Changed("port") {
			serverConfig.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			serverConfig.Bind, _ = cmd.Flags().GetString("bind")
		}
		if cmd.Flags().Changed("api-key") {
			serverConfig.APIKey, _ = cmd.Flags().GetString("api-key")
		}

		st, err := a.openState()
		if err != nil {
			return err
		}
		defer st.Close()

		scanner := container.GetScannerFactory()(a.config.Workers)
		library := api.NewDirLibrary(scanner, a.config.ReplayDir, a.config.Pattern, func(res *scan.Result) {
			if _, err := st.SaveScan(res.Summary()); err != nil {
				log.Printf("[serve] failed to save scan %s: %v", res.ID, err)
			}
		})
		names := container.GetResolverFactory()(a.steamConfig(), st)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		starter := container.GetServerFactory().CreateServerStarter()
		return starter.StartServer(ctx, library, names, serverConfig)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 9210, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().String("api-key", "", "Require this X-API-Key on /api/v1 routes")
}
