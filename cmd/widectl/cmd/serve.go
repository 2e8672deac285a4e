package cmd

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hugo-lorenzo-mato/wide-research/internal/api"
	"github.com/hugo-lorenzo-mato/wide-research/internal/core"
	"github.com/hugo-lorenzo-mato/wide-research/internal/history"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve check results over HTTP",
	Long: `Start an HTTP server exposing the workspace over a REST API:
health, on-demand checks, metadata and run history.

Examples:
  # Serve the current workspace on localhost:8080
  widectl serve

  # Bind elsewhere
  widectl serve --host 0.0.0.0 --port 3000`,
	RunE: runServe,
}

var (
	serveHost string
	servePort int
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "localhost",
		"Host address to bind to")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080,
		"Port to listen on")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ws := resolveWorkspace()
	log := newLogger()

	// Config file values apply unless the flag was given explicitly.
	if !cmd.Flags().Changed("host") && viper.IsSet("serve.host") {
		serveHost = viper.GetString("serve.host")
	}
	if !cmd.Flags().Changed("port") && viper.IsSet("serve.port") {
		servePort = viper.GetInt("serve.port")
	}

	if !ws.Exists() {
		return core.ErrNotFound(core.CodeMissingWorkspace, "workspace not found: "+ws.Dir())
	}

	opts := []api.ServerOption{api.WithLogger(log.Logger)}
	if historyEnabled() {
		store, err := history.Open(historyPath(ws))
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		opts = append(opts, api.WithHistory(store))
	}

	srv := api.NewServer(ws, opts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("%s:%d", serveHost, servePort)
	if err := srv.ListenAndServe(ctx, addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
