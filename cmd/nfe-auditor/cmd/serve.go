package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fiscalia/nfe-auditor/internal/llm"
	"github.com/fiscalia/nfe-auditor/internal/server"
)

var (
	serveAddress string
	serveDebug   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Expose the extraction and audit pipeline over HTTP.

Endpoints:
  GET  /health
  POST /api/v1/extract   (body: invoice XML)
  POST /api/v1/audit     (body: invoice XML, ?analyze=true for narrative analysis)

Examples:
  nfe-auditor serve --address :8080
  nfe-auditor serve --refdata refdata.yaml --api-key <key>`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddress, "address", ":8080", "Listen address")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug mode")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	pipeline, err := buildPipeline(logger)
	if err != nil {
		return err
	}

	var analyst *llm.Analyst
	if apiKey != "" {
		var clientOpts []llm.ClientOption
		if llmBaseURL != "" {
			clientOpts = append(clientOpts, llm.WithBaseURL(llmBaseURL))
		}
		if llmModel != "" {
			clientOpts = append(clientOpts, llm.WithModel(llmModel))
		}
		analyst = llm.NewAnalyst(llm.NewClient(apiKey, clientOpts...))
	}

	srv := server.New(&server.Config{
		Address:      serveAddress,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		Debug:        serveDebug,
	}, pipeline, analyst, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
