// Command nngmux-server is a thin driver binary around the server package:
// it loads a transport.Config from YAML, starts an echo ReqRep service
// against it, and blocks until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sage-x-project/nngmux/internal/log"
	"github.com/sage-x-project/nngmux/message"
	"github.com/sage-x-project/nngmux/reqrep"
	"github.com/sage-x-project/nngmux/server"
	"github.com/sage-x-project/nngmux/transport"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "nngmux-server",
	Short: "nngmux server driver - runs an echo ReqRep service behind a listener",
	RunE:  runServer,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "nngmux.yaml", "path to the transport config YAML file")
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "nngmux-server: %v\n", err)
		os.Exit(1)
	}
}

type echoProcessor struct{}

func (echoProcessor) Process(_ context.Context, in []byte) ([]byte, error) { return in, nil }
func (echoProcessor) Destroy()                                             {}

func runServer(cmd *cobra.Command, _ []string) error {
	logger := log.Default()

	cfg, err := transport.LoadFile(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	svc := reqrep.StartService[[]byte, []byte](reqrep.Config{ReqRepId: message.NewReqRepId()}, echoProcessor{})
	defer svc.Close()

	h, err := server.Spawn(cfg.Socket, cfg.Listener, svc, nil, logger)
	if err != nil {
		return fmt.Errorf("spawn server: %w", err)
	}

	logger.Info("nngmux-server: listening", log.String("url", cfg.Listener.URL))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("nngmux-server: shutting down")
	h.StopAsync()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = h.AwaitShutdown(shutdownCtx)
	return nil
}
