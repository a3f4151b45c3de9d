// Command nngmux-client is a thin driver binary around the client package:
// it loads a transport.Config from YAML, dials the configured endpoint, and
// sends whatever is given on the command line as a single request.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sage-x-project/nngmux/client"
	"github.com/sage-x-project/nngmux/internal/log"
	"github.com/sage-x-project/nngmux/message"
	"github.com/sage-x-project/nngmux/reqrep"
	"github.com/sage-x-project/nngmux/transport"
)

var (
	configPath string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "nngmux-client <message>",
	Short: "nngmux client driver - sends one request to a listening server",
	Args:  cobra.ExactArgs(1),
	RunE:  runClient,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "nngmux.yaml", "path to the transport config YAML file")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", 5*time.Second, "request timeout")
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "nngmux-client: %v\n", err)
		os.Exit(1)
	}
}

func runClient(cmd *cobra.Command, args []string) error {
	logger := log.Default()

	cfg, err := transport.LoadFile(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	reqRepID := message.NewReqRepId()
	rr, err := client.RegisterClient(reqrep.Config{ReqRepId: reqRepID}, cfg.ClientSocket, cfg.Dialer, nil)
	if err != nil {
		return fmt.Errorf("register client: %w", err)
	}
	defer client.UnregisterClient(reqRepID)

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	recv, err := rr.Send(ctx, []byte(args[0]))
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	reply, err := recv.Recv(ctx)
	if err != nil {
		return fmt.Errorf("recv reply: %w", err)
	}

	logger.Info("nngmux-client: reply received", log.String("reply", string(reply)))
	fmt.Println(string(reply))
	return nil
}
