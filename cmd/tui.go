package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/simonvc/tradebook/internal/client"
	"github.com/simonvc/tradebook/internal/tui"
)

const embeddedAddr = "127.0.0.1:8888"

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		serverAddr := cfg.Client.Server

		if !cmd.Flags().Changed("server") {
			// The embedded server would write its request log over the UI.
			quiet := zap.NewNop()
			b, err := openBackend(cfg, embeddedAddr, quiet)
			if err != nil {
				return err
			}
			defer b.Close()

			go func() {
				if err := b.server.ListenAndServe(); err != nil {
					log.Error("embedded server error", zap.Error(err))
				}
			}()
			defer b.server.Shutdown(context.Background())
			serverAddr = "http://" + embeddedAddr

			// Wait for server to be ready
			c := client.New(serverAddr, time.Second)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			for {
				if err := c.Ping(ctx); err == nil {
					break
				}
				if ctx.Err() != nil {
					return fmt.Errorf("timeout waiting for embedded server")
				}
				time.Sleep(50 * time.Millisecond)
			}
		}

		c := client.New(serverAddr, cfg.Client.Timeout)
		app := tui.NewApp(c)
		p := tea.NewProgram(app, tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
