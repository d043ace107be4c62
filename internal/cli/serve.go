package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tasklist/internal/tui"
	"tasklist/internal/web"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task list page over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := opts.open(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			key := a.cfg.Storage.Key
			handler, err := web.NewHandler(web.Options{
				Controller:    a.controller(),
				StaticDir:     a.cfg.Server.StaticDir,
				UseDiskStatic: a.cfg.Server.UseDiskStatic,
				Logger:        a.logger,
				Events:        a.events,
				ReadyCheck: func(ctx context.Context) error {
					_, _, err := a.slot.Get(ctx, key)
					return err
				},
			})
			if err != nil {
				return fmt.Errorf("build server: %w", err)
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 5 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("listening", map[string]any{
					"addr":   addr,
					"driver": a.cfg.Storage.Driver,
					"path":   a.cfg.Storage.Path,
				})
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			a.logger.Info("shutting_down", nil)
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func tuiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal task list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			// The screen belongs to bubbletea, so log lines go to a file.
			if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
				return err
			}
			logFile, err := os.OpenFile(filepath.Join(cfg.Storage.DataDir, "tui.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return err
			}
			defer logFile.Close()

			a, err := opts.open(ctx, logFile)
			if err != nil {
				return err
			}
			defer a.Close()

			p := tea.NewProgram(tui.NewModel(ctx, a.controller()), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}
}
