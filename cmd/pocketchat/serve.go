package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"pocketchat/internal/httpapi"
)

const shutdownTimeout = 5 * time.Second

func init() {
	serveCmd.Flags().String("addr", "", "HTTP listen address, e.g. :8080 (default from config)")
	serveCmd.Flags().String("cors-origins", "", "Comma separated allowed CORS origins; enables CORS")
	serveCmd.Flags().Int64("chat-timeout", -1, "Seconds allowed per /chat request (0 disables)")
	serveCmd.Flags().Bool("no-recover", false, "Do not reload the last used model at startup")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		addr := a.cfg.Addr
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			addr = v
		}
		origins := a.cfg.CORSOrigins
		if v, _ := cmd.Flags().GetString("cors-origins"); v != "" {
			origins = splitCSV(v)
		}
		timeout := a.cfg.ChatTimeoutSeconds
		if v, _ := cmd.Flags().GetInt64("chat-timeout"); v >= 0 {
			timeout = v
		}
		noRecover, _ := cmd.Flags().GetBool("no-recover")

		httpapi.SetLogger(a.log.With().Str("component", "http").Logger())
		httpapi.SetEventLog(a.events)
		httpapi.SetMaxBodyBytes(a.cfg.MaxBodyBytes)
		httpapi.SetChatTimeoutSeconds(timeout)
		httpapi.SetCORSOptions(a.cfg.CORSEnabled || len(origins) > 0, origins, nil, nil)

		g, ctx := errgroup.WithContext(cmd.Context())
		httpapi.SetBaseContext(ctx)
		srv := &http.Server{
			Addr:              addr,
			Handler:           httpapi.NewMux(a.mgr, a.chat),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Go(func() error {
			a.log.Info().Str("addr", addr).Str("models_dir", a.store.Dir()).Msg("pocketchat listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		if !noRecover {
			g.Go(func() error {
				if a.mgr.Recover(ctx) {
					a.log.Info().Str("model", a.mgr.Status().Current).Msg("recovered last used model")
				}
				return nil
			})
		}
		g.Go(func() error {
			<-ctx.Done()
			sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				a.log.Warn().Err(err).Msg("graceful shutdown error")
			}
			return nil
		})
		return g.Wait()
	},
}

// splitCSV splits a comma separated list, trimming blanks and dropping empties.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
