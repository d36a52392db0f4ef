package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"shin5ok/simple-books-lookup/internal/server"
)

func (a *app) serveCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search page and the JSON API",
		RunE:  a.runServe,
	}
	c.Flags().String("port", "8080", "HTTP port (PORT)")
	return c
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	books, closeDB, err := a.openCatalog()
	if err != nil {
		return err
	}
	defer closeDB()

	router := server.New(books).Router(server.Options{
		AppName:  a.cfg.AppName,
		LogLevel: a.cfg.LogLevel,
		JSON:     a.cfg.Environment != "development",
	})

	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("driver", a.cfg.DBDriver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
