package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/auto-site/internal/audit"
	"github.com/ziadkadry99/auto-site/internal/config"
	"github.com/ziadkadry99/auto-site/internal/notifications"
	"github.com/ziadkadry99/auto-site/internal/pipeline"
	"github.com/ziadkadry99/auto-site/internal/preview"
	"github.com/ziadkadry99/auto-site/internal/project"
	"github.com/ziadkadry99/auto-site/internal/server"
	"github.com/ziadkadry99/auto-site/internal/variations"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the autosite HTTP server: the project and file API, page templates
and multiplication, LLM site generation and the live preview with its
websocket. Toasts go to the log, to open previews and to the configured
webhook.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Port = port
		}
		allowAll, _ := cmd.Flags().GetBool("cors-allow-all")

		database, store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		hub := preview.NewHub(store, log)
		notifier := notifications.NewDispatcher(
			notifications.LogNotifier{Log: log},
			hub,
			audit.NewTrail(audit.NewStore(database), log),
		)
		if cfg.NotifyWebhook != "" {
			notifier.Add(notifications.NewWebhookNotifier(cfg.NotifyWebhook, log))
		}

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: allowAll,
		}, database, log)

		registerAllRoutes(srv, cfg, store, hub, notifier)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "autosite server v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", cfg.DBPath())

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (default from config)")
	serveCmd.Flags().Bool("cors-allow-all", false, "allow all CORS origins (development)")
	rootCmd.AddCommand(serveCmd)
}

// registerAllRoutes wires every feature package into the server. Generation
// is only mounted when an LLM provider can be created.
func registerAllRoutes(srv *server.Server, cfg *config.Config, store *project.Store, hub *preview.Hub, notifier notifications.Notifier) {
	project.RegisterRoutes(srv.Timed(), store, hub)

	variations.RegisterRoutes(srv.Timed(), variations.RouteDeps{
		Templates: variations.NewStore(srv.Database()),
		Files:     store,
		Notifier:  notifier,
		Listener:  hub,
		Log:       log,
	})

	audit.RegisterRoutes(srv.Timed(), audit.NewStore(srv.Database()))

	preview.RegisterRoutes(srv.Router(), store, hub)

	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("LLM provider unavailable, site generation disabled")
		return
	}
	pipeline.RegisterRoutes(srv.Router(), pipeline.RouteDeps{
		Generator: pipeline.NewGenerator(provider, cfg.Quality, cfg.Model, log, nil),
		Files:     store,
		Notifier:  notifier,
		Listener:  hub,
		Log:       log,
	})
}
