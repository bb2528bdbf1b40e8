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

	"github.com/ziadkadry99/auto-site/internal/preview"
	"github.com/ziadkadry99/auto-site/internal/server"
)

// localProjectID names the folder being previewed in URLs and hub sessions.
const localProjectID = "local"

var previewCmd = &cobra.Command{
	Use:   "preview <dir>",
	Short: "Preview a site folder in the browser",
	Long: `Serves a live preview of the static site in dir with desktop, tablet and
mobile viewports. With --watch, open previews reload when files change.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir := args[0]
		if st, err := os.Stat(dir); err != nil {
			return err
		} else if !st.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}

		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = cfg.Port
		}
		watch, _ := cmd.Flags().GetBool("watch")

		source := preview.NewDirSource(walkerConfig(cfg, dir))
		hub := preview.NewHub(source, log)
		srv := server.New(server.Config{Port: port}, nil, log)
		preview.RegisterRoutes(srv.Router(), source, hub)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if watch {
			err := preview.Watch(ctx, dir, preview.DefaultDebounce, log, func() {
				hub.FilesChanged(localProjectID)
			})
			if err != nil {
				return err
			}
		}

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down preview...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "Previewing %s at http://localhost:%d/preview/%s\n", dir, port, localProjectID)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().IntP("port", "p", 0, "port to listen on (default from config)")
	previewCmd.Flags().Bool("watch", true, "reload open previews when files change")
	rootCmd.AddCommand(previewCmd)
}
