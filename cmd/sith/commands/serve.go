package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/LaBatata101/python-lsp/config"
	"github.com/LaBatata101/python-lsp/errors"
	"github.com/LaBatata101/python-lsp/logger"
	"github.com/LaBatata101/python-lsp/server"
	"github.com/LaBatata101/python-lsp/version"
)

// ServeCmd starts the language server
var ServeCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server", "lsp"},
	Short:   "Start the language server",
	Long: `Start the sith language server.

Editors usually launch it over stdio. The tcp and websocket transports listen
on server.address. Configuration files are watched while the server runs:
limits and diagnostics settings apply to open sessions immediately,
transport changes need a restart.

Examples:
  sith serve
  sith serve --transport websocket --address 127.0.0.1:2087`,
	RunE: runServe,
}

var (
	serveTransport string
	serveAddress   string
)

func init() {
	ServeCmd.Flags().StringVar(&serveTransport, "transport", "", "Transport: stdio, tcp, websocket (overrides server.transport)")
	ServeCmd.Flags().StringVar(&serveAddress, "address", "", "Listen address for tcp and websocket (overrides server.address)")
}

// applyServeFlags copies cfg and applies the command line overrides, so
// reloads keep them.
func applyServeFlags(cfg *config.Config) *config.Config {
	out := *cfg
	if serveTransport != "" {
		out.Server.Transport = serveTransport
	}
	if serveAddress != "" {
		out.Server.Address = serveAddress
	}
	return &out
}

func runServe(cmd *cobra.Command, args []string) error {
	loaded, err := loadConfig()
	if err != nil {
		return err
	}
	cfg := applyServeFlags(loaded)
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid server flags")
	}

	verbosity := Verbosity(cmd)
	if cfg.Server.Transport != config.TransportStdio {
		// stdout belongs to the protocol only on stdio
		printBanner(cmd, cfg)
	}

	srv := server.New(cfg, logger.Logger)

	watcher, err := watchConfig(func(next *config.Config) error {
		logger.SetLevel(logger.EffectiveLevel(next.Log.Level, verbosity))
		logger.SetTheme(next.Log.Theme)
		return srv.Reload(applyServeFlags(next))
	})
	if err != nil {
		logger.Warnw("Config hot reload disabled", logger.FieldError, err)
	} else {
		defer watcher.Stop()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

// watchConfig starts a watcher on the merged config files, or on the project
// file that would be created in the working directory when none exist yet.
func watchConfig(onReload config.ReloadCallback) (*config.Watcher, error) {
	files := config.Files()
	if len(files) == 0 {
		files = []string{config.DefaultConfigFileName}
	}

	w, err := config.NewWatcher(files...)
	if err != nil {
		return nil, err
	}
	w.OnReload(onReload)
	w.Start()
	config.SetGlobalWatcher(w)
	return w, nil
}

func printBanner(cmd *cobra.Command, cfg *config.Config) {
	info := pterm.Info.WithWriter(cmd.ErrOrStderr())
	info.Printfln("sith %s language server", version.Get().Short())
	info.Printfln("Listening on %s (%s)", cfg.Server.Address, cfg.Server.Transport)
	if cfg.Server.MaxDocuments > 0 {
		info.Printfln("Open documents per session: %d", cfg.Server.MaxDocuments)
	}
	if files := config.Files(); len(files) > 0 {
		info.Printfln("Config: %v", files)
	}
}
