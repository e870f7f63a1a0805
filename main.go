package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llehouerou/hisoka/internal/canvas"
	"github.com/llehouerou/hisoka/internal/chrome"
	"github.com/llehouerou/hisoka/internal/compositor"
	"github.com/llehouerou/hisoka/internal/config"
	"github.com/llehouerou/hisoka/internal/decoder"
	"github.com/llehouerou/hisoka/internal/engine"
	"github.com/llehouerou/hisoka/internal/errmsg"
	"github.com/llehouerou/hisoka/internal/gallery"
	"github.com/llehouerou/hisoka/internal/keymap"
	"github.com/llehouerou/hisoka/internal/loader"
	"github.com/llehouerou/hisoka/internal/logging"
	"github.com/llehouerou/hisoka/internal/pixel"
	"github.com/llehouerou/hisoka/internal/terminal"
)

var version = "dev"

// Exit statuses.
const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

// options holds the command-line flags. Empty values leave the
// configuration untouched.
type options struct {
	protocol   string
	recursive  bool
	configPath string
	logLevel   string
	logFile    string
}

func main() {
	os.Exit(execute(os.Args[1:]))
}

func execute(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	if err != nil && !errors.Is(err, engine.ErrInterrupted) {
		fmt.Fprintln(os.Stderr, "hisoka:", err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, engine.ErrInterrupted):
		return exitInterrupted
	default:
		return exitError
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "hisoka [flags] PATH...",
		Short: "Browse images in the terminal",
		Long: `Hisoka shows images one at a time inside the terminal window.

PATH may be an image file or a directory of images. Audio files found in
directories contribute their embedded cover art.

Keys: ` + keymap.Help(keymap.Bindings),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("%s: %w", errmsg.OpLoadConfig, err)
			}
			applyFlags(cmd, cfg, opts)
			return run(cmd.Context(), cfg, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.protocol, "protocol", "p", "", "pixel protocol: auto, iterm, kitty, sixel or none")
	flags.BoolVarP(&opts.recursive, "recursive", "r", false, "descend into subdirectories")
	flags.StringVar(&opts.configPath, "config", "", "config file (read after the default locations)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&opts.logFile, "log-file", "", `log file, "-" disables logging`)

	return cmd
}

// applyFlags lets explicitly set flags override the configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts options) {
	flags := cmd.Flags()
	if flags.Changed("protocol") {
		cfg.Protocol = opts.protocol
	}
	if flags.Changed("recursive") {
		cfg.Scan.Recursive = opts.recursive
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}
}

func run(ctx context.Context, cfg *config.Config, paths []string) error {
	log, closer, err := logging.New(cfg.GetLogConfig())
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpOpenLog, err)
	}
	defer closer.Close()

	mode, err := pixel.Detect(cfg.GetProtocol())
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpInitialize, err)
	}

	keys, err := keymap.NewResolver(cfg.GetBindings())
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpLoadConfig, err)
	}

	scan := cfg.GetScanConfig()
	items := loader.Load(paths, loader.Options{
		Recursive:    scan.Recursive,
		IncludeAudio: *scan.IncludeAudio,
	}, logging.Component(log, "loader"))

	session := terminal.NewSession(os.Stdin, os.Stdout)
	out := session.Writer()

	cellW, cellH := terminal.CellSize(int(os.Stdout.Fd()))
	theme := cfg.GetThemeConfig()

	g := gallery.New(items, gallery.Deps{
		Decoder: decoder.Decoder{},
		Chrome: chrome.New(out, chrome.NewTheme(lipgloss.NewRenderer(os.Stdout), chrome.Colors{
			Border:  theme.Border,
			Title:   theme.Title,
			Message: theme.Message,
		})),
		Compositor: compositor.New(out, canvas.New(cellW, cellH, canvas.ColorModeFromEnv())),
		Mode:       mode,
		Log:        logging.Component(log, "gallery"),
	})

	log.WithFields(logrus.Fields{
		"mode":    mode.String(),
		"entries": items.Len(),
		"cell":    fmt.Sprintf("%dx%d", cellW, cellH),
		"quit":    keys.KeysFor(keymap.ActionQuit),
		"prev":    keys.KeysFor(keymap.ActionPrev),
		"next":    keys.KeysFor(keymap.ActionNext),
	}).Info("starting")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = engine.New(session, g, keys, logging.Component(log, "engine")).Run(ctx)
	if err != nil {
		log.WithError(err).Error("viewer stopped")
	}
	return err
}
