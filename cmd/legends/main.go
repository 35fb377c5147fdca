package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/naveenspark/legends/internal/auth"
	"github.com/naveenspark/legends/internal/brief"
	"github.com/naveenspark/legends/internal/config"
	"github.com/naveenspark/legends/internal/events"
	"github.com/naveenspark/legends/internal/logging"
	"github.com/naveenspark/legends/internal/tui"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	st := &state{}
	defer st.close()

	root := newRootCmd(st)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

// state is what the root command builds before any subcommand runs.
type state struct {
	configPath string
	verbose    bool

	cfg      config.Config
	log      *zap.Logger
	provider *auth.Provider
}

// setup loads config, builds the logger and the auth provider, and stores
// the provider in the command context.
func (s *state) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Logging.Level, cfg.Logging.File, s.verbose)
	if err != nil {
		return err
	}
	s.cfg = cfg
	s.log = log.With(zap.String("cmd", cmd.Name()))

	svc := auth.NewService(cfg, s.log)
	s.provider = auth.NewProvider(svc,
		auth.WithLogger(s.log),
		auth.WithRedirectURL(cfg.ResetRedirectURL()),
		auth.WithSignUpSession(cfg.Auth.SignUpEstablishesSession),
	)
	s.log.Debug("startup", zap.String("mode", svc.Mode().String()), zap.String("version", version))

	cmd.SetContext(auth.WithProvider(cmd.Context(), s.provider))
	return nil
}

func (s *state) close() {
	if s.provider != nil {
		s.provider.Close() //nolint:errcheck // best-effort shutdown
	}
	if s.log != nil {
		s.log.Sync() //nolint:errcheck // stderr sync fails on some terminals
	}
}

// generator builds the brief generator from config.
func (s *state) generator() (*brief.Generator, brief.Download, error) {
	r, err := brief.NewRenderer(s.cfg.Brief.TemplatePath)
	if err != nil {
		return nil, brief.Download{}, err
	}
	download := brief.Download{Dir: s.cfg.Brief.DownloadDir}
	return brief.NewGenerator(r, brief.NewClipboard(), download), download, nil
}

// noSetup marks commands that run without config or a provider.
const noSetup = "legends/no-setup"

func newRootCmd(st *state) *cobra.Command {
	root := &cobra.Command{
		Use:           "legends",
		Short:         "PromptAI in your terminal",
		Long:          "Legends is the PromptAI terminal app: browse your saved prompts,\nsee your usage and generate project briefs.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[noSetup] != "" {
				return nil
			}
			return st.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), st)
		},
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", "", "config file (default ~/.legends/config.yaml)")
	root.PersistentFlags().BoolVarP(&st.verbose, "verbose", "v", false, "enable debug logging")
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		printHelp(cmd.OutOrStdout(), cmd)
	})

	root.AddCommand(
		newVersionCmd(),
		newBriefCmd(st),
		newLoginCmd(),
		newSignUpCmd(),
		newLogoutCmd(),
		newResetPasswordCmd(),
		newWhoamiCmd(),
	)
	return root
}

func runTUI(ctx context.Context, st *state) error {
	gen, download, err := st.generator()
	if err != nil {
		return err
	}
	bus := events.NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := tui.NewApp(ctx, tui.Deps{
		Provider:  auth.MustFromContext(ctx),
		Bus:       bus,
		Generator: gen,
		Download:  download,
		SiteURL:   st.cfg.Site.URL,
		Version:   version,
		Log:       st.log,
	})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
