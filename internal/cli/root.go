// Package cli implements the xcube command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/xcube/internal/paths"
	"github.com/mesh-intelligence/xcube/pkg/xcube"
)

// Exit codes.
const (
	exitSuccess = 0
	exitFailure = 1
)

const interruptedMessage = "interrupted by the user"

// app holds global flag values and the state PersistentPreRunE prepares for
// subcommands.
type app struct {
	configDirFlag string
	dataDirFlag   string
	verbose       bool

	configDir string
	cfg       *viper.Viper
	log       *zap.SugaredLogger
}

// NewRootCmd creates the top-level "xcube" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "xcube",
		Short: "Generate XMage deck files from Magic Online cube lists",
		Long: "xcube scrapes a Magic Online cube card list, resolves every card to its\n" +
			"oldest printing and writes the cube as a deck file XMage can import.",
		Version:           xcube.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configDirFlag, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/xcube)")
	root.PersistentFlags().StringVar(&a.dataDirFlag, "data-dir", "", "data directory for the lookup cache and run history (default: $XDG_DATA_HOME/xcube)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log every card lookup")

	root.AddCommand(newGenerateCmd(a))
	root.AddCommand(newMinimizeCmd(a))
	root.AddCommand(newHistoryCmd(a))
	root.AddCommand(newCacheCmd(a))
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newVersionCmd())

	return root
}

// setup builds the logger and loads config.yaml. The version command needs
// neither a config directory nor a store.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.log = newLogger(cmd.ErrOrStderr(), a.verbose)
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.configDirFlag)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	a.configDir = configDir
	a.cfg = cfg
	return nil
}

// Execute runs the root command with os.Args and exits with the resulting
// code. SIGINT cancels the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command tree and reports a failure on stderr as
// "xcube: <command>: <message>".
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return exitSuccess
	}

	name := root.Name()
	if cmd != nil && cmd != root {
		name = strings.TrimPrefix(cmd.CommandPath(), root.Name()+" ")
	}

	msg := err.Error()
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		msg = interruptedMessage
	}
	fmt.Fprintf(stderr, "%s: %s: %s\n", root.Name(), name, msg)
	return exitFailure
}
