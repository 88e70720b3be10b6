// lngkit: localization key maintenance. Finds unused keys and renames keys across
// JSON translation files and source references.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/minios-linux/lngkit/config"
	"github.com/minios-linux/lngkit/i18n"
	"github.com/minios-linux/lngkit/rename"
	"github.com/minios-linux/lngkit/shell"
	"github.com/minios-linux/lngkit/unused"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// options are the persistent flags shared by every command.
type options struct {
	root      string
	verbose   bool
	overrides config.Overrides

	cfg    *config.Config
	logger *slog.Logger
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "lngkit",
		Short: "Localization key maintenance for JSON translation files",
		Long: `lngkit: localization key maintenance.

Keeps the keys of nested JSON translation files (lng/en.json, lng/ru.json)
in sync with the "key"_lng references in C++ sources (src/*.cpp, *.h, *.hpp).
Settings can be changed in .lngkit.yaml at the project root.

Run without a command to start the interactive menu.

Commands:
  unused      List translation keys no source file references
  missing     List referenced keys a translation file lacks
  rename      Rename a key in sources and every translation file
  shell       Interactive menu`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.root, "root", ".", "Project root directory")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every scanned and rewritten file")
	opts.overrides.Register(root.PersistentFlags())

	root.AddCommand(
		newUnusedCmd(opts),
		newMissingCmd(opts),
		newRenameCmd(opts),
		newShellCmd(opts),
		newVersionCmd(),
	)

	return root
}

// setup resolves the configuration once flags are parsed.
func (o *options) setup(cmd *cobra.Command) error {
	i18n.Init("")
	o.logger = newLogger(cmd.ErrOrStderr(), o.verbose)

	cfg, err := config.Load(o.root)
	if err != nil {
		return err
	}
	if err := o.overrides.Apply(cmd.Flags(), cfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	o.cfg = cfg
	o.logger.Debug("configuration loaded",
		"root", cfg.Root,
		"src", cfg.SourceDir,
		"extensions", cfg.Extensions,
		"files", cfg.TranslationFiles)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		newLogger(os.Stderr, false).Error(err.Error())
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		// Skip config loading so version works anywhere.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "lngkit version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// unused / missing (read-only reports)
// ---------------------------------------------------------------------------

func newUnusedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "unused",
		Short: "List translation keys that no source file references",
		Long: `List, per translation file, the flattened keys that are never referenced
as "key"_lng in the sources. Keys under a maybe_used prefix (built at runtime,
e.g. "category/") are not reported. Does not modify any files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return unused.Write(cmd.OutOrStdout(), unused.Find(opts.cfg, opts.logger))
		},
	}
}

func newMissingCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "missing",
		Short: "List referenced keys that a translation file does not declare",
		Long: `List, per translation file, the keys referenced as "key"_lng in the
sources that the file does not contain. Does not modify any files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return unused.WriteMissing(cmd.OutOrStdout(), unused.FindMissing(opts.cfg, opts.logger))
		},
	}
}

// ---------------------------------------------------------------------------
// rename
// ---------------------------------------------------------------------------

func newRenameCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <source> <target>",
		Short: "Rename a key in sources and every translation file",
		Long: `Rename a key everywhere it lives.

Every "source"_lng reference in the sources becomes "target"_lng, and every
translation file moves its value from source to target. A file that never had
source gets target with the value "source" as a placeholder for translators.

There is no rollback: if writing a translation file fails, the sources are
already rewritten.`,
		Example: `  lngkit rename dialog/ok dialog/buttons/ok`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(opts, args[0], args[1])
		},
	}
}

func runRename(opts *options, source, target string) error {
	res, err := rename.Rename(opts.cfg, source, target, opts.logger)
	if err != nil {
		return err
	}
	opts.logger.Info("renamed key",
		"from", source,
		"to", target,
		"sources", len(res.SourceFiles),
		"files", len(res.Documents))
	return nil
}

// ---------------------------------------------------------------------------
// shell
// ---------------------------------------------------------------------------

func newShellCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive menu",
		Long: `Start the interactive menu. Type the number or name of an action:

  1 / unused   Print unused keys, then wait for Enter
  2 / rename   Read Source/Target pairs and rename them; empty Source returns
  3 / exit     Leave (end of input works too)

Ctrl+C at the Source/Target or "Press Enter" prompts returns to the menu;
at the menu it leaves.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, opts)
		},
	}
}

func runShell(cmd *cobra.Command, opts *options) error {
	actions := shell.Actions{
		Unused: func(w io.Writer) error {
			return unused.Write(w, unused.Find(opts.cfg, opts.logger))
		},
		Rename: func(source, target string) error {
			return runRename(opts, source, target)
		},
		Recoverable: func(err error) bool {
			return errors.Is(err, rename.ErrEmptyKey) || errors.Is(err, rename.ErrSameKey)
		},
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	sh := shell.New(cmd.InOrStdin(), cmd.OutOrStdout(), actions, opts.logger)
	sh.HandleInterrupts(sigCh)
	return sh.Run()
}
