// Package megfile wires the command line interface together: the root
// command, its subcommands and the topic-based help system.
package megfile

import (
	"bufio"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/megvii-research/go-megfile/internal/version"
	"github.com/megvii-research/go-megfile/pkg/cobrax/topics"
	"github.com/megvii-research/go-megfile/pkg/config"
	"github.com/megvii-research/go-megfile/pkg/errors"
	"github.com/megvii-research/go-megfile/pkg/fnmatch"
	"github.com/megvii-research/go-megfile/pkg/glob"
	"github.com/megvii-research/go-megfile/pkg/logging"
	"github.com/megvii-research/go-megfile/pkg/smart"
	"github.com/megvii-research/go-megfile/pkg/types"
	"github.com/megvii-research/go-megfile/pkg/ui"

	// Register the built-in backends
	_ "github.com/megvii-research/go-megfile/pkg/filesystem"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	var (
		verbosity  int
		configPath string
	)

	rootCmd := &cobra.Command{
		Use:     "megfile",
		Version: version.Version,
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(verbosity)
			log.Debug().Str("version", version.Version).Msg("megfile starting")

			var (
				cfg *config.Config
				err error
			)
			if configPath != "" {
				cfg, err = config.LoadFrom(configPath)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return err
			}
			config.Initialize(cfg)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If we get here, no subcommand was provided
			// Show help but return an error to indicate incorrect usage
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, "no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().String("format", "auto", MsgFlagFormat)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", MsgFlagConfig)

	// Disable automatic help command (we'll use our custom one from topics)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	// Set custom help template
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	// Add all commands
	rootCmd.AddCommand(newGlobCmd())
	rootCmd.AddCommand(newLsCmd())
	rootCmd.AddCommand(newMatchCmd())
	rootCmd.AddCommand(newTranslateCmd())
	rootCmd.AddCommand(newExpandCmd())
	rootCmd.AddCommand(newCompactCmd())
	rootCmd.AddCommand(newEscapeCmd())
	rootCmd.AddCommand(newUnescapeCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Initialize the topic-based help system from the embedded topics
	if err := topics.InitializeWithOptions(rootCmd, topicsSource(), topics.Options{
		Extensions: []string{".txt", ".md"},
		Renderer:   topics.NewGlamourRenderer(),
		GroupID:    "misc",
	}); err != nil {
		log.Warn().Err(err).Msg("Failed to initialize help topics")
	}

	return rootCmd
}

// rendererFor builds the output renderer once flags are parsed
func rendererFor(cmd *cobra.Command) (ui.Renderer, error) {
	raw, err := cmd.Root().PersistentFlags().GetString("format")
	if err != nil {
		return nil, err
	}
	format, err := ui.ParseFormat(raw)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, cmd.OutOrStdout())
}

func newGlobCmd() *cobra.Command {
	var (
		noRecursive bool
		strict      bool
		withStat    bool
	)

	cmd := &cobra.Command{
		Use:     "glob PATTERN...",
		Short:   MsgGlobShort,
		Long:    MsgGlobLong,
		Example: MsgGlobExample,
		Args:    cobra.MinimumNArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := rendererFor(cmd)
			if err != nil {
				return err
			}

			// Configured defaults apply unless the flag was given on the
			// command line.
			opts := []glob.Option{}
			if cmd.Flags().Changed("no-recursive") {
				opts = append(opts, glob.WithRecursive(!noRecursive))
			}
			if cmd.Flags().Changed("strict") {
				opts = append(opts, glob.WithMissingOK(!strict))
			}

			ctx := cmd.Context()
			matches := []ui.Match{}
			for _, pattern := range args {
				paths, err := smart.Glob(ctx, pattern, opts...)
				if err != nil {
					return err
				}
				for _, path := range paths {
					match := ui.Match{Path: path}
					if withStat {
						if st, err := smart.Stat(ctx, path); err == nil {
							match.Stat = &st
						} else {
							log.Debug().Err(err).Str("path", path).Msg("Stat failed for match")
						}
					}
					matches = append(matches, match)
				}
			}
			return renderer.RenderMatches(matches)
		},
	}

	cmd.Flags().BoolVar(&noRecursive, "no-recursive", false, MsgFlagNoRecursive)
	cmd.Flags().BoolVar(&strict, "strict", false, MsgFlagStrict)
	cmd.Flags().BoolVar(&withStat, "stat", false, MsgFlagStat)
	return cmd
}

func newLsCmd() *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:     "ls URI",
		Short:   MsgLsShort,
		Long:    MsgLsLong,
		Example: MsgLsExample,
		Args:    cobra.ExactArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := rendererFor(cmd)
			if err != nil {
				return err
			}

			entries := []types.Entry{}
			for entry, err := range smart.ScanDir(cmd.Context(), args[0]) {
				if err != nil {
					return err
				}
				entries = append(entries, entry)
			}
			return renderer.RenderEntries(entries, long)
		},
	}

	cmd.Flags().BoolVarP(&long, "long", "l", false, MsgFlagLong)
	return cmd
}

func newMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "match PATTERN NAME...",
		Short:   MsgMatchShort,
		Long:    MsgMatchLong,
		Example: MsgMatchExample,
		Args:    cobra.MinimumNArgs(2),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := rendererFor(cmd)
			if err != nil {
				return err
			}

			pattern := args[0]
			matched := []string{}
			for _, name := range args[1:] {
				if fnmatch.Match(name, pattern) {
					matched = append(matched, name)
				}
			}
			if err := renderer.RenderLines(matched); err != nil {
				return err
			}
			if len(matched) == 0 {
				return errors.Newf(errors.ErrNotFound, "no name matched pattern: %s", pattern).
					WithDetail("pattern", pattern)
			}
			return nil
		},
	}
}

func newTranslateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "translate PATTERN...",
		Short:   MsgTranslateShort,
		Long:    MsgTranslateLong,
		Args:    cobra.MinimumNArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := rendererFor(cmd)
			if err != nil {
				return err
			}

			lines := make([]string, 0, len(args))
			for _, pattern := range args {
				lines = append(lines, fnmatch.Translate(pattern))
			}
			return renderer.RenderLines(lines)
		},
	}
}

func newExpandCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "expand PATTERN...",
		Short:   MsgExpandShort,
		Long:    MsgExpandLong,
		Example: MsgExpandExample,
		Args:    cobra.MinimumNArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := rendererFor(cmd)
			if err != nil {
				return err
			}

			lines := []string{}
			for _, pattern := range args {
				lines = append(lines, glob.Ungloblize(pattern)...)
			}
			return renderer.RenderLines(lines)
		},
	}
}

func newCompactCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "compact [PATH...]",
		Short:   MsgCompactShort,
		Long:    MsgCompactLong,
		Example: MsgCompactExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := rendererFor(cmd)
			if err != nil {
				return err
			}

			paths := args
			if len(paths) == 0 {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				for scanner.Scan() {
					if line := scanner.Text(); line != "" {
						paths = append(paths, line)
					}
				}
				if err := scanner.Err(); err != nil {
					return errors.Wrap(err, errors.ErrInvalidInput, "failed to read paths from stdin")
				}
			}
			if len(paths) == 0 {
				return errors.New(errors.ErrInvalidInput, "no paths to compact")
			}
			return renderer.RenderLines([]string{glob.Globlize(paths)})
		},
	}
}

func newEscapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "escape PATH...",
		Short:   MsgEscapeShort,
		Long:    MsgEscapeLong,
		Args:    cobra.MinimumNArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := rendererFor(cmd)
			if err != nil {
				return err
			}

			lines := make([]string, 0, len(args))
			for _, path := range args {
				lines = append(lines, glob.Escape(path))
			}
			return renderer.RenderLines(lines)
		},
	}
}

func newUnescapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "unescape PATTERN...",
		Short:   MsgUnescapeShort,
		Long:    MsgEscapeLong,
		Args:    cobra.MinimumNArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := rendererFor(cmd)
			if err != nil {
				return err
			}

			lines := make([]string, 0, len(args))
			for _, pattern := range args {
				lines = append(lines, glob.Unescape(pattern))
			}
			return renderer.RenderLines(lines)
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "misc",
	}
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: MsgConfigInitShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := rendererFor(cmd)
			if err != nil {
				return err
			}

			path := config.UserConfigPath()
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			return renderer.RenderMessage(fmt.Sprintf(MsgConfigInitialized, path))
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: MsgConfigShowShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := config.Describe(config.Get())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "megfile version %s\ncommit: %s\nbuilt: %s\n",
				version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
