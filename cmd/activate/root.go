package activate

import (
	"fmt"
	"os"
	"strings"

	"github.com/arthur-debert/activate/internal/version"
	"github.com/arthur-debert/activate/pkg/activation"
	"github.com/arthur-debert/activate/pkg/config"
	"github.com/arthur-debert/activate/pkg/discovery"
	"github.com/arthur-debert/activate/pkg/environments"
	"github.com/arthur-debert/activate/pkg/filesystem"
	"github.com/arthur-debert/activate/pkg/logging"
	"github.com/arthur-debert/activate/pkg/shell"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// stdout is where list and status detect terminal capabilities
var stdout = os.Stdout

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity int
		eval      bool
		recursive bool
		dir       string
	)

	rootCmd := &cobra.Command{
		Use:     "activate [ENVIRONMENT]",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		ValidArgsFunction: environmentCompletion(&dir),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf(MsgErrLoadSettings, err)
			}

			result, err := activation.Run(cmd.Context(), activation.Options{
				Dir:       dir,
				Name:      name,
				Recursive: recursive,
				Workers:   cfg.Workers,
				Discovery: discoveryOptions(cfg),
				Artifacts: cfg.Artifacts,
			})
			if err != nil {
				return err
			}

			if eval {
				if result.Output != "" {
					fmt.Fprintln(cmd.OutOrStdout(), result.Output)
				}
				return nil
			}

			count := len(result.Directories)
			if name == "" {
				fmt.Fprintf(cmd.ErrOrStderr(), MsgDeactivated, count, plural(count))
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), MsgActivated, name, count, plural(count))
			}
			if result.Output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), MsgEvalHint, evalCommand(dir, recursive, name))
			}
			return nil
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&dir, "dir", "C", ".", MsgFlagDir)
	rootCmd.Flags().BoolVarP(&eval, "eval", "e", false, MsgFlagEval)
	rootCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, MsgFlagRecursive)

	rootCmd.AddCommand(newListCmd(&dir))
	rootCmd.AddCommand(newStatusCmd(&dir))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newSnippetCmd())

	return rootCmd
}

// evalCommand rebuilds the invocation with --eval added, so the hint
// covers the same scope as the run it follows.
func evalCommand(dir string, recursive bool, name string) string {
	parts := []string{"activate"}
	if dir != "." {
		parts = append(parts, "-C", shell.Quote(dir))
	}
	if recursive {
		parts = append(parts, "-r")
	}
	parts = append(parts, "--eval")
	if name != "" {
		parts = append(parts, "--", shell.Quote(name))
	}
	return strings.Join(parts, " ")
}

func discoveryOptions(cfg *config.Config) discovery.Options {
	return discovery.Options{
		SkipHidden: cfg.Discovery.SkipHidden,
		GitIgnore:  cfg.Discovery.GitIgnore,
		Ignore:     cfg.Discovery.Ignore,
	}
}

// environmentCompletion completes the environment names declared in *dir
func environmentCompletion(dir *string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		envs, err := environments.Load(filesystem.NewOS(), *dir)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return environments.Names(envs), cobra.ShellCompDirectiveNoFileComp
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
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
