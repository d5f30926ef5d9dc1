package activate

import (
	"fmt"

	"github.com/arthur-debert/activate/pkg/shell"
	"github.com/spf13/cobra"
)

func newSnippetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "snippet [bash|zsh|sh]",
		Short:     MsgSnippetShort,
		Long:      MsgSnippetLong,
		ValidArgs: shell.Shells,
		Args:      cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "bash"
			if len(args) == 1 {
				name = args[0]
			}
			snippet, err := shell.Snippet(name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), snippet)
			return nil
		},
	}
}
