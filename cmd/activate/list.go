package activate

import (
	"fmt"

	"github.com/arthur-debert/activate/pkg/environments"
	"github.com/arthur-debert/activate/pkg/filesystem"
	"github.com/arthur-debert/activate/pkg/ui"
	"github.com/spf13/cobra"
)

func newListCmd(dir *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: MsgListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ui.ParseFormat(format)
			if err != nil {
				return fmt.Errorf(MsgErrFormat, err)
			}

			envs, err := environments.Load(filesystem.NewOS(), *dir)
			if err != nil {
				return err
			}
			return ui.RenderList(cmd.OutOrStdout(), ui.Resolve(f, stdout), *dir, environments.Names(envs))
		},
	}

	cmd.Flags().StringVar(&format, "format", "auto", MsgFlagFormat)
	return cmd
}
