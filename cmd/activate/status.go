package activate

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/activate/pkg/config"
	"github.com/arthur-debert/activate/pkg/discovery"
	"github.com/arthur-debert/activate/pkg/engine"
	"github.com/arthur-debert/activate/pkg/filesystem"
	"github.com/arthur-debert/activate/pkg/ui"
	"github.com/spf13/cobra"
)

func newStatusCmd(dir *string) *cobra.Command {
	var (
		format    string
		recursive bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: MsgStatusShort,
		Long:  MsgStatusLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ui.ParseFormat(format)
			if err != nil {
				return fmt.Errorf(MsgErrFormat, err)
			}

			root, err := filepath.Abs(*dir)
			if err != nil {
				return err
			}

			dirs := []string{root}
			if recursive {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf(MsgErrLoadSettings, err)
				}
				dirs, err = discovery.Find(cmd.Context(), root, discoveryOptions(cfg))
				if err != nil {
					return err
				}
			}

			eng := engine.New(filesystem.NewOS())
			statuses := make([]ui.DirectoryStatus, 0, len(dirs))
			for _, d := range dirs {
				state, err := eng.Status(d)
				if err != nil {
					return err
				}
				statuses = append(statuses, ui.DirectoryStatus{Dir: d, State: state})
			}
			return ui.RenderStatus(cmd.OutOrStdout(), ui.Resolve(f, stdout), statuses)
		},
	}

	cmd.Flags().StringVar(&format, "format", "auto", MsgFlagFormat)
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, MsgFlagRecursive)
	return cmd
}
