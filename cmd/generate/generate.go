package generate

import (
	"github.com/Mmx233/Cubic/cmd/generate/config"
	"github.com/Mmx233/Cubic/cmd/generate/key"
	"github.com/spf13/cobra"
)

var (
	Cmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate resources",
		Args:  cobra.NoArgs,
	}
)

func init() {
	Cmd.AddCommand(key.Cmd)
	Cmd.AddCommand(config.Cmd)
}
