package run

import (
	"github.com/Mmx233/Cubic/config"
	"github.com/Mmx233/Cubic/tools"
	"github.com/spf13/cobra"
)

var (
	configFile = tools.GetenvDefault(config.EnvPrefix+"CONFIG", "config.yaml")
	Cmd        = &cobra.Command{
		Use:   "run",
		Short: "Run cubic server",
		Args:  cobra.NoArgs,
		RunE:  runServer,
	}
)

func init() {
	Cmd.PersistentFlags().StringVarP(&configFile, "config", "c", configFile, "path of config file")
}
