package app

import (
	"github.com/monshunter/ephemfetch/pkg/config"
	"github.com/monshunter/ephemfetch/pkg/envar"
	"github.com/monshunter/ephemfetch/pkg/log"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	quiet      bool
	noColor    bool
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "ephemfetch",
	Short: "ephemfetch - download IGS final orbit products from CDDIS",
	Long: `ephemfetch downloads the International GNSS Service (IGS) final precise
orbit products (IGS0OPSFIN*ORB.SP3.gz) of one or more GNSS weeks from the
CDDIS anonymous archive over FTPS.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetVerbose(true)
		}
		if quiet {
			log.SetQuiet(true)
		}
		if noColor {
			log.EnableColor(false)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output, including the FTP protocol trace")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print warnings and errors")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", envar.DefaultConfigFile(), "Configuration file")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Run adds all child commands to the root command and sets flags, this is the entry point called by main.go
func Run() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration file, .env and environment. The file is
// only required when --config was given explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(configFile, cmd.Flags().Changed("config"))
}
