package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/monshunter/ephemfetch/pkg/config"
	"github.com/monshunter/ephemfetch/pkg/log"
	"github.com/spf13/cobra"
)

var (
	outputPath     string
	templateEmail  string
	templateOutDir string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate a configuration file",
	Long: `Generate a commented configuration file that can be used with
'ephemfetch fetch --config FILE'. Without --output it is written to the
default location.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		content := config.GenerateConfigTemplate(templateEmail, templateOutDir)

		path := outputPath
		if path == "" {
			path = configFile
		}
		if path == "-" {
			_, err := fmt.Fprint(cmd.OutOrStdout(), content)
			return err
		}

		if _, err := os.Stat(path); err == nil && !forceWrite {
			return fmt.Errorf("%s already exists, use --force to overwrite it", path)
		}

		dir := filepath.Dir(path)
		if dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write configuration file: %w", err)
		}

		log.Infof("Configuration file generated: %s", path)
		return nil
	},
}

var forceWrite bool

func init() {
	configCmd.Flags().StringVarP(&outputPath, "output", "o", "", `Output file path, "-" for stdout (default: --config path)`)
	configCmd.Flags().StringVar(&templateEmail, "email", "", "Email address to put in the file")
	configCmd.Flags().StringVar(&templateOutDir, "output-dir", "", "Download directory to put in the file")
	configCmd.Flags().BoolVar(&forceWrite, "force", false, "Overwrite an existing file")
}
