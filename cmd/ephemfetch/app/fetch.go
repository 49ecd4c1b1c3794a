package app

import (
	"bufio"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/monshunter/ephemfetch/pkg/config"
	"github.com/monshunter/ephemfetch/pkg/fetcher"
	"github.com/monshunter/ephemfetch/pkg/gnss"
	"github.com/monshunter/ephemfetch/pkg/log"
	"github.com/spf13/cobra"
)

var (
	email              string
	outputDir          string
	host               string
	port               int
	timeout            time.Duration
	insecureSkipVerify bool
	dates              []string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [WEEK...]",
	Short: "Download the IGS final orbits of GNSS weeks",
	Long: `Connect to the archive, enter the products directory and download every
IGS final orbit product (IGS0OPSFIN*ORB.SP3.gz) of each WEEK into the output
directory. Weeks are processed in the order given. A week that does not exist
is reported and skipped.

Missing email address or weeks are asked for on the terminal.`,
	Example: `  ephemfetch fetch --email me@example.org 2295 2296
  ephemfetch fetch --date 2024-01-01 --output-dir ./orbits`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		applyFetchFlags(cmd, cfg)

		weeks, err := resolveWeeks(args, dates)
		if err != nil {
			return err
		}

		in := bufio.NewReader(cmd.InOrStdin())
		if cfg.Email == "" {
			if cfg.Email, err = promptEmail(in, cmd.OutOrStdout()); err != nil {
				return err
			}
		}
		if len(weeks) == 0 {
			if weeks, err = promptWeeks(in, cmd.OutOrStdout()); err != nil {
				return err
			}
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		return runFetch(cfg, weeks)
	},
}

func init() {
	fetchCmd.Flags().StringVarP(&email, "email", "e", "", "Email address used as the anonymous password")
	fetchCmd.Flags().StringVarP(&outputDir, "output-dir", "o", config.DefaultOutputDir, "Directory receiving the products")
	fetchCmd.Flags().StringVar(&host, "host", config.DefaultHost, "Archive host")
	fetchCmd.Flags().IntVar(&port, "port", config.DefaultPort, "Archive FTPS port (explicit TLS)")
	fetchCmd.Flags().DurationVar(&timeout, "timeout", config.DefaultTimeout, "Dial timeout")
	fetchCmd.Flags().BoolVar(&insecureSkipVerify, "insecure-skip-verify", false, "Skip TLS certificate verification")
	fetchCmd.Flags().StringSliceVarP(&dates, "date", "d", nil, "Also fetch the week containing this date (YYYY-MM-DD), repeatable")
}

// applyFetchFlags lets explicitly given flags override file and environment
func applyFetchFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("email") {
		cfg.Email = email
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("host") {
		cfg.Host = host
	}
	if flags.Changed("port") {
		cfg.Port = port
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}
	if flags.Changed("insecure-skip-verify") {
		cfg.InsecureSkipVerify = insecureSkipVerify
	}
}

// resolveWeeks returns the week identifiers of args in order, followed by the
// weeks of dates that are not already listed. An argument may hold several
// space-separated weeks.
func resolveWeeks(args, dates []string) ([]string, error) {
	var weeks []string
	for _, arg := range args {
		weeks = append(weeks, strings.Fields(arg)...)
	}
	for _, s := range dates {
		d, err := gnss.ParseDate(s)
		if err != nil {
			return nil, err
		}
		id, err := gnss.WeekID(d)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(weeks, id) {
			weeks = append(weeks, id)
		}
	}
	return weeks, nil
}

func runFetch(cfg *config.Config, weeks []string) error {
	handler := NewGracefulShutdownHandler()
	defer handler.Close()

	session, err := fetcher.Connect(handler.Context(), cfg)
	if err != nil {
		return err
	}
	handler.SetSession(session)

	log.ProgressInfof("Downloading IGS final orbits for week(s) %s into %s", strings.Join(weeks, ", "), cfg.OutputDir)
	driver := fetcher.NewDriver(session, fetcher.Options{
		ProductsDir: cfg.ProductsDir,
		OutputDir:   cfg.OutputDir,
		Host:        cfg.Host,
	})
	if _, err := driver.Run(handler.Context(), weeks); err != nil {
		return err
	}
	return nil
}
