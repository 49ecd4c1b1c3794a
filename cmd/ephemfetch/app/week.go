package app

import (
	"fmt"
	"time"

	"github.com/monshunter/ephemfetch/pkg/gnss"
	"github.com/spf13/cobra"
)

var weekCmd = &cobra.Command{
	Use:   "week [DATE...]",
	Short: "Print the GNSS week of dates",
	Long: `Print the GNSS week and day of week (0 = Sunday) of each DATE given as
YYYY-MM-DD, or of today (UTC) when no date is given. The week number is the
directory name to pass to 'ephemfetch fetch'.`,
	Example: `  ephemfetch week
  ephemfetch week 2024-01-01 2024-01-08`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dates := make([]time.Time, 0, len(args))
		for _, arg := range args {
			d, err := gnss.ParseDate(arg)
			if err != nil {
				return err
			}
			dates = append(dates, d)
		}
		if len(dates) == 0 {
			dates = append(dates, time.Now().UTC())
		}

		out := cmd.OutOrStdout()
		for _, d := range dates {
			w, dow, err := gnss.Week(d)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\tweek %d\tday %d\n", d.Format(gnss.DateLayout), w, dow)
		}
		return nil
	},
}
