package fetcher

import (
	"context"
	"sync"

	"github.com/monshunter/ephemfetch/pkg/ftps"
	"github.com/monshunter/ephemfetch/pkg/interfaces"
	"github.com/monshunter/ephemfetch/pkg/log"
	"github.com/monshunter/ephemfetch/pkg/product"
	"github.com/monshunter/ephemfetch/pkg/utils"
)

// Options controls where a Driver looks and writes
type Options struct {
	// ProductsDir is entered once before the first week
	ProductsDir string
	// OutputDir receives the retrieved files
	OutputDir string
	// Host is only used in the disconnect message
	Host string
}

// Driver retrieves the matching products of each requested week over one
// session. Weeks are processed strictly in order and files in listing order.
type Driver struct {
	session   interfaces.ArchiveSession
	nav       *Navigator
	retriever *Retriever
	opts      Options

	closeOnce sync.Once
	closeErr  error
}

// NewDriver creates a driver that owns session and closes it when Run returns
func NewDriver(session interfaces.ArchiveSession, opts Options) *Driver {
	return &Driver{
		session:   session,
		nav:       NewNavigator(session),
		retriever: NewRetriever(session, opts.OutputDir),
		opts:      opts,
	}
}

// Run enters the products directory and retrieves every week. A week that
// fails is recorded in the report and the next week is still processed. The
// only error returned is failing to enter the products directory. The
// session is closed exactly once before Run returns, whatever happened.
func (d *Driver) Run(ctx context.Context, weeks []string) (*Report, error) {
	defer d.Close()

	report := &Report{Weeks: make([]WeekResult, 0, len(weeks))}

	if err := d.nav.EnterRoot(d.opts.ProductsDir); err != nil {
		log.Errorf("Cannot enter products directory %s: %v", d.opts.ProductsDir, err)
		return report, err
	}
	log.ProgressInfof("Entered products directory %s", d.productsLabel())

	for _, week := range weeks {
		if err := ctx.Err(); err != nil {
			report.Weeks = append(report.Weeks, WeekResult{Week: week, Err: err})
			continue
		}
		result := d.processWeek(ctx, week)
		report.Weeks = append(report.Weeks, result)
	}

	d.summarize(report)
	return report, nil
}

// processWeek enters a week directory, retrieves its matches and always
// leaves the directory again once it was entered.
func (d *Driver) processWeek(ctx context.Context, week string) (result WeekResult) {
	result.Week = week

	leave, err := d.nav.EnterWeek(week)
	if err != nil {
		if ftps.IsNotFound(err) {
			log.Errorf("The week '%s' was not found: %v", week, err)
		} else {
			log.Errorf("Cannot enter week %s: %v", week, err)
		}
		result.Err = err
		return result
	}
	defer func() {
		if err := leave(); err != nil {
			log.Errorf("Failed to leave week %s: %v", week, err)
			if result.Err == nil {
				result.Err = err
			}
		}
	}()

	log.ProgressInfof("Downloading week %s", week)

	names, err := d.session.NameList("")
	if err != nil {
		result.Err = &Error{Kind: KindTransfer, Op: "list", Week: week, Path: week, Err: err}
		log.Errorf("Failed to list week %s: %v", week, err)
		return result
	}

	matches := product.Match(names)
	result.Matched = len(matches)
	if len(matches) == 0 {
		log.ProgressInfof("No final orbit products in week %s (%d entries listed)", week, len(names))
		return result
	}
	log.ProgressInfof("Found %d final orbit products in week %s", len(matches), week)

	bar := log.NewProgressBar("Week "+week, len(matches))
	defer bar.Complete()

	for _, name := range matches {
		if ctx.Err() != nil {
			result.Err = ctx.Err()
			return result
		}
		result.Files = append(result.Files, d.retrieve(week, name))
		bar.Increment()
	}
	return result
}

func (d *Driver) retrieve(week, name string) FileResult {
	if n, err := product.ParseName(name); err == nil {
		log.Debugf("Retrieving %s (%s %s from %s)", name, n.Center, n.Solution, n.Start.Format("2006-01-02 15:04"))
	} else {
		log.Debugf("Retrieving %s", name)
	}

	res := FileResult{Name: name, LocalPath: d.retriever.LocalPath(name)}
	res.Bytes, res.Err = d.retriever.Retrieve(name)
	if res.Err != nil {
		if fe, ok := res.Err.(*Error); ok {
			fe.Week = week
		}
		log.Errorf("Failed to retrieve %s: %v", name, res.Err)
	}
	return res
}

// Close ends the session. Only the first call has an effect.
func (d *Driver) Close() error {
	d.closeOnce.Do(func() {
		log.Infof("Disconnecting from %s", d.hostLabel())
		d.closeErr = d.session.Close()
		if d.closeErr != nil {
			log.Debugf("Error while disconnecting: %v", d.closeErr)
		}
	})
	return d.closeErr
}

// productsLabel prefers the absolute path the server reported
func (d *Driver) productsLabel() string {
	if root := d.nav.Root(); root != "" {
		return root
	}
	return d.opts.ProductsDir
}

func (d *Driver) hostLabel() string {
	if d.opts.Host != "" {
		return d.opts.Host
	}
	return "archive"
}

func (d *Driver) summarize(report *Report) {
	log.Infof("Download complete: %d file(s), %s, from %d week(s)",
		report.Downloaded(), utils.FormatSize(report.TotalBytes()), len(report.Weeks))
	for _, w := range report.FailedWeeks() {
		// errors without a kind come from cancellation
		if KindOf(w.Err) == 0 {
			log.Warnf("Week %s not completed: %v", w.Week, w.Err)
			continue
		}
		log.Errorf("Week %s: %v", w.Week, w.Err)
	}
	if failed := report.FailedFiles(); len(failed) > 0 {
		log.Errorf("%d file(s) could not be retrieved", len(failed))
	}
}
