package fetcher

import (
	"context"

	"github.com/monshunter/ephemfetch/pkg/config"
	"github.com/monshunter/ephemfetch/pkg/ftps"
	"github.com/monshunter/ephemfetch/pkg/log"
)

// Connect opens an authenticated session with encrypted control and data
// channels. Every failure is reported as a KindSession error.
func Connect(ctx context.Context, cfg *config.Config) (*ftps.Client, error) {
	client := ftps.NewClient(cfg.Host, cfg.Port, cfg.User, cfg.Email)
	client.Timeout = cfg.Timeout
	client.InsecureSkipVerify = cfg.InsecureSkipVerify
	client.DisableEPSV = cfg.DisableEPSV
	if log.IsVerbose() {
		client.Debug = log.Writer("ftp: ")
	}

	addr := cfg.Address()
	log.ProgressInfof("Connecting to %s", addr)
	if err := client.Connect(ctx); err != nil {
		return nil, &Error{Kind: KindSession, Op: "connect", Path: addr, Err: err}
	}
	log.ProgressInfof("Connected to %s as %s", addr, cfg.User)
	return client, nil
}
