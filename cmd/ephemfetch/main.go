package main

import (
	"github.com/monshunter/ephemfetch/cmd/ephemfetch/app"
	"github.com/monshunter/ephemfetch/pkg/log"
)

// Version information set by build-time LDFLAGS
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	app.SetVersionInfo(Version, BuildTime, GoVersion)

	if err := app.Run(); err != nil {
		log.Fatalf("Error: %s", err)
	}
}
