package envar

import (
	"path/filepath"
	"testing"
)

func TestEphemFetchHome(t *testing.T) {
	t.Setenv(EPHEMFETCH_HOME, "/srv/ephem")
	if got := EphemFetchHome(); got != "/srv/ephem" {
		t.Errorf("EphemFetchHome() = %q, want /srv/ephem", got)
	}
	if got := DefaultConfigFile(); got != filepath.Join("/srv/ephem", "config.yaml") {
		t.Errorf("DefaultConfigFile() = %q", got)
	}

	t.Setenv(EPHEMFETCH_HOME, "")
	if got := EphemFetchHome(); got != filepath.Join(UserHome(), ".ephemfetch") {
		t.Errorf("EphemFetchHome() without override = %q", got)
	}
}
