package fetcher

import (
	"github.com/monshunter/ephemfetch/pkg/interfaces"
	"github.com/monshunter/ephemfetch/pkg/log"
)

// Navigator moves a session between the products root and week directories
type Navigator struct {
	remote interfaces.RemoteNavigator
	// root is the absolute products directory, empty until EnterRoot succeeds
	// and the server answers PWD
	root string
}

// NewNavigator creates a navigator over remote
func NewNavigator(remote interfaces.RemoteNavigator) *Navigator {
	return &Navigator{remote: remote}
}

// Root returns the absolute products directory recorded by EnterRoot
func (n *Navigator) Root() string {
	return n.root
}

// EnterRoot changes into the products directory and records where it is
func (n *Navigator) EnterRoot(dir string) error {
	if err := n.remote.ChangeDir(dir); err != nil {
		return &Error{Kind: KindNavigation, Op: "cwd", Path: dir, Err: err}
	}
	if pwd, err := n.remote.CurrentDir(); err == nil {
		n.root = pwd
	} else {
		log.Debugf("Could not read the products directory path: %v", err)
	}
	return nil
}

// EnterWeek changes into the directory of week. On success it returns the
// function that leaves it again, which callers must run exactly once.
func (n *Navigator) EnterWeek(week string) (func() error, error) {
	if week == "" {
		return nil, &Error{Kind: KindNavigation, Op: "cwd", Err: ErrEmptyWeek}
	}
	if err := n.remote.ChangeDir(week); err != nil {
		return nil, &Error{Kind: KindNavigation, Op: "cwd", Week: week, Path: week, Err: err}
	}
	return func() error { return n.leave(week) }, nil
}

// leave goes back to the parent directory, falling back to the recorded root
func (n *Navigator) leave(week string) error {
	err := n.remote.ChangeDirToParent()
	if err == nil {
		return nil
	}
	if n.root == "" {
		return &Error{Kind: KindNavigation, Op: "cdup", Week: week, Err: err}
	}

	log.Warnf("Failed to leave week %s (%v), returning to %s", week, err, n.root)
	if rootErr := n.remote.ChangeDir(n.root); rootErr != nil {
		return &Error{Kind: KindNavigation, Op: "cwd", Week: week, Path: n.root, Err: rootErr}
	}
	return nil
}
