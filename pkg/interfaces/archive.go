package interfaces

import "io"

// ArchiveSession is an open, authenticated session with the remote archive
type ArchiveSession interface {
	RemoteNavigator
	RemoteLister
	RemoteRetriever
	io.Closer
}

// RemoteNavigator moves the session's remote working directory
type RemoteNavigator interface {
	// ChangeDir enters path, relative to the current directory unless absolute
	ChangeDir(path string) error

	// ChangeDirToParent goes one level up
	ChangeDirToParent() error

	// CurrentDir returns the absolute remote working directory
	CurrentDir() (string, error)
}

// RemoteLister lists entry names of a remote directory
type RemoteLister interface {
	// NameList returns the plain names in path ("" for the current directory),
	// in the order the server sent them
	NameList(path string) ([]string, error)
}

// RemoteRetriever streams a remote file in binary mode
type RemoteRetriever interface {
	// Retrieve opens name in the current directory. Closing the reader
	// completes the transfer and reports whether the server acknowledged it.
	Retrieve(name string) (io.ReadCloser, error)
}

// SessionAborter drops a session without the protocol goodbye. Abort must be
// safe to call from a goroutine other than the one using the session.
type SessionAborter interface {
	Abort() error
}
