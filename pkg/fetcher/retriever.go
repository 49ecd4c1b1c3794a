package fetcher

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/monshunter/ephemfetch/pkg/interfaces"
	"github.com/monshunter/ephemfetch/pkg/log"
	"github.com/monshunter/ephemfetch/pkg/utils"
)

// Retriever copies remote files of the current directory into a local directory
type Retriever struct {
	remote      interfaces.RemoteRetriever
	outputDir   string
	logInterval time.Duration
}

// NewRetriever creates a retriever writing into outputDir ("" means the
// working directory)
func NewRetriever(remote interfaces.RemoteRetriever, outputDir string) *Retriever {
	if outputDir == "" {
		outputDir = "."
	}
	return &Retriever{
		remote:      remote,
		outputDir:   outputDir,
		logInterval: 10 * time.Second,
	}
}

// LocalPath returns where name is written
func (r *Retriever) LocalPath(name string) string {
	return filepath.Join(r.outputDir, name)
}

// Retrieve transfers name into a same-named local file and returns the
// number of bytes written. The local file is created or truncated, and
// removed again if the transfer fails part way.
func (r *Retriever) Retrieve(name string) (int64, error) {
	if !isPlainName(name) {
		return 0, &Error{Kind: KindTransfer, Op: "retrieve", Path: name, Err: ErrUnsafeName}
	}
	destPath := r.LocalPath(name)

	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return 0, &Error{Kind: KindTransfer, Op: "write", Path: name,
			Err: fmt.Errorf("failed to create output directory %s: %w", r.outputDir, err)}
	}

	src, err := r.remote.Retrieve(name)
	if err != nil {
		return 0, &Error{Kind: KindTransfer, Op: "retrieve", Path: name, Err: err}
	}

	written, err := r.writeFile(destPath, src, name)
	if err != nil {
		return written, err
	}

	log.Debugf("Wrote %s (%s)", destPath, utils.FormatSize(written))
	return written, nil
}

// writeFile drains src into destPath. Both src and the local file are closed
// on every path. A file it opened is removed again on failure; an entry it
// could not open is left alone.
func (r *Retriever) writeFile(destPath string, src io.ReadCloser, name string) (written int64, err error) {
	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		src.Close()
		return 0, &Error{Kind: KindTransfer, Op: "write", Path: name,
			Err: fmt.Errorf("failed to create destination file %s: %w", destPath, err)}
	}

	defer func() {
		if err != nil {
			os.Remove(destPath)
		}
	}()

	written, copyErr := io.Copy(destFile, newProgressReader(src, name, r.logInterval))
	closeSrcErr := src.Close()
	closeDestErr := destFile.Close()

	switch {
	case copyErr != nil:
		return written, &Error{Kind: KindTransfer, Op: "retrieve", Path: name, Err: copyErr}
	case closeSrcErr != nil:
		return written, &Error{Kind: KindTransfer, Op: "retrieve", Path: name,
			Err: fmt.Errorf("transfer not acknowledged: %w", closeSrcErr)}
	case closeDestErr != nil:
		return written, &Error{Kind: KindTransfer, Op: "write", Path: name,
			Err: fmt.Errorf("failed to close destination file %s: %w", destPath, closeDestErr)}
	}
	return written, nil
}

func isPlainName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// progressReader logs the number of bytes read at most once per interval
type progressReader struct {
	reader      io.Reader
	name        string
	read        int64
	lastLogTime time.Time
	logInterval time.Duration
}

func newProgressReader(reader io.Reader, name string, interval time.Duration) *progressReader {
	return &progressReader{
		reader:      reader,
		name:        name,
		lastLogTime: time.Now(),
		logInterval: interval,
	}
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.read += int64(n)
		if now := time.Now(); now.Sub(pr.lastLogTime) >= pr.logInterval {
			log.ProgressInfof("Retrieving %s: %s so far", pr.name, utils.FormatSize(pr.read))
			pr.lastLogTime = now
		}
	}
	return n, err
}
