package ftps

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/textproto"
	"path"
	"strconv"
	"sync"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/monshunter/ephemfetch/pkg/log"
)

// ErrNotConnected is returned by operations on a client without a live connection
var ErrNotConnected = errors.New("ftps: not connected")

// Client wraps an explicit-TLS FTP connection (FTPES). The control channel is
// upgraded with AUTH TLS right after the greeting and the data channel is
// protected with PBSZ 0 / PROT P during login, so no transfer ever runs in
// clear text.
type Client struct {
	Host               string
	Port               int
	User               string
	Password           string
	Timeout            time.Duration
	InsecureSkipVerify bool
	DisableEPSV        bool
	// Debug receives the raw protocol trace when set
	Debug io.Writer

	conn      *ftp.ServerConn
	closeOnce sync.Once
	closeErr  error

	// raw is the control connection under TLS, kept so Abort can drop it
	// from another goroutine
	mu  sync.Mutex
	raw net.Conn
}

// NewClient creates a client for host:port. Connect must be called before use.
func NewClient(host string, port int, user, password string) *Client {
	return &Client{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		Timeout:  30 * time.Second,
	}
}

// Address returns host:port
func (c *Client) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *Client) tlsConfig() *tls.Config {
	return &tls.Config{
		ServerName:         c.Host,
		InsecureSkipVerify: c.InsecureSkipVerify,
		MinVersion:         tls.VersionTLS12,
		// the data channel must resume the control channel's session on
		// servers that enforce TLS session reuse
		ClientSessionCache: tls.NewLRUClientSessionCache(0),
	}
}

// Connect dials the server, negotiates TLS and logs in. It does not retry.
// Cancelling ctx while Connect runs drops the connection.
func (c *Client) Connect(ctx context.Context) error {
	addr := c.Address()
	log.Debugf("Dialing %s with explicit TLS", addr)

	dialer := net.Dialer{Timeout: c.Timeout}
	raw, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	c.mu.Lock()
	c.raw = raw
	c.mu.Unlock()
	stop := context.AfterFunc(ctx, func() { raw.Close() })
	defer stop()

	opts := []ftp.DialOption{
		ftp.DialWithNetConn(raw),
		ftp.DialWithTimeout(c.Timeout),
		ftp.DialWithExplicitTLS(c.tlsConfig()),
		ftp.DialWithDisabledEPSV(c.DisableEPSV),
	}
	if c.Debug != nil {
		opts = append(opts, ftp.DialWithDebugOutput(c.Debug))
	}

	conn, err := ftp.Dial(addr, opts...)
	if err != nil {
		raw.Close()
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	if err := conn.Login(c.User, c.Password); err != nil {
		conn.Quit()
		return fmt.Errorf("failed to log in to %s as %s: %w", addr, c.User, err)
	}

	c.conn = conn
	log.Debugf("Logged in to %s as %s", addr, c.User)
	return nil
}

// ChangeDir changes the remote working directory
func (c *Client) ChangeDir(dir string) error {
	if c.conn == nil {
		return ErrNotConnected
	}
	return c.conn.ChangeDir(dir)
}

// ChangeDirToParent goes to the parent of the remote working directory
func (c *Client) ChangeDirToParent() error {
	if c.conn == nil {
		return ErrNotConnected
	}
	return c.conn.ChangeDirToParent()
}

// CurrentDir returns the remote working directory
func (c *Client) CurrentDir() (string, error) {
	if c.conn == nil {
		return "", ErrNotConnected
	}
	return c.conn.CurrentDir()
}

// NameList issues NLST. Some servers prefix names with the listed path, so
// every entry is reduced to its base name.
func (c *Client) NameList(dir string) ([]string, error) {
	if c.conn == nil {
		return nil, ErrNotConnected
	}
	entries, err := c.conn.NameList(dir)
	if err != nil {
		return nil, err
	}
	return baseNames(entries), nil
}

func baseNames(entries []string) []string {
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := path.Base(entry)
		if name == "." || name == ".." || name == "/" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Retrieve starts a binary RETR of name
func (c *Client) Retrieve(name string) (io.ReadCloser, error) {
	if c.conn == nil {
		return nil, ErrNotConnected
	}
	resp, err := c.conn.Retr(name)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Close sends QUIT and closes the connection. Only the first call talks to
// the server; later calls return the same result.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		if c.conn == nil {
			return
		}
		c.closeErr = c.conn.Quit()
		c.conn = nil
	})
	return c.closeErr
}

// Abort drops the control connection without QUIT. Unlike the other methods
// it may be called while another goroutine is blocked in a command, which
// then fails. Close should still be called afterwards.
func (c *Client) Abort() error {
	c.mu.Lock()
	raw := c.raw
	c.mu.Unlock()
	if raw == nil {
		return nil
	}
	if err := raw.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// IsNotFound reports whether err is a permanent "file unavailable" reply (550)
func IsNotFound(err error) bool {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return protoErr.Code == ftp.StatusFileUnavailable
	}
	return false
}
