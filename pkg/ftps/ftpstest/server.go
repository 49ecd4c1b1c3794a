// Package ftpstest provides an explicit-TLS FTP control channel for tests.
// It answers the commands a client needs to log in and records every command
// in the order it was received. Data connections are never offered.
package ftpstest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"time"
)

// connTimeout bounds every test connection so a stuck client cannot hang the
// test binary
const connTimeout = 10 * time.Second

var defaultReplies = map[string]string{
	"AUTH": "234 AUTH TLS successful",
	"USER": "331 Password required",
	"PASS": "230 Logged in",
	"TYPE": "200 Type set to I",
	"PBSZ": "200 PBSZ=0",
	"PROT": "200 Protection level set to P",
	"PWD":  `257 "/" is the current directory`,
	"CWD":  "250 Directory changed",
	"CDUP": "250 Directory changed",
	"QUIT": "221 Goodbye",
}

// Server accepts FTP control connections on a loopback port
type Server struct {
	listener  net.Listener
	tlsConfig *tls.Config
	replies   map[string]string

	wg       sync.WaitGroup
	mu       sync.Mutex
	closed   bool
	conns    []net.Conn
	commands []string
}

// NewServer starts a server. replies overrides the reply line for a command
// verb, e.g. {"PASS": "530 Login incorrect"}. An empty reply leaves the
// command unanswered until the client drops the connection. Unknown verbs
// get 502.
func NewServer(replies map[string]string) (*Server, error) {
	cert, err := selfSignedCert()
	if err != nil {
		return nil, err
	}
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	s := &Server{
		listener:  l,
		tlsConfig: &tls.Config{Certificates: []tls.Certificate{cert}},
		replies:   make(map[string]string, len(defaultReplies)),
	}
	for verb, reply := range defaultReplies {
		s.replies[verb] = reply
	}
	for verb, reply := range replies {
		s.replies[strings.ToUpper(verb)] = reply
	}

	go s.acceptLoop()
	return s, nil
}

// Port returns the listening port
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Commands returns the commands received so far
func (s *Server) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

// Wait blocks until every accepted connection has been closed by the client
// and returns the commands received
func (s *Server) Wait() []string {
	s.wg.Wait()
	return s.Commands()
}

// Close stops accepting and drops open connections
func (s *Server) Close() {
	s.mu.Lock()
	s.closed = true
	for _, conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()
	s.listener.Close()
	s.wg.Wait()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			conn.Close()
			return
		}
		s.conns = append(s.conns, conn)
		s.wg.Add(1)
		s.mu.Unlock()
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(connTimeout))

	tp := textproto.NewConn(conn)
	if err := tp.PrintfLine("220 ftpstest ready"); err != nil {
		return
	}
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.commands = append(s.commands, line)
		s.mu.Unlock()

		verb := line
		if i := strings.IndexByte(line, ' '); i >= 0 {
			verb = line[:i]
		}
		verb = strings.ToUpper(verb)
		reply, ok := s.replies[verb]
		if !ok {
			reply = "502 Command not implemented"
		}
		if reply == "" {
			continue
		}
		if err := tp.PrintfLine("%s", reply); err != nil {
			return
		}

		switch {
		case verb == "QUIT":
			return
		case verb == "AUTH" && strings.HasPrefix(reply, "234"):
			tlsConn := tls.Server(conn, s.tlsConfig)
			if err := tlsConn.Handshake(); err != nil {
				return
			}
			tp = textproto.NewConn(tlsConn)
		}
	}
}

func selfSignedCert() (tls.Certificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to generate key: %w", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "ftpstest"},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1)},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to create certificate: %w", err)
	}
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}, nil
}
