package storage

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/hirochachacha/go-smb2"
)

// NTSTATUS codes the server answers lookups on missing paths with.
const (
	statusObjectNameNotFound = 0xC0000034
	statusObjectPathNotFound = 0xC000003A
)

// SMB reaches the share natively over SMB2/3. It holds one session per
// server and one mounted share per server/share pair for the lifetime of
// the accessor.
type SMB struct {
	username    string
	password    string
	workgroup   string
	dialTimeout time.Duration

	mu       sync.Mutex
	conns    map[string]net.Conn
	sessions map[string]*smb2.Session
	shares   map[string]*smb2.Share
}

// NewSMB builds a native accessor. Sessions are dialed lazily as paths on
// new servers show up.
func NewSMB(username, password, workgroup string, dialTimeout time.Duration) *SMB {
	return &SMB{
		username:    username,
		password:    password,
		workgroup:   workgroup,
		dialTimeout: dialTimeout,
		conns:       make(map[string]net.Conn),
		sessions:    make(map[string]*smb2.Session),
		shares:      make(map[string]*smb2.Share),
	}
}

func (s *SMB) List(path string) ([]string, error) {
	share, wire, err := s.locate(path)
	if err != nil {
		return nil, &OpError{Op: "list", Path: path, Err: err}
	}
	infos, err := share.ReadDir(wire)
	if err != nil {
		return nil, &OpError{Op: "list", Path: path, Err: err}
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names, nil
}

func (s *SMB) Stat(path string) (FileInfo, error) {
	share, wire, err := s.locate(path)
	if err != nil {
		return FileInfo{}, &OpError{Op: "stat", Path: path, Err: err}
	}
	info, err := share.Stat(wire)
	if isNotExist(err) {
		return FileInfo{}, nil
	}
	if err != nil {
		return FileInfo{}, &OpError{Op: "stat", Path: path, Err: err}
	}
	return FileInfo{Exists: true, IsDir: info.IsDir(), Size: info.Size()}, nil
}

func (s *SMB) Delete(path string) error {
	share, wire, err := s.locate(path)
	if err != nil {
		return &OpError{Op: "delete", Path: path, Err: err}
	}
	if err := share.Remove(wire); err != nil {
		return &OpError{Op: "delete", Path: path, Err: err}
	}
	return nil
}

// Close unmounts every share and logs every session off.
func (s *SMB) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var first error
	for key, share := range s.shares {
		if err := share.Umount(); err != nil && first == nil {
			first = err
		}
		delete(s.shares, key)
	}
	for server, sess := range s.sessions {
		if err := sess.Logoff(); err != nil && first == nil {
			first = err
		}
		delete(s.sessions, server)
	}
	for server, conn := range s.conns {
		conn.Close()
		delete(s.conns, server)
	}
	return first
}

// locate resolves a library path to its mounted share and wire path,
// dialing and mounting on first sight of a server or share.
func (s *SMB) locate(path string) (*smb2.Share, string, error) {
	server, shareName, rel, err := splitPath(path)
	if err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := server + "/" + shareName
	if share, ok := s.shares[key]; ok {
		return share, toWire(rel), nil
	}

	sess, err := s.session(server)
	if err != nil {
		return nil, "", err
	}
	share, err := sess.Mount(shareName)
	if err != nil {
		return nil, "", fmt.Errorf("mounting //%s/%s: %w", server, shareName, err)
	}
	s.shares[key] = share
	return share, toWire(rel), nil
}

// session returns the cached session for a server, dialing on first use.
// The caller holds mu.
func (s *SMB) session(server string) (*smb2.Session, error) {
	if sess, ok := s.sessions[server]; ok {
		return sess, nil
	}

	addr := server
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "445")
	}
	conn, err := net.DialTimeout("tcp", addr, s.dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}

	d := &smb2.Dialer{
		Initiator: &smb2.NTLMInitiator{
			User:     s.username,
			Password: s.password,
			Domain:   s.workgroup,
		},
	}
	sess, err := d.Dial(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("logging in to %s: %w", server, err)
	}

	s.conns[server] = conn
	s.sessions[server] = sess
	return sess, nil
}

// splitPath breaks an smb:// URL into server, share and the path below
// the share.
func splitPath(path string) (server, share, rel string, err error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", "", "", err
	}
	if u.Scheme != "smb" {
		return "", "", "", fmt.Errorf("not an smb path: %s", path)
	}
	if u.Host == "" {
		return "", "", "", fmt.Errorf("missing server in %s", path)
	}
	share, rel, _ = strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	if share == "" {
		return "", "", "", fmt.Errorf("missing share in %s", path)
	}
	return u.Host, share, rel, nil
}

// toWire converts a share-relative path to the protocol's separator.
func toWire(rel string) string {
	return strings.ReplaceAll(rel, "/", `\`)
}

func isNotExist(err error) bool {
	if err == nil {
		return false
	}
	if os.IsNotExist(err) {
		return true
	}
	var re *smb2.ResponseError
	if errors.As(err, &re) {
		return re.Code == statusObjectNameNotFound || re.Code == statusObjectPathNotFound
	}
	return false
}
