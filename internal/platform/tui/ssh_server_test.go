package tui

import (
	"net"
	"testing"

	"github.com/charmbracelet/ssh"
)

// stubSession implements only what the logging middleware reads.
type stubSession struct {
	ssh.Session
}

func (stubSession) User() string { return "tester" }

func (stubSession) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 2222}
}

func TestLoggingMiddlewareCountsActiveSessions(t *testing.T) {
	s := &SSHServer{logger: discardLogger()}

	var during int
	handler := s.loggingMiddleware(func(ssh.Session) {
		during = s.Active()
	})
	handler(stubSession{})

	if during != 1 {
		t.Errorf("Active() during session = %d, expected 1", during)
	}
	if s.Active() != 0 {
		t.Errorf("Active() after session = %d, expected 0", s.Active())
	}
}
