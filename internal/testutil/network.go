// Package testutil 여러 패키지의 테스트에서 공통으로 사용하는 헬퍼입니다.
package testutil

import (
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// FreePort 테스트 서버가 사용할 빈 포트를 반환합니다.
func FreePort(t testing.TB) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port
}

// WaitForServer port에서 연결을 받을 때까지 기다립니다.
func WaitForServer(t testing.TB, port int, timeout time.Duration) {
	t.Helper()

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, timeout, 10*time.Millisecond, "서버가 %s에서 시작되지 않았습니다", addr)
}
