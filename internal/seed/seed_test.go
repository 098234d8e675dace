package seed

import (
	"net"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rfc3164Line = regexp.MustCompile(`^<(\d{1,3})>([A-Z][a-z]{2} [ \d]\d \d{2}:\d{2}:\d{2}) (\S+) (\S+)\[(\d+)\]: (.+)$`)

func TestMessageFormat(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)

	for i := 0; i < 50; i++ {
		line := Message(now)
		m := rfc3164Line.FindStringSubmatch(line)
		require.NotNil(t, m, "line %q is not RFC 3164 shaped", line)

		pri, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		assert.LessOrEqual(t, pri, 23*8+7)
		assert.Equal(t, "Jun  1 12:30:45", m[2])
	}
}

func TestRunValidation(t *testing.T) {
	assert.Error(t, Run(Config{Count: 1}), "missing target")
	assert.Error(t, Run(Config{Target: "127.0.0.1:514", Count: 0}), "zero count")
}

func TestRunSendsDatagrams(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	const count = 3
	done := make(chan error, 1)
	go func() {
		done <- Run(Config{Target: pc.LocalAddr().String(), Count: count})
	}()

	buf := make([]byte, 2048)
	for i := 0; i < count; i++ {
		require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
		n, _, err := pc.ReadFrom(buf)
		require.NoError(t, err)
		assert.Regexp(t, rfc3164Line, string(buf[:n]))
	}

	require.NoError(t, <-done)
}
