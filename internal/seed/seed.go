// Package seed generates fake syslog traffic for a running listener,
// useful for development and load checks.
package seed

import (
	"fmt"
	"net"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// Config controls a seeding run.
type Config struct {
	// Target is the listener's UDP address, e.g. "127.0.0.1:514".
	Target string

	// Count is the number of messages to send.
	Count int

	// Interval is the pause between messages; zero sends as fast as the
	// socket allows.
	Interval time.Duration
}

// Run sends Count fake RFC 3164 messages to the target listener.
func Run(cfg Config) error {
	if cfg.Target == "" {
		return fmt.Errorf("seed: target address is required")
	}
	if cfg.Count <= 0 {
		return fmt.Errorf("seed: count must be positive")
	}

	conn, err := net.Dial("udp", cfg.Target)
	if err != nil {
		return fmt.Errorf("seed: dial %s: %w", cfg.Target, err)
	}
	defer conn.Close()

	for i := 0; i < cfg.Count; i++ {
		line := Message(time.Now())
		if _, err := conn.Write([]byte(line)); err != nil {
			return fmt.Errorf("seed: send message %d: %w", i+1, err)
		}
		if cfg.Interval > 0 {
			time.Sleep(cfg.Interval)
		}
	}
	return nil
}

// Message builds one fake RFC 3164 line: "<PRI>TIMESTAMP HOST TAG[PID]: MSG".
func Message(now time.Time) string {
	facility := gofakeit.Number(0, 23)
	severity := gofakeit.Number(0, 7)
	pri := facility*8 + severity

	host := gofakeit.Gamertag()
	tag := gofakeit.RandomString([]string{"sshd", "cron", "kernel", "nginx", "systemd", "postfix"})
	pid := gofakeit.Number(100, 65535)
	msg := gofakeit.HackerPhrase()

	return fmt.Sprintf("<%d>%s %s %s[%d]: %s",
		pri, now.Format(time.Stamp), host, tag, pid, msg)
}
