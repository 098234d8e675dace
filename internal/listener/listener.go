// Package listener binds the syslog sockets and feeds parsed messages to a
// Handler. The wire grammar itself is delegated to go-syslog.
package listener

import (
	"fmt"
	"sync"
	"time"

	syslog "gopkg.in/mcuadros/go-syslog.v2"
	"gopkg.in/mcuadros/go-syslog.v2/format"

	"github.com/telhawk-systems/syslog-source/internal/logging"
	"github.com/telhawk-systems/syslog-source/internal/translator"
)

// Handler receives one callback per parsed message plus transport errors.
// Implementations must be safe for concurrent invocation and must return
// normally; the listener takes no corrective action on their behalf.
type Handler interface {
	Event(remoteAddr string, ev translator.RawEvent)
	Error(remoteAddr string, err error)
}

// Config holds the listener's socket and format settings.
type Config struct {
	// UDPAddress binds a UDP socket when non-empty, e.g. "0.0.0.0:514".
	UDPAddress string

	// TCPAddress binds a TCP socket when non-empty.
	TCPAddress string

	// Format selects the wire grammar: "rfc3164", "rfc5424", "rfc6587" or
	// "auto".
	Format string
}

// Listener wraps a go-syslog server and fans parsed messages into the
// handler from a single goroutine per listener.
type Listener struct {
	cfg     Config
	handler Handler
	logger  *logging.Logger

	server  *syslog.Server
	channel syslog.LogPartsChannel
	wg      sync.WaitGroup
}

// New creates a listener. At least one of UDPAddress/TCPAddress must be set.
func New(cfg Config, h Handler, logger *logging.Logger) (*Listener, error) {
	if cfg.UDPAddress == "" && cfg.TCPAddress == "" {
		return nil, fmt.Errorf("listener: no UDP or TCP address configured")
	}
	if _, err := parseFormat(cfg.Format); err != nil {
		return nil, err
	}
	return &Listener{
		cfg:     cfg,
		handler: h,
		logger:  logger.With(logging.Component("listener")),
	}, nil
}

// Start binds the configured sockets and begins delivering events.
func (l *Listener) Start() error {
	f, err := parseFormat(l.cfg.Format)
	if err != nil {
		return err
	}

	l.channel = make(syslog.LogPartsChannel, 256)
	l.server = syslog.NewServer()
	l.server.SetFormat(f)
	l.server.SetHandler(syslog.NewChannelHandler(l.channel))

	if l.cfg.UDPAddress != "" {
		if err := l.server.ListenUDP(l.cfg.UDPAddress); err != nil {
			return fmt.Errorf("listener: bind udp %s: %w", l.cfg.UDPAddress, err)
		}
		l.logger.Info("listening", logging.Protocol("udp"), logging.Address(l.cfg.UDPAddress))
	}
	if l.cfg.TCPAddress != "" {
		if err := l.server.ListenTCP(l.cfg.TCPAddress); err != nil {
			return fmt.Errorf("listener: bind tcp %s: %w", l.cfg.TCPAddress, err)
		}
		l.logger.Info("listening", logging.Protocol("tcp"), logging.Address(l.cfg.TCPAddress))
	}

	if err := l.server.Boot(); err != nil {
		return fmt.Errorf("listener: boot: %w", err)
	}

	l.wg.Add(1)
	go l.fanIn()
	return nil
}

// Stop shuts the sockets down and waits for in-flight deliveries to drain.
func (l *Listener) Stop() error {
	if l.server == nil {
		return nil
	}
	if err := l.server.Kill(); err != nil {
		return fmt.Errorf("listener: kill: %w", err)
	}
	l.server.Wait()
	close(l.channel)
	l.wg.Wait()
	l.logger.Info("listener stopped")
	return nil
}

func (l *Listener) fanIn() {
	defer l.wg.Done()
	for parts := range l.channel {
		addr, ev := rawEvent(parts)
		if addr == "" {
			l.handler.Error("", fmt.Errorf("listener: message without client address"))
			continue
		}
		l.handler.Event(addr, ev)
	}
}

// rawEvent converts a go-syslog LogParts map into a RawEvent plus the
// sender's socket address. RFC 3164 carries the text under "content",
// RFC 5424 under "message".
func rawEvent(parts format.LogParts) (string, translator.RawEvent) {
	var ev translator.RawEvent

	addr, _ := parts["client"].(string)

	if ts, ok := parts["timestamp"].(time.Time); ok && !ts.IsZero() {
		t := ts
		ev.Timestamp = &t
	}
	if host, ok := parts["hostname"].(string); ok {
		ev.Host = host
	}
	if fac, ok := parts["facility"].(int); ok {
		f := int32(fac)
		ev.Facility = &f
	}
	if sev, ok := parts["severity"].(int); ok {
		s := int32(sev)
		ev.Level = &s
	}
	if msg, ok := parts["content"].(string); ok {
		m := msg
		ev.Message = &m
	} else if msg, ok := parts["message"].(string); ok {
		m := msg
		ev.Message = &m
	}

	// go-syslog decodes everything as UTF-8.
	ev.Charset = "UTF-8"

	return addr, ev
}

func parseFormat(name string) (format.Format, error) {
	switch name {
	case "rfc3164":
		return syslog.RFC3164, nil
	case "rfc5424":
		return syslog.RFC5424, nil
	case "rfc6587":
		return syslog.RFC6587, nil
	case "auto", "":
		return syslog.Automatic, nil
	default:
		return nil, fmt.Errorf("listener: unknown syslog format %q", name)
	}
}
