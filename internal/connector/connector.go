// Package connector wires the listener, translator, queue and forwarder
// together and owns their lifecycle.
package connector

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/telhawk-systems/syslog-source/internal/config"
	"github.com/telhawk-systems/syslog-source/internal/forwarder"
	"github.com/telhawk-systems/syslog-source/internal/listener"
	"github.com/telhawk-systems/syslog-source/internal/logging"
	natsclient "github.com/telhawk-systems/syslog-source/internal/messaging/nats"
	"github.com/telhawk-systems/syslog-source/internal/queue"
	"github.com/telhawk-systems/syslog-source/internal/resolver"
	"github.com/telhawk-systems/syslog-source/internal/translator"
)

// TaskConfig describes one runnable task of this connector. The listener
// socket cannot be shared, so fan-out is always a single task regardless of
// the requested maximum.
type TaskConfig struct {
	ID         string `json:"id"`
	Topic      string `json:"topic"`
	UDPAddress string `json:"udp_address,omitempty"`
	TCPAddress string `json:"tcp_address,omitempty"`
	ReverseDNS bool   `json:"reverse_dns"`
}

// Connector owns the event-to-record pipeline: listener → translator →
// queue → forwarder → NATS.
type Connector struct {
	cfg    *config.Config
	logger *logging.Logger

	queue     *queue.Queue
	listener  *listener.Listener
	forwarder *forwarder.Forwarder
	nats      *natsclient.Client
	started   bool
}

// New creates a connector from validated configuration.
func New(cfg *config.Config, logger *logging.Logger) *Connector {
	return &Connector{
		cfg:    cfg,
		logger: logger.With(logging.Component("connector")),
	}
}

// Start validates the configuration and brings the pipeline up in
// dependency order: consumer side first, intake last, so no event ever
// arrives before the queue has a consumer.
func (c *Connector) Start(ctx context.Context) error {
	if c.started {
		return fmt.Errorf("connector: already started")
	}
	if err := c.cfg.Validate(); err != nil {
		return fmt.Errorf("connector: invalid config: %w", err)
	}

	c.queue = queue.New()

	var res resolver.Resolver
	if c.cfg.Resolver.ReverseDNS {
		res = resolver.NewDNS(c.cfg.Resolver.Timeout)
	}

	tr := translator.New(translator.Config{
		Topic:      c.cfg.Topic,
		ReverseDNS: c.cfg.Resolver.ReverseDNS,
	}, res, c.queue, c.logger)

	nc, err := natsclient.NewClient(natsclient.Config{
		URL:           c.cfg.NATS.URL,
		Name:          c.cfg.NATS.Name,
		MaxReconnects: c.cfg.NATS.MaxReconnects,
		ReconnectWait: c.cfg.NATS.ReconnectWait,
		Timeout:       c.cfg.NATS.ConnectTimeout,
	})
	if err != nil {
		return fmt.Errorf("connector: %w", err)
	}
	c.nats = nc

	c.forwarder = forwarder.New(forwarder.Config{
		BatchSize:     c.cfg.Queue.PollBatchSize,
		SubjectPrefix: c.cfg.NATS.SubjectPrefix,
	}, c.queue, nc, c.logger)
	c.forwarder.Start()

	l, err := listener.New(listener.Config{
		UDPAddress: c.cfg.Listener.UDPAddress,
		TCPAddress: c.cfg.Listener.TCPAddress,
		Format:     c.cfg.Listener.Format,
	}, tr, c.logger)
	if err != nil {
		c.forwarder.Stop()
		c.nats.Close()
		return err
	}
	if err := l.Start(); err != nil {
		c.forwarder.Stop()
		c.nats.Close()
		return err
	}
	c.listener = l

	c.started = true
	c.logger.Info("connector started",
		logging.Topic(c.cfg.Topic),
		"reverse_dns", c.cfg.Resolver.ReverseDNS,
	)
	return nil
}

// Stop tears the pipeline down in reverse order: stop intake, close the
// queue, let the forwarder drain what remains, then release the NATS
// connection.
func (c *Connector) Stop() error {
	if !c.started {
		return nil
	}
	c.started = false

	var firstErr error
	if err := c.listener.Stop(); err != nil {
		firstErr = err
	}
	c.queue.Close()
	c.forwarder.Stop()
	if err := c.nats.Drain(); err != nil && firstErr == nil {
		firstErr = err
	}

	c.logger.Info("connector stopped", logging.QueueDepth(c.queue.Len()))
	return firstErr
}

// Queue exposes the hand-off queue for external poll consumers.
func (c *Connector) Queue() *queue.Queue { return c.queue }

// TaskConfigs returns the task fan-out for up to maxTasks tasks. A syslog
// listener binds one socket, so this is always a single task.
func (c *Connector) TaskConfigs(maxTasks int) []TaskConfig {
	if maxTasks < 1 {
		return nil
	}
	return []TaskConfig{{
		ID:         uuid.New().String(),
		Topic:      c.cfg.Topic,
		UDPAddress: c.cfg.Listener.UDPAddress,
		TCPAddress: c.cfg.Listener.TCPAddress,
		ReverseDNS: c.cfg.Resolver.ReverseDNS,
	}}
}
