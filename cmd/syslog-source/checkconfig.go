package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/syslog-source/internal/config"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate the configuration and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		fmt.Printf("config OK: topic=%s udp=%s tcp=%s format=%s reverse_dns=%t\n",
			cfg.Topic,
			cfg.Listener.UDPAddress,
			cfg.Listener.TCPAddress,
			cfg.Listener.Format,
			cfg.Resolver.ReverseDNS,
		)
		return nil
	},
}
