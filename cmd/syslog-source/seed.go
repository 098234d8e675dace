package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/syslog-source/internal/seed"
)

var (
	seedTarget   string
	seedCount    int
	seedInterval time.Duration
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Send fake syslog traffic to a listener",
	Long:  "Generate fake RFC 3164 messages and send them over UDP, for development and load checks",
	Example: `  syslog-source seed --target 127.0.0.1:514 --count 100
  syslog-source seed --target 127.0.0.1:5514 --count 1000 --interval 10ms`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := seed.Run(seed.Config{
			Target:   seedTarget,
			Count:    seedCount,
			Interval: seedInterval,
		}); err != nil {
			return err
		}
		fmt.Printf("sent %d messages to %s\n", seedCount, seedTarget)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedTarget, "target", "127.0.0.1:514", "listener UDP address")
	seedCmd.Flags().IntVar(&seedCount, "count", 100, "number of messages to send")
	seedCmd.Flags().DurationVar(&seedInterval, "interval", 0, "pause between messages")
}
