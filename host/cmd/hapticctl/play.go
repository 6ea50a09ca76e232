package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <channel> <waveform> <period-ms>",
	Short: "Play a waveform on a channel, repeating every period",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		channel, err := parseUint(args[0], 8, "channel")
		if err != nil {
			return err
		}
		waveform, err := parseUint(args[1], 8, "waveform")
		if err != nil {
			return err
		}
		period, err := parseUint(args[2], 16, "period")
		if err != nil {
			return err
		}

		client, conn, desc, err := openClient()
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := client.Play(uint8(channel), uint8(waveform), uint16(period)); err != nil {
			return err
		}
		fmt.Printf("%s: channel %d waveform %d every %d ms\n", desc, channel, waveform, period)
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop <channel>",
	Short: "Stop a channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		channel, err := parseUint(args[0], 8, "channel")
		if err != nil {
			return err
		}

		client, conn, desc, err := openClient()
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := client.Stop(uint8(channel)); err != nil {
			return err
		}
		fmt.Printf("%s: channel %d stopped\n", desc, channel)
		return nil
	},
}

func parseUint(s string, bits int, name string) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return v, nil
}

func init() {
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(stopCmd)
}
