package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"haptix/host/device"
	"haptix/protocol"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive command prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, conn, desc, err := openClient()
		if err != nil {
			return err
		}
		defer conn.Close()

		fmt.Println("hapticctl shell")
		fmt.Println("===============")
		fmt.Printf("Connected: %s\n\n", desc)
		fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				return scanner.Err()
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			if done := runShellLine(client, line); done {
				fmt.Println("Goodbye!")
				return nil
			}
		}
	},
}

// runShellLine executes one shell line and reports whether to exit
func runShellLine(client *device.Client, line string) bool {
	parts := strings.Fields(line)

	switch parts[0] {
	case "quit", "exit", "q":
		return true

	case "help", "?":
		printShellHelp()

	case "play":
		if len(parts) != 4 {
			fmt.Println("Usage: play <channel> <waveform> <period-ms>")
			return false
		}
		channel, err1 := parseUint(parts[1], 8, "channel")
		waveform, err2 := parseUint(parts[2], 8, "waveform")
		period, err3 := parseUint(parts[3], 16, "period")
		if err := firstError(err1, err2, err3); err != nil {
			fmt.Printf("Error: %v\n", err)
			return false
		}
		if err := client.Play(uint8(channel), uint8(waveform), uint16(period)); err != nil {
			fmt.Printf("Error: %v\n", err)
		}

	case "stop":
		if len(parts) != 2 {
			fmt.Println("Usage: stop <channel|all>")
			return false
		}
		if parts[1] == "all" {
			for ch := uint8(0); ch < protocol.NumChannels; ch++ {
				if err := client.Stop(ch); err != nil {
					fmt.Printf("Error: %v\n", err)
				}
			}
			return false
		}
		channel, err := parseUint(parts[1], 8, "channel")
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return false
		}
		if err := client.Stop(uint8(channel)); err != nil {
			fmt.Printf("Error: %v\n", err)
		}

	default:
		fmt.Printf("Unknown command: %s (type 'help' for available commands)\n", parts[0])
	}
	return false
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func printShellHelp() {
	fmt.Println("Available commands:")
	fmt.Println("  play <channel> <waveform> <period-ms>  - Repeat a waveform on a channel")
	fmt.Println("  stop <channel|all>                     - Stop one or every channel")
	fmt.Println("  help                                   - Show this help")
	fmt.Println("  quit                                   - Exit")
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
