package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"haptix/host/config"
	"haptix/host/device"
	"haptix/host/link"
	"haptix/protocol"
)

var (
	configPath string
	cfg        *config.Config

	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool
)

var rootCmd = &cobra.Command{
	Use:   "hapticctl",
	Short: "haptix actuator control and telemetry tool",
	Long: `hapticctl - send actuator commands to a haptix board and decode its telemetry.

Connection modes:
  Serial:    --port /dev/ttyACM0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]

Settings are read from --config (YAML); flags override the file.
For WebSocket authentication, the password is read from the HAPTIX_PASSWORD
environment variable, or prompted interactively if not set.`,
	Version:           protocol.Version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "haptix.yaml", "Configuration file")

	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 0, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Serial.Port = portName
	}
	if flags.Changed("baud") {
		cfg.Serial.Baud = baudRate
	}
	if flags.Changed("url") {
		cfg.WebSocket.URL = wsURL
	}
	if flags.Changed("username") {
		cfg.WebSocket.Username = wsUsername
	}
	if flags.Changed("no-ssl-verify") {
		cfg.WebSocket.NoSSLVerify = wsNoSSLVerify
	}
	return nil
}

// openConnection opens the configured endpoint. A WebSocket URL wins
// over the serial port.
func openConnection() (link.Connection, string, error) {
	opts := link.Options{
		URL:         cfg.WebSocket.URL,
		Username:    cfg.WebSocket.Username,
		NoSSLVerify: cfg.WebSocket.NoSSLVerify,
		Port:        cfg.Serial.Port,
		Baud:        cfg.Serial.Baud,
		ReadTimeout: cfg.Serial.ReadTimeout,
	}
	conn, desc, err := link.Open(opts)
	if err != nil {
		return nil, "", fmt.Errorf("failed to connect: %w", err)
	}
	return conn, desc, nil
}

// openClient opens the connection and wraps it in a device client
func openClient() (*device.Client, link.Connection, string, error) {
	conn, desc, err := openConnection()
	if err != nil {
		return nil, nil, "", err
	}
	return device.NewClient(conn, cfg.Telemetry.CommandGap), conn, desc, nil
}
