package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"haptix/host/device"
	"haptix/host/monitor"
	"haptix/protocol"
)

var (
	monitorTUI      bool
	monitorPlain    bool
	monitorInterval int
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Decode and display telemetry frames",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, conn, desc, err := openClient()
		if err != nil {
			return err
		}
		defer conn.Close()

		scale := monitor.ScaleFromConfig(cfg.Telemetry)

		if monitorTUI {
			return runTUI(client, desc, scale)
		}
		return runLines(client, desc, scale)
	},
}

func runLines(client *device.Client, desc string, scale monitor.Scale) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fm := &monitor.Formatter{
		Scale:          scale,
		ReferenceLabel: cfg.Telemetry.ReferenceLabel,
		Plain:          monitorPlain,
	}
	stats := monitor.NewStatistics()

	fmt.Printf("hapticctl monitor - %s\n", desc)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	var last time.Time
	err := client.Telemetry(ctx, func(f protocol.TelemetryFrame) {
		stats.Update(scale.Decode(&f))
		stats.UpdateStream(client.StreamStats())
		fmt.Println(fm.FormatFrame(&f))

		if monitorInterval > 0 && time.Since(last) >= time.Duration(monitorInterval)*time.Second {
			if !last.IsZero() {
				fmt.Println(fm.FormatStats(stats))
			}
			last = time.Now()
		}
	})

	stats.UpdateStream(client.StreamStats())
	fmt.Println()
	fmt.Print(stats.String())

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runTUI(client *device.Client, desc string, scale monitor.Scale) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(monitor.NewModel(desc, scale, cfg.Telemetry.ReferenceLabel, client))

	go func() {
		err := client.Telemetry(ctx, func(f protocol.TelemetryFrame) {
			p.Send(monitor.FrameMsg{Frame: f, Stream: client.StreamStats()})
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			p.Send(monitor.ErrMsg{Err: err})
		}
	}()

	_, err := p.Run()
	return err
}

func init() {
	monitorCmd.Flags().BoolVarP(&monitorTUI, "tui", "t", false, "Interactive terminal UI")
	monitorCmd.Flags().BoolVar(&monitorPlain, "plain", false, "Unstyled line output")
	monitorCmd.Flags().IntVar(&monitorInterval, "stats-interval", 10, "Print statistics every N seconds (0 disables)")
	rootCmd.AddCommand(monitorCmd)
}
