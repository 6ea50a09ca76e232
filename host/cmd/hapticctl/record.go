package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"haptix/host/monitor"
	"haptix/protocol"
)

var recordCount int

var recordCmd = &cobra.Command{
	Use:   "record <file.cbor>",
	Short: "Record telemetry frames to a CBOR file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", args[0], err)
		}
		defer out.Close()

		rec, err := monitor.NewRecorder(out)
		if err != nil {
			return err
		}

		client, conn, desc, err := openClient()
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		fmt.Printf("Recording %s to %s\n", desc, args[0])

		var writeErr error
		err = client.Telemetry(ctx, func(f protocol.TelemetryFrame) {
			if writeErr != nil {
				return
			}
			if writeErr = rec.Write(&f, time.Now()); writeErr != nil {
				cancel()
				return
			}
			if recordCount > 0 && rec.Count() >= recordCount {
				cancel()
			}
		})
		if writeErr != nil {
			return writeErr
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		st := client.StreamStats()
		fmt.Printf("%d frames recorded (%d checksum errors, %d bytes dropped)\n",
			rec.Count(), st.ChecksumErrors, st.DroppedBytes)
		return nil
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay <file.cbor>",
	Short: "Print frames from a CBOR recording",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer in.Close()

		fm := &monitor.Formatter{
			Scale:          monitor.ScaleFromConfig(cfg.Telemetry),
			ReferenceLabel: cfg.Telemetry.ReferenceLabel,
			Plain:          true,
		}
		return monitor.ReadRecords(in, func(r monitor.Record) error {
			f := r.Frame()
			fmt.Printf("%s %s\n", r.Received.Format("15:04:05.000"), fm.FormatFrame(&f))
			return nil
		})
	},
}

func init() {
	recordCmd.Flags().IntVarP(&recordCount, "count", "n", 0, "Stop after N frames (0 = until interrupted)")
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(replayCmd)
}
