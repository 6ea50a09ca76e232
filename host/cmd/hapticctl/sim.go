package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"haptix/host/device"
	"haptix/host/link"
	"haptix/host/monitor"
	"haptix/sim"
)

var (
	simListen string
	simTUI    bool
	simUser   string
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the firmware against a simulated board",
	Long: `Run the firmware core against simulated actuators and analog front-ends.

Without --listen the simulated board is monitored directly, as "monitor"
would a real one. With --listen its serial stream is served as a WebSocket
bridge so other hapticctl instances can connect with --url.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		board := sim.NewDevice(sim.Config{
			ScanInterval: cfg.Sim.ScanInterval,
			Noise:        cfg.Sim.Noise,
			SupplyVolts:  cfg.Sim.SupplyVolts,
			Seed:         time.Now().UnixNano(),
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		board.Start(ctx)
		defer board.Close()

		// Unblocks readers of the board stream on interrupt
		go func() {
			<-ctx.Done()
			board.Port.Close()
		}()

		if cmd.Flags().Changed("listen") {
			cfg.Sim.Listen = simListen
			return serveBridge(ctx, board)
		}

		client := device.NewClient(board.Port, cfg.Telemetry.CommandGap)
		scale := monitor.ScaleFromConfig(cfg.Telemetry)
		desc := fmt.Sprintf("Simulated board (scan %v)", cfg.Sim.ScanInterval)
		if simTUI {
			return runTUI(client, desc, scale)
		}
		return runLines(client, desc, scale)
	},
}

func serveBridge(ctx context.Context, board *sim.Device) error {
	bridge := link.NewBridge(board.Port)
	if simUser != "" {
		password, err := link.GetPassword()
		if err != nil {
			return err
		}
		bridge.Username = simUser
		bridge.Password = password
	}

	mux := http.NewServeMux()
	mux.Handle("/", bridge)
	server := &http.Server{
		Addr:              cfg.Sim.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- server.ListenAndServe()
	}()
	go bridge.Run(ctx)

	log.Printf("simulated board bridged at ws://%s/", cfg.Sim.Listen)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func init() {
	simCmd.Flags().StringVarP(&simListen, "listen", "l", "", "Serve the board stream as a WebSocket bridge on this address")
	simCmd.Flags().BoolVarP(&simTUI, "tui", "t", false, "Interactive terminal UI")
	simCmd.Flags().StringVar(&simUser, "auth-user", "", "Require HTTP Basic auth on the bridge (password from HAPTIX_PASSWORD)")
	rootCmd.AddCommand(simCmd)
}
