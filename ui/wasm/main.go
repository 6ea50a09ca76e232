//go:build js && wasm

package main

import (
	"encoding/hex"
	"syscall/js"

	"haptix/protocol"
)

// stream reassembles telemetry pushed in by the page, chunk by chunk
var stream = protocol.NewTelemetryStream()

func main() {
	js.Global().Set("haptixWasm", js.ValueOf(map[string]interface{}{
		"encodeCommand":   js.FuncOf(encodeCommandWrapper),
		"decodeCommand":   js.FuncOf(decodeCommandWrapper),
		"decodeTelemetry": js.FuncOf(decodeTelemetryWrapper),
		"feedTelemetry":   js.FuncOf(feedTelemetryWrapper),
		"streamStats":     js.FuncOf(streamStatsWrapper),
		"version":         protocol.Version,
	}))

	// Keep the program running
	select {}
}

// encodeCommandWrapper builds a command window
// Args: channel, waveform, period (numbers)
// Returns: hex string of the 10-byte window
func encodeCommandWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf("error: need channel, waveform and period")
	}

	w := protocol.EncodeCommand(protocol.CommandFrame{
		Channel:    uint8(args[0].Int()),
		WaveformID: uint8(args[1].Int()),
		Duration:   uint16(args[2].Int()),
	})
	return js.ValueOf(hex.EncodeToString(w[:]))
}

// decodeCommandWrapper validates a received window
// Args: hexString
// Returns: {channel, waveform, duration, error}
func decodeCommandWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeCommandResult(protocol.CommandFrame{}, "missing hex string argument")
	}

	data, err := hex.DecodeString(args[0].String())
	if err != nil {
		return makeCommandResult(protocol.CommandFrame{}, "invalid hex string: "+err.Error())
	}

	f, err := protocol.DecodeCommand(data)
	if err != nil {
		return makeCommandResult(f, err.Error())
	}
	return makeCommandResult(f, "")
}

// decodeTelemetryWrapper decodes one 76-byte frame
// Args: hexString
// Returns: {reference, samples, timestamp, checksum, error}
func decodeTelemetryWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeTelemetryResult(nil, "missing hex string argument")
	}

	data, err := hex.DecodeString(args[0].String())
	if err != nil {
		return makeTelemetryResult(nil, "invalid hex string: "+err.Error())
	}

	f, err := protocol.DecodeTelemetry(data)
	if err != nil {
		return makeTelemetryResult(nil, err.Error())
	}
	return makeTelemetryResult(&f, "")
}

// feedTelemetryWrapper pushes raw received bytes into the stream
// Args: hexString
// Returns: array of decoded frames
func feedTelemetryWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf([]interface{}{})
	}

	data, err := hex.DecodeString(args[0].String())
	if err != nil {
		return js.ValueOf([]interface{}{})
	}

	frames := []interface{}{}
	stream.Feed(data, func(f protocol.TelemetryFrame) {
		frames = append(frames, makeTelemetryResult(&f, ""))
	})
	return js.ValueOf(frames)
}

// streamStatsWrapper returns the reassembly counters
func streamStatsWrapper(this js.Value, args []js.Value) interface{} {
	st := stream.Stats()
	return js.ValueOf(map[string]interface{}{
		"frames":         int(st.Frames),
		"checksumErrors": int(st.ChecksumErrors),
		"droppedBytes":   int(st.DroppedBytes),
	})
}

func makeCommandResult(f protocol.CommandFrame, errMsg string) js.Value {
	return js.ValueOf(map[string]interface{}{
		"channel":  int(f.Channel),
		"waveform": int(f.WaveformID),
		"duration": int(f.Duration),
		"error":    errMsg,
	})
}

func makeTelemetryResult(f *protocol.TelemetryFrame, errMsg string) js.Value {
	if f == nil {
		return js.ValueOf(map[string]interface{}{"error": errMsg})
	}

	samples := make([]interface{}, protocol.TelemetryAnalogCount)
	for i := range samples {
		// Samples are signed codes
		samples[i] = int(int32(f.Analog(i)))
	}

	return js.ValueOf(map[string]interface{}{
		"reference": int(f.Reference()),
		"samples":   samples,
		"timestamp": int(f.Timestamp()),
		"checksum":  int(f.Checksum()),
		"error":     errMsg,
	})
}
