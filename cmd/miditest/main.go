package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go-pianokey/midi"
	"go-pianokey/note"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "play":
		if len(os.Args) < 4 {
			usage()
			return
		}
		playNote(os.Args[2], os.Args[3])
	case "watch":
		match := ""
		if len(os.Args) > 2 {
			match = os.Args[2]
		}
		watchInputs(match)
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list               - List all MIDI ports")
	fmt.Println("  play <port> <note> - Play one note (e.g. C4, F#3) on an output port")
	fmt.Println("  watch [match]      - Print notes from input ports matching a name (all if omitted)")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Printf("(waiting up to %s...)\n", midi.ScanTimeout)

	ports, err := midi.Scan(midi.ScanTimeout)
	if err != nil {
		fmt.Println("\nTIMEOUT! The MIDI service is hung.")
		fmt.Println("Fix (macOS): sudo killall coreaudiod midiserver")
		return
	}

	for i, name := range ports.InNames() {
		fmt.Printf("  %d: %s\n", i, name)
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, name := range ports.OutNames() {
		fmt.Printf("  %d: %s\n", i, name)
	}
}

func playNote(portName, noteName string) {
	n, err := note.Parse(noteName)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	ports, err := midi.Scan(midi.ScanTimeout)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	port, err := ports.FindOut(portName)
	if err != nil {
		fmt.Printf("Error: %v (available: %v)\n", err, ports.OutNames())
		return
	}

	out, err := midi.OpenOutput(port, 1, 100)
	if err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		return
	}
	defer out.Close()

	fmt.Printf("Playing %s on %s\n", n, out.Name())
	if err := out.NoteOn(n); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	time.Sleep(500 * time.Millisecond)
	if err := out.NoteOff(n); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

func watchInputs(match string) {
	if match == "" {
		fmt.Println("Watching all inputs. Ctrl+C to exit.")
	} else {
		fmt.Printf("Watching inputs matching %q. Ctrl+C to exit.\n", match)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mgr := midi.NewDeviceManager(match)
	go mgr.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-mgr.Events():
			if !ok {
				return
			}
			stamp := time.Now().Format("15:04:05")
			if ev.Type == midi.DeviceDisconnected {
				fmt.Printf("[%s] disconnected: %s\n", stamp, ev.ID)
				continue
			}
			fmt.Printf("[%s] connected: %s\n", stamp, ev.ID)
			go printNotes(ev.Input)
		}
	}
}

func printNotes(in *midi.Input) {
	for ev := range in.NoteEvents() {
		state := "off"
		if ev.IsOn() {
			state = "on "
		}
		fmt.Printf("  %s %s %-4s ch%d vel%d\n", in.ID(), state, note.FromMIDI(ev.Note), ev.Channel, ev.Velocity)
	}
}
