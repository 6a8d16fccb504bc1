package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"go-pianokey/config"
	"go-pianokey/debug"
	"go-pianokey/keymap"
	"go-pianokey/midi"
	"go-pianokey/theme"
	"go-pianokey/tui"
)

// CLI flags override values from the config file
type CLI struct {
	Config       string        `help:"Config file (default ~/.config/go-pianokey/config.json)." type:"path"`
	Octaves      []int         `help:"Three octaves mapped onto the keyboard, e.g. 3,4,5." sep:","`
	Port         string        `help:"MIDI output port (name or substring)."`
	Input        string        `help:"Watch for a MIDI keyboard whose port name contains this."`
	Channel      int           `help:"MIDI channel 1-16."`
	Velocity     int           `help:"Note velocity 1-127."`
	ReleaseAfter time.Duration `help:"Release a terminal key after this long without a repeat."`
	Palette      string        `help:"GIMP .gpl palette file." type:"path"`
	Debug        bool          `help:"Write a debug log to ~/.config/go-pianokey/debug.log."`
	Save         bool          `help:"Save the resulting settings to the config file."`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("pianokey"),
		kong.Description("Play a piano from the terminal: keyboard rows and the mouse send MIDI notes."),
		kong.UsageOnError(),
	)

	if err := run(&cli); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cli *CLI) error {
	if cli.Debug {
		if err := debug.Enable(); err != nil {
			return fmt.Errorf("enable debug log: %w", err)
		}
		defer debug.Disable()
	}

	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	if cli.Save {
		if err := saveConfig(cli, cfg); err != nil {
			return err
		}
	}

	th, err := loadTheme(cfg.UI.Palette)
	if err != nil {
		return err
	}

	opts := tui.Options{
		Octaves:      cfg.Octaves,
		ReleaseAfter: cfg.ReleaseAfter(),
		Theme:        th,
	}

	if cfg.MIDI.OutputPort != "" {
		out, err := openOutput(cfg)
		if err != nil {
			return err
		}
		defer out.Close()
		opts.Output = out
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.MIDI.InputPort != "" {
		deviceMgr := midi.NewDeviceManager(cfg.MIDI.InputPort)
		go deviceMgr.Run(ctx)
		opts.DeviceMgr = deviceMgr
	}

	m, err := tui.NewModel(opts)
	if err != nil {
		return err
	}

	debug.Log("main", "starting octaves=%s out=%q in=%q", cfg.Octaves, cfg.MIDI.OutputPort, cfg.MIDI.InputPort)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func loadConfig(cli *CLI) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if cli.Config != "" {
		cfg, err = config.LoadFile(cli.Config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if len(cli.Octaves) > 0 {
		if len(cli.Octaves) != 3 {
			return nil, fmt.Errorf("--octaves: %w, got %d", config.ErrOctaveCount, len(cli.Octaves))
		}
		cfg.Octaves = keymap.OctaveSet{cli.Octaves[0], cli.Octaves[1], cli.Octaves[2]}
	}
	if cli.Port != "" {
		cfg.MIDI.OutputPort = cli.Port
	}
	if cli.Input != "" {
		cfg.MIDI.InputPort = cli.Input
	}
	if cli.Channel != 0 {
		cfg.MIDI.Channel = cli.Channel
	}
	if cli.Velocity != 0 {
		cfg.MIDI.Velocity = cli.Velocity
	}
	if cli.ReleaseAfter != 0 {
		cfg.Terminal.ReleaseAfterMs = int(cli.ReleaseAfter / time.Millisecond)
	}
	if cli.Palette != "" {
		cfg.UI.Palette = cli.Palette
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func saveConfig(cli *CLI, cfg *config.Config) error {
	if cli.Config != "" {
		return cfg.SaveFile(cli.Config)
	}
	return cfg.Save()
}

func loadTheme(path string) (*theme.Theme, error) {
	if path == "" {
		return theme.New(nil), nil
	}
	palette, err := theme.LoadGPL(path)
	if err != nil {
		return nil, err
	}
	return theme.New(palette), nil
}

func openOutput(cfg *config.Config) (*midi.Output, error) {
	ports, err := midi.Scan(midi.ScanTimeout)
	if err != nil {
		return nil, err
	}
	port, err := ports.FindOut(cfg.MIDI.OutputPort)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %v)", err, ports.OutNames())
	}
	return midi.OpenOutput(port, cfg.MIDI.Channel, uint8(cfg.MIDI.Velocity))
}
