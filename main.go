package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	PCAT_WHITE = color.RGBA{255, 255, 255, 255}
	PCAT_BLACK = color.RGBA{0, 0, 0, 255}
)

var (
	cfgFile    string
	listenAddr string
	preview    bool
)

var rootCmd = &cobra.Command{
	Use:   "arcface",
	Short: "arcface draws an hour/minute arc clock on a small display",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := NewConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if listenAddr != "" {
			cfg.HTTP.Enabled = true
			cfg.HTTP.Listen = listenAddr
		}
		if preview {
			cfg.Display.Panel = PANEL_NONE
			cfg.Haptic.Pin = ""
			cfg.Input.PowerKey = false
			cfg.Store.Path = ""
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runFace(ctx, cfg)
	},
}

// Execute runs the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "configuration file for arcface")
	rootCmd.PersistentFlags().StringVarP(&listenAddr, "listen", "l", "", "address for the preview and settings server")
	rootCmd.PersistentFlags().BoolVarP(&preview, "preview", "p", false, "run without panel, motor or buttons")
	return rootCmd.Execute()
}

// runFace wires the session to its platform adapters and runs until ctx is done.
func runFace(ctx context.Context, cfg *Config) error {
	store, err := openStore(cfg.Store.Path)
	if err != nil {
		return err
	}

	var haptic Haptic = logHaptic{}
	if cfg.Haptic.Pin != "" {
		h, err := newGPIOHaptic(cfg.Haptic.Pin)
		if err != nil {
			log.Printf("haptic disabled: %v", err)
		} else {
			haptic = h
		}
	}

	labels, err := newLabelRenderer(cfg.Face.Font)
	if err != nil {
		return fmt.Errorf("loading label font: %w", err)
	}

	var outputs []Output
	if cfg.Display.Panel == PANEL_SSD1306 {
		panel, err := openOLEDPanel(cfg.Display.I2CBus, cfg.Display.Width, cfg.Display.Height)
		if err != nil {
			return err
		}
		defer panel.Close()
		outputs = append(outputs, panel)
	}

	session := NewSession(*cfg.Face, store, haptic, realClock{}, labels)
	loop := newLoop(session, image.Rect(0, 0, cfg.Display.Width, cfg.Display.Height), outputs...)

	go runTicker(ctx, realClock{}, tickUnit(cfg.Face.TickUnit), loop.ticks)
	if cfg.Status.BatteryPath != "" {
		go pollBattery(ctx, cfg.Status.BatteryPath, cfg.Status.BatteryInterval, loop.battery)
	}
	if cfg.Status.CompanionHost != "" {
		go monitorLink(ctx, cfg.Status.CompanionHost, cfg.Status.LinkInterval, pingICMP, loop.bluetooth)
	}
	if cfg.Input.PowerKey {
		go monitorPowerKey(ctx, cfg.Input.Device, loop.buttons)
	}
	if cfg.HTTP.Enabled {
		go httpServer(ctx, loop, cfg.HTTP.Listen)
	}

	return loop.Run(ctx)
}

func main() {
	if err := Execute(); err != nil {
		log.Fatal(err)
	}
}
