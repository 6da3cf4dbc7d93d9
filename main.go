package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/spriteshell/config"
)

func main() {
	configPath := flag.String("config", "spriteshell.yaml", "viewer configuration file (falls back to built-in defaults)")
	sheetDir := flag.String("sheets", "", "extra directory of sprite sheets to load")
	noWatch := flag.Bool("nowatch", false, "disable hot reload of sheet directories")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *sheetDir != "" {
		cfg.Sheets.Dirs = append(cfg.Sheets.Dirs, *sheetDir)
	}
	if *noWatch {
		cfg.Sheets.Watch = false
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.Clock.TPS)

	game, err := NewGame(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
