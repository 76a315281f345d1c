package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	scene := flag.String("scene", "sandbox.yaml", "scene spec in prefabs/ (basename, .yaml optional)")
	tuningFile := flag.String("tuning", "", "tuning spec overriding the scene's")
	predicting := flag.Bool("predict", false, "run in prediction mode (single substep, sleep untouched)")
	flag.Parse()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("tickphys debugview")

	game, err := NewGame(*scene, *tuningFile, *predicting)
	if err != nil {
		log.Fatal(err)
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
