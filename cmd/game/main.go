// Command game runs the remnant sandbox in a window: one keyboard player,
// optional scripted bots, and console hotkeys for rounds.
package main

import (
	"flag"
	"io/fs"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/remnant/configs"
	"github.com/younwookim/remnant/internal/application/game"
	"github.com/younwookim/remnant/internal/application/input"
	"github.com/younwookim/remnant/internal/application/round"
	"github.com/younwookim/remnant/internal/application/scene/arena"
	"github.com/younwookim/remnant/internal/application/session"
	"github.com/younwookim/remnant/internal/infrastructure/config"
	"github.com/younwookim/remnant/internal/infrastructure/logger"
)

const (
	screenW = 960
	screenH = 720
)

func main() {
	logger.Init()
	log := logger.Log

	configDir := flag.String("config", "", "Config directory (default: embedded configs)")
	level := flag.String("level", "", "Level to load (default: game.json level)")
	bots := flag.String("bots", "", "Comma-separated bot scripts to add as participants")
	name := flag.String("name", "player", "Client ID of the keyboard player")
	record := flag.Bool("record", false, "Record keyboard input as a bot script")
	recordPath := flag.String("record-path", "", "Where F5 saves the recording (default: bot_<time>.yaml)")
	flag.Parse()

	var fsys fs.FS = configs.FS
	if *configDir != "" {
		fsys = os.DirFS(*configDir)
	}
	loader := config.NewFSLoader(fsys, *configDir)

	bundle, err := loader.LoadAll(*level)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	s, err := session.New(bundle)
	if err != nil {
		log.WithError(err).Fatal("failed to create session")
	}

	for _, b := range splitList(*bots) {
		cfg, err := loader.LoadBot(b)
		if err != nil {
			log.WithError(err).Fatal("failed to load bot")
		}
		if err := s.AddParticipant(round.Participant{ClientID: b, Source: input.NewScript(*cfg)}); err != nil {
			log.WithError(err).Fatal("failed to add bot")
		}
	}

	sc, err := arena.New(s, screenW, screenH, arena.Options{
		ClientID:   *name,
		Record:     *record || *recordPath != "",
		RecordPath: *recordPath,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to create scene")
	}

	tickRate := bundle.Game.TickRate
	g := game.New(sc, screenW, screenH, tickRate)

	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("Remnant - " + bundle.Level.Name)
	if tickRate > 0 {
		ebiten.SetTPS(tickRate)
	}

	log.WithField("session", s.ID()).WithField("level", bundle.Level.Name).Info("sandbox started")
	if err := ebiten.RunGame(g); err != nil {
		log.WithError(err).Fatal("game exited")
	}
	sc.OnExit()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
