// Package game adapts scenes to ebiten. The simulation steps at the game's
// fixed tick rate regardless of display refresh.
package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/remnant/internal/application/scene"
)

// Game implements ebiten.Game and manages Scene transitions.
type Game struct {
	current scene.Scene
	screenW int
	screenH int
	dt      float64
	frames  uint64
}

// New creates a Game showing initial. tickRate is the number of updates
// per second ebiten will drive; every Update advances the scene by
// 1/tickRate seconds.
func New(initial scene.Scene, screenW, screenH, tickRate int) *Game {
	if tickRate <= 0 {
		tickRate = ebiten.DefaultTPS
	}
	g := &Game{
		current: initial,
		screenW: screenW,
		screenH: screenH,
		dt:      1.0 / float64(tickRate),
	}
	g.current.OnEnter()
	return g
}

// Update steps the current scene and switches to the scene it returns.
// Implements ebiten.Game interface.
func (g *Game) Update() error {
	next, err := g.current.Update(g.dt)
	if err != nil {
		g.current.OnExit()
		return err
	}
	g.frames++

	if next != nil {
		g.current.OnExit()
		g.current = next
		g.current.OnEnter()
	}
	return nil
}

// Draw renders the current scene.
// Implements ebiten.Game interface.
func (g *Game) Draw(screen *ebiten.Image) {
	g.current.Draw(screen)
}

// Layout returns the logical screen size.
// Implements ebiten.Game interface.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.screenW, g.screenH
}

// Current returns the active scene
func (g *Game) Current() scene.Scene {
	return g.current
}

// DT returns the seconds each Update advances
func (g *Game) DT() float64 {
	return g.dt
}

// Frames returns how many updates completed
func (g *Game) Frames() uint64 {
	return g.frames
}
