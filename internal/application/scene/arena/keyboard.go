package arena

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/remnant/internal/application/input"
	"github.com/younwookim/remnant/internal/domain/geom"
)

// minAimDistance keeps the yaw steady while the cursor sits on the agent
const minAimDistance = 4.0

// Keys is the raw button state for one tick
type Keys struct {
	Forward, Back, Left, Right bool
	Jump, Duck                 bool
	Use, Drop, Attack          bool
}

// ReadKeys samples the keyboard and mouse buttons
func ReadKeys() Keys {
	return Keys{
		Forward: ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Back:    ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Left:    ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:   ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		Jump:    ebiten.IsKeyPressed(ebiten.KeySpace),
		Duck:    ebiten.IsKeyPressed(ebiten.KeyControl),
		Use:     ebiten.IsKeyPressed(ebiten.KeyE),
		Drop:    ebiten.IsKeyPressed(ebiten.KeyG),
		Attack:  ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
	}
}

// Intent converts button state into a movement intent facing yaw
func (k Keys) Intent(yaw float64) input.Intent {
	return input.Intent{
		Forward: axis(k.Forward, k.Back),
		Side:    axis(k.Right, k.Left),
		Look:    geom.Angles{Yaw: yaw},
		Jump:    k.Jump,
		Duck:    k.Duck,
		Use:     k.Use,
		Drop:    k.Drop,
		Attack:  k.Attack,
	}
}

func axis(pos, neg bool) float64 {
	switch {
	case pos && !neg:
		return 1
	case neg && !pos:
		return -1
	}
	return 0
}

// AimYaw returns the world yaw from a screen point toward another. Screen Y
// grows downward, world Y upward.
func AimYaw(fromX, fromY, toX, toY float64) float64 {
	return math.Atan2(fromY-toY, toX-fromX) * 180 / math.Pi
}

// Keyboard is an input.Source fed by Poll once per tick.
type Keyboard struct {
	keys Keys
	yaw  float64
}

// NewKeyboard creates an idle keyboard source
func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// Poll samples the devices. originX/originY is the driven agent's screen
// position; NaN keeps the previous yaw.
func (k *Keyboard) Poll(originX, originY float64) {
	mx, my := ebiten.CursorPosition()
	k.Set(ReadKeys(), originX, originY, float64(mx), float64(my))
}

// Set stores sampled state, aiming from origin toward the cursor.
func (k *Keyboard) Set(keys Keys, originX, originY, cursorX, cursorY float64) {
	k.keys = keys
	if math.IsNaN(originX) || math.IsNaN(originY) {
		return
	}
	if math.Hypot(cursorX-originX, cursorY-originY) < minAimDistance {
		return
	}
	k.yaw = AimYaw(originX, originY, cursorX, cursorY)
}

// Next implements input.Source
func (k *Keyboard) Next() input.Intent {
	return k.keys.Intent(k.yaw)
}

// Yaw returns the current aim.
func (k *Keyboard) Yaw() float64 {
	return k.yaw
}
