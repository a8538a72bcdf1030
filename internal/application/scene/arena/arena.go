// Package arena provides the top-down sandbox scene over a live session.
package arena

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"

	"github.com/younwookim/remnant/internal/application/agent"
	"github.com/younwookim/remnant/internal/application/console"
	"github.com/younwookim/remnant/internal/application/input"
	"github.com/younwookim/remnant/internal/application/round"
	"github.com/younwookim/remnant/internal/application/scene"
	"github.com/younwookim/remnant/internal/application/session"
	"github.com/younwookim/remnant/internal/application/state"
	"github.com/younwookim/remnant/internal/domain/entity"
	"github.com/younwookim/remnant/internal/domain/geom"
	"github.com/younwookim/remnant/internal/ecs"
	"github.com/younwookim/remnant/internal/infrastructure/logger"
)

// Colors for rendering
var (
	colorBG         = color.RGBA{26, 26, 46, 255}
	colorWall       = color.RGBA{80, 80, 100, 255}
	colorDoorShut   = color.RGBA{160, 90, 40, 255}
	colorDoorOpen   = color.RGBA{160, 90, 40, 70}
	colorLever      = color.RGBA{220, 200, 80, 255}
	colorLeverOn    = color.RGBA{120, 240, 120, 255}
	colorTrigger    = color.RGBA{120, 120, 255, 50}
	colorWeapon     = color.RGBA{255, 215, 0, 255}
	colorPlayer     = color.RGBA{100, 200, 100, 255}
	colorRemnant    = color.RGBA{140, 170, 255, 200}
	colorAI         = color.RGBA{200, 100, 100, 255}
	colorEye        = color.RGBA{255, 255, 255, 200}
	colorHealthBG   = color.RGBA{60, 60, 60, 255}
	colorHealthFG   = color.RGBA{100, 200, 100, 255}
	colorPauseShade = color.RGBA{0, 0, 0, 128}
)

const (
	eyeLength  = 24.0
	messageTTL = 3.0
)

// Options configures an Arena.
type Options struct {
	// ClientID is the name the keyboard player joins rounds under.
	ClientID string
	// Record enables input recording. F5 saves it to RecordPath, or to a
	// timestamped name when RecordPath is empty.
	Record     bool
	RecordPath string
}

// Arena is the sandbox scene: it ticks a session, drives one participant
// from the keyboard and draws the level from above.
type Arena struct {
	s        *session.Session
	con      *console.Console
	keyboard *Keyboard
	recorder *input.Recorder
	opts     Options
	view     view
	paused   bool

	message    string
	messageAge float64
}

// New creates the scene and registers the keyboard participant with the
// session. The participant joins from the next round on.
func New(s *session.Session, screenW, screenH int, opts Options) (*Arena, error) {
	if opts.ClientID == "" {
		opts.ClientID = "player"
	}
	a := &Arena{
		s:        s,
		con:      console.New(s),
		keyboard: NewKeyboard(),
		opts:     opts,
		view:     fit(s.Level().Bounds, screenW, screenH),
	}
	if opts.Record {
		a.recorder = input.NewRecorder(s.Level().Name)
		logger.Log.WithField("path", opts.RecordPath).Info("recording enabled")
	}

	src := input.SourceFunc(func() input.Intent {
		in := a.keyboard.Next()
		if a.recorder != nil {
			a.recorder.Record(in)
		}
		return in
	})
	if err := s.AddParticipant(round.Participant{ClientID: opts.ClientID, Source: src}); err != nil {
		return nil, fmt.Errorf("failed to join session: %w", err)
	}
	return a, nil
}

// Update implements scene.Scene
func (a *Arena) Update(dt float64) (scene.Scene, error) {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.paused = !a.paused
	}
	if a.paused {
		return nil, nil
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF1):
		a.run("round_start")
	case inpututil.IsKeyJustPressed(ebiten.KeyF2):
		a.run("round_end")
	case inpututil.IsKeyJustPressed(ebiten.KeyF3):
		a.run("ent_create_ai_agent")
	case inpututil.IsKeyJustPressed(ebiten.KeyF4):
		a.run("game_reset")
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		a.saveRecording()
	}

	if self := a.self(); self != nil {
		ox, oy := a.view.toScreen(a.s.World().Position(self.ID()))
		a.keyboard.Poll(ox, oy)
	} else {
		a.keyboard.Poll(math.NaN(), math.NaN())
	}

	a.s.Tick(dt)

	if a.message != "" {
		a.messageAge += dt
		if a.messageAge > messageTTL {
			a.message = ""
		}
	}
	return nil, nil
}

// run executes a console line and shows its outcome on the HUD
func (a *Arena) run(line string) {
	out, err := a.con.Execute(line)
	if err != nil {
		logger.Log.WithError(err).WithField("command", line).Warn("console command failed")
		a.show(err.Error())
		return
	}
	a.show(out)
}

func (a *Arena) show(msg string) {
	a.message = msg
	a.messageAge = 0
}

// self returns the agent the keyboard currently drives, if any
func (a *Arena) self() *agent.Agent {
	if !a.s.RoundRunning() {
		return nil
	}
	ag, err := a.s.Agent(round.LivePersistentID(a.opts.ClientID, a.s.RoundID()))
	if err != nil {
		return nil
	}
	return ag
}

// saveRecording saves the current recording to file
func (a *Arena) saveRecording() {
	if a.recorder == nil {
		return
	}

	filename := a.opts.RecordPath
	if filename == "" {
		filename = input.GenerateFilename()
	}

	fields := logrus.Fields{"path": filename, "ticks": a.recorder.TickCount()}
	if err := a.recorder.Save(filename); err != nil {
		logger.Log.WithError(err).WithFields(fields).Error("failed to save recording")
		a.show("recording not saved")
		return
	}
	logger.Log.WithFields(fields).Info("recording saved")
	a.show("recording saved: " + filename)
}

// Draw implements scene.Scene
func (a *Arena) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)

	w := a.s.World()
	a.drawTriggers(screen, w)
	a.drawSolids(screen, w)
	a.drawProps(screen, w)
	a.drawWeapons(screen, w)
	a.drawAgents(screen, w)
	a.drawHUD(screen)

	if a.paused {
		ebitenutil.DrawRect(screen, 0, 0, float64(a.view.screenW), float64(a.view.screenH), colorPauseShade)
		ebitenutil.DebugPrintAt(screen, "PAUSED\n\nPress ESC to resume", a.view.screenW/2-50, a.view.screenH/2-20)
	}
}

// drawHull fills the footprint of a hull centred at pos
func (a *Arena) drawHull(screen *ebiten.Image, pos geom.Vec3, h ecs.Hull, c color.Color) {
	x, y := a.view.toScreen(geom.V(pos.X+h.Mins.X, pos.Y+h.Maxs.Y, 0))
	ebitenutil.DrawRect(screen, x, y, (h.Maxs.X-h.Mins.X)*a.view.scale, (h.Maxs.Y-h.Mins.Y)*a.view.scale, c)
}

func (a *Arena) drawTriggers(screen *ebiten.Image, w *ecs.World) {
	for _, id := range w.Entities() {
		vol, ok := w.Volume[id]
		if !ok {
			continue
		}
		a.drawHull(screen, w.Position(id), vol, colorTrigger)
	}
}

// drawSolids draws walls and doors
func (a *Arena) drawSolids(screen *ebiten.Image, w *ecs.World) {
	for _, id := range w.Entities() {
		h, ok := w.Hull[id]
		if !ok || ecs.Has(w.IsAgent, id) || ecs.Has(w.IsWeapon, id) {
			continue
		}
		switch b := w.Behavior[id].(type) {
		case *entity.Door:
			c := colorDoorShut
			if b.Open {
				c = colorDoorOpen
			}
			a.drawHull(screen, w.Position(id), h, c)
		case nil:
			if ecs.Has(w.IsSolid, id) {
				a.drawHull(screen, w.Position(id), h, colorWall)
			}
		}
	}
}

func (a *Arena) drawProps(screen *ebiten.Image, w *ecs.World) {
	for _, id := range ecs.Tagged(w.IsProp) {
		l, ok := w.Behavior[id].(*entity.Lever)
		if !ok {
			continue
		}
		c := colorLever
		if l.State != 0 {
			c = colorLeverOn
		}
		x, y := a.view.toScreen(w.Position(id))
		ebitenutil.DrawRect(screen, x-4, y-4, 8, 8, c)
	}
}

func (a *Arena) drawWeapons(screen *ebiten.Image, w *ecs.World) {
	for _, id := range ecs.Tagged(w.IsWeapon) {
		if _, held := w.Parent[id]; held {
			continue
		}
		x, y := a.view.toScreen(w.Position(id))
		ebitenutil.DrawRect(screen, x-3, y-3, 6, 6, colorWeapon)
	}
}

func (a *Arena) drawAgents(screen *ebiten.Image, w *ecs.World) {
	for _, ag := range a.s.Agents() {
		id := ag.ID()
		if !w.Exists(id) {
			continue
		}
		pos := w.Position(id)
		h := w.Hull[id]

		c := colorPlayer
		switch ag.Mode() {
		case state.ModeAnimated:
			c = colorRemnant
		case state.ModeAI:
			c = colorAI
		}
		a.drawHull(screen, pos, h, c)

		x, y := a.view.toScreen(pos)
		yaw := w.Transform[id].Rotation.Yaw * math.Pi / 180
		ebitenutil.DrawLine(screen, x, y, x+math.Cos(yaw)*eyeLength, y-math.Sin(yaw)*eyeLength, colorEye)

		if hp, ok := w.Health[id]; ok && hp.Max > 0 {
			barW := (h.Maxs.X - h.Mins.X) * a.view.scale
			top := y - (h.Maxs.Y-h.Mins.Y)*a.view.scale/2 - 6
			ratio := math.Max(hp.Current/hp.Max, 0)
			ebitenutil.DrawRect(screen, x-barW/2, top, barW, 3, colorHealthBG)
			ebitenutil.DrawRect(screen, x-barW/2, top, barW*ratio, 3, colorHealthFG)
		}
		ebitenutil.DebugPrintAt(screen, ag.PersistentID(), int(x)+8, int(y)+4)
	}
}

func (a *Arena) drawHUD(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, a.s.Status())

	if a.message != "" {
		ebitenutil.DebugPrintAt(screen, a.message, 10, a.view.screenH-50)
	}

	controls := "WASD: Move | Mouse: Aim | LClick: Fire | E: Use | G: Drop | F1/F2: Round | F3: AI | F4: Reset | ESC: Pause"
	if a.recorder != nil {
		controls += " | F5: Save"
	}
	ebitenutil.DebugPrintAt(screen, controls, 10, a.view.screenH-20)
}

// OnEnter implements scene.Scene
func (a *Arena) OnEnter() {}

// OnExit implements scene.Scene. Pending recordings are flushed.
func (a *Arena) OnExit() {
	if a.recorder != nil && a.recorder.TickCount() > 0 {
		a.saveRecording()
		a.recorder.Stop()
	}
}

// Session returns the session the scene drives.
func (a *Arena) Session() *session.Session {
	return a.s
}

// Paused reports whether the simulation is halted.
func (a *Arena) Paused() bool {
	return a.paused
}

// view maps the level's XY plane onto the screen, Y up.
type view struct {
	scale   float64
	screenW int
	screenH int
}

// fit scales bounds to fill the screen on the tighter axis
func fit(bounds geom.Vec3, screenW, screenH int) view {
	v := view{scale: 1, screenW: screenW, screenH: screenH}
	if bounds.X > 0 && bounds.Y > 0 {
		v.scale = math.Min(float64(screenW)/bounds.X, float64(screenH)/bounds.Y)
	}
	return v
}

func (v view) toScreen(p geom.Vec3) (float64, float64) {
	return p.X * v.scale, float64(v.screenH) - p.Y*v.scale
}
