package input

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/younwookim/remnant/internal/infrastructure/config"
)

// Recorder captures live intents as a bot script. Identical consecutive
// ticks are merged into one step.
type Recorder struct {
	data      config.BotConfig
	recording bool
	ticks     int
}

// NewRecorder creates a recorder producing a bot with the given name
func NewRecorder(name string) *Recorder {
	return &Recorder{
		data: config.BotConfig{
			Name:  name,
			Steps: make([]config.StepConfig, 0, 256),
		},
		recording: true,
	}
}

// Record appends one tick of input
func (r *Recorder) Record(in Intent) {
	if !r.recording {
		return
	}
	r.ticks++

	step := ToStep(in)
	if n := len(r.data.Steps); n > 0 {
		prev := r.data.Steps[n-1]
		step.Ticks = prev.Ticks
		if prev == step {
			r.data.Steps[n-1].Ticks++
			return
		}
		step.Ticks = 1
	}
	r.data.Steps = append(r.data.Steps, step)
}

// Save writes the recording as YAML
func (r *Recorder) Save(filename string) error {
	if len(r.data.Steps) == 0 {
		return fmt.Errorf("no input to save")
	}

	out, err := yaml.Marshal(r.data)
	if err != nil {
		return fmt.Errorf("failed to encode bot: %w", err)
	}
	if err := os.WriteFile(filename, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

// Stop stops recording
func (r *Recorder) Stop() {
	r.recording = false
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// TickCount returns the number of recorded ticks
func (r *Recorder) TickCount() int {
	return r.ticks
}

// Bot returns the recorded script
func (r *Recorder) Bot() config.BotConfig {
	return r.data
}

// GenerateFilename creates a filename based on current time
func GenerateFilename() string {
	return fmt.Sprintf("bot_%s.yaml", time.Now().Format("20060102_150405"))
}
