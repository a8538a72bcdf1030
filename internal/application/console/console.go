// Package console is the operator command set: round control, test
// captures and timeline inspection. Commands must run on the session's
// tick goroutine.
package console

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/younwookim/remnant/internal/application/round"
	"github.com/younwookim/remnant/internal/application/session"
	"github.com/younwookim/remnant/internal/application/state"
	"github.com/younwookim/remnant/internal/domain/entity"
	"github.com/younwookim/remnant/internal/domain/persist"
	"github.com/younwookim/remnant/internal/domain/timeline"
)

var ErrNoTestCapture = errors.New("no test capture stopped yet")

// Console executes command lines against a session
type Console struct {
	s    *session.Session
	last timeline.BranchID // root of the last stopped test capture
}

// New creates a console for s
func New(s *session.Session) *Console {
	return &Console{s: s}
}

// Execute runs one command line and returns what it printed
func (c *Console) Execute(line string) (string, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return "", nil
	}

	var out bytes.Buffer
	root := c.root()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return strings.TrimRight(out.String(), "\n"), err
}

func (c *Console) root() *cobra.Command {
	root := &cobra.Command{
		Use:           "remnant",
		Short:         "Remnant operator console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(
		c.roundStartCmd(),
		c.roundEndCmd(),
		c.captureStartCmd(),
		c.captureStopCmd(),
		c.capturePlayCmd(),
		c.resetCmd(),
		c.spawnPlayerCmd(),
		c.spawnAICmd(),
		c.agentModeCmd(),
		c.propStateCmd(),
		c.agentsCmd(),
		c.statusCmd(),
		c.timelineCmd(),
	)
	return root
}

func (c *Console) roundStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "round_start",
		Short: "Start the next round with every timeline harvested so far",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := c.s.DoRound(); err != nil {
				return err
			}
			cmd.Printf("round %d started, %d remnants\n", c.s.RoundID(), len(c.s.Prior()))
			return nil
		},
	}
}

func (c *Console) roundEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "round_end",
		Short: "End the running round now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.s.EndRound()
			if err != nil {
				return err
			}
			cmd.Printf("round %d ended, %d timelines\n", res.RoundID, len(res.Timelines))
			return nil
		},
	}
}

func (c *Console) captureStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "testcapture_start <agent>",
		Short: "Start capturing an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.s.Agent(args[0])
			if err != nil {
				return err
			}
			if err := a.StartCapture(); err != nil {
				return err
			}
			cmd.Printf("capturing %s\n", args[0])
			return nil
		},
	}
}

func (c *Console) captureStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "testcapture_stop <agent>",
		Short: "Stop capturing an agent and keep its timeline for testcapture_play",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.s.Agent(args[0])
			if err != nil {
				return err
			}
			root, err := a.StopCapture()
			if err != nil {
				return err
			}
			c.last = root
			cmd.Printf("captured branch %d (%d branches)\n", root, c.s.Arena().Size(root))
			return nil
		},
	}
}

func (c *Console) capturePlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "testcapture_play <agent> [branch]",
		Short: "Replay the last test capture, or a given branch, on an agent",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.s.Agent(args[0])
			if err != nil {
				return err
			}
			root := c.last
			if len(args) == 2 {
				if root, err = parseBranch(args[1]); err != nil {
					return err
				}
			}
			if root == timeline.NoBranch {
				return ErrNoTestCapture
			}

			a.SetMode(state.ModeAnimated)
			if err := a.PlayTimeline(root, true); err != nil {
				return err
			}
			cmd.Printf("%s playing branch %d\n", args[0], root)
			return nil
		},
	}
}

func (c *Console) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "game_reset",
		Short: "End any round, forget every timeline and reload the level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.s.Reset(); err != nil {
				return err
			}
			c.last = timeline.NoBranch
			cmd.Println("game reset")
			return nil
		},
	}
}

func (c *Console) spawnPlayerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spawn_player <client>",
		Short: "Add a participant; it plays from the next round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.s.AddParticipant(round.Participant{ClientID: args[0]}); err != nil {
				return err
			}
			cmd.Printf("%s joins next round\n", args[0])
			return nil
		},
	}
}

func (c *Console) spawnAICmd() *cobra.Command {
	var weapon string
	cmd := &cobra.Command{
		Use:   "ent_create_ai_agent",
		Short: "Spawn a free AI agent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.s.SpawnAI(weapon)
			if err != nil {
				return err
			}
			cmd.Printf("spawned %s\n", a.PersistentID())
			return nil
		},
	}
	cmd.Flags().StringVarP(&weapon, "weapon", "w", c.s.Config().DefaultWeapon, "weapon kind")
	return cmd
}

func (c *Console) agentModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agent_mode <agent> <Player|AI|Animated>",
		Short: "Change who drives an agent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.s.Agent(args[0])
			if err != nil {
				return err
			}
			mode, ok := state.ParseControlMode(args[1])
			if !ok {
				return fmt.Errorf("unknown control mode %q", args[1])
			}
			a.SetMode(mode)
			cmd.Printf("%s is now %s\n", args[0], mode)
			return nil
		},
	}
}

// propStateCmd sets a door or lever state by hand, e.g. to break a
// remnant's canon on purpose
func (c *Console) propStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prop_state <prop> <state>",
		Short: "Force a door or lever into a state",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := c.s.Registry().Resolve(args[0], persist.Props)
			if !ok {
				return fmt.Errorf("unknown prop %q", args[0])
			}
			st, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid state %q", args[1])
			}

			w := c.s.World()
			switch p := w.Behavior[id].(type) {
			case *entity.Door:
				p.SetState(w, id, st)
			case *entity.Lever:
				if st < 0 || st >= max(p.States, 2) {
					return fmt.Errorf("state %d out of range for %s", st, args[0])
				}
				p.SetState(st)
			default:
				return fmt.Errorf("%s has no settable state", args[0])
			}
			cmd.Printf("%s state %d\n", args[0], st)
			return nil
		},
	}
}

func (c *Console) agentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List agent bodies",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := c.s.World()
			for _, a := range c.s.Agents() {
				pos := w.Position(a.ID())
				hp := w.Health[a.ID()]
				cmd.Printf("%-20s %-8s hp=%3.0f pos=(%.0f,%.0f,%.0f) capturing=%t\n",
					a.PersistentID(), a.Mode(), hp.Current, pos.X, pos.Y, pos.Z, a.Capturing())
			}
		},
	}
}

func (c *Console) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session status",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(c.s.Status())
		},
	}
}

func parseBranch(s string) (timeline.BranchID, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return timeline.NoBranch, fmt.Errorf("invalid branch %q", s)
	}
	return timeline.BranchID(n), nil
}
