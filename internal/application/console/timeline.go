package console

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/younwookim/remnant/internal/domain/anim"
	"github.com/younwookim/remnant/internal/domain/timeline"
)

// branchDump is the YAML shape of a branch tree
type branchDump struct {
	ID        timeline.BranchID `yaml:"id"`
	Owner     string            `yaml:"owner"`
	Event     string            `yaml:"event"`
	EndTime   float64           `yaml:"end_time"`
	Frames    int               `yaml:"frames"`
	Weapon    string            `yaml:"weapon,omitempty"`
	Actions   []string          `yaml:"actions,omitempty"`
	IfValid   *branchDump       `yaml:"if_valid,omitempty"`
	IfInvalid *branchDump       `yaml:"if_invalid,omitempty"`
}

func (c *Console) timelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Inspect harvested timelines",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List timeline owners and their trees",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, owner := range c.s.Owners() {
				root, _ := c.s.Timeline(owner)
				cmd.Printf("%-20s root=%d branches=%d\n", owner, root, c.s.Arena().Size(root))
			}
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "dump <owner|branch>",
		Short: "Print a branch tree as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := c.resolveTimeline(args[0])
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(c.dump(root))
			if err != nil {
				return fmt.Errorf("failed to encode timeline: %w", err)
			}
			cmd.Print(string(data))
			return nil
		},
	})
	return cmd
}

func (c *Console) resolveTimeline(arg string) (timeline.BranchID, error) {
	if root, ok := c.s.Timeline(arg); ok {
		return root, nil
	}
	if n, err := strconv.Atoi(arg); err == nil {
		if _, ok := c.s.Arena().Get(timeline.BranchID(n)); ok {
			return timeline.BranchID(n), nil
		}
	}
	return timeline.NoBranch, fmt.Errorf("no timeline %q: %w", arg, timeline.ErrUnknownBranch)
}

func (c *Console) dump(id timeline.BranchID) *branchDump {
	b, ok := c.s.Arena().Get(id)
	if !ok {
		return nil
	}
	d := &branchDump{
		ID:      b.ID,
		Owner:   b.OwnerID,
		Event:   timeline.Describe(b.EndEvent),
		EndTime: b.EndTime,
		Frames:  b.Animation.FrameCount(),
	}
	if b.Weapon != nil {
		d.Weapon = b.Weapon.Kind
	}
	for i := 0; i < b.Animation.SegmentCount(); i++ {
		seg := b.Animation.Segment(i)
		for tick := 0; tick < seg.Len(); tick++ {
			for _, a := range seg.Actions(tick) {
				d.Actions = append(d.Actions, fmt.Sprintf("%d.%02d %s", i, tick, anim.Describe(a)))
			}
		}
	}
	d.IfValid = c.dump(b.IfValid)
	d.IfInvalid = c.dump(b.IfInvalid)
	return d
}
