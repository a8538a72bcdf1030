package timeline

import (
	"errors"
	"fmt"

	"github.com/younwookim/remnant/internal/domain/anim"
)

// BranchID is a handle into an Arena. Zero means "no branch".
type BranchID int

// NoBranch is the empty handle
const NoBranch BranchID = 0

var (
	ErrUnknownBranch = errors.New("unknown branch")
	ErrAlreadyLinked = errors.New("branch child already set")
)

// Fork names the empty child slot a diverging capture fills: From.IfValid
// when Valid, From.IfInvalid otherwise.
type Fork struct {
	From  BranchID
	Valid bool
}

// WeaponSpawn describes a weapon granted when a branch starts playing
type WeaponSpawn struct {
	Kind         string
	PersistentID string
}

// Branch is one recorded clip, the event that ended it and the two
// possible continuations.
type Branch struct {
	ID        BranchID
	Animation *anim.Animation
	EndEvent  Event
	EndTime   float64
	IfValid   BranchID
	IfInvalid BranchID
	OwnerID   string
	Weapon    *WeaponSpawn
}

// Arena owns every branch. Branches are never removed, so handles stay
// valid for the arena's lifetime.
type Arena struct {
	nodes []*Branch
}

// NewArena creates an empty arena
func NewArena() *Arena {
	return &Arena{}
}

// Add stores b and returns its handle
func (a *Arena) Add(b Branch) BranchID {
	b.ID = BranchID(len(a.nodes) + 1)
	b.IfValid = NoBranch
	b.IfInvalid = NoBranch
	a.nodes = append(a.nodes, &b)
	return b.ID
}

// Get returns the branch for id
func (a *Arena) Get(id BranchID) (*Branch, bool) {
	if id <= 0 || int(id) > len(a.nodes) {
		return nil, false
	}
	return a.nodes[id-1], true
}

// Len returns the number of branches
func (a *Arena) Len() int {
	return len(a.nodes)
}

// LinkValid sets parent.IfValid once
func (a *Arena) LinkValid(parent, child BranchID) error {
	return a.link(parent, child, true)
}

// LinkInvalid sets parent.IfInvalid once
func (a *Arena) LinkInvalid(parent, child BranchID) error {
	return a.link(parent, child, false)
}

func (a *Arena) link(parent, child BranchID, valid bool) error {
	slot, err := a.slot(parent, valid)
	if err != nil {
		return err
	}
	if _, ok := a.Get(child); !ok {
		return fmt.Errorf("child %d: %w", child, ErrUnknownBranch)
	}
	*slot = child
	return nil
}

// slot returns the empty child slot of parent selected by valid
func (a *Arena) slot(parent BranchID, valid bool) (*BranchID, error) {
	p, ok := a.Get(parent)
	if !ok {
		return nil, fmt.Errorf("parent %d: %w", parent, ErrUnknownBranch)
	}
	slot := &p.IfInvalid
	if valid {
		slot = &p.IfValid
	}
	if *slot != NoBranch {
		return nil, fmt.Errorf("branch %d: %w", parent, ErrAlreadyLinked)
	}
	return slot, nil
}

// Walk visits the tree under root depth-first, valid child first.
// Returning false from fn skips that node's children.
func (a *Arena) Walk(root BranchID, fn func(b *Branch, depth int) bool) {
	type item struct {
		id    BranchID
		depth int
	}
	stack := []item{{root, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		b, ok := a.Get(it.id)
		if !ok {
			continue
		}
		if !fn(b, it.depth) {
			continue
		}
		if b.IfInvalid != NoBranch {
			stack = append(stack, item{b.IfInvalid, it.depth + 1})
		}
		if b.IfValid != NoBranch {
			stack = append(stack, item{b.IfValid, it.depth + 1})
		}
	}
}

// Size counts the branches reachable from root
func (a *Arena) Size(root BranchID) int {
	n := 0
	a.Walk(root, func(*Branch, int) bool {
		n++
		return true
	})
	return n
}
