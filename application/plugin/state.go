package plugin

import (
	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
)

// State is the lifecycle position of a plugin.
type State int

const (
	StateUnloaded State = iota
	StateLoaded
	StateDescribed
	StateInstantiated
	StateCooking
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateDescribed:
		return "described"
	case StateInstantiated:
		return "instantiated"
	case StateCooking:
		return "cooking"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// accepted lists the states in which each action is in order.
// Load is accepted everywhere; a repeated load is a no-op.
var accepted = map[entities.Action][]State{
	entities.ActionDescribe:        {StateLoaded, StateDescribed, StateInstantiated, StateCooking, StateDestroyed},
	entities.ActionCreateInstance:  {StateDescribed, StateInstantiated, StateCooking, StateDestroyed},
	entities.ActionCook:            {StateInstantiated, StateCooking},
	entities.ActionDestroyInstance: {StateInstantiated, StateCooking},
}

// Accepts reports whether action is in lifecycle order in state s.
func (s State) Accepts(action entities.Action) bool {
	states, ok := accepted[action]
	if !ok {
		return true
	}
	for _, st := range states {
		if st == s {
			return true
		}
	}
	return false
}
