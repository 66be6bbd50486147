package daemon

import (
	"github.com/jfmyers9/hush/internal/vlc"
)

// Action is what a tick decided to do about the player
type Action int

const (
	ActionNone   Action = iota // Belief already matches what is wanted
	ActionToggle               // Player is where we believed; send a toggle
	ActionAbsorb               // Player already reached the wanted state by other means
	ActionSkip                 // Drift seen but the player state is unknown
)

// String returns the action name
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionToggle:
		return "toggle"
	case ActionAbsorb:
		return "absorb"
	case ActionSkip:
		return "skip"
	default:
		return "invalid"
	}
}

// Decision is the outcome of one tick
type Decision struct {
	Action       Action
	OtherPlaying bool
	PlayerState  vlc.PlayState // StateUnknown also when the player was not probed
	Probed       bool          // Whether the player was probed this tick
	Paused       bool          // Belief after the decision
}

// seedBelief derives the initial belief from the startup probe. Only a
// player seen playing is believed unpaused.
func seedBelief(state vlc.PlayState) bool {
	return state != vlc.StatePlaying
}

// needsProbe reports whether the desired state drifted from belief, which
// is the only case where the player is probed.
func needsProbe(paused, otherPlaying bool) bool {
	return otherPlaying != paused
}

// Decide computes the action and the new belief from the current belief,
// the observer verdict and the player probe. The probe is only consulted
// when the desired state (paused iff something else plays) differs from
// belief.
func Decide(paused, otherPlaying bool, state vlc.PlayState) Decision {
	desired := otherPlaying
	d := Decision{
		Action:       ActionNone,
		OtherPlaying: otherPlaying,
		PlayerState:  state,
		Paused:       paused,
	}

	if !needsProbe(paused, otherPlaying) {
		return d
	}
	d.Probed = true

	var actualPaused bool
	switch state {
	case vlc.StatePlaying:
		actualPaused = false
	case vlc.StatePaused, vlc.StateStopped:
		actualPaused = true
	default:
		// An unknown probe never triggers a command or moves belief
		d.Action = ActionSkip
		return d
	}

	if actualPaused == desired {
		// Changed outside this tool; a blind toggle now would undo it
		d.Action = ActionAbsorb
		d.Paused = desired
		return d
	}

	d.Action = ActionToggle
	d.Paused = !paused
	return d
}
