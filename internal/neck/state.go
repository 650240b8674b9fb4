package neck

import "math"

// #region constants
const (
	LowerMin   uint16 = 0x2800
	LowerMax   uint16 = 0x9000
	UpperMin   uint16 = 0x2000
	UpperSlack uint16 = 0x800 // upper ceiling is lower+UpperSlack
	HeadStopY  uint16 = 0x3C  // lower joints stop rising when the head is above this

	// StoodUpAngle is the lower angle at which the neck counts as upstanding.
	StoodUpAngle uint16 = 0x8000

	bodyToBase    uint16 = 0x60
	segmentLength        = 20.0
	headOffset    int16  = 0x15
)

// #endregion constants

// #region state
// State is the simulated neck: two joint angles and their bounce directions.
// It is a comparable value and is used directly as a map key.
type State struct {
	// LowerAngle is the angle between the torso and the bottom two joints.
	LowerAngle uint16
	// UpperAngle is the angle between the torso and the top two joints.
	UpperAngle uint16

	LowerMovingUp bool
	UpperMovingUp bool
}

// Initial returns the neck as it sits when the bobbing starts.
func Initial() State {
	return State{
		LowerAngle: LowerMax,
		UpperAngle: LowerMax + UpperSlack,
	}
}

// #endregion state

// #region step
// Step advances the neck one frame and returns the new state.
// input reports whether the external interrupt is asserted this frame.
func (s State) Step(bodyY, delta uint16, input bool) State {
	headY := s.HeadY(bodyY)

	if s.LowerMovingUp {
		if headY < HeadStopY {
			s.LowerMovingUp = false
		} else {
			s.LowerAngle += delta
			if s.LowerAngle >= LowerMax {
				s.LowerMovingUp = false
				s.LowerAngle = LowerMax
			}
		}
	} else {
		s.LowerAngle -= delta
		if s.LowerAngle < LowerMin {
			s.LowerAngle = LowerMin
			s.LowerMovingUp = true
		}
	}

	switch {
	case s.UpperMovingUp:
		ceiling := s.LowerAngle + UpperSlack
		s.UpperAngle += delta
		if s.UpperAngle >= ceiling {
			s.UpperMovingUp = false
			s.UpperAngle = ceiling
		}
	case input:
		// Interrupt: both joints turn around and the upper angle holds this frame.
		s.UpperMovingUp = true
		s.LowerMovingUp = true
	default:
		s.UpperAngle -= delta
		if s.UpperAngle < UpperMin {
			s.UpperMovingUp = true
			s.UpperAngle = UpperMin
		}
	}

	return s
}

// #endregion step

// #region head-y
// HeadY computes the head's y position from the torso position and the joint angles.
// Negative results wrap, so a head above the top of the screen compares as large.
func (s State) HeadY(bodyY uint16) uint16 {
	base := int16(bodyY - bodyToBase)
	seg := base + segmentY(s.LowerAngle)
	return uint16(seg + segmentY(s.UpperAngle) - headOffset)
}

// segmentY is the vertical extent of one 20-unit segment at a raw angle.
// Only the high byte of the angle is significant: 256 steps per circle.
func segmentY(raw uint16) int16 {
	rad := float64(raw/0x100) * math.Pi / 128
	return int16(math.Floor(segmentLength * math.Cos(rad)))
}

// #endregion head-y

// #region bounds
// InBounds reports whether s satisfies the angle envelope every reachable state obeys.
// The upper angle may exceed its ceiling only on the frame an interrupt happened,
// in which case both joints are moving up.
func (s State) InBounds() bool {
	if s.LowerAngle < LowerMin || s.LowerAngle > LowerMax {
		return false
	}
	if s.UpperAngle < UpperMin || s.UpperAngle > LowerMax+UpperSlack {
		return false
	}
	if s.UpperAngle > s.LowerAngle+UpperSlack {
		return s.LowerMovingUp && s.UpperMovingUp
	}
	return true
}

// #endregion bounds
