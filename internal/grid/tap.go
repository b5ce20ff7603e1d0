package grid

import "fmt"

// TapAngle is a discrete rotation state in 45° increments, borrowed from the
// trading-card-game convention of "tapping" a card to mark it activated.
type TapAngle int

// TapAngles is the fixed rotation cycle in clockwise order.
var TapAngles = [8]TapAngle{0, 45, 90, 135, 180, 225, 270, 315}

// ValidTapAngle reports whether a is one of the eight cycle positions.
func ValidTapAngle(a TapAngle) bool {
	return a >= 0 && a < 360 && a%45 == 0
}

// tapIndex returns the cycle position of a valid angle.
func tapIndex(a TapAngle) int {
	return int(a) / 45
}

// Clockwise returns the next angle in the cycle, wrapping 315 back to 0.
func (a TapAngle) Clockwise() TapAngle {
	return TapAngles[(tapIndex(a)+1)%len(TapAngles)]
}

// CounterClockwise returns the previous angle in the cycle, wrapping 0 to 315.
func (a TapAngle) CounterClockwise() TapAngle {
	n := len(TapAngles)
	return TapAngles[(tapIndex(a)+n-1)%n]
}

// Label returns the accessible description of the rotation state. Angles past
// 180° are described counterclockwise so the smaller magnitude is spoken
// (225 reads as 135° counterclockwise, not 225° clockwise).
func (a TapAngle) Label() string {
	switch a {
	case 0:
		return "upright"
	case 90:
		return "tapped"
	case 180:
		return "inverted"
	case 270:
		return "tapped counterclockwise"
	case 45, 135:
		return fmt.Sprintf("tilted %d degrees clockwise", int(a))
	case 225, 315:
		return fmt.Sprintf("tilted %d degrees counterclockwise", 360-int(a))
	default:
		return "unknown"
	}
}

// TappedLabel composes an item label with its rotation description,
// e.g. "queen of hearts, tapped".
func TappedLabel(itemLabel string, a TapAngle) string {
	return fmt.Sprintf("%s, %s", itemLabel, a.Label())
}
