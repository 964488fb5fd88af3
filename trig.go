package main

import "math"

const (
	TRIG_MAX_ANGLE = 0x10000 // one full turn on the integer circle
	TRIG_MAX_RATIO = 0xffff  // fixed-point scale of sinLookup/cosLookup results

	trigQuarter = TRIG_MAX_ANGLE / 4
)

// quarter-wave sine table, trigQuarter+1 entries covering [0, 90] degrees
var sinTable [trigQuarter + 1]int32

func init() {
	for i := range sinTable {
		sinTable[i] = int32(math.Round(math.Sin(float64(i)*math.Pi/2/trigQuarter) * TRIG_MAX_RATIO))
	}
}

// sinLookup returns sin(angle) scaled by TRIG_MAX_RATIO. angle is on the
// TRIG_MAX_ANGLE circle and wraps in both directions.
func sinLookup(angle int32) int32 {
	a := angle & (TRIG_MAX_ANGLE - 1)
	idx := a & (trigQuarter - 1)
	switch a / trigQuarter {
	case 0:
		return sinTable[idx]
	case 1:
		return sinTable[trigQuarter-idx]
	case 2:
		return -sinTable[idx]
	default:
		return -sinTable[trigQuarter-idx]
	}
}

// cosLookup returns cos(angle) scaled by TRIG_MAX_RATIO.
func cosLookup(angle int32) int32 {
	return sinLookup(angle + trigQuarter)
}

// degToTrigAngle maps degrees onto the integer circle, truncating toward zero.
func degToTrigAngle(deg float64) int32 {
	return int32(deg * TRIG_MAX_ANGLE / 360)
}
