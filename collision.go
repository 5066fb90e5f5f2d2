package danmaku

// Mover is the view of a moving caption that launch prediction needs.
// *Item implements it.
type Mover interface {
	// Speed is the constant horizontal speed in pixels per millisecond.
	Speed() float64
	// Width is the measured caption width.
	Width() float64
	// MovedDistance is how far the caption's leading edge has travelled.
	MovedDistance() float64
	// ContainerWidth is the surface width the caption was measured against.
	ContainerWidth() float64
}

// MayLaunch reports whether cur can enter the track whose most recently
// launched caption is prev while keeping at least minGap pixels between
// them until prev has left the surface.
//
// A slower or equally fast candidate only needs the current gap. A faster
// candidate closes the gap over time, so it may launch only when prev exits
// before the gap shrinks to minGap.
func MayLaunch(prev, cur Mover, minGap float64) bool {
	pv := prev.Speed()
	cv := cur.Speed()

	gap := prev.MovedDistance() - prev.Width()
	if gap < 0 {
		return false
	}

	if pv >= cv {
		return gap >= minGap
	}

	remainDist := prev.ContainerWidth() - gap + minGap
	remainTime := remainDist / pv
	catchupTime := (gap - minGap) / (cv - pv)

	return catchupTime > remainTime
}
