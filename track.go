package danmaku

import "fmt"

// TrackID is a non-owning handle to a Track. Zero means no track.
type TrackID uint32

// Track is one horizontal lane. It holds the items moving through it in
// launch order; only the newest one is consulted when launching.
type Track struct {
	ID     TrackID
	Top    float64
	Height float64
	Bottom float64

	items []*Item
}

// NewTrack creates an empty lane spanning [top, top+height).
func NewTrack(id TrackID, top, height float64) *Track {
	return &Track{ID: id, Top: top, Height: height, Bottom: top + height}
}

// Attach appends it to the lane and positions it vertically per a.
func (t *Track) Attach(it *Item, a Alignment) {
	t.items = append(t.items, it)
	it.track = t.ID
	if it.node != nil {
		it.node.SetTop(t.position(it, a))
	}
}

// Detach removes it from the lane. Items not on the lane are ignored.
func (t *Track) Detach(it *Item) {
	for i, other := range t.items {
		if other == it {
			t.items = append(t.items[:i], t.items[i+1:]...)
			it.track = 0
			return
		}
	}
}

// PeekLast returns the most recently attached item, or nil when empty.
func (t *Track) PeekLast() *Item {
	if len(t.items) == 0 {
		return nil
	}
	return t.items[len(t.items)-1]
}

// Cancel force-ends every item on the lane. Items report End, not Cancel,
// so screen-empty and finish accounting treat them as completed.
func (t *Track) Cancel() {
	for _, it := range append([]*Item(nil), t.items...) {
		it.end()
	}
}

// Len returns the number of items on the lane.
func (t *Track) Len() int {
	return len(t.items)
}

// Items returns the lane's items in launch order.
func (t *Track) Items() []*Item {
	return append([]*Item(nil), t.items...)
}

func (t *Track) position(it *Item, a Alignment) float64 {
	switch a {
	case AlignTop:
		return t.Top
	case AlignCenter:
		return t.Top + (t.Height-it.height)/2
	case AlignBottom:
		return t.Top + t.Height - it.height
	default:
		panic(fmt.Sprintf("danmaku: unexpected alignment %d", uint8(a)))
	}
}
