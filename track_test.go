package danmaku

import (
	"testing"
	"time"
)

func TestTrackBottom(t *testing.T) {
	tr := NewTrack(1, 10, 40)
	if tr.Bottom != 50 {
		t.Errorf("Bottom = %v, want 50", tr.Bottom)
	}
}

func TestTrackAttachAlignment(t *testing.T) {
	tests := []struct {
		align Alignment
		want  float64
	}{
		{AlignTop, 100},
		{AlignCenter, 110}, // 100 + (40-20)/2
		{AlignBottom, 120}, // 100 + 40 - 20
	}
	for _, tt := range tests {
		t.Run(tt.align.String(), func(t *testing.T) {
			tl, st := newRig(1000, 300)
			it := mountedItem(tl, st, "abc", time.Second, ToLeft)
			tr := NewTrack(3, 100, 40)

			tr.Attach(it, tt.align)

			if y := it.Node().(*StageNode).Bounds().Y; y != tt.want {
				t.Errorf("top = %v, want %v", y, tt.want)
			}
			if it.TrackID() != 3 {
				t.Errorf("TrackID = %d, want 3", it.TrackID())
			}
		})
	}
}

func TestTrackAttachUnknownAlignmentPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown alignment")
		}
	}()
	tl, st := newRig(1000, 300)
	NewTrack(1, 0, 40).Attach(mountedItem(tl, st, "a", time.Second, ToLeft), Alignment(9))
}

func TestTrackPeekLastFollowsLaunchOrder(t *testing.T) {
	tl, st := newRig(1000, 300)
	tr := NewTrack(1, 0, 40)
	if tr.PeekLast() != nil {
		t.Fatal("empty track returned an item")
	}

	a := mountedItem(tl, st, "a", time.Second, ToLeft)
	b := mountedItem(tl, st, "b", time.Second, ToLeft)
	tr.Attach(a, AlignTop)
	tr.Attach(b, AlignTop)
	if tr.PeekLast() != b {
		t.Fatal("PeekLast is not the newest item")
	}

	tr.Detach(b)
	if tr.PeekLast() != a {
		t.Fatal("PeekLast after detaching the newest is not the previous item")
	}
	if b.TrackID() != 0 {
		t.Errorf("detached item TrackID = %d, want 0", b.TrackID())
	}

	tr.Detach(b) // absent: no-op
	if tr.Len() != 1 {
		t.Errorf("Len = %d, want 1", tr.Len())
	}
}

func TestItemAttachKeepsFirstTrack(t *testing.T) {
	tl, st := newRig(1000, 300)
	it := mountedItem(tl, st, "a", time.Second, ToLeft)
	first := NewTrack(1, 0, 40)
	second := NewTrack(2, 50, 40)

	it.Attach(first, AlignTop)
	it.Attach(second, AlignTop)

	if it.TrackID() != 1 || second.Len() != 0 {
		t.Errorf("TrackID = %d second.Len = %d, want 1 and 0", it.TrackID(), second.Len())
	}
}

func TestTrackCancelEndsItems(t *testing.T) {
	tl, st := newRig(1000, 300)
	tr := NewTrack(1, 0, 40)
	var items []*Item
	ends, cancels := 0, 0
	for _, s := range []string{"a", "b"} {
		it := mountedItem(tl, st, s, time.Second, ToLeft)
		it.Hooks().End.Tap(func(i *Item) {
			ends++
			tr.Detach(i)
		})
		it.Hooks().Cancel.Tap(func(*Item) { cancels++ })
		tr.Attach(it, AlignTop)
		it.Play()
		items = append(items, it)
	}

	tr.Cancel()

	if ends != 2 || cancels != 0 {
		t.Errorf("ends = %d cancels = %d, want 2 and 0", ends, cancels)
	}
	if tr.Len() != 0 {
		t.Errorf("Len = %d, want 0", tr.Len())
	}
	for _, it := range items {
		if it.Status() != StatusIdle {
			t.Errorf("item %d status = %s, want idle", it.ID, it.Status())
		}
	}
}
