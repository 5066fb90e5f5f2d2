package danmaku

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testPlaylist = `
defaults:
  min_duration: 2s
  max_duration: 4s
  loop: false
  style:
    color: white
captions:
  - text: first
  - text: second
    duration: 9s
    direction: to_right
    loop: true
    style:
      color: red
`

func TestParsePlaylistEntriesAndOverrides(t *testing.T) {
	p, err := ParsePlaylist([]byte(testPlaylist))
	if err != nil {
		t.Fatalf("ParsePlaylist: %v", err)
	}
	captions := p.Build(rand.New(rand.NewPCG(1, 2)))
	if len(captions) != 2 {
		t.Fatalf("captions = %d, want 2", len(captions))
	}

	first, second := captions[0], captions[1]
	if first.Duration < 2*time.Second || first.Duration > 4*time.Second {
		t.Errorf("first duration = %v, want within [2s, 4s]", first.Duration)
	}
	if first.Direction != ToLeft || first.Loop || first.Style["color"] != "white" {
		t.Errorf("first = %+v, want defaults", first)
	}
	if !first.CloneContent {
		t.Error("clone_content default lost")
	}
	if second.Duration != 9*time.Second || second.Direction != ToRight || !second.Loop {
		t.Errorf("second = %+v, want overrides", second)
	}
	if second.Style["color"] != "red" {
		t.Errorf("second color = %q, want red", second.Style["color"])
	}
	if PlainText(second.Content) != "second" {
		t.Errorf("second text = %q", PlainText(second.Content))
	}
}

func TestParsePlaylistRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty text", "captions:\n  - text: ''\n"},
		{"inverted range", "defaults:\n  min_duration: 5s\n  max_duration: 1s\n"},
		{"bad direction", "captions:\n  - text: a\n    direction: up\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePlaylist([]byte(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPlaylistFromLines(t *testing.T) {
	p, err := PlaylistFromLines(strings.NewReader("hello\n\n  world  \n"), DefaultPlaylistDefaults())
	if err != nil {
		t.Fatalf("PlaylistFromLines: %v", err)
	}
	if len(p.Captions) != 2 || p.Captions[1].Text != "world" {
		t.Fatalf("captions = %+v", p.Captions)
	}

	for _, c := range p.Build(rand.New(rand.NewPCG(3, 4))) {
		if c.Duration < 7*time.Second || c.Duration > 14*time.Second {
			t.Errorf("duration = %v, want within [7s, 14s]", c.Duration)
		}
		if !c.Loop {
			t.Error("line captions should loop by default")
		}
	}
}

func TestPlaylistBuildIsDeterministicForSeed(t *testing.T) {
	p, err := PlaylistFromLines(strings.NewReader("a\nb\nc\n"), DefaultPlaylistDefaults())
	if err != nil {
		t.Fatal(err)
	}
	a := p.Build(rand.New(rand.NewPCG(7, 7)))
	b := p.Build(rand.New(rand.NewPCG(7, 7)))
	for i := range a {
		if a[i].Duration != b[i].Duration {
			t.Errorf("caption %d: %v != %v", i, a[i].Duration, b[i].Duration)
		}
	}
}

func TestLoadPlaylistByExtension(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "captions.txt")
	yml := filepath.Join(dir, "captions.yaml")
	if err := os.WriteFile(txt, []byte("one\ntwo\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(yml, []byte(testPlaylist), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadPlaylist(txt)
	if err != nil || len(p.Captions) != 2 {
		t.Fatalf("txt: %v, %+v", err, p)
	}
	p, err = LoadPlaylist(yml)
	if err != nil || len(p.Captions) != 2 || p.Defaults.MinDuration != 2*time.Second {
		t.Fatalf("yaml: %v, %+v", err, p)
	}
}
