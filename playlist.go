package danmaku

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// PlaylistDefaults applies to every playlist entry that does not override
// it. Entries without a duration get a random one in
// [MinDuration, MaxDuration].
type PlaylistDefaults struct {
	MinDuration  time.Duration `yaml:"min_duration"`
	MaxDuration  time.Duration `yaml:"max_duration"`
	Direction    Direction     `yaml:"direction"`
	Loop         bool          `yaml:"loop"`
	CloneContent bool          `yaml:"clone_content"`
	Style        Style         `yaml:"style"`
}

// PlaylistEntry is one text caption.
type PlaylistEntry struct {
	Text      string        `yaml:"text"`
	Duration  time.Duration `yaml:"duration"`
	Direction *Direction    `yaml:"direction"`
	Loop      *bool         `yaml:"loop"`
	Style     Style         `yaml:"style"`
}

// Playlist is a YAML list of text captions.
type Playlist struct {
	Defaults PlaylistDefaults `yaml:"defaults"`
	Captions []PlaylistEntry  `yaml:"captions"`
}

// DefaultPlaylistDefaults returns 7-14 second looping captions entering
// from the right.
func DefaultPlaylistDefaults() PlaylistDefaults {
	return PlaylistDefaults{
		MinDuration:  7 * time.Second,
		MaxDuration:  14 * time.Second,
		Direction:    ToLeft,
		Loop:         true,
		CloneContent: true,
	}
}

// ParsePlaylist decodes and validates a YAML playlist.
func ParsePlaylist(data []byte) (*Playlist, error) {
	p := &Playlist{Defaults: DefaultPlaylistDefaults()}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("danmaku: parse playlist: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadPlaylist reads a playlist file. Files ending in .txt hold one caption
// per line; anything else is parsed as YAML.
func LoadPlaylist(path string) (*Playlist, error) {
	if strings.HasSuffix(path, ".txt") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("danmaku: open playlist %s: %w", path, err)
		}
		defer f.Close()
		return PlaylistFromLines(f, DefaultPlaylistDefaults())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("danmaku: read playlist %s: %w", path, err)
	}
	p, err := ParsePlaylist(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// PlaylistFromLines builds a playlist with one entry per non-blank line.
func PlaylistFromLines(r io.Reader, defaults PlaylistDefaults) (*Playlist, error) {
	p := &Playlist{Defaults: defaults}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		p.Captions = append(p.Captions, PlaylistEntry{Text: line})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("danmaku: read playlist lines: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the duration range and every entry.
func (p *Playlist) Validate() error {
	d := p.Defaults
	if d.MinDuration <= 0 || d.MaxDuration < d.MinDuration {
		return fmt.Errorf("danmaku: playlist duration range [%v, %v] is invalid", d.MinDuration, d.MaxDuration)
	}
	for i, e := range p.Captions {
		if e.Text == "" {
			return fmt.Errorf("danmaku: playlist entry %d has no text", i)
		}
		if e.Duration < 0 {
			return fmt.Errorf("danmaku: playlist entry %d has negative duration", i)
		}
	}
	return nil
}

// Build converts the playlist into captions, drawing missing durations from
// rng. A nil rng uses the global source.
func (p *Playlist) Build(rng *rand.Rand) []*Caption {
	out := make([]*Caption, 0, len(p.Captions))
	for _, e := range p.Captions {
		d := p.Defaults
		c := &Caption{
			Duration:     e.Duration,
			Direction:    d.Direction,
			Loop:         d.Loop,
			Style:        d.Style.Merge(e.Style),
			Content:      []Content{Text{Value: e.Text}},
			CloneContent: d.CloneContent,
		}
		if c.Duration == 0 {
			c.Duration = randomDuration(rng, d.MinDuration, d.MaxDuration)
		}
		if e.Direction != nil {
			c.Direction = *e.Direction
		}
		if e.Loop != nil {
			c.Loop = *e.Loop
		}
		out = append(out, c)
	}
	return out
}

func randomDuration(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	span := int64(hi-lo) + 1
	if rng == nil {
		return lo + time.Duration(rand.Int64N(span))
	}
	return lo + time.Duration(rng.Int64N(span))
}
