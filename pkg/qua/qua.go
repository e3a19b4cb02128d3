// Package qua provides the data model and YAML codec for Quaver .qua
// beatmap files.
//
// A .qua file is a YAML document describing one playable difficulty of a
// mapset: song metadata, the game mode (which fixes the lane count), timing
// points, scroll velocity changes, and the hit objects themselves. List
// order in the file is chart order and is preserved by the codec; nothing
// here re-sorts entities.
package qua

// Mode identifies the keymode a map is charted for.
type Mode string

// Supported keymodes. Quaver ships 4K and 7K.
const (
	ModeKeys4 Mode = "Keys4"
	ModeKeys7 Mode = "Keys7"
)

// KeyCount returns the number of lanes for the mode, or 0 for an
// unrecognized mode. Callers are expected to treat 0 as "no playfield"
// rather than an error; analysis layers surface it in their own terms.
func (m Mode) KeyCount() int {
	switch m {
	case ModeKeys4:
		return 4
	case ModeKeys7:
		return 7
	default:
		return 0
	}
}

// TimingPoint marks a BPM change taking effect at StartTime.
//
// StartTime is fractional milliseconds: the editor snaps timing lines to
// beat subdivisions, so exact sub-millisecond values occur in real maps.
type TimingPoint struct {
	StartTime float64 `yaml:"StartTime"`
	BPM       float64 `yaml:"Bpm"`
	Signature int     `yaml:"Signature,omitempty"`
}

// SliderVelocity marks a scroll speed multiplier taking effect at StartTime.
type SliderVelocity struct {
	StartTime  float64 `yaml:"StartTime"`
	Multiplier float64 `yaml:"Multiplier"`
}

// KeySound references a custom audio sample played when an object is hit.
type KeySound struct {
	Sample int `yaml:"Sample"`
	Volume int `yaml:"Volume"`
}

// HitObject is a single note in one lane. Lane is 1-indexed up to the
// mode's key count. EndTime is zero for a regular tap note; any non-zero
// value marks a long note held from StartTime to EndTime. Negative times
// are representable - objects (and long note tails) can sit before the
// audio starts in malformed charts, and analysis needs to see them.
type HitObject struct {
	StartTime int        `yaml:"StartTime"`
	Lane      int        `yaml:"Lane"`
	EndTime   int        `yaml:"EndTime,omitempty"`
	KeySounds []KeySound `yaml:"KeySounds"`
}

// IsLongNote reports whether the object has an end time.
func (h *HitObject) IsLongNote() bool { return h.EndTime != 0 }

// Qua is one parsed .qua difficulty. Field names mirror the YAML keys
// written by the Quaver editor.
type Qua struct {
	AudioFile       string `yaml:"AudioFile"`
	SongPreviewTime int    `yaml:"SongPreviewTime"`
	BackgroundFile  string `yaml:"BackgroundFile"`
	MapID           int    `yaml:"MapId"`
	MapSetID        int    `yaml:"MapSetId"`
	Mode            Mode   `yaml:"Mode"`
	Title           string `yaml:"Title"`
	Artist          string `yaml:"Artist"`
	Source          string `yaml:"Source"`
	Tags            string `yaml:"Tags"`
	Creator         string `yaml:"Creator"`
	DifficultyName  string `yaml:"DifficultyName"`
	Description     string `yaml:"Description"`

	InitialScrollVelocity          float64 `yaml:"InitialScrollVelocity,omitempty"`
	BPMDoesNotAffectScrollVelocity bool    `yaml:"BPMDoesNotAffectScrollVelocity,omitempty"`

	TimingPoints     []TimingPoint    `yaml:"TimingPoints"`
	SliderVelocities []SliderVelocity `yaml:"SliderVelocities"`
	HitObjects       []HitObject      `yaml:"HitObjects"`
}

// KeyCount returns the lane count implied by the map's mode.
func (q *Qua) KeyCount() int { return q.Mode.KeyCount() }

// Length returns the chart length in milliseconds: the latest start or end
// time of any hit object, or 0 for an empty chart.
func (q *Qua) Length() int {
	length := 0
	for i := range q.HitObjects {
		h := &q.HitObjects[i]
		if h.StartTime > length {
			length = h.StartTime
		}
		if h.EndTime > length {
			length = h.EndTime
		}
	}
	return length
}

// LongNoteCount returns the number of hit objects with an end time.
func (q *Qua) LongNoteCount() int {
	n := 0
	for i := range q.HitObjects {
		if q.HitObjects[i].IsLongNote() {
			n++
		}
	}
	return n
}
