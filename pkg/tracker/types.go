// Package tracker decodes 4-channel tracker modules (ProTracker-style .mod files)
package tracker

// Layout constants for the fixed-size 31-sample, 4-channel module format
const (
	TitleSize         = 20
	NumSamples        = 31
	SampleRecordSize  = 30
	SampleNameSize    = 22
	PatternTableSize  = 128
	RowsPerPattern    = 64
	NumChannels       = 4
	CellSize          = 4
	FormatTagOffset   = 1080
	FormatTagSize     = 4
	PatternDataOffset = 1084
	MinModuleSize     = 1084

	// sampleTableOffset follows the title; songLengthOffset follows the sample table
	sampleTableOffset  = TitleSize
	songLengthOffset   = sampleTableOffset + NumSamples*SampleRecordSize
	patternTableOffset = songLengthOffset + 2
)

// PatternSize is the byte size of one decoded pattern
const PatternSize = RowsPerPattern * NumChannels * CellSize

// Sample holds the metadata of one sample slot. Sample data is not decoded.
type Sample struct {
	Name       string `json:"name" yaml:"name"`
	Length     int    `json:"length" yaml:"length"`         // bytes
	Finetune   uint8  `json:"finetune" yaml:"finetune"`     // low nibble only
	Volume     uint8  `json:"volume" yaml:"volume"`         // 0-64
	LoopStart  int    `json:"loop_start" yaml:"loop_start"` // bytes
	LoopLength int    `json:"loop_length" yaml:"loop_length"`
}

// Cell is one channel's data for one row
type Cell struct {
	Period      *uint16 // nil: no new note, keep whatever is sounding
	Instrument  *uint8  // 1-based sample number, nil: keep the channel's instrument
	Effect      uint8
	EffectParam uint8
}

// HasNote reports whether the cell triggers a new note
func (c Cell) HasNote() bool {
	return c.Period != nil
}

// Row holds one cell per channel
type Row [NumChannels]Cell

// Pattern is a block of 64 rows
type Pattern struct {
	Rows [RowsPerPattern]Row
}

// Song is a decoded module
type Song struct {
	Title        string
	FormatTag    string
	Samples      []Sample
	SongLength   int
	Restart      int
	PatternTable []int // truncated to SongLength
	Patterns     []Pattern
	Channels     int
}

// PatternAt resolves a pattern index. ok is false when the index lies outside
// the decoded pattern set.
func (s *Song) PatternAt(index int) (*Pattern, bool) {
	if index < 0 || index >= len(s.Patterns) {
		return nil, false
	}
	return &s.Patterns[index], true
}

// SampleAt resolves a 1-based instrument number
func (s *Song) SampleAt(instrument int) (*Sample, bool) {
	if instrument < 1 || instrument > len(s.Samples) {
		return nil, false
	}
	return &s.Samples[instrument-1], true
}
