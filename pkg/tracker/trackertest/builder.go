// Package trackertest builds module byte buffers for tests
package trackertest

import (
	"encoding/binary"

	"github.com/james-see/mod2midi/pkg/tracker"
)

// Note describes one cell written by the builder
type Note struct {
	Period      uint16
	Instrument  uint8
	Effect      uint8
	EffectParam uint8
}

// SampleSpec describes one sample record
type SampleSpec struct {
	Name       string
	Length     int // bytes, stored as words
	Finetune   uint8
	Volume     uint8
	LoopStart  int
	LoopLength int
}

// Builder assembles a module in the 31-sample, 4-channel layout
type Builder struct {
	Title      string
	Tag        string
	Samples    [tracker.NumSamples]SampleSpec
	Table      [tracker.PatternTableSize]uint8
	SongLength uint8
	Restart    uint8
	Patterns   [][tracker.RowsPerPattern][tracker.NumChannels]Note
}

// New returns a builder with the M.K. tag and one empty pattern
func New() *Builder {
	return &Builder{
		Tag:      "M.K.",
		Patterns: make([][tracker.RowsPerPattern][tracker.NumChannels]Note, 1),
	}
}

// SetNote writes a cell, growing the pattern set as needed
func (b *Builder) SetNote(pattern, row, channel int, n Note) *Builder {
	for len(b.Patterns) <= pattern {
		b.Patterns = append(b.Patterns, [tracker.RowsPerPattern][tracker.NumChannels]Note{})
	}
	b.Patterns[pattern][row][channel] = n
	return b
}

// SetOrder sets the used prefix of the pattern table
func (b *Builder) SetOrder(order ...uint8) *Builder {
	copy(b.Table[:], order)
	b.SongLength = uint8(len(order))
	return b
}

// Bytes encodes the module. Pattern data follows the tag at 1084.
func (b *Builder) Bytes() []byte {
	data := make([]byte, tracker.PatternDataOffset+len(b.Patterns)*tracker.PatternSize)
	copy(data[:tracker.TitleSize], b.Title)

	pos := tracker.TitleSize
	for _, s := range b.Samples {
		copy(data[pos:pos+tracker.SampleNameSize], s.Name)
		binary.BigEndian.PutUint16(data[pos+22:], uint16(s.Length/2))
		data[pos+24] = s.Finetune
		data[pos+25] = s.Volume
		binary.BigEndian.PutUint16(data[pos+26:], uint16(s.LoopStart/2))
		binary.BigEndian.PutUint16(data[pos+28:], uint16(s.LoopLength/2))
		pos += tracker.SampleRecordSize
	}

	data[pos] = b.SongLength
	data[pos+1] = b.Restart
	copy(data[pos+2:], b.Table[:])
	copy(data[tracker.FormatTagOffset:tracker.FormatTagOffset+tracker.FormatTagSize], b.Tag)

	pos = tracker.PatternDataOffset
	for _, p := range b.Patterns {
		for row := range p {
			for _, n := range p[row] {
				data[pos] = n.Instrument&0xF0 | uint8(n.Period>>8)&0x0F
				data[pos+1] = uint8(n.Period)
				data[pos+2] = n.Instrument<<4 | n.Effect&0x0F
				data[pos+3] = n.EffectParam
				pos += tracker.CellSize
			}
		}
	}
	return data
}
