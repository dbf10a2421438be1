package tracker

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrTooShort is wrapped by the FormatError returned for buffers below MinModuleSize
var ErrTooShort = errors.New("module data too short")

// FormatError reports a structural problem with the module bytes
type FormatError struct {
	Offset int // first byte of the failed read
	Need   int // bytes the read required
	Have   int // total buffer length
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid module: %s (need %d bytes at offset %d, have %d)", e.Reason, e.Need, e.Offset, e.Have)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// recognizedTags are the 4-channel tags whose pattern data starts at PatternDataOffset
var recognizedTags = map[string]bool{
	"M.K.": true,
	"M!K!": true,
	"4CHN": true,
	"FLT4": true,
}

// IsRecognizedTag reports whether tag is one of the known 4-channel format tags
func IsRecognizedTag(tag string) bool {
	return recognizedTags[tag]
}

// Decode parses a module buffer into a Song
func Decode(data []byte) (*Song, error) {
	if len(data) < MinModuleSize {
		return nil, &FormatError{
			Offset: 0,
			Need:   MinModuleSize,
			Have:   len(data),
			Reason: "buffer shorter than header, sample table and pattern table",
			Err:    ErrTooShort,
		}
	}

	song := &Song{
		Title:    decodeText(data[:TitleSize]),
		Samples:  make([]Sample, 0, NumSamples),
		Channels: NumChannels,
	}

	pos := sampleTableOffset
	for i := 0; i < NumSamples; i++ {
		song.Samples = append(song.Samples, decodeSample(data[pos:pos+SampleRecordSize]))
		pos += SampleRecordSize
	}

	song.SongLength = int(data[songLengthOffset])
	song.Restart = int(data[songLengthOffset+1])

	table := data[patternTableOffset : patternTableOffset+PatternTableSize]

	// Pattern count comes from the whole table, not just the used prefix
	highest := 0
	for _, p := range table {
		if int(p) > highest {
			highest = int(p)
		}
	}
	numPatterns := highest + 1

	used := song.SongLength
	if used > PatternTableSize {
		used = PatternTableSize
	}
	song.PatternTable = make([]int, used)
	for i := 0; i < used; i++ {
		song.PatternTable[i] = int(table[i])
	}

	song.FormatTag = decodeText(data[FormatTagOffset : FormatTagOffset+FormatTagSize])

	// Unknown tags put pattern data right after the pattern table, overlapping the tag
	patternPos := patternTableOffset + PatternTableSize
	if IsRecognizedTag(song.FormatTag) {
		patternPos = PatternDataOffset
	}

	song.Patterns = make([]Pattern, numPatterns)
	for n := 0; n < numPatterns; n++ {
		if patternPos+PatternSize > len(data) {
			return nil, &FormatError{
				Offset: patternPos,
				Need:   PatternSize,
				Have:   len(data),
				Reason: fmt.Sprintf("pattern %d of %d runs past end of data", n, numPatterns),
			}
		}
		decodePattern(&song.Patterns[n], data[patternPos:patternPos+PatternSize])
		patternPos += PatternSize
	}

	return song, nil
}

func decodeSample(rec []byte) Sample {
	return Sample{
		Name:       decodeText(rec[:SampleNameSize]),
		Length:     int(binary.BigEndian.Uint16(rec[22:24])) * 2,
		Finetune:   rec[24] & 0x0F,
		Volume:     rec[25],
		LoopStart:  int(binary.BigEndian.Uint16(rec[26:28])) * 2,
		LoopLength: int(binary.BigEndian.Uint16(rec[28:30])) * 2,
	}
}

func decodePattern(p *Pattern, data []byte) {
	for row := 0; row < RowsPerPattern; row++ {
		for ch := 0; ch < NumChannels; ch++ {
			off := (row*NumChannels + ch) * CellSize
			p.Rows[row][ch] = decodeCell(data[off : off+CellSize])
		}
	}
}

// decodeCell unpacks the 4-byte cell:
//
//	byte0: instrument high nibble | period bits 11-8
//	byte1: period bits 7-0
//	byte2: instrument low nibble | effect
//	byte3: effect parameter
func decodeCell(b []byte) Cell {
	cell := Cell{
		Effect:      b[2] & 0x0F,
		EffectParam: b[3],
	}
	if period := uint16(b[0]&0x0F)<<8 | uint16(b[1]); period != 0 {
		cell.Period = &period
	}
	if inst := b[0]&0xF0 | b[2]>>4; inst != 0 {
		cell.Instrument = &inst
	}
	return cell
}

// decodeText reads a fixed-width ASCII field, replacing non-ASCII bytes and
// trimming null padding
func decodeText(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c < utf8.RuneSelf {
			sb.WriteByte(c)
		} else {
			sb.WriteRune(utf8.RuneError)
		}
	}
	return strings.Trim(sb.String(), "\x00")
}
