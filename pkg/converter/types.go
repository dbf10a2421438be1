// Package converter turns decoded tracker modules into Standard MIDI Files
package converter

import "fmt"

// Timing and channel constants of the generated file
const (
	DefaultBPM             = 125.0
	DefaultTicksPerQuarter = 480
	DefaultTicksPerRow     = 120
	DefaultVelocity        = 80 // stands in for a zero sample volume
	PercussionChannel      = 9
	FallbackChannel        = 0
	NumMIDIChannels        = 16
)

// EventKind identifies an Event
type EventKind int

const (
	NoteOnEvent EventKind = iota
	NoteOffEvent
	ProgramChangeEvent
	TempoEvent
)

func (k EventKind) String() string {
	switch k {
	case NoteOnEvent:
		return "note_on"
	case NoteOffEvent:
		return "note_off"
	case ProgramChangeEvent:
		return "program_change"
	case TempoEvent:
		return "tempo"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one channel-tagged entry of the output stream
type Event struct {
	Kind     EventKind
	Delta    uint32 // ticks since the previous event
	Channel  uint8
	Note     uint8
	Velocity uint8
	Program  uint8
	BPM      float64 // TempoEvent only
}

// Sequence is an ordered event stream plus the metadata needed to write it
type Sequence struct {
	Title           string
	BPM             float64
	TicksPerQuarter uint16
	TicksPerRow     uint32
	Events          []Event

	// SkippedPatterns counts pattern table entries that did not resolve
	SkippedPatterns int
}

// TotalTicks sums the deltas of all events
func (s *Sequence) TotalTicks() uint64 {
	var total uint64
	for _, ev := range s.Events {
		total += uint64(ev.Delta)
	}
	return total
}

// Count returns how many events of kind k the sequence holds
func (s *Sequence) Count(k EventKind) int {
	n := 0
	for _, ev := range s.Events {
		if ev.Kind == k {
			n++
		}
	}
	return n
}

// Assignment maps one sample to its output channel and program
type Assignment struct {
	Channel    uint8
	Program    uint8
	HasProgram bool // false for percussion
}

// Options control a conversion
type Options struct {
	// ForcePiano sends every melodic sample to program 0
	ForcePiano bool
}
