package converter

import (
	"github.com/james-see/mod2midi/pkg/classifier"
	"github.com/james-see/mod2midi/pkg/tracker"
)

// ClassifySamples runs the classifier over every sample name in table order
func ClassifySamples(song *tracker.Song) []classifier.Classification {
	classes := make([]classifier.Classification, len(song.Samples))
	for i, smp := range song.Samples {
		classes[i] = classifier.Classify(smp.Name)
	}
	return classes
}

// Assign gives each sample a MIDI channel and program. Percussion goes to
// PercussionChannel; each melodic sample takes the next free channel and,
// once the pool is used up, shares FallbackChannel.
func Assign(classes []classifier.Classification, forcePiano bool) []Assignment {
	assigns := make([]Assignment, len(classes))
	next := 0
	for i, c := range classes {
		if c.Role == classifier.Percussion {
			assigns[i] = Assignment{Channel: PercussionChannel}
			continue
		}

		program := c.ProgramOr(0)
		if forcePiano {
			program = 0
		}

		for next < NumMIDIChannels && next == PercussionChannel {
			next++
		}
		channel := uint8(FallbackChannel)
		if next < NumMIDIChannels {
			channel = uint8(next)
			next++
		}

		assigns[i] = Assignment{Channel: channel, Program: uint8(program), HasProgram: true}
	}
	return assigns
}

// Velocity scales a 0-64 sample volume to 1-127. Zero volume means unset,
// not silent.
func Velocity(volume uint8) uint8 {
	v := int(volume) * 127 / 64
	if v < 1 {
		return DefaultVelocity
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}

// emitter holds the per-conversion state carried across rows
type emitter struct {
	song    *tracker.Song
	assigns []Assignment
	current [tracker.NumChannels]int // 0-based sample per tracker channel, -1 for none
	usage   []sampleUsage
	seq     *Sequence
}

// sampleUsage records the notes one sample played
type sampleUsage struct {
	count     int
	low, high uint8
}

func (u *sampleUsage) add(note uint8) {
	if u.count == 0 || note < u.low {
		u.low = note
	}
	if u.count == 0 || note > u.high {
		u.high = note
	}
	u.count++
}

// Emit walks the song in playback order and builds the event stream
func Emit(song *tracker.Song, classes []classifier.Classification, opts Options) *Sequence {
	return emit(song, classes, opts).seq
}

func emit(song *tracker.Song, classes []classifier.Classification, opts Options) *emitter {
	e := &emitter{
		song:    song,
		assigns: Assign(classes, opts.ForcePiano),
		usage:   make([]sampleUsage, len(song.Samples)),
		seq: &Sequence{
			Title:           song.Title,
			BPM:             DefaultBPM,
			TicksPerQuarter: DefaultTicksPerQuarter,
			TicksPerRow:     DefaultTicksPerRow,
		},
	}
	for ch := range e.current {
		e.current[ch] = -1
	}

	e.programChanges()
	for _, index := range song.PatternTable {
		pattern, ok := song.PatternAt(index)
		if !ok {
			e.seq.SkippedPatterns++
			continue
		}
		for r := range pattern.Rows {
			e.row(&pattern.Rows[r])
		}
	}
	return e
}

func (e *emitter) programChanges() {
	type key struct{ channel, program uint8 }
	done := make(map[key]bool)
	for _, a := range e.assigns {
		if !a.HasProgram {
			continue
		}
		k := key{a.Channel, a.Program}
		if done[k] {
			continue
		}
		done[k] = true
		e.seq.Events = append(e.seq.Events, Event{
			Kind:    ProgramChangeEvent,
			Channel: a.Channel,
			Program: a.Program,
		})
	}
}

// row emits one tracker row. Every row spans exactly TicksPerRow: notes start
// together at the row boundary and stop together one row later, and a row
// without notes advances the clock with a tempo event.
func (e *emitter) row(row *tracker.Row) {
	var ons []Event
	for ch, cell := range row {
		if cell.Instrument != nil {
			if _, ok := e.song.SampleAt(int(*cell.Instrument)); ok {
				e.current[ch] = int(*cell.Instrument) - 1
			}
		}
		inst := e.current[ch]
		if inst < 0 || inst >= len(e.assigns) || cell.Period == nil {
			continue
		}

		note := PeriodToNote(*cell.Period)
		e.usage[inst].add(note)
		ons = append(ons, Event{
			Kind:     NoteOnEvent,
			Channel:  e.assigns[inst].Channel,
			Note:     note,
			Velocity: Velocity(e.song.Samples[inst].Volume),
		})
	}

	if len(ons) == 0 {
		e.seq.Events = append(e.seq.Events, Event{
			Kind:  TempoEvent,
			Delta: e.seq.TicksPerRow,
			BPM:   e.seq.BPM,
		})
		return
	}

	e.seq.Events = append(e.seq.Events, ons...)
	for i, on := range ons {
		off := Event{Kind: NoteOffEvent, Channel: on.Channel, Note: on.Note}
		if i == 0 {
			off.Delta = e.seq.TicksPerRow
		}
		e.seq.Events = append(e.seq.Events, off)
	}
}
