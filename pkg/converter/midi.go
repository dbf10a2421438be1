package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// MIDIConverter handles MIDI file generation and parsing
type MIDIConverter struct {
	ticksPerQuarter uint16
	tempo           float64
}

// NewMIDIConverter creates a new MIDI converter
func NewMIDIConverter() *MIDIConverter {
	return &MIDIConverter{
		ticksPerQuarter: DefaultTicksPerQuarter,
		tempo:           DefaultBPM,
	}
}

// GenerateMIDI writes a Sequence as a single-track SMF: track name, tempo,
// then the event stream
func (m *MIDIConverter) GenerateMIDI(seq *Sequence) ([]byte, error) {
	if seq == nil {
		return nil, errors.New("nil sequence")
	}

	tpq := seq.TicksPerQuarter
	if tpq == 0 {
		tpq = m.ticksPerQuarter
	}
	bpm := seq.BPM
	if bpm <= 0 {
		bpm = m.tempo
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(tpq)

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(seq.Title))
	track.Add(0, smf.MetaTempo(bpm))

	for i, ev := range seq.Events {
		msg, err := eventMessage(ev, bpm)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		track.Add(ev.Delta, msg)
	}

	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}

	return buf.Bytes(), nil
}

func eventMessage(ev Event, bpm float64) ([]byte, error) {
	if ev.Channel > 15 {
		return nil, fmt.Errorf("channel %d out of range", ev.Channel)
	}
	switch ev.Kind {
	case NoteOnEvent:
		return midi.NoteOn(ev.Channel, ev.Note, ev.Velocity), nil
	case NoteOffEvent:
		return midi.NoteOff(ev.Channel, ev.Note), nil
	case ProgramChangeEvent:
		return midi.ProgramChange(ev.Channel, ev.Program), nil
	case TempoEvent:
		if ev.BPM > 0 {
			bpm = ev.BPM
		}
		return smf.MetaTempo(bpm), nil
	default:
		return nil, fmt.Errorf("unknown event kind %v", ev.Kind)
	}
}

// WriteMIDIFile writes MIDI data to a file
func (m *MIDIConverter) WriteMIDIFile(seq *Sequence, filename string) error {
	data, err := m.GenerateMIDI(seq)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// ParseMIDI reads a single-track SMF back into a Sequence. The leading track
// name and tempo become metadata; everything else is kept as events.
func (m *MIDIConverter) ParseMIDI(data []byte) (*Sequence, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	tpq := m.ticksPerQuarter
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		tpq = mt.Resolution()
	}

	seq := &Sequence{
		BPM:             m.tempo,
		TicksPerQuarter: tpq,
		TicksPerRow:     uint32(tpq) / 4,
	}

	for _, track := range s.Tracks {
		var pending uint32 // deltas of dropped events carry to the next kept one
		for _, ev := range track {
			msg := ev.Message
			delta := pending + ev.Delta
			pending = delta

			var name string
			if msg.GetMetaTrackName(&name) {
				seq.Title = name
				continue
			}

			// Tempo (FF 51 03 tt tt tt)
			if len(msg) >= 6 && msg[0] == 0xFF && msg[1] == 0x51 && msg[2] == 0x03 {
				mpb := uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
				if mpb == 0 {
					continue
				}
				bpm := 60000000.0 / float64(mpb)
				if len(seq.Events) == 0 && delta == 0 {
					seq.BPM = bpm
					continue
				}
				seq.Events = append(seq.Events, Event{Kind: TempoEvent, Delta: delta, BPM: bpm})
				pending = 0
				continue
			}

			if len(msg) < 2 {
				continue
			}
			status := msg[0] & 0xF0
			channel := msg[0] & 0x0F

			switch {
			case status == 0xC0:
				seq.Events = append(seq.Events, Event{Kind: ProgramChangeEvent, Delta: delta, Channel: channel, Program: msg[1]})
			case len(msg) >= 3 && status == 0x90 && msg[2] > 0:
				seq.Events = append(seq.Events, Event{Kind: NoteOnEvent, Delta: delta, Channel: channel, Note: msg[1], Velocity: msg[2]})
			case len(msg) >= 3 && (status == 0x80 || status == 0x90):
				seq.Events = append(seq.Events, Event{Kind: NoteOffEvent, Delta: delta, Channel: channel, Note: msg[1]})
			default:
				continue
			}
			pending = 0
		}
	}

	return seq, nil
}
