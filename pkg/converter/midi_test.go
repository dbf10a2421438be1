package converter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/james-see/mod2midi/pkg/tracker"
	"github.com/james-see/mod2midi/pkg/tracker/trackertest"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestGenerateMIDINil(t *testing.T) {
	if _, err := NewMIDIConverter().GenerateMIDI(nil); err == nil {
		t.Error("GenerateMIDI(nil) should fail")
	}
}

func TestGenerateMIDIRejectsBadChannel(t *testing.T) {
	seq := &Sequence{Events: []Event{{Kind: NoteOnEvent, Channel: 16, Note: 60, Velocity: 100}}}
	if _, err := NewMIDIConverter().GenerateMIDI(seq); err == nil {
		t.Error("GenerateMIDI() should reject channel 16")
	}
}

func TestGenerateMIDIHeader(t *testing.T) {
	seq := &Sequence{
		Title:           "stardust",
		BPM:             DefaultBPM,
		TicksPerQuarter: DefaultTicksPerQuarter,
		TicksPerRow:     DefaultTicksPerRow,
		Events: []Event{
			{Kind: ProgramChangeEvent, Channel: 0, Program: 80},
			{Kind: NoteOnEvent, Channel: 0, Note: 45, Velocity: 100},
			{Kind: NoteOffEvent, Delta: 120, Channel: 0, Note: 45},
			{Kind: TempoEvent, Delta: 120, BPM: DefaultBPM},
		},
	}

	data, err := NewMIDIConverter().GenerateMIDI(seq)
	if err != nil {
		t.Fatalf("GenerateMIDI() error = %v", err)
	}

	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("smf.ReadFrom() error = %v", err)
	}
	if len(s.Tracks) != 1 {
		t.Fatalf("tracks = %d, want 1", len(s.Tracks))
	}
	if mt, ok := s.TimeFormat.(smf.MetricTicks); !ok || mt.Resolution() != DefaultTicksPerQuarter {
		t.Errorf("TimeFormat = %v, want %d ticks per quarter", s.TimeFormat, DefaultTicksPerQuarter)
	}

	track := s.Tracks[0]
	// name, tempo, 4 events, end of track
	if len(track) != 7 {
		t.Fatalf("track events = %d, want 7", len(track))
	}

	name := track[0].Message
	if name[0] != 0xFF || name[1] != 0x03 || string(name[3:]) != "stardust" {
		t.Errorf("first event = % X, want track name", []byte(name))
	}
	tempo := track[1].Message
	if tempo[0] != 0xFF || tempo[1] != 0x51 {
		t.Errorf("second event = % X, want tempo", []byte(tempo))
	}
	// 125 bpm = 480000 microseconds per quarter
	if mpb := uint32(tempo[3])<<16 | uint32(tempo[4])<<8 | uint32(tempo[5]); mpb != 480000 {
		t.Errorf("tempo = %d us/quarter, want 480000", mpb)
	}
	if pc := track[2].Message; pc[0] != 0xC0 || pc[1] != 80 {
		t.Errorf("third event = % X, want program change 80", []byte(pc))
	}
}

func TestParseMIDIRoundTrip(t *testing.T) {
	b := trackertest.New()
	b.Title = "round trip"
	b.SetOrder(0, 0, 0)
	b.Samples[0] = trackertest.SampleSpec{Name: "Lead Square", Volume: 64}
	b.Samples[1] = trackertest.SampleSpec{Name: "snare", Volume: 20}
	for row := 0; row < tracker.RowsPerPattern; row += 4 {
		b.SetNote(0, row, 0, trackertest.Note{Period: 254, Instrument: 1})
		b.SetNote(0, row, 3, trackertest.Note{Period: 428, Instrument: 2})
	}

	song, err := tracker.Decode(b.Bytes())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	seq := Emit(song, ClassifySamples(song), Options{})

	m := NewMIDIConverter()
	data, err := m.GenerateMIDI(seq)
	if err != nil {
		t.Fatalf("GenerateMIDI() error = %v", err)
	}

	parsed, err := NewMIDIConverter().ParseMIDI(data)
	if err != nil {
		t.Fatalf("ParseMIDI() error = %v", err)
	}

	if parsed.Title != "round trip" {
		t.Errorf("Title = %q, want %q", parsed.Title, "round trip")
	}
	if parsed.BPM != DefaultBPM {
		t.Errorf("BPM = %v, want %v", parsed.BPM, DefaultBPM)
	}
	if got, want := parsed.TotalTicks(), uint64(3*tracker.RowsPerPattern*DefaultTicksPerRow); got != want {
		t.Errorf("TotalTicks() = %d, want %d", got, want)
	}
	if len(parsed.Events) != len(seq.Events) {
		t.Fatalf("parsed %d events, generated %d", len(parsed.Events), len(seq.Events))
	}
	for i := range seq.Events {
		if parsed.Events[i] != seq.Events[i] {
			t.Errorf("event %d = %+v, want %+v", i, parsed.Events[i], seq.Events[i])
			break
		}
	}
}

func TestParseMIDIInvalid(t *testing.T) {
	if _, err := NewMIDIConverter().ParseMIDI([]byte("not midi")); err == nil {
		t.Error("ParseMIDI() should fail on garbage")
	}
}

func TestParseMIDILongTitle(t *testing.T) {
	title := strings.Repeat("x", 200)
	data, err := NewMIDIConverter().GenerateMIDI(&Sequence{Title: title})
	if err != nil {
		t.Fatalf("GenerateMIDI() error = %v", err)
	}

	parsed, err := NewMIDIConverter().ParseMIDI(data)
	if err != nil {
		t.Fatalf("ParseMIDI() error = %v", err)
	}
	if parsed.Title != title {
		t.Errorf("Title has %d bytes, want %d", len(parsed.Title), len(title))
	}
}

func TestParseMIDIKeepsConverterResolution(t *testing.T) {
	m := NewMIDIConverter()

	data, err := m.GenerateMIDI(&Sequence{TicksPerQuarter: 960})
	if err != nil {
		t.Fatalf("GenerateMIDI() error = %v", err)
	}
	parsed, err := m.ParseMIDI(data)
	if err != nil {
		t.Fatalf("ParseMIDI() error = %v", err)
	}
	if parsed.TicksPerQuarter != 960 {
		t.Errorf("parsed TicksPerQuarter = %d, want 960", parsed.TicksPerQuarter)
	}

	data, err = m.GenerateMIDI(&Sequence{})
	if err != nil {
		t.Fatalf("GenerateMIDI() error = %v", err)
	}
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("smf.ReadFrom() error = %v", err)
	}
	if mt, ok := s.TimeFormat.(smf.MetricTicks); !ok || mt.Resolution() != DefaultTicksPerQuarter {
		t.Errorf("TimeFormat = %v after ParseMIDI, want %d ticks per quarter", s.TimeFormat, DefaultTicksPerQuarter)
	}
}
