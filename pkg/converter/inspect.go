package converter

import (
	"github.com/james-see/mod2midi/pkg/classifier"
	"github.com/james-see/mod2midi/pkg/tracker"
)

// SampleSummary describes one sample and where it ends up in the output
type SampleSummary struct {
	Number      int             `json:"number" yaml:"number"`
	Name        string          `json:"name" yaml:"name"`
	Length      int             `json:"length" yaml:"length"`
	Finetune    uint8           `json:"finetune" yaml:"finetune"`
	Volume      uint8           `json:"volume" yaml:"volume"`
	LoopStart   int             `json:"loop_start" yaml:"loop_start"`
	LoopLength  int             `json:"loop_length" yaml:"loop_length"`
	Role        classifier.Role `json:"role" yaml:"role"`
	Keyword     string          `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	Channel     uint8           `json:"channel" yaml:"channel"`
	Program     *uint8          `json:"program,omitempty" yaml:"program,omitempty"`
	ProgramName string          `json:"program_name,omitempty" yaml:"program_name,omitempty"`
	NotesPlayed int             `json:"notes_played" yaml:"notes_played"`
	LowestNote  string          `json:"lowest_note,omitempty" yaml:"lowest_note,omitempty"`
	HighestNote string          `json:"highest_note,omitempty" yaml:"highest_note,omitempty"`
}

// Summary is a serializable view of a decoded song and its conversion
type Summary struct {
	Title           string          `json:"title" yaml:"title"`
	FormatTag       string          `json:"format_tag" yaml:"format_tag"`
	RecognizedTag   bool            `json:"recognized_tag" yaml:"recognized_tag"`
	Channels        int             `json:"channels" yaml:"channels"`
	SongLength      int             `json:"song_length" yaml:"song_length"`
	Restart         int             `json:"restart" yaml:"restart"`
	PatternTable    []int           `json:"pattern_table" yaml:"pattern_table,flow"`
	PatternCount    int             `json:"pattern_count" yaml:"pattern_count"`
	SkippedPatterns int             `json:"skipped_patterns" yaml:"skipped_patterns"`
	Notes           int             `json:"notes" yaml:"notes"`
	TotalTicks      uint64          `json:"total_ticks" yaml:"total_ticks"`
	Samples         []SampleSummary `json:"samples" yaml:"samples"`
}

// Inspect summarizes a song as it would be converted with opts
func Inspect(song *tracker.Song, opts Options) *Summary {
	classes := ClassifySamples(song)
	e := emit(song, classes, opts)
	seq, assigns := e.seq, e.assigns

	sum := &Summary{
		Title:           song.Title,
		FormatTag:       song.FormatTag,
		RecognizedTag:   tracker.IsRecognizedTag(song.FormatTag),
		Channels:        song.Channels,
		SongLength:      song.SongLength,
		Restart:         song.Restart,
		PatternTable:    song.PatternTable,
		PatternCount:    len(song.Patterns),
		SkippedPatterns: seq.SkippedPatterns,
		Notes:           seq.Count(NoteOnEvent),
		TotalTicks:      seq.TotalTicks(),
		Samples:         make([]SampleSummary, len(song.Samples)),
	}

	for i, smp := range song.Samples {
		ss := SampleSummary{
			Number:     i + 1,
			Name:       smp.Name,
			Length:     smp.Length,
			Finetune:   smp.Finetune,
			Volume:     smp.Volume,
			LoopStart:  smp.LoopStart,
			LoopLength: smp.LoopLength,
			Role:       classes[i].Role,
			Keyword:    classes[i].Keyword,
			Channel:    assigns[i].Channel,
		}
		if u := e.usage[i]; u.count > 0 {
			ss.NotesPlayed = u.count
			ss.LowestNote = NoteName(u.low)
			ss.HighestNote = NoteName(u.high)
		}
		if assigns[i].HasProgram {
			program := assigns[i].Program
			ss.Program = &program
			ss.ProgramName = classifier.ProgramName(int(program))
		}
		sum.Samples[i] = ss
	}

	return sum
}

// Inspect decodes module bytes and summarizes them with the converter's options
func (c *Converter) Inspect(modData []byte) (*Summary, error) {
	song, err := c.Decode(modData)
	if err != nil {
		return nil, err
	}
	return Inspect(song, c.opts), nil
}
