package converter

// BaseNote is the MIDI note of the first reference period (C-1)
const BaseNote = 24

type referencePeriod struct {
	name   string
	period int
}

// referencePeriods covers C-1 to B-3 of the standard PAL period table
var referencePeriods = [...]referencePeriod{
	{"C-1", 856}, {"C#1", 808}, {"D-1", 762}, {"D#1", 720}, {"E-1", 678}, {"F-1", 640},
	{"F#1", 604}, {"G-1", 570}, {"G#1", 538}, {"A-1", 508}, {"A#1", 480}, {"B-1", 453},
	{"C-2", 428}, {"C#2", 404}, {"D-2", 381}, {"D#2", 360}, {"E-2", 340}, {"F-2", 320},
	{"F#2", 302}, {"G-2", 285}, {"G#2", 269}, {"A-2", 254}, {"A#2", 240}, {"B-2", 226},
	{"C-3", 214}, {"C#3", 202}, {"D-3", 190}, {"D#3", 180}, {"E-3", 170}, {"F-3", 160},
	{"F#3", 151}, {"G-3", 143}, {"G#3", 135}, {"A-3", 127}, {"A#3", 120}, {"B-3", 113},
}

// PeriodToNote returns the MIDI note of the reference period nearest to
// period. Ties go to the entry listed first.
func PeriodToNote(period uint16) uint8 {
	best := 0
	bestDiff := -1
	for i, ref := range referencePeriods {
		diff := ref.period - int(period)
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	return uint8(BaseNote + best)
}

// NoteName returns the tracker name of a MIDI note inside the reference
// range, or "" outside it
func NoteName(note uint8) string {
	i := int(note) - BaseNote
	if i < 0 || i >= len(referencePeriods) {
		return ""
	}
	return referencePeriods[i].name
}
