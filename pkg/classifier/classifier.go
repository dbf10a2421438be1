// Package classifier guesses a General MIDI role and program from a sample name
package classifier

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role is the playback role of a sample
type Role int

const (
	Melodic Role = iota
	Percussion
)

func (r Role) String() string {
	if r == Percussion {
		return "percussion"
	}
	return "melodic"
}

// MarshalText renders the role name in JSON and YAML output
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses a role name
func (r *Role) UnmarshalText(text []byte) error {
	switch string(text) {
	case "percussion":
		*r = Percussion
	case "melodic":
		*r = Melodic
	default:
		return fmt.Errorf("unknown role %q", text)
	}
	return nil
}

// Classification is the result of classifying one sample name
type Classification struct {
	Role    Role
	Program int  // valid only when Known
	Known   bool // a melodic keyword matched
	Keyword string
}

// ProgramOr returns the matched program, or def when none matched
func (c Classification) ProgramOr(def int) int {
	if c.Known {
		return c.Program
	}
	return def
}

type category struct {
	keywords []string
	program  int
}

// percussionKeywords short-circuit melodic matching
var percussionKeywords = []string{
	"drum", "kick", "snare", "hihat", "hat", "cymbal", "tom", "perc", "808", "909",
	"crash", "ride", "shaker", "tambo", "rimshot", "tambourine",
}

// categories is scanned in order; on equal keyword length the earlier entry wins
var categories = []category{
	{[]string{"piano", "pian", "keys", "grand", "klav"}, 0},
	{[]string{"brightpiano", "bright"}, 1},
	{[]string{"electricpiano", "elecpian", "epian", "epno"}, 4},
	{[]string{"honky", "honkytonk"}, 2},
	{[]string{"rhodes", "e-piano2", "fender"}, 5},
	{[]string{"harpsi", "harp", "cembalo"}, 6},
	{[]string{"clav", "clavi"}, 7},
	{[]string{"celesta", "celeste"}, 8},
	{[]string{"glocken", "glockenspiel", "bell", "chime"}, 9},
	{[]string{"musicbox", "box"}, 10},
	{[]string{"vibra", "vibraphone"}, 11},
	{[]string{"marimba", "marimb"}, 12},
	{[]string{"xylophone", "xylo"}, 13},
	{[]string{"tubebell", "tubular", "carillon"}, 14},
	{[]string{"dulcimer", "cymbalom"}, 15},
	{[]string{"organ", "hammond", "church", "orgel"}, 16},
	{[]string{"reed", "accord", "harmon", "bandoneon"}, 21},
	{[]string{"guitar", "guit", "gtar"}, 24},
	{[]string{"jazzguitar", "jazzguit"}, 26},
	{[]string{"clean", "cleanguitar"}, 27},
	{[]string{"mutedguitar", "mtdguit"}, 28},
	{[]string{"overdrive", "odguit", "distorted"}, 29},
	{[]string{"harmguitar", "harmonicsguit"}, 30},
	{[]string{"bass", "bazz", "lowend", "tbass"}, 32},
	{[]string{"fretless", "frtlbass"}, 35},
	{[]string{"slapbass", "slpbas"}, 36},
	{[]string{"synthbass", "synbass", "sbass"}, 38},
	{[]string{"violin", "cello", "viol", "vl", "strings"}, 40},
	{[]string{"pizz", "pizzicato"}, 45},
	{[]string{"harp", "harfe", "harpisch"}, 46},
	{[]string{"timpani", "timp"}, 47},
	{[]string{"ensemble", "stringensemble"}, 48},
	{[]string{"synthstrings", "synstrings"}, 50},
	{[]string{"choir", "vox", "voice", "ahh", "ohh"}, 52},
	{[]string{"orchestra", "orch"}, 48},
	{[]string{"trumpet", "tromp"}, 56},
	{[]string{"trombone", "tromb"}, 57},
	{[]string{"tuba"}, 58},
	{[]string{"mutedtrumpet", "mutetrump"}, 59},
	{[]string{"horn", "frenchhorn"}, 60},
	{[]string{"brass", "brs", "brassens"}, 61},
	{[]string{"sax", "saxophone"}, 64},
	{[]string{"oboe", "obo"}, 68},
	{[]string{"englishhorn", "enghorn"}, 69},
	{[]string{"bassoon", "fagott"}, 70},
	{[]string{"clarinet", "klarin"}, 71},
	{[]string{"piccolo"}, 72},
	{[]string{"flute", "flut", "flöte"}, 73},
	{[]string{"recorder", "blockflöte"}, 74},
	{[]string{"panflute", "pan"}, 75},
	{[]string{"bottle", "bottleneck", "blowbottle"}, 76},
	{[]string{"shakuhachi"}, 77},
	{[]string{"whistle", "pfiff"}, 78},
	{[]string{"ocarina"}, 79},
	{[]string{"squar", "square"}, 80},
	{[]string{"saw", "sawtooth"}, 81},
	{[]string{"calliope"}, 82},
	{[]string{"chiff"}, 83},
	{[]string{"charang"}, 84},
	{[]string{"voicelead", "solo vox", "leadvox"}, 85},
	{[]string{"fifths", "fifth"}, 86},
	{[]string{"basslead"}, 87},
	{[]string{"newage", "new age", "pad"}, 88},
	{[]string{"warm", "warm pad"}, 89},
	{[]string{"polysynth", "poly"}, 90},
	{[]string{"choirpad", "choir pad"}, 91},
	{[]string{"bowed", "bowedglass"}, 92},
	{[]string{"metalpad"}, 93},
	{[]string{"halopad"}, 94},
	{[]string{"sweeper"}, 95},
	{[]string{"rain"}, 96},
	{[]string{"soundtrack"}, 97},
	{[]string{"crystal"}, 98},
	{[]string{"atmos", "atmosphere"}, 99},
	{[]string{"brightness", "brightpad"}, 100},
	{[]string{"goblins"}, 101},
	{[]string{"echoes", "echo"}, 102},
	{[]string{"sci-fi", "scifi"}, 103},
	{[]string{"sitar"}, 104},
	{[]string{"banjo"}, 105},
	{[]string{"shamisen"}, 106},
	{[]string{"koto"}, 107},
	{[]string{"kalimba"}, 108},
	{[]string{"bagpipe"}, 109},
	{[]string{"fiddle"}, 110},
	{[]string{"shanai"}, 111},
	{[]string{"tinkle bell"}, 112},
	{[]string{"agogo"}, 113},
	{[]string{"steel drums"}, 114},
	{[]string{"woodblock"}, 115},
	{[]string{"taiko", "taikodrum"}, 116},
	{[]string{"melodictom"}, 117},
	{[]string{"synthdrum", "drum synth"}, 118},
	{[]string{"reverse cymbal"}, 119},
	{[]string{"guitarfretnoise"}, 120},
	{[]string{"breathnoise", "breath"}, 121},
	{[]string{"seashore"}, 122},
	{[]string{"birdtweet", "bird", "tweet"}, 123},
	{[]string{"telephone", "phone"}, 124},
	{[]string{"helicopter"}, 125},
	{[]string{"applause", "clap"}, 126},
	{[]string{"gunshot"}, 127},
}

// Classify maps a sample name to a role and, for melodic samples, the program
// of the longest matching keyword
func Classify(name string) Classification {
	s := strings.TrimSpace(cases.Lower(language.Und).String(name))

	for _, kw := range percussionKeywords {
		if strings.Contains(s, kw) {
			return Classification{Role: Percussion, Keyword: kw}
		}
	}

	c := Classification{Role: Melodic}
	bestLen := 0
	for _, cat := range categories {
		for _, kw := range cat.keywords {
			n := utf8.RuneCountInString(kw)
			if n > bestLen && strings.Contains(s, kw) {
				bestLen = n
				c.Program = cat.program
				c.Keyword = kw
				c.Known = true
			}
		}
	}
	return c
}
