package converter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/james-see/mod2midi/pkg/tracker"
)

// Format represents a file format
type Format string

const (
	FormatMOD     Format = "mod"
	FormatMIDI    Format = "midi"
	FormatUnknown Format = "unknown"
)

// DetectFormat detects the format of a file based on extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mod":
		return FormatMOD
	case ".mid", ".midi":
		return FormatMIDI
	default:
		// Amiga style "mod.songname"
		if strings.HasPrefix(strings.ToLower(filepath.Base(filename)), "mod.") {
			return FormatMOD
		}
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content
func DetectFormatFromContent(data []byte) Format {
	if filetype.Is(data, "mid") {
		return FormatMIDI
	}

	// Without a file name only a known tag at 1080 identifies a module
	if len(data) < tracker.MinModuleSize {
		return FormatUnknown
	}
	tag := string(data[tracker.FormatTagOffset : tracker.FormatTagOffset+tracker.FormatTagSize])
	if !tracker.IsRecognizedTag(tag) {
		return FormatUnknown
	}
	return FormatMOD
}

// Converter converts tracker modules to MIDI
type Converter struct {
	opts Options
}

// New creates a new Converter
func New(opts Options) *Converter {
	return &Converter{opts: opts}
}

// GetOptions returns the current options
func (c *Converter) GetOptions() Options {
	return c.opts
}

// SetOptions replaces the conversion options
func (c *Converter) SetOptions(opts Options) {
	c.opts = opts
}

// Decode parses module bytes. Structural problems surface as *tracker.FormatError.
func (c *Converter) Decode(modData []byte) (*tracker.Song, error) {
	song, err := tracker.Decode(modData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode module: %w", err)
	}
	return song, nil
}

// ModToSequence decodes a module and builds its event stream
func (c *Converter) ModToSequence(modData []byte) (*Sequence, error) {
	song, err := c.Decode(modData)
	if err != nil {
		return nil, err
	}
	return Emit(song, ClassifySamples(song), c.opts), nil
}

// ModToMIDI converts module bytes to SMF bytes
func (c *Converter) ModToMIDI(modData []byte) ([]byte, error) {
	seq, err := c.ModToSequence(modData)
	if err != nil {
		return nil, err
	}
	return NewMIDIConverter().GenerateMIDI(seq)
}

// Convert is the single-call entry point: module bytes in, MIDI bytes out
func Convert(modData []byte, forcePiano bool) ([]byte, error) {
	return New(Options{ForcePiano: forcePiano}).ModToMIDI(modData)
}

// ConvertFile converts a module file to a MIDI file
func (c *Converter) ConvertFile(inputPath, outputPath string) error {
	if DetectFormat(outputPath) != FormatMIDI {
		return errors.New("output must be a .mid or .midi file")
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	inputFormat := DetectFormat(inputPath)
	if inputFormat == FormatUnknown {
		inputFormat = DetectFormatFromContent(data)
	}
	if inputFormat != FormatMOD {
		return fmt.Errorf("unsupported conversion: %s to %s", inputFormat, FormatMIDI)
	}

	outputData, err := c.ModToMIDI(data)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

// GetSupportedConversions returns a list of supported conversion paths
func GetSupportedConversions() []string {
	return []string{
		"mod -> midi",
	}
}
