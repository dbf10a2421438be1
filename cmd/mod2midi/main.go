// Package main is the entry point for the mod2midi CLI
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/james-see/mod2midi/pkg/api"
	"github.com/james-see/mod2midi/pkg/classifier"
	"github.com/james-see/mod2midi/pkg/config"
	"github.com/james-see/mod2midi/pkg/converter"
	"github.com/james-see/mod2midi/pkg/tui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile   string
	outputFormat string
	configFile   string
	forcePiano   bool
	verbose      bool
	serverPort   int

	cfg *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mod2midi",
	Short: "Convert tracker modules to Standard MIDI Files",
	Long: `mod2midi converts 4-channel tracker modules (.mod) into Standard MIDI Files.

Sample names are used to guess General MIDI instruments; drum-like names go to
the percussion channel.

Examples:
  mod2midi convert song.mod -o song.mid
  mod2midi convert song.mod --force-piano
  mod2midi inspect song.mod --format yaml
  mod2midi classify "Lead Square" "KickDrum"
  mod2midi tui
  mod2midi serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("force-piano") {
			forcePiano = cfg.ForcePiano
		}
		return nil
	},
	SilenceUsage: true,
}

var convertCmd = &cobra.Command{
	Use:   "convert <input.mod>",
	Short: "Convert a module to MIDI",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <input>",
	Short: "Show the decoded contents of a module or generated MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var classifyCmd = &cobra.Command{
	Use:   "classify <sample name>...",
	Short: "Show the instrument guessed for sample names",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default ./mod2midi.yaml or ~/.config/mod2midi/mod2midi.yaml)")
	rootCmd.PersistentFlags().BoolVar(&forcePiano, "force-piano", false, "Send every melodic sample to program 0")

	// convert command
	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path")
	convertCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print the sample and channel table")

	// inspect command
	inspectCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format (text, json, yaml)")

	// serve command
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "Server port (overrides config)")

	// Add commands
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func getOutputPath(input, defaultExt string) string {
	if outputFile != "" {
		return outputFile
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + defaultExt
}

func newConverter() *converter.Converter {
	return converter.New(converter.Options{ForcePiano: forcePiano})
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := getOutputPath(input, ".mid")

	conv := newConverter()
	if err := conv.ConvertFile(input, output); err != nil {
		return err
	}

	if verbose {
		data, err := os.ReadFile(input)
		if err != nil {
			return err
		}
		summary, err := conv.Inspect(data)
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), summary)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Converted %s -> %s\n", input, output)
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	input := args[0]
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	format := converter.DetectFormat(input)
	if format == converter.FormatUnknown {
		format = converter.DetectFormatFromContent(data)
	}

	var report any
	switch format {
	case converter.FormatMOD:
		summary, err := newConverter().Inspect(data)
		if err != nil {
			return err
		}
		if outputFormat == "text" {
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		}
		report = summary
	case converter.FormatMIDI:
		seq, err := converter.NewMIDIConverter().ParseMIDI(data)
		if err != nil {
			return err
		}
		report = midiReport(seq)
		if outputFormat == "text" {
			outputFormat = "yaml"
		}
	default:
		return fmt.Errorf("cannot determine format of %s", input)
	}

	return writeReport(cmd.OutOrStdout(), report)
}

func runClassify(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	for _, name := range args {
		c := classifier.Classify(name)
		fmt.Fprintf(w, "%-24q %s\n", name, c.Describe())
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run()
}

func runServe(cmd *cobra.Command, args []string) error {
	if serverPort > 0 {
		cfg.Server.Port = serverPort
	}
	cfg.ForcePiano = forcePiano
	fmt.Printf("Starting API server on port %d...\n", cfg.Server.Port)
	return api.StartServer(cfg)
}

func writeReport(w io.Writer, report any) error {
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", outputFormat)
	}
}

type midiSummary struct {
	Title          string  `json:"title" yaml:"title"`
	BPM            float64 `json:"bpm" yaml:"bpm"`
	Resolution     uint16  `json:"ticks_per_quarter" yaml:"ticks_per_quarter"`
	TotalTicks     uint64  `json:"total_ticks" yaml:"total_ticks"`
	Notes          int     `json:"notes" yaml:"notes"`
	ProgramChanges int     `json:"program_changes" yaml:"program_changes"`
	TempoEvents    int     `json:"tempo_events" yaml:"tempo_events"`
}

func midiReport(seq *converter.Sequence) midiSummary {
	return midiSummary{
		Title:          seq.Title,
		BPM:            seq.BPM,
		Resolution:     seq.TicksPerQuarter,
		TotalTicks:     seq.TotalTicks(),
		Notes:          seq.Count(converter.NoteOnEvent),
		ProgramChanges: seq.Count(converter.ProgramChangeEvent),
		TempoEvents:    seq.Count(converter.TempoEvent),
	}
}

func printSummary(w io.Writer, s *converter.Summary) {
	tag := s.FormatTag
	if !s.RecognizedTag {
		tag += " (unrecognized)"
	}
	fmt.Fprintf(w, "Title:    %q\n", s.Title)
	fmt.Fprintf(w, "Format:   %s, %d channels\n", tag, s.Channels)
	fmt.Fprintf(w, "Order:    %v (restart %d)\n", s.PatternTable, s.Restart)
	fmt.Fprintf(w, "Patterns: %d decoded, %d order entries skipped\n", s.PatternCount, s.SkippedPatterns)
	fmt.Fprintf(w, "Output:   %d notes, %d ticks\n\n", s.Notes, s.TotalTicks)

	fmt.Fprintf(w, "%3s  %-22s %6s %3s  %-10s %3s  %-9s %s\n", "#", "Name", "Length", "Vol", "Role", "Ch", "Range", "Program")
	for _, smp := range s.Samples {
		if smp.Name == "" && smp.Length == 0 {
			continue
		}
		program := "-"
		if smp.Program != nil {
			program = fmt.Sprintf("%d %s", *smp.Program, smp.ProgramName)
		}
		noteRange := "-"
		if smp.NotesPlayed > 0 {
			noteRange = smp.LowestNote + ".." + smp.HighestNote
		}
		fmt.Fprintf(w, "%3d  %-22s %6d %3d  %-10s %3d  %-9s %s\n",
			smp.Number, smp.Name, smp.Length, smp.Volume, smp.Role, smp.Channel+1, noteRange, program)
	}
	fmt.Fprintln(w)
}
