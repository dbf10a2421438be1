package converter

import "testing"

func TestPeriodToNote(t *testing.T) {
	tests := []struct {
		name   string
		period uint16
		want   uint8
	}{
		{"C-1 exact", 856, 24},
		{"A-2 exact", 254, 45},
		{"B-3 exact", 113, 59},
		{"near C-2", 430, 36},
		{"midway A-2/A#2 picks first", 247, 45},
		{"midway C-1/C#1 picks first", 832, 24},
		{"below table", 50, 59},
		{"above table", 1700, 24},
		{"max period", 0x0FFF, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PeriodToNote(tt.period); got != tt.want {
				t.Errorf("PeriodToNote(%d) = %d, want %d", tt.period, got, tt.want)
			}
		})
	}
}

func TestPeriodToNoteEveryReference(t *testing.T) {
	for i, ref := range referencePeriods {
		if got := PeriodToNote(uint16(ref.period)); int(got) != BaseNote+i {
			t.Errorf("PeriodToNote(%d) [%s] = %d, want %d", ref.period, ref.name, got, BaseNote+i)
		}
	}
}

func TestNoteName(t *testing.T) {
	tests := []struct {
		note uint8
		want string
	}{
		{24, "C-1"},
		{45, "A-2"},
		{59, "B-3"},
		{23, ""},
		{60, ""},
	}

	for _, tt := range tests {
		if got := NoteName(tt.note); got != tt.want {
			t.Errorf("NoteName(%d) = %q, want %q", tt.note, got, tt.want)
		}
	}
}
