package timerange

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{name: "zero-padded", in: "09:00", want: TimeOfDay{9, 0}},
		{name: "unpadded hour", in: "9:05", want: TimeOfDay{9, 5}},
		{name: "midnight", in: "00:00", want: TimeOfDay{0, 0}},
		{name: "end of day", in: "23:59", want: TimeOfDay{23, 59}},
		{name: "surrounding spaces", in: " 14:30 ", want: TimeOfDay{14, 30}},
		{name: "missing colon", in: "0900", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "hour out of range", in: "24:00", wantErr: true},
		{name: "minute out of range", in: "12:60", wantErr: true},
		{name: "negative hour", in: "-1:00", wantErr: true},
		{name: "non-numeric", in: "ab:cd", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	mk := func(s string) TimeOfDay {
		tod, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		return tod
	}

	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"identical ranges", "09:00", "10:30", "09:00", "10:30", true},
		{"partial overlap", "09:00", "10:30", "10:00", "11:00", true},
		{"b inside a", "09:00", "12:00", "10:00", "11:00", true},
		{"a inside b", "10:00", "11:00", "09:00", "12:00", true},
		{"touching endpoints do not overlap", "09:00", "10:30", "10:30", "12:00", false},
		{"touching endpoints reversed", "10:30", "12:00", "09:00", "10:30", false},
		{"disjoint", "09:00", "10:00", "13:00", "14:00", false},
		{"one minute overlap", "09:00", "10:01", "10:00", "11:00", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(mk(tt.aStart), mk(tt.aEnd), mk(tt.bStart), mk(tt.bEnd))
			if got != tt.want {
				t.Errorf("Overlaps(%s-%s, %s-%s) = %v, want %v", tt.aStart, tt.aEnd, tt.bStart, tt.bEnd, got, tt.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	start := TimeOfDay{9, 0}
	end := TimeOfDay{10, 30}

	tests := []struct {
		name string
		at   TimeOfDay
		want bool
	}{
		{"before start", TimeOfDay{8, 59}, false},
		{"exactly at start", TimeOfDay{9, 0}, true},
		{"inside", TimeOfDay{9, 45}, true},
		{"exactly at end", TimeOfDay{10, 30}, true},
		{"after end", TimeOfDay{10, 31}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(start, end, tt.at); got != tt.want {
				t.Errorf("Contains(09:00, 10:30, %v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestFormat12h(t *testing.T) {
	tests := []struct {
		in   TimeOfDay
		want string
	}{
		{TimeOfDay{0, 15}, "12:15 AM"},
		{TimeOfDay{9, 0}, "9:00 AM"},
		{TimeOfDay{12, 0}, "12:00 PM"},
		{TimeOfDay{13, 5}, "1:05 PM"},
		{TimeOfDay{23, 59}, "11:59 PM"},
	}
	for _, tt := range tests {
		if got := tt.in.Format12h(); got != tt.want {
			t.Errorf("Format12h(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLabel(t *testing.T) {
	got := Label(TimeOfDay{9, 0}, TimeOfDay{10, 30})
	if got != "09:00 - 10:30" {
		t.Errorf("Label() = %q, want %q", got, "09:00 - 10:30")
	}

	// Labels key attendance records, so padding must be stable for
	// single-digit hours too.
	got = Label(TimeOfDay{8, 5}, TimeOfDay{9, 0})
	if got != "08:05 - 09:00" {
		t.Errorf("Label() = %q, want %q", got, "08:05 - 09:00")
	}
}

func TestFromTime(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*60*60)
	at := time.Date(2025, time.March, 3, 9, 15, 42, 0, loc)
	if got := FromTime(at); got != (TimeOfDay{9, 15}) {
		t.Errorf("FromTime() = %v, want %v", got, TimeOfDay{9, 15})
	}
}
