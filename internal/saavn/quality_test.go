package saavn

import (
	"errors"
	"reflect"
	"testing"

	"saavnbot/internal/model"
)

func TestBuildQualityMap_Classification(t *testing.T) {
	tests := []struct {
		name  string
		links []model.DownloadLink
		want  []Bitrate
	}{
		{
			name: "full descriptor list",
			links: []model.DownloadLink{
				{Quality: "12kbps", URL: "u12"},
				{Quality: "48kbps", URL: "u48"},
				{Quality: "96kbps", URL: "u96"},
				{Quality: "160kbps", URL: "u160"},
				{Quality: "320kbps", URL: "u320"},
			},
			want: []Bitrate{Bitrate320, Bitrate160, Bitrate96, Bitrate48, Bitrate12},
		},
		{
			name: "128 not swallowed by 12 pattern",
			links: []model.DownloadLink{
				{Quality: "128kbps", URL: "u128"},
			},
			want: []Bitrate{Bitrate128},
		},
		{
			name: "unmatched quality goes to fallback",
			links: []model.DownloadLink{
				{Quality: "preview", URL: "up"},
			},
			want: []Bitrate{BitrateFallback},
		},
		{
			name:  "no descriptors",
			links: nil,
			want:  nil,
		},
		{
			name: "empty url skipped",
			links: []model.DownloadLink{
				{Quality: "320kbps", URL: ""},
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qm := BuildQualityMap(tt.links)
			if got := qm.Available(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Available() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildQualityMap_Idempotent(t *testing.T) {
	links := []model.DownloadLink{
		{Quality: "96kbps", URL: "u96"},
		{Quality: "320kbps", URL: "u320"},
		{Quality: "weird", URL: "uw"},
	}

	first := BuildQualityMap(links)
	second := BuildQualityMap(links)

	if !reflect.DeepEqual(first.Available(), second.Available()) {
		t.Error("classification is not idempotent")
	}
	for _, b := range first.Available() {
		u1, _, _ := first.Resolve(b)
		u2, _, _ := second.Resolve(b)
		if u1 != u2 {
			t.Errorf("URL for %v differs between runs: %q vs %q", b, u1, u2)
		}
	}
}

func TestResolve_ExactMatch(t *testing.T) {
	qm := BuildQualityMap([]model.DownloadLink{
		{Quality: "96kbps", URL: "u96"},
		{Quality: "320kbps", URL: "u320"},
	})

	url, actual, err := qm.Resolve(Bitrate320)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "u320" || actual != Bitrate320 {
		t.Errorf("Resolve(320) = %q/%v, want u320/320kbps", url, actual)
	}
}

func TestResolve_128FallsBackTo96(t *testing.T) {
	qm := BuildQualityMap([]model.DownloadLink{
		{Quality: "96kbps", URL: "u96"},
	})

	url, actual, err := qm.Resolve(Bitrate128)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "u96" || actual != Bitrate96 {
		t.Errorf("Resolve(128) = %q/%v, want u96/96kbps", url, actual)
	}
}

func TestResolve_MissingLabelTakesHighest(t *testing.T) {
	qm := BuildQualityMap([]model.DownloadLink{
		{Quality: "48kbps", URL: "u48"},
		{Quality: "160kbps", URL: "u160"},
	})

	url, actual, err := qm.Resolve(Bitrate320)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "u160" || actual != Bitrate160 {
		t.Errorf("Resolve(320) = %q/%v, want u160/160kbps", url, actual)
	}

	// 128 with neither 128 nor 96 present also takes the highest.
	url, actual, err = qm.Resolve(Bitrate128)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "u160" || actual != Bitrate160 {
		t.Errorf("Resolve(128) = %q/%v, want u160/160kbps", url, actual)
	}
}

func TestResolve_FallbackLabelIsLastResort(t *testing.T) {
	qm := BuildQualityMap([]model.DownloadLink{
		{Quality: "preview", URL: "uprev"},
		{Quality: "12kbps", URL: "u12"},
	})

	url, actual, err := qm.Resolve(Bitrate320)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "u12" || actual != Bitrate12 {
		t.Errorf("Resolve(320) = %q/%v, want u12/12kbps", url, actual)
	}
}

func TestResolve_EmptyMapUnavailable(t *testing.T) {
	qm := BuildQualityMap(nil)
	if _, _, err := qm.Resolve(Bitrate320); !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestParseBitrate(t *testing.T) {
	tests := []struct {
		label string
		want  Bitrate
		ok    bool
	}{
		{"320kbps", Bitrate320, true},
		{"128kbps", Bitrate128, true},
		{"96kbps", Bitrate96, true},
		{"flac", BitrateFallback, false},
		{"", BitrateFallback, false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := ParseBitrate(tt.label)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseBitrate(%q) = %v/%t, want %v/%t", tt.label, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestBitrateString_RoundTrip(t *testing.T) {
	for _, b := range []Bitrate{Bitrate320, Bitrate160, Bitrate128, Bitrate96, Bitrate48, Bitrate12} {
		parsed, ok := ParseBitrate(b.String())
		if !ok || parsed != b {
			t.Errorf("ParseBitrate(%q) = %v/%t, want %v", b.String(), parsed, ok, b)
		}
	}
}
