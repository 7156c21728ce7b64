package cli

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/embedmatrix/exmatrix/history"
	"github.com/embedmatrix/exmatrix/model"
	"github.com/stretchr/testify/assert"
)

func TestRemoveFirstDashDash(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "empty slice",
			in:   []string{},
			want: []string{},
		},
		{
			name: "starts with --",
			in:   []string{"--", "GCC", "CM55"},
			want: []string{"GCC", "CM55"},
		},
		{
			name: "no --",
			in:   []string{"GCC", "CM55"},
			want: []string{"GCC", "CM55"},
		},
		{
			name: "only --",
			in:   []string{"--"},
			want: []string{},
		},
		{
			name: "-- in middle",
			in:   []string{"GCC", "--", "CM55"},
			want: []string{"GCC", "--", "CM55"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := removeFirstDashDash(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("removeFirstDashDash() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseViewArgs(t *testing.T) {
	tests := []struct {
		name        string
		in          []string
		wantID      string
		wantFilters []string
	}{
		{
			name:        "empty args - default to 0",
			in:          []string{},
			wantID:      "0",
			wantFilters: nil,
		},
		{
			name:        "only ID - index 0",
			in:          []string{"0"},
			wantID:      "0",
			wantFilters: []string{},
		},
		{
			name:        "only ID - negative index",
			in:          []string{"-1"},
			wantID:      "-1",
			wantFilters: []string{},
		},
		{
			name:        "only ID - hex string",
			in:          []string{"abc123"},
			wantID:      "abc123",
			wantFilters: []string{},
		},
		{
			name:        "ID with filters",
			in:          []string{"-2", "GCC", "CM55"},
			wantID:      "-2",
			wantFilters: []string{"GCC", "CM55"},
		},
		{
			name:        "ID with -- separator and filters",
			in:          []string{"0", "--", "Debug-CM3"},
			wantID:      "0",
			wantFilters: []string{"Debug-CM3"},
		},
		{
			name:        "only -- uses default 0",
			in:          []string{"--", "AC6"},
			wantID:      "0",
			wantFilters: []string{"AC6"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotID, gotFilters := parseViewArgs(tt.in)
			if gotID != tt.wantID {
				t.Errorf("parseViewArgs() gotID = %v, want %v", gotID, tt.wantID)
			}
			if !reflect.DeepEqual(gotFilters, tt.wantFilters) {
				t.Errorf("parseViewArgs() gotFilters = %v, want %v", gotFilters, tt.wantFilters)
			}
		})
	}
}

func TestMatchesFilters(t *testing.T) {
	assert.True(t, matchesFilters("GCC-Debug-CM55", nil))
	assert.True(t, matchesFilters("GCC-Debug-CM55", []string{"gcc", "cm55"}))
	assert.False(t, matchesFilters("GCC-Debug-CM55", []string{"gcc", "release"}))
}

func TestDisplayHistoryEntry(t *testing.T) {
	entry := &history.Entry{
		FullPath: "/repo/.exmatrix/history/20240101-000000-nogit-aabbccdd",
		History: model.History{
			ID:        "aabbccddeeff",
			Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Example:   "EventStatistic",
			Actions:   []string{"build"},
			ExitCode:  1,
			Results: []model.ConfigResult{
				{Config: "GCC-Debug-CM55", Action: "build", Success: true},
				{Config: "AC6-Debug-CM3", Action: "build", Steps: []model.Step{
					{Name: "cbuild", ExitCode: 2, Command: "cbuild x.cprj", Error: "cbuild exited with code 2"},
					{Name: "archive", Skipped: true},
				}},
			},
			Artifacts: []model.Artifact{
				{Type: model.ArtifactTypeArchive, File: "/work/EventStatistic-GCC-Debug-CM55-20240101000000.zip", Config: "GCC-Debug-CM55", Size: 2048},
				{Type: model.ArtifactTypeJUnit, File: "junit.xml", Size: 512},
			},
		},
	}

	var buf bytes.Buffer
	displayHistoryEntry(&buf, entry, []string{"CM3"})
	out := buf.String()

	assert.Contains(t, out, "=== Matrix Run: aabbccdd ===")
	assert.Contains(t, out, "AC6-Debug-CM3")
	assert.NotContains(t, out, "GCC-Debug-CM55")
	assert.Contains(t, out, "$ cbuild x.cprj")
	assert.Contains(t, out, "cbuild exited with code 2")
	assert.Contains(t, out, "junit: /repo/.exmatrix/history/20240101-000000-nogit-aabbccdd/junit.xml (0.5 KB)")
}
