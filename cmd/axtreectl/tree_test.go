package main

import (
	"context"
	"testing"
)

func TestTreeCommand(t *testing.T) {
	tests := []struct {
		name           string
		files          []string
		depth          int
		data           bool
		metadata       bool
		from           string
		wantJSON       bool
		wantErr        bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name:        "full tree",
			files:       []string{snapshotJSON},
			data:        true,
			wantContain: []string{`#1 "{\"role\":\"window\"}"`, `  #2 "\"button\""`, `    #4 "\"icon\""`, `  #3 "\"label\""`},
		},
		{
			name:           "after update",
			files:          []string{snapshotJSON, updateJSON},
			data:           true,
			wantContain:    []string{"#1", "  #3"},
			wantNotContain: []string{"#2", "#4"},
		},
		{
			name:           "depth limited without data",
			files:          []string{snapshotJSON},
			depth:          1,
			wantContain:    []string{"  #2\n", "    ... (1 children)"},
			wantNotContain: []string{"#4", "button"},
		},
		{
			name:           "subtree with metadata",
			files:          []string{snapshotJSON},
			from:           "#2",
			metadata:       true,
			wantContain:    []string{"#2 (parent=#1 index=0 children=1 gen=1)", "#4 (parent=#2 index=0"},
			wantNotContain: []string{"#3"},
		},
		{
			name:        "json",
			files:       []string{snapshotJSON},
			data:        true,
			wantJSON:    true,
			wantContain: []string{`"id": 4`, `"data": "icon"`},
		},
		{
			name:    "unknown subtree",
			files:   []string{snapshotJSON},
			from:    "42",
			wantErr: true,
		},
		{
			name:    "malformed batch",
			files:   []string{snapshotJSON, badJSON},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flags
			resetFlags()
			jsonOut = tt.wantJSON
			treeDepth = tt.depth
			treeData = tt.data
			treeMetadata = tt.metadata
			treeFrom = tt.from

			var args []string
			for i, content := range tt.files {
				args = append(args, writeBatchFile(t, string(rune('a'+i))+".json", content))
			}

			output, err := captureOutput(t, func() error {
				return runTree(context.Background(), args)
			})

			if (err != nil) != tt.wantErr {
				t.Errorf("runTree() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			if tt.wantJSON {
				assertJSON(t, output)
			}

			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestParseNodeID(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"7", 7, false},
		{"#7", 7, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"x", 0, true},
		{"4294967296", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseNodeID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseNodeID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if uint32(got) != tt.want {
				t.Errorf("parseNodeID(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
