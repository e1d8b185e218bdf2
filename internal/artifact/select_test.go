// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"testing"
	"time"
)

func at(sec int64) time.Time { return time.Unix(sec, 0) }

func TestSelect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		candidates    []Candidate
		configuration string
		want          string
	}{
		{
			name:          "single candidate with unrelated configuration",
			candidates:    []Candidate{{Path: "/b/out/x.so", ModTime: at(1)}},
			configuration: "MinSizeRel",
			want:          "/b/out/x.so",
		},
		{
			name:          "single candidate with empty configuration",
			candidates:    []Candidate{{Path: "/b/out/x.so", ModTime: at(1)}},
			configuration: "",
			want:          "/b/out/x.so",
		},
		{
			name: "configuration substring beats recency",
			candidates: []Candidate{
				{Path: "/b/a/Release/x.so", ModTime: at(1)},
				{Path: "/b/b/Debug/x.so", ModTime: at(2)},
			},
			configuration: "Release",
			want:          "/b/a/Release/x.so",
		},
		{
			name: "first matching path wins",
			candidates: []Candidate{
				{Path: "/b/z/Release/x.so", ModTime: at(9)},
				{Path: "/b/a/Release/x.so", ModTime: at(1)},
			},
			configuration: "Release",
			want:          "/b/a/Release/x.so",
		},
		{
			name: "recency fallback",
			candidates: []Candidate{
				{Path: "/b/a/out1/x.so", ModTime: at(1)},
				{Path: "/b/b/out2/x.so", ModTime: at(2)},
			},
			configuration: "MinSizeRel",
			want:          "/b/b/out2/x.so",
		},
		{
			name: "recency tie broken by path order",
			candidates: []Candidate{
				{Path: "/b/c/x.so", ModTime: at(5)},
				{Path: "/b/a/x.so", ModTime: at(5)},
				{Path: "/b/b/x.so", ModTime: at(3)},
			},
			configuration: "Release",
			want:          "/b/a/x.so",
		},
		{
			name: "empty configuration matches every path",
			candidates: []Candidate{
				{Path: "/b/b/x.so", ModTime: at(2)},
				{Path: "/b/a/x.so", ModTime: at(1)},
			},
			configuration: "",
			want:          "/b/a/x.so",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Select(tt.candidates, tt.configuration)
			if !ok {
				t.Fatal("Select() reported no candidate")
			}
			if got.Path != tt.want {
				t.Errorf("Select() = %q, want %q", got.Path, tt.want)
			}
		})
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	t.Parallel()

	forward := []Candidate{
		{Path: "/b/1/x.so", ModTime: at(7)},
		{Path: "/b/2/x.so", ModTime: at(7)},
		{Path: "/b/3/x.so", ModTime: at(7)},
	}
	reversed := []Candidate{forward[2], forward[1], forward[0]}

	a, _ := Select(forward, "Debug")
	b, _ := Select(reversed, "Debug")
	if a != b {
		t.Errorf("Select() depends on input order: %q vs %q", a.Path, b.Path)
	}

	// Input slice must not be reordered.
	if reversed[0].Path != "/b/3/x.so" {
		t.Error("Select() mutated its input")
	}
}

func TestSelectEmpty(t *testing.T) {
	t.Parallel()

	if _, ok := Select(nil, "Release"); ok {
		t.Error("Select(nil) reported a candidate")
	}
}
