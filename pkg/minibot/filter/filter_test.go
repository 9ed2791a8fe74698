package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jamesainslie/minibot/pkg/minibot/types"
)

func e(path string, size int64) types.FileEntry {
	return types.FileEntry{Path: path, Size: size}
}

func TestRank_Scenario(t *testing.T) {
	entries := []types.FileEntry{
		e("/root/a.txt", 10),
		e("/root/b.txt", 30),
		e("/root/sub/c.txt", 20),
	}

	got := Rank(entries, 2, "")

	assert.Equal(t, []types.FileEntry{e("/root/b.txt", 30), e("/root/sub/c.txt", 20)}, got)
}

func TestRank(t *testing.T) {
	input := []types.FileEntry{
		e("/a.log", 5),
		e("/b.mp4", 50),
		e("/c.log", 50),
		e("/d.LOG", 70),
		e("/e.log", 1),
		e("/f.mp4", 5),
	}

	tests := []struct {
		name   string
		limit  int
		suffix string
		want   []types.FileEntry
	}{
		{
			name:  "stable among equal sizes",
			limit: 0,
			want: []types.FileEntry{
				e("/d.LOG", 70), e("/b.mp4", 50), e("/c.log", 50),
				e("/a.log", 5), e("/f.mp4", 5), e("/e.log", 1),
			},
		},
		{
			name:  "limit truncates",
			limit: 3,
			want:  []types.FileEntry{e("/d.LOG", 70), e("/b.mp4", 50), e("/c.log", 50)},
		},
		{
			name:   "suffix is case-sensitive and applied before limit",
			limit:  2,
			suffix: ".log",
			want:   []types.FileEntry{e("/c.log", 50), e("/a.log", 5)},
		},
		{
			name:   "limit larger than input",
			limit:  10,
			suffix: ".mp4",
			want:   []types.FileEntry{e("/b.mp4", 50), e("/f.mp4", 5)},
		},
		{
			name:   "no matches",
			limit:  5,
			suffix: ".iso",
			want:   []types.FileEntry{},
		},
		{
			name:  "negative limit is unlimited",
			limit: -1,
			want: []types.FileEntry{
				e("/d.LOG", 70), e("/b.mp4", 50), e("/c.log", 50),
				e("/a.log", 5), e("/f.mp4", 5), e("/e.log", 1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(input, tt.limit, tt.suffix)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), max(len(input), tt.limit))
		})
	}
}

func TestRank_DoesNotModifyInput(t *testing.T) {
	input := []types.FileEntry{e("/small", 1), e("/big", 2)}
	_ = Rank(input, 1, "")

	assert.Equal(t, []types.FileEntry{e("/small", 1), e("/big", 2)}, input)
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil, 20, ""))
}

func TestFilter_MinSize(t *testing.T) {
	f := New(WithMinSize(10), WithLimit(5))

	got := f.Apply([]types.FileEntry{e("/a", 9), e("/b", 10), e("/c", 11)})

	assert.Equal(t, []types.FileEntry{e("/c", 11), e("/b", 10)}, got)
}

func TestOptionsClampNegatives(t *testing.T) {
	f := New(WithLimit(-4), WithMinSize(-1))

	assert.Equal(t, 0, f.Limit)
	assert.Equal(t, int64(0), f.MinSize)
	assert.True(t, f.Match(e("/zero", 0)))
}
