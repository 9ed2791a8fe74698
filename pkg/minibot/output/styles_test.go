package output

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/jamesainslie/minibot/pkg/minibot/types"
)

func TestResolveColor(t *testing.T) {
	tests := []struct {
		in   string
		want lipgloss.Color
		ok   bool
	}{
		{"green", "2", true},
		{"GREEN", "2", true},
		{" cyan ", "6", true},
		{"lightcyan_ex", "14", true},
		{"LIGHTRED_EX", "9", true},
		{"bright-blue", "12", true},
		{"light_magenta", "13", true},
		{"grey", "8", true},
		{"208", "208", true},
		{"#ff8800", "#ff8800", true},
		{"#abc", "#abc", true},
		{"#zzzzzz", DefaultPrimary, false},
		{"256", DefaultPrimary, false},
		{"chartreuse", DefaultPrimary, false},
		{"", DefaultPrimary, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ResolveColor(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestNewTheme_FallsBackToGreen(t *testing.T) {
	assert.Equal(t, DefaultPrimary, NewTheme("not-a-colour").Primary)
	assert.Equal(t, lipgloss.Color("5"), NewTheme("magenta").Primary)
}

func TestTruncatePath(t *testing.T) {
	long := "/" + strings.Repeat("a", 100) + "/file.bin"

	got := TruncatePath(long, MaxPathWidth)
	assert.Len(t, []rune(got), MaxPathWidth)
	assert.True(t, strings.HasPrefix(got, "..."))
	assert.True(t, strings.HasSuffix(got, "/file.bin"))

	assert.Equal(t, "/short/path", TruncatePath("/short/path", MaxPathWidth))
	assert.Equal(t, "/ab", TruncatePath("/ab", 2))
}

func TestTruncatePath_Runes(t *testing.T) {
	got := TruncatePath("/данные/файл.txt", 10)
	assert.Equal(t, "...айл.txt", got)
}

func TestTable(t *testing.T) {
	files := []types.FileEntry{
		{Path: "/data/big.iso", Size: 3_000_000},
		{Path: "/data/" + strings.Repeat("x", 120), Size: 1},
	}

	out := Table(files, NewTheme("green"))

	assert.Contains(t, out, "No.")
	assert.Contains(t, out, "File Path")
	assert.Contains(t, out, "/data/big.iso")
	assert.Contains(t, out, "3.0 MB")
	assert.Contains(t, out, "...xxx")
	assert.NotContains(t, out, strings.Repeat("x", 100))
}
