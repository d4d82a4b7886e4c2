package dictionary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	input := "the 5000\nBerlin\n\nclock 12\nit's\nx1\nat\n"
	d, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 4, d.Len())
	assert.True(t, d.Contains("berlin"))
	assert.True(t, d.Contains("AT"))
	assert.False(t, d.Contains("ITS"))
}

func TestDictionary_Find(t *testing.T) {
	d := New("east", "north", "northeast", "the", "at", "clock", "berlin")
	tests := []struct {
		name string
		text string
		want []Match
	}{
		{
			name: "overlapping",
			text: "EASTNORTHEAST",
			want: []Match{
				{Word: "EAST", Pos: 0},
				{Word: "NORTH", Pos: 4},
				{Word: "NORTHEAST", Pos: 4},
				{Word: "THE", Pos: 7},
				{Word: "EAST", Pos: 9},
			},
		},
		{
			name: "short words ignored",
			text: "XXATXX",
			want: nil,
		},
		{
			name: "lower case",
			text: "berlinclock",
			want: []Match{{Word: "BERLIN", Pos: 0}, {Word: "CLOCK", Pos: 6}},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Find(tt.text))
		})
	}
}

func TestWatchWords(t *testing.T) {
	words := []string{"BERLIN", "CLOCK", "EAST", "NORTH", "BERLINCLOCK", "EASTNORTHEAST"}
	got := WatchWords("xxeastnortheastyyberlinclock", words)
	assert.Equal(t, words, got)

	assert.Empty(t, WatchWords("NOTHINGHERE", words))
}
