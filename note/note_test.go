package note

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{in: "C4"},
		{in: "C#4"},
		{in: "B-1"},
		{in: "A10"},
		{in: "", wantErr: true},
		{in: "C", wantErr: true},
		{in: "C#", wantErr: true},
		{in: "H4", wantErr: true},
		{in: "Db4", wantErr: true},
		{in: "c4", wantErr: true},
		{in: "C+4", wantErr: true},
		{in: "C4x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, err := Parse(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidName)
				assert.False(t, Name(tt.in).Valid())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Name(tt.in), n)
			assert.True(t, n.Valid())
		})
	}
}

func TestMIDI(t *testing.T) {
	tests := []struct {
		name Name
		want uint8
		ok   bool
	}{
		{"C4", 60, true},
		{"A4", 69, true},
		{"C#3", 49, true},
		{"C-1", 0, true},
		{"G9", 127, true},
		{"G#9", 0, false},
		{"C-2", 0, false},
		{"nope", 0, false},
	}
	for _, tt := range tests {
		got, ok := tt.name.MIDI()
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func TestFromMIDIRoundTrip(t *testing.T) {
	for n := 0; n <= 127; n++ {
		name := FromMIDI(uint8(n))
		got, ok := name.MIDI()
		require.True(t, ok, name)
		assert.Equal(t, uint8(n), got, name)
	}
	assert.Equal(t, Name("C4"), FromMIDI(60))
	assert.Equal(t, Name("F#2"), FromMIDI(42))
}

func TestAccessors(t *testing.T) {
	n := New(1, 4)
	assert.Equal(t, Name("C#4"), n)
	assert.Equal(t, 1, n.Pitch())
	assert.Equal(t, 4, n.Octave())
	assert.True(t, n.IsSharp())

	assert.False(t, Name("E2").IsSharp())
	assert.Equal(t, Name("B3"), New(-1, 3))
	assert.Equal(t, -1, Name("X9").Pitch())
	assert.False(t, Name("X9").IsSharp())
}
