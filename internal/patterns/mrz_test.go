package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMRZ(t *testing.T) {
	text := "PASSPORT\n\n  P<USASMITH<<JOHN<ALLEN<<<<<<<<  \n  123456789USA8001014M3001012<<<<<<<<<<<<<<06\n"

	m, ok := FindMRZ(text)
	require.True(t, ok)
	assert.Equal(t, "P<USASMITH<<JOHN<ALLEN<<<<<<<<", m.Line1)
	assert.Equal(t, "123456789USA8001014M3001012<<<<<<<<<<<<<<06", m.Line2)

	name, ok := m.Name()
	require.True(t, ok)
	assert.Equal(t, "John Allen Smith", name)

	country, ok := m.Country()
	require.True(t, ok)
	assert.Equal(t, "USA", country)

	num, ok := m.DocumentNumber()
	require.True(t, ok)
	assert.Equal(t, "123456789", num)
}

func TestMRZ_Malformed(t *testing.T) {
	m := MRZ{Line1: "P<USASMITH"}

	_, ok := m.Name()
	assert.False(t, ok)
	_, ok = m.Country()
	assert.False(t, ok)
	_, ok = m.DocumentNumber()
	assert.False(t, ok, "no second line")

	_, ok = MRZ{Line1: "P<"}.Name()
	assert.False(t, ok)
}

func TestMRZ_DocumentNumber(t *testing.T) {
	tests := []struct {
		line2 string
		want  string
		ok    bool
	}{
		{line2: "L898902C<3UTO6908061F9406236ZE184226B<<<<<14", want: "L898902C", ok: true},
		{line2: "C03005988<1USA", want: "C03005988", ok: true},
		{line2: "Passport No 123456789", want: "123456789", ok: true},
		{line2: "PASSPORT NO 123456789", want: "123456789", ok: true},
		{line2: "DOCUMENT 123456789", want: "123456789", ok: true},
		{line2: "DOCUMENTATION", ok: false},
		{line2: "no number here", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.line2, func(t *testing.T) {
			got, ok := MRZ{Line1: "P<USAX<<Y", Line2: tt.line2}.DocumentNumber()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindMRZ_Absent(t *testing.T) {
	_, ok := FindMRZ("UNITED STATES OF AMERICA\nJOHN SMITH")
	assert.False(t, ok)

	_, ok = MRZName.Apply("no mrz")
	assert.False(t, ok)
}
