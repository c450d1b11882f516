package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLooseInteger(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"1,500,000 AED", 1500000, true},
		{"AED 85000", 85000, true},
		{"1200 sqft", 1200, true},
		{"1200.5", 12005, true},
		{"", 0, false},
		{"N/A", 0, false},
		{"Studio", 0, false},
		{"99999999999999999999", 0, false},
		{"007", 7, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLooseInteger(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBound(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"1,000,000", 1000000, true},
		{"50000.50", 50000, true},
		{"99999.99", 99999, true},
		{"1,000.5 sqft", 1000, true},
		{" 1500 ", 1500, true},
		{"-5", 0, false},
		{".5", 0, false},
		{"", 0, false},
		{"cheap", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseBound(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRoomCount(t *testing.T) {
	tests := []struct {
		in   string
		want RoomCount
	}{
		{"Studio", Studio()},
		{" Studio ", Studio()},
		{"studio", RoomCount{}},
		{"3", Exact(3)},
		{"3 BR", Exact(3)},
		{"6+", AtLeast(6)},
		{"5 +", AtLeast(5)},
		{"+", RoomCount{}},
		{"", RoomCount{}},
		{"many", RoomCount{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRoomCount(tt.in))
		})
	}
}

func TestRoomCount_Satisfies(t *testing.T) {
	assert.True(t, Exact(3).Satisfies(Exact(3)))
	assert.True(t, AtLeast(3).Satisfies(Exact(3)))
	assert.True(t, Exact(4).Satisfies(Exact(3)))
	assert.True(t, AtLeast(6).Satisfies(Exact(3)))
	assert.False(t, Exact(2).Satisfies(Exact(3)))
	assert.False(t, AtLeast(2).Satisfies(Exact(3)))

	assert.True(t, AtLeast(6).Satisfies(AtLeast(6)))
	assert.True(t, Exact(7).Satisfies(AtLeast(6)))
	assert.False(t, AtLeast(5).Satisfies(AtLeast(6)))

	assert.True(t, Studio().Satisfies(Studio()))
	assert.False(t, Exact(1).Satisfies(Studio()))
	assert.False(t, Studio().Satisfies(Exact(1)))
	assert.False(t, RoomCount{}.Satisfies(Exact(1)))

	assert.True(t, RoomCount{}.Satisfies(RoomCount{}))
}

func TestRoomCount_String(t *testing.T) {
	assert.Equal(t, "3", Exact(3).String())
	assert.Equal(t, "6+", AtLeast(6).String())
	assert.Equal(t, "Studio", Studio().String())
	assert.Equal(t, "", RoomCount{}.String())
}
