package collate

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Key
		want int
	}{
		{name: "null before number", a: Key{nil}, b: Key{int64(0)}, want: -1},
		{name: "false before true", a: Key{false}, b: Key{true}, want: -1},
		{name: "number before string", a: Key{float64(1e15)}, b: Key{""}, want: -1},
		{name: "string before max", a: Key{"zzz"}, b: Key{MaxValue}, want: -1},
		{name: "int and float equal", a: Key{int64(3)}, b: Key{float64(3)}, want: 0},
		{name: "prefix first", a: Key{"Completed"}, b: Key{"Completed", nil}, want: -1},
		{name: "second dimension decides", a: Key{"A", int64(10)}, b: Key{"A", int64(2)}, want: 1},
		{name: "max equals max", a: Key{MaxValue}, b: Key{MaxValue}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
			assert.Equal(t, -tt.want, Compare(tt.b, tt.a))
		})
	}
}

func TestEncode_PreservesOrder(t *testing.T) {
	keys := []Key{
		{MaxValue},
		{"b", int64(1)},
		{"a\x00b"},
		{"a"},
		{"a", nil},
		{"a", MaxValue},
		{float64(-2.5)},
		{int64(-3)},
		{int64(0)},
		{int64(1704067200000), "visit_1"},
		{int64(1704067200000), nil},
		{int64(1704067200000), MaxValue, MaxValue},
		{true},
		{false},
		{nil},
		{},
	}

	byCompare := append([]Key{}, keys...)
	sort.SliceStable(byCompare, func(i, j int) bool { return Compare(byCompare[i], byCompare[j]) < 0 })

	byBytes := append([]Key{}, keys...)
	sort.SliceStable(byBytes, func(i, j int) bool {
		return bytes.Compare(MustEncode(byBytes[i]), MustEncode(byBytes[j])) < 0
	})

	assert.Equal(t, byCompare, byBytes)
}

func TestEncode_RejectsUnsupportedComponent(t *testing.T) {
	_, err := Encode(Key{struct{}{}})
	require.Error(t, err)
}
