package collate

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Key is a composite view key. Components may be nil, bool, an integer or
// float number, a string, or MaxValue.
type Key []any

type maxValue struct{}

func (maxValue) String() string { return "{}" }

// MaxValue sorts after every other key component. It is used as an open upper
// bound for a key dimension.
var MaxValue any = maxValue{}

const (
	tagNull byte = 0x10 + iota
	tagFalse
	tagTrue
	tagNumber
	tagString
	tagMax
)

func rank(v any) (byte, error) {
	switch v.(type) {
	case nil:
		return tagNull, nil
	case bool:
		if v.(bool) {
			return tagTrue, nil
		}
		return tagFalse, nil
	case int, int32, int64, uint32, float32, float64:
		return tagNumber, nil
	case string:
		return tagString, nil
	case maxValue:
		return tagMax, nil
	default:
		return 0, fmt.Errorf("unsupported key component %T", v)
	}
}

func number(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint32:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

// CompareValues orders two key components. Unsupported types sort as null.
func CompareValues(a, b any) int {
	ra, _ := rank(a)
	rb, _ := rank(b)
	if ra == 0 {
		ra = tagNull
	}
	if rb == 0 {
		rb = tagNull
	}
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case tagNumber:
		na, nb := number(a), number(b)
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case tagString:
		return strings.Compare(a.(string), b.(string))
	}
	return 0
}

// Compare orders two composite keys element by element; a key that is a
// prefix of another sorts first.
func Compare(a, b Key) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := CompareValues(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Encode renders a key into bytes whose lexicographic order matches Compare.
func Encode(k Key) ([]byte, error) {
	var buf bytes.Buffer
	for _, v := range k {
		tag, err := rank(v)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(tag)
		switch tag {
		case tagNumber:
			bits := math.Float64bits(number(v))
			if bits&(1<<63) != 0 {
				bits = ^bits
			} else {
				bits |= 1 << 63
			}
			var b [8]byte
			binary.BigEndian.PutUint64(b[:], bits)
			buf.Write(b[:])
		case tagString:
			s := v.(string)
			for i := 0; i < len(s); i++ {
				if s[i] == 0x00 {
					buf.Write([]byte{0x00, 0xFF})
					continue
				}
				buf.WriteByte(s[i])
			}
			buf.Write([]byte{0x00, 0x01})
		}
	}
	return buf.Bytes(), nil
}

// MustEncode is Encode for keys built from known component types.
func MustEncode(k Key) []byte {
	b, err := Encode(k)
	if err != nil {
		panic(err)
	}
	return b
}
