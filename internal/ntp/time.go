package ntp

import (
	"math"
	"time"
)

const (
	EraLength     int64   = 4_294_967_296 // 2^32
	UnixEraOffset int64   = 2_208_988_800 // 1970 - 1900 in seconds
	ShortLength   float64 = 65536         // 2^16
)

// Timestamp is the 64-bit NTP timestamp: seconds since 1900 and a 2^-32 s fraction.
type Timestamp struct {
	Seconds  uint32
	Fraction uint32
}

// Short is the 16.16 fixed point format used for root delay and dispersion.
type Short uint32

// TimestampFromUnix converts Unix seconds into an NTP timestamp. The fractional
// part is truncated into the fraction field.
func TimestampFromUnix(unixSeconds float64) Timestamp {
	whole := math.Floor(unixSeconds)
	return Timestamp{
		Seconds:  uint32(int64(whole) + UnixEraOffset),
		Fraction: uint32((unixSeconds - whole) * float64(EraLength)),
	}
}

// Unix returns the timestamp as seconds since the Unix epoch.
func (ts Timestamp) Unix() float64 {
	return float64(int64(ts.Seconds)-UnixEraOffset) + float64(ts.Fraction)/float64(EraLength)
}

func (ts Timestamp) IsZero() bool {
	return ts.Seconds == 0 && ts.Fraction == 0
}

func (ts Timestamp) Time() time.Time {
	sec := int64(ts.Seconds) - UnixEraOffset
	nsec := (int64(ts.Fraction) * int64(time.Second)) >> 32
	return time.Unix(sec, nsec)
}

func (ts Timestamp) encoded() uint64 {
	return uint64(ts.Seconds)<<32 | uint64(ts.Fraction)
}

func timestampFromEncoded(v uint64) Timestamp {
	return Timestamp{Seconds: uint32(v >> 32), Fraction: uint32(v)}
}

// Seconds interprets the upper 16 bits as a signed integer part.
func (s Short) Seconds() float64 {
	return float64(int16(s>>16)) + float64(uint16(s))/ShortLength
}

func ShortFromSeconds(seconds float64) Short {
	whole := math.Floor(seconds)
	return Short(uint32(uint16(int16(whole)))<<16 | uint32(uint16((seconds-whole)*ShortLength)))
}

// Log2ToDouble expands the log2 seconds used by the poll and precision fields.
func Log2ToDouble(a int8) float64 {
	return math.Ldexp(1, int(a))
}
