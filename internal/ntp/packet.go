package ntp

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var ErrMalformedPacket = errors.New("malformed packet")

// Packet is the semantic form of the 48 byte SNTP header.
type Packet struct {
	Leap           LeapIndicator /* leap indicator */
	Version        uint8         /* version number */
	Mode           Mode          /* mode */
	Stratum        uint8         /* stratum */
	Poll           int8          /* poll interval */
	Precision      int8          /* precision */
	RootDelay      Short         /* root delay */
	RootDispersion Short         /* root dispersion */
	ReferenceID    [4]byte       /* reference ID */
	Reference      Timestamp     /* reference time */
	Originate      Timestamp     /* origin timestamp */
	Receive        Timestamp     /* receive timestamp */
	Transmit       Timestamp     /* transmit timestamp */
}

// Field offsets within the header.
const (
	offStratum   = 1
	offPoll      = 2
	offPrecision = 3
	offRootDelay = 4
	offRootDisp  = 8
	offRefID     = 12
	offReftime   = 16
	offOrg       = 24
	offRec       = 32
	offXmt       = 40
)

// EncodeRequest builds a client request whose only non-zero fields are the
// version, the mode and the transmit timestamp.
func EncodeRequest(transmitTime float64) []byte {
	packet := Packet{
		Leap:     LeapNone,
		Version:  VERSION,
		Mode:     CLIENT,
		Transmit: TimestampFromUnix(transmitTime),
	}
	return packet.Encode()
}

func (packet *Packet) Encode() []byte {
	buf := make([]byte, PacketSize)
	buf[0] = (byte(packet.Leap)&0b11)<<6 | (packet.Version&0b111)<<3 | byte(packet.Mode)&0b111
	buf[offStratum] = packet.Stratum
	buf[offPoll] = byte(packet.Poll)
	buf[offPrecision] = byte(packet.Precision)
	binary.BigEndian.PutUint32(buf[offRootDelay:], uint32(packet.RootDelay))
	binary.BigEndian.PutUint32(buf[offRootDisp:], uint32(packet.RootDispersion))
	copy(buf[offRefID:offReftime], packet.ReferenceID[:])
	binary.BigEndian.PutUint64(buf[offReftime:], packet.Reference.encoded())
	binary.BigEndian.PutUint64(buf[offOrg:], packet.Originate.encoded())
	binary.BigEndian.PutUint64(buf[offRec:], packet.Receive.encoded())
	binary.BigEndian.PutUint64(buf[offXmt:], packet.Transmit.encoded())
	return buf
}

// DecodeReply parses a server reply. Anything other than exactly PacketSize
// bytes is rejected.
func DecodeReply(encoded []byte) (*Packet, error) {
	return Decode(encoded)
}

// Decode reads a header in either direction; requests and replies share the layout.
func Decode(encoded []byte) (*Packet, error) {
	if len(encoded) != PacketSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedPacket, len(encoded), PacketSize)
	}

	firstByte := encoded[0]
	packet := &Packet{
		Leap:           LeapIndicator(firstByte >> 6),
		Version:        (firstByte >> 3) & 0b111,
		Mode:           Mode(firstByte & 0b111),
		Stratum:        encoded[offStratum],
		Poll:           int8(encoded[offPoll]),
		Precision:      int8(encoded[offPrecision]),
		RootDelay:      Short(binary.BigEndian.Uint32(encoded[offRootDelay:])),
		RootDispersion: Short(binary.BigEndian.Uint32(encoded[offRootDisp:])),
		Reference:      timestampFromEncoded(binary.BigEndian.Uint64(encoded[offReftime:])),
		Originate:      timestampFromEncoded(binary.BigEndian.Uint64(encoded[offOrg:])),
		Receive:        timestampFromEncoded(binary.BigEndian.Uint64(encoded[offRec:])),
		Transmit:       timestampFromEncoded(binary.BigEndian.Uint64(encoded[offXmt:])),
	}
	copy(packet.ReferenceID[:], encoded[offRefID:offReftime])

	return packet, nil
}

// RefIDString renders the reference id as ASCII for stratum 1 servers and as a
// dotted quad otherwise.
func (packet *Packet) RefIDString() string {
	id := packet.ReferenceID
	if packet.Stratum <= 1 {
		n := 0
		for n < len(id) && id[n] != 0 {
			n++
		}
		return string(id[:n])
	}
	return fmt.Sprintf("%d.%d.%d.%d", id[0], id[1], id[2], id[3])
}
