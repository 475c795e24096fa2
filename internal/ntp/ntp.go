package ntp

type Mode byte

const (
	RESERVED Mode = iota
	SYMMETRIC_ACTIVE
	SYMMETRIC_PASSIVE
	CLIENT
	SERVER
	BROADCAST_SERVER
	BROADCAST_CLIENT
	RESERVED_PRIVATE_USE
)

type LeapIndicator byte

const (
	LeapNone LeapIndicator = iota
	LeapAddSecond
	LeapDelSecond
	LeapNoSync /* clock unsynchronized */
)

const (
	Port       = "123" // NTP port number
	PacketSize = 48    // SNTP header without extension fields or MAC
	VERSION    = 3     // version sent in client requests
	MAXSTRAT   = 15    // highest stratum accepted from a server
)

func (m Mode) String() string {
	switch m {
	case RESERVED:
		return "reserved"
	case SYMMETRIC_ACTIVE:
		return "symmetric active"
	case SYMMETRIC_PASSIVE:
		return "symmetric passive"
	case CLIENT:
		return "client"
	case SERVER:
		return "server"
	case BROADCAST_SERVER:
		return "broadcast"
	case BROADCAST_CLIENT:
		return "control"
	default:
		return "private"
	}
}

// StratumString describes a stratum value the way ntpq-like tools do.
func StratumString(stratum uint8) string {
	switch {
	case stratum == 0:
		return "unspecified or invalid"
	case stratum == 1:
		return "primary reference"
	case stratum <= MAXSTRAT:
		return "secondary reference"
	default:
		return "reserved"
	}
}
