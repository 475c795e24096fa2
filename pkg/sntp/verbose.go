package sntp

import (
	"fmt"
	"time"

	"github.com/AndrewLester/sntpal/internal/ntp"
	"github.com/sirupsen/logrus"
)

const timestampLayout = "2006-01-02 15:04:05.000000000"

func (c *Client) infof(format string, args ...any) {
	if c.verbose {
		c.logger.WithField("server", c.server).Infof(format, args...)
	}
}

func (c *Client) dumpPacket(title string, encoded []byte) {
	if !c.verbose {
		return
	}

	packet, err := ntp.Decode(encoded)
	if err != nil {
		return
	}

	c.logger.WithFields(logrus.Fields{
		"li":              packet.Leap,
		"vn":              packet.Version,
		"mode":            packet.Mode.String(),
		"stratum":         fmt.Sprintf("%d (%s)", packet.Stratum, ntp.StratumString(packet.Stratum)),
		"poll":            fmt.Sprintf("%d (%g s)", packet.Poll, ntp.Log2ToDouble(packet.Poll)),
		"precision":       fmt.Sprintf("%d (%g s)", packet.Precision, ntp.Log2ToDouble(packet.Precision)),
		"root_delay":      fmt.Sprintf("%.6f s", packet.RootDelay.Seconds()),
		"root_dispersion": fmt.Sprintf("%.6f s", packet.RootDispersion.Seconds()),
		"refid":           packet.RefIDString(),
		"reference":       formatTimestamp(packet.Reference),
		"originate":       formatTimestamp(packet.Originate),
		"receive":         formatTimestamp(packet.Receive),
		"transmit":        formatTimestamp(packet.Transmit),
	}).Info(title)
}

func (c *Client) dumpExchange(t1, t2, t3, t4 float64, result *SyncResult) {
	if !c.verbose {
		return
	}

	c.logger.WithFields(logrus.Fields{
		"t1":          formatSeconds(t1),
		"t2":          formatSeconds(t2),
		"t3":          formatSeconds(t3),
		"t4":          formatSeconds(t4),
		"delay_ms":    fmt.Sprintf("%.2f", result.Delay*1e3),
		"offset_ms":   fmt.Sprintf("%.2f", result.Offset*1e3),
		"server_time": formatSeconds(result.AnchorServerTime),
	}).Info("SNTP exchange")
}

func formatTimestamp(ts ntp.Timestamp) string {
	if ts.IsZero() {
		return "0"
	}
	return fmt.Sprintf("%s (%d.%d)", ts.Time().Local().Format(timestampLayout), ts.Seconds, ts.Fraction)
}

func formatSeconds(seconds float64) string {
	return unixSecondsToTime(seconds).Local().Format(time.DateTime + ".000")
}
