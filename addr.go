package ftpc

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedAddress is returned when a passive-mode reply does not
// contain the six-number address tuple.
var ErrMalformedAddress = errors.New("malformed address tuple")

// pasvRegex matches the h1,h2,h3,h4,p1,p2 tuple embedded in a PASV reply.
// Servers wrap the tuple in arbitrary prose (and not always parentheses),
// so the match is unanchored.
var pasvRegex = regexp.MustCompile(`(\d+),(\d+),(\d+),(\d+),(\d+),(\d+)`)

// Address is a data-connection endpoint negotiated over the control channel.
type Address struct {
	// Host is a dotted-quad IPv4 address.
	Host string

	// Port is the TCP port in [0, 65535].
	Port int
}

// String returns the address in host:port form.
func (a Address) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// ParsePassiveAddress extracts the data-connection address from a PASV
// reply. The reply text must contain six comma-separated decimal numbers:
// four host octets followed by the high and low bytes of the port.
//
// Example: "227 Entering Passive Mode (192,168,1,10,4,1)." yields
// Address{Host: "192.168.1.10", Port: 1025}.
func ParsePassiveAddress(text string) (Address, error) {
	m := pasvRegex.FindStringSubmatch(text)
	if m == nil {
		return Address{}, fmt.Errorf("%w: %q", ErrMalformedAddress, text)
	}

	nums := make([]int, 6)
	for i := range nums {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Address{}, fmt.Errorf("%w: %q", ErrMalformedAddress, text)
		}
		nums[i] = n
	}

	host := fmt.Sprintf("%d.%d.%d.%d", nums[0], nums[1], nums[2], nums[3])
	return Address{Host: host, Port: nums[4]*256 + nums[5]}, nil
}

// BuildPortArgument formats a local endpoint as the argument for the
// PORT command: the four host octets and the two port bytes joined by
// commas. It is the structural inverse of ParsePassiveAddress. The host
// is assumed to be a well-formed dotted quad.
func BuildPortArgument(host string, port int) string {
	octets := strings.Split(host, ".")
	return fmt.Sprintf("%s,%d,%d", strings.Join(octets, ","), port/256, port%256)
}
