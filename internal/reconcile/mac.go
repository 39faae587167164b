package reconcile

import (
	"crypto/rand"
	"fmt"
	"net"
)

// randomMAC returns a locally administered unicast MAC address.
func randomMAC() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate mac: %w", err)
	}
	b[0] = (b[0] | 0x02) &^ 0x01
	return net.HardwareAddr(b).String(), nil
}
