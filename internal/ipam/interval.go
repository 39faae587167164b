package ipam

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

// Interval is a closed range of free IPv4 addresses encoded as integers.
type Interval struct {
	Low  uint32
	High uint32
}

func (i Interval) String() string {
	return fmt.Sprintf("(%d,%d)", i.Low, i.High)
}

func (i Interval) size() uint64 {
	return uint64(i.High-i.Low) + 1
}

func toUint32(addr netip.Addr) (uint32, bool) {
	addr = addr.Unmap()
	if !addr.Is4() {
		return 0, false
	}
	b := addr.As4()
	return binary.BigEndian.Uint32(b[:]), true
}

func fromUint32(v uint32) netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return netip.AddrFrom4(b)
}
