package http

import (
	"encoding/json"
	"net/netip"
	"time"

	"github.com/Flarenzy/netreconciler/internal/domain"
	"go4.org/netipx"
)

// ErrorResponse is a simple envelope for error messages.
type ErrorResponse struct {
	Error string `json:"error" example:"subnet not found"`
}

// NetworkResponse is the view of a network returned to clients.
type NetworkResponse struct {
	ID        int64           `json:"id" example:"1"`
	Project   string          `json:"project" example:"lab"`
	Driver    json.RawMessage `json:"driver,omitempty" swaggertype:"object"`
	CreatedAt time.Time       `json:"created_at" example:"2024-05-10T15:04:05Z"`
	UpdatedAt time.Time       `json:"updated_at" example:"2024-05-10T15:04:05Z"`
}

// CreateNetworkRequest is the payload accepted when creating a network.
type CreateNetworkRequest struct {
	Project string          `json:"project" example:"lab"`
	Driver  json.RawMessage `json:"driver" swaggertype:"object"`
}

// SubnetResponse is the view of a subnet returned to clients.
type SubnetResponse struct {
	ID         int64     `json:"id" example:"1"`
	NetworkID  int64     `json:"network_id" example:"1"`
	CIDR       string    `json:"cidr" example:"10.0.0.0/24"`
	Range      string    `json:"range,omitempty" example:"10.0.0.10-10.0.0.200"`
	Discovery  string    `json:"discovery,omitempty" example:"10.0.0.201-10.0.0.250"`
	BootServer string    `json:"boot_server,omitempty" example:"10.0.0.2"`
	DNS        []string  `json:"dns,omitempty"`
	Router     string    `json:"router,omitempty" example:"10.0.0.1"`
	CreatedAt  time.Time `json:"created_at" example:"2024-05-10T15:04:05Z"`
	UpdatedAt  time.Time `json:"updated_at" example:"2024-05-10T15:04:05Z"`
}

// CreateSubnetRequest is the payload accepted when creating a subnet.
type CreateSubnetRequest struct {
	NetworkID  int64    `json:"network_id" example:"1"`
	CIDR       string   `json:"cidr" example:"10.0.0.0/24"`
	Range      string   `json:"range,omitempty" example:"10.0.0.10-10.0.0.200"`
	Discovery  string   `json:"discovery,omitempty" example:"10.0.0.201-10.0.0.250"`
	BootServer string   `json:"boot_server,omitempty" example:"10.0.0.2"`
	DNS        []string `json:"dns,omitempty"`
	Router     string   `json:"router,omitempty" example:"10.0.0.1"`
}

// PortResponse is the view of a port returned to clients.
type PortResponse struct {
	ID         string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	SubnetID   int64     `json:"subnet_id" example:"1"`
	NodeID     *int64    `json:"node_id,omitempty" example:"3"`
	MAC        string    `json:"mac" example:"02:42:ac:11:00:02"`
	IPv4       string    `json:"ipv4,omitempty" example:"10.0.0.10"`
	Mask       string    `json:"mask" example:"255.255.255.0"`
	TargetIPv4 string    `json:"target_ipv4,omitempty" example:"10.0.0.10"`
	Interface  string    `json:"interface" example:"eth0"`
	Status     string    `json:"status" example:"ACTIVE"`
	CreatedAt  time.Time `json:"created_at" example:"2024-05-10T15:04:05Z"`
	UpdatedAt  time.Time `json:"updated_at" example:"2024-05-10T15:04:05Z"`
}

// CreateNodeRequest registers a node that needs a port.
type CreateNodeRequest struct {
	Name           string `json:"name" example:"worker-1"`
	Kind           string `json:"kind" example:"vm" enums:"vm,baremetal"`
	DiscoveredIPv4 string `json:"discovered_ipv4,omitempty" example:"10.0.0.77"`
	DiscoveredMAC  string `json:"discovered_mac,omitempty" example:"aa:bb:cc:dd:ee:ff"`
	TargetIPv4     string `json:"target_ipv4,omitempty" example:"10.0.0.10"`
}

// NodeResponse is the view of a node returned to clients.
type NodeResponse struct {
	ID             int64                  `json:"id" example:"3"`
	Name           string                 `json:"name" example:"worker-1"`
	Kind           string                 `json:"kind" example:"vm"`
	DiscoveredIPv4 string                 `json:"discovered_ipv4,omitempty" example:"10.0.0.77"`
	DiscoveredMAC  string                 `json:"discovered_mac,omitempty" example:"aa:bb:cc:dd:ee:ff"`
	DefaultNetwork *domain.DefaultNetwork `json:"default_network,omitempty"`
}

func addrString(addr netip.Addr) string {
	if !addr.IsValid() {
		return ""
	}
	return addr.String()
}

func rangeString(r netipx.IPRange) string {
	if !r.IsValid() {
		return ""
	}
	return r.String()
}

func networkToResponse(n domain.Network) NetworkResponse {
	return NetworkResponse{
		ID:        n.ID,
		Project:   n.Project,
		Driver:    n.Driver,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func networksToResponse(networks []domain.Network) []NetworkResponse {
	out := make([]NetworkResponse, 0, len(networks))
	for _, n := range networks {
		out = append(out, networkToResponse(n))
	}
	return out
}

func subnetToResponse(s domain.Subnet) SubnetResponse {
	resp := SubnetResponse{
		ID:         s.ID,
		NetworkID:  s.NetworkID,
		CIDR:       s.CIDR.String(),
		Range:      rangeString(s.Range),
		Discovery:  rangeString(s.Discovery),
		BootServer: s.BootServer,
		Router:     addrString(s.Router),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
	for _, addr := range s.DNS {
		resp.DNS = append(resp.DNS, addr.String())
	}
	return resp
}

func subnetsToResponse(subnets []domain.Subnet) []SubnetResponse {
	out := make([]SubnetResponse, 0, len(subnets))
	for _, s := range subnets {
		out = append(out, subnetToResponse(s))
	}
	return out
}

func portToResponse(p domain.Port) PortResponse {
	return PortResponse{
		ID:         string(p.ID),
		SubnetID:   p.SubnetID,
		NodeID:     p.NodeID,
		MAC:        p.MAC,
		IPv4:       addrString(p.IPv4),
		Mask:       p.Mask,
		TargetIPv4: addrString(p.TargetIPv4),
		Interface:  p.Interface,
		Status:     string(p.Status),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func portsToResponse(ports []domain.Port) []PortResponse {
	out := make([]PortResponse, 0, len(ports))
	for _, p := range ports {
		out = append(out, portToResponse(p))
	}
	return out
}

func nodeToResponse(n domain.Node) NodeResponse {
	return NodeResponse{
		ID:             n.ID,
		Name:           n.Name,
		Kind:           string(n.Kind),
		DiscoveredIPv4: addrString(n.DiscoveredIPv4),
		DiscoveredMAC:  n.DiscoveredMAC,
		DefaultNetwork: n.DefaultNetwork,
	}
}

func (r CreateNetworkRequest) toInput() domain.CreateNetworkInput {
	return domain.CreateNetworkInput{Project: r.Project, Driver: r.Driver}
}

func (r CreateSubnetRequest) toInput() domain.CreateSubnetInput {
	return domain.CreateSubnetInput{
		NetworkID:  r.NetworkID,
		CIDR:       r.CIDR,
		Range:      r.Range,
		Discovery:  r.Discovery,
		BootServer: r.BootServer,
		DNS:        r.DNS,
		Router:     r.Router,
	}
}

func (r CreateNodeRequest) toInput() domain.CreateNodeInput {
	return domain.CreateNodeInput{
		Name:           r.Name,
		Kind:           domain.NodeKind(r.Kind),
		DiscoveredIPv4: r.DiscoveredIPv4,
		DiscoveredMAC:  r.DiscoveredMAC,
		TargetIPv4:     r.TargetIPv4,
	}
}
