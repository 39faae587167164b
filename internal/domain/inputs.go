package domain

import "encoding/json"

type CreateNetworkInput struct {
	Project string
	Driver  json.RawMessage
}

type CreateSubnetInput struct {
	NetworkID  int64
	CIDR       string
	Range      string
	Discovery  string
	BootServer string
	DNS        []string
	Router     string
}

type CreateNodeInput struct {
	Name           string
	Kind           NodeKind
	DiscoveredIPv4 string
	DiscoveredMAC  string
	TargetIPv4     string
}
