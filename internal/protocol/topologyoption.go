// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

// topologyOption identifies an entry of a single host record within a
// TOPOLOGY_INFORMATION part's multiLineOptions list.
type topologyOption int8

const (
	toHostName      topologyOption = 1
	toHostPortNumber topologyOption = 2
	toLoadFactor    topologyOption = 3
	toVolumeID      topologyOption = 4
	toIsMaster      topologyOption = 5
	toIsCurrentSession topologyOption = 6
	toServiceType   topologyOption = 7
	toNetworkDomain topologyOption = 8
	toIsStandby     topologyOption = 9
	toAllIpAddresses topologyOption = 10
)

var topologyOptionText = map[topologyOption]string{
	toHostName:         "hostName",
	toHostPortNumber:   "hostPortNumber",
	toLoadFactor:       "loadFactor",
	toVolumeID:         "volumeID",
	toIsMaster:         "isMaster",
	toIsCurrentSession: "isCurrentSession",
	toServiceType:      "serviceType",
	toNetworkDomain:    "networkDomain",
	toIsStandby:        "isStandby",
	toAllIpAddresses:   "allIpAddresses",
}

func (o topologyOption) String() string {
	if s, ok := topologyOptionText[o]; ok {
		return s
	}
	return "unknown"
}
