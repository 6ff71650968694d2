// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package lookup

import (
	"encoding/json"
	"fmt"
)

// HostInfo is what InternetDB knows about an IP address. Other lookup services
// will answer with differently shaped payloads; the batch core never looks
// into payloads.
type HostInfo struct {
	IP        string   `json:"ip"`
	Ports     []int    `json:"ports"`
	Hostnames []string `json:"hostnames"`
	CPEs      []string `json:"cpes"`
	Tags      []string `json:"tags"`
	Vulns     []string `json:"vulns"`
}

// ParseHostInfo decodes an InternetDB payload. Unknown fields are ignored and
// missing fields are left empty.
func ParseHostInfo(data json.RawMessage) (HostInfo, error) {
	var info HostInfo
	if len(data) == 0 {
		return info, fmt.Errorf("no host information")
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return HostInfo{}, fmt.Errorf("invalid host information: %w", err)
	}
	return info, nil
}
