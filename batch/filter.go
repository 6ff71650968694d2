// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package batch

import "github.com/siemens/addrdig/types"

// IsEligible returns true if the specified entity is to be looked up, that is,
// if it is an IP address and of type IPv4.
func IsEligible(entity *types.Entity) bool {
	return entity != nil && entity.IsIP && entity.Type == types.IPv4Type
}
