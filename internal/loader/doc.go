// Package loader merges the known, active and reserved device sources into
// one device table keyed by MAC.
//
// # Precedence
//
//   - name: known, then active, then reserved (first non-empty wins)
//   - ip: active, then reserved
//   - group: the known entry's group, otherwise "unclassified"
//   - known/active/reserved flags: set when the MAC appears in that source
//
// Precedence is resolved by rank, so merging the same lists in any pass
// order gives the same rows.
package loader
