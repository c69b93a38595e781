// Package scan classifies a device table for review.
//
// Every device lands in the bucket named after its known/reserved/active
// state (KNOWN_RESERVED_ACTIVE, not_known_not_reserved_ACTIVE, ...). Active
// devices without a group are also listed in ACTIVE_UNCLASSIFIED, the
// "needs triage" list.
package scan
