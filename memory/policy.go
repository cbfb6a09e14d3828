// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"fmt"
	"strings"
)

// IDPolicy describes how the memory store assigns IDs to new records.
type IDPolicy int

const (
	// IDSequence assigns IDs from a counter that starts one past
	// the highest seeded ID and only ever increases.  IDs are never
	// reused, even after deletes.
	IDSequence IDPolicy = iota

	// IDCount assigns each new record an ID one greater than the
	// current number of records.  After a delete this can pick an
	// ID that is still in use, in which case the new record
	// replaces the old one.  This matches the historical behavior
	// of the service.
	IDCount
)

// String renders the policy name.
func (p IDPolicy) String() string {
	switch p {
	case IDSequence:
		return "sequence"
	case IDCount:
		return "count"
	default:
		return fmt.Sprintf("IDPolicy(%d)", int(p))
	}
}

// MarshalText renders the policy name.
func (p IDPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a policy name.
func (p *IDPolicy) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "sequence", "":
		*p = IDSequence
	case "count":
		*p = IDCount
	default:
		return fmt.Errorf("unknown id policy %q", string(text))
	}
	return nil
}

// Set parses a policy name.  This, with String, makes IDPolicy a
// flag.Value.
func (p *IDPolicy) Set(value string) error {
	return p.UnmarshalText([]byte(value))
}
