package stream

import (
	"fmt"
	"strings"

	"porter/internal/app/errors"
)

// SourceKind identifies where the backend reads log lines from
type SourceKind string

// Source kinds understood by the stream endpoint
const (
	KindJournal     SourceKind = "journal"
	KindUserJournal SourceKind = "user-journal"
	KindFile        SourceKind = "file"
	KindContainer   SourceKind = "container"
	KindCompose     SourceKind = "compose"
)

// Kinds lists every source kind in display order
var Kinds = []SourceKind{KindJournal, KindUserJournal, KindFile, KindContainer, KindCompose}

// ParseSourceKind resolves a kind name, accepting a few common aliases
func ParseSourceKind(s string) (SourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "journal", "system", "journalctl":
		return KindJournal, nil
	case "user-journal", "user":
		return KindUserJournal, nil
	case "file", "tail":
		return KindFile, nil
	case "container", "docker":
		return KindContainer, nil
	case "compose":
		return KindCompose, nil
	default:
		return "", fmt.Errorf("%w: '%s'", errors.ErrInvalidSourceKind, s)
	}
}

// Valid reports whether k is one of the known kinds
func (k SourceKind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}

	return false
}

// NeedsTarget reports whether the kind reads from a named unit, file or container
func (k SourceKind) NeedsTarget() bool {
	return k == KindFile || k == KindContainer || k == KindCompose
}

// SupportsFilter reports whether the backend applies a filter string for this kind
func (k SourceKind) SupportsFilter() bool {
	return k == KindJournal || k == KindUserJournal
}

// SupportsElevated reports whether the kind can be read with elevated privileges
func (k SourceKind) SupportsElevated() bool {
	return k == KindFile
}

// Label returns a human readable name
func (k SourceKind) Label() string {
	switch k {
	case KindJournal:
		return "system journal"
	case KindUserJournal:
		return "user journal"
	case KindFile:
		return "file"
	case KindContainer:
		return "container"
	case KindCompose:
		return "compose"
	default:
		return string(k)
	}
}
