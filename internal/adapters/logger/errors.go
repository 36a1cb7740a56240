package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// messager describes an error that can report its own message without the chain.
// This matches the Message() method provided by zerr.Error.
type messager interface {
	Message() string
}

// metadataer matches zerr.Error's Metadata() method.
type metadataer interface {
	Metadata() map[string]any
}

// ErrorEntry is one link of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries flattens err into its chain of messages.
//
// zerr errors contribute their own message and metadata and are unwrapped.
// Joined errors contribute each member in order. Any other error contributes
// its full text and ends its branch. A zerr error without a message passes
// its metadata on to the next entry.
func collectErrorEntries(err error) []ErrorEntry {
	var (
		entries []ErrorEntry
		pending map[string]any
	)

	var walk func(error)
	walk = func(current error) {
		for current != nil {
			if joined, ok := current.(interface{ Unwrap() []error }); ok {
				for _, member := range joined.Unwrap() {
					walk(member)
				}
				return
			}

			m, ok := current.(messager)
			if !ok {
				entries = append(entries, ErrorEntry{Message: current.Error(), Metadata: pending})
				pending = nil
				return
			}

			var meta map[string]any
			if md, ok := current.(metadataer); ok {
				meta = md.Metadata()
			}
			if m.Message() == "" {
				if len(meta) > 0 {
					if pending == nil {
						pending = make(map[string]any, len(meta))
					}
					maps.Copy(pending, meta)
				}
			} else {
				if pending != nil {
					if meta == nil {
						meta = make(map[string]any, len(pending))
					}
					maps.Copy(meta, pending)
					pending = nil
				}
				entries = append(entries, ErrorEntry{Message: m.Message(), Metadata: meta})
			}
			current = errors.Unwrap(current)
		}
	}

	walk(err)
	return entries
}

// formatErrorEntries renders entries as a headline followed by a "Caused by" list.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		head, indent := "Error: ", "       "
		if i > 0 {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			head, indent = "    → ", "      "
		}

		lines = append(lines, head+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}
		for _, key := range slices.Sorted(maps.Keys(entry.Metadata)) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, key, entry.Metadata[key]))
		}
	}

	return strings.Join(lines, "\n")
}
