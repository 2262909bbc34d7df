/*
 * Copyright 2020 Brightgate Inc.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at https://mozilla.org/MPL/2.0/.
 */


// Package apscan turns the textual output of a wireless scan ('iw dev
// <iface> scan', or a captured dump of the same) into per-AP records.
//
// The dump is a sequence of stanzas, each introduced by a 'BSS <macaddr>'
// header line and followed by indented attribute lines.  There is no stanza
// terminator; a stanza ends at the next header or at end of input.  The
// parser is a single forward pass and holds only the stanza currently being
// accumulated, so dump size is not a memory concern.
package apscan

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

var (
	octet = `[[:xdigit:]][[:xdigit:]]`

	// Colon or hyphen octet pairs, or cisco dotted quads - uniformly
	// delimited, the same forms net.ParseMAC takes, so every address we
	// emit can be normalized for registry matching.
	macAddr = `(?:` + octet + `(?::` + octet + `){5}|` +
		octet + `(?:-` + octet + `){5}|` +
		`[[:xdigit:]]{4}(?:\.[[:xdigit:]]{4}){2})`

	// BSS 98:1e:19:20:79:df(on wlan0)
	bssMacRE = regexp.MustCompile(`(?i)^BSS (` + macAddr + `)`)

	// SSID: MySpectrumWiFid8-5G
	bssSSIDRE = regexp.MustCompile(`^\s*SSID:[ \t]?(.*)$`)

	// last seen: 360 ms ago
	bssSeenRE = regexp.MustCompile(`(?i)^\s*last seen:[ \t]?(.*)$`)
)

// Record carries the fields we interpret from one scanned AP, along with the
// verbatim stanza text for auditing.
type Record struct {
	BSSID    string // as it appeared in the header line
	SSID     string // empty for hidden-SSID APs
	LastSeen string // free-form recency text, passed through unparsed
	Details  string // the full stanza, header line included
}

// Stats summarizes one pass over a dump.
type Stats struct {
	Lines   int // total lines consumed
	Skipped int // lines discarded before the first header
	Records int // stanzas finalized
}

// Parse consumes the dump line by line and calls emit once per finalized
// record, in dump order.  A header line whose address fails validation is
// ordinary body text: it never opens a record, and inside a stanza it folds
// into the details.  The record in progress is always finalized, at end of
// input or when the stream fails mid-read.
func Parse(r io.Reader, emit func(*Record)) (Stats, error) {
	var (
		stats   Stats
		cur     *Record
		details strings.Builder
	)

	finalize := func() {
		cur.Details = details.String()
		emit(cur)
		stats.Records++
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		stats.Lines++

		if m := bssMacRE.FindStringSubmatch(line); m != nil {
			if cur != nil {
				finalize()
			}
			cur = &Record{BSSID: m[1]}
			details.Reset()
		}

		if cur == nil {
			// Preamble before the first stanza
			stats.Skipped++
			continue
		}

		if details.Len() > 0 {
			details.WriteByte('\n')
		}
		details.WriteString(line)

		// Repeated attribute lines within one stanza: the last
		// occurrence wins.
		if m := bssSSIDRE.FindStringSubmatch(line); m != nil {
			cur.SSID = m[1]
		}
		if m := bssSeenRE.FindStringSubmatch(line); m != nil {
			cur.LastSeen = m[1]
		}
	}
	if err := scanner.Err(); err != nil {
		// A failed stream still yields the record in progress
		if cur != nil {
			finalize()
		}
		return stats, err
	}

	if cur != nil {
		finalize()
	}

	return stats, nil
}
