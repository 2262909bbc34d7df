/*
 * Copyright 2020 Brightgate Inc.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at https://mozilla.org/MPL/2.0/.
 */


// Package apauth maintains the registry of access points we have been told
// to trust.  The registry source is line-oriented: one
// 'hardware-address;ssid' record per line, '#' comments, blank lines
// ignored.  The first ';' is the separator; everything after it is the SSID,
// which may legitimately be empty.
package apauth

import (
	"bufio"
	"io"
	"net"
	"regexp"
	"strings"

	"rogueap/common/urlfetch"

	"github.com/pkg/errors"
)

var commentRE = regexp.MustCompile(`^\s*#`)

// Table maps a normalized BSSID to the SSID declared for it.  Keys are
// lower-case, colon-delimited.  The SSID is informational only; membership
// of the BSSID is what authorizes an AP.
type Table map[string]string

// NormalizeMac canonicalizes a hardware address to the lower-case,
// colon-delimited form used as a Table key.  Addresses are case-insensitive
// by convention and may arrive colon-, hyphen-, or dot-delimited from either
// the registry or a scan.
func NormalizeMac(mac string) (string, error) {
	hw, err := net.ParseMAC(strings.TrimSpace(mac))
	if err != nil {
		return "", err
	}
	return hw.String(), nil
}

// add inserts an entry unless the key is already present.  First declaration
// wins; later duplicates are ignored, which makes re-loading the same source
// a no-op.
func (t Table) add(bssid, ssid string) {
	if _, ok := t[bssid]; !ok {
		t[bssid] = ssid
	}
}

// LoadReader populates a fresh Table from a line source.  It returns the
// number of lines that parsed as registry records.  Comment and blank lines
// are skipped silently; so is any line that doesn't match the record
// pattern, favoring a usable table over strict input.
func LoadReader(r io.Reader) (Table, int) {
	table := make(Table)
	loaded := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.TrimSpace(line) == "" || commentRE.MatchString(line) {
			continue
		}

		fields := strings.SplitN(line, ";", 2)
		if len(fields) != 2 {
			continue
		}

		bssid, err := NormalizeMac(fields[0])
		if err != nil {
			continue
		}

		table.add(bssid, strings.TrimSpace(fields[1]))
		loaded++
	}

	return table, loaded
}

// Load fetches the registry from a local path or an http(s) URL.  An
// unreachable source is not fatal to a run: the caller gets an empty table
// to scan against, plus the error to log.
func Load(src string) (Table, int, error) {
	r, err := urlfetch.OpenSource(src)
	if err != nil {
		return make(Table), 0, errors.Wrap(err, "unable to load AP registry")
	}
	defer r.Close()

	table, loaded := LoadReader(r)
	return table, loaded, nil
}
