/*
 * Copyright 2020 Brightgate Inc.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at https://mozilla.org/MPL/2.0/.
 */


// Package aprogue decides which scanned access points we trust.  A scanned
// AP is authorized when its BSSID appears in the registry; everything else
// is a rogue and is retained, in scan order, for the run report.
package aprogue

import (
	"fmt"
	"strings"
	"time"

	"rogueap/ap_common/apauth"
	"rogueap/ap_common/apscan"

	"github.com/klauspost/oui"
)

// Verdict is the classification of one scanned AP.
type Verdict int

const (
	// Authorized means the AP's BSSID is in the registry.
	Authorized Verdict = iota
	// Unauthorized means it isn't.
	Unauthorized
)

// RogueAP is one unauthorized AP as it will appear in the report.  The full
// details block is deliberately not carried; the report identifies the AP,
// the dump remains the audit trail.
type RogueAP struct {
	BSSID        string `json:"bssid"`
	SSID         string `json:"ssid"`
	LastSeen     string `json:"last_seen"`
	Manufacturer string `json:"manufacturer,omitempty"`
}

// vendorDB is the slice of the OUI database we consume: prefix lookup of
// the radio manufacturer.
type vendorDB interface {
	Query(string) (*oui.Entry, error)
}

// Accumulator collects classification results over one run.
type Accumulator struct {
	KnownCount int
	NewCount   int
	Rogues     []RogueAP

	ouiDB vendorDB
}

// NewAccumulator returns an empty accumulator for one run.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		Rogues: make([]RogueAP, 0),
	}
}

// SetOuiDB attaches an IEEE OUI database, letting the report name the
// manufacturer of each rogue radio.  Without one, the field stays empty.
func (a *Accumulator) SetOuiDB(db oui.StaticDB) {
	a.ouiDB = db
}

func (a *Accumulator) manufacturer(bssid string) string {
	if a.ouiDB == nil {
		return ""
	}
	entry, err := a.ouiDB.Query(bssid)
	if err != nil {
		return ""
	}
	return entry.Manufacturer
}

// Classify matches one scanned record against the registry and records the
// result.  Matching is on the BSSID alone, case-insensitively: a known
// BSSID broadcasting an SSID other than its registered one still classifies
// as authorized.  (That means an attacker reusing a registered BSSID for a
// different network is not flagged; this is a known limitation of
// BSSID-keyed matching, surfaced by the observed SSID in the report.)
func (a *Accumulator) Classify(rec *apscan.Record, table apauth.Table) Verdict {
	bssid, err := apauth.NormalizeMac(rec.BSSID)
	if err != nil {
		// The parser only emits addresses NormalizeMac accepts; an
		// address that arrives here unparsable can't be in the
		// registry either, so it classifies as unauthorized.
		bssid = strings.ToLower(rec.BSSID)
	}

	if _, ok := table[bssid]; ok {
		a.KnownCount++
		return Authorized
	}

	a.NewCount++
	a.Rogues = append(a.Rogues, RogueAP{
		BSSID:        rec.BSSID,
		SSID:         rec.SSID,
		LastSeen:     rec.LastSeen,
		Manufacturer: a.manufacturer(rec.BSSID),
	})
	return Unauthorized
}

// Report is the aggregate result of one run, as handed to the report sink.
type Report struct {
	Generated      time.Time `json:"generated"`
	Elapsed        string    `json:"elapsed"`
	LinesProcessed int       `json:"lines_processed"`
	KnownCount     int       `json:"known_count"`
	NewCount       int       `json:"new_count"`
	Rogues         []RogueAP `json:"unauthorized"`
}

// Report snapshots the accumulator into a final run report.
func (a *Accumulator) Report(lines int, elapsed time.Duration) *Report {
	return &Report{
		Generated:      time.Now(),
		Elapsed:        DurationString(elapsed),
		LinesProcessed: lines,
		KnownCount:     a.KnownCount,
		NewCount:       a.NewCount,
		Rogues:         a.Rogues,
	}
}

// DurationString renders an elapsed time the way the run log reads it:
// '1 h 2 min 3 sec'.  Higher units are omitted when zero; the seconds
// component is always present.
func DurationString(d time.Duration) string {
	secs := int(d / time.Second)

	var b strings.Builder
	if h := secs / 3600; h > 0 {
		fmt.Fprintf(&b, "%d h ", h)
		secs %= 3600
	}
	if m := secs / 60; m > 0 {
		fmt.Fprintf(&b, "%d min ", m)
		secs %= 60
	}
	fmt.Fprintf(&b, "%d sec", secs)

	return b.String()
}
