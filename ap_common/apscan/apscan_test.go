/*
 * Copyright 2020 Brightgate Inc.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at https://mozilla.org/MPL/2.0/.
 */


package apscan

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func parseAll(t *testing.T, dump string) ([]*Record, Stats) {
	var recs []*Record

	stats, err := Parse(strings.NewReader(dump), func(r *Record) {
		recs = append(recs, r)
	})
	require.NoError(t, err)
	return recs, stats
}

func TestParseOneStanza(t *testing.T) {
	assert := require.New(t)

	lines := []string{
		"BSS aa:bb:cc:dd:ee:ff(on wlan0)",
		"\tTSF: 4710213316 usec (0d, 01:18:30)",
		"\tfreq: 2437",
		"\tsignal: -42.00 dBm",
		"\tlast seen: 10 ms ago",
		"\tSSID: HomeNet",
	}
	dump := strings.Join(lines, "\n") + "\n"

	recs, stats := parseAll(t, dump)
	assert.Len(recs, 1)
	assert.Equal(1, stats.Records)
	assert.Equal(6, stats.Lines)
	assert.Equal(0, stats.Skipped)

	ap := recs[0]
	assert.Equal("aa:bb:cc:dd:ee:ff", ap.BSSID)
	assert.Equal("HomeNet", ap.SSID)
	assert.Equal("10 ms ago", ap.LastSeen)
	assert.Equal(strings.Join(lines, "\n"), ap.Details)
}

func TestParseMultipleStanzas(t *testing.T) {
	assert := require.New(t)

	dump := "BSS aa:bb:cc:dd:ee:ff(on wlan0)\n" +
		"\tSSID: HomeNet\n" +
		"BSS 11:22:33:44:55:66(on wlan0)\n" +
		"\tSSID: EvilTwin\n" +
		"BSS 22:33:44:55:66:77(on wlan0)\n" +
		"\tSSID: Neighbor\n"

	recs, stats := parseAll(t, dump)
	assert.Equal(3, stats.Records)
	assert.Equal([]string{"HomeNet", "EvilTwin", "Neighbor"},
		[]string{recs[0].SSID, recs[1].SSID, recs[2].SSID})
	assert.Equal("11:22:33:44:55:66", recs[1].BSSID)
}

// The final stanza has no header after it; it must still be emitted.
func TestTrailingStanzaFinalized(t *testing.T) {
	assert := require.New(t)

	dump := "BSS aa:bb:cc:dd:ee:ff(on wlan0)\n\tSSID: HomeNet"
	recs, _ := parseAll(t, dump)
	assert.Len(recs, 1)
	assert.Equal("HomeNet", recs[0].SSID)
}

func TestPreambleSkipped(t *testing.T) {
	assert := require.New(t)

	dump := "scanning on wlan0...\n" +
		"\tSSID: NotARecord\n" +
		"BSS aa:bb:cc:dd:ee:ff(on wlan0)\n" +
		"\tSSID: HomeNet\n"

	recs, stats := parseAll(t, dump)
	assert.Len(recs, 1)
	assert.Equal(2, stats.Skipped)
	assert.Equal("HomeNet", recs[0].SSID)
	assert.NotContains(recs[0].Details, "NotARecord")
}

// A header-lookalike whose address isn't valid hex groups must not open a
// new record; inside a stanza it's ordinary body text.
func TestMalformedHeader(t *testing.T) {
	assert := require.New(t)

	dump := "BSS zz:bb:cc:dd:ee:ff(on wlan0)\n" +
		"BSS aa:bb:cc:dd:ee:ff(on wlan0)\n" +
		"BSS aa:bb:cc:dd:ee(on wlan0)\n" +
		"\tSSID: HomeNet\n"

	recs, stats := parseAll(t, dump)
	assert.Len(recs, 1)
	assert.Equal(1, stats.Skipped)
	assert.Equal("aa:bb:cc:dd:ee:ff", recs[0].BSSID)
	assert.Contains(recs[0].Details, "BSS aa:bb:cc:dd:ee(on wlan0)")
}

// Hidden-SSID APs produce a record with an empty SSID.
func TestMissingSSID(t *testing.T) {
	assert := require.New(t)

	dump := "BSS aa:bb:cc:dd:ee:ff(on wlan0)\n" +
		"\tsignal: -77.00 dBm\n" +
		"\tlast seen: 1220 ms ago\n"

	recs, _ := parseAll(t, dump)
	assert.Len(recs, 1)
	assert.Equal("", recs[0].SSID)
	assert.Equal("1220 ms ago", recs[0].LastSeen)
}

func TestRepeatedAttributesLastWins(t *testing.T) {
	assert := require.New(t)

	dump := "BSS aa:bb:cc:dd:ee:ff(on wlan0)\n" +
		"\tSSID: First\n" +
		"\tlast seen: 10 ms ago\n" +
		"\tSSID: Second\n" +
		"\tlast seen: 20 ms ago\n"

	recs, _ := parseAll(t, dump)
	assert.Equal("Second", recs[0].SSID)
	assert.Equal("20 ms ago", recs[0].LastSeen)
}

func TestHeaderCaseAndDelimiters(t *testing.T) {
	assert := require.New(t)

	dump := "BSS AA:BB:CC:DD:EE:FF(on wlan0)\n" +
		"BSS aa-bb-cc-dd-ee-00(on wlan0)\n" +
		"BSS aabb.ccdd.ee00(on wlan0)\n"

	recs, stats := parseAll(t, dump)
	assert.Equal(3, stats.Records)
	assert.Equal("AA:BB:CC:DD:EE:FF", recs[0].BSSID)
	assert.Equal("aa-bb-cc-dd-ee-00", recs[1].BSSID)
	assert.Equal("aabb.ccdd.ee00", recs[2].BSSID)
}

// Only addresses the registry can normalize open a record; octet-pair dots
// and mixed delimiters are body text like any other malformed header.
func TestHeaderRejectsUnnormalizableForms(t *testing.T) {
	assert := require.New(t)

	dump := "BSS aa:bb:cc:dd:ee:ff(on wlan0)\n" +
		"BSS aa.bb.cc.dd.ee.00(on wlan0)\n" +
		"BSS aa:bb-cc:dd-ee:00(on wlan0)\n"

	recs, stats := parseAll(t, dump)
	assert.Equal(1, stats.Records)
	assert.Equal("aa:bb:cc:dd:ee:ff", recs[0].BSSID)
	assert.Contains(recs[0].Details, "BSS aa.bb.cc.dd.ee.00(on wlan0)")
	assert.Contains(recs[0].Details, "BSS aa:bb-cc:dd-ee:00(on wlan0)")
}

// failingReader yields its data and then a read error, like a dump stream
// dying mid-scan.
type failingReader struct {
	data string
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

// A stream failure surfaces the error but still finalizes the record being
// accumulated.
func TestTruncatedStreamKeepsRecord(t *testing.T) {
	assert := require.New(t)

	src := &failingReader{
		data: "BSS aa:bb:cc:dd:ee:ff(on wlan0)\n\tSSID: HomeNet\n",
		err:  errors.New("device reset"),
	}

	var recs []*Record
	stats, err := Parse(src, func(r *Record) {
		recs = append(recs, r)
	})
	assert.Error(err)
	assert.Equal(1, stats.Records)
	assert.Len(recs, 1)
	assert.Equal("aa:bb:cc:dd:ee:ff", recs[0].BSSID)
	assert.Equal("HomeNet", recs[0].SSID)
}

func TestEmptyDump(t *testing.T) {
	assert := require.New(t)

	recs, stats := parseAll(t, "")
	assert.Len(recs, 0)
	assert.Equal(Stats{}, stats)
}
