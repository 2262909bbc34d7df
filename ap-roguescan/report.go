/*
 * Copyright 2020 Brightgate Inc.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at https://mozilla.org/MPL/2.0/.
 */


package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"rogueap/ap_common/aprogue"
	"rogueap/common/urlfetch"

	"github.com/fatih/color"
	"github.com/tatsushid/go-prettytable"
)

func showReport(r *aprogue.Report) {
	fmt.Printf("%d APs classified in %s: %d authorized, %d unauthorized\n",
		r.KnownCount+r.NewCount, r.Elapsed, r.KnownCount, r.NewCount)

	if len(r.Rogues) == 0 {
		fmt.Printf("%s\n", color.GreenString("no unauthorized APs found"))
		return
	}

	fmt.Printf("%s\n", color.RedString("unauthorized APs: %d", len(r.Rogues)))

	table, _ := prettytable.NewTable(
		prettytable.Column{Header: "BSSID"},
		prettytable.Column{Header: "MANUFACTURER"},
		prettytable.Column{Header: "LASTSEEN"},
		prettytable.Column{Header: "SSID"},
	)
	table.Separator = "  "

	for _, ap := range r.Rogues {
		table.AddRow(ap.BSSID, ap.Manufacturer, ap.LastSeen, ap.SSID)
	}
	table.Print()
}

func writeReport(name string, r *aprogue.Report) error {
	s, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}

	return ioutil.WriteFile(name, s, 0644)
}

func postReport(url string, r *aprogue.Report) error {
	s, err := json.Marshal(r)
	if err != nil {
		return err
	}

	return urlfetch.PostJSON(url, s)
}

// deliver hands the finished report to each configured sink.  The console
// summary is always shown; file and URL delivery failures are logged and
// don't affect the run's outcome.
func deliver(r *aprogue.Report) {
	showReport(r)

	if *outfile != "" {
		if err := writeReport(*outfile, r); err != nil {
			slog.Errorf("failed to write report '%s': %v",
				*outfile, err)
		}
	}

	if *reportURL != "" {
		if err := postReport(*reportURL, r); err != nil {
			slog.Errorf("failed to deliver report to %s: %v",
				*reportURL, err)
		}
	}
}
