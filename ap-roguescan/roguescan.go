/*
 * Copyright 2020 Brightgate Inc.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at https://mozilla.org/MPL/2.0/.
 */


//
// ap-roguescan audits a captured wireless scan dump against the registry of
// authorized APs and reports every AP we didn't expect to see.  It doesn't
// drive a radio itself; feed it the output of 'iw dev <iface> scan' (or any
// equivalent capture).
//
// Bad input never aborts a run: an unreachable registry means an empty
// registry, a malformed line is skipped or folded into its record, and a
// missing dump still produces a zero-AP report.  Some rogue-AP signal beats
// none.
//
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"rogueap/ap_common/apauth"
	"rogueap/ap_common/aprogue"
	"rogueap/ap_common/apscan"
	"rogueap/ap_common/aputil"

	"github.com/klauspost/oui"
	"github.com/tomazk/envcfg"
	"go.uber.org/zap"
)

const (
	pname = "ap-roguescan"

	defaultOuiPath = "etc/oui.txt"
)

var (
	help      = flag.Bool("h", false, "get help")
	dumpFile  = flag.String("f", "", "scan dump file ('-' for stdin)")
	registry  = flag.String("r", "", "authorized-AP registry (path or URL)")
	outfile   = flag.String("o", "", "file to write the JSON report to")
	reportURL = flag.String("u", "", "URL to POST the JSON report to")
	ouiFile   = flag.String("oui-db-path", "", "path to the IEEE OUI database")

	environ struct {
		Registry  string `envcfg:"ROGUESCAN_REGISTRY"`
		ReportURL string `envcfg:"ROGUESCAN_REPORT_URL"`
		OuiDBPath string `envcfg:"ROGUESCAN_OUI_DB"`
	}

	slog *zap.SugaredLogger
)

func usage(exitStatus int) {
	fmt.Printf("usage: %s [-h] [-r <registry path|URL>] [-o <report file>] "+
		"[-u <report URL>] [-oui-db-path <file>] -f <scan dump>\n", pname)
	os.Exit(exitStatus)
}

// audit runs one classification pass: every record the parser finalizes is
// matched against the registry and folded into the accumulator.
func audit(dump io.Reader, table apauth.Table,
	acc *aprogue.Accumulator) (apscan.Stats, error) {

	return apscan.Parse(dump, func(rec *apscan.Record) {
		acc.Classify(rec, table)
	})
}

func loadRegistry() apauth.Table {
	if *registry == "" {
		slog.Warnf("no AP registry given; every AP will be reported " +
			"as unauthorized")
		return make(apauth.Table)
	}

	table, loaded, err := apauth.Load(*registry)
	if err != nil {
		slog.Warnf("continuing with an empty registry: %v", err)
	} else if loaded == 0 {
		slog.Warnf("AP registry %s has no usable records", *registry)
	} else {
		slog.Infof("loaded %d authorized APs from %s", loaded, *registry)
	}

	return table
}

func openOuiDB() oui.StaticDB {
	path := *ouiFile
	if path == "" {
		path = aputil.ExpandDirPath(defaultOuiPath)
	}

	db, err := oui.OpenStaticFile(path)
	if err != nil {
		slog.Debugf("no OUI database at %s: %v", path, err)
		return nil
	}

	return db
}

func openDump(name string) (io.ReadCloser, error) {
	if name == "-" {
		return os.Stdin, nil
	}

	if !aputil.FileExists(name) {
		return nil, fmt.Errorf("no such file: %s", name)
	}
	return os.Open(name)
}

func main() {
	flag.Parse()
	slog = aputil.NewLogger()

	if *help {
		usage(0)
	}
	if *dumpFile == "" {
		usage(1)
	}

	if err := envcfg.Unmarshal(&environ); err != nil {
		slog.Fatalf("bad environment: %v", err)
	}
	if *registry == "" {
		*registry = environ.Registry
	}
	if *reportURL == "" {
		*reportURL = environ.ReportURL
	}
	if *ouiFile == "" {
		*ouiFile = environ.OuiDBPath
	}

	table := loadRegistry()

	acc := aprogue.NewAccumulator()
	if db := openOuiDB(); db != nil {
		acc.SetOuiDB(db)
	}

	var stats apscan.Stats
	start := time.Now()

	dump, err := openDump(*dumpFile)
	if err != nil {
		// Nothing to classify, but the run still reports
		slog.Errorf("no scan dump to classify: %v", err)
	} else {
		stats, err = audit(dump, table, acc)
		dump.Close()
		if err != nil {
			slog.Warnf("scan dump truncated after %d lines: %v",
				stats.Lines, err)
		}
		if stats.Skipped > 0 {
			slog.Debugf("skipped %d lines preceding the first BSS "+
				"stanza", stats.Skipped)
		}
	}

	deliver(acc.Report(stats.Lines, time.Since(start)))
}
