/*
 * Copyright 2020 Brightgate Inc.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at https://mozilla.org/MPL/2.0/.
 */


// Package urlfetch lets callers treat local files and http(s) URLs
// uniformly as data sources, and delivers JSON payloads to report sinks.
package urlfetch

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var client = &http.Client{
	Timeout: 60 * time.Second,
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") ||
		strings.HasPrefix(src, "https://")
}

// OpenSource opens 'src', which may be a filesystem path or an http(s) URL,
// for reading.  The caller owns the returned ReadCloser.
func OpenSource(src string) (io.ReadCloser, error) {
	if !isURL(src) {
		file, err := os.Open(src)
		if err != nil {
			return nil, errors.Wrap(err, "unable to open "+src)
		}
		return file, nil
	}

	resp, err := client.Get(src)
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect to "+src)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unable to fetch %s: %s", src, resp.Status)
	}

	return resp.Body, nil
}

// PostJSON delivers a JSON payload to 'url'.  Delivery is best-effort
// one-shot; retry policy belongs to the receiving side of the report
// pipeline.
func PostJSON(url string, body []byte) error {
	req, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to create POST request")
	}
	req.Header.Add("content-type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(err, "POST failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		details, _ := ioutil.ReadAll(resp.Body)
		if len(details) > 0 {
			return fmt.Errorf("report sink response: %s (%s)",
				resp.Status, string(details))
		}
		return fmt.Errorf("report sink response: %s", resp.Status)
	}

	return nil
}
