// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// parseServiceURL parses raw and checks it has a host and one of schemes.
func parseServiceURL(raw, field string, schemes ...string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s is not a valid URL: %w", field, err)
	}

	ok := false
	for _, s := range schemes {
		if u.Scheme == s {
			ok = true
			break
		}
	}
	if !ok {
		return nil, fmt.Errorf("%s scheme must be one of %s, got %q", field, strings.Join(schemes, ", "), u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%s host is required", field)
	}
	return u, nil
}

// validateHTTPURL checks a model server base URL. A path prefix such as
// /bms is allowed; /predict is appended by the client so it must not be
// part of the base. Query strings and fragments are rejected.
func validateHTTPURL(raw, field string) error {
	u, err := parseServiceURL(raw, field, "http", "https")
	if err != nil {
		return err
	}
	if strings.HasSuffix(strings.TrimRight(u.Path, "/"), "/predict") {
		return fmt.Errorf("%s path must be the server base, /predict is added automatically: %s", field, u.Path)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("%s must not contain a query or fragment", field)
	}
	return nil
}

// validateNATSURL checks NATS_URL for a nats, tls, ws or wss scheme.
func validateNATSURL(raw string) error {
	_, err := parseServiceURL(raw, "NATS_URL", "nats", "tls", "ws", "wss")
	return err
}
