// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package httpclient

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
)

const (
	appendUaEnvVar = "SASSGO_APPEND_USER_AGENT"
	customUaEnvVar = "SASSGO_USER_AGENT"

	DefaultApplicationName = "sassgo"
)

type userAgentRoundTripper struct {
	inner     http.RoundTripper
	userAgent string
}

func (rt *userAgentRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if _, ok := req.Header["User-Agent"]; !ok {
		req.Header.Set("User-Agent", rt.userAgent)
	}
	log.Printf("[TRACE] HTTP client %s request to %s", req.Method, req.URL.String())
	return rt.inner.RoundTrip(req)
}

// UserAgent builds the User-Agent string sent on every remote
// package fetch and registry request this compiler makes: the default
// "sassgo/<version>", or the exact value of customUaEnvVar when that is
// set, followed by an optional trimmed suffix from appendUaEnvVar.
func UserAgent(version string) string {
	ua := fmt.Sprintf("%s/%s", DefaultApplicationName, version)
	if custom := os.Getenv(customUaEnvVar); custom != "" {
		ua = custom
	}

	if add := strings.TrimSpace(os.Getenv(appendUaEnvVar)); add != "" {
		ua += " " + add
		log.Printf("[DEBUG] Using modified User-Agent: %s", ua)
	}

	return ua
}
