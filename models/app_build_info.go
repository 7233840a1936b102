// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// AppBuildInfo carries build-time metadata injected by linker flags.
type AppBuildInfo struct {
	BuildVersion string `json:"build_version"`
	BuildDate    string `json:"build_date"`
	BuildCommit  string `json:"build_commit"`
}

// NewAppBuildInfo constructs [AppBuildInfo], substituting "N/A" for every
// value that was not provided at link time.
func NewAppBuildInfo(buildVersion, buildDate, buildCommit string) AppBuildInfo {
	return AppBuildInfo{
		BuildVersion: orNA(buildVersion),
		BuildDate:    orNA(buildDate),
		BuildCommit:  orNA(buildCommit),
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
