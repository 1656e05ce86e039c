package parser

import (
	"fmt"
	"regexp"
	"strings"

	"netlens/internal/domain"
)

var (
	versionRe = regexp.MustCompile(`[Vv]ersion:?\s+([0-9][^,\s\[\]]*)`)
	uptimeRe  = regexp.MustCompile(`(?m)^\s*(\S+)\s+uptime is\s+(.+?)\s*$`)
	modelRe   = regexp.MustCompile(`(?mi)^\s*cisco\s+(\S+)\s+.*(?:processor|chassis)`)
	serialRe  = regexp.MustCompile(`(?mi)^\s*Processor [Bb]oard ID\s+(\S+)`)
)

// ParseShowVersion extracts the version facts common to the IOS family
// (IOS, IOS-XE, NX-OS) from "show version" output.
func ParseShowVersion(raw string) (any, error) {
	m := versionRe.FindStringSubmatch(raw)
	if m == nil {
		return nil, fmt.Errorf("no version string found")
	}

	fact := &domain.VersionFact{
		Version: m[1],
		OS:      detectOS(raw),
	}

	if m := uptimeRe.FindStringSubmatch(raw); m != nil {
		fact.Hostname = m[1]
		fact.Uptime = m[2]
	}
	if m := modelRe.FindStringSubmatch(raw); m != nil {
		fact.Model = strings.TrimSuffix(m[1], ",")
	}
	if m := serialRe.FindStringSubmatch(raw); m != nil {
		fact.Serial = m[1]
	}

	return fact, nil
}

func detectOS(raw string) string {
	switch {
	case strings.Contains(raw, "NX-OS"):
		return "NX-OS"
	case strings.Contains(raw, "IOS-XE") || strings.Contains(raw, "IOS XE"):
		return "IOS-XE"
	case strings.Contains(raw, "IOS"):
		return "IOS"
	}
	return ""
}
