package domain

import "strings"

// interfaceAliases maps lowercased interface-name prefixes to their canonical
// short form. Both the long spelling and the common abbreviations collapse to
// the same canonical prefix.
var interfaceAliases = map[string]string{
	"ethernet":             "Eth",
	"eth":                  "Eth",
	"fastethernet":         "Fa",
	"fa":                   "Fa",
	"gigabitethernet":      "Gi",
	"gige":                 "Gi",
	"gi":                   "Gi",
	"twogigabitethernet":   "Tw",
	"tw":                   "Tw",
	"tengigabitethernet":   "Te",
	"tengige":              "Te",
	"te":                   "Te",
	"twentyfivegige":       "Twe",
	"twe":                  "Twe",
	"fortygigabitethernet": "Fo",
	"fortygige":            "Fo",
	"fo":                   "Fo",
	"hundredgige":          "Hu",
	"hu":                   "Hu",
	"port-channel":         "Po",
	"po":                   "Po",
	"loopback":             "Lo",
	"lo":                   "Lo",
	"tunnel":               "Tu",
	"tu":                   "Tu",
	"serial":               "Se",
	"se":                   "Se",
	"vlan":                 "Vl",
	"vl":                   "Vl",
	"management":           "Mgmt",
	"mgmt":                 "Mgmt",
}

// NormalizeInterface canonicalizes an interface name to its short form:
// "GigabitEthernet0/1", "gi 0/1", and "Gi0/1" all become "Gi0/1".
// Unknown prefixes are kept as written, with internal spaces removed.
func NormalizeInterface(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}

	// Split the leading alphabetic (plus hyphen) prefix from the numbering.
	i := 0
	for i < len(trimmed) {
		c := trimmed[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' {
			i++
			continue
		}
		break
	}

	prefix := trimmed[:i]
	rest := strings.ReplaceAll(trimmed[i:], " ", "")

	if canonical, ok := interfaceAliases[strings.ToLower(prefix)]; ok {
		return canonical + rest
	}
	return prefix + rest
}

// InterfaceKey returns the comparison key for an interface name: the
// normalized form lowered so unknown prefixes still compare case-insensitively.
func InterfaceKey(name string) string {
	return strings.ToLower(NormalizeInterface(name))
}

// SameInterface reports whether two interface names refer to the same
// interface under normalized comparison.
func SameInterface(a, b string) bool {
	return InterfaceKey(a) == InterfaceKey(b)
}
