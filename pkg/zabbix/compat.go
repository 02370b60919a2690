package zabbix

import (
	"sort"
	"strconv"
	"strings"
)

/*
LoginScheme says which method and user parameter log in on API versions
from MinVersion up to the next scheme's MinVersion. The table is data so a
new cutover does not need new logic.
*/
type LoginScheme struct {
	MinVersion string
	Method     string
	UserParam  string
}

// DefaultLoginSchemes covers the API from 1.8 onwards: user.authenticate
// was replaced by user.login in 2.0, and 5.4 renamed "user" to "username".
func DefaultLoginSchemes() []LoginScheme {
	return []LoginScheme{
		{MinVersion: "0", Method: "user.authenticate", UserParam: "user"},
		{MinVersion: "2.0", Method: "user.login", UserParam: "user"},
		{MinVersion: "5.4", Method: "user.login", UserParam: "username"},
	}
}

// legacyScheme is used when WithLegacyAuthenticate is set.
var legacyScheme = LoginScheme{MinVersion: "0", Method: "user.authenticate", UserParam: "user"}

// SchemeFor picks the scheme with the highest MinVersion not above version.
// An unparsable version selects the newest scheme.
func SchemeFor(schemes []LoginScheme, version string) LoginScheme {
	if len(schemes) == 0 {
		schemes = DefaultLoginSchemes()
	}

	sorted := append([]LoginScheme(nil), schemes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return CompareVersions(sorted[i].MinVersion, sorted[j].MinVersion) < 0
	})

	if strings.TrimSpace(version) == "" {
		return sorted[len(sorted)-1]
	}

	chosen := sorted[0]

	for _, scheme := range sorted {
		if CompareVersions(version, scheme.MinVersion) >= 0 {
			chosen = scheme
		}
	}

	return chosen
}

/*
CompareVersions compares dotted versions numerically and returns -1, 0 or
1. Missing parts count as zero and a non-numeric suffix such as "0alpha1"
is ignored, so "7.0.0alpha1" equals "7.0".
*/
func CompareVersions(a, b string) int {
	aParts := strings.Split(strings.TrimPrefix(strings.TrimSpace(a), "v"), ".")
	bParts := strings.Split(strings.TrimPrefix(strings.TrimSpace(b), "v"), ".")

	maxLen := len(aParts)
	if len(bParts) > maxLen {
		maxLen = len(bParts)
	}

	for i := 0; i < maxLen; i++ {
		var aPart, bPart int

		if i < len(aParts) {
			aPart = leadingInt(aParts[i])
		}

		if i < len(bParts) {
			bPart = leadingInt(bParts[i])
		}

		if aPart < bPart {
			return -1
		}

		if aPart > bPart {
			return 1
		}
	}

	return 0
}

func leadingInt(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}

	return n
}
