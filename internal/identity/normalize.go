package identity

import "strings"

// EmployeeIDWidth is the canonical fixed width of a roster NIK.
const EmployeeIDWidth = 6

// NormalizeEmail prepares a free-text email for comparison: trimmed and
// lowercased. Idempotent.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeEmployeeID coerces a free-text identifier to the canonical
// fixed-width numeric form. Spreadsheet and CSV ingestion frequently
// turns "000123" into "123.0"; the float artifact is stripped and the
// digits re-padded. Non-numeric input yields "" (identifier absent).
// Idempotent.
func NormalizeEmployeeID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// Strip a trailing ".0"/".00" float-ingestion artifact
	if i := strings.IndexByte(s, '.'); i >= 0 {
		frac := s[i+1:]
		if frac == "" || strings.Trim(frac, "0") != "" {
			return ""
		}
		s = s[:i]
	}

	if s == "" {
		return ""
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ""
		}
	}

	if len(s) < EmployeeIDWidth {
		s = strings.Repeat("0", EmployeeIDWidth-len(s)) + s
	}
	return s
}
