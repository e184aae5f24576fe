package pkg

import "strings"

// Contains check source have target
func Contains(slice []string, val string) bool {
	for _, v := range slice {
		if v == val {
			return true
		}
	}
	return false
}

// NormalizeLabel 去除前後空白、引號與句點並轉小寫
func NormalizeLabel(s string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(s), "\"'`. \n"))
}
