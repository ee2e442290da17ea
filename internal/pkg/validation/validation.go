package validation

import (
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Fullname: letters, spaces, hyphens, apostrophes and dots only.
var fullnameRe = regexp.MustCompile(`^[A-Za-z\s\-'.]+$`)

// Indian mobile numbers with optional +91 / 0 prefix.
var phoneRe = regexp.MustCompile(`^(?:\+91[\-\s]?|0)?[6-9]\d{9}$`)

var documentRe = map[string]*regexp.Regexp{
	"aadhaar":         regexp.MustCompile(`^[2-9]\d{11}$`),
	"pan":             regexp.MustCompile(`^[A-Z]{5}\d{4}[A-Z]$`),
	"passport":        regexp.MustCompile(`^[A-Z][1-9]\d{5}[1-9]$`),
	"driving_license": regexp.MustCompile(`^[A-Z]{2}\d{2}\d{4}\d{7}$`),
}

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidPassword requires at least 8 characters with a letter, a digit and a
// special character.
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter, hasDigit, hasSpecial := false, false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	return hasLetter && hasDigit && hasSpecial
}

func IsValidFullname(fullname string) bool {
	return strings.TrimSpace(fullname) != "" && fullnameRe.MatchString(fullname)
}

// NormalizePhone strips spaces and dashes.
func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
}

func IsValidPhone(phone string) bool {
	return phoneRe.MatchString(NormalizePhone(phone))
}

// NormalizeDocumentNumber upper-cases and removes spaces and dashes.
func NormalizeDocumentNumber(number string) string {
	return strings.ToUpper(strings.NewReplacer(" ", "", "-", "").Replace(number))
}

// IsValidDocumentNumber checks number against the format of docType. Unknown
// document types are invalid.
func IsValidDocumentNumber(docType, number string) bool {
	re, ok := documentRe[docType]
	if !ok {
		return false
	}
	return re.MatchString(NormalizeDocumentNumber(number))
}

// IsKnownDocumentType reports whether docType has a number format.
func IsKnownDocumentType(docType string) bool {
	_, ok := documentRe[docType]
	return ok
}

// IsHTTPURL accepts absolute http(s) URLs with a host.
func IsHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}

// AgeOn returns the completed years between dob and on.
func AgeOn(dob, on time.Time) int {
	years := on.Year() - dob.Year()
	if on.Month() < dob.Month() || (on.Month() == dob.Month() && on.Day() < dob.Day()) {
		years--
	}
	return years
}

// IsValidCoordinate reports whether lat/lon are within range.
func IsValidCoordinate(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
