package fields

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	nonDigit  = regexp.MustCompile(`\D`)
	nonAlpha  = regexp.MustCompile(`[^a-zA-Z]`)
	nonDate   = regexp.MustCompile(`[^0-9/\-]`)
	nonLetter = regexp.MustCompile(`[^a-zA-Z\s'\-.]`)

	// Tried in order; first match wins. The bare-year fallback is anchored
	// to a 19xx/20xx century so stray digit runs from a garbled date still
	// yield the year instead of an arbitrary 4-digit window.
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{2}[/\-]\d{2}[/\-]\d{4}`),
		regexp.MustCompile(`\d{2}[/\-]\d{2}[/\-]\d{2}`),
		regexp.MustCompile(`(?:19|20)\d{2}`),
	}
)

// NormalizeAadhaar extracts an Aadhaar number from raw OCR text. Anything
// other than exactly 12 digits is unrecoverable; the digits are regrouped
// into the printed four-digit blocks.
func NormalizeAadhaar(raw string) (string, bool) {
	digits := nonDigit.ReplaceAllString(raw, "")
	if len(digits) != 12 {
		return "", false
	}
	return groupDigits(digits, 4), true
}

// NormalizeVID extracts a 16-digit virtual ID, regrouped like the Aadhaar
// number.
func NormalizeVID(raw string) (string, bool) {
	digits := nonDigit.ReplaceAllString(raw, "")
	if len(digits) != 16 {
		return "", false
	}
	return groupDigits(digits, 4), true
}

// NormalizePhone extracts a 10-digit phone number.
func NormalizePhone(raw string) (string, bool) {
	digits := nonDigit.ReplaceAllString(raw, "")
	if len(digits) != 10 {
		return "", false
	}
	return digits, true
}

// NormalizeDate extracts a date from raw OCR text. Patterns are tried in
// order: DD/MM/YYYY, DD/MM/YY, then a bare year. Either / or - separates
// components on input; output always uses /.
func NormalizeDate(raw string) (string, bool) {
	text := nonDate.ReplaceAllString(raw, "")
	for _, p := range datePatterns {
		if m := p.FindString(text); m != "" {
			return strings.ReplaceAll(m, "-", "/"), true
		}
	}
	return "", false
}

// NormalizeGender classifies raw OCR text as one of the two canonical
// gender strings. The female check runs first: "female" contains "male",
// and the truncated "femal" covers a common OCR garbling of the word.
func NormalizeGender(raw string) (string, bool) {
	text := strings.ToLower(nonAlpha.ReplaceAllString(raw, ""))
	switch {
	case strings.Contains(text, "femal"):
		return "Female", true
	case strings.Contains(text, "male"):
		return "Male", true
	case text == "f" || text == "woman":
		return "Female", true
	case text == "m" || text == "man":
		return "Male", true
	}
	return "", false
}

// NormalizeFreeText cleans a name-like field: strips everything outside
// letters, whitespace, apostrophes, hyphens and periods, collapses
// whitespace runs, trims trailing punctuation and title-cases the result.
func NormalizeFreeText(raw string) (string, bool) {
	text := nonLetter.ReplaceAllString(raw, "")
	text = strings.Join(strings.Fields(text), " ")
	text = strings.TrimRight(text, ".,'-")
	if text == "" {
		return "", false
	}
	return titleCase(text), true
}

// NormalizeWhitespace is the default strategy: whitespace collapse only.
func NormalizeWhitespace(raw string) (string, bool) {
	text := strings.Join(strings.Fields(raw), " ")
	if text == "" {
		return "", false
	}
	return text, true
}

func groupDigits(digits string, size int) string {
	var b strings.Builder
	for i := 0; i < len(digits); i += size {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+size])
	}
	return b.String()
}

// titleCase uppercases the letter opening each letter run and lowercases
// the rest, so "o'BRIEN" becomes "O'Brien".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			b.WriteRune(r)
			prevLetter = false
		case prevLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(unicode.ToUpper(r))
			prevLetter = true
		}
	}
	return b.String()
}
