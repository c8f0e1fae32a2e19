// Package fields defines the closed set of document field labels and the
// per-label extraction policy: which preprocessing path a region takes, how
// the OCR engine is tuned for it, and how its raw text is normalized into a
// record value. Adding a label is a one-entry change to the table below.
package fields

// Label identifies the semantic kind of a detected document region, as
// reported by the object detector.
type Label string

const (
	AadhaarNumber Label = "AADHAR_NUMBER"
	Name          Label = "NAME"
	DateOfBirth   Label = "DATE_OF_BIRTH"
	Gender        Label = "GENDER"
	Address       Label = "ADDRESS"
	FatherName    Label = "FATHER_NAME"
	VID           Label = "VID"
	PhoneNumber   Label = "PHONE_NUMBER"
)

// Tesseract page segmentation modes used by the per-label table.
const (
	PSMBlock      = 6 // uniform block of text
	PSMSingleLine = 7 // single text line
	PSMSingleWord = 8 // single word
)

// Character whitelists for numeric fields. Free-text fields stay
// unrestricted or legitimate characters get dropped by the engine.
const (
	digitsSpace = "0123456789 "
	digitsSlash = "0123456789/"
	digitsOnly  = "0123456789"
)

// NormalizeFunc cleans raw OCR text for one field. ok reports whether a
// value could be recovered; callers treat !ok as a null field. Normalizers
// never fail with an error: a bad region must not abort the rest of the
// document.
type NormalizeFunc func(raw string) (value string, ok bool)

// Spec is the extraction policy for one label.
type Spec struct {
	// Canonical is the output key in the extraction record. It may differ
	// from the label (DATE_OF_BIRTH is reported as DOB).
	Canonical string
	// Enhance selects the aggressive preprocessing path (contrast
	// equalization plus upsampling) for fields with characteristically poor
	// source contrast. Everything else takes the gentle path: enhancement
	// corrupts letter shapes in regions that are already legible.
	Enhance bool
	// PSM is the Tesseract page segmentation mode for the region's expected
	// text layout.
	PSM int
	// Whitelist restricts the characters the engine may emit. Empty means
	// unrestricted.
	Whitelist string
	// Normalize turns raw OCR text into the canonical value.
	Normalize NormalizeFunc
}

var specs = map[Label]Spec{
	AadhaarNumber: {Canonical: "AADHAR_NUMBER", PSM: PSMSingleLine, Whitelist: digitsSpace, Normalize: NormalizeAadhaar},
	DateOfBirth:   {Canonical: "DOB", Enhance: true, PSM: PSMSingleLine, Whitelist: digitsSlash, Normalize: NormalizeDate},
	Gender:        {Canonical: "GENDER", PSM: PSMSingleWord, Normalize: NormalizeGender},
	Name:          {Canonical: "NAME", PSM: PSMBlock, Normalize: NormalizeFreeText},
	FatherName:    {Canonical: "FATHER_NAME", PSM: PSMBlock, Normalize: NormalizeFreeText},
	Address:       {Canonical: "ADDRESS", PSM: PSMBlock, Normalize: NormalizeFreeText},
	VID:           {Canonical: "VID", PSM: PSMSingleLine, Whitelist: digitsSpace, Normalize: NormalizeVID},
	PhoneNumber:   {Canonical: "PHONE_NUMBER", PSM: PSMSingleLine, Whitelist: digitsOnly, Normalize: NormalizePhone},
}

// Lookup returns the extraction policy for a label. Unknown labels fall
// back to a gentle, unwhitelisted free-text policy keyed by the label
// itself, so the table stays total.
func Lookup(label Label) Spec {
	if s, ok := specs[label]; ok {
		return s
	}
	return Spec{
		Canonical: string(label),
		PSM:       PSMBlock,
		Normalize: NormalizeWhitespace,
	}
}

// Known reports whether the label has a dedicated table entry.
func Known(label Label) bool {
	_, ok := specs[label]
	return ok
}
