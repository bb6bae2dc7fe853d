package domain

import "strings"

const MIMETypeJPEG = "image/jpeg"

// RawDocumentImage is a photo as captured or selected by the user.
type RawDocumentImage struct {
	Data     []byte
	MIMEType string
	Name     string
}

// CompressedDocumentImage is the image submitted to OCR.
// When Compressed is false the preprocessing step failed and Data holds the
// original bytes with their original MIME type.
type CompressedDocumentImage struct {
	Data       []byte
	MIMEType   string
	Name       string
	Width      int
	Height     int
	Compressed bool
}

// OCRLineSequence is the ordered list of trimmed, non-empty recognized lines.
type OCRLineSequence []string

// ParseOCRText splits recognized text into lines, trimming each one and
// dropping blank lines. Order is preserved.
func ParseOCRText(text string) OCRLineSequence {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := make(OCRLineSequence, 0)
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
