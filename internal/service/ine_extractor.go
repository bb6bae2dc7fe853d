package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"ine-ocr-server/internal/domain"
)

const (
	nameAnchor    = "NOMBRE"
	addressAnchor = "DOMICILIO"
	genderPrefix  = "SEXO"

	// Lines read after an anchor. The card prints each block on three lines.
	blockLength = 3
)

var (
	curpPattern      = regexp.MustCompile(`[A-Z]{4}\d{6}[HM][A-Z]{5}[A-Z0-9]\d`)
	birthDatePattern = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
)

// ExtractIdentity parses the recognized lines of an INE card. It never fails:
// every field not found keeps its empty default.
func ExtractIdentity(lines []string, now time.Time) domain.IdentityRecord {
	normalized := normalizeLines(lines)

	record := domain.IdentityRecord{
		Address: extractAddress(lines, normalized),
		CURP:    FindCURP(lines),
		Gender:  DetectGender(lines),
	}
	record.FirstSurname, record.SecondSurname, record.GivenName = extractName(lines, normalized)

	if raw := FindBirthDate(lines); raw != "" {
		m := birthDatePattern.FindStringSubmatch(raw)
		record.BirthDate = domain.BirthDate{Day: m[1], Month: m[2], Year: m[3]}
		record.Age = ComputeAge(raw, now)
	}

	return record
}

// extractName reads first surname, second surname and given name, in that
// order, from the lines following NOMBRE.
func extractName(lines, normalized []string) (firstSurname, secondSurname, givenName string) {
	block := blockAfter(lines, normalized, nameAnchor)
	return block[0], block[1], block[2]
}

func extractAddress(lines, normalized []string) string {
	block := blockAfter(lines, normalized, addressAnchor)
	parts := make([]string, 0, blockLength)
	for _, part := range block {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

// blockAfter returns the blockLength lines after the first line equal to
// anchor. Missing anchor or lines past the end yield empty strings.
func blockAfter(lines, normalized []string, anchor string) [blockLength]string {
	var block [blockLength]string

	idx := indexOf(normalized, anchor)
	if idx < 0 {
		return block
	}
	for i := 0; i < blockLength; i++ {
		if pos := idx + 1 + i; pos < len(lines) {
			block[i] = strings.TrimSpace(lines[pos])
		}
	}
	return block
}

// FindCURP returns the first national ID code found scanning line by line.
// For each line the code may sit on the line itself or on the next one, which
// is where OCR leaves it when it splits the value from its label. If no line
// holds a whole code, the concatenated text is searched so a code broken
// across a line boundary is still found.
func FindCURP(lines []string) string {
	normalized := normalizeLines(lines)

	for i, line := range normalized {
		if code := curpPattern.FindString(line); code != "" {
			return code
		}
		if i+1 < len(normalized) {
			if code := curpPattern.FindString(normalized[i+1]); code != "" {
				return code
			}
		}
	}

	return curpPattern.FindString(strings.Join(normalized, ""))
}

// FindBirthDate returns the first line shaped exactly DD/MM/YYYY. Day and
// month ranges are not checked.
func FindBirthDate(lines []string) string {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if birthDatePattern.MatchString(line) {
			return line
		}
	}
	return ""
}

// ComputeAge returns the age in whole years at now for a DD/MM/YYYY birth
// date, or "" when the date is empty or cannot be parsed.
func ComputeAge(birthDate string, now time.Time) string {
	birthDate = strings.TrimSpace(birthDate)
	if birthDate == "" {
		return ""
	}
	born, err := time.Parse("02/01/2006", birthDate)
	if err != nil {
		return ""
	}

	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return strconv.Itoa(age)
}

// DetectGender inspects the first line starting with SEXO.
func DetectGender(lines []string) domain.Gender {
	for _, line := range normalizeLines(lines) {
		if !strings.HasPrefix(line, genderPrefix) {
			continue
		}
		switch {
		case strings.Contains(line, "H"):
			return domain.GenderMale
		case strings.Contains(line, "M"):
			return domain.GenderFemale
		default:
			return domain.GenderNonBinary
		}
	}
	return domain.GenderNonBinary
}

func normalizeLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = strings.ToUpper(strings.TrimSpace(line))
	}
	return out
}

func indexOf(lines []string, target string) int {
	for i, line := range lines {
		if line == target {
			return i
		}
	}
	return -1
}
