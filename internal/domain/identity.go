package domain

// Gender is the category read from the SEXO line of an INE card.
type Gender string

const (
	GenderMale      Gender = "hombre"
	GenderFemale    Gender = "mujer"
	GenderNonBinary Gender = "no_binario"
)

// BirthDate keeps the date exactly as printed (DD/MM/YYYY), split in parts.
type BirthDate struct {
	Day   string `json:"dia"`
	Month string `json:"mes"`
	Year  string `json:"anio"`
}

// IsZero reports whether no birth date was recognized.
func (b BirthDate) IsZero() bool {
	return b.Day == "" && b.Month == "" && b.Year == ""
}

// String formats the date back to DD/MM/YYYY, or "" when empty.
func (b BirthDate) String() string {
	if b.IsZero() {
		return ""
	}
	return b.Day + "/" + b.Month + "/" + b.Year
}

// IdentityRecord is the structured data parsed from the OCR text of an INE card.
// Every field has an empty default; a missing anchor never fails the extraction.
type IdentityRecord struct {
	GivenName     string    `json:"nombre"`
	FirstSurname  string    `json:"apellido1"`
	SecondSurname string    `json:"apellido2"`
	Address       string    `json:"domicilio"`
	BirthDate     BirthDate `json:"fecha_nacimiento"`
	Gender        Gender    `json:"sexo"`
	Age           string    `json:"edad"`
	CURP          string    `json:"curp"`
}

// FullName joins given name and surnames, skipping the empty ones.
func (r IdentityRecord) FullName() string {
	name := ""
	for _, part := range []string{r.GivenName, r.FirstSurname, r.SecondSurname} {
		if part == "" {
			continue
		}
		if name != "" {
			name += " "
		}
		name += part
	}
	return name
}
