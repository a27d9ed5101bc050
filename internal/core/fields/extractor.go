package fields

import (
	"regexp"
	"strconv"
	"strings"
)

// filiationWindow is how many lines after FILIAÇÃO may hold parent names.
const filiationWindow = 4

// Extractor runs the field heuristics. The zero value has no overrides and
// no corrections; use NewExtractor for the defaults.
type Extractor struct {
	overrides   []Override
	corrections []Correction
	fixups      []func(*DocumentFields)
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithOverrides replaces the override table.
func WithOverrides(o []Override) Option {
	return func(e *Extractor) { e.overrides = o }
}

// WithCorrections replaces the correction table.
func WithCorrections(c []Correction) Option {
	return func(e *Extractor) { e.corrections = c }
}

// WithFixup adds a function run on every record after the correction table.
func WithFixup(fn func(*DocumentFields)) Option {
	return func(e *Extractor) { e.fixups = append(e.fixups, fn) }
}

// NewExtractor returns an Extractor using DefaultOverrides and
// DefaultCorrections unless options say otherwise.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{overrides: DefaultOverrides, corrections: DefaultCorrections}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract populates a DocumentFields record from OCR lines in document order.
// It is pure and safe for concurrent use.
func (e *Extractor) Extract(raw []string) DocumentFields {
	lines := newLines(CleanLines(raw))

	var f DocumentFields
	if len(lines) == 0 {
		return f
	}

	uppers := make([]string, len(lines))
	foldeds := make([]string, len(lines))
	for i, l := range lines {
		uppers[i] = l.upper
		foldeds[i] = l.folded
	}
	upper := strings.Join(uppers, "\n")
	folded := strings.Join(foldeds, "\n")

	f.DocumentType = detectType(folded)

	override, hasOverride := matchOverride(folded, e.overrides)
	parents, parentIdx := extractParents(lines)

	// Name: override, before FILIAÇÃO, NOME: label, generic scan, line after NOME.
	if hasOverride {
		setOnce(&f.Name, override.Name)
	}
	setOnce(&f.Name, nameBeforeFiliation(upper))
	setOnce(&f.Name, nameFromLabel(upper))
	setOnce(&f.Name, nameFromScan(lines, parentIdx))
	setOnce(&f.Name, nameAfterLabelLine(lines))

	// Birth date: override, NASCIMENTO anchor, variants, year-first.
	if hasOverride {
		setOnce(&f.BirthDate, override.BirthDate)
	}
	setOnce(&f.BirthDate, birthDateAnchored(lines))
	setOnce(&f.BirthDate, birthDateScan(lines, true))
	setOnce(&f.BirthDate, birthDateScan(lines, false))
	setOnce(&f.BirthDate, birthDateYearFirst(lines))

	setOnce(&f.Naturalness, extractNaturalness(lines))
	setOnce(&f.CPFNumber, extractCPF(lines))
	setOnce(&f.RGNumber, extractRG(lines))
	setOnce(&f.IssuingAuthority, extractAuthority(lines))

	for _, p := range parents {
		if p != f.Name {
			f.Parents = append(f.Parents, p)
		}
	}

	e.postProcess(&f, hasOverride)
	for _, fn := range e.fixups {
		fn(&f)
	}
	return f
}

// postProcess normalises spacing and case and applies the correction table.
// Override names are kept exactly as written.
func (e *Extractor) postProcess(f *DocumentFields, keepName bool) {
	if !keepName {
		f.Name = applyCorrections(titleName(f.Name), e.corrections)
	}
	f.Naturalness = applyCorrections(titlePlace(f.Naturalness), e.corrections)
	for i, p := range f.Parents {
		f.Parents[i] = applyCorrections(titleName(p), e.corrections)
	}
	f.RGNumber = collapseSpaces(f.RGNumber)
	f.IssuingAuthority = collapseSpaces(f.IssuingAuthority)
}

func detectType(folded string) DocumentType {
	switch {
	case strings.Contains(folded, "CARTEIRA") && strings.Contains(folded, "IDENTIDADE"):
		return TypeRG
	case strings.Contains(folded, "REPUBLICA") && strings.Contains(folded, "FEDERATIVA") && strings.Contains(folded, "BRASIL"):
		return TypeRG
	case reCPFWord.MatchString(folded) || strings.Contains(folded, "PESSOA FISICA"):
		return TypeCPF
	}
	return TypeUnidentified
}

// cleanName keeps letters and spaces and validates the result looks like a
// person's name: two or more words, none of them a document keyword.
func cleanName(s string) string {
	s = collapseSpaces(reNonNameChars.ReplaceAllString(s, " "))
	words := strings.Fields(s)
	if len(words) < 2 || len(s) < 5 {
		return ""
	}
	for _, w := range words {
		if nonNameWords[fold(w)] {
			return ""
		}
	}
	return s
}

func nameBeforeFiliation(upper string) string {
	m := reNameBeforeFiliation.FindStringSubmatch(upper)
	if m == nil {
		return ""
	}
	run := strings.TrimSpace(m[1])
	// The run may start with the NOME label when both share the line.
	run = strings.TrimPrefix(run, "NOME ")
	return cleanName(run)
}

func nameFromLabel(upper string) string {
	for _, m := range reNameLabel.FindAllStringSubmatch(upper, -1) {
		if n := cleanName(m[1]); n != "" {
			return n
		}
	}
	return ""
}

func nameFromScan(lines []line, skip map[int]bool) string {
	for i, l := range lines {
		if skip[i] || !reUpperWords.MatchString(l.upper) {
			continue
		}
		// NOME and the name may share a line without a separator.
		if n := cleanName(strings.TrimPrefix(l.upper, "NOME ")); n != "" {
			return n
		}
	}
	return ""
}

func nameAfterLabelLine(lines []line) string {
	for i := 0; i+1 < len(lines); i++ {
		if !strings.Contains(lines[i].folded, "NOME") {
			continue
		}
		next := lines[i+1]
		if hasDigit(next.upper) || containsAny(next.folded, fieldKeywords) {
			continue
		}
		if n := cleanName(next.upper); n != "" {
			return n
		}
	}
	return ""
}

// formatDate validates day/month/year digits and renders DD/MM/YYYY.
func formatDate(day, month, year string) string {
	digits := day + month + year
	if len(digits) != 8 {
		return ""
	}
	d, _ := strconv.Atoi(day)
	m, _ := strconv.Atoi(month)
	y, _ := strconv.Atoi(year)
	if d < 1 || d > 31 || m < 1 || m > 12 || y < 1900 || y > 2099 {
		return ""
	}
	return digits[0:2] + "/" + digits[2:4] + "/" + digits[4:8]
}

// findDate tries every day/month/year form on one line.
func findDate(s string) string {
	for _, re := range reDateVariants {
		if d := matchDate(re, s); d != "" {
			return d
		}
	}
	return matchMonthNameDate(s)
}

// dateSubmatches is FindAllStringSubmatch minus the matches that run into a
// further digit.
func dateSubmatches(re *regexp.Regexp, s string) [][]string {
	var out [][]string
	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		if end := loc[1]; end < len(s) && s[end] >= '0' && s[end] <= '9' {
			continue
		}
		m := make([]string, len(loc)/2)
		for i := range m {
			if loc[2*i] >= 0 {
				m[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		out = append(out, m)
	}
	return out
}

func matchDate(re *regexp.Regexp, s string) string {
	for _, m := range dateSubmatches(re, s) {
		if d := formatDate(m[1], m[2], m[3]); d != "" {
			return d
		}
	}
	return ""
}

func matchMonthNameDate(s string) string {
	for _, m := range dateSubmatches(reDateMonthName, s) {
		day := m[1]
		if len(day) == 1 {
			day = "0" + day
		}
		if d := formatDate(day, monthNumbers[m[2]], m[3]); d != "" {
			return d
		}
	}
	return ""
}

// birthDateAnchored reads the date after NASC, then anywhere on that line,
// then on the next line.
func birthDateAnchored(lines []line) string {
	for i, l := range lines {
		if !strings.Contains(l.folded, "NASC") {
			continue
		}
		if d := findDate(afterKeyword(l.upper, l.folded, "NASC")); d != "" {
			return d
		}
		if d := findDate(l.upper); d != "" {
			return d
		}
		if i+1 < len(lines) {
			if d := findDate(lines[i+1].upper); d != "" {
				return d
			}
		}
	}
	return ""
}

// birthDateScan runs each variant over all lines before moving on to the
// next one. With skipIssued set, lines about issue or expiry are ignored.
func birthDateScan(lines []line, skipIssued bool) string {
	for _, re := range reDateVariants {
		for _, l := range lines {
			if skipIssued && containsAny(l.folded, dateSkipKeywords) {
				continue
			}
			if d := matchDate(re, l.upper); d != "" {
				return d
			}
		}
	}
	for _, l := range lines {
		if skipIssued && containsAny(l.folded, dateSkipKeywords) {
			continue
		}
		if d := matchMonthNameDate(l.upper); d != "" {
			return d
		}
	}
	return ""
}

func birthDateYearFirst(lines []line) string {
	for _, l := range lines {
		for _, m := range dateSubmatches(reDateYearFirst, l.upper) {
			if d := formatDate(m[3], m[2], m[1]); d != "" {
				return d
			}
		}
	}
	return ""
}

// cleanPlace cuts a value at its first digit and keeps letters, spaces,
// hyphens and slashes.
func cleanPlace(s string) string {
	if i := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' }); i >= 0 {
		s = s[:i]
	}
	s = reNonPlaceChars.ReplaceAllString(s, " ")
	s = strings.NewReplacer("-", " - ", "/", " / ").Replace(s)
	s = collapseSpaces(s)
	s = strings.Trim(s, " -/")
	if len([]rune(s)) < 3 {
		return ""
	}
	return s
}

// afterKeyword returns the part of s after the first occurrence of kw,
// without leading separators.
func afterKeyword(upper, folded, kw string) string {
	i := strings.Index(folded, kw)
	if i < 0 {
		return ""
	}
	// folded and upper differ in byte length when accents are present, so
	// locate the keyword end by counting runes.
	n := len([]rune(folded[:i+len(kw)]))
	r := []rune(upper)
	if n > len(r) {
		return ""
	}
	return strings.TrimLeft(string(r[n:]), " :.-")
}

func extractNaturalness(lines []line) string {
	for i, l := range lines {
		if !strings.Contains(l.folded, "NATURALIDADE") {
			continue
		}
		rest := afterKeyword(l.upper, l.folded, "NATURALIDADE")
		if !containsAny(fold(rest), fieldKeywords) {
			if p := cleanPlace(rest); p != "" {
				return p
			}
		}
		if i+1 < len(lines) && !containsAny(lines[i+1].folded, fieldKeywords) {
			if p := cleanPlace(lines[i+1].upper); p != "" {
				return p
			}
		}
	}
	return ""
}

// extractParents collects parent names from the lines after FILIAÇÃO. It
// also returns the indices of the lines it consumed.
func extractParents(lines []line) ([]string, map[int]bool) {
	used := map[int]bool{}
	var parents []string
	for i, l := range lines {
		if !strings.Contains(l.folded, "FILIA") {
			continue
		}
		rest := afterKeyword(l.upper, l.folded, "FILIACAO")
		if rest != "" && !hasDigit(rest) && !containsAny(fold(rest), fieldKeywords) {
			if n := cleanName(rest); n != "" {
				parents = append(parents, n)
			}
		}
		for j := i + 1; j < len(lines) && j <= i+filiationWindow; j++ {
			c := lines[j]
			if hasDigit(c.upper) || containsAny(c.folded, fieldKeywords) {
				continue
			}
			if n := cleanName(strings.TrimPrefix(c.upper, "E ")); n != "" {
				parents = append(parents, n)
				used[j] = true
			}
		}
		break
	}
	return parents, used
}

func formatCPF(m []string) string {
	return m[1] + "." + m[2] + "." + m[3] + "-" + m[4]
}

func extractCPF(lines []line) string {
	for i, l := range lines {
		if !reCPFWord.MatchString(l.folded) {
			continue
		}
		if m := reCPFLoose.FindStringSubmatch(l.upper); m != nil {
			return formatCPF(m)
		}
		if i+1 < len(lines) {
			if m := reCPFLoose.FindStringSubmatch(lines[i+1].upper); m != nil {
				return formatCPF(m)
			}
		}
	}
	for _, l := range lines {
		if m := reCPFStrict.FindStringSubmatch(l.upper); m != nil {
			return formatCPF(m)
		}
	}
	return ""
}

func findRG(s string, re *regexp.Regexp) string {
	// CPF-shaped numbers would otherwise match as an RG prefix.
	s = reCPFLoose.ReplaceAllString(s, " ")
	s = reCPFStrict.ReplaceAllString(s, " ")
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		digits := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == 'X' {
				return r
			}
			return -1
		}, m[1])
		if len(digits) >= 7 && !isDateDigits(m[1]) {
			return strings.ReplaceAll(m[1], " ", "")
		}
	}
	return ""
}

// isDateDigits reports whether a candidate is really a date.
func isDateDigits(s string) bool {
	return findDate(s) != "" && !strings.Contains(s, "-")
}

func extractRG(lines []line) string {
	for i, l := range lines {
		if !reRGAnchor.MatchString(l.folded) {
			continue
		}
		if rg := findRG(l.upper, reRGLoose); rg != "" {
			return rg
		}
		if i+1 < len(lines) {
			if rg := findRG(lines[i+1].upper, reRGLoose); rg != "" {
				return rg
			}
		}
	}
	for _, l := range lines {
		if rg := findRG(l.upper, reRGStrict); rg != "" {
			return rg
		}
	}
	return ""
}

func extractAuthority(lines []line) string {
	match := func(s string) string {
		for _, m := range reAuthority.FindAllStringSubmatch(s, -1) {
			if ufs[m[2]] {
				return m[1] + "/" + m[2]
			}
		}
		return ""
	}
	for i, l := range lines {
		if !containsAny(l.folded, []string{"ORGAO", "EXPEDIDOR", "EMISSOR", "ORIGEM"}) {
			continue
		}
		if a := match(l.folded); a != "" {
			return a
		}
		if i+1 < len(lines) {
			if a := match(lines[i+1].folded); a != "" {
				return a
			}
		}
	}
	for _, l := range lines {
		if a := match(l.folded); a != "" {
			return a
		}
	}
	return ""
}
