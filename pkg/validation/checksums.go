// Package validation implements the country-specific checksum
// algorithms behind the PII detectors.
//
// Every validator accepts raw input (with or without separators),
// strips the non-significant characters itself, and returns false for
// anything malformed. None of them allocate beyond small scratch
// buffers and none of them return errors.
package validation

import "strings"

// digitsOf strips everything but ASCII digits and returns them as ints.
func digitsOf(s string) []int {
	digits := make([]int, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	return digits
}

// ValidateLuhn checks a payment-card number with the Luhn (mod 10)
// algorithm. Card numbers are 13 to 19 digits.
func ValidateLuhn(number string) bool {
	digits := digitsOf(number)
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}

	sum := 0
	for i := 0; i < len(digits); i++ {
		d := digits[len(digits)-1-i]
		if i%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}

	return sum%10 == 0
}

// ValidateIBAN checks an IBAN per ISO 13616: move the first 4
// characters to the end, map A-Z to 10-35, and verify the resulting
// decimal number is congruent to 1 mod 97. The modulus is computed in
// streaming fashion so long IBANs never overflow.
func ValidateIBAN(iban string) bool {
	clean := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, iban)

	if len(clean) < 15 || len(clean) > 34 {
		return false
	}

	// Country code: two upper-case letters followed by two check digits.
	if !isUpper(clean[0]) || !isUpper(clean[1]) || !isDigit(clean[2]) || !isDigit(clean[3]) {
		return false
	}

	rearranged := clean[4:] + clean[:4]

	remainder := 0
	for i := 0; i < len(rearranged); i++ {
		c := rearranged[i]
		switch {
		case isDigit(c):
			remainder = (remainder*10 + int(c-'0')) % 97
		case isUpper(c):
			v := int(c-'A') + 10
			remainder = (remainder*100 + v) % 97
		default:
			return false
		}
	}

	return remainder == 1
}

// ValidateBSN checks a Dutch BSN (Burgerservicenummer) with the
// 11-proef: weights 9..2 over the first eight digits and -1 for the
// last, sum divisible by 11. BSNs never start with 0.
func ValidateBSN(bsn string) bool {
	digits := digitsOf(bsn)
	if len(digits) != 9 || digits[0] == 0 {
		return false
	}

	weights := [9]int{9, 8, 7, 6, 5, 4, 3, 2, -1}
	sum := 0
	for i, d := range digits {
		sum += d * weights[i]
	}

	return sum%11 == 0
}

// ValidateNHS checks a UK NHS number: 10 digits, weighted mod-11 over
// the first nine with weights 10..2. A computed check of 10 is always
// invalid; 11 maps to 0.
func ValidateNHS(nhs string) bool {
	digits := digitsOf(nhs)
	if len(digits) != 10 {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += digits[i] * (10 - i)
	}

	check := 11 - sum%11
	switch check {
	case 11:
		check = 0
	case 10:
		return false
	}

	return digits[9] == check
}

// spanishCheckLetters is the official mod-23 letter table for DNI/NIE.
const spanishCheckLetters = "TRWAGMYFPDXBNJZSQVHLCKE"

// ValidateSpanishID checks a Spanish DNI (8 digits + letter) or NIE
// (X/Y/Z + 7 digits + letter). The NIE prefix maps X=0, Y=1, Z=2; the
// check letter is the mod-23 table entry for the numeric part.
func ValidateSpanishID(id string) bool {
	clean := strings.ToUpper(strings.NewReplacer(" ", "", "-", "").Replace(id))
	if len(clean) != 9 {
		return false
	}

	var numeric string
	if clean[0] >= 'A' && clean[0] <= 'Z' {
		// NIE
		var prefix byte
		switch clean[0] {
		case 'X':
			prefix = '0'
		case 'Y':
			prefix = '1'
		case 'Z':
			prefix = '2'
		default:
			return false
		}
		numeric = string(prefix) + clean[1:8]
	} else {
		// DNI
		numeric = clean[:8]
	}

	n := 0
	for i := 0; i < len(numeric); i++ {
		if !isDigit(numeric[i]) {
			return false
		}
		n = n*10 + int(numeric[i]-'0')
	}

	return clean[8] == spanishCheckLetters[n%23]
}

// ValidateBelgianRRN checks a Belgian national register number:
// 11 digits where the last two are 97 minus (the first nine mod 97).
// For persons born in or after 2000 the first nine digits are prefixed
// with a 2 before the modulus, so both interpretations are tried.
func ValidateBelgianRRN(rrn string) bool {
	digits := digitsOf(rrn)
	if len(digits) != 11 {
		return false
	}

	var first9 uint64
	for _, d := range digits[:9] {
		first9 = first9*10 + uint64(d)
	}
	check := digits[9]*10 + digits[10]

	if int(97-first9%97) == check {
		return true
	}

	return int(97-(2_000_000_000+first9)%97) == check
}

// ValidateSteuerID checks a German Steueridentifikationsnummer:
// 11 digits, not all equal, exactly one digit repeated 2 or 3 times
// within the first ten, and the ELSTER product-sum check digit.
func ValidateSteuerID(id string) bool {
	digits := digitsOf(id)
	if len(digits) != 11 {
		return false
	}

	allEqual := true
	for _, d := range digits[1:] {
		if d != digits[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	var freq [10]int
	for _, d := range digits[:10] {
		freq[d]++
	}
	repeated := false
	for _, count := range freq {
		if count >= 4 {
			return false
		}
		if count == 2 || count == 3 {
			repeated = true
		}
	}
	if !repeated {
		return false
	}

	// Product-sum: m starts at 10; per digit s=(d+m)%10 (0 becomes 10),
	// m=(2s)%11; final check digit is (11-m)%10.
	m := 10
	for _, d := range digits[:10] {
		s := (d + m) % 10
		if s == 0 {
			s = 10
		}
		m = (2 * s) % 11
	}

	return (11-m)%10 == digits[10]
}

// validDayMonth applies the shared calendar plausibility check used by
// the date-bearing national IDs: month 1-12, day 1-31, February capped
// at 29, thirty-day months at 30.
func validDayMonth(day, month int) bool {
	if month < 1 || month > 12 {
		return false
	}
	if day < 1 || day > 31 {
		return false
	}
	if month == 2 && day > 29 {
		return false
	}
	switch month {
	case 4, 6, 9, 11:
		if day > 30 {
			return false
		}
	}
	return true
}

// ValidateCPR checks a Danish CPR number: DDMMYY-SSSC with a plausible
// date and a weighted mod-11 checksum over all ten digits.
func ValidateCPR(cpr string) bool {
	digits := digitsOf(cpr)
	if len(digits) != 10 {
		return false
	}

	day := digits[0]*10 + digits[1]
	month := digits[2]*10 + digits[3]
	if !validDayMonth(day, month) {
		return false
	}

	weights := [10]int{4, 3, 2, 7, 6, 5, 4, 3, 2, 1}
	sum := 0
	for i, d := range digits {
		sum += d * weights[i]
	}

	return sum%11 == 0
}

// hetuCheckChars is the 31-symbol check alphabet for the Finnish HETU.
const hetuCheckChars = "0123456789ABCDEFHJKLMNPRSTUVWXY"

// hetuCenturyMarkers lists the accepted century separator characters.
const hetuCenturyMarkers = "+-ABCDEFHJKLMNPRSTUVWXY"

// ValidateHETU checks a Finnish henkilötunnus: DDMMYYcXXXK where c is
// a century marker and K indexes the mod-31 alphabet with the integer
// DDMMYYXXX.
func ValidateHETU(hetu string) bool {
	if len(hetu) != 11 {
		return false
	}

	day, ok1 := atoi2(hetu[0:2])
	month, ok2 := atoi2(hetu[2:4])
	if !ok1 || !ok2 || !validDayMonth(day, month) {
		return false
	}

	if !strings.ContainsRune(hetuCenturyMarkers, rune(hetu[6])) {
		return false
	}

	combined := hetu[:6] + hetu[7:10]
	n := 0
	for i := 0; i < len(combined); i++ {
		if !isDigit(combined[i]) {
			return false
		}
		n = n*10 + int(combined[i]-'0')
	}

	return hetu[10] == hetuCheckChars[n%31]
}

// ValidatePersonnummer checks a Swedish personnummer in either the
// 10-digit (YYMMDDSSSC) or 12-digit (YYYYMMDDSSSC) form: plausible
// date plus Luhn over the final ten digits, doubling from the right.
func ValidatePersonnummer(pnr string) bool {
	digits := digitsOf(pnr)

	switch len(digits) {
	case 12:
		digits = digits[2:]
	case 10:
	default:
		return false
	}

	month := digits[2]*10 + digits[3]
	day := digits[4]*10 + digits[5]
	if !validDayMonth(day, month) {
		return false
	}

	// Doubling starts at the rightmost digit.
	sum := 0
	for i := 0; i < 10; i++ {
		d := digits[9-i]
		if i%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}

	return sum%10 == 0
}

// ValidateFodselsnummer checks a Norwegian fødselsnummer: 11 digits
// with two mod-11 check digits (K1 over the first nine, K2 over the
// first ten) and a plausible date. Days above 40 are D-numbers and are
// reduced by 40 before the calendar check.
func ValidateFodselsnummer(fnr string) bool {
	digits := digitsOf(fnr)
	if len(digits) != 11 {
		return false
	}

	day := digits[0]*10 + digits[1]
	if day > 40 {
		day -= 40
	}
	month := digits[2]*10 + digits[3]
	if !validDayMonth(day, month) {
		return false
	}

	weightsK1 := [9]int{3, 7, 6, 1, 8, 9, 4, 5, 2}
	sumK1 := 0
	for i, w := range weightsK1 {
		sumK1 += digits[i] * w
	}
	k1 := 11 - sumK1%11
	if k1 == 11 {
		k1 = 0
	}
	if k1 == 10 || k1 != digits[9] {
		return false
	}

	weightsK2 := [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}
	sumK2 := 0
	for i, w := range weightsK2 {
		sumK2 += digits[i] * w
	}
	k2 := 11 - sumK2%11
	if k2 == 11 {
		k2 = 0
	}

	return k2 != 10 && k2 == digits[10]
}

// ValidatePESEL checks a Polish PESEL: 11 digits, weighted mod-10
// checksum and a plausible encoded date. The month field carries a
// century offset in steps of 20, so it is reduced modulo 20 first.
func ValidatePESEL(pesel string) bool {
	digits := digitsOf(pesel)
	if len(digits) != 11 {
		return false
	}

	month := (digits[2]*10 + digits[3]) % 20
	day := digits[4]*10 + digits[5]
	if !validDayMonth(day, month) {
		return false
	}

	weights := [10]int{1, 3, 7, 9, 1, 3, 7, 9, 1, 3}
	sum := 0
	for i, w := range weights {
		sum += digits[i] * w
	}

	return (10-sum%10)%10 == digits[10]
}

// ValidatePortugueseNIF checks a Portuguese NIF: 9 digits with a
// restricted leading digit and a weighted mod-11 check where remainders
// 0 and 1 both map to check digit 0.
func ValidatePortugueseNIF(nif string) bool {
	digits := digitsOf(nif)
	if len(digits) != 9 {
		return false
	}

	switch digits[0] {
	case 1, 2, 3, 5, 6, 9:
	default:
		return false
	}

	sum := 0
	for i := 0; i < 8; i++ {
		sum += digits[i] * (9 - i)
	}

	check := 0
	if r := sum % 11; r > 1 {
		check = 11 - r
	}

	return check == digits[8]
}

// Codice Fiscale check-character tables: value contributed by each
// character depending on whether it sits at an odd or even position
// (1-indexed) within the first fifteen characters.
var cfOddValues = map[byte]int{
	'0': 1, '1': 0, '2': 5, '3': 7, '4': 9, '5': 13, '6': 15, '7': 17, '8': 19, '9': 21,
	'A': 1, 'B': 0, 'C': 5, 'D': 7, 'E': 9, 'F': 13, 'G': 15, 'H': 17, 'I': 19, 'J': 21,
	'K': 2, 'L': 4, 'M': 18, 'N': 20, 'O': 11, 'P': 3, 'Q': 6, 'R': 8, 'S': 12, 'T': 14,
	'U': 16, 'V': 10, 'W': 22, 'X': 25, 'Y': 24, 'Z': 23,
}

func cfEvenValue(c byte) int {
	if isDigit(c) {
		return int(c - '0')
	}
	return int(c - 'A')
}

// cfMonthCodes are the letters a Codice Fiscale may use for the birth
// month.
const cfMonthCodes = "ABCDEHLMPRST"

// ValidateCodiceFiscale checks an Italian Codice Fiscale: the 16-char
// structural pattern, a valid month letter, a day in 1-31 (41-71 for
// women), and the odd/even position-sum check character.
func ValidateCodiceFiscale(code string) bool {
	if len(code) != 16 {
		return false
	}

	for i := 0; i < 6; i++ {
		if !isUpper(code[i]) {
			return false
		}
	}
	if !isDigit(code[6]) || !isDigit(code[7]) {
		return false
	}
	if !strings.ContainsRune(cfMonthCodes, rune(code[8])) {
		return false
	}
	day, ok := atoi2(code[9:11])
	if !ok || !((day >= 1 && day <= 31) || (day >= 41 && day <= 71)) {
		return false
	}
	if !isUpper(code[11]) {
		return false
	}
	for i := 12; i < 15; i++ {
		if !isDigit(code[i]) {
			return false
		}
	}

	sum := 0
	for i := 0; i < 15; i++ {
		if i%2 == 0 {
			// 1-indexed odd position.
			sum += cfOddValues[code[i]]
		} else {
			sum += cfEvenValue(code[i])
		}
	}

	return code[15] == byte('A'+sum%26)
}

// ValidateNIR checks a French NIR (social security number): 15 digits,
// leading digit in {1,2,7,8}, and check = 97 - (first 13 digits mod 97).
func ValidateNIR(nir string) bool {
	digits := digitsOf(nir)
	if len(digits) != 15 {
		return false
	}

	switch digits[0] {
	case 1, 2, 7, 8:
	default:
		return false
	}

	var first13 uint64
	for _, d := range digits[:13] {
		first13 = first13*10 + uint64(d)
	}
	check := digits[13]*10 + digits[14]

	return int(97-first13%97) == check
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

// atoi2 parses exactly two ASCII digits.
func atoi2(s string) (int, bool) {
	if len(s) != 2 || !isDigit(s[0]) || !isDigit(s[1]) {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}
