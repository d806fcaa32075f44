package detection

import (
	"regexp"

	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/masking"
	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/validation"
)

// Patterns are package-level so each detector compiles its regex once;
// compiled regexps are safe for concurrent use.
var (
	bsnPattern           = regexp.MustCompile(`\b\d{3}[.\s-]?\d{2}[.\s-]?\d{4}\b`)
	nhsPattern           = regexp.MustCompile(`\b\d{3}\s?\d{3}\s?\d{4}\b`)
	dniPattern           = regexp.MustCompile(`\b\d{8}[A-Z]\b`)
	niePattern           = regexp.MustCompile(`\b[XYZ]\d{7}[A-Z]\b`)
	rrnPattern           = regexp.MustCompile(`\b\d{2}[.\s]?\d{2}[.\s]?\d{2}[-.\s]?\d{3}[-.\s]?\d{2}\b`)
	steuerIDPattern      = regexp.MustCompile(`\b\d{11}\b|\b\d{3}[\s-]?\d{3}[\s-]?\d{3}[\s-]?\d{2}\b`)
	codiceFiscalePattern = regexp.MustCompile(`\b[A-Z]{6}[0-9]{2}[A-Z][0-9]{2}[A-Z][0-9]{3}[A-Z]\b`)
	nirPattern           = regexp.MustCompile(`\b[1278]\s?\d{2}\s?\d{2}\s?\d{2}\s?\d{3}\s?\d{3}\s?\d{2}\b`)
	cprPattern           = regexp.MustCompile(`\b\d{6}-?\d{4}\b`)
	hetuPattern          = regexp.MustCompile(`\b\d{6}[+\-ABCDEFHJKLMNPRSTUVWXY]\d{3}[0-9A-Y]\b`)
	personnummerPattern  = regexp.MustCompile(`\b\d{8}-?\d{4}\b|\b\d{6}-?\d{4}\b`)
	fodselsnummerPattern = regexp.MustCompile(`\b\d{6}-?\d{5}\b`)
	peselPattern         = regexp.MustCompile(`\b\d{11}\b`)
	nifPattern           = regexp.MustCompile(`\b[123569]\d{2}[\s-]?\d{3}[\s-]?\d{3}\b`)
	emailPattern         = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// NewBSNDetector detects Dutch BSN (Burgerservicenummer) values,
// validated with the 11-proef.
func NewBSNDetector() Detector {
	return &patternDetector{
		id:       "nl_bsn",
		name:     "Dutch BSN (Burgerservicenummer)",
		country:  "nl",
		severity: SeverityCritical,
		description: "Detects Dutch BSN (Burgerservicenummer - Social Security Number). " +
			"Uses 11-proef checksum validation to minimize false positives. Format: 9 digits.",
		pattern:      bsnPattern,
		extract:      extractDigits,
		validateFunc: validation.ValidateBSN,
		mask:         masking.MaskValue,
	}
}

// NewNHSDetector detects UK NHS numbers (10 digits, mod-11 check).
func NewNHSDetector() Detector {
	return &patternDetector{
		id:       "gb_nhs",
		name:     "UK NHS Number",
		country:  "gb",
		severity: SeverityCritical,
		description: "Detects UK NHS numbers (10 digits, usually grouped 3-3-4). " +
			"Validated with the NHS modulus-11 check digit.",
		pattern:      nhsPattern,
		extract:      extractDigits,
		validateFunc: validation.ValidateNHS,
		mask:         masking.MaskValue,
	}
}

// NewDNIDetector detects Spanish DNI identifiers (8 digits plus a
// mod-23 check letter).
func NewDNIDetector() Detector {
	return &patternDetector{
		id:           "es_dni",
		name:         "Spain DNI",
		country:      "es",
		severity:     SeverityCritical,
		description:  "Detects Spanish DNI numbers (8 digits + check letter, modulus 23).",
		pattern:      dniPattern,
		validateFunc: validation.ValidateSpanishID,
		mask:         masking.MaskValue,
	}
}

// NewNIEDetector detects Spanish NIE identifiers (X/Y/Z prefix, 7
// digits, mod-23 check letter).
func NewNIEDetector() Detector {
	return &patternDetector{
		id:           "es_nie",
		name:         "Spain NIE",
		country:      "es",
		severity:     SeverityCritical,
		description:  "Detects Spanish NIE numbers for foreign residents (X/Y/Z + 7 digits + check letter).",
		pattern:      niePattern,
		validateFunc: validation.ValidateSpanishID,
		mask:         masking.MaskValue,
	}
}

// NewRRNDetector detects Belgian national register numbers.
func NewRRNDetector() Detector {
	return &patternDetector{
		id:       "be_rrn",
		name:     "Belgium RRN",
		country:  "be",
		severity: SeverityCritical,
		description: "Detects Belgian Rijksregisternummer / Numéro de Registre National " +
			"(11 digits, two-stage modulus 97 check covering pre- and post-2000 births).",
		pattern:      rrnPattern,
		extract:      extractDigits,
		validateFunc: validation.ValidateBelgianRRN,
		mask:         masking.MaskValue,
	}
}

// NewSteuerIDDetector detects German tax identification numbers.
func NewSteuerIDDetector() Detector {
	return &patternDetector{
		id:       "de_steuer_id",
		name:     "Germany Tax ID (Steuer-ID)",
		country:  "de",
		severity: SeverityCritical,
		description: "Detects the German Steueridentifikationsnummer (11 digits) using the " +
			"official digit-frequency rules and product-sum check digit.",
		pattern:      steuerIDPattern,
		extract:      extractDigits,
		validateFunc: validation.ValidateSteuerID,
		mask:         masking.MaskValue,
	}
}

// NewCodiceFiscaleDetector detects Italian Codice Fiscale codes.
func NewCodiceFiscaleDetector() Detector {
	return &patternDetector{
		id:       "it_codice_fiscale",
		name:     "Italian Codice Fiscale",
		country:  "it",
		severity: SeverityCritical,
		description: "Detects the Italian Codice Fiscale (16 alphanumeric characters) " +
			"including month letter, day range and check character validation.",
		pattern:      codiceFiscalePattern,
		validateFunc: validation.ValidateCodiceFiscale,
		mask:         masking.MaskValue,
	}
}

// NewNIRDetector detects French social security numbers.
func NewNIRDetector() Detector {
	return &patternDetector{
		id:       "fr_nir",
		name:     "French NIR (Numéro de Sécurité Sociale)",
		country:  "fr",
		severity: SeverityCritical,
		description: "Detects the French NIR (15 digits, leading digit 1/2/7/8) with the " +
			"modulus-97 check over the first 13 digits.",
		pattern:      nirPattern,
		extract:      extractDigits,
		validateFunc: validation.ValidateNIR,
		mask:         masking.MaskValue,
	}
}

// NewCPRDetector detects Danish CPR numbers.
func NewCPRDetector() Detector {
	return &patternDetector{
		id:       "dk_cpr",
		name:     "Danish CPR (Central Person Register)",
		country:  "dk",
		severity: SeverityCritical,
		description: "Detects Danish CPR numbers (DDMMYY-SSSC) with date plausibility and " +
			"weighted modulus-11 validation.",
		pattern:      cprPattern,
		extract:      extractDigits,
		validateFunc: validation.ValidateCPR,
		mask:         masking.MaskValue,
	}
}

// NewHetuDetector detects Finnish personal identity codes.
func NewHetuDetector() Detector {
	return &patternDetector{
		id:       "fi_hetu",
		name:     "Finnish Henkilötunnus (HETU)",
		country:  "fi",
		severity: SeverityCritical,
		description: "Detects the Finnish henkilötunnus (DDMMYYcXXXK) with century marker, " +
			"date plausibility and the modulus-31 check character.",
		pattern:      hetuPattern,
		validateFunc: validation.ValidateHETU,
		mask:         masking.MaskValue,
	}
}

// NewPersonnummerDetector detects Swedish personal identity numbers.
func NewPersonnummerDetector() Detector {
	return &patternDetector{
		id:       "se_personnummer",
		name:     "Swedish Personnummer",
		country:  "se",
		severity: SeverityCritical,
		description: "Detects Swedish personnummer in 10- or 12-digit form, validated with " +
			"the Luhn variant doubling from the rightmost digit.",
		pattern:      personnummerPattern,
		extract:      extractDigits,
		validateFunc: validation.ValidatePersonnummer,
		mask:         masking.MaskValue,
	}
}

// NewFodselsnummerDetector detects Norwegian national identity numbers.
func NewFodselsnummerDetector() Detector {
	return &patternDetector{
		id:       "no_fodselsnummer",
		name:     "Norwegian Fødselsnummer",
		country:  "no",
		severity: SeverityCritical,
		description: "Detects Norwegian fødselsnummer (11 digits, two modulus-11 check " +
			"digits), including D-numbers with the day offset by 40.",
		pattern:      fodselsnummerPattern,
		extract:      extractDigits,
		validateFunc: validation.ValidateFodselsnummer,
		mask:         masking.MaskValue,
	}
}

// NewPESELDetector detects Polish PESEL numbers.
func NewPESELDetector() Detector {
	return &patternDetector{
		id:       "pl_pesel",
		name:     "Polish PESEL (National ID)",
		country:  "pl",
		severity: SeverityCritical,
		description: "Detects Polish PESEL numbers (11 digits) with the weighted checksum " +
			"and century-encoded birth date validation.",
		pattern:      peselPattern,
		extract:      extractDigits,
		validateFunc: validation.ValidatePESEL,
		mask:         masking.MaskValue,
	}
}

// NewNIFDetector detects Portuguese tax identification numbers. The
// leading-digit restriction appears both in the pattern (cheap
// pre-filter) and in the validator (definitive rule).
func NewNIFDetector() Detector {
	return &patternDetector{
		id:       "pt_nif",
		name:     "Portuguese NIF (Número de Identificação Fiscal)",
		country:  "pt",
		severity: SeverityCritical,
		description: "Detects Portuguese NIF numbers (9 digits, restricted leading digit) " +
			"with modulus-11 validation.",
		pattern:      nifPattern,
		extract:      extractDigits,
		validateFunc: validation.ValidatePortugueseNIF,
		mask:         masking.MaskValue,
	}
}

// NewEmailDetector detects email addresses. There is no validation
// beyond the pattern, so matches carry medium confidence.
func NewEmailDetector() Detector {
	return &patternDetector{
		id:          "email",
		name:        "Email Address",
		country:     CountryUniversal,
		severity:    SeverityMedium,
		description: "Detects email addresses. Pattern match only, no validation.",
		pattern:     emailPattern,
		confidence:  ConfidenceMedium,
		mask:        masking.MaskEmail,
	}
}
