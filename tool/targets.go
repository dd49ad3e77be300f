package tool

import (
	"regexp"
	"sort"
	"strings"
)

// UniProtToEntrez maps UniProt accessions for well-studied disease targets
// to their Entrez Gene IDs. Extend as coverage grows.
var UniProtToEntrez = map[string]string{
	// Alzheimer's disease
	"P05067": "351",   // APP
	"P10636": "4137",  // MAPT
	"P49768": "5663",  // PSEN1
	"P56817": "23621", // BACE1
	// Parkinson's disease
	"P37840": "6622",   // SNCA
	"Q5S007": "120892", // LRRK2
	"Q99497": "11315",  // PARK7
	"Q9BXM7": "65018",  // PINK1
	// ALS
	"P00441": "6647",   // SOD1
	"O14776": "203228", // C9orf72
	"P35637": "2521",   // FUS
	"Q13148": "23435",  // TARDBP
	// Pancreatic cancer
	"P01116": "3845", // KRAS
	"P04637": "7157", // TP53
	"P42771": "1029", // CDKN2A
	"Q13485": "4089", // SMAD4
	// Breast cancer
	"P38398": "672",  // BRCA1
	"P51587": "675",  // BRCA2
	"P03372": "2099", // ESR1
	"P04626": "2064", // ERBB2
	// Lung cancer
	"P00533": "1956", // EGFR
	"Q9UM73": "238",  // ALK
	// Diabetes mellitus
	"P01308": "3630", // INS
	"P35557": "2645", // GCK
	"P20823": "6927", // HNF1A
	"P37231": "5468", // PPARG
	// COVID-19
	"Q9BYF1": "59272", // ACE2
	"O15393": "7113",  // TMPRSS2
	// Rheumatoid arthritis
	"P01375": "7124",  // TNF
	"P05231": "3569",  // IL6
	"Q9Y2R2": "26191", // PTPN22
	"Q14765": "6775",  // STAT4
	// Multiple sclerosis
	"P04229": "3123", // HLA-DRB1
	"P60568": "3559", // IL2RA
	"P16871": "3575", // IL7R
	"P30203": "923",  // CD6
	// Huntington's disease
	"P42858": "3064", // HTT
	// Ovarian cancer
	"P60484": "5728", // PTEN
	// Glioblastoma
	"O75874": "3417", // IDH1
	// Leukemia
	"P11274": "613",  // BCR
	"P00519": "25",   // ABL1
	"P36888": "2322", // FLT3
	"P06748": "4869", // NPM1
	// Prostate cancer
	"P10275": "367",  // AR
	"Q99801": "4829", // NKX3-1
}

var symbolPattern = regexp.MustCompile(`\b[A-Z0-9]{2,10}\b`)

var symbolStopWords = map[string]bool{
	"AND": true, "THE": true, "FOR": true, "WITH": true, "FROM": true,
	"THIS": true, "THAT": true, "WAS": true, "ARE": true, "HAVE": true,
	"HAS": true, "WERE": true, "NOT": true, "BUT": true, "ALL": true,
	"ONE": true, "TWO": true, "THREE": true, "FOUR": true, "FIVE": true,
	"SIX": true, "SEVEN": true, "EIGHT": true, "NINE": true, "TEN": true,
}

// ExtractTargets pulls candidate gene and protein symbols out of free-text
// abstracts. Symbols are upper-case alphanumeric tokens at least three
// characters long, ranked by how often they occur. Ties break
// alphabetically so the result is deterministic.
func ExtractTargets(abstracts string, topN int) []string {
	if topN <= 0 || strings.TrimSpace(abstracts) == "" {
		return nil
	}
	counts := make(map[string]int)
	for _, m := range symbolPattern.FindAllString(abstracts, -1) {
		if len(m) <= 2 || isDigits(m) || symbolStopWords[m] {
			continue
		}
		counts[m]++
	}
	if len(counts) == 0 {
		return nil
	}
	symbols := make([]string, 0, len(counts))
	for s := range counts {
		symbols = append(symbols, s)
	}
	sort.Slice(symbols, func(i, j int) bool {
		if counts[symbols[i]] != counts[symbols[j]] {
			return counts[symbols[i]] > counts[symbols[j]]
		}
		return symbols[i] < symbols[j]
	})
	if len(symbols) > topN {
		symbols = symbols[:topN]
	}
	return symbols
}
