package normalize

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	classSeparators = regexp.MustCompile(`[,;\s]+`)
	digitRun        = regexp.MustCompile(`\d+`)
)

// Nice classification numbers run 1-45.
const (
	minNiceClass = 1
	maxNiceClass = 45
)

// ParseClasses extracts Nice classification numbers from a free-text
// value. Tokens split on commas, semicolons, and whitespace; embedded
// digit runs are pulled out of mixed tokens ("cl.9" -> 9). Numbers outside
// [1, 45] are dropped. The result is sorted and deduplicated; inputs with
// no valid class return an empty (non-nil) slice.
func ParseClasses(v string) []int {
	classes := []int{}

	cleaned := CleanString(v)
	if cleaned == "" {
		return classes
	}

	seen := make(map[int]bool)
	for _, token := range classSeparators.Split(cleaned, -1) {
		for _, run := range digitRun.FindAllString(token, -1) {
			num, err := strconv.Atoi(run)
			if err != nil || num < minNiceClass || num > maxNiceClass {
				continue
			}
			if !seen[num] {
				seen[num] = true
				classes = append(classes, num)
			}
		}
	}

	sort.Ints(classes)
	return classes
}

// FormatClasses renders a class set as a PostgreSQL array literal
// ("{9,35}"), the form the target schema and dry-run CSVs share.
func FormatClasses(classes []int) string {
	if len(classes) == 0 {
		return "{}"
	}
	parts := make([]string, len(classes))
	for i, c := range classes {
		parts[i] = strconv.Itoa(c)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
