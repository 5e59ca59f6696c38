package verify

import (
	"regexp"
	"sort"
	"strconv"
)

var (
	closingRef = regexp.MustCompile(`(?i)(?:closes?|fixes?|resolves?|related to)\s*#(\d+)`)
	anyRef     = regexp.MustCompile(`#(\d+)`)
)

// RelatedIssues returns every issue number referenced as #N in body, sorted
// and without duplicates.
func RelatedIssues(body string) []int {
	return collect(anyRef, body)
}

// ClosingIssues returns the issues referenced after a keyword such as
// "Closes" or "Related to".
func ClosingIssues(body string) []int {
	return collect(closingRef, body)
}

func collect(re *regexp.Regexp, body string) []int {
	seen := map[int]bool{}
	var out []int
	for _, m := range re.FindAllStringSubmatch(body, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
