/* input_processing.go
 * Contains the logic for processing user input: matching driver names typed by users against the roster and
 * cleaning free text before it is stored
 * Authors: Zachary Bower
 */

package logic

import (
	"race-control/api/store"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MatchDriverName finds the roster name that best matches a name typed by a user.
// Preconditions: receives the user's input and a list of valid driver names
// Postconditions: returns the matched name in its original casing and true, or "" and false when nothing matches
func MatchDriverName(input string, validNames []string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	// Convert names to lowercase for better matching
	lookup := make(map[string]string)
	var validNamesLower []string
	for _, name := range validNames {
		lower := strings.ToLower(name)
		if _, ok := lookup[lower]; ok {
			continue
		}
		lookup[lower] = name
		validNamesLower = append(validNamesLower, lower)
	}

	lowerInput := strings.ToLower(input)
	fuzzyResults := fuzzy.RankFind(lowerInput, validNamesLower)
	if len(fuzzyResults) == 0 {
		return "", false
	}

	// If there are multiple matches, prefer an exact match with the input, then the closest ranked match
	best := fuzzyResults[0]
	for _, r := range fuzzyResults {
		if r.Target == lowerInput {
			return lookup[r.Target], true
		}
		if r.Distance < best.Distance {
			best = r
		}
	}
	return lookup[best.Target], true
}

// MatchDriver finds the roster entry whose name best matches a name typed by a user
// Preconditions: receives the user's input and the current roster
// Postconditions: returns the Driver and true, or an empty Driver and false when nothing matches
func MatchDriver(input string, drivers []store.Driver) (store.Driver, bool) {
	names := make([]string, 0, len(drivers))
	for _, d := range drivers {
		names = append(names, d.Name)
	}
	name, ok := MatchDriverName(input, names)
	if !ok {
		return store.Driver{}, false
	}
	for _, d := range drivers {
		if d.Name == name {
			return d, true
		}
	}
	return store.Driver{}, false
}

// FindDriver looks a roster entry up by id
func FindDriver(drivers []store.Driver, id string) (store.Driver, bool) {
	for _, d := range drivers {
		if d.ID == id {
			return d, true
		}
	}
	return store.Driver{}, false
}

// CleanText trims surrounding whitespace from free text input.
// Postconditions: returns the trimmed text and false if nothing is left
func CleanText(text string) (string, bool) {
	text = strings.TrimSpace(text)
	return text, text != ""
}
