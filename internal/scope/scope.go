// Package scope classifies accepted jobs into geographic and seniority
// buckets used for notification routing.
package scope

import (
	"strings"

	"github.com/wnaveed5/Job-Checker/internal/model"
)

// Tag identifies the geographic bucket a job belongs to. An empty tag means
// the job matched neither bucket and is excluded from notification groups.
type Tag string

const (
	TagNone     Tag = ""
	TagAustin   Tag = "austin"
	TagUSRemote Tag = "us-remote"
)

// Explicit US indicators. Any of these in the location text accepts the job
// as US-remote before the non-US checks run.
var usTokens = []string{
	"remote - us",
	"us remote",
	"remote us",
	"united states",
	"usa",
	"u.s.",
	"within the us",
	"eligible to work in the us",
	"us-based",
	"us based",
	"united states only",
	"us only",
}

// Non-US country/city/region indicators. Substring matching, same as the
// rest of the rule set.
var nonUSIndicators = []string{
	"denmark", "copenhagen", "europe", "eu", "emea", "uk", "london", "germany", "berlin",
	"france", "paris", "netherlands", "amsterdam", "sweden", "stockholm", "norway", "oslo",
	"canada", "toronto", "vancouver", "montreal", "australia", "sydney", "melbourne",
	"singapore", "tokyo", "japan", "india", "bangalore", "mumbai", "delhi",
}

// Phrases that lock a listing to a non-US region.
var regionOnlyPhrases = []string{
	"emea", "eu only", "europe only", "uk only", "canada only", "australia only",
}

var stretchKeywords = []string{"senior", "staff", "principal", "lead"}

// IsAustin reports whether the text mentions any configured Austin alias.
// Aliases must already be lowercased.
func IsAustin(text string, austinAliases []string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, alias := range austinAliases {
		if strings.Contains(lower, alias) {
			return true
		}
	}
	return false
}

// ContainsNonUS reports whether the text mentions a known non-US country,
// city, or region.
func ContainsNonUS(text string) bool {
	lower := strings.ToLower(text)
	for _, indicator := range nonUSIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// ContainsRegionLock reports whether the text restricts the role to a
// non-US region ("eu only", "uk only", ...).
func ContainsRegionLock(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range regionOnlyPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// IsUSRemote reports whether the text describes a US-eligible remote role.
// Explicit US tokens accept; known non-US indicators reject; a bare mention
// of "remote" with no country is ambiguous but accepted.
func IsUSRemote(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)

	for _, t := range usTokens {
		if strings.Contains(lower, t) {
			return true
		}
	}
	if ContainsNonUS(lower) {
		return false
	}
	if ContainsRegionLock(lower) {
		return false
	}
	return strings.Contains(lower, "remote")
}

// IsStretch reports whether the title indicates a senior-level role. It is a
// pure function of the title and does not depend on configuration.
func IsStretch(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range stretchKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Classify maps a job to its geographic bucket and stretch flag. The location
// field is tried first; when it yields no match the description is tried as a
// fallback, Austin test first in both passes.
func Classify(job model.Job, austinAliases []string) (Tag, bool) {
	stretch := IsStretch(job.Title)

	if IsAustin(job.Location, austinAliases) {
		return TagAustin, stretch
	}
	if IsUSRemote(job.Location) {
		return TagUSRemote, stretch
	}
	if job.Description != "" {
		if IsAustin(job.Description, austinAliases) {
			return TagAustin, stretch
		}
		if IsUSRemote(job.Description) {
			return TagUSRemote, stretch
		}
	}
	return TagNone, stretch
}
