// Package filter implements the sequential predicate pipeline that accepts or
// rejects a job against the configured rule set. Evaluation is a pure
// function of (job, configuration, current time) and short-circuits at the
// first failing predicate.
package filter

import (
	"strings"
	"time"

	"github.com/wnaveed5/Job-Checker/internal/config"
	"github.com/wnaveed5/Job-Checker/internal/model"
	"github.com/wnaveed5/Job-Checker/internal/scope"
)

// Reason identifies which predicate rejected a job.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonNonUSLocation   Reason = "non_us_location"
	ReasonTitleMismatch   Reason = "title_mismatch"
	ReasonNotWhitelisted  Reason = "company_not_whitelisted"
	ReasonBlacklisted     Reason = "company_blacklisted"
	ReasonInternship      Reason = "internship"
	ReasonContract        Reason = "contract"
	ReasonPartTime        Reason = "part_time"
	ReasonTemporary       Reason = "temporary"
	ReasonRoleExcluded    Reason = "role_excluded"
	ReasonTitleExcluded   Reason = "title_keyword_excluded"
	ReasonLowScore        Reason = "low_score"
	ReasonExcludedText    Reason = "excluded_text"
	ReasonStale           Reason = "stale"
)

// Decision is the outcome of evaluating one job. Score is the keyword score
// computed by the score gate; it is zero when an earlier predicate rejected
// the job first.
type Decision struct {
	Accepted bool
	Reason   Reason
	Score    int
}

// Manager/director/VP title tokens. Leading/trailing spaces are deliberate:
// "manager" must not match "management" in the middle of a word, but a title
// ending in "Manager" still matches via the leading-space form.
var managerTokens = []string{
	" manager", "manager ", " manager ", "director", "vp ", "vice president",
}

var salesTokens = []string{
	"sales", "account executive", "account manager", "partner", "partnership",
	"business development", "bd ", "customer success", "marketing",
}

var salesPhrases = []string{"global partner", "alliances", "channel sales"}

// Engine evaluates jobs against an immutable configuration snapshot.
type Engine struct {
	filters   config.FiltersConfig
	locations config.LocationsConfig
	app       config.AppConfig
}

// New creates a filter engine bound to the given configuration.
func New(cfg *config.Config) *Engine {
	return &Engine{
		filters:   cfg.Filters,
		locations: cfg.Locations,
		app:       cfg.App,
	}
}

// Apply evaluates all jobs and returns the accepted ones in input order.
func (e *Engine) Apply(jobs []model.Job, now time.Time) []model.Job {
	var out []model.Job
	for _, job := range jobs {
		if d := e.Evaluate(job, now); d.Accepted {
			out = append(out, job)
		}
	}
	return out
}

// Evaluate runs the ordered predicates against one job. The first failing
// predicate determines the rejection reason; later predicates never run.
func (e *Engine) Evaluate(job model.Job, now time.Time) Decision {
	combined := job.Title + " | " + job.Company + " | " + job.Description
	titleLower := strings.ToLower(job.Title)
	combinedLower := strings.ToLower(combined)

	// 1. Geography gate: drop listings locked to non-US regions.
	if e.locations.USOnlyRemote {
		locationText := strings.ToLower(job.Location + " " + job.Description)
		if scope.ContainsNonUS(locationText) {
			return Decision{Reason: ReasonNonUSLocation}
		}
		if scope.ContainsRegionLock(locationText) {
			return Decision{Reason: ReasonNonUSLocation}
		}
	}

	// 2. Title must contain at least one required token, when configured.
	if len(e.filters.TitleMustIncludeAny) > 0 {
		if !containsAny(titleLower, e.filters.TitleMustIncludeAny) {
			return Decision{Reason: ReasonTitleMismatch}
		}
	}

	// 3. Company allow/deny. Both gates are checked independently; a company
	// on both lists is rejected by the blacklist.
	companyLower := strings.ToLower(job.Company)
	if len(e.filters.CompanyWhitelist) > 0 && !containsExact(e.filters.CompanyWhitelist, companyLower) {
		return Decision{Reason: ReasonNotWhitelisted}
	}
	if len(e.filters.CompanyBlacklist) > 0 && containsExact(e.filters.CompanyBlacklist, companyLower) {
		return Decision{Reason: ReasonBlacklisted}
	}

	// 4. Employment-type exclusions.
	if e.filters.ExcludeIntern && (strings.Contains(titleLower, "intern") || strings.Contains(combinedLower, "internship")) {
		return Decision{Reason: ReasonInternship}
	}
	if e.filters.ExcludeContract && containsAny(combinedLower, []string{"contract", "1099", "c2c"}) {
		return Decision{Reason: ReasonContract}
	}
	if e.filters.ExcludePartTime && containsAny(combinedLower, []string{"part-time", "part time"}) {
		return Decision{Reason: ReasonPartTime}
	}
	if e.filters.ExcludeTemp && containsAny(combinedLower, []string{"temporary", "temp role"}) {
		return Decision{Reason: ReasonTemporary}
	}

	// 5. Role exclusions: management/sales heuristics, then configured
	// whole-word title keywords.
	if isManagerOrSales(titleLower, combinedLower) {
		return Decision{Reason: ReasonRoleExcluded}
	}
	if matchesWholeWord(titleLower, e.filters.ExcludeTitleKeywords) {
		return Decision{Reason: ReasonTitleExcluded}
	}

	// 6. Keyword score gate. Listings without a description carry less text
	// to match against, so the threshold drops to 1.
	score := computeScore(combinedLower, e.filters.IncludeKeywords, e.filters.IncludeBonusKeywords)
	requiredMin := e.filters.MinScore
	if job.Description == "" {
		requiredMin = 1
	}
	if score < requiredMin {
		return Decision{Reason: ReasonLowScore, Score: score}
	}

	// 7. Bad-text exclusion.
	if containsAny(combinedLower, e.filters.ExcludeTextKeywords) {
		return Decision{Reason: ReasonExcludedText, Score: score}
	}

	// 8. Recency gate. Missing timestamps pass unconditionally.
	if job.PostedAt != nil {
		ageHours := now.UTC().Sub(job.PostedAt.UTC()).Hours()
		if ageHours > float64(e.app.MaxAgeHours(now)) {
			return Decision{Reason: ReasonStale, Score: score}
		}
	}

	return Decision{Accepted: true, Score: score}
}

// containsAny reports whether text contains any keyword, case-insensitively.
func containsAny(textLower string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(textLower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// containsExact reports whether list contains value as a whole entry.
func containsExact(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// matchesWholeWord reports whether the title contains any keyword as a
// whole word (surrounded by spaces).
func matchesWholeWord(titleLower string, keywords []string) bool {
	padded := " " + titleLower + " "
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(padded, " "+strings.ToLower(kw)+" ") {
			return true
		}
	}
	return false
}

// computeScore counts include and bonus keywords present in the text. Each
// keyword counts at most once regardless of repeat occurrences.
func computeScore(textLower string, includeKeywords, bonusKeywords []string) int {
	score := 0
	for _, kw := range includeKeywords {
		if strings.Contains(textLower, strings.ToLower(kw)) {
			score++
		}
	}
	for _, kw := range bonusKeywords {
		if strings.Contains(textLower, strings.ToLower(kw)) {
			score++
		}
	}
	return score
}

func isManagerOrSales(titleLower, combinedLower string) bool {
	for _, tok := range managerTokens {
		if strings.Contains(titleLower, tok) {
			return true
		}
	}
	for _, tok := range salesTokens {
		if strings.Contains(titleLower, tok) {
			return true
		}
	}
	for _, phrase := range salesPhrases {
		if strings.Contains(combinedLower, phrase) {
			return true
		}
	}
	return false
}
