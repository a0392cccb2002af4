package adapter

import "strings"

// Remotive and We Work Remotely carry a lot of non-US remote listings, so
// those adapters pre-filter the obvious ones before the filter engine runs.
// Substring matching, same as the engine's geography gate.

var europeanCountries = []string{
	"denmark", "sweden", "norway", "finland", "germany", "france", "spain", "italy",
	"netherlands", "belgium", "switzerland", "austria", "poland", "czech", "hungary",
	"romania", "bulgaria", "croatia", "slovenia", "slovakia", "estonia", "latvia",
	"lithuania", "ireland", "portugal", "greece", "cyprus", "malta", "luxembourg",
	"uk", "united kingdom", "england", "scotland", "wales", "northern ireland",
}

var europeanCities = []string{
	"london", "berlin", "paris", "madrid", "rome", "amsterdam", "brussels",
	"zurich", "vienna", "warsaw", "prague", "budapest", "bucharest", "sofia",
	"zagreb", "ljubljana", "bratislava", "tallinn", "riga", "vilnius", "dublin",
	"lisbon", "athens", "nicosia", "valletta", "copenhagen", "stockholm", "oslo",
	"helsinki", "reykjavik", "moscow", "kyiv", "minsk",
}

// mentionsEurope reports whether the given texts mention a European country
// or city. All inputs are lowercased before matching.
func mentionsEurope(texts ...string) bool {
	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, country := range europeanCountries {
			if strings.Contains(lower, country) {
				return true
			}
		}
		for _, city := range europeanCities {
			if strings.Contains(lower, city) {
				return true
			}
		}
	}
	return false
}
