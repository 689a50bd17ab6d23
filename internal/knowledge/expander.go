package knowledge

import (
	"strings"

	"github.com/elecmate/maintenance-planner/internal/models"
)

// Words that carry no retrieval signal in an equipment description.
var noiseWords = map[string]bool{
	"please": true, "help": true, "how": true, "do": true, "can": true, "you": true, "me": true,
	"my": true, "the": true, "a": true, "an": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "have": true, "has": true, "had": true, "will": true, "would": true,
	"could": true, "should": true, "need": true, "needs": true, "want": true, "for": true, "and": true,
	"with": true, "our": true, "what": true, "which": true, "some": true,
}

var baseKeywords = []string{"maintenance", "inspection", "testing", "schedule"}

// Keywords added when the equipment text mentions a known family.
var equipmentKeywords = []struct {
	match    []string
	keywords []string
}{
	{[]string{"consumer unit", "fuse board", "fuseboard"}, []string{"RCD", "RCBO", "MCB", "busbar", "SPD"}},
	{[]string{"distribution board", "db board", "panel board", "panelboard"}, []string{"MCCB", "busbar", "thermal imaging", "torque"}},
	{[]string{"motor", "pump", "fan"}, []string{"insulation resistance", "bearings", "vibration", "starter"}},
	{[]string{"emergency light"}, []string{"BS 5266", "duration test", "monthly function test"}},
	{[]string{"fire alarm"}, []string{"BS 5839", "detector", "sounder", "weekly test"}},
	{[]string{"ev charger", "charge point", "charging point", "ev charging"}, []string{"PME", "earth electrode", "RCD type B", "section 722"}},
	{[]string{"solar", "photovoltaic", "pv"}, []string{"inverter", "string test", "DC isolator", "section 712"}},
	{[]string{"switchgear", "switchboard"}, []string{"circuit breaker", "protection relay", "thermographic survey"}},
	{[]string{"transformer"}, []string{"oil analysis", "winding", "insulation resistance"}},
	{[]string{"generator", "genset"}, []string{"load bank", "changeover", "battery"}},
	{[]string{"ups"}, []string{"battery", "bypass", "load test"}},
	{[]string{"lighting", "luminaire"}, []string{"lamp", "luminaire", "control gear"}},
}

// ExpandQuery enriches the caller's description with equipment and
// maintenance keywords to improve retrieval recall.
func ExpandQuery(req *models.MaintenanceRequest) string {
	description := req.Description()
	cleaned := stripNoise(description)

	var terms []string
	seen := make(map[string]bool)
	add := func(term string) {
		term = strings.TrimSpace(term)
		key := strings.ToLower(term)
		if term == "" || seen[key] {
			return
		}
		seen[key] = true
		terms = append(terms, term)
	}

	add(cleaned)
	if !strings.Contains(strings.ToLower(cleaned), strings.ToLower(req.EquipmentType)) {
		add(req.EquipmentType)
	}
	add(req.MaintenanceType)
	for _, k := range baseKeywords {
		if !strings.Contains(strings.ToLower(cleaned), k) {
			add(k)
		}
	}

	haystack := strings.ToLower(description + " " + req.EquipmentType)
	for _, family := range equipmentKeywords {
		if containsAny(haystack, family.match) {
			for _, k := range family.keywords {
				add(k)
			}
		}
	}

	return strings.Join(terms, " ")
}

// stripNoise lower-cases and drops noise words, keeping the original text when
// filtering removes too much of it.
func stripNoise(query string) string {
	query = strings.TrimSpace(query)
	words := strings.Fields(strings.ToLower(query))
	var filtered []string
	for _, word := range words {
		word = strings.Trim(word, ",.;:!?()")
		if word == "" || noiseWords[word] {
			continue
		}
		filtered = append(filtered, word)
	}

	processed := strings.Join(filtered, " ")
	if len(processed) < len(query)/3 {
		return query
	}
	return processed
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if containsWord(haystack, n) {
			return true
		}
	}
	return false
}

// containsWord matches needle at a word start; short needles must also end
// on a boundary so "ups" does not match "groups" or "upstairs".
func containsWord(haystack, needle string) bool {
	idx := 0
	for {
		i := strings.Index(haystack[idx:], needle)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(needle)
		beforeOK := start == 0 || !isWordChar(haystack[start-1])
		afterOK := len(needle) > 3 || end == len(haystack) || !isWordChar(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
