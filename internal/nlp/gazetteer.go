package nlp

import "regexp"

// indianStates lists the states and union territories recognized as state
// entities. Matching is whole-word and case-insensitive.
var indianStates = []string{
	"andaman and nicobar islands",
	"andhra pradesh", "arunachal pradesh", "assam", "bihar", "chhattisgarh",
	"goa", "gujarat", "haryana", "himachal pradesh", "jharkhand", "karnataka",
	"kerala", "madhya pradesh", "maharashtra", "manipur", "meghalaya",
	"mizoram", "nagaland", "odisha", "punjab", "rajasthan", "sikkim",
	"tamil nadu", "telangana", "tripura", "uttarakhand", "uttar pradesh",
	"west bengal", "delhi", "jammu and kashmir", "ladakh", "chandigarh",
	"dadra and nagar haveli", "daman and diu", "lakshadweep", "puducherry",
}

// indianCrops lists the crops recognized as crop entities.
var indianCrops = []string{
	"rice", "wheat", "maize", "barley", "bajra", "jowar", "ragi",
	"sugarcane", "cotton", "jute", "tea", "coffee", "coconut",
	"groundnut", "sesame", "mustard", "linseed", "castor",
	"sunflower", "safflower", "niger", "soybean", "sesamum",
	"arhar", "moong", "urad", "masoor", "gram", "khesari",
	"onion", "potato", "sweet potato", "tapioca", "banana",
	"mango", "citrus", "apple", "grapes", "pomegranate",
	"cashew", "cardamom", "black pepper", "turmeric", "ginger",
	"coriander", "cumin", "fennel", "fenugreek",
}

type gazetteerEntry struct {
	value string
	re    *regexp.Regexp
}

func compileGazetteer(names []string) []gazetteerEntry {
	entries := make([]gazetteerEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, gazetteerEntry{
			value: name,
			re:    regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`),
		})
	}
	return entries
}

var (
	stateEntries = compileGazetteer(indianStates)
	cropEntries  = compileGazetteer(indianCrops)
	yearPattern  = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)
