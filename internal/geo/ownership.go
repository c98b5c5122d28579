package geo

import (
	"regexp"
	"strings"
)

// ownerRule maps the label variants seen in the pub data onto one master
// operator name. A rule matches when every word of any entry in words
// appears in the label, or when any expression in exprs matches.
type ownerRule struct {
	name  string
	words []string
	exprs []*regexp.Regexp
}

func rx(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile("(?i)" + p)
	}
	return out
}

// ownerRules is ordered; the first matching rule wins. The table is
// calibration data from the production dataset, not something to derive.
var ownerRules = []ownerRule{
	{name: "Wetherspoon", words: []string{"wetherspoon"}},
	{name: "Fuller's", words: []string{"fuller"}},
	{name: "Greene King", words: []string{"greene king"}},
	{name: "Nicholson's", words: []string{"nicholson", "mitchell butler"}, exprs: rx(`m\s*&\s*b`)},
	{name: "Young's", words: []string{"young"}},
	{name: "Stonegate", words: []string{"stonegate"}},
	{name: "Craft Beer Co", words: []string{"craft beer"}},
	{name: "Stanley Pubs", words: []string{"stanley"}},
	{name: "Three Cheers Pub Co", words: []string{"three cheers"}},
	{name: "Antic", words: []string{"antic"}},
	{name: "Berkeley Inns", words: []string{"berkeley"}},
	{name: "Grace Land", words: []string{"grace land"}},
	{name: "Inda Pubs", words: []string{"inda"}},
	{name: "Ineos", words: []string{"ineos"}},
	{name: "McMullen", words: []string{"mcmullen"}},
	{name: "Remarkable Pubs", words: []string{"remarkable"}},
	{name: "Samuel Smith's", words: []string{"samuel smith"}},
	{name: "Shepherd Neame", words: []string{"shepherd neame"}},
	{name: "Urban Pubs & Bars", words: []string{"urban pub"}},
	{name: "Market Taverns", words: []string{"market tavern"}},
	{name: "Ember Inns", words: []string{"ember inn"}},
	{name: "Geronimo Inns", words: []string{"geronimo inn"}},
	{name: "BrewDog", words: []string{"brewdog"}},
	{name: "Cubitt House", words: []string{"cubitt house"}},
	{name: "Craft Union", words: []string{"craft union"}},
	{name: "Glendola Leisure", words: []string{"glendola leisure"}},
	{name: "Royal British Legion", words: []string{"royal british"}},
	{name: "Five Points Brewing Co", words: []string{"five point"}},
	{name: "Hall & Woodhouse", words: []string{"hall woodhous"}},
	{name: "Portobello", words: []string{"portobello"}},
	{name: "Punch Pubs", words: []string{"punch"}},
	{name: "London Village Inns", words: []string{"london village"}},
	{name: "Big Smoke Brewery", words: []string{"big smoke"}},
	{name: "Laine Pub Co", words: []string{"laine"}},
	{name: "Twenty6", exprs: rx(`twenty\s*6`)},
	{name: "Davy's", words: []string{"davy"}},
	{name: "Gipsy Hill", words: []string{"gipsy hill"}},
	{name: "Allsopp's Brewery", words: []string{"allsopp"}},
	{name: "Bullfinch Brewery", words: []string{"bullfinch brewer"}},
	{name: "Pearmain", words: []string{"pearmain"}},
	{name: "Moor Beer Company", words: []string{"moor beer"}},
	{name: "Gladwin Brothers", words: []string{"gladwin brother"}},
	{name: "Mondo Brewing", words: []string{"mondo brewing"}},
	{name: "Porterhouse Brewing Co", words: []string{"porterhouse brewing"}},
	{name: "Barworks", words: []string{"barworks"}},
	{name: "Bloomsbury Leisure", words: []string{"bloomsbury leisure"}},
	{name: "Brasserie Blanc", words: []string{"brasserie blanc"}},
	{name: "Electric Star", words: []string{"electric star"}},
	{name: "Enterprise Inns", words: []string{"enterprise inn"}},
	{name: "Loci Pubs", words: []string{"loci pub"}},
	{name: "London School of Economics", words: []string{"lse", "london economics"}},
	{name: "Morton Scott", words: []string{"morton scott"}},
	{name: "Parched Pub Co", words: []string{"parched"}},
	{name: "PubLove", words: []string{"pub love"}},
	{name: "Rarebreed", words: []string{"rarebreed"}},
	{name: "Star Pubs & Bars", words: []string{"star pub"}},
	{name: "True Pub Co", words: []string{"true pub"}},
	{name: "Whitbread", words: []string{"whitbread"}},
	{name: "Wren Pubs", words: []string{"wren pub"}},
	{name: "Independent", words: []string{"independent", "member", "private"}},
}

func (r ownerRule) match(label string) bool {
	lower := strings.ToLower(label)
	for _, entry := range r.words {
		all := true
		for _, w := range strings.Fields(entry) {
			if !strings.Contains(lower, w) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	for _, e := range r.exprs {
		if e.MatchString(label) {
			return true
		}
	}
	return false
}

// StandardizeOwnership maps a free-form operator label onto its master name.
// Unknown labels pass through trimmed; blank labels stay blank.
func StandardizeOwnership(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	for _, r := range ownerRules {
		if r.match(label) {
			return r.name
		}
	}
	return label
}
