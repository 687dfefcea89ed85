package config

// Default query sets for the two search modes. Basic keywords cast a wide net
// and rely on downstream relevance filtering; dorks target one category each
// and skip filtering entirely.
var defaultBasicKeywords = []string{
	"cybersecurity breach",
	"ransomware attack",
	"data breach disclosed",
	"cybersecurity funding round",
	"security vulnerability exploited",
}

var defaultDorkOrder = []string{
	"APTs & Cyber-Espionage",
	"Arrests & Cybercrime",
	"Breaches & Incidents",
	"Cybersecurity IPOs",
	"Cybersecurity Funding",
	"Cybersecurity M&A",
}

var defaultGoogleDorks = map[string]string{
	"APTs & Cyber-Espionage": `("APT" OR "advanced persistent threat" OR "cyber espionage" OR "nation-state hackers") ("campaign" OR "attributed" OR "targeting")`,
	"Arrests & Cybercrime":   `("hacker arrested" OR "cybercriminal charged" OR "ransomware gang" OR "indicted") ("FBI" OR "Europol" OR "law enforcement")`,
	"Breaches & Incidents":   `("data breach" OR "ransomware attack" OR "security incident" OR "hacked") ("confirmed" OR "disclosed" OR "investigating")`,
	"Cybersecurity IPOs":     `("cybersecurity" OR "security company") ("IPO" OR "initial public offering" OR "goes public" OR "public listing")`,
	"Cybersecurity Funding":  `("cybersecurity startup" OR "security company") ("raises" OR "funding round" OR "Series A" OR "Series B" OR "Series C" OR "seed round")`,
	"Cybersecurity M&A":      `("cybersecurity" OR "security company") ("acquires" OR "acquisition" OR "merger" OR "to acquire" OR "buys")`,
}

// Keyword weights used by the relevance scorer in basic-keywords mode. Each
// case-insensitive substring hit adds one point.
var defaultRelevanceKeywords = []string{
	"breach",
	"ransomware",
	"malware",
	"vulnerability",
	"exploit",
	"zero-day",
	"phishing",
	"hacker",
	"cyberattack",
	"cybersecurity",
	"data leak",
	"threat actor",
	"security flaw",
	"patch",
	"CVE",
	"espionage",
	"botnet",
	"DDoS",
	"infostealer",
	"credential",
}
