package analyze

import "strings"

// englishStopwords are common English function words excluded from
// keyword extraction.
var englishStopwords = strings.Fields(`
a about above across after afterwards again against all almost alone
along already also although always am among amongst an and another any
anyhow anyone anything anyway anywhere are around as at back be became
because become becomes becoming been before beforehand behind being
below beside besides between beyond both bottom but by call can cannot
could did do does doing done down due during each eg eight either
eleven else elsewhere empty enough etc even ever every everyone
everything everywhere except few fifteen fifty fill find fire first
five for former formerly forty found four from front full further get
give go had has have he hence her here hereafter hereby herein
hereupon hers herself him himself his how however hundred ie if in
inc indeed into is it its itself just keep last latter latterly least
less ltd made many may me meanwhile might mine more moreover most
mostly much must my myself name namely neither never nevertheless new
next nine no nobody none noone nor not nothing now nowhere of off
often on once one only onto or other others otherwise our ours
ourselves out over own part per perhaps please put rather re same see
seem seemed seeming seems serious several she should show side since
six sixty so some somehow someone something sometime sometimes
somewhere still such take ten than that the their them themselves then
thence there thereafter thereby therefore therein thereupon these they
third this those though three through throughout thru thus to together
too top toward towards twelve twenty two un under until up upon us
very via was we well were what whatever when whence whenever where
whereafter whereas whereby wherein whereupon wherever whether which
while whither who whoever whole whom whose why will with within
without would yet you your yours yourself yourselves
`)

// domainStopwords are terms that dominate every AI feed and carry no
// trend signal.
var domainStopwords = []string{
	"ai", "llm", "large", "language", "model", "models", "based",
	"using", "use", "dataset", "data", "paper", "study", "result",
	"results", "method", "methods", "approach", "task", "tasks",
	"abstract", "announced", "announce", "arxiv", "cross",
}

var stopwords = func() map[string]bool {
	sw := make(map[string]bool, len(englishStopwords)+len(domainStopwords))
	for _, w := range englishStopwords {
		sw[w] = true
	}
	for _, w := range domainStopwords {
		sw[w] = true
	}
	return sw
}()
