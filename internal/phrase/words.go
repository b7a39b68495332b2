package phrase

import "strings"

// Connector tokens allowed inside a noun phrase but trimmed from its edges.
var allowedConnectors = map[string]bool{
	"OF": true, "FOR": true, "AND": true, "&": true, "IN": true, "ON": true,
	"VS": true, "VERSUS": true, "TO": true, "WITH": true,
}

// Verbs and temporal fillers that rarely carry overlay-worthy meaning.
var commonVerbs = map[string]bool{
	"be": true, "am": true, "is": true, "are": true, "was": true, "were": true,
	"being": true, "been": true, "do": true, "does": true, "did": true, "doing": true,
	"have": true, "has": true, "had": true, "having": true,
	"make": true, "makes": true, "making": true, "made": true,
	"watch": true, "watches": true, "watching": true,
	"interact": true, "interacts": true, "interacting": true,
	"discuss": true, "discusses": true, "discussing": true,
	"explain": true, "explains": true, "explaining": true,
	"stand": true, "stands": true, "standing": true,
	"tell": true, "tells": true, "telling": true,
	"catch": true, "catches": true, "catching": true,
	"let": true, "lets": true, "letting": true,
	"take": true, "takes": true, "taking": true,
	"know": true, "knows": true, "knowing": true,
	"think": true, "thinks": true, "thinking": true,
	"feel": true, "feels": true, "feeling": true,
	"see": true, "sees": true, "seeing": true,
	"talk": true, "talks": true, "talking": true,
	"say": true, "says": true, "saying": true,
	"look": true, "looks": true, "looking": true,
	"get": true, "gets": true, "getting": true,
	"give": true, "gives": true, "giving": true,
	"keep": true, "keeps": true, "keeping": true,
	"want": true, "wants": true, "wanting": true,
	"need": true, "needs": true, "needing": true,
	"allow": true, "allows": true, "allowing": true,
	"may": true, "might": true, "should": true, "could": true, "would": true,
	"will": true, "can": true,
	"now": true, "today": true, "tonight": true, "already": true,
	"maybe": true, "just": true,
}

// Auxiliary verbs filtered by the sanitizer. Narrower than commonVerbs on
// purpose: sanitized display text keeps ordinary action verbs.
var auxVerbs = map[string]bool{
	"be": true, "am": true, "is": true, "are": true, "was": true, "were": true,
	"being": true, "been": true, "do": true, "does": true, "did": true, "doing": true,
	"have": true, "has": true, "had": true, "having": true,
	"will": true, "would": true, "shall": true, "should": true,
	"can": true, "could": true, "may": true, "might": true, "must": true,
	"need": true,
}

var stopWords = map[string]bool{
	"a": true, "about": true, "after": true, "again": true, "against": true,
	"all": true, "an": true, "and": true, "any": true, "are": true, "as": true,
	"at": true, "be": true, "because": true, "been": true, "before": true,
	"being": true, "but": true, "by": true, "did": true, "do": true,
	"does": true, "doing": true, "down": true, "during": true, "each": true,
	"few": true, "for": true, "from": true, "further": true, "had": true,
	"has": true, "have": true, "having": true, "he": true, "her": true,
	"here": true, "hers": true, "herself": true, "him": true, "himself": true,
	"his": true, "how": true, "i": true, "if": true, "in": true, "into": true,
	"is": true, "it": true, "its": true, "itself": true, "just": true,
	"me": true, "more": true, "most": true, "my": true, "myself": true,
	"no": true, "nor": true, "not": true, "now": true, "of": true, "off": true,
	"on": true, "once": true, "only": true, "or": true, "other": true,
	"our": true, "ours": true, "ourselves": true, "out": true, "over": true,
	"own": true, "same": true, "she": true, "should": true, "so": true,
	"some": true, "such": true, "than": true, "that": true, "the": true,
	"their": true, "theirs": true, "them": true, "themselves": true,
	"then": true, "there": true, "these": true, "they": true, "this": true,
	"those": true, "through": true, "to": true, "too": true, "under": true,
	"until": true, "up": true, "very": true, "was": true, "we": true,
	"were": true, "what": true, "when": true, "where": true, "which": true,
	"while": true, "who": true, "whom": true, "why": true, "with": true,
	"would": true, "you": true, "your": true, "yours": true, "yourself": true,
	"yourselves": true,
	"im": true, "ive": true, "hes": true, "shes": true, "youre": true,
	"theyre": true, "weve": true, "thats": true, "theres": true,
	"whats": true, "gonna": true, "wanna": true, "lets": true,
}

// Display-text stopwords used by Sanitize. Broader preposition coverage than
// the keyword stop list, including orphaned contraction pieces.
var displayStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"so": true, "yet": true, "nor": true, "to": true, "of": true, "in": true,
	"on": true, "at": true, "by": true, "for": true, "from": true,
	"with": true, "without": true, "into": true, "onto": true, "about": true,
	"around": true, "over": true, "under": true, "after": true,
	"before": true, "between": true, "among": true, "through": true,
	"during": true, "within": true, "across": true, "against": true,
	"toward": true, "towards": true, "upon": true, "via": true, "this": true,
	"that": true, "these": true, "those": true, "there": true, "here": true,
	"then": true, "than": true, "when": true, "where": true, "while": true,
	"because": true, "since": true, "if": true, "though": true,
	"although": true, "unless": true, "until": true, "very": true,
	"really": true, "just": true, "maybe": true, "perhaps": true,
	"basically": true, "literally": true, "honestly": true,
	"actually": true,
	"quite": true, "rather": true, "some": true, "any": true, "each": true,
	"every": true, "either": true, "neither": true, "both": true,
	"many": true, "much": true, "few": true, "little": true, "more": true,
	"most": true, "less": true, "least": true, "own": true, "same": true,
	"such": true, "i": true, "me": true, "my": true, "mine": true,
	"myself": true, "we": true, "us": true, "our": true, "ours": true,
	"ourselves": true, "you": true, "your": true, "yours": true,
	"yourself": true, "yourselves": true, "he": true, "him": true,
	"his": true, "himself": true, "she": true, "her": true, "hers": true,
	"herself": true, "it": true, "its": true, "itself": true, "they": true,
	"them": true, "their": true, "theirs": true, "themselves": true,
	"who": true, "whom": true, "whose": true, "which": true, "what": true,
	"whatever": true, "whoever": true, "whichever": true, "someone": true,
	"something": true, "anyone": true, "anything": true, "everyone": true,
	"everything": true, "not": true, "no": true, "yes": true, "ok": true,
	"okay": true, "uh": true, "um": true, "hmm": true,
	"ve": true, "re": true, "ll": true, "d": true, "s": true, "m": true,
}

var importantShortTokens = map[string]bool{
	"ai": true, "ms": true, "ebv": true, "cta": true,
}

var fillerWords = map[string]bool{
	"uh": true, "um": true, "uhh": true, "umm": true, "oh": true, "ah": true,
	"er": true, "hmm": true, "huh": true, "yeah": true, "yep": true,
	"nope": true, "okay": true, "ok": true, "alright": true, "ahead": true,
}

var blacklistPhrases = []string{
	"thanks for watching",
	"thank you for watching",
	"see you in the next",
	"see you next",
	"i hope you enjoyed",
	"bye",
	"goodbye",
}

// Uppercased tokens too generic to anchor an overlay on their own.
var genericSkipTokens = map[string]bool{
	"GET": true, "WANT": true, "THINK": true, "GO": true, "COME": true,
	"MAKE": true, "TAKE": true, "DO": true, "DOING": true, "SAY": true,
	"SAYS": true, "SAYING": true, "ASK": true, "ASKING": true, "TRY": true,
	"TRYING": true, "TRIES": true, "SEE": true, "SEES": true, "LOOK": true,
	"LOOKS": true, "LOOKING": true, "NEED": true, "NEEDS": true,
	"JUST": true, "RIGHT": true, "OKAY": true, "OK": true, "WELL": true,
	"FIRST": true, "SECOND": true, "THIRD": true, "ONE": true, "TWO": true,
	"THREE": true, "ANYTHING": true, "ANYONE": true, "ANYBODY": true,
	"EVERYTHING": true, "EVERYONE": true, "THING": true, "THINGS": true,
	"STUFF": true, "AHEAD": true, "GONNA": true, "WANNA": true, "CAN": true,
	"CANT": true, "GOING": true, "KNOW": true, "NEXT": true, "ALWAYS": true,
	"PRETTY": true, "ACTUALLY": true, "DAY": true, "LOT": true, "EVEN": true,
	"MADE": true, "BASICALLY": true, "SAID": true, "DONT": true, "DON": true,
	"DIDNT": true, "AWESOME": true, "AWAY": true, "BACK": true, "LATE": true,
	"BEGINNING": true, "LONG": true, "HAPPY": true, "WINDING": true,
	"HELPED": true, "GROW": true, "CAMERA": true, "PART": true,
	"MESSAGE": true, "MORNING": true, "BALANCED": true, "SIT": true,
	"SLEEP": true, "SOMEHOW": true, "SOMETHING": true, "FEEL": true,
	"FREE": true, "INTERVIEWS": true, "JIM": true, "HOME": true,
	"FACT": true, "HOURS": true, "BUILDING": true, "INDUSTRY": true,
	"SIX": true, "QUESTIONS": true, "SORRY": true, "FINE": true,
	"FORWARD": true, "STARTED": true, "BOTTOM": true, "MIGHT": true,
	"SPARK": true, "SPEND": true, "TIME": true, "REALLY": true, "SURE": true,
	"TOUGH": true, "KIND": true, "LIKE": true, "SCREW": true, "ELSE": true,
	"PICK": true, "WORD": true, "WORDS": true, "MEAN": true, "MEANS": true,
	"MEANT": true, "QUESTION": true, "ANSWER": true, "ASKED": true,
	"SAYED": true, "I": true, "ME": true, "MY": true, "MINE": true,
	"WE": true, "US": true, "OUR": true, "OURS": true, "YOU": true,
	"YOUR": true, "YOURS": true, "HE": true, "HIM": true, "HIS": true,
	"SHE": true, "HER": true, "HERS": true, "THEY": true, "THEM": true,
	"THEIR": true, "THEIRS": true, "HES": true, "SHES": true, "IM": true,
	"IVE": true, "YOURE": true, "THEYRE": true, "WEVE": true, "ITS": true,
	"IT": true, "S": true, "GOT": true, "GIVE": true, "GIVING": true,
	"TAKES": true, "TAKEN": true,
}

var pronounTokens = map[string]bool{
	"I": true, "YOU": true, "WE": true, "THEY": true, "HE": true, "SHE": true,
	"IT": true, "ME": true, "HIM": true, "HER": true, "THEM": true,
	"US": true, "YOUR": true, "OUR": true, "THEIR": true, "MY": true,
	"YOURSELF": true, "OURSELVES": true, "THEMSELVES": true,
}

var adjectiveSuffixes = []string{
	"IVE", "OUS", "FUL", "LESS", "ING", "ED", "ABLE", "IBLE", "ANT", "ENT",
	"LIKE", "ISH", "AL", "ARY", "ERY",
}

// SectionTitleSuffixes decorate section card titles. The suffix is chosen
// by the byte sum of the highlight id so repeated runs pick the same one.
var SectionTitleSuffixes = []string{
	"Overview",
	"Insights",
	"Focus",
	"Spotlight",
	"Framework",
	"Recap",
	"Summary",
}

// IsConnector reports whether a token is an allowed phrase connector.
func IsConnector(token string) bool {
	return allowedConnectors[strings.ToUpper(token)]
}

// IsCommonVerb reports whether a token is in the common verb/filler set.
func IsCommonVerb(token string) bool {
	return commonVerbs[strings.ToLower(token)]
}

// IsBlacklisted reports whether lowered text contains an outro phrase that
// should never become a highlight.
func IsBlacklisted(textLower string) bool {
	for _, p := range blacklistPhrases {
		if strings.Contains(textLower, p) {
			return true
		}
	}
	return false
}
