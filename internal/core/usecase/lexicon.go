package usecase

import "github.com/bellaajmohsen7/sofiene/internal/core/domain"

// Per-language lexicons driving typo correction, synonym expansion, intent
// labelling and the hand heuristic. Kept as data so rule-set revisions stay
// data diffs.

// typoVariants maps a canonical term to its known misspellings. A query token
// close enough to any variant is rewritten to the canonical term.
var typoVariants = map[domain.Language]map[string][]string{
	domain.LanguageFrench: {
		"belote":         {"belote", "belotte", "b3lote", "belot"},
		"rebelote":       {"rebelote", "rebelotte", "r3belote", "rebelot"},
		"recommandation": {"recommandation", "recomandation", "recomendation"},
		"officiel":       {"officiel", "oficiel", "officielle"},
		"annoncer":       {"annoncer", "anoncer", "annonser"},
		"atout":          {"atout", "atouts", "attout", "atou"},
		"points":         {"points", "point", "pts", "pt"},
	},
	domain.LanguageEnglish: {
		"belote":         {"belote", "belotte", "b3lote", "belot"},
		"rebelote":       {"rebelote", "rebelotte", "r3belote", "rebelot"},
		"recommendation": {"recommendation", "recomendation", "reccomendation"},
		"official":       {"official", "oficial", "officiel"},
		"announce":       {"announce", "anounce", "annoncer"},
		"trump":          {"trump", "trumps", "tromp", "trum"},
		"points":         {"points", "point", "pts", "pt"},
	},
}

// synonyms maps a canonical term to alternatives appended to the query to
// widen semantic recall. At most two per term are used.
var synonyms = map[domain.Language]map[string][]string{
	domain.LanguageFrench: {
		"annoncer":       {"dire", "déclarer", "proclamer", "énoncer", "contrat"},
		"recommandation": {"conseil", "suggestion", "avis", "guidance", "indication"},
		"règle":          {"loi", "principe", "norme", "règlement", "directive"},
		"officiel":       {"authentique", "légal", "valide", "réglementaire", "formel"},
		"atout":          {"trump", "triomphe", "carte-maître"},
		"belote":         {"roi-dame", "bonus"},
		"points":         {"score", "résultat"},
		"main":           {"cartes", "jeu", "distribution"},
		"équipe":         {"partenaire", "binôme", "duo", "team"},
		"contrat":        {"engagement", "bid", "annonce"},
		"capot":          {"tous-plis", "clean", "sweep"},
	},
	domain.LanguageEnglish: {
		"announce":       {"say", "declare", "proclaim", "state", "contract"},
		"recommendation": {"advice", "suggestion", "guidance", "tip", "counsel"},
		"rule":           {"law", "principle", "norm", "regulation", "directive"},
		"official":       {"authentic", "legal", "valid", "regulatory", "formal"},
		"trump":          {"atout", "triomphe", "master-card"},
		"belote":         {"king-queen", "bonus"},
		"points":         {"score", "result"},
		"hand":           {"cards", "game", "distribution"},
		"team":           {"partner", "pair", "duo", "équipe"},
		"contract":       {"announcement", "engagement", "bid"},
		"capot":          {"all-tricks", "clean", "sweep"},
	},
}

// Intent labels, ordered by fallback priority.
const (
	intentBeloteRebelote = "belote_rebelote"
	intentHandEvaluation = "hand_evaluation"
	intentCapot          = "capot"
	intentAnnouncements  = "announcements"
	intentScoring        = "scoring"
	intentCards          = "cards"
	intentCoinche        = "coinche"
	intentStrategy       = "strategy"
	intentBasic          = "basic"
	intentGeneral        = "general"
)

// intentPriority is the order intent cues are checked when deriving a
// fallback label.
var intentPriority = []string{
	intentBeloteRebelote,
	intentHandEvaluation,
	intentCapot,
	intentAnnouncements,
	intentScoring,
	intentCards,
	intentCoinche,
	intentStrategy,
	intentBasic,
}

// intentCues are regular expressions matched against the normalized query.
var intentCues = map[domain.Language]map[string][]string{
	domain.LanguageFrench: {
		intentBeloteRebelote: {`belote`, `rebelote`, `roi.*dame`, `bonus.*20`},
		intentHandEvaluation: {`j'ai`, `j ai`, `main`, `que.*annoncer`, `évaluer`, `analyser`},
		intentCapot:          {`capot`, `tous.*plis`, `250`},
		intentAnnouncements:  {`recommandation`, `annoncer`, `contrat`, `90`, `100`, `110`, `120`, `130`, `140`},
		intentScoring:        {`point`, `score`, `calcul`, `comptage`},
		intentCards:          {`carte`, `valeur`, `atout`, `couleur`},
		intentCoinche:        {`coinche`, `surcoinche`, `multiplicateur`},
		intentStrategy:       {`stratégie`, `conseil`, `astuce`, `tactique`},
		intentBasic:          {`règle`, `base`, `comment`, `début`, `jeu`},
	},
	domain.LanguageEnglish: {
		intentBeloteRebelote: {`belote`, `rebelote`, `king.*queen`, `bonus.*20`},
		intentHandEvaluation: {`i have`, `hand`, `what.*announce`, `evaluate`, `analyze`},
		intentCapot:          {`capot`, `all.*tricks`, `250`},
		intentAnnouncements:  {`recommendation`, `announce`, `contract`, `90`, `100`, `110`, `120`, `130`, `140`},
		intentScoring:        {`point`, `score`, `calculate`, `counting`},
		intentCards:          {`card`, `value`, `trump`, `color`},
		intentCoinche:        {`coinche`, `surcoinche`, `multiplier`},
		intentStrategy:       {`strategy`, `advice`, `tip`, `tactic`},
		intentBasic:          {`rule`, `basic`, `how`, `start`, `game`},
	},
}

// Hand-description token families. Single letters are deliberately excluded:
// tokenizing "j'ai" yields a bare "j" that must not read as a Jack.
var (
	trumpRankTokens = map[string][]string{
		"jack":  {"valet", "jack"},
		"nine":  {"9", "neuf", "nine"},
		"ace":   {"as", "ace", "aces"},
		"ten":   {"10", "dix", "ten"},
		"king":  {"roi", "king"},
		"queen": {"dame", "queen"},
		"eight": {"8", "huit", "eight"},
		"seven": {"7", "sept", "seven"},
	}

	// The four ranks that make a trump run complete.
	completeTrumpRanks = []string{"jack", "nine", "ace", "ten"}

	suitTokens = map[string][]string{
		"spades":   {"pique", "spade", "spades"},
		"hearts":   {"cœur", "coeur", "heart", "hearts"},
		"diamonds": {"carreau", "diamond", "diamonds"},
		"clubs":    {"trèfle", "trefle", "club", "clubs"},
	}
)
