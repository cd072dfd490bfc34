package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
)

// Canned response content: per-level recommendation and condition texts, the
// hand-analysis template, expert tips and intent-specific fallbacks. All of
// it is presentation data for the pattern matcher and composer.

func recommendationText(points int, lang domain.Language) string {
	fr := map[int]string{
		90: `**📢 Recommandation officielle pour 90 points**

**Critère obligatoire:** 2 As minimum

**Configuration requise:**
• Main relativement faible mais jouable
• Au moins 2 As dans votre jeu
• Stratégie défensive acceptable

**Note Sofiene:** Annonce sûre avec cette configuration minimale.`,
		100: `**📢 Recommandation officielle pour 100 points**

**Critère officiel:** "Généralement comme tu veux"

**Configuration requise:**
• Flexibilité maximale dans la composition
• Main équilibrée recommandée
• Quelques atouts appréciés

**Note Sofiene:** Annonce flexible, idéale pour s'adapter au jeu.`,
		110: `**📢 Recommandation officielle pour 110 points**

**CRITÈRE OBLIGATOIRE:** Atouts Complets

**Configuration strictement requise:**
• Être sûr de collecter toutes les cartes d'atout dès le début
• **Option 1:** (Valet, 9, As, 10) ou plus
• **Option 2:** (Valet, 9, As, 2+ autres cartes d'atout)

**⚠️ Attention:** Sans atouts complets, échec quasi-certain!`,
		120: `**📢 Recommandation officielle pour 120 points**

**CRITÈRE OBLIGATOIRE:** Maximum 3 couleurs + Atouts Complets

**Configuration strictement requise:**
• Seulement 3 couleurs dans votre main
• Plus atouts complets d'une de ces couleurs

**Cas particulier autorisé:**
• 6 cartes d'atout (dont Valet + 9) + 2 autres cartes de couleurs différentes

**Note Sofiene:** Respectez strictement la limite de 3 couleurs!`,
		130: `**📢 Recommandation officielle pour 130 points**

**CRITÈRE OBLIGATOIRE:** Maximum 2 couleurs + Atouts Complets

**Configuration strictement requise:**
• Seulement 2 couleurs dans votre main
• Plus atouts complets d'une de ces couleurs

**Cas particulier autorisé:**
• 6 cartes d'atout (dont Valet + 9) + 2 cartes même couleur ≠ atout

**Note Sofiene:** Configuration très restrictive, soyez certain!`,
		140: `**📢 Recommandation officielle pour 140 points**

**CRITÈRE EXTRÊME:** L'adversaire ne peut avoir qu'un seul pli maximum

**Configuration exceptionnelle requise:**
• Main quasi-parfaite obligatoire
• Domination totale du jeu

**⚠️ TRÈS RISQUÉ**
Réservé aux mains extraordinaires uniquement!`,
	}
	en := map[int]string{
		90: `**📢 Official recommendation for 90 points**

**Mandatory criterion:** Minimum 2 Aces

**Required configuration:**
• Relatively weak but playable hand
• At least 2 Aces in your game
• Defensive strategy acceptable

**Sofiene note:** Safe announcement with this minimal configuration.`,
		100: `**📢 Official recommendation for 100 points**

**Official criterion:** "Generally as you wish"

**Required configuration:**
• Maximum flexibility in composition
• Balanced hand recommended
• Some trumps appreciated

**Sofiene note:** Flexible announcement, ideal for adapting to game.`,
		110: `**📢 Official recommendation for 110 points**

**MANDATORY CRITERION:** Complete Trumps

**Strictly required configuration:**
• Must be sure to collect all trump cards from start
• **Option 1:** (Jack, 9, Ace, 10) or more
• **Option 2:** (Jack, 9, Ace, 2+ other trump cards)

**⚠️ Warning:** Without complete trumps, almost certain failure!`,
		120: `**📢 Official recommendation for 120 points**

**MANDATORY CRITERION:** Maximum 3 colors + Complete Trumps

**Strictly required configuration:**
• Only 3 colors in your hand
• Plus complete trumps of one of these colors

**Authorized special case:**
• 6 trump cards (including Jack + 9) + 2 other cards of different colors

**Sofiene note:** Strictly respect the 3-color limit!`,
		130: `**📢 Official recommendation for 130 points**

**MANDATORY CRITERION:** Maximum 2 colors + Complete Trumps

**Strictly required configuration:**
• Only 2 colors in your hand
• Plus complete trumps of one of these colors

**Authorized special case:**
• 6 trump cards (including Jack + 9) + 2 cards same color ≠ trump

**Sofiene note:** Very restrictive configuration, be certain!`,
		140: `**📢 Official recommendation for 140 points**

**EXTREME CRITERION:** Opponent can have maximum one trick

**Exceptional configuration required:**
• Near-perfect hand mandatory
• Total game domination

**⚠️ VERY RISKY**
Reserved for extraordinary hands only!`,
	}
	table := fr
	fallback := "Aucune recommandation pour %d points."
	if lang.Normalize() == domain.LanguageEnglish {
		table = en
		fallback = "No recommendation for %d points."
	}
	if text, ok := table[points]; ok {
		return text
	}
	return fmt.Sprintf(fallback, points)
}

func conditionsText(points int, lang domain.Language) string {
	fr := map[int]string{
		90:  "**Quand annoncer 90 points:**\n• Avec au moins 2 As\n• Main faible mais jouable\n• Stratégie défensive",
		100: "**Quand annoncer 100 points:**\n• \"Généralement comme tu veux\"\n• Main équilibrée\n• Flexibilité maximale",
		110: "**Quand annoncer 110 points:**\n• SEULEMENT avec atouts complets\n• (V-9-A-10) minimum requis\n• Confiance totale de collecter atouts",
		120: "**Quand annoncer 120 points:**\n• Maximum 3 couleurs + atouts complets\n• Configuration stricte obligatoire\n• Vérifier critères officiels",
		130: "**Quand annoncer 130 points:**\n• Maximum 2 couleurs + atouts complets\n• Configuration très restrictive\n• Évaluation précise nécessaire",
		140: "**Quand annoncer 140 points:**\n• Main exceptionnelle uniquement\n• Adversaire max 1 pli\n• Risque extrême!",
	}
	en := map[int]string{
		90:  "**When to announce 90 points:**\n• With at least 2 Aces\n• Weak but playable hand\n• Defensive strategy",
		100: "**When to announce 100 points:**\n• \"Generally as you wish\"\n• Balanced hand\n• Maximum flexibility",
		110: "**When to announce 110 points:**\n• ONLY with complete trumps\n• (J-9-A-10) minimum required\n• Total confidence to collect trumps",
		120: "**When to announce 120 points:**\n• Maximum 3 colors + complete trumps\n• Strict configuration mandatory\n• Verify official criteria",
		130: "**When to announce 130 points:**\n• Maximum 2 colors + complete trumps\n• Very restrictive configuration\n• Precise evaluation needed",
		140: "**When to announce 140 points:**\n• Exceptional hand only\n• Opponent max 1 trick\n• Extreme risk!",
	}
	table := fr
	fallback := "Conditions pour %d points non définies."
	if lang.Normalize() == domain.LanguageEnglish {
		table = en
		fallback = "Conditions for %d points not defined."
	}
	if text, ok := table[points]; ok {
		return text
	}
	return fmt.Sprintf(fallback, points)
}

func handAnalysisText(eval domain.HandEvaluation, lang domain.Language) string {
	alternatives := make([]string, 0, len(eval.AlternativeOptions))
	for _, alt := range eval.AlternativeOptions {
		alternatives = append(alternatives, strconv.Itoa(alt))
	}
	if lang.Normalize() == domain.LanguageEnglish {
		return fmt.Sprintf(`**🎯 Sofiene's hand analysis**

**Official recommendation:** %d points
**Confidence level:** %.0f%%

**Analysis:**
%s

**Possible alternatives:** %s points

**Expert advice:** Verify your hand meets official criteria for chosen announcement.`,
			eval.RecommendedAnnouncement, eval.Confidence*100, eval.Reasoning, strings.Join(alternatives, ", "))
	}
	return fmt.Sprintf(`**🎯 Analyse de votre main par Sofiene**

**Recommandation officielle:** %d points
**Niveau de confiance:** %.0f%%

**Analyse:**
%s

**Alternatives possibles:** %s points

**Conseil d'expert:** Vérifiez que votre main respecte les critères officiels pour l'annonce choisie.`,
		eval.RecommendedAnnouncement, eval.Confidence*100, eval.Reasoning, strings.Join(alternatives, ", "))
}

func expertTip(lang domain.Language) string {
	if lang.Normalize() == domain.LanguageEnglish {
		return "\n\n**💡 Sofiene expert tip:**\n• Strictly follow official criteria\n• When in doubt, choose more conservative announcement\n• Carefully observe your opponents' game"
	}
	return "\n\n**💡 Conseil d'expert Sofiene:**\n• Respectez strictement les critères officiels\n• En cas de doute, optez pour une annonce plus conservatrice\n• Observez attentivement le jeu de vos adversaires"
}

func alsoSeeHeader(lang domain.Language) string {
	if lang.Normalize() == domain.LanguageEnglish {
		return "**See also:**"
	}
	return "**Voir aussi:**"
}

func fallbackText(intent string, lang domain.Language) string {
	fr := map[string]string{
		intentBeloteRebelote: "La Belote et Rebelote sont définies par avoir le Roi ET la Dame d'atout chez le même joueur. Annoncez 'Belote' puis 'Rebelote' en jouant ces cartes pour obtenir +20 points à votre équipe.\n\n**Essayez aussi:** 'Comment utiliser belote rebelote' ou 'Bonus belote 20 points'",
		intentHandEvaluation: "Pour évaluer votre main selon les règles officielles, décrivez-moi vos cartes en détail. Par exemple: 'J'ai Valet, 9, As et 10 de carreau plus 4 autres cartes.' Je vous donnerai la recommandation officielle appropriée.\n\n**Exemples:** 'Analyser ma main' ou 'Que annoncer avec 2 As'",
		intentAnnouncements:  "Je peux vous expliquer les recommandations officielles pour chaque niveau d'annonce (90, 100, 110, 120, 130, 140). Quel niveau vous intéresse?\n\n**Essayez:** 'Recommandation 110 points' ou 'Quand annoncer 120'",
		intentScoring:        "Le système de score officiel de la Belote Contrée suit des règles précises. Voulez-vous connaître le calcul des points, le système de contrats, ou les bonus?\n\n**Essayez:** 'Comment calculer points' ou 'Système de score'",
		intentCards:          "Les cartes ont des valeurs officielles différentes à l'atout et hors atout. Voulez-vous connaître les valeurs spécifiques et l'ordre de force?\n\n**Essayez:** 'Valeurs cartes atout' ou 'Ordre force cartes'",
		intentCoinche:        "Le système Coinche officiel multiplie les gains et risques (×1, ×2, ×4). Voulez-vous en savoir plus sur les multiplicateurs?\n\n**Essayez:** 'Règles coinche' ou 'Multiplicateurs contrat'",
		intentStrategy:       "Je peux partager des stratégies officielles et conseils d'expert pour améliorer votre jeu. Quel aspect vous intéresse?\n\n**Essayez:** 'Stratégie annonce' ou 'Conseils expert'",
		intentBasic:          "Je peux expliquer les règles officielles de base de la Belote Contrée. Par quoi voulez-vous commencer?\n\n**Essayez:** 'Règles de base' ou 'Comment jouer'",
		intentCapot:          "Le Capot signifie remporter TOUS les plis (8/8) pour 250 points automatiques. Il peut être annoncé (obligatoire) ou réalisé pendant le jeu.\n\n**Essayez:** 'Règles capot détaillées' ou 'Capot annoncé vs réalisé'",
		intentGeneral:        "Je suis Sofiene, votre expert en Belote Tunisienne Contrée. Je comprends beaucoup de façons de poser des questions!\n\n**Suggestions basées sur votre question:**\n• 'Recommandation pour [90-140] points'\n• 'Comment utiliser belote rebelote'\n• 'Analyser ma main avec [vos cartes]'\n• 'Règles officielles [sujet]'\n\n**Astuce:** Je comprends aussi les fautes de frappe et variations!",
	}
	en := map[string]string{
		intentBeloteRebelote: "Belote and Rebelote are defined by having King AND Queen of trump with the same player. Announce 'Belote' then 'Rebelote' when playing these cards to get +20 points for your team.\n\n**Try also:** 'How to use belote rebelote' or 'Belote bonus 20 points'",
		intentHandEvaluation: "To evaluate your hand according to official rules, describe your cards in detail. For example: 'I have Jack, 9, Ace and 10 of diamonds plus 4 other cards.' I'll give you the appropriate official recommendation.\n\n**Examples:** 'Analyze my hand' or 'What to announce with 2 Aces'",
		intentAnnouncements:  "I can explain official recommendations for each announcement level (90, 100, 110, 120, 130, 140). Which level interests you?\n\n**Try:** 'Recommendation 110 points' or 'When to announce 120'",
		intentScoring:        "The official Belote Contrée scoring system follows precise rules. Would you like to know about point calculation, contract system, or bonuses?\n\n**Try:** 'How to calculate points' or 'Scoring system'",
		intentCards:          "Cards have different official values for trump and non-trump. Would you like to know specific values and strength order?\n\n**Try:** 'Trump card values' or 'Card strength order'",
		intentCoinche:        "The official Coinche system multiplies gains and risks (×1, ×2, ×4). Would you like to know more about multipliers?\n\n**Try:** 'Coinche rules' or 'Contract multipliers'",
		intentStrategy:       "I can share official strategies and expert tips to improve your game. What aspect interests you?\n\n**Try:** 'Announcement strategy' or 'Expert advice'",
		intentBasic:          "I can explain official basic rules of Belote Contrée. Where would you like to start?\n\n**Try:** 'Basic rules' or 'How to play'",
		intentCapot:          "Capot means winning ALL tricks (8/8) for 250 automatic points. It can be announced (mandatory) or achieved during play.\n\n**Try:** 'Detailed capot rules' or 'Announced vs achieved capot'",
		intentGeneral:        "I'm Sofiene, your Tunisian Belote Contrée expert. I understand many ways to ask questions!\n\n**Suggestions based on your question:**\n• 'Recommendation for [90-140] points'\n• 'How to use belote rebelote'\n• 'Analyze my hand with [your cards]'\n• 'Official rules [topic]'\n\n**Tip:** I also understand typos and variations!",
	}
	table := fr
	if lang.Normalize() == domain.LanguageEnglish {
		table = en
	}
	if text, ok := table[intent]; ok {
		return text
	}
	return table[intentGeneral]
}

// QuickSuggestions are the example queries surfaced on the API, one set per
// language.
func QuickSuggestions(lang domain.Language) []string {
	if lang.Normalize() == domain.LanguageEnglish {
		return []string{
			"Recommendation for 120 points",
			"When to use belote rebelote?",
			"Recommendation for 110 points",
			"I have Jack, 9, Ace and 10 diamonds, what should I announce?",
			"Official card values",
			"How to calculate points?",
			"Capot rules",
		}
	}
	return []string{
		"Recommandation pour 120 points",
		"Quand utiliser belote rebelote?",
		"Recommandation pour 110 points",
		"J'ai Valet, 9, As et 10 carreau, que dois-je annoncer?",
		"Valeurs officielles des cartes",
		"Comment calculer les points?",
		"Règles du capot",
	}
}
