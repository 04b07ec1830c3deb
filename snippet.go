package ontograph

import (
	"strings"
	"unicode"
)

// snippetMaxLen caps a source snippet at roughly two sentences of treaty prose.
const snippetMaxLen = 300

// extractSnippet picks the sentence from a chunk that best supports the answer,
// extended with an adjacent sentence when it fits. Sentences that carry a legal
// instrument reference cited in the answer (Article 5, Resolution 2417, ...)
// outrank plain word overlap, so the snippet lands on the clause being cited
// rather than surrounding narrative. Returns "" when nothing in the chunk
// relates to the answer.
func extractSnippet(content string, answerWords map[string]bool, answerRefs []string) string {
	if (len(answerWords) == 0 && len(answerRefs) == 0) || content == "" {
		return ""
	}

	sentences := splitSnippetSentences(content)
	if len(sentences) == 0 {
		return ""
	}

	scores := make([]int, len(sentences))
	for i, s := range sentences {
		scores[i] = scoreSnippetSentence(s, answerWords, answerRefs)
	}

	bestIdx := 0
	for i, sc := range scores {
		if sc > scores[bestIdx] {
			bestIdx = i
		}
	}
	if scores[bestIdx] == 0 {
		return ""
	}

	result := sentences[bestIdx]

	// Pull in the stronger neighbor when the combined text still fits. Treaty
	// clauses often state the obligation in one sentence and its scope in the
	// next, and either half alone reads incomplete.
	if len(result) < snippetMaxLen {
		adjIdx, adjScore := -1, 0
		for _, delta := range []int{1, -1} {
			if n := bestIdx + delta; n >= 0 && n < len(sentences) && scores[n] > adjScore {
				adjIdx, adjScore = n, scores[n]
			}
		}
		if adjIdx >= 0 {
			combined := result + " " + sentences[adjIdx]
			if adjIdx < bestIdx {
				combined = sentences[adjIdx] + " " + result
			}
			if len(combined) <= snippetMaxLen {
				result = combined
			}
		}
	}

	return result
}

// instrumentRefWeight makes one cited-instrument hit worth more than several
// incidental word overlaps.
const instrumentRefWeight = 4

func scoreSnippetSentence(sentence string, answerWords map[string]bool, answerRefs []string) int {
	score := 0
	for w := range significantWords(sentence) {
		if answerWords[w] {
			score++
		}
	}
	lower := strings.ToLower(sentence)
	for _, ref := range answerRefs {
		if strings.Contains(lower, ref) {
			score += instrumentRefWeight
		}
	}
	return score
}

// answerInstrumentRefs extracts the legal instrument references cited in the
// answer text, lowercased for matching against chunk sentences. Uses the same
// reference vocabulary as follow-up retrieval, including its false-positive
// filter for prose like "table 3" or "section 2".
func answerInstrumentRefs(answer string) []string {
	seen := make(map[string]bool)
	var refs []string
	for _, p := range answerReferencePatterns {
		for _, m := range p.FindAllString(answer, -1) {
			key := strings.ToLower(strings.TrimSpace(m))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			if isFalsePositiveReference(answer, m) {
				continue
			}
			refs = append(refs, key)
		}
	}
	return refs
}

// significantWords lowercases text and keeps words of 4+ characters that are
// not stop words. Short tokens like "UN" or "EU" are deliberately dropped;
// they match too many sentences to discriminate.
func significantWords(text string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(w) >= 4 && !snippetStopWords[w] {
			words[w] = true
		}
	}
	return words
}

// splitSnippetSentences is a cheap sentence splitter: terminal punctuation
// followed by whitespace or end of text. Abbreviations like "Art. 5" will
// over-split, which costs a slightly shorter snippet, not a wrong one.
func splitSnippetSentences(text string) []string {
	var sentences []string
	var cur strings.Builder

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			sentences = append(sentences, s)
		}
		cur.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		cur.WriteRune(r)
		if r != '.' && r != '?' && r != '!' {
			continue
		}
		if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t' {
			flush()
		}
	}
	flush()
	return sentences
}

// snippetStopWords are high-frequency words excluded from overlap scoring.
var snippetStopWords = map[string]bool{
	"that": true, "this": true, "with": true, "from": true,
	"have": true, "been": true, "were": true, "they": true,
	"their": true, "will": true, "would": true, "could": true,
	"should": true, "about": true, "which": true, "there": true,
	"these": true, "those": true, "then": true, "than": true,
	"them": true, "what": true, "when": true, "where": true,
	"your": true, "more": true, "some": true, "such": true,
	"only": true, "also": true, "very": true, "just": true,
	"into": true, "over": true, "each": true, "does": true,
	"most": true, "after": true, "before": true, "other": true,
	"being": true, "same": true, "both": true, "between": true,
	"shall": true, "under": true, "pursuant": true, "hereby": true,
}
