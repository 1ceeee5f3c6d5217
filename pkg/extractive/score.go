package extractive

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}'’]+`)

// stopwords are ignored for scoring only; they stay in the rendered text.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "if": {}, "then": {}, "so": {},
	"of": {}, "to": {}, "in": {}, "on": {}, "at": {}, "by": {}, "for": {}, "with": {}, "from": {},
	"as": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"it": {}, "its": {}, "this": {}, "that": {}, "these": {}, "those": {}, "i": {}, "you": {},
	"he": {}, "she": {}, "we": {}, "they": {}, "them": {}, "his": {}, "her": {}, "our": {},
	"your": {}, "their": {}, "will": {},
}

const (
	// rareTokenIDF is the rarity above which a token earns rareTokenBoost.
	rareTokenIDF   = 1.5
	rareTokenBoost = 0.6

	baseWeight   = 0.6
	rarityWeight = 1.4

	diversityWeight  = 0.1
	maxLengthPenalty = 0.35
	leadBoost        = 0.1
	closingBoost     = 0.05
)

type scoredSentence struct {
	sentence      Sentence
	originalIndex int
	score         float64
}

// tokenize lowercases s and returns its non-stopword tokens in order.
func tokenize(s string) []string {
	words := tokenPattern.FindAllString(strings.ToLower(s), -1)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, "'’")
		if w == "" {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// corpusStats holds the document-wide figures every sentence score depends on.
type corpusStats struct {
	frequency    map[string]int
	idf          map[string]float64
	maxFrequency int
	avgTokens    float64
	avgRunes     float64
	total        int
}

func newCorpusStats(sentences []Sentence) corpusStats {
	st := corpusStats{
		frequency: make(map[string]int),
		idf:       make(map[string]float64),
		total:     len(sentences),
	}
	if st.total == 0 {
		return st
	}

	docFreq := make(map[string]int)
	var tokenSum, runeSum int
	for _, s := range sentences {
		seen := make(map[string]struct{}, len(s.tokens))
		for _, t := range s.tokens {
			st.frequency[t]++
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				docFreq[t]++
			}
		}
		tokenSum += len(s.tokens)
		runeSum += runeLen(s.Text)
	}

	for t, f := range st.frequency {
		if f > st.maxFrequency {
			st.maxFrequency = f
		}
		if st.total > 1 {
			st.idf[t] = math.Log(1 + float64(st.total)/float64(1+docFreq[t]))
		} else {
			st.idf[t] = 1
		}
	}

	st.avgTokens = float64(tokenSum) / float64(st.total)
	st.avgRunes = float64(runeSum) / float64(st.total)
	return st
}

// score combines term frequency, rarity, lexical variety, length and
// position into a single relevance value.
func (st corpusStats) score(s Sentence) float64 {
	n := len(s.tokens)
	if n == 0 || st.maxFrequency == 0 {
		return 0
	}

	var base, weight float64
	distinct := make(map[string]struct{}, n)
	for _, t := range s.tokens {
		base += float64(st.frequency[t])
		idf := st.idf[t]
		weight += idf
		if idf > rareTokenIDF {
			weight += idf * rareTokenBoost
		}
		distinct[t] = struct{}{}
	}

	normalized := (base*baseWeight + weight*rarityWeight) / float64(n)
	diversity := 1 + float64(len(distinct))/float64(n)*diversityWeight

	deviation := math.Abs(float64(n)-st.avgTokens) / math.Max(st.avgTokens, 1)
	lengthPenalty := 1 - math.Min(maxLengthPenalty, deviation)

	position := 1 + math.Max(0, leadBoost-float64(s.Index)/float64(st.total))
	if s.Index == st.total-1 {
		position += closingBoost
	}

	return normalized * diversity * lengthPenalty * position
}

// rank scores every sentence and orders them best first. Ties keep document
// order; when nothing scores above zero the document order is returned as is.
func rank(sentences []Sentence, st corpusStats) []scoredSentence {
	ranked := make([]scoredSentence, len(sentences))
	allZero := true
	for i, s := range sentences {
		ranked[i] = scoredSentence{sentence: s, originalIndex: s.Index, score: st.score(s)}
		if ranked[i].score != 0 {
			allZero = false
		}
	}
	if allZero {
		return ranked
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].originalIndex < ranked[j].originalIndex
	})
	return ranked
}
