package contextanalysis

// englishStopWords is the default English stopword set dropped in §4.8
// step 3, ahead of any caller-supplied language-keyword list.
var englishStopWords = []string{
	"a", "about", "above", "after", "again", "all", "am", "an", "and", "any",
	"are", "as", "at", "be", "because", "been", "before", "being", "below",
	"between", "both", "but", "by", "could", "did", "do", "does", "doing",
	"down", "during", "each", "few", "for", "from", "further", "had", "has",
	"have", "having", "he", "her", "here", "hers", "herself", "him",
	"himself", "his", "how", "i", "if", "in", "into", "is", "it", "its",
	"itself", "just", "me", "more", "most", "my", "myself", "no", "nor",
	"not", "now", "of", "off", "on", "once", "only", "or", "other", "our",
	"ours", "ourselves", "out", "over", "own", "same", "she", "should",
	"so", "some", "such", "than", "that", "the", "their", "theirs", "them",
	"themselves", "then", "there", "these", "they", "this", "those",
	"through", "to", "too", "under", "until", "up", "very", "was", "we",
	"were", "what", "when", "where", "which", "while", "who", "whom",
	"why", "will", "with", "would", "you", "your", "yours", "yourself",
	"yourselves",
}

// buildStopWordSet merges the English default with a caller-supplied
// language-keyword stopword list (e.g. reserved words of the language the
// source file is written in, for code-adjacent corpora).
func buildStopWordSet(extra []string) map[string]bool {
	set := make(map[string]bool, len(englishStopWords)+len(extra))
	for _, w := range englishStopWords {
		set[w] = true
	}
	for _, w := range extra {
		set[w] = true
	}
	return set
}
