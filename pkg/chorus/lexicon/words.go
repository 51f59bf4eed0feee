package lexicon

// Default table contents. Membership is part of the scoring contract:
// changing a list changes every score derived from it.

var stopWords = []string{
	"a", "an", "the", "and", "or", "but", "if", "then", "else", "when",
	"at", "by", "for", "with", "about", "against", "between", "into", "through", "during",
	"before", "after", "above", "below", "to", "from", "up", "down", "in", "out",
	"on", "off", "over", "under", "again", "further", "once", "here", "there", "where",
	"why", "how", "all", "any", "both", "each", "few", "more", "most", "other",
	"some", "such", "no", "nor", "not", "only", "own", "same", "so", "than",
	"too", "very", "can", "will", "just", "should", "now", "i", "me", "my",
	"we", "our", "you", "your", "he", "him", "his", "she", "her", "it",
	"its", "they", "them", "their", "what", "which", "who", "whom", "this", "that",
	"these", "those", "am", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "do", "does", "did", "would", "could", "of", "also",
	"im", "ive", "dont", "doesnt", "didnt", "cant", "wont", "isnt", "thats", "youre",
}

var positiveWords = []string{
	"good", "great", "awesome", "amazing", "excellent", "love", "loved", "best", "helpful", "useful",
	"nice", "perfect", "fantastic", "wonderful", "easy", "fast", "beautiful", "brilliant", "impressive", "recommend",
	"thanks", "thank", "happy", "enjoy", "cool", "solid", "reliable", "smooth", "clean", "intuitive",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "horrible", "hate", "worst", "broken", "bug", "bugs", "buggy",
	"slow", "crash", "crashes", "annoying", "frustrating", "useless", "difficult", "hard", "confusing", "poor",
	"disappointing", "disappointed", "problem", "problems", "issue", "issues", "fail", "failed", "error", "ugly",
}

var painPointPhrases = []string{
	"problem", "issue", "bug", "broken", "doesn't work", "does not work", "not working",
	"frustrating", "annoying", "hate", "struggle", "pain", "difficult", "hard to",
	"confusing", "slow", "crash",
}

var featureRequestPhrases = []string{
	"wish", "would be nice", "would love", "would be great if", "it would be great",
	"should add", "please add", "feature request", "hope they add", "need a way",
	"could you add", "missing",
}

var questionPhrases = []string{
	"how do i", "how to", "how can", "what is", "why does", "why is",
	"is there", "does anyone", "can someone", "anyone know", "?",
}
