package matcher

import (
	"math"
	"strings"
	"unicode"
)

// 英文停用词，分词阶段剔除
var stopWords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {}, "all": {},
	"am": {}, "an": {}, "and": {}, "any": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "because": {}, "been": {}, "before": {}, "being": {}, "below": {},
	"between": {}, "both": {}, "but": {}, "by": {}, "can": {}, "did": {},
	"do": {}, "does": {}, "doing": {}, "down": {}, "during": {}, "each": {},
	"few": {}, "for": {}, "from": {}, "further": {}, "had": {}, "has": {},
	"have": {}, "having": {}, "he": {}, "her": {}, "here": {}, "hers": {},
	"him": {}, "his": {}, "how": {}, "i": {}, "if": {}, "in": {}, "into": {},
	"is": {}, "it": {}, "its": {}, "just": {}, "me": {}, "more": {}, "most": {},
	"my": {}, "no": {}, "nor": {}, "not": {}, "now": {}, "of": {}, "off": {},
	"on": {}, "once": {}, "only": {}, "or": {}, "other": {}, "our": {},
	"ours": {}, "out": {}, "over": {}, "own": {}, "same": {}, "she": {},
	"should": {}, "so": {}, "some": {}, "such": {}, "than": {}, "that": {},
	"the": {}, "their": {}, "theirs": {}, "them": {}, "then": {}, "there": {},
	"these": {}, "they": {}, "this": {}, "those": {}, "through": {}, "to": {},
	"too": {}, "under": {}, "until": {}, "up": {}, "very": {}, "was": {},
	"we": {}, "were": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"while": {}, "who": {}, "whom": {}, "why": {}, "will": {}, "with": {},
	"you": {}, "your": {}, "yours": {},
}

// tokenize 小写化、去标点、按空白切分并剔除停用词
func tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsPunct(r) {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	var tokens []string
	for _, tok := range strings.Fields(b.String()) {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Vectorizer 在固定文档集上拟合的TF-IDF向量器
// 词表与IDF在拟合后不再变化，进程内并发只读
type Vectorizer struct {
	vocab map[string]int // 词 -> 维度下标
	idf   []float64      // 按维度下标排列的IDF值
}

// FitVectorizer 在文档集上拟合词表和IDF
// IDF使用平滑形式 ln((1+n)/(1+df))+1，向量做L2归一化
func FitVectorizer(docs []string) *Vectorizer {
	vocab := make(map[string]int)
	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(doc) {
			if _, ok := vocab[tok]; !ok {
				vocab[tok] = len(vocab)
			}
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				docFreq[tok]++
			}
		}
	}

	idf := make([]float64, len(vocab))
	n := float64(len(docs))
	for tok, idx := range vocab {
		idf[idx] = math.Log((1+n)/(1+float64(docFreq[tok]))) + 1
	}
	return &Vectorizer{vocab: vocab, idf: idf}
}

// VocabSize 返回词表大小
func (v *Vectorizer) VocabSize() int {
	return len(v.vocab)
}

// Transform 把文档转换为L2归一化的TF-IDF向量
// 词表外的词被忽略；文档中没有任何词表内的词时返回零向量
func (v *Vectorizer) Transform(doc string) []float64 {
	vec := make([]float64, len(v.vocab))
	for _, tok := range tokenize(doc) {
		if idx, ok := v.vocab[tok]; ok {
			vec[idx]++
		}
	}
	var norm float64
	for idx := range vec {
		vec[idx] *= v.idf[idx]
		norm += vec[idx] * vec[idx]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}

// CosineSimilarity 计算两个向量的余弦相似度
// 任一向量为零向量时返回0
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// isZeroVector 判断向量是否全零
func isZeroVector(vec []float64) bool {
	for _, x := range vec {
		if x != 0 {
			return false
		}
	}
	return true
}
