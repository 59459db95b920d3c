package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-insight-go/internal/corpus"
	"resume-insight-go/internal/types"
)

// fakeOntology 固定返回预设匹配的本体匹配器
type fakeOntology struct {
	matches []OntologyMatch
}

func (f *fakeOntology) Match(text string) []OntologyMatch {
	return f.matches
}

func TestExtractSkillsCorpusOnly(t *testing.T) {
	c := &corpus.Corpus{Skills: []string{"python", "sql", "machine learning"}}
	e := NewSkillExtractor(nil, c)

	record := e.ExtractSkills("Skills: Python, SQL")
	assert.Equal(t, types.SkillRecord{"python": 1.0, "sql": 1.0}, record,
		"语料匹配的技能应以置信度1.0入选")
}

func TestExtractSkillsCaseAndPunctInsensitive(t *testing.T) {
	c := &corpus.Corpus{Skills: []string{"machine learning", "c++"}}
	e := NewSkillExtractor(nil, c)

	record := e.ExtractSkills("MACHINE-LEARNING enthusiast")
	// 标点剔除后 "machine-learning" 与 "machine learning" 不等价，这里验证的是大小写不敏感
	assert.NotContains(t, record, "c++")
	_, ok := record["machine learning"]
	assert.False(t, ok, "标点被移除后连字符词与空格短语不应误匹配")

	record = e.ExtractSkills("Machine Learning enthusiast")
	assert.Contains(t, record, "machine learning")
}

func TestExtractSkillsMergeKeepsMaxScore(t *testing.T) {
	c := &corpus.Corpus{Skills: []string{"python"}}
	ontology := &fakeOntology{matches: []OntologyMatch{
		{Skill: "Python", Score: 0.6},
		{Skill: "Django", Score: 0.8},
	}}
	e := NewSkillExtractor(ontology, c)

	record := e.ExtractSkills("Python and Django developer")
	assert.Equal(t, 1.0, record["python"], "同一技能两侧都命中时应保留较大分数")
	assert.Equal(t, 0.8, record["django"])
}

func TestExtractSkillsEmptySection(t *testing.T) {
	c := &corpus.Corpus{Skills: []string{"python"}}
	e := NewSkillExtractor(nil, c)

	assert.Empty(t, e.ExtractSkills(""), "空章节应返回空映射")
	assert.Empty(t, e.ExtractSkills("   \n  "), "纯空白章节应返回空映射")
}
