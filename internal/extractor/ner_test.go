package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleRecognizer(t *testing.T) {
	rec := NewRuleRecognizer(testCorpus())
	entities := rec.Recognize("Jane Doe graduated from Stanford University in 2018 and moved to Bangalore.")

	assert.Contains(t, entities, Entity{Text: "2018", Tag: TagDate}, "四位年份应识别为DATE")
	assert.Contains(t, entities, Entity{Text: "Stanford University", Tag: TagOrg}, "机构尾词应识别为ORG")
	assert.Contains(t, entities, Entity{Text: "Bangalore", Tag: TagGPE}, "词典内的地名应识别为GPE")
	assert.Contains(t, entities, Entity{Text: "Jane Doe", Tag: TagPerson}, "专有名词连写应识别为PERSON")
}

func TestRuleRecognizerYearRange(t *testing.T) {
	rec := NewRuleRecognizer(testCorpus())

	// 1857不在毕业年份区间内，不应识别为DATE
	entities := rec.Recognize("Founded in 1857, class of 2020.")
	assert.NotContains(t, entities, Entity{Text: "1857", Tag: TagDate})
	assert.Contains(t, entities, Entity{Text: "2020", Tag: TagDate})
}

func TestRuleRecognizerEmptyText(t *testing.T) {
	rec := NewRuleRecognizer(testCorpus())
	assert.Empty(t, rec.Recognize(""), "空文本应返回空实体列表")
}

func TestCollectByTag(t *testing.T) {
	entities := []Entity{
		{Text: "2018", Tag: TagDate},
		{Text: "Google Inc", Tag: TagOrg},
		{Text: "2018", Tag: TagDate},
		{Text: "2020", Tag: TagDate},
	}
	assert.Equal(t, []string{"2018", "2020"}, collectByTag(entities, TagDate),
		"应去重并保持首次出现顺序")
}
