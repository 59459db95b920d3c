package extractor

import (
	"strings"
	"unicode"

	"resume-insight-go/internal/corpus"
	"resume-insight-go/internal/types"
)

// OntologyMatch 技能本体匹配器给出的一条匹配
type OntologyMatch struct {
	Skill string  // 匹配到的技能文本
	Score float64 // 置信度 [0,1]，完整短语匹配为1.0，n-gram部分匹配低于1.0
}

// OntologyMatcher 技能本体匹配能力（策略A）
// 本体不可用时实现应返回空结果而不是错误，策略A不产出不算失败
type OntologyMatcher interface {
	Match(text string) []OntologyMatch
}

// SkillExtractor 技能抽取器
// 两种独立策略各自运行后合并：
//
//	策略A：本体短语匹配，带置信度
//	策略B：技能语料子串匹配，固定置信度1.0
//
// 同一技能键出现在两侧时保留较大的分数
type SkillExtractor struct {
	ontology OntologyMatcher // 可为nil
	skills   []string        // 扁平技能语料
}

// NewSkillExtractor 创建技能抽取器；ontology传nil表示仅用语料匹配
func NewSkillExtractor(ontology OntologyMatcher, c *corpus.Corpus) *SkillExtractor {
	return &SkillExtractor{ontology: ontology, skills: c.Skills}
}

// ExtractSkills 从技能章节文本中抽取技能与置信度
// 结果是映射而非有序列表，需要顺序的调用方自行排序
func (e *SkillExtractor) ExtractSkills(sectionText string) types.SkillRecord {
	record := make(types.SkillRecord)
	if strings.TrimSpace(sectionText) == "" {
		return record
	}

	// 策略A：本体匹配
	if e.ontology != nil {
		for _, m := range e.ontology.Match(sectionText) {
			mergeSkill(record, m.Skill, m.Score)
		}
	}

	// 策略B：语料子串匹配
	cleaned := cleanString(sectionText)
	for _, skill := range e.skills {
		key := cleanString(skill)
		if key == "" {
			continue
		}
		if strings.Contains(cleaned, key) {
			mergeSkill(record, skill, 1.0)
		}
	}

	return record
}

// mergeSkill 按小写去空白的键写入，冲突时保留最大分
func mergeSkill(record types.SkillRecord, skill string, score float64) {
	key := strings.ToLower(strings.TrimSpace(skill))
	if key == "" {
		return
	}
	if prev, ok := record[key]; !ok || score > prev {
		record[key] = score
	}
}

// cleanString 去除标点并转小写，使两侧比较对大小写和标点不敏感
func cleanString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPunct(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
