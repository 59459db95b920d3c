package extractor

import (
	"regexp"
	"strings"
	"unicode"

	"resume-insight-go/internal/corpus"
)

// EntityTag 命名实体类别
type EntityTag string

const (
	// TagPerson 人名（规则实现下是首字母大写的连续词组，作为职位匹配的代理信号）
	TagPerson EntityTag = "PERSON"
	// TagOrg 机构
	TagOrg EntityTag = "ORG"
	// TagGPE 地缘政治实体（城市、国家等）
	TagGPE EntityTag = "GPE"
	// TagDate 日期
	TagDate EntityTag = "DATE"
)

// Entity 一个带类别标注的文本片段
type Entity struct {
	Text string
	Tag  EntityTag
}

// Recognizer 命名实体识别能力
// 输入原始文本，输出零或多个标注片段；实现不得panic，无匹配返回空切片
type Recognizer interface {
	Recognize(text string) []Entity
}

// 机构名尾词，用于规则识别ORG实体
var orgSuffixPattern = regexp.MustCompile(
	`(?m)\b((?:[A-Z][\w&.'-]*\s+){0,5}(?:University|College|Institute|Institution|Academy|Inc\.?|Ltd\.?|LLC|Corp(?:oration)?\.?|Technologies|Solutions|Systems|Labs|Group)(?:\s+of(?:\s+[A-Z][\w&.'-]*)+)?)\b`)

// 四位年份，限定在常见的毕业年份区间
var yearPattern = regexp.MustCompile(`\b(19[5-9]\d|20[0-4]\d)\b`)

// 首字母大写的连续词组（最多三个词），PERSON的规则代理
var properRunPattern = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2})\b`)

// RuleRecognizer 基于规则与词典的命名实体识别器
// DATE用年份正则，ORG用机构尾词，GPE用地名词典，PERSON用专有名词连写启发式
type RuleRecognizer struct {
	locations map[string]string // 小写地名 -> 原始写法
}

// NewRuleRecognizer 用参考语料构建规则识别器
func NewRuleRecognizer(c *corpus.Corpus) *RuleRecognizer {
	locations := make(map[string]string, len(c.Locations))
	for _, loc := range c.Locations {
		locations[strings.ToLower(loc)] = loc
	}
	return &RuleRecognizer{locations: locations}
}

// Recognize 实现Recognizer接口
func (r *RuleRecognizer) Recognize(text string) []Entity {
	var entities []Entity

	for _, m := range yearPattern.FindAllString(text, -1) {
		entities = append(entities, Entity{Text: m, Tag: TagDate})
	}

	for _, m := range orgSuffixPattern.FindAllString(text, -1) {
		entities = append(entities, Entity{Text: strings.TrimSpace(m), Tag: TagOrg})
	}

	for _, m := range properRunPattern.FindAllString(text, -1) {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if original, ok := r.locations[strings.ToLower(m)]; ok {
			entities = append(entities, Entity{Text: original, Tag: TagGPE})
		}
		entities = append(entities, Entity{Text: m, Tag: TagPerson})
	}

	return entities
}

// collectByTag 收集指定类别的实体文本，保持出现顺序并去重
func collectByTag(entities []Entity, tag EntityTag) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, ent := range entities {
		if ent.Tag != tag {
			continue
		}
		if _, ok := seen[ent.Text]; ok {
			continue
		}
		seen[ent.Text] = struct{}{}
		out = append(out, ent.Text)
	}
	return out
}

// hasPunct 判断token中是否含有标点字符
func hasPunct(s string) bool {
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return true
		}
	}
	return false
}
