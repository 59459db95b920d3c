package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"resume-insight-go/internal/types"
)

// DefaultSectionLabel 首个章节标题出现前的默认标签
const DefaultSectionLabel = "Summary"

// 默认的章节标题模式，按扫描优先级排列
// 每一项是同义标题的小集合；全部大小写不敏感
var defaultHeaderPatterns = []string{
	`(?i)(Professional Summary|Summary)`,
	`(?i)(Objective|Career Objective)`,
	`(?i)(Education|Academic Background|Academic Qualifications)`,
	`(?i)(PROFESSIONAL EXPERIENCE|Work Experience|Professional Experience|(^|\n)[ \t]*(EXPERIENCE)[ \t]*(\n|$))`,
	`(?i)(Skills|Technical Skill(s|-set)?|Computer Skill(s|-set)?)`,
}

// 技能章节标题的识别模式，用于从分段结果中取回技能章节
var skillsLabelRegex = regexp.MustCompile(`(?i)^(Skills|Technical Skill(s|-set)?|Computer Skill(s|-set)?)`)

// Segmenter 简历章节切分器
// 用一组有序的标题模式扫描全文，每个匹配关闭上一个章节
type Segmenter struct {
	combined *regexp.Regexp
}

// NewSegmenter 创建章节切分器
func NewSegmenter() (*Segmenter, error) {
	combined, err := regexp.Compile(strings.Join(defaultHeaderPatterns, "|"))
	if err != nil {
		return nil, fmt.Errorf("编译章节标题正则失败: %w", err)
	}
	return &Segmenter{combined: combined}, nil
}

// Segment 将简历全文切分为有序章节序列
// 文本中没有任何标题时，整个文档是一个标签为 Summary 的章节
// 重复出现的同名标题各自成段，不合并也不覆盖
func (s *Segmenter) Segment(text string) []types.Section {
	matches := s.combined.FindAllStringIndex(text, -1)

	sections := make([]types.Section, 0, len(matches)+1)
	pos := 0
	label := DefaultSectionLabel
	for _, m := range matches {
		sections = append(sections, types.Section{
			Label: label,
			Body:  strings.TrimSpace(text[pos:m[0]]),
		})
		label = strings.TrimSpace(text[m[0]:m[1]])
		pos = m[1]
	}
	sections = append(sections, types.Section{
		Label: label,
		Body:  strings.TrimSpace(text[pos:]),
	})
	return sections
}

// SkillsSection 取回全部技能章节正文并以空格连接
// 简历中出现多个技能章节时全部保留
func SkillsSection(sections []types.Section) string {
	var parts []string
	for _, sec := range sections {
		if skillsLabelRegex.MatchString(sec.Label) && sec.Body != "" {
			parts = append(parts, sec.Body)
		}
	}
	return strings.Join(parts, " ")
}
