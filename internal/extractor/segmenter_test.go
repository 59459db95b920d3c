package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-insight-go/internal/types"
)

func TestSegmenterSegment(t *testing.T) {
	segmenter, err := NewSegmenter()
	require.NoError(t, err, "创建章节切分器不应返回错误")

	text := "John Smith\nSoftware engineer with five years of backend work.\n" +
		"Education\nBS from a state school, graduated 2018.\n" +
		"Skills\nPython, SQL, Docker"

	sections := segmenter.Segment(text)
	require.Len(t, sections, 3, "应切分出3个章节")

	assert.Equal(t, "Summary", sections[0].Label, "首个标题前的内容应落在Summary章节")
	assert.Contains(t, sections[0].Body, "John Smith", "Summary章节应包含开头内容")
	assert.Equal(t, "Education", sections[1].Label)
	assert.Contains(t, sections[1].Body, "graduated 2018")
	assert.Equal(t, "Skills", sections[2].Label)
	assert.Equal(t, "Python, SQL, Docker", sections[2].Body)
}

func TestSegmenterNoHeaders(t *testing.T) {
	segmenter, err := NewSegmenter()
	require.NoError(t, err)

	sections := segmenter.Segment("just a plain paragraph without any headings")
	require.Len(t, sections, 1, "没有标题时整个文档应是单个章节")
	assert.Equal(t, DefaultSectionLabel, sections[0].Label)
	assert.Equal(t, "just a plain paragraph without any headings", sections[0].Body)
}

func TestSegmenterDuplicateHeaders(t *testing.T) {
	segmenter, err := NewSegmenter()
	require.NoError(t, err)

	// 同名标题各自成段，不合并
	text := "intro\nEducation\nfirst degree\nEducation\nsecond degree"
	sections := segmenter.Segment(text)
	require.Len(t, sections, 3)
	assert.Equal(t, "Education", sections[1].Label)
	assert.Equal(t, "first degree", sections[1].Body)
	assert.Equal(t, "Education", sections[2].Label)
	assert.Equal(t, "second degree", sections[2].Body)
}

func TestSegmenterRoundTrip(t *testing.T) {
	segmenter, err := NewSegmenter()
	require.NoError(t, err)

	// 首章节的Summary标签是默认值，不来自原文；其余章节按 标题+正文 顺序还原
	reassemble := func(sections []types.Section) string {
		parts := []string{sections[0].Body}
		for _, sec := range sections[1:] {
			parts = append(parts, sec.Label, sec.Body)
		}
		return strings.Join(parts, "\n")
	}

	text := "John Smith\nbackend engineer with five years of Go.\n" +
		"Education\nBS in CS, 2018.\n" +
		"Work Experience\nACME Corp, platform team.\n" +
		"Skills\nGo, SQL, Docker"
	sections := segmenter.Segment(text)
	require.NotEmpty(t, sections)
	assert.Equal(t, text, reassemble(sections), "按顺序拼接标题与正文应还原原文")

	// 边界处的多余空白在切分时被修剪，归一化空白后仍应还原全文
	normalize := func(s string) string { return strings.Join(strings.Fields(s), " ") }
	padded := "intro text\n\nEducation  \n  degree details\nSkills\n  Go, SQL"
	sections = segmenter.Segment(padded)
	require.NotEmpty(t, sections)
	assert.Equal(t, normalize(padded), normalize(reassemble(sections)), "修剪空白不应丢失任何内容")
}

func TestSkillsSection(t *testing.T) {
	tests := []struct {
		name     string
		sections []types.Section
		want     string
	}{
		{
			name: "单个技能章节",
			sections: []types.Section{
				{Label: "Summary", Body: "engineer"},
				{Label: "Skills", Body: "Python, SQL"},
			},
			want: "Python, SQL",
		},
		{
			name: "多个技能章节以空格连接",
			sections: []types.Section{
				{Label: "Technical Skills", Body: "Python"},
				{Label: "Computer Skills", Body: "Excel"},
			},
			want: "Python Excel",
		},
		{
			name: "没有技能章节",
			sections: []types.Section{
				{Label: "Education", Body: "BS"},
			},
			want: "",
		},
		{
			name: "空正文的技能章节被跳过",
			sections: []types.Section{
				{Label: "Skills", Body: ""},
				{Label: "Skills", Body: "Go"},
			},
			want: "Go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SkillsSection(tt.sections))
		})
	}
}
