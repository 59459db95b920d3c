package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-insight-go/internal/corpus"
	"resume-insight-go/internal/types"
)

func testCorpus() *corpus.Corpus {
	return &corpus.Corpus{
		Skills:    []string{"python", "sql", "excel"},
		Companies: []string{"Google Inc", "Infosys Ltd"},
		JobTitles: []string{"Data Analyst", "Software Engineer"},
		Locations: []string{"New York", "Bangalore"},
	}
}

func TestNameExtractor(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "开头两个专有名词",
			text: "John Smith\nSoftware engineer",
			want: []string{"John", "Smith"},
		},
		{
			name: "只有一个专有名词",
			text: "Alice\nworked at a startup",
			want: []string{"Alice"},
		},
		{
			name: "首行不是姓名形态时放弃",
			text: "resume of someone\nJohn Smith",
			want: nil,
		},
		{
			name: "跳过开头空行",
			text: "\n\nJane Doe\n",
			want: []string{"Jane", "Doe"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out types.ExtractedEntities
			(&NameExtractor{}).Extract(tt.text, &out)
			assert.Equal(t, tt.want, out.Name)
		})
	}
}

func TestPhoneExtractor(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "连字符格式",
			text: "Call me at 555-123-4567 anytime",
			want: "5551234567",
		},
		{
			name: "带国家码和括号区号",
			text: "Phone: +1 (555) 123-4567",
			want: "15551234567",
		},
		{
			name: "带分机号",
			text: "Office 555-123-4567 ext 89",
			want: "555123456789",
		},
		{
			name: "没有电话",
			text: "no digits that look like a phone",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out types.ExtractedEntities
			(&PhoneExtractor{}).Extract(tt.text, &out)
			assert.Equal(t, tt.want, out.Phone, "电话号码应拼接为纯数字串")
		})
	}
}

func TestEmailExtractor(t *testing.T) {
	var out types.ExtractedEntities
	(&EmailExtractor{}).Extract(
		"Contact: john@example.com or john@example.com, backup jane.doe@corp.io", &out)
	assert.Equal(t, []string{"john@example.com", "jane.doe@corp.io"}, out.Emails,
		"重复邮箱应去重并保持出现顺序")
}

func TestDegreeExtractor(t *testing.T) {
	var out types.ExtractedEntities
	(&DegreeExtractor{}).Extract(
		"Holds an MBA and a Bachelor of Science in Computer Science, also Master of Engineering.", &out)

	// 纯缩写(MBA)被前缀过滤丢弃，完整短语保留
	assert.Equal(t, []string{"Bachelor of Science in Computer Science", "Master of Engineering"}, out.Degrees)
}

func TestUniversityExtractor(t *testing.T) {
	rec := NewRuleRecognizer(testCorpus())
	var out types.ExtractedEntities
	(&UniversityExtractor{rec: rec}).Extract(
		"Studied at Stanford University, then joined Acme Technologies.", &out)

	assert.Equal(t, []string{"Stanford University"}, out.Universities,
		"只有包含院校关键词的ORG实体应被保留")
}

func TestCompanyExtractor(t *testing.T) {
	c := testCorpus()
	rec := NewRuleRecognizer(c)
	var out types.ExtractedEntities
	(&CompanyExtractor{rec: rec, companies: c.Companies}).Extract(
		"Worked at Google Inc and later at Unknown Labs.", &out)

	assert.Equal(t, []string{"Google Inc"}, out.Companies,
		"只有命中公司语料的ORG实体应被保留")
}

func TestCompanyExtractorEmptyCorpus(t *testing.T) {
	rec := NewRuleRecognizer(testCorpus())
	var out types.ExtractedEntities
	(&CompanyExtractor{rec: rec, companies: nil}).Extract("Worked at Google Inc.", &out)
	assert.Empty(t, out.Companies, "公司语料为空时结果应恒为空")
}

func TestDesignationExtractor(t *testing.T) {
	c := testCorpus()
	rec := NewRuleRecognizer(c)
	var out types.ExtractedEntities
	(&DesignationExtractor{rec: rec, titles: c.JobTitles}).Extract(
		"Worked as Data Analyst in a fintech team.", &out)

	assert.Equal(t, []string{"Data Analyst"}, out.Designations)
}

func TestGradYearExtractor(t *testing.T) {
	rec := NewRuleRecognizer(testCorpus())
	var out types.ExtractedEntities
	(&GradYearExtractor{rec: rec}).Extract("Graduated in 2018, second degree 2021.", &out)
	assert.Equal(t, []string{"2018", "2021"}, out.GraduationYears)
}

func TestLocationExtractor(t *testing.T) {
	rec := NewRuleRecognizer(testCorpus())
	var out types.ExtractedEntities
	(&LocationExtractor{rec: rec}).Extract("Based in New York, open to relocation.", &out)
	assert.Equal(t, []string{"New York"}, out.Locations)
}
