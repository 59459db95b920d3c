package extractor

import (
	"regexp"
	"strings"
	"unicode"

	"resume-insight-go/internal/corpus"
	"resume-insight-go/internal/types"
)

// Extractor 实体抽取能力
// 读入简历全文，把结果写入ExtractedEntities的对应字段
// 实现必须失败安全：无匹配或内部异常都表现为对应字段为空
type Extractor interface {
	// Field 返回该抽取器负责的字段名，用于日志
	Field() string

	// Extract 执行抽取
	Extract(text string, out *types.ExtractedEntities)
}

// DefaultExtractors 按固定顺序组装全部实体抽取器
func DefaultExtractors(rec Recognizer, c *corpus.Corpus) []Extractor {
	return []Extractor{
		&NameExtractor{},
		&PhoneExtractor{},
		&EmailExtractor{},
		&DegreeExtractor{},
		&GradYearExtractor{rec: rec},
		&LocationExtractor{rec: rec},
		&OrganizationExtractor{rec: rec},
		&UniversityExtractor{rec: rec},
		&CompanyExtractor{rec: rec, companies: c.Companies},
		&DesignationExtractor{rec: rec, titles: c.JobTitles},
	}
}

//
// 姓名
//

// NameExtractor 从文档起始位置提取姓名
// 启发式：取开头连续的一到两个专有名词token；第二个token含标点时视为噪声丢弃
type NameExtractor struct{}

func (e *NameExtractor) Field() string { return "name" }

func (e *NameExtractor) Extract(text string, out *types.ExtractedEntities) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		tokens := strings.Fields(line)
		var run []string
		for _, tok := range tokens {
			if !isProperToken(tok) || len(run) == 2 {
				break
			}
			run = append(run, tok)
		}
		if len(run) == 0 {
			return // 首个非空行不是姓名形态，放弃而不继续向下猜测
		}
		if len(run) == 2 && hasPunct(run[1]) {
			run = run[:1]
		}
		out.Name = run
		return
	}
}

// isProperToken 判断token是否为专有名词形态（首字母大写，其余为字母）
func isProperToken(tok string) bool {
	runes := []rune(tok)
	if len(runes) < 2 || !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

//
// 电话
//

// 北美常见电话格式：可选国家码、可带括号的区号、7位本地号、可选分机
var phonePattern = regexp.MustCompile(
	`(?:\+?(\d{1,3})[-. ]*)?(?:\(\s*(\d{3})\s*\)|(\d{3}))[-. ]*(\d{3})[-. ]*(\d{4})(?:\s*(?:#|x\.?|ext\.?|extension)\s*(\d+))?`)

// PhoneExtractor 提取电话号码
type PhoneExtractor struct{}

func (e *PhoneExtractor) Field() string { return "phone" }

func (e *PhoneExtractor) Extract(text string, out *types.ExtractedEntities) {
	m := phonePattern.FindStringSubmatch(text)
	if m == nil {
		return
	}
	// 拼接所有捕获分组得到纯数字串
	number := strings.Join(m[1:], "")
	if number == "" {
		return
	}
	// 不足11位的短号同样原样返回，不做合法性校验
	out.Phone = number
}

//
// 邮箱
//

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// EmailExtractor 提取全部邮箱地址并去重
type EmailExtractor struct{}

func (e *EmailExtractor) Field() string { return "emails" }

func (e *EmailExtractor) Extract(text string, out *types.ExtractedEntities) {
	out.Emails = dedupe(emailPattern.FindAllString(text, -1))
}

//
// 学历
//

// 固定的学历短语模式，含缩写
var degreePattern = regexp.MustCompile(
	`(?i)\b(bachelor of [a-z]+(?: in [a-z]+(?: [a-z]+)?)?|bachelor degree|bachelor'?s|master of [a-z]+|master degree|master'?s|doctor of [a-z]+|doctorate|mba|phd|bs)\b`)

// DegreeExtractor 提取学历短语
// 匹配后仅保留以 bachelor/master/doctor 开头的条目，纯缩写匹配被该过滤丢弃
type DegreeExtractor struct{}

func (e *DegreeExtractor) Field() string { return "degrees" }

func (e *DegreeExtractor) Extract(text string, out *types.ExtractedEntities) {
	matches := degreePattern.FindAllString(text, -1)
	var valid []string
	for _, m := range matches {
		lower := strings.ToLower(m)
		if strings.HasPrefix(lower, "bachelor") ||
			strings.HasPrefix(lower, "master") ||
			strings.HasPrefix(lower, "doctor") {
			valid = append(valid, m)
		}
	}
	out.Degrees = dedupe(valid)
}

//
// 基于NER的抽取器
//

// GradYearExtractor 收集DATE实体作为毕业年份，不做日期格式校验
type GradYearExtractor struct {
	rec Recognizer
}

func (e *GradYearExtractor) Field() string { return "graduation_years" }

func (e *GradYearExtractor) Extract(text string, out *types.ExtractedEntities) {
	out.GraduationYears = collectByTag(e.rec.Recognize(text), TagDate)
}

// LocationExtractor 收集GPE实体作为地点
type LocationExtractor struct {
	rec Recognizer
}

func (e *LocationExtractor) Field() string { return "locations" }

func (e *LocationExtractor) Extract(text string, out *types.ExtractedEntities) {
	out.Locations = collectByTag(e.rec.Recognize(text), TagGPE)
}

// OrganizationExtractor 收集全部ORG实体
type OrganizationExtractor struct {
	rec Recognizer
}

func (e *OrganizationExtractor) Field() string { return "organizations" }

func (e *OrganizationExtractor) Extract(text string, out *types.ExtractedEntities) {
	out.Organizations = collectByTag(e.rec.Recognize(text), TagOrg)
}

// 院校关键词
var universityKeywords = []string{"institution", "college", "university"}

// UniversityExtractor 收集ORG实体中包含院校关键词的条目
type UniversityExtractor struct {
	rec Recognizer
}

func (e *UniversityExtractor) Field() string { return "universities" }

func (e *UniversityExtractor) Extract(text string, out *types.ExtractedEntities) {
	orgs := collectByTag(e.rec.Recognize(text), TagOrg)
	var unis []string
	for _, org := range orgs {
		lower := strings.ToLower(org)
		for _, kw := range universityKeywords {
			if strings.Contains(lower, kw) {
				unis = append(unis, org)
				break
			}
		}
	}
	out.Universities = unis
}

// CompanyExtractor 收集ORG实体与公司名语料大小写不敏感精确匹配的条目
// 语料为空时结果恒为空（数据缺失的软失败）
type CompanyExtractor struct {
	rec       Recognizer
	companies []string
}

func (e *CompanyExtractor) Field() string { return "companies" }

func (e *CompanyExtractor) Extract(text string, out *types.ExtractedEntities) {
	out.Companies = intersectFold(collectByTag(e.rec.Recognize(text), TagOrg), e.companies)
}

// DesignationExtractor 收集PERSON实体与职位名语料精确匹配的条目
// 用PERSON做职位信号是刻意的代理策略，不是头衔检测器
type DesignationExtractor struct {
	rec    Recognizer
	titles []string
}

func (e *DesignationExtractor) Field() string { return "designations" }

func (e *DesignationExtractor) Extract(text string, out *types.ExtractedEntities) {
	out.Designations = intersectFold(collectByTag(e.rec.Recognize(text), TagPerson), e.titles)
}

//
// 辅助函数
//

// dedupe 保序去重
func dedupe(items []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// intersectFold 返回语料条目中与候选集大小写不敏感精确匹配的部分，保持语料顺序
func intersectFold(candidates, entries []string) []string {
	if len(candidates) == 0 || len(entries) == 0 {
		return nil
	}
	candidateSet := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		candidateSet[strings.ToLower(c)] = struct{}{}
	}
	var out []string
	for _, entry := range entries {
		if _, ok := candidateSet[strings.ToLower(entry)]; ok {
			out = append(out, entry)
		}
	}
	return dedupe(out)
}
