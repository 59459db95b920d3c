package types

// Section 简历中的一个标记章节
// Label 是匹配到的章节标题文本；简历开头未出现任何标题时默认为 "Summary"
type Section struct {
	Label string `json:"label"`
	Body  string `json:"body"`
}

// ExtractedEntities 单份简历的实体抽取结果
// 各字段相互独立，任何一项抽取失败都表现为空值，不影响其他字段
type ExtractedEntities struct {
	// 姓名候选（最多两个连续的专有名词token）
	Name []string `json:"name,omitempty"`

	// 电话号码（拼接匹配分组后的纯数字串）
	Phone string `json:"phone,omitempty"`

	// 邮箱集合（已去重）
	Emails []string `json:"emails,omitempty"`

	// 学历集合（仅保留 bachelor/master/doctor 开头的匹配）
	Degrees []string `json:"degrees,omitempty"`

	// 毕业年份集合（DATE实体，不做日期格式校验）
	GraduationYears []string `json:"graduation_years,omitempty"`

	// 地点集合（GPE实体）
	Locations []string `json:"locations,omitempty"`

	// 机构集合（ORG实体，未过滤）
	Organizations []string `json:"organizations,omitempty"`

	// 院校集合（ORG实体中包含 institution/college/university 关键词的条目）
	Universities []string `json:"universities,omitempty"`

	// 公司集合（ORG实体与公司名语料的精确匹配交集）
	Companies []string `json:"companies,omitempty"`

	// 职位集合（PERSON实体与职位名语料的精确匹配交集）
	Designations []string `json:"designations,omitempty"`
}

// SkillRecord 技能名（小写、去首尾空白）到置信度[0,1]的映射
// 两种抽取策略对同一技能各自给分时保留较大值
type SkillRecord map[string]float64

// CourseLink 单条课程推荐
type CourseLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// GapResult 技能差距分析结果
type GapResult struct {
	// 与岗位描述最相似的已知角色
	MatchedRole string `json:"matched_role"`

	// 缺失技能，顺序与角色技能表一致
	MissingSkills []string `json:"missing_skills"`

	// 缺失技能到课程推荐的映射；无结果的技能不出现在映射中
	Recommendations map[string][]CourseLink `json:"recommendations,omitempty"`
}

// ScoreReport 六项整体评分（百分比数值）
type ScoreReport struct {
	ATS           int `json:"ats_score"`
	Readability   int `json:"readability_score"`
	Grammar       int `json:"grammar_score"`
	Keywords      int `json:"keyword_score"`
	Experience    int `json:"experience_score"`
	Customization int `json:"customization_score"`
}

// ResumeAnalysis 一次简历分析请求的完整结构化结果
type ResumeAnalysis struct {
	FileName string            `json:"file_name"`
	Sections []Section         `json:"sections"`
	Entities ExtractedEntities `json:"entities"`

	// 合并后的技能与置信度
	Skills SkillRecord `json:"skills"`

	// Skills 的键按字典序排序后的列表
	RawSkills []string `json:"raw_skills"`

	// 规范化后的技能；规范化不可用时回退为 RawSkills
	CleanedSkills []string `json:"cleaned_skills"`

	// 规范化是否成功
	Normalized bool `json:"normalized"`
}
