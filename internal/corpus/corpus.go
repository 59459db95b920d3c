package corpus

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// RoleSkills 角色到技能表的一行
type RoleSkills struct {
	Role   string // 角色名，例如 "Data Analyst"
	Skills string // 逗号分隔的技能文本，例如 "python, sql, excel"
}

// Corpus 进程级只读参考语料
// 在进程启动时加载一次，之后所有请求并发只读，无需加锁
type Corpus struct {
	// 扁平技能表（技能子串匹配策略使用）
	Skills []string

	// 公司名列表
	Companies []string

	// 职位名列表
	JobTitles []string

	// 地名列表（规则NER的GPE词典）
	Locations []string

	// 角色→技能表
	Roles []RoleSkills
}

// Config 各语料文件路径
type Config struct {
	SkillsFile    string `yaml:"skills_file"`
	CompaniesFile string `yaml:"companies_file"`
	JobTitlesFile string `yaml:"job_titles_file"`
	LocationsFile string `yaml:"locations_file"`
	RolesFile     string `yaml:"roles_file"`
}

// Load 加载全部语料
// 单个文件缺失或为空是软失败：对应列表为空并记录警告，不中断启动
func Load(cfg Config, logger zerolog.Logger) *Corpus {
	c := &Corpus{
		Skills:    loadLines(cfg.SkillsFile, "skills", logger),
		Companies: loadLines(cfg.CompaniesFile, "companies", logger),
		JobTitles: loadLines(cfg.JobTitlesFile, "job_titles", logger),
		Locations: loadLines(cfg.LocationsFile, "locations", logger),
	}

	roles, err := loadRoles(cfg.RolesFile)
	if err != nil {
		logger.Warn().Err(err).Str("file", cfg.RolesFile).Msg("加载角色技能表失败，差距分析将不可用")
	}
	c.Roles = roles

	logger.Info().
		Int("skills", len(c.Skills)).
		Int("companies", len(c.Companies)).
		Int("job_titles", len(c.JobTitles)).
		Int("locations", len(c.Locations)).
		Int("roles", len(c.Roles)).
		Msg("参考语料加载完成")
	return c
}

// loadLines 读取每行一条的纯文本语料，跳过空行
func loadLines(path, name string, logger zerolog.Logger) []string {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn().Err(err).Str("corpus", name).Str("file", path).Msg("语料文件不可读，按空列表处理")
		return nil
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// loadRoles 读取角色→技能CSV，首行为表头(role,skills)
func loadRoles(path string) ([]RoleSkills, error) {
	if path == "" {
		return nil, fmt.Errorf("未配置角色技能表路径")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开角色技能表失败: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // 技能列内可能含引号包裹的逗号，列数交给下面校验
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("解析角色技能表失败: %w", err)
	}

	var roles []RoleSkills
	for i, rec := range records {
		if i == 0 && len(rec) >= 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "role") {
			continue // 表头
		}
		if len(rec) < 2 {
			continue
		}
		role := strings.TrimSpace(rec[0])
		skills := strings.TrimSpace(rec[1])
		if role == "" || skills == "" {
			continue
		}
		roles = append(roles, RoleSkills{Role: role, Skills: skills})
	}
	return roles, nil
}
