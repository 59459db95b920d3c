package processor

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"resume-insight-go/internal/cleaner"
	"resume-insight-go/internal/extractor"
	"resume-insight-go/internal/types"
)

// ResumeAnalyzer 简历分析编排器
// 固定的流水线顺序：章节切分 → 实体抽取 → 技能抽取合并 → 技能规范化
// 每个请求独立执行，除只读语料外各阶段不保留跨请求状态
type ResumeAnalyzer struct {
	segmenter  *extractor.Segmenter
	extractors []extractor.Extractor
	skills     *extractor.SkillExtractor
	normalizer cleaner.SkillNormalizer // 可为nil
	logger     zerolog.Logger
}

// AnalyzerOption 分析器的配置选项
type AnalyzerOption func(*ResumeAnalyzer)

// WithSkillNormalizer 设置技能规范化器
func WithSkillNormalizer(n cleaner.SkillNormalizer) AnalyzerOption {
	return func(a *ResumeAnalyzer) { a.normalizer = n }
}

// WithAnalyzerLogger 设置日志记录器
func WithAnalyzerLogger(logger zerolog.Logger) AnalyzerOption {
	return func(a *ResumeAnalyzer) { a.logger = logger }
}

// NewResumeAnalyzer 创建简历分析编排器
func NewResumeAnalyzer(
	segmenter *extractor.Segmenter,
	extractors []extractor.Extractor,
	skills *extractor.SkillExtractor,
	options ...AnalyzerOption,
) *ResumeAnalyzer {
	a := &ResumeAnalyzer{
		segmenter:  segmenter,
		extractors: extractors,
		skills:     skills,
		logger:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// Analyze 对单份简历文本执行完整的抽取流水线
// 实体抽取与技能抽取针对原始文本失败安全；技能规范化失败时回退到原始技能列表
func (a *ResumeAnalyzer) Analyze(ctx context.Context, fileName, resumeText string) (*types.ResumeAnalysis, error) {
	if resumeText == "" {
		return nil, &AnalysisError{Op: "analyze", BaseErr: ErrEmptyResumeText}
	}

	analysis := &types.ResumeAnalysis{FileName: fileName}

	// 1. 章节切分
	analysis.Sections = a.segmenter.Segment(resumeText)

	// 2. 实体抽取：固定顺序逐个运行，单个抽取器的panic只清空自己的字段
	for _, ext := range a.extractors {
		a.runExtractor(ext, resumeText, &analysis.Entities)
	}

	// 3. 技能抽取针对技能章节而非全文
	analysis.Skills = a.skills.ExtractSkills(extractor.SkillsSection(analysis.Sections))
	analysis.RawSkills = sortedKeys(analysis.Skills)

	// 4. 技能规范化
	analysis.CleanedSkills = analysis.RawSkills
	if a.normalizer != nil && len(analysis.RawSkills) > 0 {
		cleaned, err := a.normalizer.Normalize(ctx, analysis.RawSkills)
		if err != nil {
			a.logger.Warn().Err(err).Str("file", fileName).Msg("技能规范化失败，使用原始技能列表")
		} else {
			analysis.CleanedSkills = cleaned
			analysis.Normalized = true
		}
	}

	return analysis, nil
}

// runExtractor 运行单个抽取器并吸收其panic
func (a *ResumeAnalyzer) runExtractor(ext extractor.Extractor, text string, out *types.ExtractedEntities) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn().Interface("panic", r).Str("extractor", ext.Field()).Msg("实体抽取器异常，该字段按空结果处理")
		}
	}()
	ext.Extract(text, out)
}

// sortedKeys 按字典序返回技能映射的键
func sortedKeys(record types.SkillRecord) []string {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
