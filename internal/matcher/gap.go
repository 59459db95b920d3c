package matcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"resume-insight-go/internal/cleaner"
	"resume-insight-go/internal/corpus"
	"resume-insight-go/internal/course"
	"resume-insight-go/internal/types"
)

var gapTracer = otel.Tracer("resume-insight-go/matcher")

// 错误taxonomy：差距分析的两类硬失败
var (
	// ErrDataUnavailable 角色技能表缺失或为空，差距分析无法工作
	ErrDataUnavailable = errors.New("角色技能表不可用")

	// ErrInvalidInput 岗位描述为空或在词表上没有任何有效词
	ErrInvalidInput = errors.New("岗位描述无效")
)

// 课程搜索fan-out的默认参数
const (
	defaultCourseWorkers    = 5
	defaultMaxCourseResults = 2
)

// GapMatcher 技能差距匹配器
// 角色技能表与TF-IDF词表在构造时拟合一次，之后并发只读
type GapMatcher struct {
	roles      []corpus.RoleSkills
	vectorizer *Vectorizer
	roleVecs   [][]float64

	normalizer cleaner.SkillNormalizer // 可为nil，缺失技能不做清洗
	searcher   course.Searcher         // 可为nil，不附带课程推荐

	courseWorkers int
	courseTimeout time.Duration
	maxResults    int
	logger        zerolog.Logger
}

// GapMatcherOption 匹配器的配置选项
type GapMatcherOption func(*GapMatcher)

// WithNormalizer 设置缺失技能的规范化器
func WithNormalizer(n cleaner.SkillNormalizer) GapMatcherOption {
	return func(m *GapMatcher) { m.normalizer = n }
}

// WithCourseSearcher 设置课程搜索器
func WithCourseSearcher(s course.Searcher) GapMatcherOption {
	return func(m *GapMatcher) { m.searcher = s }
}

// WithCourseWorkers 设置课程搜索的并发worker数
func WithCourseWorkers(workers int) GapMatcherOption {
	return func(m *GapMatcher) {
		if workers > 0 {
			m.courseWorkers = workers
		}
	}
}

// WithCourseTimeout 设置单个技能课程搜索的超时
func WithCourseTimeout(timeout time.Duration) GapMatcherOption {
	return func(m *GapMatcher) {
		if timeout > 0 {
			m.courseTimeout = timeout
		}
	}
}

// WithMaxCourseResults 设置每个技能的最大课程数
func WithMaxCourseResults(n int) GapMatcherOption {
	return func(m *GapMatcher) {
		if n > 0 {
			m.maxResults = n
		}
	}
}

// WithGapLogger 设置日志记录器
func WithGapLogger(logger zerolog.Logger) GapMatcherOption {
	return func(m *GapMatcher) { m.logger = logger }
}

// NewGapMatcher 创建差距匹配器并在角色技能表上拟合TF-IDF词表
// 角色表为空时返回ErrDataUnavailable
func NewGapMatcher(c *corpus.Corpus, options ...GapMatcherOption) (*GapMatcher, error) {
	if c == nil || len(c.Roles) == 0 {
		return nil, fmt.Errorf("%w: 角色技能表为空", ErrDataUnavailable)
	}

	docs := make([]string, len(c.Roles))
	for i, role := range c.Roles {
		docs[i] = role.Skills
	}
	vectorizer := FitVectorizer(docs)

	roleVecs := make([][]float64, len(docs))
	for i, doc := range docs {
		roleVecs[i] = vectorizer.Transform(doc)
	}

	m := &GapMatcher{
		roles:         c.Roles,
		vectorizer:    vectorizer,
		roleVecs:      roleVecs,
		courseWorkers: defaultCourseWorkers,
		courseTimeout: course.DefaultSearchTimeout,
		maxResults:    defaultMaxCourseResults,
		logger:        zerolog.Nop(),
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// FindGaps 计算岗位描述相对于用户技能的缺失技能并附带课程推荐
// 步骤：最相似角色(余弦相似度取最大，平手取先出现者) → 角色技能减去用户技能 →
// 缺失技能规范化 → 课程搜索fan-out
func (m *GapMatcher) FindGaps(ctx context.Context, jobDescription string, userSkills []string) (*types.GapResult, error) {
	ctx, span := gapTracer.Start(ctx, "GapMatcher.FindGaps")
	defer span.End()

	if strings.TrimSpace(jobDescription) == "" {
		return nil, fmt.Errorf("%w: 岗位描述为空", ErrInvalidInput)
	}

	jdVec := m.vectorizer.Transform(strings.Join(strings.Fields(strings.ToLower(jobDescription)), " "))
	if isZeroVector(jdVec) {
		// 没有有效向量时不返回任意的最佳匹配
		return nil, fmt.Errorf("%w: 岗位描述在词表上没有有效词", ErrInvalidInput)
	}

	bestIdx := 0
	bestSim := -1.0
	for i, roleVec := range m.roleVecs {
		if sim := CosineSimilarity(jdVec, roleVec); sim > bestSim {
			bestSim = sim
			bestIdx = i
		}
	}
	matched := m.roles[bestIdx]
	span.SetAttributes(
		attribute.String("gap.matched_role", matched.Role),
		attribute.Float64("gap.similarity", bestSim),
	)

	// 角色要求技能减去用户已有技能，大小写不敏感的精确比较
	possessed := make(map[string]struct{}, len(userSkills))
	for _, s := range userSkills {
		possessed[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	var missing []string
	for _, required := range strings.Split(matched.Skills, ",") {
		required = strings.TrimSpace(required)
		if required == "" {
			continue
		}
		if _, ok := possessed[strings.ToLower(required)]; !ok {
			missing = append(missing, required)
		}
	}

	result := &types.GapResult{
		MatchedRole:   matched.Role,
		MissingSkills: missing,
	}
	if len(missing) == 0 {
		return result, nil
	}

	// 缺失技能经过规范化，使输出词汇与简历侧一致；清洗不可用时保留原始列表
	if m.normalizer != nil {
		cleaned, err := m.normalizer.Normalize(ctx, missing)
		if err != nil {
			m.logger.Warn().Err(err).Msg("缺失技能规范化失败，使用原始列表")
		} else {
			result.MissingSkills = cleaned
		}
	}

	if m.searcher != nil {
		result.Recommendations = m.searchCourses(ctx, result.MissingSkills)
	}
	return result, nil
}

// searchCourses 有界并发的课程搜索fan-out
// 每个技能的调用独立限时，单个失败只让该技能得到空结果，不影响其余技能
func (m *GapMatcher) searchCourses(ctx context.Context, skills []string) map[string][]types.CourseLink {
	type courseResult struct {
		skill string
		links []types.CourseLink
	}

	tasks := make(chan string)
	results := make(chan courseResult)

	var wg sync.WaitGroup
	workers := m.courseWorkers
	if workers > len(skills) {
		workers = len(skills)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for skill := range tasks {
				callCtx, cancel := context.WithTimeout(ctx, m.courseTimeout)
				links, err := m.searcher.Search(callCtx, skill, m.maxResults)
				cancel()
				if err != nil {
					m.logger.Warn().Err(err).Str("skill", skill).Msg("课程搜索失败，该技能返回空结果")
					links = nil
				}
				results <- courseResult{skill: skill, links: links}
			}
		}()
	}

	go func() {
		for _, skill := range skills {
			tasks <- skill
		}
		close(tasks)
		wg.Wait()
		close(results)
	}()

	recommendations := make(map[string][]types.CourseLink)
	for r := range results {
		if len(r.links) > 0 {
			recommendations[r.skill] = r.links
		}
	}
	return recommendations
}
