package matcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-insight-go/internal/corpus"
	"resume-insight-go/internal/types"
)

func rolesCorpus() *corpus.Corpus {
	return &corpus.Corpus{
		Roles: []corpus.RoleSkills{
			{Role: "Data Analyst", Skills: "python, sql, excel, tableau"},
			{Role: "Web Developer", Skills: "html, css, javascript"},
		},
	}
}

// stubNormalizer 固定返回预设结果的技能规范化器
type stubNormalizer struct {
	result []string
	err    error
}

func (s *stubNormalizer) Normalize(ctx context.Context, skills []string) ([]string, error) {
	return s.result, s.err
}

// stubSearcher 按技能名返回预设课程，可对指定技能阻塞到超时
type stubSearcher struct {
	links     map[string][]types.CourseLink
	err       error
	blockOn   string
	callDelay time.Duration
}

func (s *stubSearcher) Search(ctx context.Context, topic string, maxResults int) ([]types.CourseLink, error) {
	if topic == s.blockOn {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.callDelay > 0 {
		time.Sleep(s.callDelay)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.links[topic], nil
}

func TestNewGapMatcherEmptyRoles(t *testing.T) {
	_, err := NewGapMatcher(&corpus.Corpus{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataUnavailable, "角色表为空应返回ErrDataUnavailable")

	_, err = NewGapMatcher(nil)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestFindGapsDataAnalyst(t *testing.T) {
	m, err := NewGapMatcher(rolesCorpus())
	require.NoError(t, err)

	result, err := m.FindGaps(context.Background(),
		"Looking for a data analyst strong in sql and excel",
		[]string{"Python", "tableau"})
	require.NoError(t, err)

	assert.Equal(t, "Data Analyst", result.MatchedRole)
	assert.Equal(t, []string{"sql", "excel"}, result.MissingSkills,
		"用户已有技能比较应大小写不敏感")
	assert.Empty(t, result.Recommendations, "未配置搜索器时不应有课程推荐")
}

func TestFindGapsEmptyJobDescription(t *testing.T) {
	m, err := NewGapMatcher(rolesCorpus())
	require.NoError(t, err)

	_, err = m.FindGaps(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFindGapsNoVocabOverlap(t *testing.T) {
	m, err := NewGapMatcher(rolesCorpus())
	require.NoError(t, err)

	// 岗位描述在词表上没有任何词时不返回任意的最佳匹配
	_, err = m.FindGaps(context.Background(), "quantum blockchain wizardry", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFindGapsTieBreakFirstRole(t *testing.T) {
	c := &corpus.Corpus{
		Roles: []corpus.RoleSkills{
			{Role: "Role A", Skills: "python, sql"},
			{Role: "Role B", Skills: "python, sql"},
		},
	}
	m, err := NewGapMatcher(c)
	require.NoError(t, err)

	result, err := m.FindGaps(context.Background(), "python sql", nil)
	require.NoError(t, err)
	assert.Equal(t, "Role A", result.MatchedRole, "相似度平手时应取先出现的角色")
}

func TestFindGapsNoMissingSkills(t *testing.T) {
	m, err := NewGapMatcher(rolesCorpus(),
		WithCourseSearcher(&stubSearcher{err: errors.New("不应被调用")}))
	require.NoError(t, err)

	result, err := m.FindGaps(context.Background(), "data analyst with sql",
		[]string{"python", "sql", "excel", "tableau"})
	require.NoError(t, err)
	assert.Empty(t, result.MissingSkills)
	assert.Empty(t, result.Recommendations, "没有缺失技能时不应触发课程搜索")
}

func TestFindGapsNormalizerFallback(t *testing.T) {
	m, err := NewGapMatcher(rolesCorpus(),
		WithNormalizer(&stubNormalizer{err: errors.New("服务不可用")}))
	require.NoError(t, err)

	result, err := m.FindGaps(context.Background(), "data analyst sql excel",
		[]string{"python", "tableau"})
	require.NoError(t, err, "规范化失败不应让差距分析失败")
	assert.Equal(t, []string{"sql", "excel"}, result.MissingSkills, "应回退到原始缺失技能列表")
}

func TestFindGapsNormalizerApplied(t *testing.T) {
	m, err := NewGapMatcher(rolesCorpus(),
		WithNormalizer(&stubNormalizer{result: []string{"SQL", "Excel"}}))
	require.NoError(t, err)

	result, err := m.FindGaps(context.Background(), "data analyst sql excel",
		[]string{"python", "tableau"})
	require.NoError(t, err)
	assert.Equal(t, []string{"SQL", "Excel"}, result.MissingSkills)
}

func TestFindGapsCourseRecommendations(t *testing.T) {
	searcher := &stubSearcher{links: map[string][]types.CourseLink{
		"sql":   {{Title: "SQL Full Course", URL: "https://www.youtube.com/watch?v=abc"}},
		"excel": {{Title: "Excel Full Course", URL: "https://www.youtube.com/watch?v=def"}},
	}}
	m, err := NewGapMatcher(rolesCorpus(), WithCourseSearcher(searcher), WithCourseWorkers(2))
	require.NoError(t, err)

	result, err := m.FindGaps(context.Background(), "data analyst sql excel",
		[]string{"python", "tableau"})
	require.NoError(t, err)

	require.Len(t, result.Recommendations, 2)
	assert.Equal(t, "SQL Full Course", result.Recommendations["sql"][0].Title)
	assert.Equal(t, "Excel Full Course", result.Recommendations["excel"][0].Title)
}

func TestFindGapsCourseFailureIsolated(t *testing.T) {
	// sql的搜索阻塞到超时，excel的结果不受影响
	searcher := &stubSearcher{
		blockOn: "sql",
		links: map[string][]types.CourseLink{
			"excel": {{Title: "Excel Course", URL: "https://www.youtube.com/watch?v=def"}},
		},
	}
	m, err := NewGapMatcher(rolesCorpus(),
		WithCourseSearcher(searcher),
		WithCourseTimeout(50*time.Millisecond))
	require.NoError(t, err)

	result, err := m.FindGaps(context.Background(), "data analyst sql excel",
		[]string{"python", "tableau"})
	require.NoError(t, err, "单个技能的搜索失败不应影响整体结果")

	assert.NotContains(t, result.Recommendations, "sql", "超时的技能应得到空结果")
	require.Contains(t, result.Recommendations, "excel")
	assert.Equal(t, "Excel Course", result.Recommendations["excel"][0].Title)
}
