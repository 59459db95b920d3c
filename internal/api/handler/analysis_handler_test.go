package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"resume-insight-go/internal/matcher"
	"resume-insight-go/internal/storage"
	"resume-insight-go/internal/storage/models"
	"resume-insight-go/internal/types"
)

func TestHandleGapAnalysisWithoutMatcher(t *testing.T) {
	// 角色语料缺失时匹配器为nil，接口应降级为数据不可用而不是崩溃
	h := NewAnalysisHandler(&storage.Storage{}, nil, nil)

	result, err := h.HandleGapAnalysis(context.Background(), &GapRequest{
		JobDescription: "need a data analyst familiar with sql and excel",
		UserSkills:     []string{"python"},
	})
	require.Error(t, err, "匹配器未就绪时应返回错误")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, matcher.ErrDataUnavailable, "应返回数据不可用哨兵错误")
}

func TestAnalysisFromRecord(t *testing.T) {
	record := &models.AnalysisResult{
		SectionsJSON:     datatypes.JSON(`[{"label":"Skills","body":"Python, SQL"}]`),
		EntitiesJSON:     datatypes.JSON(`{"name":["John","Smith"]}`),
		SkillsJSON:       datatypes.JSON(`{"python":1,"sql":1}`),
		CleanedSkills:    datatypes.JSON(`["python","sql"]`),
		SkillsNormalized: true,
	}

	analysis, err := analysisFromRecord(record, "resume.pdf")
	require.NoError(t, err, "合法记录不应返回错误")

	assert.Equal(t, "resume.pdf", analysis.FileName, "回源路径应补齐文件名")
	assert.True(t, analysis.Normalized)
	require.Len(t, analysis.Sections, 1)
	assert.Equal(t, "Skills", analysis.Sections[0].Label)
	assert.Equal(t, []string{"John", "Smith"}, analysis.Entities.Name)
	assert.Equal(t, types.SkillRecord{"python": 1, "sql": 1}, analysis.Skills)
	assert.Equal(t, []string{"python", "sql"}, analysis.CleanedSkills)
}

func TestAnalysisFromRecordMalformed(t *testing.T) {
	record := &models.AnalysisResult{
		SectionsJSON: datatypes.JSON(`not-json`),
	}

	_, err := analysisFromRecord(record, "")
	require.Error(t, err, "损坏的JSON列应返回错误")
}
