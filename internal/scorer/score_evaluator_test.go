package scorer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-insight-go/internal/types"
)

// stubChatModel 固定响应的Chat模型测试替身
type stubChatModel struct {
	response string
	err      error
}

func (s *stubChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	return schema.AssistantMessage(s.response, nil), nil
}

func (s *stubChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("stubChatModel不支持流式输出")
}

func (s *stubChatModel) BindTools(tools []*schema.ToolInfo) error {
	return nil
}

const wellFormedResponse = `ATS SCORE: 85%
Readability Score: 90%
Grammar & Spelling Score: 95%
Keyword Optimization Score: 70%
Experience Relevance Score: 80%
Customization Score: 60%`

func TestEvaluateScores(t *testing.T) {
	evaluator := NewLLMScoreEvaluator(&stubChatModel{response: wellFormedResponse})

	report, err := evaluator.EvaluateScores(context.Background(), "resume text", "job description")
	require.NoError(t, err)

	assert.Equal(t, &types.ScoreReport{
		ATS:           85,
		Readability:   90,
		Grammar:       95,
		Keywords:      70,
		Experience:    80,
		Customization: 60,
	}, report, "六项分数应按固定顺序对应各维度")
}

func TestEvaluateScoresModelError(t *testing.T) {
	evaluator := NewLLMScoreEvaluator(&stubChatModel{err: errors.New("超时")})

	_, err := evaluator.EvaluateScores(context.Background(), "resume", "jd")
	require.Error(t, err)
}

func TestEvaluateScoresEmptyResponse(t *testing.T) {
	evaluator := NewLLMScoreEvaluator(&stubChatModel{response: ""})

	_, err := evaluator.EvaluateScores(context.Background(), "resume", "jd")
	require.Error(t, err, "空响应应返回错误")
}

func TestParseScoreReport(t *testing.T) {
	report, err := ParseScoreReport(wellFormedResponse)
	require.NoError(t, err)
	assert.Equal(t, 85, report.ATS)
	assert.Equal(t, 60, report.Customization)
}

func TestParseScoreReportWrongCount(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "数字不足", text: "ATS SCORE: 85%\nReadability Score: 90%"},
		{name: "数字过多", text: wellFormedResponse + "\nBonus Score: 99%"},
		{name: "没有数字", text: "很抱歉，我无法评估这份简历。"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScoreReport(tt.text)
			assert.ErrorIs(t, err, ErrScoreParse, "数字个数不等于6时不应静默补零")
		})
	}
}
