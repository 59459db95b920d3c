package cleaner

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubChatModel 固定响应的Chat模型测试替身
type stubChatModel struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	if len(messages) > 0 {
		s.lastPrompt = messages[len(messages)-1].Content
	}
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

func TestNormalize(t *testing.T) {
	stub := &stubChatModel{response: "Python, SQL, Machine Learning"}
	cleaner := NewLLMSkillCleaner(stub)

	cleaned, err := cleaner.Normalize(context.Background(), []string{"pythn", "sql", "sql", "teamwork"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "SQL", "Machine Learning"}, cleaned)
	assert.Contains(t, stub.lastPrompt, "pythn, sql, sql, teamwork", "原始技能应以逗号分隔出现在提示词中")
}

func TestNormalizeEmptyInput(t *testing.T) {
	cleaner := NewLLMSkillCleaner(&stubChatModel{response: "anything"})

	cleaned, err := cleaner.Normalize(context.Background(), nil)
	require.NoError(t, err, "空输入不应触发模型调用")
	assert.Nil(t, cleaned)
}

func TestNormalizeNilModel(t *testing.T) {
	cleaner := NewLLMSkillCleaner(nil)

	_, err := cleaner.Normalize(context.Background(), []string{"python"})
	assert.ErrorIs(t, err, ErrNormalizationUnavailable)
}

func TestNormalizeModelError(t *testing.T) {
	cleaner := NewLLMSkillCleaner(&stubChatModel{err: errors.New("连接被拒绝")})

	_, err := cleaner.Normalize(context.Background(), []string{"python"})
	assert.ErrorIs(t, err, ErrNormalizationUnavailable, "传输错误应折叠为ErrNormalizationUnavailable")
}

func TestNormalizeUnparseableResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "空响应", response: ""},
		{name: "纯空白与逗号", response: " , , "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaner := NewLLMSkillCleaner(&stubChatModel{response: tt.response})
			_, err := cleaner.Normalize(context.Background(), []string{"python"})
			assert.ErrorIs(t, err, ErrNormalizationUnavailable)
		})
	}
}

func TestNormalizeCustomPrompt(t *testing.T) {
	stub := &stubChatModel{response: "go"}
	cleaner := NewLLMSkillCleaner(stub, WithCleanerPromptTemplate("清洗: %s"))

	_, err := cleaner.Normalize(context.Background(), []string{"golang"})
	require.NoError(t, err)
	assert.Equal(t, "清洗: golang", stub.lastPrompt)
}

func TestParseSkillList(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "常规列表", text: "Python, SQL, Excel", want: []string{"Python", "SQL", "Excel"}},
		{name: "多余空白与换行", text: " Python ,\n SQL ", want: []string{"Python", "SQL"}},
		{name: "跳过空token", text: "Python,,SQL,", want: []string{"Python", "SQL"}},
		{name: "全空", text: ", ,", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSkillList(tt.text))
		})
	}
}
