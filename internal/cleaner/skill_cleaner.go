package cleaner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
)

// ErrNormalizationUnavailable 规范化服务不可用或返回内容无法解析
// 调用方收到该错误后应回退到未规范化的原始技能列表继续流程
var ErrNormalizationUnavailable = errors.New("技能规范化不可用")

// SkillNormalizer 技能清洗能力
// 输入原始技能列表，输出纠错、去重并剔除非技能词后的技能列表
type SkillNormalizer interface {
	Normalize(ctx context.Context, skills []string) ([]string, error)
}

// LLMSkillCleaner 基于Chat模型的技能清洗器
// 对输出形态的要求是确定的：只接受逗号分隔的技能列表，任何解析不出
// 非空token列表的响应都按服务不可用处理
type LLMSkillCleaner struct {
	llmModel       model.ChatModel
	promptTemplate string
}

// LLMSkillCleanerOption 清洗器的配置选项
type LLMSkillCleanerOption func(*LLMSkillCleaner)

// WithCleanerPromptTemplate 设置自定义提示词模板
func WithCleanerPromptTemplate(template string) LLMSkillCleanerOption {
	return func(c *LLMSkillCleaner) {
		c.promptTemplate = template
	}
}

// NewLLMSkillCleaner 创建技能清洗器
func NewLLMSkillCleaner(llmModel model.ChatModel, options ...LLMSkillCleanerOption) *LLMSkillCleaner {
	cleaner := &LLMSkillCleaner{
		llmModel: llmModel,
		promptTemplate: `请清洗下面的技能列表：纠正拼写错误、去除重复项、剔除不是技能的词条。
只输出清洗后的逗号分隔技能列表，不要输出任何其他文字。

原始技能: %s

清洗后技能:`,
	}
	for _, opt := range options {
		opt(cleaner)
	}
	return cleaner
}

// Normalize 实现SkillNormalizer接口
// 任何传输、鉴权或解析错误都折叠为ErrNormalizationUnavailable
func (c *LLMSkillCleaner) Normalize(ctx context.Context, skills []string) ([]string, error) {
	if c.llmModel == nil {
		return nil, fmt.Errorf("%w: llmModel未初始化", ErrNormalizationUnavailable)
	}
	if len(skills) == 0 {
		return nil, nil
	}

	prompt := fmt.Sprintf(c.promptTemplate, strings.Join(skills, ", "))
	messages := []*einoschema.Message{
		einoschema.SystemMessage("你是一个只输出逗号分隔列表的技能清洗助手。"),
		einoschema.UserMessage(prompt),
	}

	response, err := c.llmModel.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNormalizationUnavailable, err)
	}
	if response == nil || response.Content == "" {
		return nil, fmt.Errorf("%w: 模型返回空响应", ErrNormalizationUnavailable)
	}

	cleaned := ParseSkillList(response.Content)
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: 响应无法解析为技能列表: %q", ErrNormalizationUnavailable, response.Content)
	}
	return cleaned, nil
}

// ParseSkillList 把逗号分隔的技能文本解析为去空白的token列表
// 跳过空token；多余的换行按普通空白处理
func ParseSkillList(text string) []string {
	var out []string
	for _, tok := range strings.Split(text, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
