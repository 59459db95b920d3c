package scorer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"

	"resume-insight-go/internal/types"
)

// ErrScoreParse 评分响应中解析到的数字个数不等于6
// 不做静默补零：数字个数不对时无法判断各数字对应哪个维度
var ErrScoreParse = errors.New("评分响应解析失败")

// ScoreEvaluator 整体评分能力
type ScoreEvaluator interface {
	EvaluateScores(ctx context.Context, resumeText, jobDescription string) (*types.ScoreReport, error)
}

// LLMScoreEvaluator 基于Chat模型的六维评分器
// 评分维度固定：ATS、可读性、语法拼写、关键词优化、经验相关性、定制化
type LLMScoreEvaluator struct {
	llmModel       model.ChatModel
	promptTemplate string
}

// LLMScoreEvaluatorOption 评分器的配置选项
type LLMScoreEvaluatorOption func(*LLMScoreEvaluator)

// WithScorePromptTemplate 设置自定义提示词模板
func WithScorePromptTemplate(template string) LLMScoreEvaluatorOption {
	return func(e *LLMScoreEvaluator) {
		e.promptTemplate = template
	}
}

// NewLLMScoreEvaluator 创建评分器
func NewLLMScoreEvaluator(llmModel model.ChatModel, options ...LLMScoreEvaluatorOption) *LLMScoreEvaluator {
	evaluator := &LLMScoreEvaluator{
		llmModel: llmModel,
	}
	evaluator.generatePromptTemplate()
	for _, opt := range options {
		opt(evaluator)
	}
	return evaluator
}

// generatePromptTemplate 生成默认的评分提示词
// 要求模型按固定顺序只输出六个百分比数字，顺序即语义
func (e *LLMScoreEvaluator) generatePromptTemplate() {
	e.promptTemplate = `你是一位资深的ATS扫描与招聘专家。请基于【岗位描述】评估【候选人简历】，给出以下六项百分比分数：
1. ATS分数：简历与岗位描述的匹配程度
2. 可读性分数：简历的清晰度与结构
3. 语法拼写分数：语法和拼写的正确性
4. 关键词优化分数：行业关键词的使用情况
5. 经验相关性分数：工作经验与岗位的相关程度
6. 定制化分数：简历针对该岗位的定制程度

**输出格式（只返回数字，不要任何描述）：**
ATS SCORE: XX%%
Readability Score: XX%%
Grammar & Spelling Score: XX%%
Keyword Optimization Score: XX%%
Experience Relevance Score: XX%%
Customization Score: XX%%

【岗位描述】:
"""
%s
"""

【候选人简历】:
"""
%s
"""`
}

var scoreNumberPattern = regexp.MustCompile(`(\d+)%?`)

// EvaluateScores 实现ScoreEvaluator接口
// 响应中数字个数不等于6时返回ErrScoreParse，由调用方呈现明确的失败信息
func (e *LLMScoreEvaluator) EvaluateScores(ctx context.Context, resumeText, jobDescription string) (*types.ScoreReport, error) {
	if e.llmModel == nil {
		return nil, fmt.Errorf("LLMScoreEvaluator: llmModel未初始化")
	}

	prompt := fmt.Sprintf(e.promptTemplate, jobDescription, resumeText)
	messages := []*einoschema.Message{
		einoschema.SystemMessage("你是一位专注于简历评估的AI招聘助手。"),
		einoschema.UserMessage(prompt),
	}

	response, err := e.llmModel.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("LLMScoreEvaluator: 模型调用失败: %w", err)
	}
	if response == nil || response.Content == "" {
		return nil, fmt.Errorf("LLMScoreEvaluator: 模型返回空响应")
	}

	return ParseScoreReport(response.Content)
}

// ParseScoreReport 从自由文本响应中解析六项分数
// 按固定标注顺序取数：ATS、可读性、语法拼写、关键词、经验、定制化
func ParseScoreReport(text string) (*types.ScoreReport, error) {
	matches := scoreNumberPattern.FindAllStringSubmatch(text, -1)
	if len(matches) != 6 {
		return nil, fmt.Errorf("%w: 期望6个数字，实际解析到%d个", ErrScoreParse, len(matches))
	}

	nums := make([]int, 6)
	for i, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("%w: 第%d个数字无效: %v", ErrScoreParse, i+1, err)
		}
		nums[i] = n
	}

	return &types.ScoreReport{
		ATS:           nums[0],
		Readability:   nums[1],
		Grammar:       nums[2],
		Keywords:      nums[3],
		Experience:    nums[4],
		Customization: nums[5],
	}, nil
}
