package processor

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// MockLLMModel 固定响应的Chat模型
// 未配置真实LLM端点时作为回退使用，也用于测试
type MockLLMModel struct {
	// 每次Generate返回的固定内容
	Response string
	// 记录绑定的工具
	boundTools []*schema.ToolInfo
	// 预设错误，非nil时Generate直接返回该错误
	Err error
	// 调用计数
	CallCount int
}

var _ model.ChatModel = (*MockLLMModel)(nil)

// Generate 返回预设的固定响应
func (m *MockLLMModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	m.CallCount++
	if m.Err != nil {
		return nil, m.Err
	}
	return schema.AssistantMessage(m.Response, nil), nil
}

// Stream 不支持流式输出
func (m *MockLLMModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("MockLLMModel不支持流式输出")
}

// BindTools 记录绑定的工具
func (m *MockLLMModel) BindTools(tools []*schema.ToolInfo) error {
	m.boundTools = tools
	return nil
}
