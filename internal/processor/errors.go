package processor

import (
	"errors"
	"fmt"
)

// 流水线各阶段的基础错误类型
var (
	ErrResumeDownloadFailed = errors.New("下载简历失败")
	ErrParseTextFailed      = errors.New("提取简历文本失败")
	ErrStoreResultFailed    = errors.New("保存分析结果失败")
	ErrPublishMessageFailed = errors.New("发布分析任务消息失败")
	ErrEmptyResumeText      = errors.New("简历文本为空")
)

// AnalysisError 携带提交上下文的流水线错误
type AnalysisError struct {
	SubmissionUUID string
	Op             string
	BaseErr        error
	Detail         string
}

func (e *AnalysisError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, UUID:%s): %s", e.BaseErr, e.Op, e.SubmissionUUID, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, UUID:%s)", e.BaseErr, e.Op, e.SubmissionUUID)
}

func (e *AnalysisError) Unwrap() error {
	return e.BaseErr
}

// Is 支持errors.Is按基础错误类型比较
func (e *AnalysisError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// NewDownloadError 构造下载阶段错误
func NewDownloadError(uuid, detail string) error {
	return &AnalysisError{SubmissionUUID: uuid, Op: "download", BaseErr: ErrResumeDownloadFailed, Detail: detail}
}

// NewParseError 构造文本提取阶段错误
func NewParseError(uuid, detail string) error {
	return &AnalysisError{SubmissionUUID: uuid, Op: "parse", BaseErr: ErrParseTextFailed, Detail: detail}
}

// NewStoreError 构造结果保存阶段错误
func NewStoreError(uuid, detail string) error {
	return &AnalysisError{SubmissionUUID: uuid, Op: "store", BaseErr: ErrStoreResultFailed, Detail: detail}
}

// NewPublishError 构造消息发布阶段错误
func NewPublishError(uuid, detail string) error {
	return &AnalysisError{SubmissionUUID: uuid, Op: "publish", BaseErr: ErrPublishMessageFailed, Detail: detail}
}
