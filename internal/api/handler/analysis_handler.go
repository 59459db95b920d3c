package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"resume-insight-go/internal/logger"
	"resume-insight-go/internal/matcher"
	"resume-insight-go/internal/scorer"
	"resume-insight-go/internal/storage"
	"resume-insight-go/internal/storage/models"
	"resume-insight-go/internal/types"
)

// downloadURLExpiry 原始简历下载链接的有效期
const downloadURLExpiry = 15 * time.Minute

// ErrSubmissionNotFound 指定的简历提交不存在或尚未分析完成
var ErrSubmissionNotFound = errors.New("简历提交记录不存在")

// AnalysisHandler 分析结果查询、差距分析与评分的业务处理器
type AnalysisHandler struct {
	storage    *storage.Storage
	gapMatcher *matcher.GapMatcher
	scorer     scorer.ScoreEvaluator // 可为nil，评分接口返回不可用
}

// NewAnalysisHandler 创建分析处理器
func NewAnalysisHandler(storage *storage.Storage, gapMatcher *matcher.GapMatcher, scorer scorer.ScoreEvaluator) *AnalysisHandler {
	return &AnalysisHandler{
		storage:    storage,
		gapMatcher: gapMatcher,
		scorer:     scorer,
	}
}

// GetAnalysis 查询分析结果，优先走Redis缓存，未命中回源MySQL
func (h *AnalysisHandler) GetAnalysis(ctx context.Context, submissionUUID string) (*types.ResumeAnalysis, error) {
	if cached, err := h.storage.Redis.GetCachedAnalysis(ctx, submissionUUID); err == nil {
		return cached, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("读取分析结果缓存失败，回源数据库")
	}

	record, err := h.storage.MySQL.GetAnalysisResult(ctx, submissionUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("查询分析结果失败: %w", err)
	}

	// 文件名只存在提交记录里，回源时一并补齐，保持与缓存命中的响应结构一致
	var fileName string
	if submission, errSub := h.storage.MySQL.GetSubmission(ctx, submissionUUID); errSub == nil {
		fileName = submission.OriginalFilename
	} else {
		logger.Warn().Err(errSub).Str("submission_uuid", submissionUUID).Msg("查询简历提交记录失败，响应中文件名留空")
	}

	analysis, err := analysisFromRecord(record, fileName)
	if err != nil {
		return nil, err
	}

	// 回填缓存
	if err := h.storage.Redis.CacheAnalysis(ctx, submissionUUID, analysis); err != nil {
		logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("回填分析结果缓存失败")
	}
	return analysis, nil
}

// analysisFromRecord 将数据库记录还原为完整的分析结果结构
func analysisFromRecord(record *models.AnalysisResult, fileName string) (*types.ResumeAnalysis, error) {
	analysis := &types.ResumeAnalysis{
		FileName:   fileName,
		Normalized: record.SkillsNormalized,
	}
	if err := json.Unmarshal(record.SectionsJSON, &analysis.Sections); err != nil {
		return nil, fmt.Errorf("反序列化章节数据失败: %w", err)
	}
	if err := json.Unmarshal(record.EntitiesJSON, &analysis.Entities); err != nil {
		return nil, fmt.Errorf("反序列化实体数据失败: %w", err)
	}
	if err := json.Unmarshal(record.SkillsJSON, &analysis.Skills); err != nil {
		return nil, fmt.Errorf("反序列化技能数据失败: %w", err)
	}
	if err := json.Unmarshal(record.CleanedSkills, &analysis.CleanedSkills); err != nil {
		return nil, fmt.Errorf("反序列化清洗技能数据失败: %w", err)
	}
	return analysis, nil
}

// GapRequest 差距分析请求
// SubmissionUUID与UserSkills二选一：给了UUID就用该简历的清洗后技能
type GapRequest struct {
	JobDescription string   `json:"job_description"`
	SubmissionUUID string   `json:"submission_uuid,omitempty"`
	UserSkills     []string `json:"user_skills,omitempty"`
}

// HandleGapAnalysis 执行技能差距分析并落库
// 角色语料缺失导致匹配器未就绪时返回ErrDataUnavailable
func (h *AnalysisHandler) HandleGapAnalysis(ctx context.Context, req *GapRequest) (*types.GapResult, error) {
	if h.gapMatcher == nil {
		return nil, matcher.ErrDataUnavailable
	}

	userSkills := req.UserSkills
	if req.SubmissionUUID != "" {
		analysis, err := h.GetAnalysis(ctx, req.SubmissionUUID)
		if err != nil {
			return nil, err
		}
		userSkills = analysis.CleanedSkills
	}

	gap, err := h.gapMatcher.FindGaps(ctx, req.JobDescription, userSkills)
	if err != nil {
		return nil, err
	}

	// 差距记录落库失败不影响本次响应
	if err := h.storage.MySQL.SaveGapReport(ctx, req.SubmissionUUID, req.JobDescription, gap); err != nil {
		logger.Warn().Err(err).Msg("保存差距分析记录失败")
	}
	return gap, nil
}

// GetDownloadURL 生成原始简历的预签名下载链接
func (h *AnalysisHandler) GetDownloadURL(ctx context.Context, submissionUUID string) (string, error) {
	submission, err := h.storage.MySQL.GetSubmission(ctx, submissionUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrSubmissionNotFound
		}
		return "", fmt.Errorf("查询简历提交记录失败: %w", err)
	}
	if submission.OriginalFilePathOSS == "" {
		return "", ErrSubmissionNotFound
	}
	return h.storage.MinIO.GetPresignedURL(ctx, submission.OriginalFilePathOSS, downloadURLExpiry)
}

// HandleScoreEvaluation 对指定简历与岗位描述执行六维评分
func (h *AnalysisHandler) HandleScoreEvaluation(ctx context.Context, submissionUUID, jobDescription string) (*types.ScoreReport, error) {
	if h.scorer == nil {
		return nil, fmt.Errorf("评分组件未配置")
	}

	submission, err := h.storage.MySQL.GetSubmission(ctx, submissionUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("查询简历提交记录失败: %w", err)
	}
	if submission.ParsedTextPathOSS == "" {
		return nil, ErrSubmissionNotFound
	}

	resumeText, err := h.storage.MinIO.GetParsedText(ctx, submission.ParsedTextPathOSS)
	if err != nil {
		return nil, fmt.Errorf("获取解析文本失败: %w", err)
	}

	return h.scorer.EvaluateScores(ctx, resumeText, jobDescription)
}
