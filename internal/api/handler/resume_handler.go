package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/gofrs/uuid/v5"

	"resume-insight-go/internal/config"
	"resume-insight-go/internal/logger"
	"resume-insight-go/internal/matcher"
	"resume-insight-go/internal/processor"
	"resume-insight-go/internal/storage"
	"resume-insight-go/internal/storage/models"
	"resume-insight-go/pkg/utils"
)

// ResumeHandler 简历处理器，负责上传入口与异步分析流水线
type ResumeHandler struct {
	cfg          *config.Config
	storage      *storage.Storage
	pdfExtractor processor.PDFExtractor
	analyzer     *processor.ResumeAnalyzer
	gapMatcher   *matcher.GapMatcher // 可为nil，上传时附带岗位描述才用到
}

// NewResumeHandler 创建简历处理器
func NewResumeHandler(
	cfg *config.Config,
	storage *storage.Storage,
	pdfExtractor processor.PDFExtractor,
	analyzer *processor.ResumeAnalyzer,
	gapMatcher *matcher.GapMatcher,
) *ResumeHandler {
	return &ResumeHandler{
		cfg:          cfg,
		storage:      storage,
		pdfExtractor: pdfExtractor,
		analyzer:     analyzer,
		gapMatcher:   gapMatcher,
	}
}

// ResumeUploadResponse 简历上传响应
type ResumeUploadResponse struct {
	SubmissionUUID string `json:"submission_uuid"`
	Status         string `json:"status"`
}

// HandleResumeUpload 处理简历上传请求
// 流程：MD5去重 → 上传MinIO → 记录MD5 → 发布分析任务消息
func (h *ResumeHandler) HandleResumeUpload(ctx context.Context, reader io.Reader, fileSize int64,
	filename string, targetJobText string) (*ResumeUploadResponse, error) {

	// reader只能读一次，去重检查需要在上传前算出MD5
	fileBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件内容失败: %w", err)
	}
	fileMD5Hex := utils.CalculateMD5(fileBytes)

	exists, err := h.storage.Redis.CheckRawFileMD5Exists(ctx, fileMD5Hex)
	if err != nil {
		logger.Error().
			Err(err).
			Str("md5", fileMD5Hex).
			Msg("查询Redis文件MD5 Set失败")
		return nil, fmt.Errorf("检查文件MD5重复性时Redis查询失败: %w", err)
	}
	if exists {
		logger.Info().
			Str("md5", fileMD5Hex).
			Str("filename", filename).
			Msg("检测到重复的文件MD5，跳过处理")
		return &ResumeUploadResponse{
			SubmissionUUID: "",
			Status:         "DUPLICATE_FILE_SKIPPED",
		}, nil
	}

	uuidV7, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成UUIDv7失败: %w", err)
	}
	submissionUUID := uuidV7.String()

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".pdf"
	}

	originalObjectKey, _, err := h.storage.MinIO.UploadResumeFileStreaming(
		ctx, submissionUUID, ext, bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		return nil, fmt.Errorf("上传简历到MinIO失败: %w", err)
	}

	// 去重记录写入失败不阻塞流程，核心文件已经上传
	if err := h.storage.Redis.AddRawFileMD5(ctx, fileMD5Hex); err != nil {
		logger.Warn().
			Err(err).
			Str("md5", fileMD5Hex).
			Str("object_key", originalObjectKey).
			Msg("添加文件MD5到Redis Set失败，文件已上传到MinIO")
	}

	message := storage.ResumeUploadMessage{
		SubmissionUUID:      submissionUUID,
		SubmissionTimestamp: time.Now(),
		OriginalFilename:    filename,
		OriginalFilePathOSS: originalObjectKey,
		RawFileMD5:          fileMD5Hex,
		TargetJobText:       targetJobText,
	}
	err = h.storage.RabbitMQ.PublishJSON(
		ctx,
		h.cfg.RabbitMQ.ResumeEventsExchange,
		h.cfg.RabbitMQ.UploadedRoutingKey,
		message,
		true, // 持久化
	)
	if err != nil {
		return nil, processor.NewPublishError(submissionUUID, err.Error())
	}

	return &ResumeUploadResponse{
		SubmissionUUID: submissionUUID,
		Status:         "SUBMITTED_FOR_ANALYSIS",
	}, nil
}

// StartAnalysisConsumer 启动简历分析消费者
func (h *ResumeHandler) StartAnalysisConsumer(ctx context.Context, prefetchCount int) error {
	if err := h.storage.RabbitMQ.EnsureExchange(h.cfg.RabbitMQ.ResumeEventsExchange, "direct", true); err != nil {
		return fmt.Errorf("确保交换机存在失败: %w", err)
	}
	if err := h.storage.RabbitMQ.EnsureQueue(h.cfg.RabbitMQ.AnalysisQueue, true); err != nil {
		return fmt.Errorf("确保队列存在失败: %w", err)
	}
	if err := h.storage.RabbitMQ.BindQueue(
		h.cfg.RabbitMQ.AnalysisQueue,
		h.cfg.RabbitMQ.ResumeEventsExchange,
		h.cfg.RabbitMQ.UploadedRoutingKey,
	); err != nil {
		return fmt.Errorf("绑定队列失败: %w", err)
	}

	logger.Info().
		Str("queue", h.cfg.RabbitMQ.AnalysisQueue).
		Int("prefetch_count", prefetchCount).
		Msg("简历分析消费者就绪")

	_, err := h.storage.RabbitMQ.StartConsumer(h.cfg.RabbitMQ.AnalysisQueue, prefetchCount, func(data []byte) bool {
		var message storage.ResumeUploadMessage
		if err := json.Unmarshal(data, &message); err != nil {
			logger.Error().Err(err).Msg("解析消息失败")
			return false
		}

		submission := &models.ResumeSubmission{
			SubmissionUUID:      message.SubmissionUUID,
			SubmissionTimestamp: message.SubmissionTimestamp,
			OriginalFilename:    message.OriginalFilename,
			OriginalFilePathOSS: message.OriginalFilePathOSS,
			RawFileMD5:          message.RawFileMD5,
			ProcessingStatus:    models.StatusPendingAnalysis,
		}
		if err := h.storage.MySQL.CreateSubmission(ctx, submission); err != nil {
			logger.Error().Err(err).Str("submission_uuid", message.SubmissionUUID).Msg("插入简历提交记录失败")
			return false
		}

		if err := h.processResume(ctx, message); err != nil {
			logger.Error().
				Err(err).
				Str("submission_uuid", message.SubmissionUUID).
				Msg("简历分析失败")
			if errDb := h.storage.MySQL.UpdateSubmissionStatus(ctx, message.SubmissionUUID, models.StatusAnalysisFailed, ""); errDb != nil {
				logger.Error().Err(errDb).Str("submission_uuid", message.SubmissionUUID).Msg("更新简历状态为ANALYSIS_FAILED失败")
			}
			// 终态失败：释放去重占位并清理原始文件，允许同一份文件重新上传；消息确认不再重回队列
			rollbackUploadArtifacts(ctx, h.storage.Redis, h.storage.MinIO, message)
			return true
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("启动消费者失败: %w", err)
	}
	return nil
}

// 失败回滚依赖的最小存储能力
type md5Remover interface {
	RemoveRawFileMD5(ctx context.Context, md5Hex string) error
}

type objectRemover interface {
	DeleteResumeFile(ctx context.Context, objectKey string) error
}

// rollbackUploadArtifacts 分析终败后释放去重占位并清理已上传的原始文件
// 两步互相独立，任一步失败不影响另一步
func rollbackUploadArtifacts(ctx context.Context, dedupe md5Remover, objects objectRemover, message storage.ResumeUploadMessage) {
	if message.RawFileMD5 != "" {
		if err := dedupe.RemoveRawFileMD5(ctx, message.RawFileMD5); err != nil {
			logger.Warn().
				Err(err).
				Str("md5", message.RawFileMD5).
				Msg("回滚文件MD5去重记录失败")
		}
	}
	if message.OriginalFilePathOSS != "" {
		if err := objects.DeleteResumeFile(ctx, message.OriginalFilePathOSS); err != nil {
			logger.Warn().
				Err(err).
				Str("object_key", message.OriginalFilePathOSS).
				Msg("回滚已上传的原始简历失败")
		}
	}
}

// processResume 执行单份简历的完整分析流水线
// 下载 → PDF文本提取 → 信息抽取 → 结果持久化与缓存
func (h *ResumeHandler) processResume(ctx context.Context, message storage.ResumeUploadMessage) error {
	if h.pdfExtractor == nil || h.analyzer == nil {
		return fmt.Errorf("分析组件未初始化")
	}

	fileContentBytes, err := h.storage.MinIO.GetResumeFile(ctx, message.OriginalFilePathOSS)
	if err != nil {
		return processor.NewDownloadError(message.SubmissionUUID, err.Error())
	}

	text, _, err := h.pdfExtractor.ExtractTextFromReader(
		ctx,
		bytes.NewReader(fileContentBytes),
		message.OriginalFilePathOSS,
	)
	if err != nil {
		return processor.NewParseError(message.SubmissionUUID, err.Error())
	}

	analysis, err := h.analyzer.Analyze(ctx, message.OriginalFilename, text)
	if err != nil {
		return processor.NewParseError(message.SubmissionUUID, err.Error())
	}

	textObjectKey, err := h.storage.MinIO.UploadParsedText(ctx, message.SubmissionUUID, text)
	if err != nil {
		return processor.NewStoreError(message.SubmissionUUID, err.Error())
	}

	if err := h.storage.MySQL.SaveAnalysisResult(ctx, message.SubmissionUUID, analysis); err != nil {
		return processor.NewStoreError(message.SubmissionUUID, err.Error())
	}
	if err := h.storage.MySQL.UpdateSubmissionStatus(ctx, message.SubmissionUUID, models.StatusAnalyzed, textObjectKey); err != nil {
		return processor.NewStoreError(message.SubmissionUUID, err.Error())
	}

	// 缓存失败只降级为慢查询，不影响主流程
	if err := h.storage.Redis.CacheAnalysis(ctx, message.SubmissionUUID, analysis); err != nil {
		logger.Warn().
			Err(err).
			Str("submission_uuid", message.SubmissionUUID).
			Msg("缓存分析结果失败")
	}

	// 上传时附带了目标岗位描述的，顺带做一次差距分析
	if message.TargetJobText != "" && h.gapMatcher != nil {
		gap, err := h.gapMatcher.FindGaps(ctx, message.TargetJobText, analysis.CleanedSkills)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("submission_uuid", message.SubmissionUUID).
				Msg("差距分析失败，分析结果本身不受影响")
		} else if err := h.storage.MySQL.SaveGapReport(ctx, message.SubmissionUUID, message.TargetJobText, gap); err != nil {
			logger.Warn().
				Err(err).
				Str("submission_uuid", message.SubmissionUUID).
				Msg("保存差距分析记录失败")
		}
	}

	logger.Info().
		Str("submission_uuid", message.SubmissionUUID).
		Int("sections", len(analysis.Sections)).
		Int("skills", len(analysis.Skills)).
		Msg("简历分析完成")
	return nil
}
