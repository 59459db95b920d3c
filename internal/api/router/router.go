package router

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"

	"resume-insight-go/internal/api/handler"
	"resume-insight-go/internal/matcher"
	"resume-insight-go/internal/scorer"
)

// RegisterRoutes 注册 API 路由
// apiKey非空时为/api/v1启用Bearer鉴权，健康检查不做鉴权
func RegisterRoutes(h *server.Hertz, resumeHandler *handler.ResumeHandler, analysisHandler *handler.AnalysisHandler, apiKey string) {
	h.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})

	api := h.Group("/api/v1")
	if apiKey != "" {
		api.Use(keyauth.New(
			keyauth.WithKeyLookUp("header:Authorization", "Bearer"),
			keyauth.WithValidator(func(c context.Context, ctx *app.RequestContext, key string) (bool, error) {
				return key == apiKey, nil
			}),
		))
	}

	api.POST("/resume/upload", func(c context.Context, ctx *app.RequestContext) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
			return
		}

		// 可选的目标岗位描述，分析完成后顺带做差距分析
		targetJobText := ctx.PostForm("target_job_text")

		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
			return
		}
		defer file.Close()

		resp, err := resumeHandler.HandleResumeUpload(
			c,
			file,
			fileHeader.Size,
			fileHeader.Filename,
			targetJobText,
		)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/resume/:uuid/analysis", func(c context.Context, ctx *app.RequestContext) {
		submissionUUID := ctx.Param("uuid")
		analysis, err := analysisHandler.GetAnalysis(c, submissionUUID)
		if err != nil {
			if errors.Is(err, handler.ErrSubmissionNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "分析结果不存在"})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, analysis)
	})

	api.GET("/resume/:uuid/download", func(c context.Context, ctx *app.RequestContext) {
		submissionUUID := ctx.Param("uuid")
		url, err := analysisHandler.GetDownloadURL(c, submissionUUID)
		if err != nil {
			if errors.Is(err, handler.ErrSubmissionNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "简历提交记录不存在"})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"download_url": url})
	})

	api.POST("/gap", func(c context.Context, ctx *app.RequestContext) {
		var req handler.GapRequest
		if err := ctx.BindJSON(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体格式错误"})
			return
		}

		result, err := analysisHandler.HandleGapAnalysis(c, &req)
		if err != nil {
			switch {
			case errors.Is(err, matcher.ErrInvalidInput):
				ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			case errors.Is(err, matcher.ErrDataUnavailable):
				ctx.JSON(consts.StatusServiceUnavailable, utils.H{"error": err.Error()})
			case errors.Is(err, handler.ErrSubmissionNotFound):
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "简历提交记录不存在"})
			default:
				ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			}
			return
		}
		ctx.JSON(consts.StatusOK, result)
	})

	api.POST("/resume/:uuid/score", func(c context.Context, ctx *app.RequestContext) {
		submissionUUID := ctx.Param("uuid")
		var req struct {
			JobDescription string `json:"job_description"`
		}
		if err := ctx.BindJSON(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体格式错误"})
			return
		}

		report, err := analysisHandler.HandleScoreEvaluation(c, submissionUUID, req.JobDescription)
		if err != nil {
			switch {
			case errors.Is(err, handler.ErrSubmissionNotFound):
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "简历提交记录不存在"})
			case errors.Is(err, scorer.ErrScoreParse):
				ctx.JSON(consts.StatusBadGateway, utils.H{"error": err.Error()})
			default:
				ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			}
			return
		}
		ctx.JSON(consts.StatusOK, report)
	})
}
