package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"resume-insight-go/internal/api/handler"
	"resume-insight-go/internal/api/router"
	"resume-insight-go/internal/cleaner"
	"resume-insight-go/internal/config"
	"resume-insight-go/internal/corpus"
	"resume-insight-go/internal/course"
	"resume-insight-go/internal/extractor"
	appCoreLogger "resume-insight-go/internal/logger"
	"resume-insight-go/internal/matcher"
	"resume-insight-go/internal/parser"
	"resume-insight-go/internal/processor"
	"resume-insight-go/internal/scorer"
	"resume-insight-go/internal/storage"
)

var (
	version     = "1.0.0"             //nolint:gochecknoglobals
	serviceName = "resume-insight-go" //nolint:gochecknoglobals
)

// @title Resume Insight API
// @version 1.0
// @description 简历信息抽取与技能差距分析服务
// @BasePath /api/v1
func main() {
	initLogger()

	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		glog.Fatalf("加载配置失败: %v", err)
	}
	glog.Info("配置加载成功")

	if cfg.Logger.Level != "" {
		if level, errLevel := zerolog.ParseLevel(cfg.Logger.Level); errLevel == nil {
			zerolog.SetGlobalLevel(level)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis/GORM/matcher的span都挂在这个provider上
	tracerProvider, err := initTracerProvider(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化链路追踪失败: %v", err)
	}
	otel.SetTracerProvider(tracerProvider)

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Info("存储服务初始化成功")

	// 语料加载是软失败的，缺失的文件只影响对应的抽取能力
	corpusData := corpus.Load(corpus.Config{
		SkillsFile:    cfg.Corpus.SkillsFile,
		CompaniesFile: cfg.Corpus.CompaniesFile,
		JobTitlesFile: cfg.Corpus.JobTitlesFile,
		LocationsFile: cfg.Corpus.LocationsFile,
		RolesFile:     cfg.Corpus.RolesFile,
	}, appCoreLogger.Logger)
	glog.Info("语料加载完成")

	segmenter, err := extractor.NewSegmenter()
	if err != nil {
		glog.Fatalf("初始化章节切分器失败: %v", err)
	}
	recognizer := extractor.NewRuleRecognizer(corpusData)
	extractors := extractor.DefaultExtractors(recognizer, corpusData)
	skillExtractor := extractor.NewSkillExtractor(nil, corpusData)

	// 没有可用的LLM端点实现，回退到MockLLMModel；清洗失败时流水线会退回原始技能列表
	var llmChatModel model.ChatModel
	glog.Warn("未接入真实LLM端点，使用MockLLMModel回退")
	llmChatModel = &processor.MockLLMModel{}

	skillNormalizer := cleaner.NewLLMSkillCleaner(llmChatModel)
	scoreEvaluator := scorer.NewLLMScoreEvaluator(llmChatModel)

	pdfExtractor, err := parser.NewEinoPDFExtractor(ctx, parser.WithPDFLogger(appCoreLogger.Logger))
	if err != nil {
		glog.Fatalf("创建Eino PDF提取器失败: %v", err)
	}
	glog.Info("Eino PDF提取器初始化成功")

	analyzer := processor.NewResumeAnalyzer(
		segmenter,
		extractors,
		skillExtractor,
		processor.WithSkillNormalizer(skillNormalizer),
		processor.WithAnalyzerLogger(appCoreLogger.Logger),
	)
	glog.Info("简历分析器初始化成功")

	var gapMatcher *matcher.GapMatcher
	gapOptions := []matcher.GapMatcherOption{
		matcher.WithCourseWorkers(cfg.CourseSearch.Workers),
		matcher.WithCourseTimeout(config.GetDuration(cfg.CourseSearch.SearchTimeout, course.DefaultSearchTimeout)),
		matcher.WithMaxCourseResults(cfg.CourseSearch.MaxResults),
		matcher.WithGapLogger(appCoreLogger.Logger),
	}
	if cfg.GapMatcher.NormalizeMissing {
		gapOptions = append(gapOptions, matcher.WithNormalizer(skillNormalizer))
	}
	if cfg.CourseSearch.APIKey != "" {
		gapOptions = append(gapOptions, matcher.WithCourseSearcher(course.NewYouTubeSearcher(cfg.CourseSearch.APIKey)))
	} else {
		glog.Warn("未配置YouTube API Key，差距分析不附带课程推荐")
	}
	gapMatcher, err = matcher.NewGapMatcher(corpusData, gapOptions...)
	if err != nil {
		glog.Warnf("初始化差距匹配器失败，差距分析接口不可用: %v", err)
		gapMatcher = nil
	} else {
		glog.Info("差距匹配器初始化成功")
	}

	resumeHandler := handler.NewResumeHandler(cfg, storageManager, pdfExtractor, analyzer, gapMatcher)
	analysisHandler := handler.NewAnalysisHandler(storageManager, gapMatcher, scoreEvaluator)
	glog.Info("业务处理器初始化成功")

	go func() {
		glog.Infof("启动简历分析消费者，预取数量: %d", cfg.RabbitMQ.PrefetchCount)
		if err := resumeHandler.StartAnalysisConsumer(context.Background(), cfg.RabbitMQ.PrefetchCount); err != nil {
			glog.Fatalf("启动简历分析消费者失败: %v", err)
		}
	}()

	serverTracer, serverTraceCfg := hertztracing.NewServerTracer()
	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		serverTracer,
	)
	h.Use(hertztracing.ServerMiddleware(serverTraceCfg))
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		glog.CtxInfof(c, "Request: %s %s", string(ctx.Method()), string(ctx.Path()))
		ctx.Next(c)
		glog.CtxInfof(c, "Response: status %d", ctx.Response.StatusCode())
	})

	router.RegisterRoutes(h, resumeHandler, analysisHandler, cfg.Server.APIKey)
	glog.Info("HTTP路由注册成功")

	glog.Infof("%s v%s 启动中，监听地址: %s", serviceName, version, cfg.Server.Address)
	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Fatalf("服务器关闭失败: %v", err)
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		glog.Warnf("关闭追踪provider失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

// initTracerProvider 构建追踪provider
// 未启用导出时返回只在进程内记录的provider，业务代码不感知差别
func initTracerProvider(ctx context.Context, cfg *config.Config) (*sdktrace.TracerProvider, error) {
	if !cfg.Tracing.Enabled || cfg.Tracing.OTLPEndpoint == "" {
		return sdktrace.NewTracerProvider(), nil
	}

	conn, err := grpc.Dial(cfg.Tracing.OTLPEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("连接OTLP端点 %s 失败: %w", cfg.Tracing.OTLPEndpoint, err)
	}

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("创建OTLP trace导出器失败: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.Tracing.ServiceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("构建追踪resource失败: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.Tracing.SamplingRate)),
	), nil
}

func initLogger() {
	logFilePath := "logs/app.log"
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Fatalf("无法创建日志目录: %v", err)
	}
	fileWriter, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatalf("无法打开日志文件 %s: %v", logFilePath, err)
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}
	multiWriter := zerolog.MultiLevelWriter(consoleWriter, fileWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimeFieldFormat = "15:04:05"

	logger := zerolog.New(multiWriter).With().Timestamp().Caller().Logger()
	appCoreLogger.Logger = logger
	zlog.Logger = logger

	// Hertz的hlog走同一个zerolog实例
	glog.SetLogger(hertzadapter.From(appCoreLogger.Logger))
	glog.SetLevel(glog.LevelInfo)
}
