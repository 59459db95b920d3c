package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"resume-insight-go/internal/config"
	"resume-insight-go/internal/storage/models"
	"resume-insight-go/internal/types"
	"resume-insight-go/pkg/utils"
)

var mysqlTracer = otel.Tracer("resume-insight-go/storage/mysql")

// GormTracingPlugin GORM插件，向OpenTelemetry上报数据库操作
type GormTracingPlugin struct {
	tracer trace.Tracer
	dbName string
}

// Name 返回插件名称
func (p *GormTracingPlugin) Name() string {
	return "GormOpenTelemetryPlugin"
}

type gormSpanKey struct{}

// Initialize 注册GORM回调以启用追踪
func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	type hook struct {
		op       string
		register func() error
	}
	hooks := []hook{
		{"CREATE", func() error {
			if err := cb.Create().Before("gorm:create").Register("otel:before_create", p.before("CREATE")); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Register("otel:after_create", p.after())
		}},
		{"SELECT", func() error {
			if err := cb.Query().Before("gorm:query").Register("otel:before_query", p.before("SELECT")); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Register("otel:after_query", p.after())
		}},
		{"UPDATE", func() error {
			if err := cb.Update().Before("gorm:update").Register("otel:before_update", p.before("UPDATE")); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Register("otel:after_update", p.after())
		}},
		{"DELETE", func() error {
			if err := cb.Delete().Before("gorm:delete").Register("otel:before_delete", p.before("DELETE")); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Register("otel:after_delete", p.after())
		}},
	}
	for _, h := range hooks {
		if err := h.register(); err != nil {
			return fmt.Errorf("注册%s追踪回调失败: %w", h.op, err)
		}
	}
	return nil
}

func (p *GormTracingPlugin) before(operation string) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}

		tableName := db.Statement.Table
		if tableName == "" {
			tableName = "unknown"
		}

		newCtx, span := p.tracer.Start(ctx, fmt.Sprintf("%s %s", operation, tableName),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemMySQL,
				attribute.String("db.name", p.dbName),
				attribute.String("db.operation", operation),
				attribute.String("db.sql.table", tableName),
			),
		)
		db.Statement.Context = context.WithValue(newCtx, gormSpanKey{}, span)
	}
}

func (p *GormTracingPlugin) after() func(db *gorm.DB) {
	return func(db *gorm.DB) {
		span, ok := db.Statement.Context.Value(gormSpanKey{}).(trace.Span)
		if !ok {
			return
		}
		defer span.End()

		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))

		if db.Error != nil {
			// ErrRecordNotFound属于业务正常分支，不当作错误上报
			if db.Error == gorm.ErrRecordNotFound {
				span.SetStatus(codes.Ok, "record not found")
			} else {
				span.RecordError(db.Error)
				span.SetStatus(codes.Error, db.Error.Error())
			}
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}
}

// NewGormTracingPlugin 创建GORM追踪插件
func NewGormTracingPlugin(dbName string) *GormTracingPlugin {
	return &GormTracingPlugin{
		tracer: mysqlTracer,
		dbName: dbName,
	}
}

// MySQL 提供关系数据库功能
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL 创建MySQL客户端并自动迁移表结构
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
		cfg.ConnectTimeoutSeconds, cfg.ReadTimeoutSeconds, cfg.WriteTimeoutSeconds)

	var logLevel logger.LogLevel
	switch cfg.LogLevel {
	case 1:
		logLevel = logger.Silent
	case 2:
		logLevel = logger.Error
	case 3:
		logLevel = logger.Warn
	default:
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logLevel),
		PrepareStmt:                              true,
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute)

	if err := db.Use(NewGormTracingPlugin(cfg.Database)); err != nil {
		return nil, fmt.Errorf("注册追踪插件失败: %w", err)
	}

	m := &MySQL{db: db, cfg: cfg}
	if err := m.autoMigrateSchema(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("自动迁移数据库结构失败: %w", err)
	}

	log.Info().Str("database", cfg.Database).Msg("成功连接到MySQL并自动迁移数据库结构")
	return m, nil
}

// autoMigrateSchema 使用GORM自动迁移数据库表结构
func (m *MySQL) autoMigrateSchema() error {
	silentDB := m.db.Session(&gorm.Session{Logger: m.db.Logger.LogMode(logger.Silent)})
	err := silentDB.AutoMigrate(
		&models.ResumeSubmission{},
		&models.AnalysisResult{},
		&models.GapReport{},
	)
	if err != nil {
		return fmt.Errorf("GORM自动迁移失败: %w", err)
	}
	return nil
}

// DB 返回GORM数据库连接实例
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// Close 关闭数据库连接
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	return sqlDB.Close()
}

// CreateSubmission 创建简历提交记录
func (m *MySQL) CreateSubmission(ctx context.Context, submission *models.ResumeSubmission) error {
	if err := m.db.WithContext(ctx).Create(submission).Error; err != nil {
		return fmt.Errorf("创建简历提交记录失败: %w", err)
	}
	return nil
}

// GetSubmission 按UUID查询简历提交记录
func (m *MySQL) GetSubmission(ctx context.Context, submissionUUID string) (*models.ResumeSubmission, error) {
	var submission models.ResumeSubmission
	err := m.db.WithContext(ctx).
		Where("submission_uuid = ?", submissionUUID).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// UpdateSubmissionStatus 更新简历提交记录的处理状态与解析文本路径
func (m *MySQL) UpdateSubmissionStatus(ctx context.Context, submissionUUID, status, parsedTextPath string) error {
	updates := map[string]interface{}{"processing_status": status}
	if parsedTextPath != "" {
		updates["parsed_text_path_oss"] = parsedTextPath
	}
	err := m.db.WithContext(ctx).
		Model(&models.ResumeSubmission{}).
		Where("submission_uuid = ?", submissionUUID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("更新简历提交状态失败: %w", err)
	}
	return nil
}

// SaveAnalysisResult 保存分析结果，同一submission重复分析时覆盖旧结果
func (m *MySQL) SaveAnalysisResult(ctx context.Context, submissionUUID string, analysis *types.ResumeAnalysis) error {
	sectionsJSON, err := json.Marshal(analysis.Sections)
	if err != nil {
		return fmt.Errorf("序列化章节数据失败: %w", err)
	}
	entitiesJSON, err := json.Marshal(analysis.Entities)
	if err != nil {
		return fmt.Errorf("序列化实体数据失败: %w", err)
	}
	skillsJSON, err := json.Marshal(analysis.Skills)
	if err != nil {
		return fmt.Errorf("序列化技能数据失败: %w", err)
	}
	result := &models.AnalysisResult{
		SubmissionUUID:   submissionUUID,
		SectionsJSON:     sectionsJSON,
		EntitiesJSON:     entitiesJSON,
		SkillsJSON:       skillsJSON,
		CleanedSkills:    utils.ConvertArrayToJSON(analysis.CleanedSkills),
		SkillsNormalized: analysis.Normalized,
	}

	err = m.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "submission_uuid"}},
			DoUpdates: clause.AssignmentColumns([]string{"sections_json", "entities_json", "skills_json", "cleaned_skills", "skills_normalized", "updated_at"}),
		}).
		Create(result).Error
	if err != nil {
		return fmt.Errorf("保存分析结果失败: %w", err)
	}
	return nil
}

// GetAnalysisResult 按UUID查询分析结果
func (m *MySQL) GetAnalysisResult(ctx context.Context, submissionUUID string) (*models.AnalysisResult, error) {
	var result models.AnalysisResult
	err := m.db.WithContext(ctx).
		Where("submission_uuid = ?", submissionUUID).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SaveGapReport 保存差距分析记录
func (m *MySQL) SaveGapReport(ctx context.Context, submissionUUID, jobDescription string, gap *types.GapResult) error {
	missingJSON, err := json.Marshal(gap.MissingSkills)
	if err != nil {
		return fmt.Errorf("序列化缺失技能失败: %w", err)
	}
	recJSON, err := json.Marshal(gap.Recommendations)
	if err != nil {
		return fmt.Errorf("序列化课程推荐失败: %w", err)
	}

	report := &models.GapReport{
		JobDescriptionText:  jobDescription,
		MatchedRole:         gap.MatchedRole,
		MissingSkillsJSON:   missingJSON,
		RecommendationsJSON: recJSON,
	}
	if submissionUUID != "" {
		report.SubmissionUUID = &submissionUUID
	}

	if err := m.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("保存差距分析记录失败: %w", err)
	}
	return nil
}
