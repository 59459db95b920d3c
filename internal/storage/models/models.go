package models

import (
	"time"

	"gorm.io/datatypes"
)

// 简历提交的处理状态
const (
	StatusPendingAnalysis = "PENDING_ANALYSIS"
	StatusAnalyzed        = "ANALYZED"
	StatusAnalysisFailed  = "ANALYSIS_FAILED"
)

// ResumeSubmission 简历提交/快照表
type ResumeSubmission struct {
	SubmissionUUID      string    `gorm:"type:char(36);primaryKey"`
	SubmissionTimestamp time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);index:idx_rs_submission_timestamp"`
	OriginalFilename    string    `gorm:"type:varchar(255)"`
	OriginalFilePathOSS string    `gorm:"type:varchar(1024)"`
	ParsedTextPathOSS   string    `gorm:"type:varchar(1024)"`
	RawFileMD5          string    `gorm:"type:char(32);index:idx_rs_raw_file_md5"`
	ProcessingStatus    string    `gorm:"type:varchar(50);default:'PENDING_ANALYSIS';index:idx_rs_processing_status"`
	CreatedAt           time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt           time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (ResumeSubmission) TableName() string {
	return "resume_submissions"
}

// AnalysisResult 简历分析结果表
// 抽取产物以JSON列存储，结构与types包中的分析类型对应
type AnalysisResult struct {
	ResultID         uint64         `gorm:"primaryKey;autoIncrement"`
	SubmissionUUID   string         `gorm:"type:char(36);not null;uniqueIndex:idx_ar_submission_uuid"`
	SectionsJSON     datatypes.JSON `gorm:"type:json"`
	EntitiesJSON     datatypes.JSON `gorm:"type:json"`
	SkillsJSON       datatypes.JSON `gorm:"type:json"`
	CleanedSkills    datatypes.JSON `gorm:"type:json"`
	SkillsNormalized bool           `gorm:"type:tinyint(1);default:0"`
	CreatedAt        time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt        time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`

	ResumeSubmission *ResumeSubmission `gorm:"foreignKey:SubmissionUUID;references:SubmissionUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (AnalysisResult) TableName() string {
	return "analysis_results"
}

// GapReport 技能差距分析记录表
type GapReport struct {
	ReportID            uint64         `gorm:"primaryKey;autoIncrement"`
	SubmissionUUID      *string        `gorm:"type:char(36);index:idx_gr_submission_uuid"` // 可为空，支持不关联简历的临时查询
	JobDescriptionText  string         `gorm:"type:text;not null"`
	MatchedRole         string         `gorm:"type:varchar(255)"`
	MissingSkillsJSON   datatypes.JSON `gorm:"type:json"`
	RecommendationsJSON datatypes.JSON `gorm:"type:json"`
	CreatedAt           time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
}

func (GapReport) TableName() string {
	return "gap_reports"
}
