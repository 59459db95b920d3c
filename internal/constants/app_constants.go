package constants

import "time"

const (
	// Redis键：已上传简历文件的MD5去重集合
	RawFileMD5SetKey = "resumes:file_md5s"

	// Redis键前缀：分析结果缓存
	AnalysisCachePrefix   = "analysis:"
	AnalysisCacheDuration = 24 * time.Hour
)
