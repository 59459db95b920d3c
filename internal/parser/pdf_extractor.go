package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
	"github.com/rs/zerolog"
)

// 单次PDF解析的上限，防止损坏文件拖死worker
const defaultParseTimeout = 30 * time.Second

// EinoPDFExtractor 使用Eino PDF Parser提取简历文本
type EinoPDFExtractor struct {
	parser  *pdf.PDFParser
	logger  zerolog.Logger
	timeout time.Duration
}

// EinoPDFOption PDF提取器的配置选项
type EinoPDFOption func(*EinoPDFExtractor)

// WithPDFLogger 设置日志记录器
func WithPDFLogger(logger zerolog.Logger) EinoPDFOption {
	return func(e *EinoPDFExtractor) { e.logger = logger }
}

// WithParseTimeout 设置单次解析超时
func WithParseTimeout(timeout time.Duration) EinoPDFOption {
	return func(e *EinoPDFExtractor) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// NewEinoPDFExtractor 初始化Eino PDF文本提取器
// ToPages为false：简历的章节切分需要整个文档的连续文本
func NewEinoPDFExtractor(ctx context.Context, options ...EinoPDFOption) (*EinoPDFExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: false,
	})
	if err != nil {
		return nil, fmt.Errorf("创建Eino PDF解析器失败: %w", err)
	}

	extractor := &EinoPDFExtractor{
		parser:  p,
		logger:  zerolog.Nop(),
		timeout: defaultParseTimeout,
	}
	for _, option := range options {
		option(extractor)
	}
	return extractor, nil
}

// ExtractFromFile 从PDF文件提取文本和元数据
func (e *EinoPDFExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("打开PDF文件失败 %s: %w", filePath, err)
	}
	defer file.Close()

	return e.ExtractTextFromReader(ctx, file, filePath)
}

// ExtractTextFromBytes 从字节数组提取文本和元数据
func (e *EinoPDFExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, map[string]interface{}, error) {
	return e.ExtractTextFromReader(ctx, bytes.NewReader(data), uri)
}

// ExtractTextFromReader 从io.Reader提取文本和元数据
// 多个文档的内容按顺序拼接，元数据取第一个文档并补充提取统计
func (e *EinoPDFExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string) (string, map[string]interface{}, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	docs, err := e.parser.Parse(ctx, reader, einoParser.WithURI(uri))
	duration := time.Since(startTime)
	if err != nil {
		e.logger.Warn().Err(err).Str("uri", uri).Dur("duration", duration).Msg("PDF解析失败")
		return "", nil, fmt.Errorf("eino PDF解析失败 %s: %w", uri, err)
	}
	if len(docs) == 0 {
		return "", nil, fmt.Errorf("eino PDF解析没有返回文档 %s", uri)
	}

	var content bytes.Buffer
	for i, doc := range docs {
		if i > 0 {
			content.WriteString("\n\n")
		}
		content.WriteString(doc.Content)
	}

	metadata := make(map[string]interface{})
	if docs[0].MetaData != nil {
		for k, v := range docs[0].MetaData {
			metadata[k] = v
		}
	}
	metadata["source_uri"] = uri
	metadata["document_count"] = len(docs)
	metadata["text_length"] = content.Len()
	metadata["processing_duration_ms"] = duration.Milliseconds()

	e.logger.Debug().
		Str("uri", uri).
		Int("chars", content.Len()).
		Dur("duration", duration).
		Msg("PDF文本提取完成")
	return content.String(), metadata, nil
}
