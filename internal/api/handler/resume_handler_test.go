package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-insight-go/internal/storage"
)

type stubMD5Remover struct {
	removed []string
	err     error
}

func (s *stubMD5Remover) RemoveRawFileMD5(_ context.Context, md5Hex string) error {
	s.removed = append(s.removed, md5Hex)
	return s.err
}

type stubObjectRemover struct {
	deleted []string
	err     error
}

func (s *stubObjectRemover) DeleteResumeFile(_ context.Context, objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	return s.err
}

func TestRollbackUploadArtifacts(t *testing.T) {
	dedupe := &stubMD5Remover{}
	objects := &stubObjectRemover{}
	message := storage.ResumeUploadMessage{
		RawFileMD5:          "abc123",
		OriginalFilePathOSS: "resume/u1/original.pdf",
	}

	rollbackUploadArtifacts(context.Background(), dedupe, objects, message)

	assert.Equal(t, []string{"abc123"}, dedupe.removed, "应从去重集合移除MD5，允许重新上传")
	assert.Equal(t, []string{"resume/u1/original.pdf"}, objects.deleted, "应删除已上传的原始文件")
}

func TestRollbackUploadArtifactsPartialFailure(t *testing.T) {
	dedupe := &stubMD5Remover{err: errors.New("redis down")}
	objects := &stubObjectRemover{}
	message := storage.ResumeUploadMessage{
		RawFileMD5:          "abc123",
		OriginalFilePathOSS: "resume/u1/original.pdf",
	}

	rollbackUploadArtifacts(context.Background(), dedupe, objects, message)

	assert.Equal(t, []string{"resume/u1/original.pdf"}, objects.deleted, "MD5回滚失败不应阻止文件清理")
}

func TestRollbackUploadArtifactsEmptyFields(t *testing.T) {
	dedupe := &stubMD5Remover{}
	objects := &stubObjectRemover{}

	rollbackUploadArtifacts(context.Background(), dedupe, objects, storage.ResumeUploadMessage{})

	assert.Empty(t, dedupe.removed, "空MD5不触发去重回滚")
	assert.Empty(t, objects.deleted, "空对象键不触发删除")
}
