package course

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"resume-insight-go/internal/types"
)

// Searcher 课程搜索能力
// 按技能名查询学习资源，返回有序的(标题, 链接)列表，可能为空
type Searcher interface {
	Search(ctx context.Context, topic string, maxResults int) ([]types.CourseLink, error)
}

// DefaultSearchTimeout 单次搜索调用的默认超时
const DefaultSearchTimeout = 3 * time.Second

// YouTubeSearcher 基于YouTube Data API v3的课程搜索器
type YouTubeSearcher struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// YouTubeOption 搜索器的配置选项
type YouTubeOption func(*YouTubeSearcher)

// WithBaseURL 覆盖API地址，测试时指向本地服务
func WithBaseURL(baseURL string) YouTubeOption {
	return func(s *YouTubeSearcher) {
		s.baseURL = baseURL
	}
}

// WithHTTPClient 设置自定义HTTP客户端
func WithHTTPClient(client *http.Client) YouTubeOption {
	return func(s *YouTubeSearcher) {
		s.client = client
	}
}

// NewYouTubeSearcher 创建YouTube课程搜索器
func NewYouTubeSearcher(apiKey string, options ...YouTubeOption) *YouTubeSearcher {
	s := &YouTubeSearcher{
		apiKey:  apiKey,
		baseURL: "https://www.googleapis.com/youtube/v3/search",
		client:  &http.Client{Timeout: DefaultSearchTimeout},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// searchResponse YouTube搜索响应中本服务关心的字段
type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
	} `json:"items"`
}

// Search 实现Searcher接口
// 查询词不含course时自动追加"full course"，并限定长视频
func (s *YouTubeSearcher) Search(ctx context.Context, topic string, maxResults int) ([]types.CourseLink, error) {
	query := strings.TrimSpace(topic)
	if query == "" {
		return nil, nil
	}
	if !strings.Contains(strings.ToLower(query), "course") {
		query += " full course"
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("key", s.apiKey)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("videoDuration", "long")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("构建课程搜索请求失败: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("课程搜索请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("课程搜索返回非预期状态码: %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("解析课程搜索响应失败: %w", err)
	}

	links := make([]types.CourseLink, 0, len(body.Items))
	for _, item := range body.Items {
		if item.ID.VideoID == "" {
			continue
		}
		links = append(links, types.CourseLink{
			Title: item.Snippet.Title,
			URL:   "https://www.youtube.com/watch?v=" + item.ID.VideoID,
		})
	}
	return links, nil
}
