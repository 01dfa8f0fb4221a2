// Package tmdb TMDB API 客户端
package tmdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/smysle/sakura-cinelist-go/internal/config"
	"github.com/smysle/sakura-cinelist-go/pkg/logger"
)

// ErrUpstream TMDB 不可用或响应异常
var ErrUpstream = errors.New("TMDB 服务异常")

// Client TMDB API 客户端
type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	httpClient   *resty.Client
}

// NewClient 创建 TMDB 客户端
func NewClient(cfg *config.TMDBConfig) *Client {
	client := resty.New()
	client.SetTimeout(time.Duration(cfg.Timeout) * time.Second)
	client.SetHeaders(map[string]string{
		"Accept":     "application/json",
		"User-Agent": "SakuraCineList/1.0 Go",
	})

	return &Client{
		baseURL:      cfg.BaseURL,
		imageBaseURL: cfg.ImageBaseURL,
		apiKey:       cfg.APIKey,
		httpClient:   client,
	}
}

// Candidate 搜索候选条目
type Candidate struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
}

// MovieDetail 影片详情
type MovieDetail struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	Overview    string `json:"overview"`
	PosterPath  string `json:"poster_path"`
}

// searchResponse 搜索接口响应
type searchResponse struct {
	Results []Candidate `json:"results"`
}

// SearchMovies 按标题搜索影片，候选顺序与 TMDB 返回一致
func (c *Client) SearchMovies(query string) ([]Candidate, error) {
	if query == "" {
		return nil, fmt.Errorf("搜索关键词不能为空")
	}

	body, err := c.get("/search/movie", map[string]string{"query": query})
	if err != nil {
		return nil, err
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: 解析搜索响应失败: %v", ErrUpstream, err)
	}

	logger.Info().Str("query", query).Int("count", len(result.Results)).Msg("TMDB 搜索完成")
	return result.Results, nil
}

// GetMovieDetail 获取影片详情
func (c *Client) GetMovieDetail(id int) (*MovieDetail, error) {
	body, err := c.get("/movie/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, err
	}

	var detail MovieDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("%w: 解析详情响应失败: %v", ErrUpstream, err)
	}

	return &detail, nil
}

// ImageURL 拼接完整海报地址
func (c *Client) ImageURL(posterPath string) string {
	return c.imageBaseURL + posterPath
}

// get 发送带 api_key 的 GET 请求
func (c *Client) get(endpoint string, params map[string]string) ([]byte, error) {
	req := c.httpClient.R().SetQueryParam("api_key", c.apiKey)
	if params != nil {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(c.baseURL + endpoint)
	if err != nil {
		logger.Error().Err(err).Str("endpoint", endpoint).Msg("TMDB 请求失败")
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if resp.StatusCode() != 200 {
		logger.Warn().Int("status", resp.StatusCode()).Str("endpoint", endpoint).Msg("TMDB 返回异常状态码")
		return nil, fmt.Errorf("%w: HTTP %d", ErrUpstream, resp.StatusCode())
	}

	return resp.Body(), nil
}
