package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ppiankov/aletheia/internal/cache"
	"github.com/ppiankov/aletheia/internal/model"
	"github.com/tidwall/gjson"
)

// TrendingArticles fetches at most model.MaxArticles trending summaries.
// It never fails: any error is logged and the local mock list is returned instead.
func (c *Client) TrendingArticles(ctx context.Context, limit int) []model.Article {
	if limit <= 0 || limit > model.MaxArticles {
		limit = model.MaxArticles
	}

	articles, err := c.fetchArticles(ctx, limit)
	if err != nil {
		c.logger.Warn("trending articles unavailable, using local list", "error", err)
		return c.fallbackArticles(limit)
	}
	return articles
}

func (c *Client) fetchArticles(ctx context.Context, limit int) ([]model.Article, error) {
	path := articlesPath + "?limit=" + strconv.Itoa(limit)
	key := cache.Key(c.baseURL + path)

	if data, ok := c.cache.Get(key); ok {
		var cached []model.Article
		if err := json.Unmarshal(data, &cached); err == nil {
			c.logger.Debug("trending articles served from cache", "count", len(cached))
			return cached, nil
		}
		_ = c.cache.Delete(key)
	}

	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	articles, err := parseArticles(body, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(articles); err == nil {
		if err := c.cache.Set(key, data, c.cacheTTL); err != nil {
			c.logger.Debug("cache trending articles", "error", err)
		}
	}

	return articles, nil
}

// parseArticles accepts {articles: [...]}, a bare array, or {data: [...]}
func parseArticles(body []byte, limit int) ([]model.Article, error) {
	if !gjson.ValidBytes(body) {
		return nil, &MalformedResponseError{Reason: "response body is not valid JSON"}
	}

	root := gjson.ParseBytes(body)
	var list gjson.Result
	switch {
	case root.IsArray():
		list = root
	case root.Get("articles").IsArray():
		list = root.Get("articles")
	case root.Get("data").IsArray():
		list = root.Get("data")
	default:
		return nil, &MalformedResponseError{Reason: "no article list in response"}
	}

	articles := []model.Article{}
	for i, item := range list.Array() {
		if len(articles) >= limit {
			break
		}
		if !item.IsObject() {
			continue
		}
		articles = append(articles, normalizeArticle(item, i))
	}
	return articles, nil
}

func (c *Client) fallbackArticles(limit int) []model.Article {
	articles := c.defaults.Articles()
	if len(articles) > limit {
		articles = articles[:limit]
	}
	return articles
}
