// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-cookie-sync/internal/config"
	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/MKhiriev/go-cookie-sync/internal/utils"
	"github.com/MKhiriev/go-cookie-sync/models"
	"github.com/go-resty/resty/v2"
)

// PlaceholderContent is written into a freshly created gist. A gist still
// holding it has never been pushed to.
const PlaceholderContent = "initialized-by-cookiesync"

const (
	githubAccept     = "application/vnd.github+json"
	githubAPIVersion = "2022-11-28"

	headerETag        = "ETag"
	headerIfMatch     = "If-Match"
	headerIfNoneMatch = "If-None-Match"

	gistsPageSize = 100
	maxGistPages  = 50

	defaultRetryWait = time.Second
)

type gistAdapter struct {
	client *utils.HTTPClient

	description string
	fileName    string

	limiter *rateLimiter
	logger  *logger.Logger
}

// NewGistAdapter constructs a GitHub Gist implementation of [RemoteStore].
// The remote object is the first gist whose description equals
// cfg.Description and which contains a file named cfg.FileName.
//
// Requests carry the GitHub JSON media type and API version headers, retry
// cfg.RetryCount times when refused for rate limiting, and pause when fewer
// than cfg.RateLimitThreshold requests remain in the current window.
//
// Returns an error if cfg.BaseURL is empty or not a valid URL.
func NewGistAdapter(cfg config.ClientRemote, log *logger.Logger) (RemoteStore, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote base url: %w", err)
	}

	limiter := newRateLimiter(cfg.RateLimitThreshold, cfg.MaxRateLimitWait, log)
	return newGistAdapter(cfg, baseURL, limiter, defaultRetryWait, log), nil
}

func newGistAdapter(cfg config.ClientRemote, baseURL string, limiter *rateLimiter, retryWait time.Duration, log *logger.Logger) *gistAdapter {
	client := utils.NewHTTPClient(
		utils.WithBaseURL(baseURL),
		utils.WithTimeout(cfg.RequestTimeout),
		utils.WithHeaders(map[string]string{
			"Accept":               githubAccept,
			"X-GitHub-Api-Version": githubAPIVersion,
		}),
		utils.WithRetries(cfg.RetryCount, retryWait, cfg.MaxRateLimitWait),
		utils.WithBearerToken(cfg.Token),
	)

	client.
		AddRetryCondition(limiter.retryCondition).
		SetRetryAfter(limiter.retryAfter).
		OnAfterResponse(limiter.afterResponse)

	return &gistAdapter{
		client:      client,
		description: cfg.Description,
		fileName:    cfg.FileName,
		limiter:     limiter,
		logger:      log,
	}
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyAddress
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Locate implements [RemoteStore]. It walks the authenticated user's gists
// page by page.
func (g *gistAdapter) Locate(ctx context.Context, token string) (models.RemoteObject, error) {
	for page := 1; page <= maxGistPages; page++ {
		resp, err := g.authedRequest(ctx, token).
			SetQueryParams(map[string]string{
				"per_page": strconv.Itoa(gistsPageSize),
				"page":     strconv.Itoa(page),
			}).
			Get("/gists")
		if err != nil {
			g.log(ctx).Err(err).Str("func", "gistAdapter.Locate").Int("page", page).Msg("list gists request failed")
			return models.RemoteObject{}, fmt.Errorf("list gists: %w", err)
		}
		if err = mapHTTPError(resp); err != nil {
			return models.RemoteObject{}, fmt.Errorf("list gists: %w", err)
		}

		var gists []models.Gist
		if err = json.Unmarshal(resp.Body(), &gists); err != nil {
			return models.RemoteObject{}, fmt.Errorf("%w: decode gist list: %v", ErrUnexpectedResponse, err)
		}

		for _, gist := range gists {
			if gist.Description != g.description {
				continue
			}
			if _, ok := gist.Files[g.fileName]; !ok {
				continue
			}
			g.log(ctx).Debug().Str("func", "gistAdapter.Locate").Str("gist_id", gist.ID).Msg("remote object located")
			return models.RemoteObject{ID: gist.ID, URL: gist.HTMLURL}, nil
		}

		if len(gists) < gistsPageSize {
			break
		}
	}

	return models.RemoteObject{}, ErrRemoteNotFound
}

// Create implements [RemoteStore]. The gist is secret and holds
// [PlaceholderContent] until the first push.
func (g *gistAdapter) Create(ctx context.Context, token string) (models.RemoteObject, error) {
	public := false
	body := models.GistWriteRequest{
		Description: g.description,
		Public:      &public,
		Files: map[string]models.GistFileContents{
			g.fileName: {Content: PlaceholderContent},
		},
	}

	resp, err := g.authedRequest(ctx, token).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/gists")
	if err != nil {
		g.log(ctx).Err(err).Str("func", "gistAdapter.Create").Msg("create gist request failed")
		return models.RemoteObject{}, fmt.Errorf("create gist: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RemoteObject{}, fmt.Errorf("create gist: %w", err)
	}

	var gist models.Gist
	if err = json.Unmarshal(resp.Body(), &gist); err != nil || gist.ID == "" {
		return models.RemoteObject{}, fmt.Errorf("%w: created gist has no id", ErrUnexpectedResponse)
	}

	g.log(ctx).Info().Str("func", "gistAdapter.Create").Str("gist_id", gist.ID).Msg("remote object created")
	return models.RemoteObject{ID: gist.ID, URL: gist.HTMLURL}, nil
}

// LocateOrCreate implements [RemoteStore].
func (g *gistAdapter) LocateOrCreate(ctx context.Context, token string) (models.RemoteObject, error) {
	obj, err := g.Locate(ctx, token)
	if err == nil {
		return obj, nil
	}
	if !errors.Is(err, ErrRemoteNotFound) {
		return models.RemoteObject{}, err
	}
	return g.Create(ctx, token)
}

// Fetch implements [RemoteStore]. Files the API reports as truncated are
// downloaded in full from their raw URL.
func (g *gistAdapter) Fetch(ctx context.Context, token, objectID, knownETag string) (models.RemoteBlob, error) {
	req := g.authedRequest(ctx, token).SetPathParam("id", objectID)
	if knownETag != "" {
		req.SetHeader(headerIfNoneMatch, knownETag)
	}

	resp, err := req.Get("/gists/{id}")
	if err != nil {
		g.log(ctx).Err(err).Str("func", "gistAdapter.Fetch").Str("gist_id", objectID).Msg("fetch gist request failed")
		return models.RemoteBlob{}, fmt.Errorf("fetch gist %s: %w", objectID, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RemoteBlob{}, fmt.Errorf("fetch gist %s: %w", objectID, err)
	}

	var gist models.Gist
	if err = json.Unmarshal(resp.Body(), &gist); err != nil {
		return models.RemoteBlob{}, fmt.Errorf("%w: decode gist: %v", ErrUnexpectedResponse, err)
	}

	file, ok := gist.Files[g.fileName]
	if !ok {
		return models.RemoteBlob{}, fmt.Errorf("%w: gist %s has no file %q", ErrRemoteEmpty, objectID, g.fileName)
	}

	content := file.Content
	if file.Truncated && file.RawURL != "" {
		if content, err = g.fetchRaw(ctx, token, file.RawURL); err != nil {
			return models.RemoteBlob{}, err
		}
	}

	if content == "" || content == PlaceholderContent {
		return models.RemoteBlob{}, fmt.Errorf("%w: gist %s", ErrRemoteEmpty, objectID)
	}

	return models.RemoteBlob{Content: []byte(content), ETag: resp.Header().Get(headerETag)}, nil
}

func (g *gistAdapter) fetchRaw(ctx context.Context, token, rawURL string) (string, error) {
	resp, err := g.authedRequest(ctx, token).
		SetHeader("Accept", "text/plain").
		Get(rawURL)
	if err != nil {
		return "", fmt.Errorf("fetch raw gist file: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", fmt.Errorf("fetch raw gist file: %w", err)
	}
	return string(resp.Body()), nil
}

// Push implements [RemoteStore].
func (g *gistAdapter) Push(ctx context.Context, token, objectID, knownETag string, blob []byte) (string, error) {
	body := models.GistWriteRequest{
		Files: map[string]models.GistFileContents{
			g.fileName: {Content: string(blob)},
		},
	}

	req := g.authedRequest(ctx, token).
		SetPathParam("id", objectID).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if knownETag != "" {
		req.SetHeader(headerIfMatch, knownETag)
	}

	resp, err := req.Patch("/gists/{id}")
	if err != nil {
		g.log(ctx).Err(err).Str("func", "gistAdapter.Push").Str("gist_id", objectID).Msg("update gist request failed")
		return "", fmt.Errorf("update gist %s: %w", objectID, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", fmt.Errorf("update gist %s: %w", objectID, err)
	}

	etag := resp.Header().Get(headerETag)
	if etag == "" {
		return "", ErrMissingETag
	}
	return etag, nil
}

// log returns the run-scoped logger when ctx belongs to a sync run.
func (g *gistAdapter) log(ctx context.Context) *logger.Logger {
	if _, ok := utils.GetRunIDFromContext(ctx); ok {
		return logger.FromContext(ctx)
	}
	return g.logger
}

func (g *gistAdapter) authedRequest(ctx context.Context, token string) *resty.Request {
	req := g.client.R().SetContext(ctx)
	if token = strings.TrimSpace(token); token != "" {
		req.SetAuthToken(token)
	}
	return req
}
