// Package search maintains the Elasticsearch video index backing the
// full-text stage of the discovery pipeline.
package search

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/vidtube/backend/internal/domain/entity"
)

// VideoIndex indexes video metadata and resolves full-text queries to ids.
// A nil *VideoIndex is valid and disables the Elasticsearch stage; callers
// fall back to the SQL search stage.
type VideoIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewVideoIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *VideoIndex {
	if es == nil || index == "" {
		return nil
	}
	return &VideoIndex{ES: es, Index: index, Logger: logger}
}

// Upsert indexes the searchable fields of a video. Best-effort: failures are
// logged, never surfaced, so a search outage cannot block publishing.
func (s *VideoIndex) Upsert(ctx context.Context, v *entity.Video) {
	if s == nil {
		return
	}
	doc := map[string]any{
		"id":          v.ID,
		"ownerId":     v.OwnerID,
		"title":       v.Title,
		"description": v.Description,
		"isPublished": v.IsPublished,
		"createdAt":   v.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.Index, DocumentID: v.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.warn("es index failed", v.ID, err)
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.warn("es index response error: "+res.Status(), v.ID, nil)
	}
}

// Remove drops a video document from the index. Best-effort.
func (s *VideoIndex) Remove(ctx context.Context, videoID string) {
	if s == nil {
		return
	}
	req := esapi.DeleteRequest{Index: s.Index, DocumentID: videoID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.warn("es delete failed", videoID, err)
		return
	}
	_ = res.Body.Close()
}

// Search resolves a full-text query over title/description to video ids.
func (s *VideoIndex) Search(ctx context.Context, query string, size int) ([]string, error) {
	if s == nil {
		return nil, nil
	}
	if size <= 0 || size > 500 {
		size = 100
	}
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  query,
				"fields": []string{"title^2", "description"},
			},
		},
		"_source": false,
		"size":    size,
	}
	b, _ := json.Marshal(body)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

func (s *VideoIndex) warn(msg, videoID string, err error) {
	if s.Logger == nil {
		return
	}
	e := s.Logger.WithField("video_id", videoID)
	if err != nil {
		e = e.WithError(err)
	}
	e.Warn(msg)
}
