// Package elastic mirrors tasks into an Elasticsearch index for name search.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

type TaskIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewTaskIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *TaskIndex {
	return &TaskIndex{ES: es, Index: index, Logger: logger}
}

type taskDoc struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Priority    string `json:"priority,omitempty"`
	IsCompleted bool   `json:"is_completed"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func (x *TaskIndex) IndexTask(ctx context.Context, t *entity.Task) error {
	doc := taskDoc{
		ID:          t.ID,
		UserID:      t.UserID,
		Name:        t.Name,
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339Nano),
	}
	if t.Priority != nil {
		doc.Priority = string(*t.Priority)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: t.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index task %s: %s", t.ID, res.Status())
	}
	return nil
}

// DeleteTask removes the document; a missing document is not an error.
func (x *TaskIndex) DeleteTask(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.Index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete task %s: %s", id, res.Status())
	}
	return nil
}

// SearchTasks returns ids of the user's tasks whose name matches q, best match first.
func (x *TaskIndex) SearchTasks(ctx context.Context, userID, q string, size int) ([]string, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"match": map[string]any{
						"name": map[string]any{"query": q, "fuzziness": "AUTO"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id.keyword": userID},
				},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.Index), x.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search tasks: %s", res.Status())
	}

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
	if x.Logger != nil {
		x.Logger.WithFields(logrus.Fields{"user_id": userID, "hits": len(ids)}).Debug("task search")
	}
	return ids, nil
}
