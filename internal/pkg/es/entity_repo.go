package es

import (
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/refresh"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/goccy/go-json"
)

type EntityRepo interface {
	IndexEntity(ctx context.Context, entity *EntityES) error
	DeleteEntity(ctx context.Context, id uint64) error
	SearchByPrefix(ctx context.Context, prefix string, lastSortValues []interface{}, size int) ([]*EntityES, error)
}

type EntityRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewEntityRepo(client *elasticsearch.TypedClient) EntityRepo {
	return &EntityRepoImpl{client: client}
}

func (s *EntityRepoImpl) IndexEntity(ctx context.Context, entity *EntityES) error {
	docID := strconv.FormatUint(entity.ID, 10)
	_, err := s.client.Index(EntityIndex).
		Id(docID).
		Document(entity).
		Refresh(refresh.Waitfor).
		Do(ctx)
	return err
}

func (s *EntityRepoImpl) DeleteEntity(ctx context.Context, id uint64) error {
	docID := strconv.FormatUint(id, 10)
	_, err := s.client.Delete(EntityIndex, docID).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == NotFoundCode {
			log.WarnContext(ctx, "Entity already deleted or not found in ES", "id", id)
			return nil
		}
		return err
	}
	return nil
}

// SearchByPrefix 按名称前缀搜索，按名称和 id 排序，lastSortValues 为上一页最后一条的排序值
func (s *EntityRepoImpl) SearchByPrefix(ctx context.Context, prefix string, lastSortValues []interface{}, size int) ([]*EntityES, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))

	req := s.client.Search().
		Index(EntityIndex).
		Query(&types.Query{
			Bool: &types.BoolQuery{
				Should: []types.Query{
					{MatchPhrasePrefix: map[string]types.MatchPhrasePrefixQuery{"name": {Query: prefix}}},
					{Prefix: map[string]types.PrefixQuery{"name.keyword": {Value: prefix}}},
				},
				MinimumShouldMatch: 1,
			},
		}).
		Sort(
			types.SortOptions{SortOptions: map[string]types.FieldSort{"name.keyword": {Order: &sortorder.Asc}}},
			types.SortOptions{SortOptions: map[string]types.FieldSort{"id": {Order: &sortorder.Asc}}},
		).
		Size(size)

	if len(lastSortValues) > 0 {
		searchAfterValues := make([]types.FieldValue, len(lastSortValues))
		for i, v := range lastSortValues {
			searchAfterValues[i] = v
		}
		req.SearchAfter(searchAfterValues...)
	}

	resp, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*EntityES, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var entity EntityES
		if err = json.Unmarshal(hit.Source_, &entity); err != nil {
			continue
		}
		if len(hit.Sort) > 0 {
			entity.Sort = make([]interface{}, len(hit.Sort))
			for i, v := range hit.Sort {
				entity.Sort[i] = v
			}
		}
		results = append(results, &entity)
	}
	return results, nil
}
