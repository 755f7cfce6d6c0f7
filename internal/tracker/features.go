package tracker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alexanderramin/wisync/internal/domain"
)

// maxBatchIDs is the most ids the batch get endpoint accepts.
const maxBatchIDs = 200

var featureFields = []string{
	refID, refTitle, refState, refCreatedDate, refAssignedTo,
	refAreaPath, refIterationPath, refTags,
}

// ListFeatures returns Features carrying the ownership tag, newest first.
func (c *Client) ListFeatures(ctx context.Context) ([]domain.Feature, error) {
	const op = "list features"

	resp, err := c.do(ctx, op, request{
		method:      http.MethodPost,
		path:        "/wiql",
		contentType: contentJSON,
		body:        wiqlRequest{Query: featureQuery(c.opts.Tag)},
	})
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, statusError(domain.KindNetwork, op, resp)
	}

	var result wiqlResponse
	if err := resp.decode(&result); err != nil {
		return nil, domain.NewError(domain.KindNetwork, op, err)
	}

	ids := make([]int, 0, len(result.WorkItems))
	for _, wi := range result.WorkItems {
		ids = append(ids, wi.ID)
	}

	byID := make(map[int]workItemResponse, len(ids))
	for start := 0; start < len(ids); start += maxBatchIDs {
		end := min(start+maxBatchIDs, len(ids))
		batch, err := c.getBatch(ctx, op, ids[start:end])
		if err != nil {
			return nil, err
		}
		for _, wi := range batch {
			byID[wi.ID] = wi
		}
	}

	features := make([]domain.Feature, 0, len(ids))
	for _, id := range ids {
		wi, ok := byID[id]
		if !ok {
			continue // deleted between the query and the fetch
		}
		features = append(features, wi.toFeature(c.cfg.ItemURL(id)))
	}
	return features, nil
}

func (c *Client) getBatch(ctx context.Context, op string, ids []int) ([]workItemResponse, error) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}

	resp, err := c.do(ctx, op, request{
		method: http.MethodGet,
		path:   "/workitems",
		query: url.Values{
			"ids":    {strings.Join(parts, ",")},
			"fields": {strings.Join(featureFields, ",")},
		},
	})
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, statusError(domain.KindNetwork, op, resp)
	}

	var list workItemList
	if err := resp.decode(&list); err != nil {
		return nil, domain.NewError(domain.KindNetwork, op, err)
	}
	return list.Value, nil
}

func featureQuery(tag string) string {
	return fmt.Sprintf(
		"SELECT [System.Id] FROM WorkItems WHERE [System.TeamProject] = @project "+
			"AND [System.WorkItemType] = 'Feature' AND [System.Tags] CONTAINS '%s' "+
			"ORDER BY [System.CreatedDate] DESC",
		strings.ReplaceAll(tag, "'", "''"))
}
