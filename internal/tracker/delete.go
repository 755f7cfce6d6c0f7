package tracker

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/wisync/internal/domain"
)

// DeleteWorkItems deletes every id independently with at most
// DeleteConcurrency requests in flight. Every id appears in the result;
// an id whose request failed or never ran is false. It never fails as a
// whole. Requests complete in any order; deleting a parent before its
// children only moves it to the recycle bin, so order does not matter.
func (c *Client) DeleteWorkItems(ctx context.Context, ids []int) domain.DeleteBatchResult {
	result := domain.NewDeleteBatchResult(ids)
	unique := make([]int, 0, len(result.Outcomes))
	seen := make(map[int]bool, len(result.Outcomes))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(c.opts.DeleteConcurrency)

	for _, id := range unique {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			err := c.deleteWorkItem(ctx, id)
			if err != nil {
				c.logger.DebugContext(ctx, "tracker_delete_failed", "id", id, "error", err.Error())
				return nil
			}
			mu.Lock()
			result.Outcomes[id] = true
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return result
}
