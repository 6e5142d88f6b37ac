package admin

import (
	"context"
	"fmt"
	"sync"

	"goldmart/internal/domain"
)

// Dashboard gathers the entity counts. Products, orders and users come from
// the backend in parallel; messages are counted in the local inbox.
func (c *Console) Dashboard(ctx context.Context) (domain.Counts, error) {
	var (
		counts domain.Counts
		wg     sync.WaitGroup
		mu     sync.Mutex
		errs   []error
	)
	fetch := func(entity string, dst *int) {
		defer wg.Done()
		n, err := c.API.Count(ctx, entity)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = append(errs, fmt.Errorf("count %s: %w", entity, err))
			return
		}
		*dst = n
	}
	wg.Add(3)
	go fetch("products", &counts.Products)
	go fetch("orders", &counts.Orders)
	go fetch("users", &counts.Users)
	wg.Wait()
	if len(errs) > 0 {
		return counts, joinSorted(errs)
	}

	n, err := c.Inbox.Count()
	if err != nil {
		return counts, err
	}
	counts.Messages = n
	return counts, nil
}
