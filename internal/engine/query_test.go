package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbeitskorb/internal/domain"
)

func ids(items []domain.WorkItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestSearchNoFilters(t *testing.T) {
	eng := newTestEngine(t)
	res, err := eng.Search(context.Background(), SearchOptions{Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Total)
	assert.Len(t, res.Items, 6)
	// Default sort is ascending receivedAt when no token is given.
	assert.Equal(t, "WI-3005", res.Items[0].ID)
	assert.Equal(t, "WI-3006", res.Items[5].ID)
}

func TestSearchSortReceivedAtDesc(t *testing.T) {
	eng := newTestEngine(t)
	res, err := eng.Search(context.Background(), SearchOptions{Size: 10, Sort: "receivedAt,desc"})
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"WI-3006", "WI-3004", "WI-3001", "WI-3002", "WI-3003", "WI-3005"},
		ids(res.Items))
}

func TestSearchSortRules(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	// Only the exact ",desc" suffix reverses.
	res, err := eng.Search(ctx, SearchOptions{Size: 10, Sort: "receivedAt,DESC"})
	require.NoError(t, err)
	assert.Equal(t, "WI-3005", res.Items[0].ID)

	// Unknown fields fall back to receivedAt.
	res, err = eng.Search(ctx, SearchOptions{Size: 10, Sort: "dueAt,desc"})
	require.NoError(t, err)
	assert.Equal(t, "WI-3006", res.Items[0].ID)

	res, err = eng.Search(ctx, SearchOptions{Size: 10, Sort: "customerName"})
	require.NoError(t, err)
	assert.Equal(t, "Müller GmbH", res.Items[0].CustomerName)
	assert.Equal(t, "Schmidt AG", res.Items[5].CustomerName)
}

func TestSearchSortStability(t *testing.T) {
	eng := newTestEngine(t)
	// Three seed items share priority 2; ties keep collection order in
	// both directions.
	res, err := eng.Search(context.Background(), SearchOptions{Size: 10, Sort: "priority"})
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"WI-3001", "WI-3003", "WI-3002", "WI-3004", "WI-3006", "WI-3005"},
		ids(res.Items))

	res, err = eng.Search(context.Background(), SearchOptions{Size: 10, Sort: "priority,desc"})
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"WI-3005", "WI-3002", "WI-3004", "WI-3006", "WI-3001", "WI-3003"},
		ids(res.Items))
}

func TestSearchPaging(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	res, err := eng.Search(ctx, SearchOptions{Page: 0, Size: 4, Sort: "receivedAt,desc"})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Total)
	assert.Len(t, res.Items, 4)

	res, err = eng.Search(ctx, SearchOptions{Page: 1, Size: 4, Sort: "receivedAt,desc"})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Total)
	assert.Equal(t, []string{"WI-3003", "WI-3005"}, ids(res.Items))

	// Out-of-range pages yield an empty page with a valid total.
	res, err = eng.Search(ctx, SearchOptions{Page: 9, Size: 4})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Total)
	assert.Empty(t, res.Items)

	// Negative page and zero size are clamped.
	res, err = eng.Search(ctx, SearchOptions{Page: -3, Size: 0})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Total)
	assert.Len(t, res.Items, 1)
}

func TestSearchTextQuery(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	res, err := eng.Search(ctx, SearchOptions{Size: 10, Query: "müller"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)

	res, err = eng.Search(ctx, SearchOptions{Size: 10, Query: "rechnung"})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "WI-3003", res.Items[0].ID)

	res, err = eng.Search(ctx, SearchOptions{Size: 10, Query: "zzz"})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}

func TestSearchFiltersCompose(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	res, err := eng.Search(ctx, SearchOptions{Size: 10, Status: domain.StatusOpen})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)

	// Adding a filter can only shrink the match set.
	res, err = eng.Search(ctx, SearchOptions{
		Size: 10, Status: domain.StatusOpen, ObjectType: domain.ObjectClaim,
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "WI-3004", res.Items[0].ID)

	res, err = eng.Search(ctx, SearchOptions{
		Size: 10, Status: domain.StatusOpen, ObjectType: domain.ObjectClaim, Query: "nord",
	})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}

func TestSearchObjectIDCaseInsensitive(t *testing.T) {
	eng := newTestEngine(t)
	res, err := eng.Search(context.Background(), SearchOptions{Size: 10, ObjectID: "s-2001"})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "WI-3003", res.Items[0].ID)
}

func TestSearchBaskets(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	// Configured user is Alice in Leistung-Team Nord.
	res, err := eng.Search(ctx, SearchOptions{Size: 10, Basket: domain.BasketMy})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	for _, item := range res.Items {
		assert.Equal(t, "Alice", item.AssignedTo)
	}

	res, err = eng.Search(ctx, SearchOptions{Size: 10, Basket: domain.BasketTeam})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)

	res, err = eng.Search(ctx, SearchOptions{
		Size: 10, Basket: domain.BasketColleague, Colleague: "clara",
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "WI-3003", res.Items[0].ID)

	// Colleague scope without a colleague matches nothing.
	res, err = eng.Search(ctx, SearchOptions{Size: 10, Basket: domain.BasketColleague})
	require.NoError(t, err)
	assert.Zero(t, res.Total)

	// An empty scope skips the basket stage entirely.
	res, err = eng.Search(ctx, SearchOptions{Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Total)
}
