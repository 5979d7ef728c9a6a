package engine

import (
	"context"
	"sort"
	"strings"

	"arbeitskorb/internal/domain"
	"arbeitskorb/internal/store"
)

// SearchOptions are the search parameters. Zero values mean "no
// filter": empty status, object type, object id and query match
// everything, and an empty basket scope skips the basket stage
// entirely. Boundary layers default Basket to MY and Sort to
// "receivedAt,desc".
type SearchOptions struct {
	Page       int
	Size       int
	Sort       string
	Query      string
	Status     domain.Status
	Basket     domain.BasketScope
	Colleague  string
	ObjectType domain.ObjectType
	ObjectID   string
}

// SearchResult is one page of matches plus the total match count
// before paging.
type SearchResult struct {
	Items []domain.WorkItem `json:"items"`
	Total int               `json:"total"`
}

// Search filters, sorts and pages the work-item collection. Filters
// compose as AND. Out-of-range pages yield an empty page with a valid
// total; the operation itself never fails on its inputs.
func (e Engine) Search(ctx context.Context, opts SearchOptions) (SearchResult, error) {
	page := opts.Page
	if page < 0 {
		page = 0
	}
	size := opts.Size
	if size < 1 {
		size = 1
	}
	var result SearchResult
	err := e.Store.View(func(st *store.State) error {
		filtered := make([]domain.WorkItem, 0, len(st.Items))
		for _, item := range st.Items {
			if !e.matches(item, opts) {
				continue
			}
			filtered = append(filtered, item)
		}
		sortItems(filtered, opts.Sort)
		result.Total = len(filtered)
		from := page * size
		if from > len(filtered) {
			from = len(filtered)
		}
		to := from + size
		if to > len(filtered) {
			to = len(filtered)
		}
		result.Items = append([]domain.WorkItem{}, filtered[from:to]...)
		return nil
	})
	return result, err
}

func (e Engine) matches(item domain.WorkItem, opts SearchOptions) bool {
	if opts.Status != "" && item.Status != opts.Status {
		return false
	}
	if opts.ObjectType != "" && item.ObjectType != opts.ObjectType {
		return false
	}
	if strings.TrimSpace(opts.ObjectID) != "" && !strings.EqualFold(item.ObjectID, opts.ObjectID) {
		return false
	}
	if !matchesQuery(item, opts.Query) {
		return false
	}
	return e.inBasket(item, opts.Basket, opts.Colleague)
}

// matchesQuery is a case-insensitive substring test over the fixed
// search field set; a blank query matches everything.
func matchesQuery(item domain.WorkItem, rawQuery string) bool {
	if strings.TrimSpace(rawQuery) == "" {
		return true
	}
	query := strings.ToLower(rawQuery)
	for _, field := range []string{
		item.CustomerName,
		item.ContractNo,
		item.ClaimNo,
		item.Title,
		item.Description,
		item.AssignedTo,
		item.ObjectID,
		item.ObjectLabel,
	} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func (e Engine) inBasket(item domain.WorkItem, basket domain.BasketScope, colleague string) bool {
	switch basket {
	case "":
		return true
	case domain.BasketMy:
		return item.AssignedTo == e.Config.User.Name
	case domain.BasketTeam:
		return item.Team == e.Config.User.Team
	case domain.BasketColleague:
		return strings.TrimSpace(colleague) != "" && strings.EqualFold(item.AssignedTo, colleague)
	}
	return false
}

// sortItems orders items by a "field,direction" token. Only the exact
// ",desc" suffix reverses; anything else sorts ascending. Unknown
// fields fall back to receivedAt. Ties keep collection order.
func sortItems(items []domain.WorkItem, token string) {
	field := token
	desc := false
	if f, dir, ok := strings.Cut(token, ","); ok {
		field = f
		desc = dir == "desc"
	}
	var less func(a, b domain.WorkItem) bool
	switch field {
	case "customerName":
		less = func(a, b domain.WorkItem) bool { return a.CustomerName < b.CustomerName }
	case "priority":
		less = func(a, b domain.WorkItem) bool { return a.Priority < b.Priority }
	default:
		less = func(a, b domain.WorkItem) bool { return a.ReceivedAt.Before(b.ReceivedAt) }
	}
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}
