package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo maestro de ítems en memoria.
type ItemRepo struct{ db db }

func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	return r.db.update(func(st *state) error {
		for _, it := range st.items {
			if it.Code == item.Code {
				return domain.Conflict("Item code %s already exists", item.Code)
			}
		}
		item.ID = st.next("items")
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now()
		}
		st.items[item.ID] = *item
		return nil
	})
}

func (r *ItemRepo) GetByID(_ context.Context, id int64) (*entity.Item, error) {
	var out *entity.Item
	r.db.view(func(st *state) {
		if it, ok := st.items[id]; ok {
			out = &it
		}
	})
	return out, nil
}

func (r *ItemRepo) GetByIDs(_ context.Context, ids []int64) (map[int64]*entity.Item, error) {
	out := make(map[int64]*entity.Item, len(ids))
	r.db.view(func(st *state) {
		for _, id := range ids {
			if it, ok := st.items[id]; ok {
				out[id] = &it
			}
		}
	})
	return out, nil
}

func (r *ItemRepo) List(_ context.Context) ([]*entity.Item, error) {
	var list []*entity.Item
	r.db.view(func(st *state) {
		for _, id := range sortedIDs(st.items, false) {
			it := st.items[id]
			list = append(list, &it)
		}
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}
