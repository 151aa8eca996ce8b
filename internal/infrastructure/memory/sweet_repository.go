package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ repository.SweetRepository = (*SweetRepo)(nil)

// SweetRepo catálogo en memoria.
type SweetRepo struct {
	scope
}

func (r *SweetRepo) Create(_ context.Context, sweet *entity.Sweet) error {
	return r.write(func(st *state) error {
		if nameTaken(st, sweet.Name, "") {
			return domain.ErrSweetNameAlreadyExists
		}
		st.sweets[sweet.ID] = copySweet(sweet)
		return nil
	})
}

func (r *SweetRepo) GetByID(_ context.Context, id string) (*entity.Sweet, error) {
	var found *entity.Sweet
	err := r.read(func(st *state) error {
		s, ok := st.sweets[id]
		if !ok {
			return domain.ErrNotFound
		}
		found = copySweet(s)
		return nil
	})
	return found, err
}

// GetForUpdate equivale a GetByID: dentro de una transacción el lock ya es exclusivo.
func (r *SweetRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sweet, error) {
	return r.GetByID(ctx, id)
}

func (r *SweetRepo) ExistsByName(_ context.Context, name, excludeID string) (bool, error) {
	var exists bool
	err := r.read(func(st *state) error {
		exists = nameTaken(st, name, excludeID)
		return nil
	})
	return exists, err
}

func (r *SweetRepo) Update(_ context.Context, sweet *entity.Sweet) error {
	return r.write(func(st *state) error {
		if _, ok := st.sweets[sweet.ID]; !ok {
			return domain.ErrNotFound
		}
		if nameTaken(st, sweet.Name, sweet.ID) {
			return domain.ErrSweetNameAlreadyExists
		}
		st.sweets[sweet.ID] = copySweet(sweet)
		return nil
	})
}

// Delete elimina el producto y sus eventos.
func (r *SweetRepo) Delete(_ context.Context, id string) error {
	return r.write(func(st *state) error {
		if _, ok := st.sweets[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.sweets, id)
		kept := st.events[:0:0]
		for _, e := range st.events {
			if e.SweetID != id {
				kept = append(kept, e)
			}
		}
		st.events = kept
		return nil
	})
}

func (r *SweetRepo) List(_ context.Context, f repository.SweetFilter) ([]*entity.Sweet, error) {
	var out []*entity.Sweet
	err := r.read(func(st *state) error {
		for _, s := range st.sweets {
			if matches(s, f) {
				out = append(out, copySweet(s))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

// AdjustStock aplica delta solo si el stock resultante no es negativo.
func (r *SweetRepo) AdjustStock(_ context.Context, id string, delta int) (*entity.Sweet, error) {
	var updated *entity.Sweet
	err := r.write(func(st *state) error {
		s, ok := st.sweets[id]
		if !ok {
			return domain.ErrNotFound
		}
		if s.QuantityInStock+delta < 0 {
			return domain.ErrInsufficientStock
		}
		s.QuantityInStock += delta
		s.UpdatedAt = time.Now().UTC()
		updated = copySweet(s)
		return nil
	})
	return updated, err
}

func nameTaken(st *state, name, excludeID string) bool {
	for id, s := range st.sweets {
		if id != excludeID && strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}

func matches(s *entity.Sweet, f repository.SweetFilter) bool {
	if f.InStockOnly && !s.InStock() {
		return false
	}
	if f.Category != "" && !strings.EqualFold(s.Category, f.Category) {
		return false
	}
	if f.Name != "" && !containsFold(s.Name, f.Name) {
		return false
	}
	if f.Search != "" && !containsFold(s.Name, f.Search) && !containsFold(s.Description, f.Search) {
		return false
	}
	if f.MinPrice != nil && s.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && s.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
