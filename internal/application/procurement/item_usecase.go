package procurement

import (
	"context"
	"strings"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

// ItemUseCase alta y consulta del maestro de ítems.
type ItemUseCase struct {
	repos repository.Repos
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repos repository.Repos) *ItemUseCase {
	return &ItemUseCase{repos: repos}
}

// Create crea un ítem. Código duplicado → Conflict.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	item := &entity.Item{
		Code:        strings.TrimSpace(in.Code),
		Name:        strings.TrimSpace(in.Name),
		Unit:        strings.TrimSpace(in.Unit),
		Description: in.Description,
	}
	if item.Code == "" || item.Name == "" {
		return nil, domain.Invalid("code and name are required")
	}
	if err := uc.repos.Items.Create(ctx, item); err != nil {
		return nil, err
	}
	out := toItemResponse(item)
	return &out, nil
}

// List lista los ítems ordenados por nombre.
func (uc *ItemUseCase) List(ctx context.Context) ([]dto.ItemResponse, error) {
	items, err := uc.repos.Items.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out, nil
}

func toItemResponse(it *entity.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:          it.ID,
		Code:        it.Code,
		Name:        it.Name,
		Unit:        it.Unit,
		Description: it.Description,
		CreatedAt:   it.CreatedAt,
	}
}
