package gormrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"petlens/internal/adapter/repo/gorm/model"
	"petlens/internal/app/ports"
	"petlens/internal/domain/garden"
)

var _ ports.GardenStore = GardenRepo{}

type GardenRepo struct {
	db *gorm.DB
}

func NewGardenRepo(db *gorm.DB) GardenRepo {
	return GardenRepo{db: db}
}

func (r GardenRepo) ListCrops(ctx context.Context) ([]garden.Crop, error) {
	var rows []model.GardenCrop
	err := getDBFromCtx(ctx, r.db).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "slot"}}).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list garden crops: %w", err)
	}
	out := make([]garden.Crop, 0, len(rows))
	for _, row := range rows {
		var mutations []string
		if len(row.Mutations) > 0 {
			if err := json.Unmarshal(row.Mutations, &mutations); err != nil {
				return nil, fmt.Errorf("decode mutations for slot %d: %w", row.Slot, err)
			}
		}
		out = append(out, garden.Crop{
			Slot:      int(row.Slot),
			Species:   row.Species,
			Scale:     row.Scale,
			Mutations: mutations,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return out, nil
}

func (r GardenRepo) ReplaceCrops(ctx context.Context, crops []garden.Crop) error {
	db := getDBFromCtx(ctx, r.db)
	if err := db.Where("1 = 1").Delete(&model.GardenCrop{}).Error; err != nil {
		return fmt.Errorf("clear garden crops: %w", err)
	}
	if len(crops) == 0 {
		return nil
	}
	rows := make([]model.GardenCrop, 0, len(crops))
	for _, c := range crops {
		mutations := c.Mutations
		if mutations == nil {
			mutations = []string{}
		}
		payload, err := json.Marshal(mutations)
		if err != nil {
			return fmt.Errorf("encode mutations for slot %d: %w", c.Slot, err)
		}
		rows = append(rows, model.GardenCrop{
			Slot:      int32(c.Slot),
			Species:   c.Species,
			Scale:     c.Scale,
			Mutations: payload,
			UpdatedAt: c.UpdatedAt.UTC(),
		})
	}
	if err := db.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert garden crops: %w", err)
	}
	return nil
}
