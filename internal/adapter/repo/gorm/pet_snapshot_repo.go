package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"petlens/internal/adapter/repo/gorm/model"
	"petlens/internal/app/ports"
	"petlens/internal/domain/pet"
)

var _ ports.PetSnapshotStore = PetSnapshotRepo{}

type PetSnapshotRepo struct {
	db *gorm.DB
}

func NewPetSnapshotRepo(db *gorm.DB) PetSnapshotRepo {
	return PetSnapshotRepo{db: db}
}

func (r PetSnapshotRepo) ListActive(ctx context.Context) ([]pet.Snapshot, error) {
	var rows []model.PetSnapshot
	err := getDBFromCtx(ctx, r.db).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "position"}}).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list pet snapshots: %w", err)
	}
	out := make([]pet.Snapshot, 0, len(rows))
	for _, row := range rows {
		p, err := toPetSnapshot(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r PetSnapshotRepo) GetByID(ctx context.Context, petID string) (pet.Snapshot, error) {
	var row model.PetSnapshot
	err := getDBFromCtx(ctx, r.db).Where("pet_id = ?", petID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pet.Snapshot{}, ports.ErrNotFound
	}
	if err != nil {
		return pet.Snapshot{}, fmt.Errorf("get pet snapshot %s: %w", petID, err)
	}
	return toPetSnapshot(row)
}

// ReplaceActive deletes the previous roster and inserts pets in order. Callers
// run it inside RunInTx so readers never observe an empty roster.
func (r PetSnapshotRepo) ReplaceActive(ctx context.Context, pets []pet.Snapshot) error {
	db := getDBFromCtx(ctx, r.db)
	if err := db.Where("1 = 1").Delete(&model.PetSnapshot{}).Error; err != nil {
		return fmt.Errorf("clear pet snapshots: %w", err)
	}
	if len(pets) == 0 {
		return nil
	}
	rows := make([]model.PetSnapshot, 0, len(pets))
	for i, p := range pets {
		row, err := toPetSnapshotRow(i, p)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	if err := db.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert pet snapshots: %w", err)
	}
	return nil
}

func toPetSnapshotRow(position int, p pet.Snapshot) (model.PetSnapshot, error) {
	abilities := p.Abilities
	if abilities == nil {
		abilities = []string{}
	}
	payload, err := json.Marshal(abilities)
	if err != nil {
		return model.PetSnapshot{}, fmt.Errorf("encode abilities for %s: %w", p.ID, err)
	}
	row := model.PetSnapshot{
		PetID:         p.ID,
		Position:      int32(position),
		Species:       p.Species,
		Name:          p.Name,
		Xp:            p.XP,
		Hunger:        p.HungerValue,
		HungerPercent: p.HungerPercent,
		Abilities:     payload,
		TargetScale:   p.TargetScale,
		UpdatedAt:     p.UpdatedAt.UTC(),
	}
	if p.Strength != nil {
		s := int32(*p.Strength)
		row.Strength = &s
	}
	return row, nil
}

func toPetSnapshot(row model.PetSnapshot) (pet.Snapshot, error) {
	var abilities []string
	if len(row.Abilities) > 0 {
		if err := json.Unmarshal(row.Abilities, &abilities); err != nil {
			return pet.Snapshot{}, fmt.Errorf("decode abilities for %s: %w", row.PetID, err)
		}
	}
	p := pet.Snapshot{
		ID:            row.PetID,
		Species:       row.Species,
		Name:          row.Name,
		XP:            row.Xp,
		HungerValue:   row.Hunger,
		HungerPercent: row.HungerPercent,
		Abilities:     abilities,
		TargetScale:   row.TargetScale,
		UpdatedAt:     row.UpdatedAt,
	}
	if row.Strength != nil {
		p.Strength = pet.Int(int(*row.Strength))
	}
	return p, nil
}
