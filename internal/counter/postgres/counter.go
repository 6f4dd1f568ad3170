package postgres

import (
	"context"
	"fmt"

	"github.com/frahmantamala/project-tracker/internal/counter"
	counterDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/counter"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CounterRepository struct {
	db *gorm.DB
}

func NewCounterRepository(db *gorm.DB) counter.Counter {
	return &CounterRepository{db: db}
}

// Next seeds the row if absent, increments it in place and reads it back, all
// in one transaction. The UPDATE holds the row lock until commit.
func (r *CounterRepository) Next(ctx context.Context, name string) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := counterDatamodel.Counter{Name: name, Value: 0}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}

		res := tx.Model(&counterDatamodel.Counter{}).
			Where("name = ?", name).
			Update("value", gorm.Expr("value + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("counter %q: expected 1 row updated, got %d", name, res.RowsAffected)
		}

		var row counterDatamodel.Counter
		if err := tx.Where("name = ?", name).First(&row).Error; err != nil {
			return err
		}
		next = row.Value
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("next value for %s: %w", name, err)
	}
	return next, nil
}
