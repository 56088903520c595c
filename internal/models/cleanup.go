package models

import (
	"gorm.io/gorm"
)

// DeleteEverything permanently deletes all resources. The MISCELLANEOUS
// category is created again afterwards.
func DeleteEverything(db *gorm.DB) error {
	// The order matters for the foreign keys
	resources := []any{
		&BudgetCategory{},
		&Transaction{},
		&Budget{},
		&RecurringSeries{},
		&Category{},
		&Account{},
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, model := range resources {
			err := tx.Unscoped().Where("true").Delete(model).Error
			if err != nil {
				return err
			}
		}

		return ensureMiscellaneous(tx)
	})

	if categoryCache.cache != nil {
		categoryCache.cache.Clear()
	}

	return err
}
