package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BudgetCategory associates a budget with one of its categories.
//
// There is no foreign key for the category, associations of deleted
// categories stay unless the category delete policy removes them.
type BudgetCategory struct {
	Timestamps
	BudgetID   uuid.UUID `gorm:"primaryKey"`
	Budget     Budget    `gorm:"constraint:OnDelete:CASCADE"`
	CategoryID uuid.UUID `gorm:"primaryKey;index"`
}

// Associate adds the category to the budget. Adding it twice is not an error.
func Associate(db *gorm.DB, budgetID, categoryID uuid.UUID) error {
	return AssociateMany(db, budgetID, []uuid.UUID{categoryID})
}

// AssociateMany adds all the categories to the budget in a single statement.
// Existing associations are ignored.
func AssociateMany(db *gorm.DB, budgetID uuid.UUID, categoryIDs []uuid.UUID) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	associations := make([]BudgetCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		associations = append(associations, BudgetCategory{BudgetID: budgetID, CategoryID: id})
	}

	return db.
		Omit("Budget").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&associations).
		Error
}

// ReplaceBudgetCategories sets the categories of the budget to exactly
// the given ones.
func ReplaceBudgetCategories(db *gorm.DB, budgetID uuid.UUID, categoryIDs []uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("budget_id = ?", budgetID).Delete(&BudgetCategory{}).Error
		if err != nil {
			return err
		}

		return AssociateMany(tx, budgetID, categoryIDs)
	})
}

// AssociationsForCategory returns all associations of the category.
func AssociationsForCategory(db *gorm.DB, categoryID uuid.UUID) ([]BudgetCategory, error) {
	var associations []BudgetCategory
	err := db.
		Where(&BudgetCategory{CategoryID: categoryID}).
		Order("created_at ASC").
		Find(&associations).
		Error

	return associations, err
}

// CategoryIDsForBudget returns the IDs of all associated categories,
// including the ones that do not exist anymore.
func CategoryIDsForBudget(db *gorm.DB, budgetID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.
		Model(&BudgetCategory{}).
		Where(&BudgetCategory{BudgetID: budgetID}).
		Order("created_at ASC").
		Pluck("category_id", &ids).
		Error

	return ids, err
}

// CategoriesForBudget returns the existing categories of the budget, ordered by name.
func CategoriesForBudget(db *gorm.DB, budgetID uuid.UUID) ([]Category, error) {
	categories := make([]Category, 0)
	err := db.
		Joins("JOIN budget_categories ON budget_categories.category_id = categories.id").
		Where("budget_categories.budget_id = ?", budgetID).
		Order("categories.name ASC").
		Find(&categories).
		Error

	return categories, err
}

// DisassociateCategory removes the category from all budgets.
func DisassociateCategory(db *gorm.DB, categoryID uuid.UUID) error {
	return db.Where("category_id = ?", categoryID).Delete(&BudgetCategory{}).Error
}
