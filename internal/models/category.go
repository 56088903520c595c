package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Miscellaneous is the name of the fallback category. It always exists
// and can not be deleted.
const Miscellaneous = "MISCELLANEOUS"

// Category groups transactions and is what budgets are tracked against.
type Category struct {
	DefaultModel
	Name string `gorm:"uniqueIndex"`
	Note string
}

// NormalizeCategoryName returns the stored form of a category name.
func NormalizeCategoryName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// BeforeSave normalizes the name and trims the note
func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = NormalizeCategoryName(c.Name)
	c.Note = strings.TrimSpace(c.Note)

	return nil
}

// BeforeUpdate prevents renaming the MISCELLANEOUS category.
func (c *Category) BeforeUpdate(tx *gorm.DB) error {
	if c.Name == Miscellaneous && tx.Statement.Changed("Name") {
		return ErrCategoryProtected
	}

	return nil
}

// AfterUpdate drops the cached versions of the category.
//
// The old name is not known anymore at this point, so all names are dropped.
func (c *Category) AfterUpdate(_ *gorm.DB) error {
	if categoryCache.cache != nil {
		categoryCache.cache.Clear()
	}

	return nil
}

// ensureMiscellaneous creates the MISCELLANEOUS category if it does not exist.
func ensureMiscellaneous(db *gorm.DB) error {
	return db.
		Where(Category{Name: Miscellaneous}).
		FirstOrCreate(&Category{Name: Miscellaneous}).
		Error
}

// MiscellaneousCategory returns the fallback category.
func MiscellaneousCategory(db *gorm.DB) (Category, error) {
	category, ok, err := CategoryByName(db, Miscellaneous)
	if err != nil {
		return Category{}, err
	}

	if !ok {
		return Category{}, fmt.Errorf("%w %s category", ErrResourceNotFound, Miscellaneous)
	}

	return category, nil
}

// CategoryDeletePolicy defines what happens to the budget associations of
// a category when the category is deleted.
type CategoryDeletePolicy string

const (
	// Orphan keeps the associations. Budgets then reference a category
	// that does not exist anymore.
	Orphan CategoryDeletePolicy = "orphan"

	// Cascade deletes the associations together with the category.
	Cascade CategoryDeletePolicy = "cascade"

	// ReassignToMisc moves the associations to the MISCELLANEOUS category.
	ReassignToMisc CategoryDeletePolicy = "reassignToMisc"
)

// ParseCategoryDeletePolicy parses a policy. The empty string
// results in the fallback policy.
func ParseCategoryDeletePolicy(s string, fallback CategoryDeletePolicy) (CategoryDeletePolicy, error) {
	if s == "" {
		return fallback, nil
	}

	p := CategoryDeletePolicy(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownDeletePolicy, s)
	}

	return p, nil
}

func (p CategoryDeletePolicy) Valid() bool {
	switch p {
	case Orphan, Cascade, ReassignToMisc:
		return true
	}
	return false
}

// DeleteCategory deletes a category, handling its budget associations
// according to the policy.
//
// Transactions keep referencing the category and its name.
func DeleteCategory(db *gorm.DB, id uuid.UUID, policy CategoryDeletePolicy) error {
	if !policy.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownDeletePolicy, policy)
	}

	var category Category
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&category, "id = ?", id).Error
		if err != nil {
			return err
		}

		if category.Name == Miscellaneous {
			return ErrCategoryProtected
		}

		switch policy {
		case Cascade:
			err = DisassociateCategory(tx, id)
		case ReassignToMisc:
			err = reassignToMiscellaneous(tx, id)
		}
		if err != nil {
			return err
		}

		return tx.Delete(&category).Error
	})
	if err != nil {
		return err
	}

	uncacheCategory(category)
	return nil
}

// reassignToMiscellaneous moves all budget associations of the category to
// MISCELLANEOUS. Budgets that are already associated with MISCELLANEOUS
// only lose the association with the category.
func reassignToMiscellaneous(tx *gorm.DB, id uuid.UUID) error {
	var misc Category
	err := tx.Where(&Category{Name: Miscellaneous}).First(&misc).Error
	if errors.Is(err, ErrResourceNotFound) {
		return fmt.Errorf("%w %s category", ErrResourceNotFound, Miscellaneous)
	} else if err != nil {
		return err
	}

	err = tx.Exec(
		"INSERT OR IGNORE INTO budget_categories (budget_id, category_id, created_at, updated_at) "+
			"SELECT budget_id, ?, created_at, updated_at FROM budget_categories WHERE category_id = ?",
		misc.ID, id,
	).Error
	if err != nil {
		return err
	}

	return DisassociateCategory(tx, id)
}
