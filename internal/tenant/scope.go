package tenant

import "gorm.io/gorm"

// Scope restricts a query to the rows of one garage.
func Scope(garageUID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("garage_uid = ?", garageUID)
	}
}

// ActiveScope is Scope limited to active rows.
func ActiveScope(garageUID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Scopes(Scope(garageUID)).Where("is_active = ?", true)
	}
}
