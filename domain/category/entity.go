package category

// Category is a shared label that tasks may reference. Categories are not
// scoped to a user.
type Category struct {
	ID    string `gorm:"primaryKey;type:text"`
	Name  string `gorm:"not null;type:text"`
	Color string `gorm:"type:text"`
}

// TableName returns the table name for the Category entity.
func (Category) TableName() string {
	return "categories"
}
