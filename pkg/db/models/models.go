package models

// All returns every persisted model in dependency order, for auto-migration.
func All() []any {
	return []any{
		&User{},
		&Address{},
		&School{},
		&Category{},
		&Product{},
		&ProductSize{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&OrderStatusLog{},
	}
}
