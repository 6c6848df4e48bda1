package model

// AutoMigrateの対象
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Product{},
		&ProductMedia{},
		&Basket{},
		&BasketItem{},
		&Order{},
		&OrderItem{},
		&Payment{},
		&Contact{},
	}
}
