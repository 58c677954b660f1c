package service

import (
	"github.com/shopspring/decimal"

	"pizzeria/internal/model"
)

const (
	sizeSmall  = "Small 10\""
	sizeMedium = "Medium 12\""
	sizeLarge  = "Large 14\""
	sizeXLarge = "X-Large 16\""
)

func mustPrice(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pizzaSizes(small, medium, large, xlarge string) []model.SizeVariant {
	return []model.SizeVariant{
		{Name: sizeSmall, Price: mustPrice(small)},
		{Name: sizeMedium, Price: mustPrice(medium)},
		{Name: sizeLarge, Price: mustPrice(large)},
		{Name: sizeXLarge, Price: mustPrice(xlarge)},
	}
}

func sampleCategories() []model.Category {
	return []model.Category{
		{Name: "Pizza", Description: "Our delicious handcrafted pizzas", SortOrder: 1, IsActive: true,
			ImageURL: "https://images.unsplash.com/photo-1593504049359-74330189a345"},
		{Name: "Pasta", Description: "Authentic Italian pasta dishes", SortOrder: 2, IsActive: true,
			ImageURL: "https://images.unsplash.com/photo-1563245738-9169ff58eccf"},
		{Name: "Calzone", Description: "Stuffed pizza pockets", SortOrder: 3, IsActive: true},
		{Name: "Wings", Description: "Crispy chicken wings", SortOrder: 4, IsActive: true},
		{Name: "Salads", Description: "Fresh garden salads", SortOrder: 5, IsActive: true},
		{Name: "Desserts", Description: "Sweet treats", SortOrder: 6, IsActive: true},
	}
}

func sampleProducts(pizza, pasta model.Category) []model.Product {
	return []model.Product{
		{
			Name:        "Buffalo Chicken Pizza",
			Description: "Spicy buffalo chicken with red onions and mozzarella cheese",
			CategoryID:  pizza.ID,
			Price:       mustPrice("18.95"),
			ImageURL:    "https://images.unsplash.com/photo-1565299624946-b28f40a0ae38",
			Ingredients: []string{"Buffalo chicken", "Red onions", "Mozzarella cheese", "Buffalo sauce"},
			Sizes:       pizzaSizes("14.95", "16.95", "18.95", "20.95"),
			IsAvailable: true,
			IsFeatured:  true,
		},
		{
			Name:        "NY Cheese Pizza",
			Description: "Classic New York style cheese pizza with our signature sauce",
			CategoryID:  pizza.ID,
			Price:       mustPrice("12.95"),
			ImageURL:    "https://images.unsplash.com/photo-1600628421066-f6bda6a7b976",
			Ingredients: []string{"Mozzarella cheese", "Tomato sauce", "Fresh basil"},
			Sizes:       pizzaSizes("9.95", "11.95", "12.95", "15.95"),
			IsAvailable: true,
			IsFeatured:  true,
		},
		{
			Name:        "Meat Lovers Pizza",
			Description: "Loaded with pepperoni, sausage, ham, and bacon",
			CategoryID:  pizza.ID,
			Price:       mustPrice("21.95"),
			Ingredients: []string{"Pepperoni", "Italian sausage", "Ham", "Bacon", "Mozzarella cheese"},
			Sizes:       pizzaSizes("17.95", "19.95", "21.95", "23.95"),
			IsAvailable: true,
		},
		{
			Name:        "Homemade Meat Lasagna",
			Description: "Layers of pasta, meat sauce, and three cheeses",
			CategoryID:  pasta.ID,
			Price:       mustPrice("14.95"),
			Ingredients: []string{"Ground beef", "Pasta sheets", "Ricotta", "Mozzarella", "Parmesan"},
			IsAvailable: true,
		},
		{
			Name:        "Chicken Marsala",
			Description: "Tender chicken breast in marsala wine sauce",
			CategoryID:  pasta.ID,
			Price:       mustPrice("18.95"),
			Ingredients: []string{"Chicken breast", "Marsala wine", "Mushrooms", "Cream sauce"},
			IsAvailable: true,
		},
	}
}
