package menu

// Item is a single orderable product.
type Item struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Sizes       []string `json:"sizes,omitempty"`
	DefaultSize string   `json:"defaultSize,omitempty"`
	ColdOnly    bool     `json:"coldOnly,omitempty"`
}

// Category groups items the way the physical menu board does.
type Category struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// MilkOptions lists the milks the shop stocks. Oat, almond and coconut carry
// a surcharge, which the ordering rules text explains to the engine.
var MilkOptions = []string{
	"whole milk", "skim milk", "oat milk", "almond milk", "soy milk", "coconut milk",
}

// Catalog returns the full Brew & Co menu. Prices and size options feed the
// completion engine's system instruction verbatim; the backend never prices
// an order itself.
func Catalog() []Category {
	return []Category{
		{
			Name: "Espresso Bar",
			Items: []Item{
				{Name: "Espresso", Price: 3.50, Sizes: []string{"single", "double"}, DefaultSize: "double"},
				{Name: "Americano", Price: 4.00, Sizes: []string{"small", "medium", "large"}, DefaultSize: "medium"},
				{Name: "Latte", Price: 5.50, Sizes: []string{"small", "medium", "large"}, DefaultSize: "medium"},
				{Name: "Cappuccino", Price: 5.00, Sizes: []string{"small", "medium", "large"}, DefaultSize: "medium"},
				{Name: "Macchiato", Price: 5.50, Sizes: []string{"small", "medium", "large"}, DefaultSize: "medium"},
				{Name: "Flat White", Price: 5.50, Sizes: []string{"small", "medium"}, DefaultSize: "small"},
				{Name: "Mocha", Price: 6.00, Sizes: []string{"small", "medium", "large"}, DefaultSize: "medium"},
			},
		},
		{
			Name: "Cold Drinks",
			Items: []Item{
				{Name: "Iced Latte", Price: 6.00, Sizes: []string{"medium", "large"}, DefaultSize: "medium"},
				{Name: "Iced Americano", Price: 4.50, Sizes: []string{"medium", "large"}, DefaultSize: "medium"},
				{Name: "Cold Brew", Price: 5.50, Sizes: []string{"medium", "large"}, DefaultSize: "medium"},
				{Name: "Frappuccino", Price: 7.00, Sizes: []string{"medium", "large"}, DefaultSize: "medium", ColdOnly: true},
				{Name: "Iced Matcha Latte", Price: 6.50, Sizes: []string{"medium", "large"}, DefaultSize: "medium"},
			},
		},
		{
			Name: "Hot Drinks",
			Items: []Item{
				{Name: "Hot Matcha Latte", Price: 6.00, Sizes: []string{"small", "medium", "large"}, DefaultSize: "medium"},
				{Name: "Hot Chocolate", Price: 5.50, Sizes: []string{"small", "medium", "large"}, DefaultSize: "medium"},
				{Name: "Chai Latte", Price: 5.50, Sizes: []string{"small", "medium", "large"}, DefaultSize: "medium"},
				{Name: "Tea", Price: 3.50, Sizes: []string{"small", "medium", "large"}, DefaultSize: "medium"},
			},
		},
		{
			Name: "Food",
			Items: []Item{
				{Name: "Croissant", Price: 4.00},
				{Name: "Avocado Toast", Price: 12.00},
				{Name: "Bagel with Cream Cheese", Price: 5.00},
				{Name: "Blueberry Muffin", Price: 3.50},
				{Name: "Banana Bread", Price: 4.00},
			},
		},
	}
}
