package catalog

// DefaultPlants returns the starter inventory used to seed an empty catalog
// and to keep the storefront usable when the catalog API is unreachable.
func DefaultPlants() []ProductFields {
	return []ProductFields{
		{
			Name:        "Monstera Deliciosa",
			Price:       42.00,
			Description: "Planta tropical de hojas grandes y perforadas, ideal para interiores luminosos.",
			ImageURL:    "https://images.plantshop.example/monstera-deliciosa.jpg",
		},
		{
			Name:        "Suculenta Echeveria",
			Price:       37.50,
			Description: "Suculenta en roseta de bajo mantenimiento, perfecta para escritorios.",
			ImageURL:    "https://images.plantshop.example/suculenta-echeveria.jpg",
		},
		{
			Name:        "Ficus Lyrata",
			Price:       55.00,
			Description: "Árbol de interior de hojas anchas en forma de violín.",
			ImageURL:    "https://images.plantshop.example/ficus-lyrata.jpg",
		},
		{
			Name:        "Sansevieria",
			Price:       35.00,
			Description: "Lengua de suegra, resistente y purificadora de aire.",
			ImageURL:    "https://images.plantshop.example/sansevieria.jpg",
		},
	}
}
