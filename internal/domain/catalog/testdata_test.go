package catalog

func seedProducts() []Product {
	return []Product{
		{ID: "1", Name: "iPhone 15 Pro Max", Brand: "Apple", Price: 134900, OriginalPrice: IntPtr(159900), Category: "smartphones", InStock: true, Rating: 4.8, ReviewCount: 2847, Discount: IntPtr(16)},
		{ID: "2", Name: "Galaxy S24 Ultra", Brand: "Samsung", Price: 129999, OriginalPrice: IntPtr(139999), Category: "smartphones", InStock: true, Rating: 4.6, ReviewCount: 3721, Discount: IntPtr(7)},
		{ID: "3", Name: "Google Pixel 8 Pro", Brand: "Google", Price: 106999, OriginalPrice: IntPtr(112999), Category: "smartphones", InStock: true, Rating: 4.2, ReviewCount: 967, Discount: IntPtr(5)},
		{ID: "4", Name: "OnePlus 12", Brand: "OnePlus", Price: 64999, OriginalPrice: IntPtr(69999), Category: "smartphones", InStock: true, Rating: 4.4, ReviewCount: 1892, Discount: IntPtr(7)},
		{ID: "5", Name: "Xiaomi 14 Pro", Brand: "Xiaomi", Price: 79999, OriginalPrice: IntPtr(84999), Category: "smartphones", InStock: true, Rating: 4.3, ReviewCount: 1456, Discount: IntPtr(6)},
		{ID: "6", Name: "iPhone 14", Brand: "Apple", Price: 69900, OriginalPrice: IntPtr(79900), Category: "smartphones", InStock: true, Rating: 4.5, ReviewCount: 4532, Discount: IntPtr(13)},
		{ID: "7", Name: "MacBook Pro 14", Brand: "Apple", Price: 199900, Category: "laptops", InStock: true, Rating: 4.7, ReviewCount: 1523},
		{ID: "8", Name: "AirPods Pro", Brand: "Apple", Price: 24900, Category: "headphones", InStock: true, Rating: 4.5, ReviewCount: 5892},
	}
}

func ids(products []Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func productByID(id string) Product {
	p, _ := FindProduct(seedProducts(), id)
	return p
}
