package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/hamadpass/khodarji-backend/pkg/enums"
	"github.com/hamadpass/khodarji-backend/pkg/types"
)

// seedVersion is bumped whenever the canonical catalog below changes. The
// stored catalog is replaced wholesale when its recorded seed version lags;
// admin edits survive restarts within the same version.
const seedVersion = 1

func price(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// seedCatalog is the canonical product list installed on first run.
var seedCatalog = []types.Product{
	{ID: "v1", Name: types.LocalizedString{En: "Local Baladi Tomatoes", Ar: "بندورة بلدية"}, Category: enums.ProductCategoryVegetables, Price: price("0.65"), Image: "https://images.unsplash.com/photo-1592924357228-91a4daadcfea?w=500", Unit: "KG"},
	{ID: "v2", Name: types.LocalizedString{En: "Fresh Cucumbers", Ar: "خيار بلدي طازج"}, Category: enums.ProductCategoryVegetables, Price: price("0.75"), Image: "https://images.unsplash.com/photo-1449300079323-02e209d9d3a6?w=500", Unit: "KG"},
	{ID: "v3", Name: types.LocalizedString{En: "Zucchini (Kousa)", Ar: "كوسا بلدية"}, Category: enums.ProductCategoryVegetables, Price: price("0.85"), Image: "https://images.unsplash.com/photo-1557844352-761f2565b576?w=500", Unit: "KG"},
	{ID: "v4", Name: types.LocalizedString{En: "Large Black Eggplant", Ar: "باذنجان أسود عجمي"}, Category: enums.ProductCategoryVegetables, Price: price("0.55"), Image: "https://images.unsplash.com/photo-1615485290382-441e4d049cb5?w=500", Unit: "KG"},
	{ID: "v5", Name: types.LocalizedString{En: "Small Makdous Eggplant", Ar: "باذنجان للمكدوس"}, Category: enums.ProductCategoryVegetables, Price: price("0.90"), Image: "https://images.unsplash.com/photo-1518485033148-4722152e92bc?w=500", Unit: "KG"},
	{ID: "v6", Name: types.LocalizedString{En: "Yellow Potatoes", Ar: "بطاطا"}, Category: enums.ProductCategoryVegetables, Price: price("0.50"), Image: "https://images.unsplash.com/photo-1518977676601-b53f02ac6d31?w=500", Unit: "KG"},
	{ID: "v7", Name: types.LocalizedString{En: "Red Onions", Ar: "بصل أحمر"}, Category: enums.ProductCategoryVegetables, Price: price("0.45"), Image: "https://images.unsplash.com/photo-1508747703725-719777637510?w=500", Unit: "KG"},
	{ID: "v8", Name: types.LocalizedString{En: "Fresh Garlic", Ar: "ثوم بلدي"}, Category: enums.ProductCategoryVegetables, Price: price("1.20"), Image: "https://images.unsplash.com/photo-1540148426945-6cf22a6b2383?w=500", Unit: "Bunch"},
	{ID: "v9", Name: types.LocalizedString{En: "Okra (Bamya)", Ar: "بامية بلدية"}, Category: enums.ProductCategoryVegetables, Price: price("2.50"), Image: "https://images.unsplash.com/photo-1627440019941-030986950346?w=500", Unit: "KG"},
	{ID: "v10", Name: types.LocalizedString{En: "Fresh Molokhia (Leaves)", Ar: "ملوخية ورق"}, Category: enums.ProductCategoryVegetables, Price: price("1.50"), Image: "https://images.unsplash.com/photo-1515471204579-20bcc904fbd8?w=500", Unit: "Bunch"},
	{ID: "v11", Name: types.LocalizedString{En: "Cauliflower", Ar: "زهرة / قرنبيط"}, Category: enums.ProductCategoryVegetables, Price: price("0.95"), Image: "https://images.unsplash.com/photo-1568584711075-3d021a7c3ca3?w=500", Unit: "Piece"},
	{ID: "v12", Name: types.LocalizedString{En: "Green Cabbage", Ar: "ملفوف أخضر"}, Category: enums.ProductCategoryVegetables, Price: price("0.60"), Image: "https://images.unsplash.com/photo-1594282486552-05b4d80fbb9f?w=500", Unit: "KG"},
	{ID: "v13", Name: types.LocalizedString{En: "Hot Green Chili", Ar: "فلفل حار أخضر"}, Category: enums.ProductCategoryVegetables, Price: price("1.10"), Image: "https://images.unsplash.com/photo-1588252303782-cb80119abd6d?w=500", Unit: "KG"},
	{ID: "v14", Name: types.LocalizedString{En: "Mixed Bell Peppers", Ar: "فلفل حلو مشكل"}, Category: enums.ProductCategoryVegetables, Price: price("1.40"), Image: "https://images.unsplash.com/photo-1566275529824-cca6d00a2175?w=500", Unit: "KG"},
	{ID: "v15", Name: types.LocalizedString{En: "Bunch of Parsley", Ar: "ضمة بقدونس"}, Category: enums.ProductCategoryVegetables, Price: price("0.20"), Image: "https://images.unsplash.com/photo-1515471204579-20bcc904fbd8?w=500", Unit: "Bunch"},
	{ID: "v16", Name: types.LocalizedString{En: "Bunch of Mint", Ar: "ضمة نعنع"}, Category: enums.ProductCategoryVegetables, Price: price("0.20"), Image: "https://images.unsplash.com/photo-1603048588665-791ca8aea617?w=500", Unit: "Bunch"},
	{ID: "f1", Name: types.LocalizedString{En: "Valencia Oranges", Ar: "برتقال فالنسيا"}, Category: enums.ProductCategoryFruits, Price: price("0.85"), Image: "https://images.unsplash.com/photo-1580052614034-c55d20bfee3b?w=500", Unit: "KG"},
	{ID: "f2", Name: types.LocalizedString{En: "Yellow Lemons", Ar: "ليمون أصفر"}, Category: enums.ProductCategoryFruits, Price: price("0.95"), Image: "https://images.unsplash.com/photo-1582722872445-44c56bb3a3dd?w=500", Unit: "KG"},
	{ID: "f3", Name: types.LocalizedString{En: "Red Gala Apples", Ar: "تفاح أحمر جالا"}, Category: enums.ProductCategoryFruits, Price: price("1.35"), Image: "https://images.unsplash.com/photo-1568702846914-96b305d2aaeb?w=500", Unit: "KG"},
	{ID: "f4", Name: types.LocalizedString{En: "Green Smith Apples", Ar: "تفاح أخضر"}, Category: enums.ProductCategoryFruits, Price: price("1.50"), Image: "https://images.unsplash.com/photo-1567306226416-28f0efdc88ce?w=500", Unit: "KG"},
	{ID: "f5", Name: types.LocalizedString{En: "Local Bananas", Ar: "موز بلدي"}, Category: enums.ProductCategoryFruits, Price: price("0.80"), Image: "https://images.unsplash.com/photo-1571771894821-ce9b6c11b08e?w=500", Unit: "KG"},
	{ID: "f6", Name: types.LocalizedString{En: "Organic Chiquita Bananas", Ar: "موز عضوي"}, Category: enums.ProductCategoryOrganic, Price: price("1.10"), Image: "https://images.unsplash.com/photo-1481349579423-ba96c36e4b1a?w=500", Unit: "KG", Organic: true},
	{ID: "f7", Name: types.LocalizedString{En: "Fresh Strawberries", Ar: "فراولة طازجة"}, Category: enums.ProductCategoryFruits, Price: price("2.25"), Image: "https://images.unsplash.com/photo-1464965911861-746a04b4bca6?w=500", Unit: "Box"},
	{ID: "f8", Name: types.LocalizedString{En: "Medjool Dates", Ar: "تمر مجهول فاخر"}, Category: enums.ProductCategoryFruits, Price: price("4.50"), Image: "https://images.unsplash.com/photo-1589135091720-6d09323565e3?w=500", Unit: "KG"},
	{ID: "f9", Name: types.LocalizedString{En: "Pomegranates", Ar: "رمان بلدي"}, Category: enums.ProductCategoryFruits, Price: price("1.80"), Image: "https://images.unsplash.com/photo-1615485500704-8e990f3900f1?w=500", Unit: "KG"},
	{ID: "f10", Name: types.LocalizedString{En: "Local Grapes", Ar: "عنب بلدي"}, Category: enums.ProductCategoryFruits, Price: price("2.00"), Image: "https://images.unsplash.com/photo-1537640538966-79f369b41e8f?w=500", Unit: "KG"},
	{ID: "f11", Name: types.LocalizedString{En: "Summer Watermelon", Ar: "بطيخ أحمر"}, Category: enums.ProductCategoryFruits, Price: price("3.50"), Image: "https://images.unsplash.com/photo-1589927986089-35812388d1f4?w=500", Unit: "Piece"},
	{ID: "f12", Name: types.LocalizedString{En: "Sweet Melon", Ar: "شمام بلدي"}, Category: enums.ProductCategoryFruits, Price: price("1.25"), Image: "https://images.unsplash.com/photo-1571575173749-bef82583870a?w=500", Unit: "KG"},
	{ID: "f13", Name: types.LocalizedString{En: "Peaches", Ar: "دراق بلدي"}, Category: enums.ProductCategoryFruits, Price: price("1.75"), Image: "https://images.unsplash.com/photo-1521245028319-35ca3ff3539a?w=500", Unit: "KG"},
	{ID: "f14", Name: types.LocalizedString{En: "Apricots", Ar: "مشمش مستكاوي"}, Category: enums.ProductCategoryFruits, Price: price("2.00"), Image: "https://images.unsplash.com/photo-1559181567-c3190cb9959b?w=500", Unit: "KG"},
}

// SeedProducts returns a defensive copy of the canonical catalog.
func SeedProducts() []types.Product {
	out := make([]types.Product, len(seedCatalog))
	copy(out, seedCatalog)
	return out
}
