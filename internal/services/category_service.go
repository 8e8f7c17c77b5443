package services

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Category struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Mode     string `json:"mode"`
	IconData string `json:"iconData"`
}

const (
	iconsDir = "./static/category-icons"
	demoSVG  = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 200"><rect width="200" height="200" fill="#f0f0f0"/><circle cx="100" cy="90" r="40" fill="#999"/><text x="100" y="170" text-anchor="middle" font-family="Arial" font-size="14" fill="#666">CATEGORY</text></svg>`
)

var categoryIcons = map[string]string{
	"food":          "food.svg",
	"clothing":      "clothing.svg",
	"transport":     "transport.svg",
	"education":     "education.svg",
	"entertainment": "entertainment.svg",
	"sport":         "sport.svg",
	"social":        "social.svg",
	"housing":       "housing.svg",
	"medical":       "medical.svg",
	"electronics":   "electronics.svg",
	"travel":        "travel.svg",
	"pets":          "pets.svg",
	"gifts":         "gifts.svg",
	"bills":         "bills.svg",
	"salary":        "salary.svg",
	"awards":        "awards.svg",
	"grants":        "grants.svg",
	"refunds":       "refunds.svg",
	"investment":    "investment.svg",
	"other":         "other.svg",
}

var defaultCategories = []Category{
	{Key: "food", Name: "Food", Mode: ModeExpense},
	{Key: "clothing", Name: "Clothing", Mode: ModeExpense},
	{Key: "transport", Name: "Transportation", Mode: ModeExpense},
	{Key: "education", Name: "Education", Mode: ModeExpense},
	{Key: "entertainment", Name: "Entertainment", Mode: ModeExpense},
	{Key: "sport", Name: "Sport", Mode: ModeExpense},
	{Key: "social", Name: "Social", Mode: ModeExpense},
	{Key: "housing", Name: "Housing", Mode: ModeExpense},
	{Key: "medical", Name: "Medical", Mode: ModeExpense},
	{Key: "electronics", Name: "Electronics", Mode: ModeExpense},
	{Key: "travel", Name: "Travel", Mode: ModeExpense},
	{Key: "pets", Name: "Pets", Mode: ModeExpense},
	{Key: "gifts", Name: "Gifts", Mode: ModeExpense},
	{Key: "bills", Name: "Bills & Fees", Mode: ModeExpense},
	{Key: "salary", Name: "Salary", Mode: ModeIncome},
	{Key: "awards", Name: "Awards", Mode: ModeIncome},
	{Key: "grants", Name: "Grants", Mode: ModeIncome},
	{Key: "refunds", Name: "Refunds", Mode: ModeIncome},
	{Key: "investment", Name: "Investment", Mode: ModeIncome},
	{Key: "other", Name: "Other", Mode: ModeExpense},
}

type CategoryService struct{}

func NewCategoryService() *CategoryService {
	return &CategoryService{}
}

// categories returns the default set plus any extras configured through
// CATEGORIES_EXTRA (comma-separated names, served as expense categories).
func (cs *CategoryService) categories() []Category {
	categories := make([]Category, len(defaultCategories))
	copy(categories, defaultCategories)

	for _, name := range strings.Split(viper.GetString("categories.extra"), ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
		categories = append(categories, Category{Key: key, Name: name, Mode: ModeExpense})
	}
	return categories
}

func (cs *CategoryService) GetAllCategories(w http.ResponseWriter, r *http.Request) {
	categories := cs.categories()

	for i := range categories {
		categories[i].IconData = cs.LoadIcon(categories[i].Key)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	json.NewEncoder(w).Encode(categories)
}

func (cs *CategoryService) LoadIcon(key string) string {
	filename, ok := categoryIcons[key]
	if !ok {
		return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(demoSVG))
	}

	path := filepath.Join(iconsDir, filename)
	if data, err := os.ReadFile(path); err == nil {
		return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(data)
	}

	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(demoSVG))
}
