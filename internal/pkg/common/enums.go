package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Cuisine 料理類型
type Cuisine string

const (
	CuisineIndian        Cuisine = "Indian"
	CuisineItalian       Cuisine = "Italian"
	CuisineAsian         Cuisine = "Asian"
	CuisineMexican       Cuisine = "Mexican"
	CuisineMediterranean Cuisine = "Mediterranean"
	CuisineAmerican      Cuisine = "American"
	CuisineThai          Cuisine = "Thai"
	CuisineChinese       Cuisine = "Chinese"
	CuisineJapanese      Cuisine = "Japanese"
	CuisineKorean        Cuisine = "Korean"
)

// SpiceLevel 辣度，依序由輕到重
type SpiceLevel string

const (
	SpiceMild       SpiceLevel = "Mild"
	SpiceMedium     SpiceLevel = "Medium"
	SpiceSpicy      SpiceLevel = "Spicy"
	SpiceExtraSpicy SpiceLevel = "Extra Spicy"
)

// SpiceScale 辣度順序
var SpiceScale = []SpiceLevel{SpiceMild, SpiceMedium, SpiceSpicy, SpiceExtraSpicy}

// Index 回傳在 SpiceScale 中的位置，未知為 -1
func (s SpiceLevel) Index() int {
	for i, level := range SpiceScale {
		if strings.EqualFold(string(level), string(s)) {
			return i
		}
	}
	return -1
}

// MealType 餐別
type MealType string

const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealDinner    MealType = "Dinner"
	MealSnack     MealType = "Snack"
)

// CookingTime 最長烹飪時間
type CookingTime string

const (
	CookingTime15 CookingTime = "15 mins"
	CookingTime30 CookingTime = "30 mins"
	CookingTime45 CookingTime = "45 mins"
	CookingTime60 CookingTime = "60+ mins"
)

// Minutes 轉換為分鐘數，未知值視為 30
func (c CookingTime) Minutes() int {
	switch c {
	case CookingTime15:
		return 15
	case CookingTime30:
		return 30
	case CookingTime45:
		return 45
	case CookingTime60:
		return 60
	default:
		return 30
	}
}

// DietaryRestriction 飲食限制
type DietaryRestriction string

const (
	DietVegetarian DietaryRestriction = "Vegetarian"
	DietVegan      DietaryRestriction = "Vegan"
	DietGlutenFree DietaryRestriction = "Gluten-Free"
	DietDairyFree  DietaryRestriction = "Dairy-Free"
	DietNutFree    DietaryRestriction = "Nut-Free"
	DietHalal      DietaryRestriction = "Halal"
	DietKosher     DietaryRestriction = "Kosher"
)

var (
	cuisineLookup = lookupOf(CuisineIndian, CuisineItalian, CuisineAsian, CuisineMexican,
		CuisineMediterranean, CuisineAmerican, CuisineThai, CuisineChinese, CuisineJapanese, CuisineKorean)
	spiceLookup       = lookupOf(SpiceMild, SpiceMedium, SpiceSpicy, SpiceExtraSpicy)
	mealTypeLookup    = lookupOf(MealBreakfast, MealLunch, MealDinner, MealSnack)
	restrictionLookup = lookupOf(DietVegetarian, DietVegan, DietGlutenFree, DietDairyFree,
		DietNutFree, DietHalal, DietKosher)
	cookingTimeLookup = map[string]CookingTime{
		"15": CookingTime15, "15 mins": CookingTime15, "15 minutes": CookingTime15,
		"30": CookingTime30, "30 mins": CookingTime30, "30 minutes": CookingTime30,
		"45": CookingTime45, "45 mins": CookingTime45, "45 minutes": CookingTime45,
		"60": CookingTime60, "60+": CookingTime60, "60+ mins": CookingTime60, "60+ minutes": CookingTime60,
	}
)

// enumKey 正規化列舉輸入：小寫，底線與連字號視為空白
func enumKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("_", " ", "-", " ").Replace(key)
	return strings.Join(strings.Fields(key), " ")
}

func lookupOf[T ~string](values ...T) map[string]T {
	m := make(map[string]T, len(values))
	for _, v := range values {
		m[enumKey(string(v))] = v
	}
	return m
}

func parseEnum[T ~string](kind, raw string, lookup map[string]T) (T, error) {
	if v, ok := lookup[enumKey(raw)]; ok {
		return v, nil
	}
	var zero T
	return zero, NewError(ErrCodeInvalidEnum, fmt.Sprintf("invalid %s: %q", kind, raw), ErrInvalidEnum.Status, nil)
}

func unmarshalEnum[T ~string](data []byte, dst *T, parse func(string) (T, error)) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := parse(raw)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// ParseCuisine 解析料理類型
func ParseCuisine(raw string) (Cuisine, error) { return parseEnum("cuisine", raw, cuisineLookup) }

// ParseSpiceLevel 解析辣度
func ParseSpiceLevel(raw string) (SpiceLevel, error) {
	return parseEnum("spice level", raw, spiceLookup)
}

// ParseMealType 解析餐別
func ParseMealType(raw string) (MealType, error) { return parseEnum("meal type", raw, mealTypeLookup) }

// ParseCookingTime 解析烹飪時間
func ParseCookingTime(raw string) (CookingTime, error) {
	key := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	if v, ok := cookingTimeLookup[key]; ok {
		return v, nil
	}
	return parseEnum("cooking time", raw, map[string]CookingTime{})
}

// ParseDietaryRestriction 解析飲食限制
func ParseDietaryRestriction(raw string) (DietaryRestriction, error) {
	return parseEnum("dietary restriction", raw, restrictionLookup)
}

// UnmarshalJSON 實現 json.Unmarshaler
func (c *Cuisine) UnmarshalJSON(data []byte) error { return unmarshalEnum(data, c, ParseCuisine) }

// UnmarshalJSON 實現 json.Unmarshaler
func (s *SpiceLevel) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, ParseSpiceLevel)
}

// UnmarshalJSON 實現 json.Unmarshaler
func (m *MealType) UnmarshalJSON(data []byte) error { return unmarshalEnum(data, m, ParseMealType) }

// UnmarshalJSON 實現 json.Unmarshaler
func (c *CookingTime) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, c, ParseCookingTime)
}

// UnmarshalJSON 實現 json.Unmarshaler
func (d *DietaryRestriction) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, d, ParseDietaryRestriction)
}
