package recipe

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"recipe-recommender/internal/pkg/common"
)

// 解析失敗時的預設值
const (
	DefaultCookingTime = 30
	DefaultDifficulty  = "Medium"
	defaultCuisine     = "Fusion"
	stepTimeMarker     = "(Time:"
)

// section 目前所在的區段
type section int

const (
	sectionNone section = iota
	sectionIngredients
	sectionInstructions
)

// parseState 單次解析的狀態
type parseState struct {
	recipe  common.ParsedRecipe
	section section
	step    int
}

// lineMatcher 嘗試處理一行文字，處理成功回傳 true
type lineMatcher func(st *parseState, line string) bool

// matchers 依優先順序排列，每行只會被第一個符合的規則處理
var matchers = []lineMatcher{
	prefixField("Title:", func(st *parseState, v string) { st.recipe.Title = v }),
	prefixField("Description:", func(st *parseState, v string) { st.recipe.Description = v }),
	prefixField("Cooking Time:", func(st *parseState, v string) { st.recipe.CookingTime = parseCookingTime(v) }),
	prefixField("Difficulty:", func(st *parseState, v string) { st.recipe.Difficulty = v }),
	prefixField("Tags:", func(st *parseState, v string) { st.recipe.Tags = parseTags(v) }),
	sectionHeader("Ingredients:", sectionIngredients),
	sectionHeader("Instructions:", sectionInstructions),
	matchIngredient,
	matchInstruction,
}

// Parse 將模型輸出的半結構化文字解析為食譜，不會失敗
func Parse(text string) common.ParsedRecipe {
	return ParseWithCuisine(text, "")
}

// ParseWithCuisine 同 Parse，缺少標題時以料理類型組出預設標題
func ParseWithCuisine(text string, cuisine common.Cuisine) common.ParsedRecipe {
	st := &parseState{
		recipe: common.ParsedRecipe{
			CookingTime:  DefaultCookingTime,
			Difficulty:   DefaultDifficulty,
			Tags:         []string{},
			Ingredients:  []common.RecipeIngredient{},
			Instructions: []common.RecipeInstruction{},
		},
		step: 1,
	}

	for _, raw := range strings.Split(strings.TrimSpace(text), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		for _, match := range matchers {
			if match(st, line) {
				break
			}
		}
	}

	if st.recipe.Title == "" {
		st.recipe.Title = DefaultTitle(cuisine)
	}
	return st.recipe
}

// DefaultTitle 缺少標題時使用的名稱
func DefaultTitle(cuisine common.Cuisine) string {
	name := string(cuisine)
	if name == "" {
		name = defaultCuisine
	}
	return fmt.Sprintf("Yippee! %s Delight", name)
}

func prefixField(prefix string, set func(st *parseState, value string)) lineMatcher {
	return func(st *parseState, line string) bool {
		rest, ok := strings.CutPrefix(line, prefix)
		if !ok {
			return false
		}
		set(st, strings.TrimSpace(rest))
		return true
	}
}

func sectionHeader(prefix string, next section) lineMatcher {
	return func(st *parseState, line string) bool {
		if !strings.HasPrefix(line, prefix) {
			return false
		}
		st.section = next
		return true
	}
}

// matchIngredient 處理 "- 名稱: 數量 備註"，沒有冒號的行會被吃掉但不產生食材
func matchIngredient(st *parseState, line string) bool {
	if st.section != sectionIngredients || !strings.HasPrefix(line, "-") {
		return false
	}
	name, rest, ok := strings.Cut(strings.TrimSpace(line[1:]), ":")
	if !ok {
		return true
	}

	quantity, notes := splitFirstField(strings.TrimSpace(rest))
	ingredient := common.RecipeIngredient{
		Name:     strings.TrimSpace(name),
		Quantity: quantity,
	}
	if notes != "" {
		ingredient.Notes = &notes
	}
	st.recipe.Ingredients = append(st.recipe.Ingredients, ingredient)
	return true
}

// matchInstruction 處理以數字開頭的步驟，步驟編號一律重新從 1 起算
func matchInstruction(st *parseState, line string) bool {
	if st.section != sectionInstructions {
		return false
	}
	if r, _ := utf8.DecodeRuneInString(line); !unicode.IsDigit(r) {
		return false
	}

	text := line
	if _, after, ok := strings.Cut(line, "."); ok {
		text = after
	}

	var minutes *int
	if body, timePart, ok := strings.Cut(text, stepTimeMarker); ok {
		text = body
		inner, _, _ := strings.Cut(timePart, ")")
		if n, err := firstInt(inner); err == nil {
			minutes = &n
		}
	}

	st.recipe.Instructions = append(st.recipe.Instructions, common.RecipeInstruction{
		StepNumber:  st.step,
		Instruction: strings.TrimSpace(text),
		TimeMinutes: minutes,
	})
	st.step++
	return true
}

func parseCookingTime(value string) int {
	n, err := firstInt(value)
	if err != nil {
		return DefaultCookingTime
	}
	return n
}

func parseTags(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	tags := make([]string, len(parts))
	for i, p := range parts {
		tags[i] = strings.TrimSpace(p)
	}
	return tags
}

// firstInt 取第一個以空白分隔的欄位轉為整數
func firstInt(value string) (int, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return 0, fmt.Errorf("no number in %q", value)
	}
	return strconv.Atoi(fields[0])
}

// splitFirstField 以第一段空白切成數量與備註
func splitFirstField(value string) (string, string) {
	idx := strings.IndexFunc(value, unicode.IsSpace)
	if idx < 0 {
		return value, ""
	}
	return value[:idx], strings.TrimSpace(value[idx:])
}
