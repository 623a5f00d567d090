package service

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/snapdish/backend/internal/models"
)

// maxRecipes caps how many suggestions are kept from one model answer.
const maxRecipes = 3

var (
	ingredientsPattern = regexp.MustCompile(`(?s)"ingredients"\s*:\s*\[(.*?)\]`)
	recipesPattern     = regexp.MustCompile(`(?s)"recipes"\s*:\s*\[(.*?)\]`)
)

// ParseAnalysis reshapes the model's raw text answer into an AnalysisResult.
// The model is asked for strict JSON but answers can arrive fenced, prefixed
// with prose, or partially malformed, so parsing is tolerant and an
// unusable answer yields an empty result rather than an error.
func ParseAnalysis(raw string) *models.AnalysisResult {
	cleaned := cleanResponseText(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		data = extractArrays(cleaned)
	}

	result := models.NewAnalysisResult()

	if list, ok := data["ingredients"].([]any); ok {
		for _, item := range list {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			name := asString(obj["name"])
			if name == "" {
				continue
			}
			category := asString(obj["category"])
			if category == "" {
				category = "unknown"
			}
			result.Ingredients = append(result.Ingredients, models.Ingredient{
				Name:     name,
				Category: category,
			})
		}
	}

	if list, ok := data["recipes"].([]any); ok {
		for _, item := range list {
			if len(result.Recipes) >= maxRecipes {
				break
			}
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			title := asString(obj["title"])
			if title == "" {
				continue
			}
			prepTime := asString(obj["prep_time"])
			if prepTime == "" {
				prepTime = "30 minutes"
			}
			result.Recipes = append(result.Recipes, models.Recipe{
				Title:      title,
				PrepTime:   prepTime,
				Difficulty: normalizeDifficulty(asString(obj["difficulty"])),
				Steps:      asStringSlice(obj["steps"]),
			})
		}
	}

	return result
}

// cleanResponseText strips markdown fences and slices out the JSON object.
func cleanResponseText(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}

// extractArrays salvages the ingredients and recipes arrays from a response
// whose surrounding JSON did not parse.
func extractArrays(text string) map[string]any {
	data := map[string]any{}

	if m := ingredientsPattern.FindStringSubmatch(text); m != nil {
		var list []any
		if err := json.Unmarshal([]byte("["+m[1]+"]"), &list); err == nil {
			data["ingredients"] = list
		}
	}

	if m := recipesPattern.FindStringSubmatch(text); m != nil {
		var list []any
		if err := json.Unmarshal([]byte("["+m[1]+"]"), &list); err == nil {
			data["recipes"] = list
		}
	}

	return data
}

// normalizeDifficulty maps free-form difficulty text onto easy|medium|hard.
func normalizeDifficulty(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "easy":
		return "easy"
	case "hard":
		return "hard"
	default:
		return "medium"
	}
}

func asString(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func asStringSlice(value any) []string {
	list, ok := value.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s := asString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
