package httpapi

import (
	"fmt"

	"github.com/dkovalev/nutrigenie/internal/server/searches"
)

// buildPrompt wraps the user query in the per-feature prompt scaffolding
// sent to the generative backend. The raw query, not the scaffolded prompt,
// is what gets persisted in history.
func buildPrompt(feature searches.Feature, query string) string {
	switch feature {
	case searches.FeatureNutrigenie:
		return fmt.Sprintf(`You are a certified nutritionist. A user has the following health problem: %s.
Provide detailed recommendations, including:
1. Foods to eat.
2. Foods to avoid.
3. Lifestyle and exercise tips.`, query)

	case searches.FeatureCalorieTracker:
		return `You are an expert nutritionist. Analyze the image to identify the food items
and calculate the total calories. Provide the result in the following format:
Calories
1. Item 1 - no. of calories
2. Item 2 - no. of calories
----
Protein
1. Item 1 - no. of protein
2. Item 2 - no. of protein
----
Carbs
1. Item 1 - no. of carbs
2. Item 2 - no. of carbs
----
Fats
1. Item 1 - no. of fats
2. Item 2 - no. of fats`

	case searches.FeatureMetaboTrack:
		return fmt.Sprintf(`You are a highly advanced AI metabolism tracker.
A user wants to optimize their metabolism and improve health.
Analyze the user's data and provide personalized suggestions.

User Information:
%s

Your Analysis Should Include:
1. Metabolism Score (0-100) based on their inputs.
2. Identify if the user is in Fat Storage Mode, Balanced Metabolism, or Fat Burning Mode.
3. Best time for the user to eat, exercise, and rest for optimal metabolism.
4. Personalized advice to improve metabolic health.`, query)

	case searches.FeatureRecipeMaster:
		return fmt.Sprintf(`You are a master chef and nutritionist. Based on the following inputs:
%s

Suggest 3 healthy and delicious recipes. For each recipe, include:
1. Recipe name
2. Brief description
3. Ingredients list
4. Step-by-step cooking instructions
5. Nutritional information (calories, protein, carbs, fats)`, query)

	case searches.FeatureSmartShopper:
		return fmt.Sprintf(`You are a kitchen assistant. Based on the following inputs:
%s

Create a smart shopping list by identifying the missing ingredients needed to make the planned recipes.
Categorize the ingredients into sections (e.g., Vegetables, Spices, Dairy, etc.) for easy shopping.`, query)

	default:
		return query
	}
}
