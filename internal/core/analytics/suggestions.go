package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lumoapps/habitpulse-engine/internal/core/domain"
)

const (
	maxSuggestions = 10

	scoreKeywordMatch  = 20
	scoreComplementary = 10
	scoreCategoryGap   = 5
	scoreSuccessBoost  = 15
	relevanceThreshold = 10

	gapSuggestionPriority = 5
	successRateThreshold  = 0.70
)

// SuggestionEngine matches the template catalog against the user's existing
// habits and category coverage. The dismissed set is loaded by the caller
// from the DismissalStore; the engine itself stays stateless.
type SuggestionEngine struct {
	catalog   []HabitTemplate
	dismissed map[string]bool
}

func NewSuggestionEngine(catalog []HabitTemplate, dismissed []string) *SuggestionEngine {
	set := make(map[string]bool, len(dismissed))
	for _, name := range dismissed {
		set[strings.ToLower(name)] = true
	}
	return &SuggestionEngine{catalog: catalog, dismissed: set}
}

// DetectCategories classifies each habit into zero or more categories via
// the keyword lexicon, plus the special-cased externally-synced types.
// Returns the set of categories present among the user's habits.
func DetectCategories(habits []*domain.Habit) map[string]bool {
	detected := make(map[string]bool)

	for _, h := range habits {
		name := strings.ToLower(h.Name)
		for category, keywords := range categoryKeywords {
			for _, kw := range keywords {
				if strings.Contains(name, kw) {
					detected[category] = true
					break
				}
			}
		}

		switch h.HabitType {
		case domain.HabitTypeSleep:
			detected[CategorySleep] = true
		case domain.HabitTypeWater:
			detected[CategoryHealth] = true
		case domain.HabitTypeCalories:
			detected[CategoryNutrition] = true
		}
	}

	return detected
}

// Suggest returns up to 10 ranked habit suggestions: relevance-matched
// templates first, then one gap suggestion per uncovered category, sorted
// descending by priority with insertion order preserved on ties.
func (e *SuggestionEngine) Suggest(habits []*domain.Habit, now time.Time) []domain.HabitSuggestion {
	existing := make(map[string]bool, len(habits))
	for _, h := range habits {
		existing[strings.ToLower(h.Name)] = true
	}

	detected := DetectCategories(habits)

	var suggestions []domain.HabitSuggestion
	suggested := make(map[string]bool)

	for _, tmpl := range e.catalog {
		lowName := strings.ToLower(tmpl.Name)
		if existing[lowName] || e.dismissed[lowName] {
			continue
		}

		score := 0
		var related []string

		for _, h := range habits {
			if !matchesKeywords(h.Name, tmpl.Keywords) {
				continue
			}
			score += scoreKeywordMatch
			related = append(related, h.Name)

			if Calculate(h, now).CompletionRate > successRateThreshold {
				score += scoreSuccessBoost
			}
		}

		for _, category := range tmpl.Complementary {
			if detected[category] {
				score += scoreComplementary
			}
		}

		if !detected[tmpl.Category] {
			score += scoreCategoryGap
		}

		if score < relevanceThreshold && len(related) == 0 {
			continue
		}

		reason, detail := suggestionReason(tmpl, related)

		suggestions = append(suggestions, domain.HabitSuggestion{
			Name:           tmpl.Name,
			Icon:           tmpl.Icon,
			Color:          tmpl.Color,
			Category:       tmpl.Category,
			Reason:         reason,
			DetailedReason: detail,
			RelatedTo:      related,
			Priority:       score,
		})
		suggested[lowName] = true
	}

	// One extra starter suggestion per category the user has no habit in.
	for _, category := range AllCategories {
		if detected[category] {
			continue
		}
		for _, tmpl := range e.catalog {
			lowName := strings.ToLower(tmpl.Name)
			if tmpl.Category != category || existing[lowName] || e.dismissed[lowName] || suggested[lowName] {
				continue
			}
			suggestions = append(suggestions, domain.HabitSuggestion{
				Name:     tmpl.Name,
				Icon:     tmpl.Icon,
				Color:    tmpl.Color,
				Category: category,
				Reason:   fmt.Sprintf("Start your %s journey", categoryLabel(category)),
				Priority: gapSuggestionPriority,
			})
			suggested[lowName] = true
			break
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Priority > suggestions[j].Priority
	})

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	return suggestions
}

func matchesKeywords(habitName string, keywords []string) bool {
	name := strings.ToLower(habitName)
	for _, kw := range keywords {
		if strings.Contains(name, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func suggestionReason(tmpl HabitTemplate, related []string) (reason, detail string) {
	switch len(related) {
	case 0:
		return "A popular habit to round out your routine", ""
	case 1:
		return fmt.Sprintf("Pairs well with %s", related[0]), ""
	default:
		detail = fmt.Sprintf("Builds on %s and %s", related[0], related[1])
		return fmt.Sprintf("Complements your %s habits", categoryLabel(tmpl.Category)), detail
	}
}

func categoryLabel(category string) string {
	if category == CategorySelfCare {
		return "self-care"
	}
	return category
}
