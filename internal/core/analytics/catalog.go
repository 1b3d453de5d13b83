package analytics

// Behavioral categories a habit can be classified into.
const (
	CategoryHealth       = "health"
	CategoryFitness      = "fitness"
	CategoryMindfulness  = "mindfulness"
	CategoryProductivity = "productivity"
	CategoryLearning     = "learning"
	CategorySelfCare     = "selfCare"
	CategoryNutrition    = "nutrition"
	CategorySleep        = "sleep"
)

// AllCategories is the fixed category order used for gap detection, so gap
// suggestions come out in a stable order.
var AllCategories = []string{
	CategoryHealth,
	CategoryFitness,
	CategoryMindfulness,
	CategoryProductivity,
	CategoryLearning,
	CategorySelfCare,
	CategoryNutrition,
	CategorySleep,
}

// HabitTemplate is one entry of the suggestion catalog. Catalog and lexicon
// are configuration data: the substring matching built on them is an
// intentionally approximate heuristic ("work" matches "workout"), replaced
// by swapping the data, not by hardening edge cases.
type HabitTemplate struct {
	Name          string
	Icon          string
	Color         string
	Category      string
	Keywords      []string
	Complementary []string
}

// categoryKeywords classifies existing habits by case-insensitive substring
// match against their names.
var categoryKeywords = map[string][]string{
	CategoryHealth:       {"water", "hydrate", "steps", "walk", "posture", "stretch", "vitamin"},
	CategoryFitness:      {"workout", "gym", "run", "exercise", "yoga", "swim", "bike", "train", "push-up", "squat"},
	CategoryMindfulness:  {"meditat", "breath", "mindful", "gratitude", "journal", "reflect"},
	CategoryProductivity: {"plan", "focus", "inbox", "deep work", "pomodoro", "todo", "review"},
	CategoryLearning:     {"read", "study", "learn", "language", "practice", "course", "duolingo"},
	CategorySelfCare:     {"skincare", "bath", "relax", "hobby", "music", "nature", "friend", "call"},
	CategoryNutrition:    {"eat", "meal", "fruit", "vegetable", "cook", "protein", "sugar", "calorie"},
	CategorySleep:        {"sleep", "bed", "wake", "nap", "screen", "wind down"},
}

// DefaultCatalog is the built-in habit template catalog matched against the
// user's existing habits by the suggestion engine.
var DefaultCatalog = []HabitTemplate{
	{
		Name:          "Drink Water",
		Icon:          "drop",
		Color:         "#4FC3F7",
		Category:      CategoryHealth,
		Keywords:      []string{"water", "hydrate", "run", "workout", "gym"},
		Complementary: []string{CategoryFitness, CategoryNutrition},
	},
	{
		Name:          "Daily Walk",
		Icon:          "figure.walk",
		Color:         "#81C784",
		Category:      CategoryHealth,
		Keywords:      []string{"walk", "steps", "run", "outdoor"},
		Complementary: []string{CategoryFitness, CategoryMindfulness},
	},
	{
		Name:          "Morning Stretch",
		Icon:          "figure.flexibility",
		Color:         "#FFB74D",
		Category:      CategoryHealth,
		Keywords:      []string{"stretch", "yoga", "workout", "gym", "run"},
		Complementary: []string{CategoryFitness, CategorySleep},
	},
	{
		Name:          "Workout",
		Icon:          "dumbbell",
		Color:         "#E57373",
		Category:      CategoryFitness,
		Keywords:      []string{"gym", "exercise", "train", "run", "workout"},
		Complementary: []string{CategoryHealth, CategoryNutrition},
	},
	{
		Name:          "Go for a Run",
		Icon:          "figure.run",
		Color:         "#F06292",
		Category:      CategoryFitness,
		Keywords:      []string{"run", "jog", "walk", "cardio"},
		Complementary: []string{CategoryHealth, CategorySleep},
	},
	{
		Name:          "Meditate",
		Icon:          "brain.head.profile",
		Color:         "#9575CD",
		Category:      CategoryMindfulness,
		Keywords:      []string{"meditat", "breath", "mindful", "yoga"},
		Complementary: []string{CategorySleep, CategorySelfCare},
	},
	{
		Name:          "Gratitude Journal",
		Icon:          "book.closed",
		Color:         "#BA68C8",
		Category:      CategoryMindfulness,
		Keywords:      []string{"journal", "gratitude", "write", "reflect"},
		Complementary: []string{CategorySelfCare, CategorySleep},
	},
	{
		Name:          "Plan Tomorrow",
		Icon:          "calendar",
		Color:         "#64B5F6",
		Category:      CategoryProductivity,
		Keywords:      []string{"plan", "todo", "review", "journal"},
		Complementary: []string{CategoryMindfulness, CategorySleep},
	},
	{
		Name:          "Deep Work Session",
		Icon:          "timer",
		Color:         "#4DB6AC",
		Category:      CategoryProductivity,
		Keywords:      []string{"focus", "work", "study", "pomodoro"},
		Complementary: []string{CategoryLearning, CategoryMindfulness},
	},
	{
		Name:          "Read 20 Minutes",
		Icon:          "book",
		Color:         "#A1887F",
		Category:      CategoryLearning,
		Keywords:      []string{"read", "book", "study", "learn"},
		Complementary: []string{CategoryProductivity, CategorySleep},
	},
	{
		Name:          "Practice a Language",
		Icon:          "character.bubble",
		Color:         "#7986CB",
		Category:      CategoryLearning,
		Keywords:      []string{"language", "duolingo", "practice", "study"},
		Complementary: []string{CategoryProductivity, CategoryMindfulness},
	},
	{
		Name:          "Evening Wind Down",
		Icon:          "moon.stars",
		Color:         "#90A4AE",
		Category:      CategorySelfCare,
		Keywords:      []string{"relax", "bath", "music", "wind down"},
		Complementary: []string{CategorySleep, CategoryMindfulness},
	},
	{
		Name:          "Call a Friend",
		Icon:          "phone",
		Color:         "#FFD54F",
		Category:      CategorySelfCare,
		Keywords:      []string{"friend", "call", "family", "social"},
		Complementary: []string{CategoryMindfulness},
	},
	{
		Name:          "Eat a Vegetable",
		Icon:          "carrot",
		Color:         "#AED581",
		Category:      CategoryNutrition,
		Keywords:      []string{"eat", "meal", "vegetable", "cook", "calorie"},
		Complementary: []string{CategoryHealth, CategoryFitness},
	},
	{
		Name:          "Cook at Home",
		Icon:          "frying.pan",
		Color:         "#FF8A65",
		Category:      CategoryNutrition,
		Keywords:      []string{"cook", "meal", "eat", "recipe"},
		Complementary: []string{CategoryHealth, CategorySelfCare},
	},
	{
		Name:          "Consistent Bedtime",
		Icon:          "bed.double",
		Color:         "#7E57C2",
		Category:      CategorySleep,
		Keywords:      []string{"sleep", "bed", "wake", "rest"},
		Complementary: []string{CategoryMindfulness, CategorySelfCare},
	},
	{
		Name:          "No Screens After 10pm",
		Icon:          "iphone.slash",
		Color:         "#546E7A",
		Category:      CategorySleep,
		Keywords:      []string{"screen", "phone", "sleep", "bed"},
		Complementary: []string{CategorySleep, CategoryMindfulness},
	},
}
