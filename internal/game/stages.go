package game

// Icons used by the stages.
const (
	Heart    Icon = "Heart"
	Star     Icon = "Star"
	Sun      Icon = "Sun"
	Moon     Icon = "Moon"
	Cloud    Icon = "Cloud"
	Flower   Icon = "Flower"
	Zap      Icon = "Zap"
	Plane    Icon = "Plane"
	Car      Icon = "Car"
	Bike     Icon = "Bike"
	Umbrella Icon = "Umbrella"
	Music    Icon = "Music"
	Gift     Icon = "Gift"
	Cake     Icon = "Cake"
	Crown    Icon = "Crown"
	Diamond  Icon = "Diamond"
	Gem      Icon = "Gem"
	Leaf     Icon = "Leaf"
)

var glyphs = map[Icon]string{
	Heart:    "❤️",
	Star:     "⭐",
	Sun:      "☀️",
	Moon:     "🌙",
	Cloud:    "☁️",
	Flower:   "🌸",
	Zap:      "⚡",
	Plane:    "✈️",
	Car:      "🚗",
	Bike:     "🚲",
	Umbrella: "☂️",
	Music:    "🎵",
	Gift:     "🎁",
	Cake:     "🎂",
	Crown:    "👑",
	Diamond:  "🔷",
	Gem:      "💎",
	Leaf:     "🍃",
}

// Glyph returns the emoji used to draw the icon, or its name if it has none.
func (i Icon) Glyph() string {
	if g, found := glyphs[i]; found {
		return g
	}
	return string(i)
}

// PairsFor returns the number of pairs dealt on a board with the given
// number of columns: 6 pairs for 3 columns, 8 otherwise.
func PairsFor(columns int) int {
	if columns == 3 {
		return 6
	}
	return 8
}

// DefaultStages is the sequence of stages played.
var DefaultStages = []Stage{
	{
		Name:    "Stage 1: Basics",
		Columns: 3,
		Icons: []IconColor{
			{Heart, "#fb7185"},
			{Star, "#fbbf24"},
			{Sun, "#facc15"},
			{Moon, "#c084fc"},
			{Cloud, "#38bdf8"},
			{Flower, "#34d399"},
		},
	},
	{
		Name:    "Stage 2: Movement",
		Columns: 4,
		Icons: []IconColor{
			{Zap, "#eab308"},
			{Plane, "#60a5fa"},
			{Car, "#ef4444"},
			{Bike, "#22c55e"},
			{Umbrella, "#818cf8"},
			{Music, "#f472b6"},
			{Cloud, "#38bdf8"},
			{Sun, "#fb923c"},
		},
	},
	{
		Name:    "Stage 3: Treasures",
		Columns: 4,
		Icons: []IconColor{
			{Gift, "#f87171"},
			{Cake, "#f9a8d4"},
			{Crown, "#eab308"},
			{Diamond, "#93c5fd"},
			{Gem, "#c084fc"},
			{Leaf, "#4ade80"},
			{Star, "#fbbf24"},
			{Heart, "#f43f5e"},
			{Moon, "#a5b4fc"},
			{Zap, "#facc15"},
		},
	},
}
