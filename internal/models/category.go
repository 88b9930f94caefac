package models

// Category is the fixed set of ad categories.
type Category string

const (
	CategoryTank          Category = "TANK"
	CategoryHeal          Category = "HEAL"
	CategoryDD            Category = "DD"
	CategoryTrader        Category = "TRADER"
	CategoryGuildmaster   Category = "GUILDMASTER"
	CategoryQuestgiver    Category = "QUESTGIVER"
	CategoryBlacksmith    Category = "BLACKSMITH"
	CategoryLeatherworker Category = "LEATHERWORKER"
	CategoryAlchemist     Category = "ALCHEMIST"
	CategorySpellmaster   Category = "SPELLMASTER"
)

// CategoryChoice pairs a category code with its display label.
type CategoryChoice struct {
	Code  Category `json:"code"`
	Label string   `json:"label"`
}

// Categories lists every category in display order.
var Categories = []CategoryChoice{
	{CategoryTank, "Tanks"},
	{CategoryHeal, "Healers"},
	{CategoryDD, "Damage dealers"},
	{CategoryTrader, "Traders"},
	{CategoryGuildmaster, "Guild masters"},
	{CategoryQuestgiver, "Quest givers"},
	{CategoryBlacksmith, "Blacksmiths"},
	{CategoryLeatherworker, "Leatherworkers"},
	{CategoryAlchemist, "Alchemists"},
	{CategorySpellmaster, "Spell masters"},
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	for _, choice := range Categories {
		if choice.Code == c {
			return true
		}
	}
	return false
}

// Label returns the display label, or the raw code when unknown.
func (c Category) Label() string {
	for _, choice := range Categories {
		if choice.Code == c {
			return choice.Label
		}
	}
	return string(c)
}
