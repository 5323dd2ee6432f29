package domain

import "fmt"

// DefaultResults returns the built-in creature table: one entry per 4-letter
// type code across the four trait axes.
func DefaultResults() ResultTable {
	return ResultTable{
		"INTJ": {
			TypeName:    "Mastermind",
			Creature:    "Lich",
			Description: "Brilliant strategist with immense arcane knowledge. Immortal, calculating, and always three steps ahead.",
			ImagePath:   "/images/creatures/lich.jpg",
		},
		"INTP": {
			TypeName:    "Thinker",
			Creature:    "Wizard",
			Description: "Curious, theoretical, and obsessed with understanding the underlying magic of the universe.",
			ImagePath:   "/images/creatures/wizard.jpg",
		},
		"ENTJ": {
			TypeName:    "Commander",
			Creature:    "Dragon",
			Description: "Powerful, ambitious, and commanding respect from all who meet you. You collect both treasures and followers.",
			ImagePath:   "/images/creatures/dragon.jpg",
		},
		"ENTP": {
			TypeName:    "Debater",
			Creature:    "Chest Mimic",
			Description: "Clever, witty, and full of surprises. You challenge assumptions and enjoy turning situations upside down.",
			ImagePath:   "/images/creatures/chest-mimic.jpg",
		},
		"INFJ": {
			TypeName:    "Advocate",
			Creature:    "Phoenix",
			Description: "Rare and insightful, you rise from adversity and inspire others with your vision and resilience.",
			ImagePath:   "/images/creatures/phoenix.jpg",
		},
		"INFP": {
			TypeName:    "Mediator",
			Creature:    "Unicorn",
			Description: "Pure of heart, idealistic, and magical. You bring healing and inspiration wherever you go.",
			ImagePath:   "/images/creatures/unicorn.jpg",
		},
		"ENFJ": {
			TypeName:    "Protagonist",
			Creature:    "Hero",
			Description: "Born leader with charisma and a natural desire to champion others in their quests and dreams.",
			ImagePath:   "/images/creatures/hero.jpg",
		},
		"ENFP": {
			TypeName:    "Campaigner",
			Creature:    "Chimera",
			Description: "Creative, enthusiastic, and multi-talented. Your diverse nature means you're never predictable.",
			ImagePath:   "/images/creatures/chimera.jpg",
		},
		"ISTJ": {
			TypeName:    "Logistician",
			Creature:    "Cerberus",
			Description: "Loyal, reliable guardian with keen attention to detail and unwavering commitment to duty.",
			ImagePath:   "/images/creatures/cerberus.jpg",
		},
		"ISFJ": {
			TypeName:    "Defender",
			Creature:    "Treant",
			Description: "Nurturing protector with deep roots and a strong sense of tradition and caring.",
			ImagePath:   "/images/creatures/treant.jpg",
		},
		"ESTJ": {
			TypeName:    "Executive",
			Creature:    "Minotaur",
			Description: "Strong, decisive, and practical leader who establishes order through clear rules and structures.",
			ImagePath:   "/images/creatures/minotaur.jpg",
		},
		"ESFJ": {
			TypeName:    "Consul",
			Creature:    "Griffon",
			Description: "Noble, vigilant protector who brings people together and maintains social harmony.",
			ImagePath:   "/images/creatures/griffon.jpg",
		},
		"ISTP": {
			TypeName:    "Virtuoso",
			Creature:    "Anaconda",
			Description: "Adaptable, observant, and masterful at striking at just the right moment with precision.",
			ImagePath:   "/images/creatures/anaconda.jpg",
		},
		"ISFP": {
			TypeName:    "Adventurer",
			Creature:    "Elf",
			Description: "Artistic, sensitive, and in tune with the natural world. You live life with quiet passion.",
			ImagePath:   "/images/creatures/elf.jpg",
		},
		"ESTP": {
			TypeName:    "Entrepreneur",
			Creature:    "Werewolf",
			Description: "Bold, adaptable, and thriving on excitement. You transform to meet any challenge head-on.",
			ImagePath:   "/images/creatures/werewolf.jpg",
		},
		"ESFP": {
			TypeName:    "Entertainer",
			Creature:    "Slime",
			Description: "Flexible, joyful, and surprisingly resilient. You bounce back from anything and bring smiles wherever you go.",
			ImagePath:   "/images/creatures/slime.jpg",
		},
	}
}

// Lookup returns the entry for a type code, falling back to a synthesized
// result when the table has no match. With four binary axes the fallback
// should be unreachable, but it guards against an edited table.
func (t ResultTable) Lookup(code string) ResultEntry {
	if entry, ok := t[code]; ok {
		return entry
	}
	return ResultEntry{
		TypeName:    "Unknown",
		Creature:    "Mystery Being",
		Description: fmt.Sprintf("A mysterious creature beyond classification. Your personality type was %s but it could not be matched.", code),
		ImagePath:   "/images/creatures/mystery-being.jpg",
	}
}
