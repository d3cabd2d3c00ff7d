package card

import "sync"

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in card set. The same catalog is returned on every call.
func Default() *Catalog {
	defaultOnce.Do(func() {
		catalog, err := FromSpecs(defaultSpecs())
		if err != nil {
			panic(err)
		}
		defaultCatalog = catalog
	})
	return defaultCatalog
}

func defaultSpecs() []Spec {
	return []Spec{
		{ID: "MON_001", Name: "Stone Turtle", Cost: 3, Attack: 2, Defense: 3,
			Description: "A sturdy turtle with 2 attack and 3 defense."},
		{ID: "MON_002", Name: "Flame Wolf", Cost: 4, Attack: 4, Defense: 2,
			Description: "An aggressive wolf wrapped in fire."},
		{ID: "MON_003", Name: "Forest Guardian", Cost: 5, Attack: 3, Defense: 5,
			Description: "Keeper of the woods, strong on defense."},
		{ID: "MON_004", Name: "Goblin Warrior", Cost: 2, Attack: 2, Defense: 1,
			Description: "A cheap attacker."},
		{ID: "MON_005", Name: "Goblin Shieldbearer", Cost: 2, Attack: 1, Defense: 3,
			Description: "A low-cost defensive goblin."},
		{ID: "MON_006", Name: "Ice Golem", Cost: 6, Attack: 4, Defense: 7,
			Description: "A golem of ice with high health."},
		{ID: "MON_007", Name: "Fire Elemental", Cost: 5, Attack: 6, Defense: 1,
			Description: "A fire spirit with very high attack."},
		{ID: "MON_008", Name: "Wind Knight", Cost: 4, Attack: 3, Defense: 3,
			Description: "A balanced knight of the wind."},
		{ID: "MON_009", Name: "Earth Sentinel", Cost: 5, Attack: 2, Defense: 6,
			Description: "Draws on the earth to hold the line."},
		{ID: "MON_010", Name: "Priest of Light", Cost: 3, Attack: 1, Defense: 4,
			Description: "A defensive light-aligned cleric."},
		{ID: "MON_011", Name: "Taunting Shieldbearer", Cost: 4, Attack: 2, Defense: 6,
			Effects:     []Effect{NewEffect(EffectTaunt, 0)},
			Description: "A taunt tank that draws enemy attacks to itself."},
		{ID: "MON_012", Name: "Heartbreaker", Cost: 6, Attack: 5, Defense: 2,
			Effects:     []Effect{NewEffect(EffectDirectAttackPlayer, 5)},
			Description: "Deals 5 damage directly to the enemy hero."},
		{ID: "MON_013", Name: "Raging Mercenary Captain", Type: "ELITE", Cost: 7, Attack: 6, Defense: 4,
			Effects: []Effect{
				NewEffect(EffectTaunt, 0),
				NewEffect(EffectDirectAttackPlayer, 3),
			},
			Description: "Taunt, and deals 3 damage to the enemy hero."},
		{ID: "MON_014", Name: "Assassin Scout", Cost: 4, Attack: 4, Defense: 1,
			Effects:     []Effect{NewEffect(EffectDamageToMonster, 2)},
			Description: "Deals 2 damage to an enemy unit when summoned."},
		{ID: "MON_015", Name: "Guardian Knight", Cost: 5, Attack: 3, Defense: 5,
			Effects:     []Effect{NewEffect(EffectBuffDefense, 2)},
			Description: "A knight who bolsters allied defenses."},
		{ID: "MON_016", Name: "Dragon's Wrath", Type: "ELITE", Cost: 8, Attack: 8, Defense: 4,
			Description: "An expensive dragon with devastating attack."},
		{ID: "MON_017", Name: "Lord of Darkness", Type: "ELITE", Cost: 9, Attack: 9, Defense: 5,
			Description: "A dark sovereign strong in attack and defense."},
		{ID: "MON_018", Name: "Immortal Protector", Cost: 7, Attack: 3, Defense: 9,
			Effects:     []Effect{NewEffect(EffectBuffDefense, 3)},
			Description: "Very high defense; grants a defense buff."},
		{ID: "MON_019", Name: "Mad Sorcerer", Cost: 6, Attack: 6, Defense: 2,
			Effects:     []Effect{NewEffect(EffectDirectAttackPlayer, 4)},
			Description: "Relentlessly targets the enemy hero for 4 damage."},
		{ID: "MON_020", Name: "Overlord Crown", Type: "BOSS", Cost: 10, Attack: 10, Defense: 8,
			Effects: []Effect{
				NewEffect(EffectTaunt, 0),
				NewEffect(EffectDirectAttackPlayer, 6),
			},
			Tags:        []string{"BOSS"},
			Description: "The top-cost boss with taunt and a 6 damage strike."},
	}
}
