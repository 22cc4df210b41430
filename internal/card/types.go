package card

// Built-in card type IDs.
const (
	TypeTree          TypeID = "tree"
	TypeLog           TypeID = "log"
	TypePlank         TypeID = "plank"
	TypeClay          TypeID = "clay"
	TypeClayPatch     TypeID = "clay_patch"
	TypeCoin          TypeID = "coin"
	TypeHeartstone    TypeID = "heartstone"
	TypeVillager      TypeID = "villager"
	TypeMarket        TypeID = "market"
	TypeBuyForestPack TypeID = "buy_forest_pack"
	TypeForestPack    TypeID = "forest_pack"
)

func price(v int) *int { return &v }

// Builtin returns the built-in card type table, keyed by type ID.
func Builtin() map[TypeID]Type {
	types := []Type{
		{ID: TypeTree, Category: Nature, Uses: 3},
		{ID: TypeLog, Category: Resource, Value: price(1)},
		{ID: TypePlank, Category: Resource, Value: price(2)},
		{ID: TypeClay, Category: Resource, Value: price(1)},
		{ID: TypeClayPatch, Category: Nature, Uses: 3},
		{ID: TypeCoin, Category: Valuable, Value: price(1)},
		{ID: TypeHeartstone, Category: Gem, Value: price(3)},
		{ID: TypeVillager, Category: Worker},
		{ID: TypeMarket, Category: SystemCard, ExclusiveBottom: true},
		// The value on a buy card is the pack's cost in coins.
		{ID: TypeBuyForestPack, Category: SystemCard, Value: price(3), ExclusiveBottom: true},
		{ID: TypeForestPack, Category: CardPack, Pack: &Pack{
			Cards:   3,
			Options: []TypeID{TypeTree, TypeClay},
		}},
	}

	table := make(map[TypeID]Type, len(types))
	for _, t := range types {
		table[t.ID] = t
	}
	return table
}
