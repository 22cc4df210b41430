package recipe

import (
	"thestacks/internal/board"
	"thestacks/internal/card"
)

// Built-in recipe IDs, in priority order.
const (
	CuttingTree      ID = "cutting_tree"
	MakingPlank      ID = "making_plank"
	SellCards        ID = "sell_cards"
	BuyCardPack      ID = "buy_card_pack"
	CreatingVillager ID = "creating_villager"
)

// Default returns the built-in recipe set.
func Default() (*Registry, error) {
	b := NewBuilder()

	// A worker on top of one or more trees chops a log off one of them.
	b.Recipe(CuttingTree, 2, func(c Check) bool {
		if len(c) < 2 || c.Top().Category != card.Worker {
			return false
		}
		for _, cc := range c[:len(c)-1] {
			if !cc.IsType(card.TypeTree) {
				return false
			}
		}
		return true
	}, func(st *board.State, ready []board.StackID) {
		for _, id := range ready {
			stack := st.Stack(id)
			if stack == nil {
				continue
			}
			pos := stack.Pos
			for _, cid := range stack.Cards {
				c := st.Card(cid)
				if c == nil || !c.IsType(card.TypeTree) {
					continue
				}
				c.Uses--
				if c.Uses <= 0 {
					st.DeleteCards(id, []card.ID{cid})
				}
				break
			}
			st.SpawnStack(pos, card.TypeLog, 1)
		}
	})

	// A worker saws a log into a plank.
	b.Recipe(MakingPlank, 3, func(c Check) bool {
		return len(c) == 2 && c.AnyType(card.TypeLog) && c.AnyCategory(card.Worker)
	}, func(st *board.State, ready []board.StackID) {
		for _, id := range ready {
			stack := st.Stack(id)
			if stack == nil {
				continue
			}
			pos := stack.Pos
			for _, cid := range stack.Cards {
				if c := st.Card(cid); c != nil && c.IsType(card.TypeLog) {
					st.DeleteCards(id, []card.ID{cid})
					break
				}
			}
			st.SpawnStack(pos, card.TypePlank, 1)
		}
	})

	// Cards dropped on a market are sold for their value in coins.
	b.Instant(SellCards, func(c Check) bool {
		return c.BottomIsType(card.TypeMarket) && len(c) > 1 && anySellable(c)
	}, func(st *board.State, ready []board.StackID) {
		for _, id := range ready {
			stack := st.Stack(id)
			if stack == nil {
				continue
			}
			pos := stack.Pos
			var sold []card.ID
			total := 0
			for _, cid := range stack.Cards {
				c := st.Card(cid)
				if c == nil || !c.Sellable() {
					continue
				}
				sold = append(sold, cid)
				total += *c.Value
			}
			st.DeleteCards(id, sold)
			st.SpawnStack(pos, card.TypeCoin, total)
		}
	})

	// Coins dropped on a buy card purchase a forest pack.
	b.Instant(BuyCardPack, func(c Check) bool {
		if !c.BottomIsType(card.TypeBuyForestPack) || c.Bottom().Value == nil {
			return false
		}
		return c.CountType(card.TypeCoin) >= *c.Bottom().Value
	}, func(st *board.State, ready []board.StackID) {
		for _, id := range ready {
			stack := st.Stack(id)
			if stack == nil {
				continue
			}
			bottom := st.Card(stack.BottomCard())
			if bottom == nil || bottom.Value == nil {
				continue
			}
			cost := *bottom.Value
			pos := stack.Pos

			var paid []card.ID
			for _, cid := range stack.Cards {
				if len(paid) == cost {
					break
				}
				if c := st.Card(cid); c != nil && c.IsType(card.TypeCoin) {
					paid = append(paid, cid)
				}
			}
			st.DeleteCards(id, paid)
			st.SpawnStack(pos, card.TypeForestPack, 1)
		}
	})

	// A worker shapes two clay around a heartstone into a new villager.
	b.Recipe(CreatingVillager, 5, func(c Check) bool {
		return len(c) == 4 &&
			c.AnyCategory(card.Worker) &&
			c.CountType(card.TypeClay) == 2 &&
			c.CountType(card.TypeHeartstone) == 1
	}, func(st *board.State, ready []board.StackID) {
		for _, id := range ready {
			stack := st.Stack(id)
			if stack == nil {
				continue
			}
			pos := stack.Pos
			var spent []card.ID
			for _, cid := range stack.Cards {
				c := st.Card(cid)
				if c == nil {
					continue
				}
				if c.IsType(card.TypeClay) || c.IsType(card.TypeHeartstone) {
					spent = append(spent, cid)
				}
			}
			st.DeleteCards(id, spent)
			st.SpawnStack(pos, card.TypeVillager, 1)
		}
	})

	return b.Build()
}

func anySellable(c Check) bool {
	for _, cc := range c {
		if cc.Sellable() {
			return true
		}
	}
	return false
}
