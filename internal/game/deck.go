package game

import "math/rand/v2"

// Deck is the ordered collection of cards on the board.
type Deck []Card

// Deal creates the deck for a stage: two cards for each of the first
// stage.Pairs() icons, with ids 2i and 2i+1, in a uniformly shuffled order.
func Deal(stage Stage, rng *rand.Rand) Deck {
	pairs := stage.Pairs()
	deck := make(Deck, 0, 2*pairs)
	for i, ic := range stage.Icons[:pairs] {
		deck = append(deck,
			Card{ID: 2 * i, Icon: ic.Icon, Color: ic.Color},
			Card{ID: 2*i + 1, Icon: ic.Icon, Color: ic.Color},
		)
	}
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}

// Clone returns a copy of the deck.
func (d Deck) Clone() Deck {
	out := make(Deck, len(d))
	copy(out, d)
	return out
}

// Remaining returns the number of cards not yet matched.
func (d Deck) Remaining() int {
	n := 0
	for _, c := range d {
		if !c.Matched {
			n++
		}
	}
	return n
}
