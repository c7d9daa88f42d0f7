package poker

import (
	"fmt"
	"math/rand/v2"
)

// DeckSize is the number of cards in a standard deck
const DeckSize = 52

// Deck is an ordered sequence of cards. A fresh deck is built for every hand
// and shrinks from the top as cards are dealt.
type Deck struct {
	cards []Card
}

// NewDeck creates a full 52-card deck in canonical order: suits hearts,
// diamonds, clubs, spades, and ranks two through ace within each suit.
func NewDeck() Deck {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range suits {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return Deck{cards: cards}
}

// Shuffle returns a shuffled copy of d using Fisher-Yates from the end
// backward. d itself is not modified. A nil rng falls back to the global
// source.
func (d Deck) Shuffle(rng *rand.Rand) Deck {
	cards := make([]Card, len(d.cards))
	copy(cards, d.cards)

	for i := len(cards) - 1; i > 0; i-- {
		var j int
		if rng != nil {
			j = rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		cards[i], cards[j] = cards[j], cards[i]
	}
	return Deck{cards: cards}
}

// Shuffle is the function form of Deck.Shuffle
func Shuffle(d Deck, rng *rand.Rand) Deck {
	return d.Shuffle(rng)
}

// NewShuffledDeck builds a fresh deck and shuffles it
func NewShuffledDeck(rng *rand.Rand) Deck {
	return NewDeck().Shuffle(rng)
}

// Deal removes n cards from the top of the deck
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 || n > len(d.cards) {
		return nil, fmt.Errorf("deal %d cards from %d remaining: %w", n, len(d.cards), ErrPrecondition)
	}
	dealt := make([]Card, n)
	copy(dealt, d.cards[:n])
	d.cards = d.cards[n:]
	return dealt, nil
}

// DealOne deals a single card from the top of the deck
func (d *Deck) DealOne() (Card, error) {
	cards, err := d.Deal(1)
	if err != nil {
		return Card{}, err
	}
	return cards[0], nil
}

// Remove takes the given cards out of the deck wherever they are and
// returns how many were found. The order of the remaining cards is kept.
func (d *Deck) Remove(cards ...Card) int {
	drop := make(map[Card]bool, len(cards))
	for _, c := range cards {
		drop[c] = true
	}
	kept := make([]Card, 0, len(d.cards))
	for _, c := range d.cards {
		if !drop[c] {
			kept = append(kept, c)
		}
	}
	removed := len(d.cards) - len(kept)
	d.cards = kept
	return removed
}

// Len returns the number of cards left in the deck
func (d Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards in deal order
func (d Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
