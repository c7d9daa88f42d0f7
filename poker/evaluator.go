package poker

import (
	"fmt"
	"sort"
)

// Category is the class of a five-card hand, ordered from weakest to strongest
type Category uint8

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

func (c Category) String() string {
	switch c {
	case HighCard:
		return "high-card"
	case OnePair:
		return "one-pair"
	case TwoPair:
		return "two-pair"
	case ThreeOfAKind:
		return "three-of-a-kind"
	case Straight:
		return "straight"
	case Flush:
		return "flush"
	case FullHouse:
		return "full-house"
	case FourOfAKind:
		return "four-of-a-kind"
	case StraightFlush:
		return "straight-flush"
	case RoyalFlush:
		return "royal-flush"
	default:
		return "unknown"
	}
}

// Strength is a totally ordered hand score; a larger value is a stronger hand.
//
// The category occupies bits 20-23 and the five ranks that decide the hand
// follow in 4-bit slots, most significant first. Ranks are listed grouped
// (quads, trips, pairs) and then by descending rank, so comparing two
// strengths numerically compares category first and then kickers. A wheel
// straight encodes its ace as 1.
type Strength uint32

const categoryShift = 20

// Category returns the hand class encoded in the strength
func (s Strength) Category() Category {
	return Category(s >> categoryShift)
}

// Compare returns -1, 0 or +1 as a is weaker than, equal to or stronger than b
func Compare(a, b Strength) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// HandResult describes the best five-card hand found among the input cards
type HandResult struct {
	Category Category
	Cards    [5]Card // ordered by group then rank, the way the hand is read
	Strength Strength
	Label    string
}

func (r HandResult) String() string {
	return fmt.Sprintf("%s [%s]", r.Label, FormatCards(r.Cards[:]))
}

// Evaluate returns the best five-card hand that can be made from 5 to 7
// cards. Every five-card subset is scored and the strongest one wins.
func Evaluate(cards []Card) (HandResult, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return HandResult{}, fmt.Errorf("evaluate %d cards, need 5 to 7: %w", len(cards), ErrPrecondition)
	}

	seen := make(map[Card]struct{}, len(cards))
	for _, c := range cards {
		if !c.Valid() {
			return HandResult{}, fmt.Errorf("evaluate invalid card %v: %w", c, ErrPrecondition)
		}
		if _, dup := seen[c]; dup {
			return HandResult{}, fmt.Errorf("evaluate duplicate card %s: %w", c, ErrPrecondition)
		}
		seen[c] = struct{}{}
	}

	var best HandResult
	var hand [5]Card
	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						hand = [5]Card{cards[a], cards[b], cards[c], cards[d], cards[e]}
						if r := scoreFive(hand); r.Strength > best.Strength {
							best = r
						}
					}
				}
			}
		}
	}

	best.Label = describe(best)
	return best, nil
}

// BestOf evaluates hole cards together with the community board
func BestOf(hole, board []Card) (HandResult, error) {
	all := make([]Card, 0, len(hole)+len(board))
	all = append(all, hole...)
	all = append(all, board...)
	return Evaluate(all)
}

// scoreFive classifies exactly five distinct cards
func scoreFive(hand [5]Card) HandResult {
	var counts [Ace + 1]uint8
	flush := true
	for i, c := range hand {
		counts[c.Rank]++
		if i > 0 && c.Suit != hand[0].Suit {
			flush = false
		}
	}

	// Order cards by group size, then by rank, both descending.
	sorted := hand
	sort.Slice(sorted[:], func(i, j int) bool {
		ci, cj := counts[sorted[i].Rank], counts[sorted[j].Rank]
		if ci != cj {
			return ci > cj
		}
		if sorted[i].Rank != sorted[j].Rank {
			return sorted[i].Rank > sorted[j].Rank
		}
		return sorted[i].Suit < sorted[j].Suit
	})

	ranks := [5]Rank{sorted[0].Rank, sorted[1].Rank, sorted[2].Rank, sorted[3].Rank, sorted[4].Rank}
	distinct := counts[ranks[0]] == 1

	straight := false
	if distinct {
		switch {
		case ranks[0]-ranks[4] == 4:
			straight = true
		case ranks == [5]Rank{Ace, Five, Four, Three, Two}:
			// Wheel: the ace plays low.
			straight = true
			sorted = [5]Card{sorted[1], sorted[2], sorted[3], sorted[4], sorted[0]}
			ranks = [5]Rank{Five, Four, Three, Two, 1}
		}
	}

	var cat Category
	switch {
	case straight && flush && ranks[0] == Ace:
		cat = RoyalFlush
	case straight && flush:
		cat = StraightFlush
	case counts[ranks[0]] == 4:
		cat = FourOfAKind
	case counts[ranks[0]] == 3 && counts[ranks[3]] == 2:
		cat = FullHouse
	case flush:
		cat = Flush
	case straight:
		cat = Straight
	case counts[ranks[0]] == 3:
		cat = ThreeOfAKind
	case counts[ranks[0]] == 2 && counts[ranks[2]] == 2:
		cat = TwoPair
	case counts[ranks[0]] == 2:
		cat = OnePair
	default:
		cat = HighCard
	}

	s := Strength(cat) << categoryShift
	for i, r := range ranks {
		s |= Strength(r) << (4 * (4 - i))
	}

	return HandResult{Category: cat, Cards: sorted, Strength: s}
}

func describe(r HandResult) string {
	c := r.Cards
	switch r.Category {
	case RoyalFlush:
		return "Royal Flush"
	case StraightFlush:
		return fmt.Sprintf("Straight Flush, %s high", c[0].Rank)
	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind, %s", c[0].Rank.Name())
	case FullHouse:
		return fmt.Sprintf("Full House, %s full of %s", c[0].Rank.Name(), c[3].Rank.Name())
	case Flush:
		return fmt.Sprintf("Flush, %s high", c[0].Rank)
	case Straight:
		return fmt.Sprintf("Straight, %s high", c[0].Rank)
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind, %s", c[0].Rank.Name())
	case TwoPair:
		return fmt.Sprintf("Two Pair, %s and %s", c[0].Rank.Name(), c[2].Rank.Name())
	case OnePair:
		return fmt.Sprintf("Pair of %s", c[0].Rank.Name())
	default:
		return fmt.Sprintf("High Card, %s", c[0].Rank)
	}
}
