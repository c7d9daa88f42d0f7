// Package table holds the per-table state a game driver mutates while a
// hand is played. A Table serializes every read-validate-apply sequence
// behind one mutex, so concurrent callers can never race two actions on the
// same hand. Turn order and street transitions remain the driver's job.
package table

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/pokerengine/betting"
	"github.com/lox/pokerengine/poker"
	"github.com/lox/pokerengine/pot"
)

// seat is a player's place at the table and their state in the current hand
type seat struct {
	playerID  string
	number    int
	stack     int
	hole      []poker.Card
	committed int // this hand, all streets
	streetBet int // this street
	folded    bool
	inHand    bool
	// replayed marks hole cards set by SetHole rather than dealt.
	replayed bool
}

func (s *seat) live() bool {
	return s.inHand && !s.folded
}

// Table is a single poker table
type Table struct {
	mu         sync.Mutex
	logger     *log.Logger
	smallBlind int
	bigBlind   int
	button     int

	seats         []*seat
	deck          poker.Deck
	board         []poker.Card
	boardReplayed bool
	street        betting.Street
	currentBet    int
	handNumber    int
	inHand        bool
}

// Option configures a Table
type Option func(*Table)

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(t *Table) {
		t.logger = logger
	}
}

// WithButton sets the dealer button seat
func WithButton(seat int) Option {
	return func(t *Table) {
		t.button = seat
	}
}

// New creates an empty table with the given blinds
func New(smallBlind, bigBlind int, opts ...Option) (*Table, error) {
	if smallBlind <= 0 || bigBlind < smallBlind {
		return nil, fmt.Errorf("invalid blinds %d/%d: %w", smallBlind, bigBlind, poker.ErrPrecondition)
	}
	t := &Table{
		logger:     log.Default(),
		smallBlind: smallBlind,
		bigBlind:   bigBlind,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Sit seats a player with a stack. Players cannot join mid-hand.
func (t *Table) Sit(playerID string, number, stack int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.inHand {
		return fmt.Errorf("sit %s during a hand: %w", playerID, poker.ErrPrecondition)
	}
	if stack < 0 {
		return fmt.Errorf("sit %s with negative stack: %w", playerID, poker.ErrPrecondition)
	}
	for _, s := range t.seats {
		if s.playerID == playerID {
			return fmt.Errorf("player %s already seated: %w", playerID, poker.ErrPrecondition)
		}
		if s.number == number {
			return fmt.Errorf("seat %d taken by %s: %w", number, s.playerID, poker.ErrPrecondition)
		}
	}

	t.seats = append(t.seats, &seat{playerID: playerID, number: number, stack: stack})
	sort.Slice(t.seats, func(i, j int) bool { return t.seats[i].number < t.seats[j].number })
	t.logger.Info("Player seated", "player", playerID, "seat", number, "stack", stack)
	return nil
}

// StartHand shuffles a fresh deck and deals two hole cards to every seated
// player with chips.
func (t *Table) StartHand(rng *rand.Rand) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.inHand {
		return fmt.Errorf("hand %d still in progress: %w", t.handNumber, poker.ErrPrecondition)
	}

	players := 0
	for _, s := range t.seats {
		if s.stack > 0 {
			players++
		}
	}
	if players < 2 {
		return fmt.Errorf("need 2 players with chips, have %d: %w", players, poker.ErrPrecondition)
	}

	t.deck = poker.NewShuffledDeck(rng)
	t.board = nil
	t.boardReplayed = false
	t.street = betting.Preflop
	t.currentBet = 0
	t.handNumber++
	t.inHand = true

	for _, s := range t.seats {
		s.hole, s.committed, s.streetBet = nil, 0, 0
		s.folded, s.replayed = false, false
		s.inHand = s.stack > 0
		if !s.inHand {
			continue
		}
		hole, err := t.deck.Deal(2)
		if err != nil {
			return err
		}
		s.hole = hole
	}

	t.logger.Debug("Hand started", "hand", t.handNumber, "players", players, "button", t.button)
	return nil
}

// Post puts a forced bet (blind or ante) in for a player, capped at their
// stack. Blinds count toward the street bet; antes pass dead=true and only
// add to the hand commitment.
func (t *Table) Post(playerID string, amount int, dead bool) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.liveSeat(playerID)
	if err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, fmt.Errorf("post %d for %s: %w", amount, playerID, poker.ErrPrecondition)
	}

	posted := min(amount, s.stack)
	s.stack -= posted
	s.committed += posted
	if !dead {
		s.streetBet += posted
		t.currentBet = max(t.currentBet, s.streetBet)
	}

	t.logger.Debug("Posted", "player", playerID, "amount", posted, "dead", dead)
	return posted, nil
}

// Request builds the validation request for a player's proposed action
// from the current table state.
func (t *Table) Request(playerID string, action betting.Action, amount int) (betting.Request, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.liveSeat(playerID)
	if err != nil {
		return betting.Request{}, err
	}
	return t.request(s, action, amount), nil
}

func (t *Table) request(s *seat, action betting.Action, amount int) betting.Request {
	return betting.Request{
		Action:     action,
		Amount:     amount,
		Stack:      s.stack,
		Committed:  s.streetBet,
		CurrentBet: t.currentBet,
		BigBlind:   t.bigBlind,
	}
}

// Act validates and applies a player action. A rejected action changes
// nothing.
func (t *Table) Act(playerID string, action betting.Action, amount int) (betting.Decision, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.liveSeat(playerID)
	if err != nil {
		return betting.Decision{}, err
	}

	if t.liveCount() < 2 {
		return betting.Decision{}, fmt.Errorf("hand %d is decided, awaiting showdown: %w", t.handNumber, poker.ErrPrecondition)
	}

	decision, err := betting.Validate(t.request(s, action, amount))
	if err != nil {
		t.logger.Debug("Action rejected", "player", playerID, "action", action, "amount", amount, "error", err)
		return decision, err
	}

	switch decision.Action {
	case betting.Fold:
		s.folded = true
	case betting.Check:
	default:
		s.stack -= decision.Amount
		s.streetBet += decision.Amount
		s.committed += decision.Amount
		t.currentBet = max(t.currentBet, s.streetBet)
	}

	t.logger.Debug("Action applied",
		"player", playerID,
		"action", decision.Action,
		"amount", decision.Amount,
		"street", t.street,
		"currentBet", t.currentBet)
	return decision, nil
}

// DealBoard deals n community cards
func (t *Table) DealBoard(n int) ([]poker.Card, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.inHand {
		return nil, fmt.Errorf("deal board outside a hand: %w", poker.ErrPrecondition)
	}
	if len(t.board)+n > 5 {
		return nil, fmt.Errorf("board has %d cards, cannot add %d: %w", len(t.board), n, poker.ErrPrecondition)
	}
	cards, err := t.deck.Deal(n)
	if err != nil {
		return nil, err
	}
	t.board = append(t.board, cards...)
	return cards, nil
}

// NextStreet clears street bets and moves to the next betting round
func (t *Table) NextStreet() betting.Street {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, s := range t.seats {
		s.streetBet = 0
	}
	t.currentBet = 0
	if t.street < betting.Showdown {
		t.street++
	}
	return t.street
}

// Result is the outcome of a settled hand
type Result struct {
	HandNumber int
	Board      []poker.Card
	Hands      map[string]poker.HandResult
	Pots       []pot.SidePot
	Awards     []pot.Award
	Winnings   map[string]int
}

// Showdown settles the hand: any missing board cards are dealt, every live
// hand is evaluated, the commitments are split into pots and each pot is
// paid to its winners. Stacks are credited and the hand ends. If settlement
// fails nothing is credited and the hand stays open.
func (t *Table) Showdown() (*Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.inHand {
		return nil, fmt.Errorf("showdown outside a hand: %w", poker.ErrPrecondition)
	}

	live := t.liveCount()

	result := &Result{
		HandNumber: t.handNumber,
		Hands:      make(map[string]poker.HandResult),
	}
	strengths := make(map[string]poker.Strength)

	// The run-out is dealt from a copy so a failed settlement leaves the
	// deck and board as they were.
	deck := t.deck
	board := append([]poker.Card(nil), t.board...)

	if live > 1 {
		if missing := 5 - len(board); missing > 0 {
			cards, err := deck.Deal(missing)
			if err != nil {
				return nil, err
			}
			board = append(board, cards...)
		}
		for _, s := range t.seats {
			if !s.live() {
				continue
			}
			hand, err := poker.BestOf(s.hole, board)
			if err != nil {
				return nil, fmt.Errorf("evaluate %s: %w", s.playerID, err)
			}
			result.Hands[s.playerID] = hand
			strengths[s.playerID] = hand.Strength
		}
	} else {
		// Uncontested: the last live player takes everything without a showdown.
		for _, s := range t.seats {
			if s.live() {
				strengths[s.playerID] = 0
			}
		}
	}
	result.Board = board

	bets := t.snapshot()
	result.Pots = pot.BuildSidePots(bets)
	for i := range result.Pots {
		if len(result.Pots[i].Eligible) == 0 {
			// Only folded players bet; every live player contests the chips.
			for _, s := range t.seats {
				if s.live() {
					result.Pots[i].Eligible = append(result.Pots[i].Eligible, s.playerID)
				}
			}
		}
	}

	seats := make(map[string]int, len(t.seats))
	for _, s := range t.seats {
		seats[s.playerID] = s.number
	}
	awards, err := pot.Distributor{Button: t.button, Seats: seats}.Distribute(result.Pots, strengths)
	if err != nil {
		t.logger.Error("Settlement failed", "hand", t.handNumber, "error", err)
		return nil, err
	}
	result.Awards = awards
	result.Winnings = pot.Winnings(awards)
	t.deck, t.board = deck, board

	for _, s := range t.seats {
		s.stack += result.Winnings[s.playerID]
		s.inHand = false
	}
	t.inHand = false
	t.street = betting.Showdown

	for id, won := range result.Winnings {
		t.logger.Info("Pot awarded", "hand", t.handNumber, "player", id, "amount", won, "label", result.Hands[id].Label)
	}
	return result, nil
}

// MoveButton advances the button to the next occupied seat
func (t *Table) MoveButton() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.seats) == 0 {
		return t.button
	}
	for _, s := range t.seats {
		if s.number > t.button {
			t.button = s.number
			return t.button
		}
	}
	t.button = t.seats[0].number
	return t.button
}

// Bets returns each player's wagering state for the current hand, as
// handed to the persistence layer and the pot builder.
func (t *Table) Bets() []pot.PlayerBet {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

func (t *Table) snapshot() []pot.PlayerBet {
	bets := make([]pot.PlayerBet, 0, len(t.seats))
	for _, s := range t.seats {
		if !s.inHand {
			continue
		}
		bets = append(bets, pot.PlayerBet{
			PlayerID:  s.playerID,
			Seat:      s.number,
			Committed: s.committed,
			Folded:    s.folded,
			Stack:     s.stack,
		})
	}
	return bets
}

// Stack returns a player's chips behind
func (t *Table) Stack(playerID string) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, s := range t.seats {
		if s.playerID == playerID {
			return s.stack, true
		}
	}
	return 0, false
}

// TotalChips returns every chip on the table, stacks plus wagers
func (t *Table) TotalChips() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	total := 0
	for _, s := range t.seats {
		total += s.stack
		if s.inHand {
			total += s.committed
		}
	}
	return total
}

// Board returns the community cards dealt so far
func (t *Table) Board() []poker.Card {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]poker.Card(nil), t.board...)
}

// Hole returns a player's hole cards
func (t *Table) Hole(playerID string) []poker.Card {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, s := range t.seats {
		if s.playerID == playerID {
			return append([]poker.Card(nil), s.hole...)
		}
	}
	return nil
}

// SetHole replaces a player's hole cards. Used to replay recorded hands.
// The cards are taken out of the deck; a dealt card that collides with
// them, in another hand or on the board, is redealt. Colliding with cards
// that were themselves replayed is an error.
func (t *Table) SetHole(playerID string, cards []poker.Card) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.liveSeat(playerID)
	if err != nil {
		return err
	}
	if len(cards) != 2 {
		return fmt.Errorf("hole for %s has %d cards: %w", playerID, len(cards), poker.ErrPrecondition)
	}
	if err := t.checkReplay(cards, s, false); err != nil {
		return err
	}

	s.hole = append([]poker.Card(nil), cards...)
	s.replayed = true
	return t.settleReplay(cards, s, false)
}

// SetBoard replaces the community cards. Used to replay recorded hands,
// with the same deck handling as SetHole.
func (t *Table) SetBoard(cards []poker.Card) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.inHand {
		return fmt.Errorf("set board outside a hand: %w", poker.ErrPrecondition)
	}
	if len(cards) > 5 {
		return fmt.Errorf("board of %d cards: %w", len(cards), poker.ErrPrecondition)
	}
	if err := t.checkReplay(cards, nil, true); err != nil {
		return err
	}

	t.board = append([]poker.Card(nil), cards...)
	t.boardReplayed = true
	return t.settleReplay(cards, nil, true)
}

// checkReplay rejects invalid or repeated cards and collisions with other
// replayed cards. owner and board identify the cards being replaced.
func (t *Table) checkReplay(cards []poker.Card, owner *seat, board bool) error {
	fixed := make(map[poker.Card]string)
	for _, s := range t.seats {
		if s == owner || !s.inHand || !s.replayed {
			continue
		}
		for _, c := range s.hole {
			fixed[c] = s.playerID
		}
	}
	if !board && t.boardReplayed {
		for _, c := range t.board {
			fixed[c] = "the board"
		}
	}

	seen := make(map[poker.Card]bool, len(cards))
	for _, c := range cards {
		if !c.Valid() {
			return fmt.Errorf("invalid card %v: %w", c, poker.ErrPrecondition)
		}
		if seen[c] {
			return fmt.Errorf("card %s repeated: %w", c, poker.ErrPrecondition)
		}
		seen[c] = true
		if holder, ok := fixed[c]; ok {
			return fmt.Errorf("card %s already held by %s: %w", c, holder, poker.ErrPrecondition)
		}
	}
	return nil
}

// settleReplay removes replayed cards from the deck and redeals any dealt
// card elsewhere that collides with them.
func (t *Table) settleReplay(cards []poker.Card, owner *seat, board bool) error {
	t.deck.Remove(cards...)

	taken := make(map[poker.Card]bool, len(cards))
	for _, c := range cards {
		taken[c] = true
	}
	redeal := func(held []poker.Card) error {
		for i, c := range held {
			if !taken[c] {
				continue
			}
			fresh, err := t.deck.DealOne()
			if err != nil {
				return err
			}
			held[i] = fresh
		}
		return nil
	}

	for _, s := range t.seats {
		if s == owner || !s.inHand {
			continue
		}
		if err := redeal(s.hole); err != nil {
			return err
		}
	}
	if !board {
		return redeal(t.board)
	}
	return nil
}

func (t *Table) liveCount() int {
	live := 0
	for _, s := range t.seats {
		if s.live() {
			live++
		}
	}
	return live
}

func (t *Table) liveSeat(playerID string) (*seat, error) {
	if !t.inHand {
		return nil, fmt.Errorf("no hand in progress: %w", poker.ErrPrecondition)
	}
	for _, s := range t.seats {
		if s.playerID != playerID {
			continue
		}
		if !s.inHand {
			return nil, fmt.Errorf("player %s is not in the hand: %w", playerID, poker.ErrPrecondition)
		}
		if s.folded {
			return nil, fmt.Errorf("player %s has folded: %w", playerID, poker.ErrPrecondition)
		}
		return s, nil
	}
	return nil, fmt.Errorf("player %s not seated: %w", playerID, poker.ErrPrecondition)
}
