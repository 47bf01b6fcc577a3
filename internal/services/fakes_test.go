package services

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"fitness/internal/interfaces"
	"fitness/internal/models"
)

// memData is the in-memory database behind memStore.
type memData struct {
	accounts map[string]models.Account
	tokens   map[string]models.VerificationToken
	products map[string]models.Product
	cart     map[string]models.ShoppingItem
	orders   map[string]models.Order
	cards    map[string]models.PaymentCard
}

func newMemData() *memData {
	return &memData{
		accounts: map[string]models.Account{},
		tokens:   map[string]models.VerificationToken{},
		products: map[string]models.Product{},
		cart:     map[string]models.ShoppingItem{},
		orders:   map[string]models.Order{},
		cards:    map[string]models.PaymentCard{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d *memData) snapshot() *memData {
	return &memData{
		accounts: cloneMap(d.accounts),
		tokens:   cloneMap(d.tokens),
		products: cloneMap(d.products),
		cart:     cloneMap(d.cart),
		orders:   cloneMap(d.orders),
		cards:    cloneMap(d.cards),
	}
}

// memStore implements interfaces.Store. Transactions are serialized and roll back by
// restoring a snapshot.
type memStore struct {
	mu   *sync.Mutex
	txMu *sync.Mutex
	data *memData
	inTx bool
}

func newMemStore() *memStore {
	return &memStore{mu: &sync.Mutex{}, txMu: &sync.Mutex{}, data: newMemData()}
}

func (s *memStore) Accounts() interfaces.AccountRepository                     { return memAccounts{s} }
func (s *memStore) VerificationTokens() interfaces.VerificationTokenRepository { return memTokens{s} }
func (s *memStore) Products() interfaces.ProductRepository                     { return memProducts{s} }
func (s *memStore) Cart() interfaces.CartRepository                            { return memCart{s} }
func (s *memStore) Orders() interfaces.OrderRepository                         { return memOrders{s} }
func (s *memStore) PaymentCards() interfaces.PaymentCardRepository             { return memCards{s} }

func (s *memStore) WithinTx(ctx context.Context, fn func(tx interfaces.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	saved := s.data.snapshot()
	s.mu.Unlock()

	tx := &memStore{mu: s.mu, txMu: s.txMu, data: s.data, inTx: true}
	if err := fn(tx); err != nil {
		s.mu.Lock()
		*s.data = *saved
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) account(id string) (models.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.data.accounts[id]
	return a, ok
}

func (s *memStore) accountCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.accounts)
}

func (s *memStore) tokensFor(accountID string) []models.VerificationToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.VerificationToken
	for _, t := range s.data.tokens {
		if t.AccountID == accountID {
			out = append(out, t)
		}
	}
	return out
}

type memAccounts struct{ s *memStore }

func (r memAccounts) Create(ctx context.Context, a *models.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.accounts {
		if strings.EqualFold(existing.Email, a.Email) {
			return &interfaces.DuplicateError{Constraint: "accounts_email_key"}
		}
		if existing.UserName == a.UserName {
			return &interfaces.DuplicateError{Constraint: "accounts_user_name_key"}
		}
	}
	if len(a.Roles) == 0 {
		a.Roles = []string{string(models.RoleUser)}
	}
	r.s.data.accounts[a.ID] = *a
	return nil
}

func (r memAccounts) find(match func(models.Account) bool) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.data.accounts {
		if match(a) {
			cp := a
			return &cp, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r memAccounts) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.find(func(a models.Account) bool { return a.ID == id })
}

func (r memAccounts) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.find(func(a models.Account) bool { return strings.EqualFold(a.Email, email) })
}

func (r memAccounts) GetByUserName(ctx context.Context, userName string) (*models.Account, error) {
	return r.find(func(a models.Account) bool { return a.UserName == userName })
}

func (r memAccounts) GetByUserNameForUpdate(ctx context.Context, userName string) (*models.Account, error) {
	return r.GetByUserName(ctx, userName)
}

func (r memAccounts) GetByResetTokenHashForUpdate(ctx context.Context, tokenHash string) (*models.Account, error) {
	return r.find(func(a models.Account) bool { return a.ResetTokenHash != nil && *a.ResetTokenHash == tokenHash })
}

func (r memAccounts) List(ctx context.Context, limit int, offset int) ([]models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Account
	for _, a := range r.s.data.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserName < out[j].UserName })
	if offset > len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r memAccounts) Count(ctx context.Context) (int, error) {
	return r.s.accountCount(), nil
}

func (r memAccounts) update(id string, fn func(a *models.Account)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.data.accounts[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	fn(&a)
	a.UpdatedAt = time.Now()
	r.s.data.accounts[id] = a
	return nil
}

func (r memAccounts) UpdateProfile(ctx context.Context, a *models.Account) error {
	return r.update(a.ID, func(stored *models.Account) {
		stored.FirstName = a.FirstName
		stored.LastName = a.LastName
		stored.PhoneNumber = a.PhoneNumber
		stored.Gender = a.Gender
		stored.DateOfBirth = a.DateOfBirth
	})
}

func (r memAccounts) UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error {
	return r.update(id, func(a *models.Account) { a.PasswordHash = passwordHash })
}

func (r memAccounts) SetResetToken(ctx context.Context, id string, tokenHash *string, expiresAt *time.Time) error {
	return r.update(id, func(a *models.Account) {
		a.ResetTokenHash = tokenHash
		a.ResetTokenExpiresAt = expiresAt
	})
}

func (r memAccounts) MarkVerified(ctx context.Context, id string, at time.Time) error {
	return r.update(id, func(a *models.Account) {
		a.Verified = true
		a.VerifiedAt = &at
	})
}

func (r memAccounts) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.accounts[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(r.s.data.accounts, id)
	return nil
}

type memTokens struct{ s *memStore }

func (r memTokens) Create(ctx context.Context, t *models.VerificationToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.tokens {
		if existing.TokenHash == t.TokenHash {
			return &interfaces.DuplicateError{Constraint: "verification_tokens_token_hash_key"}
		}
	}
	t.CreatedAt = time.Now()
	r.s.data.tokens[t.ID] = *t
	return nil
}

func (r memTokens) GetByTokenHash(ctx context.Context, tokenHash string) (*models.VerificationToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.data.tokens {
		if t.TokenHash == tokenHash {
			cp := t
			return &cp, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r memTokens) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.tokens[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(r.s.data.tokens, id)
	return nil
}

func (r memTokens) deleteWhere(match func(models.VerificationToken) bool) int64 {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, t := range r.s.data.tokens {
		if match(t) {
			delete(r.s.data.tokens, id)
			n++
		}
	}
	return n
}

func (r memTokens) DeleteByAccount(ctx context.Context, accountID string) (int64, error) {
	return r.deleteWhere(func(t models.VerificationToken) bool { return t.AccountID == accountID }), nil
}

func (r memTokens) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return r.deleteWhere(func(t models.VerificationToken) bool { return !t.ExpiresAt.After(before) }), nil
}

type memProducts struct{ s *memStore }

func (r memProducts) Create(ctx context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.products[p.ID] = *p
	return nil
}

func (r memProducts) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.products[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return &p, nil
}

func (r memProducts) GetByIDForUpdate(ctx context.Context, id string) (*models.Product, error) {
	return r.GetByID(ctx, id)
}

func (r memProducts) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Product{}
	for _, p := range r.s.data.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r memProducts) Update(ctx context.Context, p *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.products[p.ID]; !ok {
		return interfaces.ErrNotFound
	}
	r.s.data.products[p.ID] = *p
	return nil
}

func (r memProducts) AdjustStock(ctx context.Context, id string, delta int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.products[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return &interfaces.InsufficientStockError{ProductID: id, Available: p.Stock, Requested: int(-delta)}
	}
	p.Stock += delta
	r.s.data.products[id] = p
	return nil
}

func (r memProducts) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var refs int64
	for _, o := range r.s.data.orders {
		for _, it := range o.Items {
			if it.ProductID == id {
				refs++
			}
		}
	}
	if refs > 0 {
		return &interfaces.DeletionBlockedError{Resource: "product", References: map[string]int64{"order_items": refs}}
	}
	if _, ok := r.s.data.products[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(r.s.data.products, id)
	return nil
}

type memCart struct{ s *memStore }

func (r memCart) AddItem(ctx context.Context, item *models.ShoppingItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.data.cart {
		if existing.AccountID == item.AccountID && existing.ProductID == item.ProductID {
			existing.Quantity += item.Quantity
			existing.UnitPrice = item.UnitPrice
			r.s.data.cart[id] = existing
			item.ID = existing.ID
			item.Quantity = existing.Quantity
			return nil
		}
	}
	item.CreatedAt = time.Now()
	r.s.data.cart[item.ID] = *item
	return nil
}

func (r memCart) ListItems(ctx context.Context, accountID string) ([]models.ShoppingItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.ShoppingItem{}
	for _, it := range r.s.data.cart {
		if it.AccountID == accountID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r memCart) UpdateQuantity(ctx context.Context, accountID string, itemID string, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.data.cart[itemID]
	if !ok || it.AccountID != accountID {
		return interfaces.ErrNotFound
	}
	it.Quantity = quantity
	r.s.data.cart[itemID] = it
	return nil
}

func (r memCart) RemoveItem(ctx context.Context, accountID string, itemID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.data.cart[itemID]
	if !ok || it.AccountID != accountID {
		return interfaces.ErrNotFound
	}
	delete(r.s.data.cart, itemID)
	return nil
}

func (r memCart) Clear(ctx context.Context, accountID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, it := range r.s.data.cart {
		if it.AccountID == accountID {
			delete(r.s.data.cart, id)
		}
	}
	return nil
}

type memOrders struct{ s *memStore }

func (r memOrders) Create(ctx context.Context, o *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	r.s.data.orders[o.ID] = *o
	return nil
}

func (r memOrders) GetByID(ctx context.Context, id string) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.data.orders[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return &o, nil
}

func (r memOrders) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Order{}
	for _, o := range r.s.data.orders {
		if filter.AccountID != "" && o.AccountID != filter.AccountID {
			continue
		}
		if filter.Status != "" && o.OrderStatus != filter.Status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (r memOrders) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.data.orders[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	o.OrderStatus = status
	r.s.data.orders[id] = o
	return nil
}

type memCards struct{ s *memStore }

func (r memCards) Create(ctx context.Context, c *models.PaymentCard) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.cards {
		if existing.Fingerprint == c.Fingerprint {
			return &interfaces.DuplicateError{Constraint: "payment_cards_fingerprint_key"}
		}
	}
	r.s.data.cards[c.ID] = *c
	return nil
}

func (r memCards) ListByAccount(ctx context.Context, accountID string) ([]models.PaymentCard, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.PaymentCard{}
	for _, c := range r.s.data.cards {
		if c.AccountID == accountID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r memCards) Delete(ctx context.Context, accountID string, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.data.cards[id]
	if !ok || c.AccountID != accountID {
		return interfaces.ErrNotFound
	}
	delete(r.s.data.cards, id)
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

// recordingMailer keeps every message and fails while failWith is set.
type recordingMailer struct {
	mu       sync.Mutex
	sent     []sentMail
	failWith error
}

func (m *recordingMailer) Send(to string, subject string, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

var tokenInLink = regexp.MustCompile(`token=([0-9a-f]{64})`)

// lastToken returns the token of the most recent message sent to addr.
func (m *recordingMailer) lastToken(addr string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].To != addr {
			continue
		}
		match := tokenInLink.FindStringSubmatch(m.sent[i].Body)
		if match == nil {
			return "", errors.New("no token in message")
		}
		return match[1], nil
	}
	return "", errors.New("no message for " + addr)
}

type fakeSessions struct{}

func (fakeSessions) Issue(accountID, userName, role string) (string, error) {
	return "session-" + accountID + "-" + role, nil
}

// dupStore fails account inserts with a unique violation on constraint.
type dupStore struct {
	*memStore
	constraint string
}

func (s dupStore) Accounts() interfaces.AccountRepository {
	return dupAccounts{AccountRepository: s.memStore.Accounts(), constraint: s.constraint}
}

func (s dupStore) WithinTx(ctx context.Context, fn func(tx interfaces.Store) error) error {
	return s.memStore.WithinTx(ctx, func(tx interfaces.Store) error {
		return fn(dupStore{memStore: tx.(*memStore), constraint: s.constraint})
	})
}

type dupAccounts struct {
	interfaces.AccountRepository
	constraint string
}

func (r dupAccounts) Create(ctx context.Context, a *models.Account) error {
	return &interfaces.DuplicateError{Constraint: r.constraint}
}

// lockSpyStore records which account reads take the row lock inside a transaction.
type lockSpyStore struct {
	*memStore
	lockedInTx    []string
	unlockedReads int
}

func (s *lockSpyStore) Accounts() interfaces.AccountRepository {
	return spyAccounts{AccountRepository: s.memStore.Accounts(), spy: s, inTx: s.memStore.inTx}
}

func (s *lockSpyStore) WithinTx(ctx context.Context, fn func(tx interfaces.Store) error) error {
	return s.memStore.WithinTx(ctx, func(tx interfaces.Store) error {
		inner := &lockSpyStore{memStore: tx.(*memStore)}
		err := fn(inner)
		s.lockedInTx = append(s.lockedInTx, inner.lockedInTx...)
		s.unlockedReads += inner.unlockedReads
		return err
	})
}

type spyAccounts struct {
	interfaces.AccountRepository
	spy  *lockSpyStore
	inTx bool
}

func (r spyAccounts) GetByUserName(ctx context.Context, userName string) (*models.Account, error) {
	r.spy.unlockedReads++
	return r.AccountRepository.GetByUserName(ctx, userName)
}

func (r spyAccounts) GetByUserNameForUpdate(ctx context.Context, userName string) (*models.Account, error) {
	if r.inTx {
		r.spy.lockedInTx = append(r.spy.lockedInTx, userName)
	}
	return r.AccountRepository.GetByUserNameForUpdate(ctx, userName)
}
