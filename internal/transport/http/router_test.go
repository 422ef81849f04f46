package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"neon-bets/internal/app/admin"
	"neon-bets/internal/app/auth"
	"neon-bets/internal/app/betting"
	apppublic "neon-bets/internal/app/public"
	"neon-bets/internal/app/settlement"
	"neon-bets/internal/app/shop"
	"neon-bets/internal/app/wallet"
	"neon-bets/internal/config"
	"neon-bets/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory stand-in for the store, good enough to drive
// the full router in tests.
type fakeBackend struct {
	users    map[string]*store.User
	sessions map[string]string // token hash -> user id
	teams    map[string]*store.Team
	matches  map[string]*store.Match
	bets     map[string]*store.Bet
	goodies  map[string]*store.Goodie
	ledger   []store.Transaction
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:    map[string]*store.User{},
		sessions: map[string]string{},
		teams:    map[string]*store.Team{},
		matches:  map[string]*store.Match{},
		bets:     map[string]*store.Bet{},
		goodies:  map[string]*store.Goodie{},
	}
}

func (f *fakeBackend) record(userID, txType string, amount decimal.Decimal) {
	f.ledger = append(f.ledger, store.Transaction{
		ID: store.NewID(), UserID: userID, Type: txType, Amount: amount, Status: "completed",
	})
}

func (f *fakeBackend) CreateUser(_ context.Context, email, username, passwordHash, role string, startingCredits decimal.Decimal) (*store.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return nil, store.ErrDuplicate
		}
	}
	u := &store.User{ID: store.NewID(), Email: email, Username: username, PasswordHash: passwordHash, Role: role, Balance: startingCredits}
	f.users[u.ID] = u
	f.record(u.ID, store.TxDeposit, startingCredits)
	return u, nil
}

func (f *fakeBackend) GetUserByEmail(_ context.Context, email string) (*store.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeBackend) CreateSession(_ context.Context, userID, tokenHash string, _ time.Duration) (*store.Session, error) {
	f.sessions[tokenHash] = userID
	return &store.Session{ID: store.NewID(), UserID: userID}, nil
}

func (f *fakeBackend) GetUserBySessionToken(_ context.Context, tokenHash string) (*store.User, error) {
	id, ok := f.sessions[tokenHash]
	if !ok {
		return nil, store.ErrNotFound
	}
	return f.users[id], nil
}

func (f *fakeBackend) DeleteSessionByToken(_ context.Context, tokenHash string) error {
	delete(f.sessions, tokenHash)
	return nil
}

func (f *fakeBackend) ListMatches(_ context.Context, status string, _, _ int) ([]store.Match, error) {
	var out []store.Match
	for _, m := range f.matches {
		if status == "" || m.Status == status {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeBackend) GetMatch(_ context.Context, id string) (*store.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return m, nil
}

func (f *fakeBackend) ListTeams(_ context.Context, _, _ int) ([]store.Team, error) {
	var out []store.Team
	for _, t := range f.teams {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeBackend) GetTeam(_ context.Context, id string) (*store.Team, error) {
	t, ok := f.teams[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return t, nil
}

func (f *fakeBackend) ListTeamRankings(_ context.Context, _ int) ([]store.TeamRanking, error) {
	var out []store.TeamRanking
	for _, t := range f.teams {
		out = append(out, store.TeamRanking{TeamID: t.ID, Name: t.Name, Wins: t.Wins, Losses: t.Losses})
	}
	return out, nil
}

func (f *fakeBackend) ListGoodies(_ context.Context, _ bool, _, _ int) ([]store.Goodie, error) {
	var out []store.Goodie
	for _, g := range f.goodies {
		out = append(out, *g)
	}
	return out, nil
}

func (f *fakeBackend) GetGoodie(_ context.Context, id string) (*store.Goodie, error) {
	g, ok := f.goodies[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return g, nil
}

func (f *fakeBackend) PlaceBet(_ context.Context, p store.PlaceBetParams) (*store.Bet, error) {
	m, ok := f.matches[p.MatchID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if m.Status == store.MatchFinished {
		return nil, store.ErrMatchClosed
	}
	var odds decimal.Decimal
	switch p.TeamID {
	case m.Team1ID:
		odds = m.Team1Odds
	case m.Team2ID:
		odds = m.Team2Odds
	default:
		return nil, store.ErrInvalidSelection
	}
	u := f.users[p.UserID]
	if u.Balance.LessThan(p.Amount) {
		return nil, store.ErrInsufficientFunds
	}
	u.Balance = u.Balance.Sub(p.Amount)
	b := &store.Bet{
		ID: store.NewID(), UserID: p.UserID, MatchID: p.MatchID, TeamID: p.TeamID,
		Amount: p.Amount, PotentialWin: p.Amount.Mul(odds).Round(2), Status: store.BetPending,
	}
	f.bets[b.ID] = b
	f.record(p.UserID, store.TxBet, p.Amount.Neg())
	return b, nil
}

func (f *fakeBackend) ListBetsByUser(_ context.Context, userID, status string, _, _ int) ([]store.Bet, error) {
	var out []store.Bet
	for _, b := range f.bets {
		if b.UserID == userID && (status == "" || b.Status == status) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBackend) GetBetStats(_ context.Context, userID string) (*store.BetStats, error) {
	st := &store.BetStats{}
	for _, b := range f.bets {
		if b.UserID != userID {
			continue
		}
		st.Total++
		switch b.Status {
		case store.BetPending:
			st.Pending++
		case store.BetWon:
			st.Won++
		case store.BetLost:
			st.Lost++
		}
	}
	return st, nil
}

func (f *fakeBackend) SettleMatch(_ context.Context, matchID, winnerID string) (*store.SettlementResult, error) {
	m, ok := f.matches[matchID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if m.Status == store.MatchFinished {
		return nil, store.ErrAlreadySettled
	}
	if winnerID != m.Team1ID && winnerID != m.Team2ID {
		return nil, store.ErrInvalidSelection
	}
	m.Status = store.MatchFinished
	m.WinnerID = winnerID
	res := &store.SettlementResult{MatchID: matchID, WinnerID: winnerID, Paid: decimal.Zero}
	for _, b := range f.bets {
		if b.MatchID != matchID || b.Status != store.BetPending {
			continue
		}
		if b.TeamID == winnerID {
			b.Status = store.BetWon
			f.users[b.UserID].Balance = f.users[b.UserID].Balance.Add(b.PotentialWin)
			f.record(b.UserID, store.TxWin, b.PotentialWin)
			res.WonBets++
			res.Paid = res.Paid.Add(b.PotentialWin)
		} else {
			b.Status = store.BetLost
			res.LostBets++
		}
	}
	return res, nil
}

func (f *fakeBackend) PurchaseGoodie(_ context.Context, p store.PurchaseGoodieParams) (*store.Purchase, error) {
	g, ok := f.goodies[p.GoodieID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if g.Stock < p.Quantity {
		return nil, store.ErrOutOfStock
	}
	total := g.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
	u := f.users[p.UserID]
	if u.Balance.LessThan(total) {
		return nil, store.ErrInsufficientFunds
	}
	g.Stock -= p.Quantity
	u.Balance = u.Balance.Sub(total)
	f.record(p.UserID, store.TxPurchase, total.Neg())
	return &store.Purchase{ID: store.NewID(), UserID: p.UserID, GoodieID: p.GoodieID, Quantity: p.Quantity, TotalPrice: total}, nil
}

func (f *fakeBackend) ListPurchasesByUser(_ context.Context, _ string, _, _ int) ([]store.Purchase, error) {
	return nil, nil
}

func (f *fakeBackend) AdjustBalance(_ context.Context, userID, txType string, delta decimal.Decimal) (decimal.Decimal, error) {
	u, ok := f.users[userID]
	if !ok {
		return decimal.Zero, store.ErrNotFound
	}
	next := u.Balance.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, store.ErrInsufficientFunds
	}
	u.Balance = next
	f.record(userID, txType, delta)
	return next, nil
}

func (f *fakeBackend) ListTransactions(_ context.Context, flt store.LedgerFilter) ([]store.Transaction, error) {
	var out []store.Transaction
	for _, tx := range f.ledger {
		if flt.UserID != "" && tx.UserID != flt.UserID {
			continue
		}
		if flt.Type != "" && tx.Type != flt.Type {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (f *fakeBackend) ReconcileAccounts(_ context.Context) ([]store.ReconcileRow, error) {
	return nil, nil
}

func (f *fakeBackend) CreateTeam(_ context.Context, name, description string) (*store.Team, error) {
	t := &store.Team{ID: store.NewID(), Name: name, Description: description}
	f.teams[t.ID] = t
	return t, nil
}

func (f *fakeBackend) UpdateTeam(_ context.Context, id, name, description string) (*store.Team, error) {
	t, ok := f.teams[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	t.Name, t.Description = name, description
	return t, nil
}

func (f *fakeBackend) DeleteTeam(_ context.Context, id string) error {
	if _, ok := f.teams[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.teams, id)
	return nil
}

func (f *fakeBackend) CreateMatch(_ context.Context, p store.CreateMatchParams) (*store.Match, error) {
	m := &store.Match{
		ID: store.NewID(), Team1ID: p.Team1ID, Team2ID: p.Team2ID,
		Team1Odds: p.Team1Odds, Team2Odds: p.Team2Odds,
		Status: store.MatchUpcoming, GameTitle: p.GameTitle, ScheduledAt: p.ScheduledAt,
	}
	f.matches[m.ID] = m
	return m, nil
}

func (f *fakeBackend) UpdateMatch(_ context.Context, id string, p store.UpdateMatchParams) (*store.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if m.Status == store.MatchFinished {
		return nil, store.ErrAlreadySettled
	}
	m.Team1Odds, m.Team2Odds, m.Status = p.Team1Odds, p.Team2Odds, p.Status
	return m, nil
}

func (f *fakeBackend) DeleteMatch(_ context.Context, id string) error {
	if _, ok := f.matches[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.matches, id)
	return nil
}

func (f *fakeBackend) CreateGoodie(_ context.Context, name, description string, price decimal.Decimal, stock int) (*store.Goodie, error) {
	g := &store.Goodie{ID: store.NewID(), Name: name, Description: description, Price: price, Stock: stock}
	f.goodies[g.ID] = g
	return g, nil
}

func (f *fakeBackend) UpdateGoodie(_ context.Context, id, name, description string, price decimal.Decimal, stock int) (*store.Goodie, error) {
	g, ok := f.goodies[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	g.Name, g.Description, g.Price, g.Stock = name, description, price, stock
	return g, nil
}

func (f *fakeBackend) DeleteGoodie(_ context.Context, id string) error {
	if _, ok := f.goodies[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.goodies, id)
	return nil
}

func (f *fakeBackend) ListUsers(_ context.Context, _, _ int) ([]store.User, error) {
	var out []store.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeBackend) UpdateUserRole(_ context.Context, id, role string) (*store.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.Role = role
	return u, nil
}

func (f *fakeBackend) DeleteUser(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

type testEnv struct {
	router  http.Handler
	backend *fakeBackend
	authSvc *auth.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	f := newFakeBackend()
	authSvc := auth.NewService(f, time.Hour, decimal.NewFromInt(1000))
	deps := Deps{
		Auth:       authSvc,
		Public:     apppublic.NewService(f, nil),
		Betting:    betting.NewService(f),
		Settlement: settlement.NewService(f, nil),
		Shop:       shop.NewService(f),
		Wallet:     wallet.NewService(f),
		Admin:      admin.NewService(f),
	}
	return &testEnv{
		router:  NewRouter(deps, config.ServerConfig{}),
		backend: f,
		authSvc: authSvc,
	}
}

var envUserSeq int

// registerUser creates an account over the API and returns its id and token.
func (e *testEnv) registerUser(t *testing.T, role string) (string, string) {
	t.Helper()
	envUserSeq++
	email := fmt.Sprintf("u%d@example.com", envUserSeq)
	rec := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": email, "username": fmt.Sprintf("user%d", envUserSeq), "password": "hunter2secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		User  store.User `json:"user"`
		Token string     `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	if role != store.RoleUser {
		e.backend.users[resp.User.ID].Role = role
	}
	return resp.User.ID, resp.Token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seedMatch(t *testing.T) *store.Match {
	t.Helper()
	t1, err := e.backend.CreateTeam(context.Background(), "Alpha", "")
	require.NoError(t, err)
	t2, err := e.backend.CreateTeam(context.Background(), "Beta", "")
	require.NoError(t, err)
	m, err := e.backend.CreateMatch(context.Background(), store.CreateMatchParams{
		Team1ID: t1.ID, Team2ID: t2.ID,
		Team1Odds: decimal.RequireFromString("1.5"), Team2Odds: decimal.RequireFromString("2.5"),
		ScheduledAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	return m
}

func TestHealthzWithoutStore(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticatedRoutesRejectAnonymous(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/api/me", "/api/bets", "/api/wallet/transactions"} {
		rec := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRegisterLoginAndMe(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, store.RoleUser)

	rec := env.do(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me store.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.True(t, me.Balance.Equal(decimal.NewFromInt(1000)))
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	id, _ := env.registerUser(t, store.RoleUser)
	email := env.backend.users[id].Email

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": email, "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPlaceBetFlow(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, store.RoleUser)
	m := env.seedMatch(t)

	rec := env.do(t, http.MethodPost, "/api/bets", token, map[string]any{
		"match_id": m.ID, "team_id": m.Team2ID, "amount": "200",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var bet store.Bet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bet))
	assert.True(t, bet.PotentialWin.Equal(decimal.RequireFromString("500")))

	// Stake above the remaining balance.
	rec = env.do(t, http.MethodPost, "/api/bets", token, map[string]any{
		"match_id": m.ID, "team_id": m.Team2ID, "amount": "900",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Unknown team.
	rec = env.do(t, http.MethodPost, "/api/bets", token, map[string]any{
		"match_id": m.ID, "team_id": "nope", "amount": "10",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestModeratorRoutesRequireRole(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.registerUser(t, store.RoleUser)
	_, modToken := env.registerUser(t, store.RoleModerator)

	body := map[string]any{"name": "Gamma"}
	rec := env.do(t, http.MethodPost, "/api/admin/teams", userToken, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/admin/teams", modToken, body)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAdminRoutesRejectModerator(t *testing.T) {
	env := newTestEnv(t)
	_, modToken := env.registerUser(t, store.RoleModerator)
	_, adminToken := env.registerUser(t, store.RoleAdmin)

	rec := env.do(t, http.MethodGet, "/api/admin/users", modToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/admin/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSettleMatchEndpoint(t *testing.T) {
	env := newTestEnv(t)
	_, modToken := env.registerUser(t, store.RoleModerator)
	_, userToken := env.registerUser(t, store.RoleUser)
	m := env.seedMatch(t)

	rec := env.do(t, http.MethodPost, "/api/bets", userToken, map[string]any{
		"match_id": m.ID, "team_id": m.Team2ID, "amount": "100",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/admin/matches/"+m.ID+"/settle", modToken, map[string]any{
		"winner_id": m.Team2ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res store.SettlementResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 1, res.WonBets)

	// Settling twice conflicts.
	rec = env.do(t, http.MethodPost, "/api/admin/matches/"+m.ID+"/settle", modToken, map[string]any{
		"winner_id": m.Team2ID,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWalletDepositAndWithdraw(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, store.RoleUser)

	rec := env.do(t, http.MethodPost, "/api/wallet/deposit", token, map[string]any{"amount": "250"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/wallet/withdraw", token, map[string]any{"amount": "5000"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/wallet/withdraw", token, map[string]any{"amount": "-5"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublicRoutesOpen(t *testing.T) {
	env := newTestEnv(t)
	env.seedMatch(t)

	for _, path := range []string{"/api/matches", "/api/teams", "/api/rankings", "/api/goodies"} {
		rec := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestPurchaseOutOfStock(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, store.RoleUser)
	g, err := env.backend.CreateGoodie(context.Background(), "Sticker", "", decimal.NewFromInt(5), 1)
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/goodies/"+g.ID+"/purchase", token, map[string]any{"quantity": 2})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/goodies/"+g.ID+"/purchase", token, map[string]any{"quantity": 1})
	assert.Equal(t, http.StatusCreated, rec.Code)
}
