package openid_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/willemschots/openidstore/internal/db"
	"github.com/willemschots/openidstore/internal/db/testdb"
	"github.com/willemschots/openidstore/internal/errorz/testerr"
	"github.com/willemschots/openidstore/internal/openid"
	openiddb "github.com/willemschots/openidstore/internal/openid/db"
)

const nowMS = int64(1_700_000_000_000)

// storeTest wires a real sqlite backed store, wrapped so that calls
// can be counted and failed.
type storeTest struct {
	t      *testing.T
	sqlDB  *sql.DB
	store  *testStore
	tokens *openid.TokenStore
	res    *openid.ProfileResolver
}

func newStoreTest(t *testing.T) *storeTest {
	t.Helper()

	sqlDB := testdb.RunWhile(t, true)

	st := &storeTest{
		t:     t,
		sqlDB: sqlDB,
		store: &testStore{
			store: openiddb.New(db.DialectSQLite, sqlDB, nil),
		},
	}

	st.tokens = openid.NewTokenStore(st.store, nil)
	st.res = openid.NewProfileResolver(st.store, nil)

	return st
}

func (st *storeTest) createToken(token string, validUntilMS int64, userID string) {
	st.t.Helper()

	err := st.tokens.Create(context.Background(), token, validUntilMS, userID)
	if err != nil {
		st.t.Fatalf("failed to create token: %v", err)
	}
}

func (st *storeTest) insertThreepid(userID, medium, address string) {
	st.t.Helper()

	_, err := st.sqlDB.Exec(`INSERT INTO user_threepids (user_id, medium, address) VALUES (?, ?, ?)`, userID, medium, address)
	if err != nil {
		st.t.Fatalf("failed to insert threepid: %v", err)
	}
}

func (st *storeTest) insertProfile(localpart string, displayName *string) {
	st.t.Helper()

	_, err := st.sqlDB.Exec(`INSERT INTO profiles (user_id, displayname) VALUES (?, ?)`, localpart, displayName)
	if err != nil {
		st.t.Fatalf("failed to insert profile: %v", err)
	}
}

// testStore wraps a real store but uses a testerr.FailingDep to
// possibly fail on certain method calls.
type testStore struct {
	store openid.Store
	dep   *testerr.FailingDep
	// begins counts the number of started transactions.
	begins int
}

func (s *testStore) BeginTx(ctx context.Context, opts openid.TxOptions) (openid.Tx, error) {
	s.begins++
	return testerr.MaybeFail(s.dep, func() (openid.Tx, error) {
		realTx, err := s.store.BeginTx(ctx, opts)
		if err != nil {
			return nil, err
		}
		return &testTx{
			store: s,
			tx:    realTx,
		}, nil
	})
}

type testTx struct {
	store *testStore
	tx    openid.Tx
}

func (tx *testTx) Commit() error {
	return testerr.MaybeFailErrFunc(tx.store.dep, func() error {
		return tx.tx.Commit()
	})
}

// Rollback always reaches the real transaction so connections are released.
func (tx *testTx) Rollback() error {
	return tx.tx.Rollback()
}

func (tx *testTx) CreateToken(tok openid.VerificationToken) error {
	return testerr.MaybeFailErrFunc(tx.store.dep, func() error {
		return tx.tx.CreateToken(tok)
	})
}

func (tx *testTx) FindTokens(filter *openid.TokenFilter) ([]openid.VerificationToken, error) {
	return testerr.MaybeFail(tx.store.dep, func() ([]openid.VerificationToken, error) {
		return tx.tx.FindTokens(filter)
	})
}

func (tx *testTx) FindThreepids(filter *openid.ThreepidFilter) ([]openid.ThirdPartyIdentifier, error) {
	return testerr.MaybeFail(tx.store.dep, func() ([]openid.ThirdPartyIdentifier, error) {
		return tx.tx.FindThreepids(filter)
	})
}

func (tx *testTx) FindProfiles(filter *openid.ProfileFilter) ([]openid.Profile, error) {
	return testerr.MaybeFail(tx.store.dep, func() ([]openid.Profile, error) {
		return tx.tx.FindProfiles(filter)
	})
}
