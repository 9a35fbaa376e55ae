package sigs

import (
	"testing"

	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/crypto"
	"github.com/UZHBCON/deathnote/deathnotetest"
	"github.com/UZHBCON/deathnote/errors"
	"github.com/UZHBCON/deathnote/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSignBytes(t *testing.T) {
	const chainID = "deathnote-test-1"
	payload := []byte("testament/confirm 7")

	base, err := BuildSignBytes(payload, chainID, 3)
	require.NoError(t, err)
	assert.Len(t, base, 64)

	fromTx, err := BuildSignBytesTx(NewStdTx(payload), chainID, 3)
	require.NoError(t, err)
	assert.Equal(t, base, fromTx)

	cases := map[string]struct {
		payload []byte
		chainID string
		seq     int64
		wantErr *errors.Error
	}{
		"other payload":     {payload: []byte("testament/claim 7"), chainID: chainID, seq: 3},
		"other chain":       {payload: payload, chainID: "deathnote-test-2", seq: 3},
		"other sequence":    {payload: payload, chainID: chainID, seq: 4},
		"negative sequence": {payload: payload, chainID: chainID, seq: -1, wantErr: ErrInvalidSequence},
		"invalid chain id":  {payload: payload, chainID: "no", seq: 3, wantErr: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := BuildSignBytes(tc.payload, tc.chainID, tc.seq)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, base, got)
		})
	}
}

func TestVerifySignature(t *testing.T) {
	const chainID = "deathnote-test-1"
	key := deathnotetest.NewKey()
	payload := []byte("testament/revoke 1")
	tx := NewStdTx(payload)

	sign := func(seq int64) *StdSignature {
		t.Helper()
		sig, err := SignTx(key, tx, chainID, seq)
		require.NoError(t, err)
		return sig
	}

	again, err := SignTx(key, tx, chainID, 2)
	require.NoError(t, err)
	assert.Equal(t, sign(2), again, "signing must be deterministic")

	tampered := sign(2)
	tampered.Signature.Ed25519[0] ^= 0xff

	db := store.MemStore()
	steps := []struct {
		name    string
		sig     *StdSignature
		chainID string
		wantErr *errors.Error
	}{
		{name: "nonce must start at zero", sig: sign(1), chainID: chainID, wantErr: ErrInvalidSequence},
		{name: "empty signature", sig: &StdSignature{}, chainID: chainID, wantErr: errors.ErrUnauthorized},
		{name: "first", sig: sign(0), chainID: chainID},
		{name: "second", sig: sign(1), chainID: chainID},
		{name: "replay", sig: sign(1), chainID: chainID, wantErr: ErrInvalidSequence},
		{name: "nonce gap", sig: sign(13), chainID: chainID, wantErr: ErrInvalidSequence},
		{name: "other chain", sig: sign(2), chainID: "deathnote-test-2", wantErr: errors.ErrUnauthorized},
		{name: "tampered", sig: tampered, chainID: chainID, wantErr: errors.ErrUnauthorized},
		{name: "third", sig: sign(2), chainID: chainID},
	}
	for _, step := range steps {
		cond, err := VerifySignature(db, step.sig, payload, step.chainID)
		if step.wantErr != nil {
			assert.True(t, step.wantErr.Is(err), "%s: got %v", step.name, err)
			continue
		}
		require.NoError(t, err, step.name)
		assert.Equal(t, key.PublicKey().Condition(), cond, step.name)
	}

	nonce, err := NextNonce(db, key.PublicKey())
	require.NoError(t, err)
	assert.EqualValues(t, 3, nonce)
}

func TestVerifyTxSignatures(t *testing.T) {
	const chainID = "deathnote-test-1"
	validator := deathnotetest.NewKey()
	creator := deathnotetest.NewKey()

	tx := NewStdTx([]byte("testament/confirm 1"))
	other := NewStdTx([]byte("testament/confirm 2"))

	sig := func(key *crypto.PrivateKey, tx SignedTx, seq int64) *StdSignature {
		t.Helper()
		s, err := SignTx(key, tx, chainID, seq)
		require.NoError(t, err)
		return s
	}

	db := store.MemStore()

	signers, err := VerifyTxSignatures(db, tx, chainID)
	require.NoError(t, err)
	assert.Empty(t, signers)

	tx.Signatures = []*StdSignature{sig(validator, other, 0)}
	_, err = VerifyTxSignatures(db, tx, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	tx.Signatures = []*StdSignature{sig(validator, tx, 0)}
	signers, err = VerifyTxSignatures(db, tx, chainID)
	require.NoError(t, err)
	assert.Equal(t, []deathnote.Condition{validator.PublicKey().Condition()}, signers)

	// one replayed signature rejects the transaction
	tx.Signatures = []*StdSignature{sig(validator, tx, 0), sig(creator, tx, 0)}
	_, err = VerifyTxSignatures(db, tx, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	tx.Signatures = []*StdSignature{sig(validator, tx, 1), sig(creator, tx, 0)}
	signers, err = VerifyTxSignatures(db, tx, chainID)
	require.NoError(t, err)
	assert.Equal(t, []deathnote.Condition{
		validator.PublicKey().Condition(),
		creator.PublicKey().Condition(),
	}, signers)
}

func TestSequenceOverflow(t *testing.T) {
	u := UserData{Sequence: (1 << 53) - 1}
	err := u.CheckAndIncrementSequence((1 << 53) - 1)
	assert.True(t, errors.ErrOverflow.Is(err))

	u = UserData{Sequence: 4}
	assert.True(t, ErrInvalidSequence.Is(u.CheckAndIncrementSequence(3)))
	assert.NoError(t, u.CheckAndIncrementSequence(4))
	assert.EqualValues(t, 5, u.Sequence)
}

// StdTx carries a payload as its sign bytes.
type StdTx struct {
	Payload    []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ deathnote.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{Payload: payload}
}

func (tx *StdTx) GetMsg() (deathnote.Msg, error) {
	return &deathnotetest.Msg{RoutePath: "test/sigs"}, nil
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	return tx.Payload, nil
}
