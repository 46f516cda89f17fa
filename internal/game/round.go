package game

import (
	"fmt"
	"io"

	"fairdice/internal/fair"
)

// RoundPurpose labels what a commit/reveal round decided.
type RoundPurpose string

const (
	PurposeFirstMove  RoundPurpose = "first_move"
	PurposeHouseThrow RoundPurpose = "house_throw"
	PurposeUserThrow  RoundPurpose = "user_throw"
)

// RoundRecord is the audit trail of one completed round: everything an
// external verifier needs to recompute the commitment and the combined
// result.
type RoundRecord struct {
	Purpose    RoundPurpose `json:"purpose"`
	Modulus    int          `json:"modulus"`
	Commitment string       `json:"hmac"`
	Key        string       `json:"key"`
	HouseValue int          `json:"house_value"`
	UserValue  int          `json:"user_value"`
	Result     int          `json:"result"`
}

// round is an open commitment: the house value is drawn and committed, the
// user addend is still pending. The key stays private until close.
type round struct {
	purpose    RoundPurpose
	modulus    int
	gen        *fair.Generator
	value      int
	commitment string
}

func openRound(r io.Reader, purpose RoundPurpose, modulus int) (*round, error) {
	gen, err := fair.NewGeneratorWithRand(modulus, r)
	if err != nil {
		return nil, err
	}

	v, comm, err := gen.Generate()
	if err != nil {
		return nil, err
	}

	return &round{
		purpose:    purpose,
		modulus:    modulus,
		gen:        gen,
		value:      v,
		commitment: comm,
	}, nil
}

// close reveals the key, combines the house value with the user addend and
// self-checks the reveal against the commitment before anything is surfaced.
func (r *round) close(userValue int) (RoundRecord, error) {
	result, err := fair.Combine(r.value, userValue, r.modulus)
	if err != nil {
		return RoundRecord{}, err
	}

	key := r.gen.Key()
	if !fair.Verify(r.commitment, key, r.value) {
		return RoundRecord{}, fmt.Errorf("%w: purpose=%s", ErrCommitmentViolation, r.purpose)
	}

	return RoundRecord{
		Purpose:    r.purpose,
		Modulus:    r.modulus,
		Commitment: r.commitment,
		Key:        key,
		HouseValue: r.value,
		UserValue:  userValue,
		Result:     result,
	}, nil
}
