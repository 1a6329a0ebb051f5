package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shrimpsizemoose/skolklocka/internal/models"
	"github.com/shrimpsizemoose/skolklocka/internal/protocol"
	"github.com/shrimpsizemoose/skolklocka/internal/store"
)

func expectArgs(req *protocol.Request, n int) error {
	if len(req.Args) != n {
		return protocol.ArgCountError(n, len(req.Args))
	}
	return nil
}

func parseID(token string) (uint8, error) {
	v, err := strconv.ParseUint(token, 10, 8)
	if err != nil {
		return 0, protocol.NotIntegerError(token)
	}
	return uint8(v), nil
}

// parseIDs parses every token as uint8, failing on the first bad one.
func parseIDs(tokens ...string) ([]uint8, error) {
	ids := make([]uint8, len(tokens))
	for i, token := range tokens {
		id, err := parseID(token)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// parseName percent-decodes a name token, so "Jan%20Kowalski" carries a space
// and "C++" stays as posted. The decoded value is stored verbatim.
func parseName(token string) (string, error) {
	name, err := url.PathUnescape(token)
	if err != nil {
		return "", protocol.InvalidArgumentError(fmt.Errorf("name %q: %w", token, err))
	}
	return name, nil
}

func parseClock(token string) (string, error) {
	if _, err := strconv.ParseUint(token, 10, 16); err != nil {
		return "", protocol.NotIntegerError(token)
	}
	clock, err := models.NormalizeClock(token)
	if err != nil {
		return "", protocol.InvalidArgumentError(err)
	}
	return clock, nil
}

type validatable interface {
	Validate() error
}

func validate(v validatable) error {
	if err := v.Validate(); err != nil {
		return protocol.InvalidArgumentError(err)
	}
	return nil
}

// lookupError keeps "nothing matched" apart from a failing backend.
func lookupError(err error) error {
	if errors.Is(err, store.ErrNoData) {
		return protocol.NoDataError(err)
	}
	return protocol.DatabaseError(err)
}

func itoa(v uint8) string {
	return strconv.Itoa(int(v))
}
