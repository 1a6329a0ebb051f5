package protocol

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shrimpsizemoose/trekker/logger"
)

// Version is the only protocol version this server speaks. There is no negotiation.
const Version uint16 = 10

const passwordPrefix = "password="

type Method int

const (
	MethodOther Method = iota
	MethodGet
	MethodPost
)

func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodPost:
		return "POST"
	default:
		return "OTHER"
	}
}

func parseMethod(token string) Method {
	switch token {
	case "GET":
		return MethodGet
	case "POST":
		return MethodPost
	default:
		return MethodOther
	}
}

type Request struct {
	Method      Method
	Version     uint16
	Number      uint8
	Password    string
	HasPassword bool
	Args        []string
}

// Verifier checks a credential against the configured shared secret.
// An empty password matches only when no secret is configured.
type Verifier interface {
	Verify(ctx context.Context, password string) (bool, error)
}

type Parser struct {
	Verifier Verifier
	// OpenReads lets GET requests without a password token through.
	OpenReads bool
}

// Parse decodes one request frame:
//
//	<METHOD> <VERSION> <REQUEST_NUM> [token]*
//
// and applies the version and credential gates.
func (p *Parser) Parse(ctx context.Context, buf []byte) (*Request, error) {
	tokens := strings.Fields(string(buf))
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty request", ErrParseFailed)
	}

	req := &Request{Method: parseMethod(tokens[0])}
	if req.Method == MethodOther {
		return nil, fmt.Errorf("%w: %q", ErrOther, tokens[0])
	}

	if len(tokens) < 2 {
		return nil, ErrNoVersion
	}
	version, err := strconv.ParseUint(tokens[1], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNoVersion, tokens[1])
	}
	if uint16(version) != Version {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrWrongVersion, version, Version)
	}
	req.Version = uint16(version)

	if len(tokens) < 3 {
		return nil, fmt.Errorf("%w: missing request number", ErrParseFailed)
	}
	number, err := strconv.ParseUint(tokens[2], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: request number %q", ErrParseFailed, tokens[2])
	}
	req.Number = uint8(number)

	for _, token := range tokens[3:] {
		if strings.HasPrefix(token, passwordPrefix) {
			if req.HasPassword {
				logger.Debug.Printf("Ignoring repeated password token in %s %d", req.Method, req.Number)
				continue
			}
			req.Password = strings.TrimPrefix(token, passwordPrefix)
			req.HasPassword = true
			continue
		}
		req.Args = append(req.Args, token)
	}

	if err := p.authorize(ctx, req); err != nil {
		return nil, err
	}

	return req, nil
}

func (p *Parser) authorize(ctx context.Context, req *Request) error {
	if !req.HasPassword {
		switch {
		case req.Method == MethodPost:
			return ErrNoPassword
		case p.OpenReads:
			return nil
		}
	}

	// GET without a credential is checked as an empty password, so it passes
	// only when no secret is configured
	ok, err := p.Verifier.Verify(ctx, req.Password)
	if err != nil {
		logger.Error.Printf("Credential check failed: %v", err)
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if !ok {
		return ErrWrongPassword
	}
	return nil
}
