package goChallenge

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goChallenge/internal/stores"
)

const (
	resetTicketRecordVersionV1 = 1
)

var errResetTicketRecordCorrupt = errors.New("reset ticket record corrupt")

// resetTicketRecord is the server-side half of a reset ticket: the signed
// token presented by the client must match this one-shot record before a
// credential rotation is allowed.
type resetTicketRecord struct {
	Email string
	JTI   string
}

type resetTicketStore struct {
	store  *stores.Ephemeral
	prefix string
}

func newResetTicketStore(store *stores.Ephemeral, prefix string) *resetTicketStore {
	return &resetTicketStore{
		store:  store,
		prefix: prefix,
	}
}

func (s *resetTicketStore) key(subject string) string {
	return s.prefix + ":" + subject
}

func (s *resetTicketStore) Save(ctx context.Context, subject string, record *resetTicketRecord, ttl time.Duration) error {
	var buf bytes.Buffer

	buf.WriteByte(resetTicketRecordVersionV1)
	if err := writeLenPrefixed(&buf, []byte(record.Email)); err != nil {
		return err
	}
	if err := writeLenPrefixed(&buf, []byte(record.JTI)); err != nil {
		return err
	}

	// Fresh TTL on every grant: a new verification replaces any prior ticket.
	return s.store.Put(ctx, s.key(subject), buf.Bytes(), ttl, false)
}

func (s *resetTicketStore) Get(ctx context.Context, subject string) (*resetTicketRecord, error) {
	data, err := s.store.Get(ctx, s.key(subject))
	if err != nil {
		return nil, err
	}

	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil || version != resetTicketRecordVersionV1 {
		return nil, errResetTicketRecordCorrupt
	}

	email, err := readLenPrefixed(reader)
	if err != nil {
		return nil, errResetTicketRecordCorrupt
	}
	jti, err := readLenPrefixed(reader)
	if err != nil {
		return nil, errResetTicketRecordCorrupt
	}

	return &resetTicketRecord{
		Email: string(email),
		JTI:   string(jti),
	}, nil
}

func (s *resetTicketStore) Delete(ctx context.Context, subject string) error {
	return s.store.Delete(ctx, s.key(subject))
}
