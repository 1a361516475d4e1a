package goChallenge

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/MrEthical07/goChallenge/internal/stores"
)

const (
	challengeRecordVersionV1 = 1
)

var (
	errChallengePayloadInvalid = errors.New("challenge payload invalid")
	errChallengeRecordCorrupt  = errors.New("challenge record corrupt")
)

// challengeRecord is the stored form of an issued challenge: the bcrypt
// verifier of the one-time code plus the purpose-tagged payload handed back
// on successful verification. Counters live in their own fixed-window keys,
// not in the record.
type challengeRecord struct {
	Purpose  Purpose
	CodeHash []byte
	Payload  Payload
}

type challengeStore struct {
	store  *stores.Ephemeral
	prefix string
}

func newChallengeStore(store *stores.Ephemeral, prefix string) *challengeStore {
	return &challengeStore{
		store:  store,
		prefix: prefix,
	}
}

// One live record per (purpose, subject); a second Save replaces it.
func (s *challengeStore) key(purpose Purpose, subject string) string {
	return s.prefix + ":" + purpose.String() + ":" + subject
}

// Save persists the record. preserveTTL keeps the remaining window of a
// prior unexpired record so a resend never restarts the countdown.
func (s *challengeStore) Save(
	ctx context.Context,
	subject string,
	record *challengeRecord,
	ttl time.Duration,
	preserveTTL bool,
) error {
	encoded, err := encodeChallengeRecord(record)
	if err != nil {
		return err
	}

	return s.store.Put(ctx, s.key(record.Purpose, subject), encoded, ttl, preserveTTL)
}

func (s *challengeStore) Get(ctx context.Context, purpose Purpose, subject string) (*challengeRecord, error) {
	data, err := s.store.Get(ctx, s.key(purpose, subject))
	if err != nil {
		return nil, err
	}

	return decodeChallengeRecord(data)
}

func (s *challengeStore) Delete(ctx context.Context, purpose Purpose, subject string) error {
	return s.store.Delete(ctx, s.key(purpose, subject))
}

func encodeChallengeRecord(record *challengeRecord) ([]byte, error) {
	if record == nil || record.Payload == nil {
		return nil, errChallengePayloadInvalid
	}
	if record.Payload.Purpose() != record.Purpose {
		return nil, errChallengePayloadInvalid
	}

	var buf bytes.Buffer

	buf.WriteByte(challengeRecordVersionV1)
	buf.WriteByte(byte(record.Purpose))

	if err := writeLenPrefixed(&buf, record.CodeHash); err != nil {
		return nil, err
	}

	switch p := record.Payload.(type) {
	case *SignUpData:
		for _, field := range []string{p.Name, p.Email, p.PasswordHash} {
			if err := writeLenPrefixed(&buf, []byte(field)); err != nil {
				return nil, err
			}
		}
	case *PasswordResetData:
		if err := writeLenPrefixed(&buf, []byte(p.Email)); err != nil {
			return nil, err
		}
	case *EmailChangeData:
		if err := writeLenPrefixed(&buf, []byte(p.NewEmail)); err != nil {
			return nil, err
		}
	default:
		return nil, errChallengePayloadInvalid
	}

	return buf.Bytes(), nil
}

func decodeChallengeRecord(data []byte) (*challengeRecord, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, errChallengeRecordCorrupt
	}
	if version != challengeRecordVersionV1 {
		return nil, errChallengeRecordCorrupt
	}

	purposeByte, err := reader.ReadByte()
	if err != nil {
		return nil, errChallengeRecordCorrupt
	}

	record := &challengeRecord{Purpose: Purpose(purposeByte)}

	if record.CodeHash, err = readLenPrefixed(reader); err != nil {
		return nil, errChallengeRecordCorrupt
	}

	switch record.Purpose {
	case PurposeSignUp:
		p := &SignUpData{}
		for _, field := range []*string{&p.Name, &p.Email, &p.PasswordHash} {
			raw, err := readLenPrefixed(reader)
			if err != nil {
				return nil, errChallengeRecordCorrupt
			}
			*field = string(raw)
		}
		record.Payload = p
	case PurposePasswordReset:
		raw, err := readLenPrefixed(reader)
		if err != nil {
			return nil, errChallengeRecordCorrupt
		}
		record.Payload = &PasswordResetData{Email: string(raw)}
	case PurposeEmailChange:
		raw, err := readLenPrefixed(reader)
		if err != nil {
			return nil, errChallengeRecordCorrupt
		}
		record.Payload = &EmailChangeData{NewEmail: string(raw)}
	default:
		return nil, errChallengeRecordCorrupt
	}

	return record, nil
}

func writeLenPrefixed(buf *bytes.Buffer, b []byte) error {
	if len(b) > 65535 {
		return errors.New("challenge record field too long")
	}

	buf.WriteByte(byte(len(b) >> 8))
	buf.WriteByte(byte(len(b)))
	buf.Write(b)
	return nil
}

func readLenPrefixed(reader *bytes.Reader) ([]byte, error) {
	hi, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	lo, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}

	out := make([]byte, int(hi)<<8|int(lo))
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, err
	}
	return out, nil
}
