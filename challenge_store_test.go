package goChallenge

import (
	"errors"
	"testing"
)

func TestEncodeRejectsMismatchedPayload(t *testing.T) {
	record := &challengeRecord{
		Purpose:  PurposeSignUp,
		CodeHash: []byte("hash"),
		Payload:  &PasswordResetData{Email: "a@b.c"},
	}

	if _, err := encodeChallengeRecord(record); !errors.Is(err, errChallengePayloadInvalid) {
		t.Fatalf("expected errChallengePayloadInvalid, got %v", err)
	}
	if _, err := encodeChallengeRecord(&challengeRecord{Purpose: PurposeSignUp}); !errors.Is(err, errChallengePayloadInvalid) {
		t.Fatalf("expected errChallengePayloadInvalid for nil payload, got %v", err)
	}
}

func TestDecodeRejectsCorruptRecords(t *testing.T) {
	valid, err := encodeChallengeRecord(&challengeRecord{
		Purpose:  PurposeEmailChange,
		CodeHash: []byte("hash"),
		Payload:  &EmailChangeData{NewEmail: "new@b.c"},
	})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	cases := map[string][]byte{
		"empty":           {},
		"bad version":     append([]byte{99}, valid[1:]...),
		"unknown purpose": {challengeRecordVersionV1, 99, 0, 0},
		"truncated":       valid[:len(valid)-2],
	}

	for name, data := range cases {
		if _, err := decodeChallengeRecord(data); !errors.Is(err, errChallengeRecordCorrupt) {
			t.Fatalf("%s: expected errChallengeRecordCorrupt, got %v", name, err)
		}
	}

	record, err := decodeChallengeRecord(valid)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if data, ok := record.Payload.(*EmailChangeData); !ok || data.NewEmail != "new@b.c" {
		t.Fatalf("unexpected payload: %#v", record.Payload)
	}
}
