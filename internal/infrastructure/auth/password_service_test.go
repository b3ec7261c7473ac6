package auth

import (
	"context"
	"strings"
	"testing"
)

// Low-cost parameters keep the tests fast; production costs come from config.
func testPasswordService() *PasswordServiceImpl {
	return NewPasswordService(Argon2Config{
		MemoryKB:      8 * 1024,
		Time:          1,
		Parallelism:   1,
		SaltLength:    16,
		KeyLength:     32,
		MaxConcurrent: 2,
	}).(*PasswordServiceImpl)
}

func TestPasswordService_HashAndVerify(t *testing.T) {
	svc := testPasswordService()
	ctx := context.Background()

	hash, err := svc.Hash(ctx, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("expected PHC argon2id prefix, got %q", hash)
	}

	if !svc.Verify(ctx, hash, "correct horse battery staple") {
		t.Error("correct password did not verify")
	}
	if svc.Verify(ctx, hash, "wrong password") {
		t.Error("wrong password verified")
	}
}

func TestPasswordService_HashesAreSalted(t *testing.T) {
	svc := testPasswordService()
	ctx := context.Background()

	first, err := svc.Hash(ctx, "samepassword")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	second, err := svc.Hash(ctx, "samepassword")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical")
	}
}

func TestPasswordService_VerifyMalformedHash(t *testing.T) {
	svc := testPasswordService()
	ctx := context.Background()

	tests := []struct {
		name string
		hash string
	}{
		{name: "empty", hash: ""},
		{name: "not PHC", hash: "plainly-not-a-hash"},
		{name: "wrong algorithm", hash: "$bcrypt$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA"},
		{name: "bad version", hash: "$argon2id$v=999$m=8192,t=1,p=1$c2FsdA$aGFzaA"},
		{name: "missing parameters", hash: "$argon2id$v=19$m=8192$c2FsdA$aGFzaA"},
		{name: "bad salt encoding", hash: "$argon2id$v=19$m=8192,t=1,p=1$!!$aGFzaA"},
		{name: "truncated", hash: "$argon2id$v=19$m=8192,t=1,p=1$c2FsdA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if svc.Verify(ctx, tt.hash, "anything") {
				t.Error("malformed hash must not verify")
			}
		})
	}
}

func TestPasswordService_ContextCancellation(t *testing.T) {
	svc := testPasswordService()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Fill the semaphore so acquisition has to wait on the context.
	svc.sem <- struct{}{}
	svc.sem <- struct{}{}
	defer func() { <-svc.sem; <-svc.sem }()

	if _, err := svc.Hash(ctx, "password123"); err == nil {
		t.Error("expected error when context is cancelled")
	}
	if svc.Verify(ctx, "$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA", "password123") {
		t.Error("cancelled context must not verify")
	}
}
